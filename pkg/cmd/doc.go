// Package cmd provides CLI commands for the veil tool.
//
// This package implements the command-line interface for veil, providing
// commands for running anonymization, inspecting configured targets,
// cleaning up leftover temporary tables, and managing a local PostgreSQL
// sandbox.
//
// # Available Commands
//
// The cmd package currently provides:
//   - anonymize: Run the configured rules against the target database
//   - targets: List the configured tables and columns with their kinds
//   - sweep: Find (and optionally drop) leftover temporary tables
//   - init: Scaffold a starter veil.yaml
//   - dev: Start/stop a disposable PostgreSQL sandbox
//
// # Command Structure
//
// Each command is implemented as a separate function that returns a
// *cli.Command, following the urfave/cli/v3 pattern. Commands are wired
// together with fx and share a lazy config.Loader, so the configuration
// file is read at most once per invocation and only by commands that
// need it.
//
// # Global Options
//
// All commands support global flags:
//   - --dir, -d: Specify project directory (defaults to current directory)
//   - --help, -h: Display command help
//   - --version: Display version information
//
// # Example Usage
//
//	veil init                                          # Scaffold veil.yaml
//	veil targets                                       # Show configured rules
//	veil anonymize --dsn postgres://host:5432/app      # Run the rules
//	veil anonymize --only users.email --per-column     # Narrow the run
//	veil sweep --dsn postgres://host:5432/app --apply  # Drop leftovers
//	veil dev up                                        # Local sandbox
package cmd
