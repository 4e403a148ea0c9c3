// Package engine implements the anonymization orchestrator.
//
// The engine turns the loaded configuration into a plan (which tables, which
// columns, in which order), drives each table's strategy lifecycle
// (construct, initialize, contribute to mutation, clean up), executes the
// resulting UPDATE statements, and reports progress as a lazy, pull-driven
// stream of text lines. Cleanup of a table's strategies runs on every exit
// path once initialization has begun, including failures mid-table.
//
// The package also hosts the sweeper, which finds (and optionally drops)
// leftover temporary tables by their reserved name prefix.
package engine
