package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"github.com/veildb/veil/pkg/config"
	"go.uber.org/fx"
)

type targetsParams struct {
	fx.In

	Loader *config.Loader
}

// targets creates the targets command, which prints every configured table
// and column with its anonymization kind, in configuration order.
//
// Example usage:
//
//	veil targets
func targets(p targetsParams) *cli.Command {
	return &cli.Command{
		Name:   "targets",
		Usage:  "List the configured anonymization targets",
		Before: requireConfig(p.Loader),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runTargets(cmd, p)
		},
	}
}

func runTargets(cmd *cli.Command, p targetsParams) error {
	tables, err := p.Loader.AllTargets()
	if err != nil {
		return err
	}

	for _, table := range tables {
		fmt.Fprintf(cmd.Writer, "%s\n", table.Name)
		for _, target := range table.Targets {
			fmt.Fprintf(cmd.Writer, "  %-20s %s\n", target.Name, target.Kind)
		}
	}

	return nil
}
