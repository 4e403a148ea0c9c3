package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"
	"github.com/veildb/veil/pkg/anonymizer"
	"github.com/veildb/veil/pkg/config"
	"github.com/veildb/veil/pkg/engine"
	"go.uber.org/fx"
)

type anonymizeParams struct {
	fx.In

	Loader *config.Loader
}

// anonymize creates the anonymize command, the main entry point for running
// the configured rules against the target database.
//
// Command flags:
//   - --dsn: database connection string (overrides veil.yaml)
//   - --exclude: tables or columns to skip (repeatable)
//   - --only: restrict the run to specific tables or columns (repeatable)
//   - --per-column: one UPDATE per column instead of one per table
//
// Example usage:
//
//	# Anonymize everything declared in veil.yaml
//	veil anonymize --dsn postgres://localhost:5432/app
//
//	# Everything except the orders table
//	veil anonymize --exclude orders
//
//	# Just one column, with a dedicated UPDATE per column
//	veil anonymize --only users.email --per-column
func anonymize(p anonymizeParams) *cli.Command {
	return &cli.Command{
		Name:  "anonymize",
		Usage: "Anonymize the target database in place",
		Description: `Run every anonymization rule declared in veil.yaml against the target
database. Columns are rewritten in place; there is no undo.

By default all rules for a table are combined into a single UPDATE
statement. Use --per-column to run one UPDATE per column instead, which
trades speed for smaller lock scope and finer-grained progress.

The --exclude and --only flags are mutually exclusive. Both accept bare
table names ("users") or qualified columns ("users.email").`,
		Before: requireConfig(p.Loader),
		Flags: []cli.Flag{
			dsnFlag(),
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "table or column to skip (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:  "only",
				Usage: "restrict the run to this table or column (repeatable)",
			},
			&cli.BoolFlag{
				Name:  "per-column",
				Usage: "execute one UPDATE per column instead of one per table",
				Value: false,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runAnonymize(ctx, cmd, p)
		},
	}
}

func runAnonymize(ctx context.Context, cmd *cli.Command, p anonymizeParams) error {
	conn, err := openConn(cmd, p.Loader)
	if err != nil {
		return err
	}
	defer conn.Close()

	eng := engine.New(engine.Config{
		Source:  p.Loader,
		Conn:    conn,
		Factory: anonymizer.Default(),
	})

	count, err := eng.Count()
	if err != nil {
		return err
	}

	slog.Info("Starting anonymization",
		"tables", count,
		"perColumn", cmd.Bool("per-column"),
	)

	events, err := eng.Anonymize(ctx, engine.Options{
		Excluded:  cmd.StringSlice("exclude"),
		Only:      cmd.StringSlice("only"),
		PerColumn: cmd.Bool("per-column"),
	})
	if err != nil {
		return err
	}

	for line, err := range events {
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.Writer, line)
	}

	return nil
}
