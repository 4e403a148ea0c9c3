package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"github.com/veildb/veil/pkg/anonymizer"
	"github.com/veildb/veil/pkg/config"
	"github.com/veildb/veil/pkg/consts"
	"github.com/veildb/veil/pkg/engine"
	"go.uber.org/fx"
)

type sweepParams struct {
	fx.In

	Loader *config.Loader
}

// sweep creates the sweep command for finding (and optionally dropping)
// temporary tables left behind by interrupted runs.
//
// Temporary tables are recognized purely by the reserved name prefix, so
// sweep is safe to run at any time: a clean database yields an empty report.
//
// Example usage:
//
//	# List leftover temporary tables
//	veil sweep --dsn postgres://localhost:5432/app
//
//	# Drop them
//	veil sweep --dsn postgres://localhost:5432/app --apply
func sweep(p sweepParams) *cli.Command {
	return &cli.Command{
		Name:  "sweep",
		Usage: "Find and remove leftover temporary tables",
		Description: fmt.Sprintf(`Scan the target database for temporary tables whose names carry the
reserved %q prefix and report them. Nothing is dropped unless --apply
is passed.

Stateful strategies (like shuffle) create temporary tables during a run and
normally remove them when the run finishes. A killed process can leave them
behind; sweep cleans up after it.`, consts.TempPrefix),
		Before: requireConfig(p.Loader),
		Flags: []cli.Flag{
			dsnFlag(),
			&cli.BoolFlag{
				Name:  "apply",
				Usage: "drop the matching tables instead of just listing them",
				Value: false,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runSweep(ctx, cmd, p)
		},
	}
}

func runSweep(ctx context.Context, cmd *cli.Command, p sweepParams) error {
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

	apply := cmd.Bool("apply")

	found := 0
	for name, err := range eng.Sweep(ctx, !apply) {
		if err != nil {
			return err
		}

		found++
		if apply {
			fmt.Fprintf(cmd.Writer, "dropping %q\n", name)
		} else {
			fmt.Fprintf(cmd.Writer, "found %q\n", name)
		}
	}

	switch {
	case found == 0:
		fmt.Fprintln(cmd.Writer, "no temporary tables found")
	case !apply:
		fmt.Fprintf(cmd.Writer, "%d temporary table(s) found; rerun with --apply to drop them\n", found)
	default:
		fmt.Fprintf(cmd.Writer, "%d temporary table(s) dropped\n", found)
	}

	return nil
}
