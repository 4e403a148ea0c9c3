package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
	"github.com/veildb/veil/pkg/consts"
)

const configScaffold = `# veil anonymization rules.
#
# Every entry under tables maps a column to the strategy that rewrites it.
# Available kinds: static, null, hash, mask, shuffle.
driver: postgres
dsn: ""

# Optional SQL file applied when starting a dev sandbox (veil dev up).
# seed: testdata/seed.sql

tables:
  users:
    email: {kind: hash}
    name: {kind: mask, pattern: "first(1) '***'"}
    phone: {kind: "null"}
`

// initCmd creates the init command, which scaffolds a veil.yaml in the
// current directory.
//
// Example usage:
//
//	veil init
//	veil init --force
func initCmd() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Create a starter veil.yaml in the current directory",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "overwrite an existing veil.yaml",
				Value: false,
			},
		},
		Action: runInit,
	}
}

func runInit(ctx context.Context, cmd *cli.Command) error {
	if _, err := os.Stat(consts.ConfigFile); err == nil && !cmd.Bool("force") {
		return errors.Errorf("%s already exists (use --force to overwrite)", consts.ConfigFile)
	}

	if err := os.WriteFile(consts.ConfigFile, []byte(configScaffold), consts.ModeFile); err != nil {
		return errors.Wrapf(err, "failed to write %s", consts.ConfigFile)
	}

	fmt.Fprintf(cmd.Writer, "created %s\n", consts.ConfigFile)
	return nil
}
