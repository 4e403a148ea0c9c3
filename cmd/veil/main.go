package main

import (
	"context"
	"os"

	"github.com/veildb/veil/pkg/cmd"
	"github.com/veildb/veil/pkg/config"
	"go.uber.org/fx"
)

// NB: These are set by GoReleaser during a build.
var (
	version   string
	commit    string
	timestamp string
)

func main() {
	fx.New(
		fx.NopLogger,
		fx.Provide(
			context.Background,
			func() []string { return os.Args },
		),
		fx.Supply(&cmd.Version{
			Version:   version,
			Commit:    commit,
			Timestamp: timestamp,
		}),
		config.Module,
		cmd.Module,
	).Run()
}
