package cmd

import (
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
	"github.com/veildb/veil/pkg/config"
	"github.com/veildb/veil/pkg/db"
)

// dsnFlag is the connection string flag shared by every command that talks
// to the target database.
func dsnFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "dsn",
		Usage: "database connection string (overrides dsn from veil.yaml)",
		Config: cli.StringConfig{
			TrimSpace: true,
		},
	}
}

// openConn resolves the driver and DSN from the configuration (with the
// --dsn flag taking precedence) and opens a verified connection.
func openConn(cmd *cli.Command, loader *config.Loader) (*db.DB, error) {
	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}

	dsn := cmd.String("dsn")
	if dsn == "" {
		dsn = cfg.DSN
	}
	if dsn == "" {
		return nil, errors.New("no connection string provided (set dsn in veil.yaml or pass --dsn)")
	}

	return db.Open(cfg.Driver, dsn)
}
