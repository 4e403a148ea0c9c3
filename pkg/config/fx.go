package config

import (
	"go.uber.org/fx"

	"github.com/veildb/veil/pkg/consts"
)

var Module = fx.Module("config", fx.Provide(
	// The loader defers reading veil.yaml until a command actually needs the
	// configuration, so commands like init, help and version work in
	// directories that have no project file.
	func() *Loader {
		return NewLoader(consts.ConfigFile)
	},
))
