package cmd

import "go.uber.org/fx"

var Module = fx.Module("cli",
	fx.Provide(
		fx.Annotate(anonymize, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(dev, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(initCmd, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(sweep, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(targets, fx.ResultTags(`group:"commands"`)),
	),
	fx.Invoke(Run),
)
