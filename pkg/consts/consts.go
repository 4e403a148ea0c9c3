package consts

import "os"

const (
	// ModeDir is the standard file mode for creating directories
	ModeDir = os.FileMode(0o755)

	// ModeFile is the standard file mode for creating files
	ModeFile = os.FileMode(0o644)

	// ConfigFile is the name of the project configuration file
	ConfigFile = "veil.yaml"

	// TempPrefix is the reserved name prefix for temporary tables created by
	// anonymization strategies. Anything in the schema whose name starts with
	// this prefix is considered disposable by `veil sweep`.
	TempPrefix = "_veil_tmp_"

	// DefaultDriver is the database driver used when none is configured
	DefaultDriver = "postgres"
)
