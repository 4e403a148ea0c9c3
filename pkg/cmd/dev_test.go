package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/veildb/veil/pkg/config"
	"github.com/veildb/veil/pkg/consts"
)

func TestDevCommand_Structure(t *testing.T) {
	command := dev(devParams{Loader: config.NewLoader(consts.ConfigFile)})

	require.Equal(t, "dev", command.Name)
	require.Len(t, command.Commands, 3)

	names := make([]string, 0, len(command.Commands))
	for _, sub := range command.Commands {
		names = append(names, sub.Name)
	}
	require.ElementsMatch(t, []string{"up", "down", "status"}, names)
}

func TestDevContainerInfoRoundTrip(t *testing.T) {
	// The info file lives in os.TempDir; make sure we leave no trace.
	t.Cleanup(func() { _ = removeDevContainerInfo() })

	require.NoError(t, saveDevContainerInfo("abc123"))

	id, err := loadDevContainerInfo()
	require.NoError(t, err)
	require.Equal(t, "abc123", id)

	require.NoError(t, removeDevContainerInfo())

	id, err = loadDevContainerInfo()
	require.NoError(t, err)
	require.Empty(t, id)
}
