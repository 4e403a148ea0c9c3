package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/veildb/veil/pkg/config"
	"github.com/veildb/veil/pkg/consts"
)

func TestTargetsCommand(t *testing.T) {
	t.Chdir(t.TempDir())

	writeConfigFile(t, `
driver: sqlite3
tables:
  users:
    email: {kind: hash}
    name: {kind: mask, pattern: "first(1) '***'"}
  orders:
    note: {kind: "null"}
`)

	var buf bytes.Buffer
	app := testApp(targets(targetsParams{Loader: config.NewLoader(consts.ConfigFile)}), &buf)

	err := app.Run(context.Background(), []string{"test"})
	require.NoError(t, err)

	output := buf.String()
	require.Contains(t, output, "users\n")
	require.Contains(t, output, "email")
	require.Contains(t, output, "hash")
	require.Contains(t, output, "mask")
	require.Contains(t, output, "orders\n")

	// Configuration order is preserved.
	require.Less(t, strings.Index(output, "users"), strings.Index(output, "orders"))
	require.Less(t, strings.Index(output, "email"), strings.Index(output, "name"))
}

func TestTargetsCommand_MissingConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	var buf bytes.Buffer
	app := testApp(targets(targetsParams{Loader: config.NewLoader(consts.ConfigFile)}), &buf)

	err := app.Run(context.Background(), []string{"test"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load veil.yaml")
}
