package cmd

import (
	"bytes"
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/veildb/veil/pkg/config"
	"github.com/veildb/veil/pkg/consts"
)

// newLitteredDB creates a SQLite database containing one real table and one
// leftover temporary table.
func newLitteredDB(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "app.db")
	sqlDB, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer sqlDB.Close()

	_, err = sqlDB.Exec(`CREATE TABLE users (id INTEGER PRIMARY KEY, email TEXT)`)
	require.NoError(t, err)

	_, err = sqlDB.Exec(`CREATE TABLE ` + consts.TempPrefix + `users_email (v TEXT)`)
	require.NoError(t, err)

	return path
}

func tableExists(t *testing.T, path, name string) bool {
	t.Helper()

	sqlDB, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer sqlDB.Close()

	var n int
	err = sqlDB.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestSweepCommand_DryRunByDefault(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	dbPath := newLitteredDB(t, tmpDir)
	writeConfigFile(t, `
driver: sqlite3
dsn: `+dbPath+`
tables:
  users:
    email: {kind: "null"}
`)

	var buf bytes.Buffer
	app := testApp(sweep(sweepParams{Loader: config.NewLoader(consts.ConfigFile)}), &buf)

	err := app.Run(context.Background(), []string{"test"})
	require.NoError(t, err)

	output := buf.String()
	require.Contains(t, output, `found "`+consts.TempPrefix+`users_email"`)
	require.Contains(t, output, "rerun with --apply")

	// Nothing was dropped.
	require.True(t, tableExists(t, dbPath, consts.TempPrefix+"users_email"))
}

func TestSweepCommand_Apply(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	dbPath := newLitteredDB(t, tmpDir)
	writeConfigFile(t, `
driver: sqlite3
dsn: `+dbPath+`
tables:
  users:
    email: {kind: "null"}
`)

	var buf bytes.Buffer
	app := testApp(sweep(sweepParams{Loader: config.NewLoader(consts.ConfigFile)}), &buf)

	err := app.Run(context.Background(), []string{"test", "--apply"})
	require.NoError(t, err)

	output := buf.String()
	require.Contains(t, output, `dropping "`+consts.TempPrefix+`users_email"`)
	require.Contains(t, output, "1 temporary table(s) dropped")

	// The temp table is gone, the real table survives.
	require.False(t, tableExists(t, dbPath, consts.TempPrefix+"users_email"))
	require.True(t, tableExists(t, dbPath, "users"))
}

func TestSweepCommand_NothingToDo(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	dbPath := newSQLiteDB(t, tmpDir)
	writeConfigFile(t, `
driver: sqlite3
dsn: `+dbPath+`
tables:
  users:
    email: {kind: "null"}
`)

	var buf bytes.Buffer
	app := testApp(sweep(sweepParams{Loader: config.NewLoader(consts.ConfigFile)}), &buf)

	err := app.Run(context.Background(), []string{"test", "--apply"})
	require.NoError(t, err)
	require.Contains(t, buf.String(), "no temporary tables found")
}
