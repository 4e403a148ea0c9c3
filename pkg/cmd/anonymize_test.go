package cmd

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
	"github.com/veildb/veil/pkg/config"
	"github.com/veildb/veil/pkg/consts"
)

// writeConfigFile writes a veil.yaml into the current directory.
func writeConfigFile(t *testing.T, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(consts.ConfigFile, []byte(content), consts.ModeFile))
}

// newSQLiteDB creates a SQLite database file with a small users table.
func newSQLiteDB(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "app.db")
	sqlDB, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer sqlDB.Close()

	_, err = sqlDB.Exec(`CREATE TABLE users (id INTEGER PRIMARY KEY, email TEXT, name TEXT)`)
	require.NoError(t, err)

	_, err = sqlDB.Exec(`INSERT INTO users (email, name) VALUES
		('alice@example.com', 'Alice'),
		('bob@example.com', 'Bob')`)
	require.NoError(t, err)

	return path
}

// testApp wraps a command in a minimal CLI app so flags and hooks resolve.
func testApp(command *cli.Command, buf *bytes.Buffer) *cli.Command {
	return &cli.Command{
		Name:   "test",
		Flags:  command.Flags,
		Before: command.Before,
		Action: command.Action,
		Writer: buf,
	}
}

func TestAnonymizeCommand_EndToEnd(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	dbPath := newSQLiteDB(t, tmpDir)
	writeConfigFile(t, `
driver: sqlite3
dsn: `+dbPath+`
tables:
  users:
    email: {kind: static, value: "redacted@example.com"}
`)

	var buf bytes.Buffer
	app := testApp(anonymize(anonymizeParams{Loader: config.NewLoader(consts.ConfigFile)}), &buf)

	err := app.Run(context.Background(), []string{"test"})
	require.NoError(t, err)

	output := buf.String()
	require.Contains(t, output, `table 1/1: "users" ("email")`)
	require.Contains(t, output, "updated 2 rows")

	// Verify the data was actually rewritten.
	sqlDB, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	defer sqlDB.Close()

	rows, err := sqlDB.Query(`SELECT DISTINCT email FROM users`)
	require.NoError(t, err)
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		require.NoError(t, rows.Scan(&email))
		emails = append(emails, email)
	}
	require.NoError(t, rows.Err())
	require.Equal(t, []string{"redacted@example.com"}, emails)
}

func TestAnonymizeCommand_BothFilters(t *testing.T) {
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
	app := testApp(anonymize(anonymizeParams{Loader: config.NewLoader(consts.ConfigFile)}), &buf)

	err := app.Run(context.Background(), []string{"test", "--only", "users", "--exclude", "users"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "mutually exclusive")
}

func TestAnonymizeCommand_MissingConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	var buf bytes.Buffer
	app := testApp(anonymize(anonymizeParams{Loader: config.NewLoader(consts.ConfigFile)}), &buf)

	err := app.Run(context.Background(), []string{"test"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load veil.yaml")
}

func TestAnonymizeCommand_MissingDSN(t *testing.T) {
	t.Chdir(t.TempDir())

	writeConfigFile(t, `
driver: sqlite3
tables:
  users:
    email: {kind: "null"}
`)

	var buf bytes.Buffer
	app := testApp(anonymize(anonymizeParams{Loader: config.NewLoader(consts.ConfigFile)}), &buf)

	err := app.Run(context.Background(), []string{"test"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "no connection string provided")
}

func TestAnonymizeCommand_FlagConfiguration(t *testing.T) {
	command := anonymize(anonymizeParams{Loader: config.NewLoader(consts.ConfigFile)})

	require.Equal(t, "anonymize", command.Name)
	require.Len(t, command.Flags, 4)
}
