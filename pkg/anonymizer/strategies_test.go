package anonymizer_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veildb/veil/pkg/anonymizer"
	"github.com/veildb/veil/pkg/consts"
)

// buildSQL creates the strategy, applies it to a fresh builder for its table
// and renders the resulting UPDATE.
func buildSQL(t *testing.T, conn *mockConn, kind, table, column string, options map[string]any) string {
	t.Helper()

	strategy, err := anonymizer.Default().Create(target(kind, table, column, options), conn)
	require.NoError(t, err)

	b := conn.Update(table)
	require.NoError(t, strategy.Apply(b))

	query, err := b.ToSQL()
	require.NoError(t, err)
	return query
}

func TestStaticApply(t *testing.T) {
	conn := &mockConn{driver: "postgres"}
	query := buildSQL(t, conn, "static", "users", "name", map[string]any{"value": "anonymous"})
	assert.Equal(t, `UPDATE "users" SET "name"='anonymous'`, query)
}

func TestStaticRequiresValue(t *testing.T) {
	_, err := anonymizer.Default().Create(target("static", "users", "name", nil), &mockConn{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a value option")
}

func TestNullApply(t *testing.T) {
	conn := &mockConn{driver: "postgres"}
	query := buildSQL(t, conn, "null", "orders", "note", nil)
	assert.Equal(t, `UPDATE "orders" SET "note"=NULL`, query)
}

func TestHashApply(t *testing.T) {
	tests := []struct {
		driver string
		want   string
	}{
		{driver: "postgres", want: `UPDATE "users" SET "email"=md5(COALESCE("email", '') || 's3cr3t')`},
		{driver: "mysql", want: "UPDATE `users` SET `email`=MD5(CONCAT(COALESCE(`email`, ''), 's3cr3t'))"},
	}

	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			conn := &mockConn{driver: tt.driver}
			query := buildSQL(t, conn, "hash", "users", "email", map[string]any{"salt": "s3cr3t"})
			assert.Equal(t, tt.want, query)
		})
	}
}

func TestHashSQLiteFallsBackToRandom(t *testing.T) {
	conn := &mockConn{driver: "sqlite3"}
	query := buildSQL(t, conn, "hash", "users", "email", nil)
	assert.Contains(t, query, "randomblob")
}

func TestMaskApply(t *testing.T) {
	conn := &mockConn{driver: "postgres"}
	query := buildSQL(t, conn, "mask", "users", "email", map[string]any{"pattern": `first(1) '***' last(4)`})
	assert.Equal(t, `UPDATE "users" SET "email"=SUBSTR("email", 1, 1) || '***' || RIGHT("email", 4)`, query)
}

func TestMaskRequiresValidPattern(t *testing.T) {
	_, err := anonymizer.Default().Create(target("mask", "users", "email", nil), &mockConn{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a pattern option")

	_, err = anonymizer.Default().Create(target("mask", "users", "email", map[string]any{"pattern": "middle(2)"}), &mockConn{})
	require.Error(t, err)
}

func TestShuffleLifecycle(t *testing.T) {
	conn := &mockConn{driver: "postgres"}
	strategy, err := anonymizer.Default().Create(target("shuffle", "users", "city", nil), conn)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, strategy.Init(ctx))
	require.Len(t, conn.execs, 1)
	assert.Contains(t, conn.execs[0], "CREATE TABLE")
	assert.Contains(t, conn.execs[0], consts.TempPrefix+"users_city")
	assert.Contains(t, conn.execs[0], "SELECT DISTINCT")

	b := conn.Update("users")
	require.NoError(t, strategy.Apply(b))
	query, err := b.ToSQL()
	require.NoError(t, err)
	assert.Contains(t, query, "ORDER BY random()")
	assert.True(t, strings.HasPrefix(query, `UPDATE "users" SET "city"=(SELECT v FROM`))

	require.NoError(t, strategy.Clean(ctx))
	assert.Equal(t, []string{consts.TempPrefix + "users_city"}, conn.dropped)
}
