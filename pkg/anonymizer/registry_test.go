package anonymizer_test

import (
	"context"
	"testing"

	"github.com/doug-martin/goqu/v9"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veildb/veil/pkg/anonymizer"
	"github.com/veildb/veil/pkg/config"
	"github.com/veildb/veil/pkg/db"
)

type mockConn struct {
	driver  string
	execs   []string
	execErr error
	dropped []string
	tables  []string
}

func (m *mockConn) Driver() string {
	if m.driver == "" {
		return "postgres"
	}
	return m.driver
}

func (m *mockConn) Exec(_ context.Context, query string, _ ...any) (int64, error) {
	m.execs = append(m.execs, query)
	return 1, m.execErr
}

func (m *mockConn) Update(table string) *db.UpdateBuilder {
	return db.NewUpdateBuilder(goqu.Dialect(m.Driver()), table)
}

func (m *mockConn) ListTables(context.Context) ([]string, error) {
	return m.tables, nil
}

func (m *mockConn) DropTable(_ context.Context, name string) error {
	m.dropped = append(m.dropped, name)
	return nil
}

func target(kind, table, name string, options map[string]any) *config.Target {
	return &config.Target{Kind: kind, Table: table, Name: name, Options: options}
}

func TestRegistryRegisterValidation(t *testing.T) {
	r := anonymizer.NewRegistry()
	noop := func(anonymizer.Binding) (anonymizer.Anonymizer, error) { return nil, nil }

	require.NoError(t, r.Register("custom", noop))

	assert.Error(t, r.Register("", noop))
	assert.Error(t, r.Register("nilctor", nil))
	assert.Error(t, r.Register("custom", noop))
}

func TestRegistryCreateUnknownKind(t *testing.T) {
	r := anonymizer.Default()

	_, err := r.Create(target("giraffe", "users", "email", nil), &mockConn{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, anonymizer.ErrUnknownKind))
	assert.Contains(t, err.Error(), `"users"."email"`)
}

func TestRegistryKinds(t *testing.T) {
	assert.Equal(t, []string{"hash", "mask", "null", "shuffle", "static"}, anonymizer.Default().Kinds())
}

func TestRegistryCreateIsSideEffectFree(t *testing.T) {
	conn := &mockConn{}
	r := anonymizer.Default()

	for _, tgt := range []*config.Target{
		target("null", "users", "email", nil),
		target("hash", "users", "email", map[string]any{"salt": "x"}),
		target("shuffle", "users", "email", nil),
	} {
		_, err := r.Create(tgt, conn)
		require.NoError(t, err)
	}

	assert.Empty(t, conn.execs)
	assert.Empty(t, conn.dropped)
}
