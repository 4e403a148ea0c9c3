package pattern_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veildb/veil/pkg/pattern"
	"gotest.tools/v3/golden"
)

// exprTest defines a single rendering test. The rendered SQL is compared
// against a golden file at testdata/<name>.sql
type exprTest struct {
	name     string
	template string
	driver   string
}

func TestTemplateExpr(t *testing.T) {
	tests := []exprTest{
		{name: "first_only_sqlite3", template: `first(2) '***'`, driver: "sqlite3"},
		{name: "last_only_postgres", template: `'***-**-' last(4)`, driver: "postgres"},
		{name: "last_only_sqlite3", template: `'***-**-' last(4)`, driver: "sqlite3"},
		{name: "first_and_last_mysql", template: `first(1) '***' last(2)`, driver: "mysql"},
		{name: "literal_only", template: `'REDACTED'`, driver: "postgres"},
		{name: "escaped_quote", template: `'it\'s gone'`, driver: "postgres"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tmpl, err := pattern.Parse(tt.template)
			require.NoError(t, err)

			golden.Assert(t, tmpl.Expr(tt.driver, "email")+"\n", tt.name+".sql")
		})
	}
}

func TestParseStructure(t *testing.T) {
	tmpl, err := pattern.Parse(`first(1) '***' last(4)`)
	require.NoError(t, err)
	require.Len(t, tmpl.Parts, 3)

	require.NotNil(t, tmpl.Parts[0].Keep)
	assert.Equal(t, "first", tmpl.Parts[0].Keep.Where)
	assert.Equal(t, 1, tmpl.Parts[0].Keep.Count)

	require.NotNil(t, tmpl.Parts[1].Lit)

	require.NotNil(t, tmpl.Parts[2].Keep)
	assert.Equal(t, "last", tmpl.Parts[2].Keep.Where)
	assert.Equal(t, 4, tmpl.Parts[2].Keep.Count)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		template string
	}{
		{name: "empty", template: ""},
		{name: "unknown directive", template: "middle(2)"},
		{name: "missing count", template: "first()"},
		{name: "unterminated literal", template: "'oops"},
		{name: "zero count", template: "first(0)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pattern.Parse(tt.template)
			require.Error(t, err)
		})
	}
}
