// Package pattern implements the small template language used by the mask
// anonymizer.
//
// A template is a sequence of parts describing how a masked value is built
// from the original column value:
//
//	first(1) '***'            -- keep the first character, append ***
//	'***-**-' last(4)         -- static prefix, keep the last 4 characters
//	'REDACTED'                -- replace the value entirely
//
// Templates compile to a SQL expression over the column, so masking happens
// in the database without the values ever leaving it.
package pattern

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
)

type (
	// Template is a parsed mask template.
	Template struct {
		Parts []*Part `parser:"@@+"`
	}

	// Part is one element of a template: either a keep directive or a
	// string literal.
	Part struct {
		Keep *Keep   `parser:"@@"`
		Lit  *string `parser:"| @String"`
	}

	// Keep preserves a run of characters from the original value.
	Keep struct {
		Where string `parser:"@('first' | 'last')"`
		Count int    `parser:"'(' @Number ')'"`
	}
)

var (
	templateLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "String", Pattern: `'([^'\\]|\\.)*'`},
		{Name: "Number", Pattern: `\d+`},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
		{Name: "Punct", Pattern: `[()]`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	templateParser = participle.MustBuild[Template](
		participle.Lexer(templateLexer),
		participle.Elide("Whitespace"),
	)
)

// Parse parses a mask template string.
func Parse(input string) (*Template, error) {
	tmpl, err := templateParser.ParseString("", input)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid mask template %q", input)
	}

	for _, part := range tmpl.Parts {
		if part.Keep != nil && part.Keep.Count == 0 {
			return nil, errors.Errorf("invalid mask template %q: %s(0) keeps nothing", input, part.Keep.Where)
		}
	}

	return tmpl, nil
}

// Expr renders the template as a SQL expression over the named column for
// the given driver. The column name must already be safe to interpolate.
func (t *Template) Expr(driver, column string) string {
	parts := make([]string, 0, len(t.Parts))
	for _, part := range t.Parts {
		parts = append(parts, part.expr(driver, column))
	}

	if len(parts) == 1 {
		return parts[0]
	}

	// MySQL has no || concatenation operator by default.
	if driver == "mysql" {
		return "CONCAT(" + strings.Join(parts, ", ") + ")"
	}

	return strings.Join(parts, " || ")
}

func (p *Part) expr(driver, column string) string {
	if p.Keep != nil {
		return p.Keep.expr(driver, column)
	}

	return quoteLiteral(p.literal())
}

func (k *Keep) expr(driver, column string) string {
	if k.Where == "first" {
		return fmt.Sprintf("SUBSTR(%s, 1, %d)", column, k.Count)
	}

	// Postgres rejects negative SUBSTR offsets, but has RIGHT.
	if driver == "postgres" {
		return fmt.Sprintf("RIGHT(%s, %d)", column, k.Count)
	}

	return fmt.Sprintf("SUBSTR(%s, -%d)", column, k.Count)
}

// literal strips the surrounding quotes and unescapes the token text.
func (p *Part) literal() string {
	raw := *p.Lit
	raw = raw[1 : len(raw)-1]
	raw = strings.ReplaceAll(raw, `\'`, `'`)
	raw = strings.ReplaceAll(raw, `\\`, `\`)
	return raw
}

// quoteLiteral renders a SQL string literal with single quotes doubled.
func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
