package anonymizer

import (
	"github.com/doug-martin/goqu/v9"
	"github.com/pkg/errors"
	"github.com/veildb/veil/pkg/db"
	"github.com/veildb/veil/pkg/pattern"
)

// mask rewrites each value according to a mask template, keeping selected
// runs of the original characters.
//
// Options:
//   - pattern: mask template, e.g. "first(1) '***' last(4)" (required)
type mask struct {
	stateless

	column   string
	driver   string
	template *pattern.Template
}

func newMask(b Binding) (Anonymizer, error) {
	raw := b.Target.StringOption("pattern", "")
	if raw == "" {
		return nil, errors.Errorf("mask anonymizer for %q.%q requires a pattern option", b.Target.Table, b.Target.Name)
	}

	tmpl, err := pattern.Parse(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "mask anonymizer for %q.%q", b.Target.Table, b.Target.Name)
	}

	return &mask{
		column:   b.Target.Name,
		driver:   b.Conn.Driver(),
		template: tmpl,
	}, nil
}

func (m *mask) Apply(b *db.UpdateBuilder) error {
	col := db.QuoteIdentifier(m.driver, m.column)
	b.Set(m.column, goqu.L(m.template.Expr(m.driver, col)))
	return nil
}
