package anonymizer

import (
	"github.com/doug-martin/goqu/v9"
	"github.com/pkg/errors"
	"github.com/veildb/veil/pkg/db"
)

// static replaces every value in the column with a constant.
//
// Options:
//   - value: the replacement value (required)
type static struct {
	stateless

	column string
	value  string
}

func newStatic(b Binding) (Anonymizer, error) {
	value, ok := b.Target.Options["value"]
	if !ok {
		return nil, errors.Errorf("static anonymizer for %q.%q requires a value option", b.Target.Table, b.Target.Name)
	}

	s, ok := value.(string)
	if !ok {
		return nil, errors.Errorf("static anonymizer for %q.%q: value must be a string", b.Target.Table, b.Target.Name)
	}

	return &static{column: b.Target.Name, value: s}, nil
}

func (s *static) Apply(b *db.UpdateBuilder) error {
	b.Set(s.column, s.value)
	return nil
}

// null sets every value in the column to NULL.
type null struct {
	stateless

	column string
}

func newNull(b Binding) (Anonymizer, error) {
	return &null{column: b.Target.Name}, nil
}

func (n *null) Apply(b *db.UpdateBuilder) error {
	b.Set(n.column, goqu.L("NULL"))
	return nil
}
