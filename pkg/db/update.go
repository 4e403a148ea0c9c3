package db

import (
	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/pkg/errors"
)

// UpdateBuilder accumulates column assignments and predicates for a single
// UPDATE statement.
//
// A builder is shared by every strategy processing the same table when
// running in combined mode, so strategies must only add to it: assignments
// for their own column, and predicates that further restrict (never widen)
// the affected rows.
type UpdateBuilder struct {
	dialect goqu.DialectWrapper
	table   string
	sets    goqu.Record
	wheres  []exp.Expression
}

// NewUpdateBuilder creates an empty UPDATE builder for the given table.
func NewUpdateBuilder(dialect goqu.DialectWrapper, table string) *UpdateBuilder {
	return &UpdateBuilder{
		dialect: dialect,
		table:   table,
		sets:    goqu.Record{},
	}
}

// Table returns the table this builder targets.
func (b *UpdateBuilder) Table() string {
	return b.table
}

// Set adds a column assignment. The value may be a literal or a goqu
// expression (goqu.L, goqu.Func, subselects, ...). Assigning the same column
// twice keeps the last value.
func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.sets[column] = value
	return b
}

// Where adds predicates ANDed onto the statement.
func (b *UpdateBuilder) Where(predicates ...exp.Expression) *UpdateBuilder {
	b.wheres = append(b.wheres, predicates...)
	return b
}

// Empty reports whether no strategy has contributed an assignment yet.
func (b *UpdateBuilder) Empty() bool {
	return len(b.sets) == 0
}

// ToSQL renders the accumulated statement with dialect-appropriate quoting.
// Interpolated (non-prepared) SQL is produced so the statement can be logged
// and executed as a single string.
func (b *UpdateBuilder) ToSQL() (string, error) {
	if b.Empty() {
		return "", errors.Errorf("no assignments for table %q", b.table)
	}

	ds := b.dialect.Update(b.table).Set(b.sets)
	if len(b.wheres) > 0 {
		ds = ds.Where(b.wheres...)
	}

	query, _, err := ds.ToSQL()
	if err != nil {
		return "", errors.Wrapf(err, "failed to build UPDATE for table %q", b.table)
	}

	return query, nil
}
