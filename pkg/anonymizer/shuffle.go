package anonymizer

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/pkg/errors"
	"github.com/veildb/veil/pkg/consts"
	"github.com/veildb/veil/pkg/db"
)

// shuffle replaces each value with one drawn at random from the values
// already present in the column, so the anonymized column keeps a realistic
// value distribution.
//
// Init snapshots the column's distinct values into a temporary table named
// with consts.TempPrefix; Clean drops it again. If a run dies between the
// two, `veil sweep` finds the leftover by its prefix.
type shuffle struct {
	table  string
	column string
	driver string
	conn   db.Conn
	tmp    string
}

func newShuffle(b Binding) (Anonymizer, error) {
	return &shuffle{
		table:  b.Target.Table,
		column: b.Target.Name,
		driver: b.Conn.Driver(),
		conn:   b.Conn,
		tmp:    fmt.Sprintf("%s%s_%s", consts.TempPrefix, b.Target.Table, b.Target.Name),
	}, nil
}

func (s *shuffle) Init(ctx context.Context) error {
	stmt := fmt.Sprintf(
		"CREATE TABLE %s AS SELECT DISTINCT %s AS v FROM %s WHERE %s IS NOT NULL",
		db.QuoteIdentifier(s.driver, s.tmp),
		db.QuoteIdentifier(s.driver, s.column),
		db.QuoteIdentifier(s.driver, s.table),
		db.QuoteIdentifier(s.driver, s.column),
	)

	if _, err := s.conn.Exec(ctx, stmt); err != nil {
		return errors.Wrapf(err, "failed to snapshot %q.%q for shuffling", s.table, s.column)
	}

	return nil
}

func (s *shuffle) Apply(b *db.UpdateBuilder) error {
	b.Set(s.column, goqu.L(s.expr()))
	return nil
}

func (s *shuffle) Clean(ctx context.Context) error {
	return errors.Wrapf(s.conn.DropTable(ctx, s.tmp), "failed to drop %q", s.tmp)
}

func (s *shuffle) expr() string {
	tmp := db.QuoteIdentifier(s.driver, s.tmp)

	switch s.driver {
	case "mysql":
		return fmt.Sprintf("(SELECT v FROM %s ORDER BY RAND() LIMIT 1)", tmp)
	case "postgres":
		// The correlated predicate keeps the planner from hoisting the
		// subquery out of the per-row evaluation.
		outer := db.QuoteIdentifier(s.driver, s.table) + "." + db.QuoteIdentifier(s.driver, s.column)
		return fmt.Sprintf("(SELECT v FROM %s WHERE %s IS NOT DISTINCT FROM %s ORDER BY random() LIMIT 1)", tmp, outer, outer)
	default:
		return fmt.Sprintf("(SELECT v FROM %s ORDER BY random() LIMIT 1)", tmp)
	}
}
