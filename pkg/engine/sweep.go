package engine

import (
	"context"
	"iter"
	"strings"

	"github.com/pkg/errors"
	"github.com/veildb/veil/pkg/consts"
)

// Sweep scans the schema for leftover temporary tables carrying the reserved
// consts.TempPrefix and returns them as a lazy stream of identifiers.
//
// With dryRun true (the default for the CLI), matching tables are only
// reported. With dryRun false each table is emitted first, then dropped, so
// the caller always sees what is about to be removed. The prefix convention
// is the sole safety mechanism: anything else that happens to share the
// prefix will be swept too.
func (e *Engine) Sweep(ctx context.Context, dryRun bool) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		tables, err := e.conn.ListTables(ctx)
		if err != nil {
			yield("", errors.Wrap(err, "failed to list tables"))
			return
		}

		for _, name := range tables {
			if !strings.HasPrefix(name, consts.TempPrefix) {
				continue
			}

			if !yield(name, nil) {
				return
			}

			if dryRun {
				continue
			}

			if err := e.conn.DropTable(ctx, name); err != nil {
				yield("", err)
				return
			}
		}
	}
}
