package anonymizer

import (
	"context"

	"github.com/veildb/veil/pkg/config"
	"github.com/veildb/veil/pkg/db"
)

type (
	// Anonymizer is the contract every anonymization strategy implements.
	//
	// A strategy is bound to exactly one table column for the duration of one
	// table's processing. The engine drives the lifecycle: Init is called
	// once before any mutation, Apply contributes the column's assignment to
	// an UPDATE statement being built, and Clean is called exactly once when
	// the table's processing ends, whether or not anything failed in between.
	//
	// Construction must be side-effect-free on the database; all database
	// interaction belongs in Init, Apply (via the builder) and Clean.
	Anonymizer interface {
		// Init prepares any supporting state the strategy needs, such as a
		// temporary mapping table. Temporary tables must be named with
		// consts.TempPrefix so that `veil sweep` can find leftovers.
		Init(ctx context.Context) error

		// Apply contributes this column's mutation to the UPDATE statement
		// being built. In combined mode the builder is shared with the other
		// strategies of the same table, so strategies may add assignments
		// for their own column and narrowing predicates only.
		Apply(b *db.UpdateBuilder) error

		// Clean releases whatever Init created.
		Clean(ctx context.Context) error
	}

	// Binding ties a strategy to its target column and connection for the
	// scope of one table's processing.
	Binding struct {
		// Target is the column's configuration entry
		Target *config.Target

		// Conn is the shared database connection
		Conn db.Conn
	}

	// Constructor builds a strategy instance from its binding. Constructors
	// must not touch the database.
	Constructor func(Binding) (Anonymizer, error)
)

// stateless provides no-op Init and Clean for strategies that are pure SQL
// expressions over the column.
type stateless struct{}

func (stateless) Init(context.Context) error  { return nil }
func (stateless) Clean(context.Context) error { return nil }

// column returns the binding's column name quoted for the bound dialect,
// safe to interpolate into expressions.
func (b Binding) column() string {
	return db.QuoteIdentifier(b.Conn.Driver(), b.Target.Name)
}
