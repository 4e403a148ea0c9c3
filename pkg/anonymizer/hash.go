package anonymizer

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/veildb/veil/pkg/db"
)

// hash replaces each value with a digest of the value itself, so equal
// inputs stay equal after anonymization (useful for join keys).
//
// Options:
//   - salt: string mixed into the digest (optional)
//
// SQLite has no built-in digest function, so on sqlite3 the column is
// replaced with random hex instead; equal inputs do NOT stay equal there.
type hash struct {
	stateless

	column string
	driver string
	salt   string
}

func newHash(b Binding) (Anonymizer, error) {
	return &hash{
		column: b.Target.Name,
		driver: b.Conn.Driver(),
		salt:   b.Target.StringOption("salt", ""),
	}, nil
}

func (h *hash) Apply(b *db.UpdateBuilder) error {
	b.Set(h.column, goqu.L(h.expr()))
	return nil
}

func (h *hash) expr() string {
	col := db.QuoteIdentifier(h.driver, h.column)
	salt := "'" + h.salt + "'"

	switch h.driver {
	case "mysql":
		return fmt.Sprintf("MD5(CONCAT(COALESCE(%s, ''), %s))", col, salt)
	case "sqlite3":
		return "lower(hex(randomblob(16)))"
	default:
		return fmt.Sprintf("md5(COALESCE(%s, '') || %s)", col, salt)
	}
}
