package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// tableQueries lists all table-like objects in the current schema, per
// driver. System tables are excluded where the dialect allows it.
var tableQueries = map[string]string{
	"postgres": `SELECT tablename FROM pg_catalog.pg_tables WHERE schemaname = current_schema() ORDER BY tablename`,
	"mysql":    `SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE() ORDER BY table_name`,
	"sqlite3":  `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`,
}

// ListTables returns the names of all table-like objects visible in the
// current schema, sorted by name.
func (d *DB) ListTables(ctx context.Context) ([]string, error) {
	query, ok := tableQueries[d.driver]
	if !ok {
		return nil, errors.Errorf("no table listing for driver %q", d.driver)
	}

	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tables")
	}
	defer func() { _ = rows.Close() }()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.Wrap(err, "failed to scan table name")
		}
		tables = append(tables, name)
	}

	return tables, rows.Err()
}

// DropTable removes the named table if it exists.
func (d *DB) DropTable(ctx context.Context, name string) error {
	_, err := d.db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", QuoteIdentifier(d.driver, name)))
	return errors.Wrapf(err, "failed to drop table %q", name)
}

// QuoteIdentifier quotes a single identifier for the given driver. MySQL
// uses backticks, everything else ANSI double quotes.
func QuoteIdentifier(driver, name string) string {
	if driver == "mysql" {
		return "`" + strings.ReplaceAll(name, "`", "``") + "`"
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
