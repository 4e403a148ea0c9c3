package db

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"
	"github.com/pkg/errors"

	// SQL drivers and the matching goqu dialects.
	_ "github.com/doug-martin/goqu/v9/dialect/mysql"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

type (
	// Conn is the database surface the anonymization engine and the
	// strategies operate against. Implementations execute one statement at a
	// time; no transaction wrapping is imposed.
	Conn interface {
		// Driver returns the configured driver name. Strategies use it to
		// emit dialect-specific expressions.
		Driver() string

		// Exec runs a statement and returns the number of affected rows.
		Exec(ctx context.Context, query string, args ...any) (int64, error)

		// Update returns a fresh UPDATE builder scoped to one table, quoted
		// per the active SQL dialect.
		Update(table string) *UpdateBuilder

		// ListTables returns the names of all table-like objects visible in
		// the current schema.
		ListTables(ctx context.Context) ([]string, error)

		// DropTable removes the named table.
		DropTable(ctx context.Context, name string) error
	}

	// DB is a database connection bound to a SQL dialect.
	DB struct {
		db      *sql.DB
		driver  string
		dialect goqu.DialectWrapper
	}
)

// sqlDrivers maps configured driver names to registered database/sql drivers.
var sqlDrivers = map[string]string{
	"postgres": "pgx",
	"mysql":    "mysql",
	"sqlite3":  "sqlite3",
}

// Open connects to a database using the given driver name and DSN.
//
// Supported drivers are postgres, mysql and sqlite3. The driver name selects
// both the database/sql driver and the goqu dialect used for statement
// building.
//
// Example:
//
//	conn, err := db.Open("postgres", "postgres://localhost:5432/app")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conn.Close()
func Open(driver, dsn string) (*DB, error) {
	name, ok := sqlDrivers[driver]
	if !ok {
		return nil, errors.Errorf("unsupported driver %q (supported: postgres, mysql, sqlite3)", driver)
	}

	sqlDB, err := sql.Open(name, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s connection", driver)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, errors.Wrapf(err, "failed to ping %s database", driver)
	}

	return New(sqlDB, driver), nil
}

// New wraps an existing *sql.DB with the dialect for the given driver name.
// Callers remain responsible for closing the underlying handle.
func New(sqlDB *sql.DB, driver string) *DB {
	return &DB{
		db:      sqlDB,
		driver:  driver,
		dialect: goqu.Dialect(driver),
	}
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// Driver returns the configured driver name (postgres, mysql or sqlite3).
func (d *DB) Driver() string {
	return d.driver
}

// Exec runs a statement and returns the number of affected rows.
func (d *DB) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := d.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	// Some drivers cannot report affected rows for every statement kind.
	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}

	return n, nil
}

// Update returns a fresh UPDATE builder for the given table using this
// connection's dialect.
func (d *DB) Update(table string) *UpdateBuilder {
	return NewUpdateBuilder(d.dialect, table)
}
