// Package db provides the database connection layer: driver-validated
// connections over database/sql, dialect-aware UPDATE building via goqu,
// schema introspection, and identifier quoting.
//
// Supported drivers are postgres (via pgx), mysql and sqlite3. The rest of
// the system talks to the database exclusively through the narrow Conn
// interface, which keeps strategies and the engine testable with in-memory
// fakes.
package db
