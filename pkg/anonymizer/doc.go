// Package anonymizer defines the strategy contract for column anonymization
// and ships the built-in strategies.
//
// A strategy ("anonymizer") is bound to one table column and contributes that
// column's mutation to an UPDATE statement. Strategies are resolved by kind
// through a Registry, constructed without touching the database, and driven
// through an Init / Apply / Clean lifecycle by the execution engine.
//
// Built-in kinds:
//   - static: replace with a constant value
//   - null: set to NULL
//   - hash: replace with a salted digest of the value
//   - mask: rewrite via a mask template (see package pattern)
//   - shuffle: redistribute the column's existing values
package anonymizer
