// Package store provides a SQLite-backed JSON document store that executes
// predicate expressions.
//
// Documents are grouped into collections. Each collection is a table
//
//	seq INTEGER   -- logical write clock, insertion order
//	id  TEXT      -- caller-supplied key, unique within the collection
//	doc TEXT      -- the entity encoded as JSON
//
// Filters are compiled by querysql with fields read through
// json_extract(doc, '$.field'), so a document matches a query exactly when
// the in-memory Expr.Match accepts the decoded entity.
//
// # Deterministic Query Results
//
// All queries order by seq ASC, id ASC COLLATE BINARY. Re-inserting a
// document replaces its body but keeps its seq.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - One open connection: SQLite allows a single writer
package store
