// Package sqlstore implements driven.AnnotationStore over database/sql.
//
// The SQLite and PostgreSQL adapters open their own connections and hand
// the *sql.DB to this package together with a Dialect, which decides the
// placeholder syntax. Both schemas keep the same column names so the
// queries are shared.
package sqlstore
