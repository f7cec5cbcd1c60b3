// Package postgres persists person records in PostgreSQL through a pgx
// connection pool.
//
// The schema mirrors the SQLite backend. Aliases stay in a TEXT column
// holding the same sorted JSON encoding so the prefix lookup is a strpos()
// scan. WithAliasLock takes a transaction-scoped advisory lock on the hash of
// the alias prefix, which serializes find-or-create for one alias across every
// process using the database while unrelated aliases proceed in parallel.
package postgres
