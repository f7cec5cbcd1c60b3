// Package sqlite persists person records and the document index in a single
// SQLite file.
//
// Aliases and positions are stored as JSON objects with sorted keys, so the
// alias prefix lookup is a plain instr() scan over the aliases column. The
// connection opens every transaction with BEGIN IMMEDIATE; WithAliasLock uses
// that write lock to make find-or-create atomic across processes sharing the
// file.
//
// Schema changes bump schemaVersion in schema.go. An existing database with a
// different version is rejected with store.ErrSchemaMismatch rather than
// migrated.
package sqlite
