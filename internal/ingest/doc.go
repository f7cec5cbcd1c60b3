// Package ingest loads a CSV document index, resolves every author and
// recipient name to a person record and links the two.
//
// Each run holds an exclusive file lock, carries a random run id through the
// context for log correlation, and returns a Summary of what it did. Rows
// without a tid are skipped; store failures abort the run.
package ingest
