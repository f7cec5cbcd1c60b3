// Package resolver maps a raw alias onto a single stored person record,
// creating the record on first sight.
//
// Lookup is a prefix match on the serialized alias multiset: the alias is
// upper-cased, JSON-quoted and stripped of its closing quote, so "DUNN, WL"
// finds a record carrying "DUNN, WL, PHILIP MORRIS" but not "MACDUNN, WL".
// When several records match, the first one in store order wins and the
// resolution is flagged ambiguous.
//
// Concurrent calls for the same alias are collapsed in-process with
// singleflight; stores that implement Locker additionally serialize the
// find-or-create step across processes.
package resolver
