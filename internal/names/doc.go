// Package names turns noisy archival name strings into structured person
// names.
//
// Parsing runs in passes: log-tag and suffix-token cleanup, extraction of
// dash-delimited and parenthesized positions, table-driven organization
// extraction, a speculative trailing-clause extraction, and finally a
// rule-based split into first, middle and last name followed by a series of
// corrections tuned for initials-heavy metadata ("DUNN WL", "Temko-SL").
//
// Every function in this package is total: malformed input produces a
// best-effort (possibly empty) result rather than an error. A Parser holds
// only immutable state and is safe for concurrent use.
package names
