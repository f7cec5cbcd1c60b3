// Package orgtable holds the ordered mapping from raw organization spellings
// to canonical organization names.
//
// A Table is immutable once built and safe for concurrent readers. Entry order
// is significant: name parsing walks entries in table order when stripping
// organizations out of raw name strings, so the YAML source lists longer
// spellings before the abbreviations they contain. The sentinel "@skip@" marks
// spellings that are recognized but discarded.
package orgtable
