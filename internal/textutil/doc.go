// Package textutil provides the casing helpers shared by the name parser and
// the record renderer.
//
// Upper-casing follows full Unicode case mapping (so "ß" becomes "SS") to keep
// stored aliases comparable regardless of how the source spelled them.
// Capitalize upper-cases the first rune and lower-cases the remainder, the
// convention used for every rendered name component.
package textutil
