package names

import (
	"regexp"
	"strings"
)

const logTagMarker = "[Privlog:]"

var suffixTokenPattern = regexp.MustCompile(`^[A-Z][a-z]+-[A-Z]{1,2}(-Jr|-Sr|-III)`)

// Normalize applies the raw cleanup passes in order: log-tag stripping,
// suffix-token removal and dash-joined initials.
func Normalize(raw string) string {
	s := StripLogTag(raw)
	s = RemoveSuffixToken(s)
	return FixDashedInitials(s)
}

// StripLogTag drops everything from a trailing "[Privlog:]" marker onwards.
// A marker at the very start leaves the string unchanged.
func StripLogTag(raw string) string {
	idx := strings.Index(raw, logTagMarker)
	if idx <= 0 {
		return raw
	}
	return raw[:idx]
}

// RemoveSuffixToken removes a generational suffix glued to dashed initials,
// e.g. "Chumney-RD-Jr, x" becomes "Chumney-RD, x". Every occurrence of the
// matched suffix text is removed.
func RemoveSuffixToken(raw string) string {
	match := suffixTokenPattern.FindStringSubmatch(raw)
	if match == nil {
		return raw
	}
	return strings.ReplaceAll(raw, match[1], "")
}

// FixDashedInitials replaces the dash in "DUNN-W" or "DUNN-WL" with a space.
// Strings too short to carry the dash are returned unchanged.
func FixDashedInitials(raw string) string {
	r := []rune(raw)
	n := len(r)
	if n >= 2 && r[n-2] == '-' {
		r[n-2] = ' '
	}
	if n > 2 && r[n-3] == '-' {
		r[n-3] = ' '
	}
	return string(r)
}
