package names

import "regexp"

var alphaOnly = regexp.MustCompile(`^[a-zA-Z]+$`)

// LooksValid reports whether the components look like a person rather than an
// organization or a parsing accident: last and first must be purely
// alphabetic, and middle must be empty or purely alphabetic.
func LooksValid(last, first, middle string) bool {
	if !alphaOnly.MatchString(last) || !alphaOnly.MatchString(first) {
		return false
	}
	return middle == "" || alphaOnly.MatchString(middle)
}
