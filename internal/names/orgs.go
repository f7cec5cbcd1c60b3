package names

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var trailingClause = regexp.MustCompile(`,.+$`)

// ExtractOrganizations removes organization mentions from raw and returns the
// residual name together with the clean organization names it found.
//
// Table entries are applied in table order, each repeatedly against its last
// whole-word occurrence. Spellings of three or more characters are always
// removed. Two-letter spellings could just as well be initials ("TEMKO PM"),
// so they are only removed when what remains still splits into a first (or
// middle) and a last name. When the residual does not look like a person, a
// trailing ", clause" is taken as an unlisted organization if dropping it
// leaves a valid name.
func (p *Parser) ExtractOrganizations(raw string) (string, []string) {
	var positions []string
	s := raw
	for _, m := range p.table.Matchers() {
		short := utf8.RuneCountInString(m.Raw) < 3
		for {
			loc := lastMatch(m.Pattern, s)
			if loc == nil {
				break
			}
			candidate := s[:loc[0]] + s[loc[1]:]
			if short {
				name := p.splitter.Split(candidate)
				if name.First == "" && name.Middle == "" {
					break
				}
				if name.Last == "" {
					break
				}
			}
			s = candidate
			if !m.Skipped() {
				positions = append(positions, m.Clean)
			}
		}
	}
	s = strings.Trim(s, ", ")

	if s != "" && !p.Parse(s, 0, false).Valid() {
		if loc := trailingClause.FindStringIndex(s); loc != nil {
			clause := strings.Trim(s[loc[0]:], ", ")
			without := s[:loc[0]] + s[loc[1]:]
			if p.Parse(without, 0, false).Valid() {
				positions = append(positions, clause)
				s = without
			}
		}
	}
	return strings.Trim(s, ", "), positions
}

func lastMatch(re *regexp.Regexp, s string) []int {
	all := re.FindAllStringIndex(s, -1)
	if len(all) == 0 {
		return nil
	}
	return all[len(all)-1]
}
