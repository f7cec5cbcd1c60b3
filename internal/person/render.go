package person

import (
	"fmt"
	"strings"

	"namedisambig/internal/orgtable"
	"namedisambig/internal/textutil"
)

// NoPosition is reported when no position is frequent enough to trust.
const NoPosition = "no positions available"

const minFallbackPositionRunes = 5

// FullName renders "First Middle Last". Single-letter components render as
// initials ("W. L. Dunn"); empty components are omitted.
func (p *Person) FullName() string {
	components := make([]string, 0, 3)
	if c := renderGiven(p.First); c != "" {
		components = append(components, c)
	}
	if c := renderGiven(p.Middle); c != "" {
		components = append(components, c)
	}
	if p.Last != "" {
		components = append(components, textutil.Capitalize(p.Last))
	}
	return strings.Join(components, " ")
}

func renderGiven(s string) string {
	switch textutil.RuneLen(s) {
	case 0:
		return ""
	case 1:
		return s + "."
	default:
		return textutil.Capitalize(s)
	}
}

// MostLikelyPosition picks the organization the record is most often seen
// with. Positions are walked by descending weight (ties by key); a position
// seen only once ends the search. The first position the table knows is
// reported by its canonical name. When every position is frequent but none
// is listed, the most frequent unlisted position of reasonable length is
// reported upper-cased.
func (p *Person) MostLikelyPosition(table *orgtable.Table) string {
	entries := p.Positions.MostCommon()
	for _, entry := range entries {
		if entry.Count == 1 {
			return NoPosition
		}
		if clean, ok := table.Official(entry.Key); ok {
			return clean
		}
	}
	for _, entry := range entries {
		if table.IsSkipped(entry.Key) {
			continue
		}
		if textutil.RuneLen(entry.Key) < minFallbackPositionRunes {
			continue
		}
		return textutil.Upper(entry.Key)
	}
	return NoPosition
}

// String is a debugging representation.
func (p *Person) String() string {
	aliases := make([]string, 0, p.Aliases.Len())
	for _, entry := range p.Aliases.MostCommon() {
		aliases = append(aliases, fmt.Sprintf("(%q, %d)", entry.Key, entry.Count))
	}
	return fmt.Sprintf("%s   F:%s M:%s L:%s, Position: %s, Aliases: [%s], count: %d",
		p.FullName(), p.First, p.Middle, p.Last, p.Positions, strings.Join(aliases, ", "), p.Count)
}
