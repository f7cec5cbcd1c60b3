package names

import (
	"regexp"
	"strings"

	"namedisambig/internal/counter"
	"namedisambig/internal/orgtable"
	"namedisambig/internal/textutil"
)

const maxSuffixRunes = 20

var (
	parenthetical  = regexp.MustCompile(`\([^(]+\)`)
	dottedInitials = regexp.MustCompile(`^[a-zA-Z]\.[a-zA-Z]\.`)
)

// Result is a parsed name. Name components are capitalized ("Dunn");
// positions are period-stripped, upper-cased and weighted by the parse count.
type Result struct {
	First     string
	Middle    string
	Last      string
	Positions counter.Counter
}

// Valid reports whether the result looks like a person.
func (r Result) Valid() bool {
	return LooksValid(r.Last, r.First, r.Middle)
}

// Parser parses raw name strings against an organization table.
type Parser struct {
	table    *orgtable.Table
	splitter *Splitter
}

// Option customizes a Parser.
type Option func(*Parser)

// WithSplitter replaces the default splitter vocabulary.
func WithSplitter(s *Splitter) Option {
	return func(p *Parser) {
		if s != nil {
			p.splitter = s
		}
	}
}

// NewParser returns a parser bound to table. A nil table disables
// organization extraction and canonicalization.
func NewParser(table *orgtable.Table, opts ...Option) *Parser {
	p := &Parser{
		table:    table,
		splitter: NewSplitter(DefaultSplitterOptions()),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Table returns the organization table the parser was built with.
func (p *Parser) Table() *orgtable.Table {
	return p.table
}

// Parse splits raw into first, middle and last name and collects any
// positions (organizations, roles, suffixes) found along the way, each
// weighted by count. extractOrgs=false skips table-driven and speculative
// organization extraction; it is what the extractor itself uses to test
// candidate residuals.
func (p *Parser) Parse(raw string, count int, extractOrgs bool) Result {
	s := StripLogTag(raw)
	s = RemoveSuffixToken(s)

	var positions []string
	if parts := strings.Split(s, " - "); len(parts) == 2 {
		s = parts[0]
		positions = append(positions, strings.TrimSpace(parts[1]))
	}
	for _, paren := range parenthetical.FindAllString(s, -1) {
		positions = append(positions, strings.Trim(paren, ",#() "))
		s = strings.ReplaceAll(s, paren, "")
	}

	if extractOrgs {
		var orgs []string
		s, orgs = p.ExtractOrganizations(s)
		positions = append(positions, orgs...)
	}

	s = strings.Trim(s, " #")
	s = FixDashedInitials(s)

	name := p.splitter.Split(s)
	first, middle, last := correctInitials(name.First, name.Middle, name.Last)

	if strings.Count(middle, ",") > 1 {
		middle = ""
	}
	suffix := name.Suffix
	// several names run together leave a long dotted tail of initials
	if textutil.RuneLen(suffix) > maxSuffixRunes && strings.Count(suffix, ".") > 2 {
		suffix = ""
	}
	if suffix != "" {
		positions = append(positions, suffix)
	}

	var weighted counter.Counter
	for _, pos := range positions {
		clean, keep := p.table.Canonicalize(pos)
		if !keep {
			continue
		}
		weighted.Add(PositionKey(clean), count)
	}
	return Result{First: first, Middle: middle, Last: last, Positions: weighted}
}

// PositionKey normalizes a position for storage: periods removed, upper-cased.
func PositionKey(position string) string {
	return textutil.Upper(strings.ReplaceAll(position, ".", ""))
}

// correctInitials fixes the splitter output for initials-heavy metadata and
// capitalizes each component.
func correctInitials(first, middle, last string) (string, string, string) {
	// "Dunn W" splits as first=Dunn last=W
	if textutil.RuneLen(last) <= 2 && textutil.RuneLen(first) > 2 {
		first, last = last, first
	}
	first = dropInitialPeriod(first)
	middle = dropInitialPeriod(middle)

	// "Teague, CE"
	if middle == "" && textutil.RuneLen(first) == 2 {
		r := []rune(first)
		first, middle = textutil.Upper(string(r[0])), textutil.Upper(string(r[1]))
	}
	// "R.K. Teague"
	if dottedInitials.MatchString(first) {
		first, middle = first[:1], first[2:3]
	}
	return textutil.Capitalize(first), textutil.Capitalize(middle), textutil.Capitalize(last)
}

func dropInitialPeriod(s string) string {
	r := []rune(s)
	if len(r) == 2 && r[1] == '.' {
		return string(r[0])
	}
	return s
}
