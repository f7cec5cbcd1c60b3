package names

import (
	"regexp"
	"strings"
)

// SplitterOptions configures the vocabulary a Splitter recognizes. Entries are
// matched case-insensitively with leading and trailing periods ignored.
type SplitterOptions struct {
	// Titles precede a first name ("Dr", "Mr"). Archival metadata rarely
	// carries them and treating them as titles loses initials, so the
	// default set is empty.
	Titles []string
	// FirstNameTitles are titles followed by a first name rather than a last
	// name ("Sir Walter").
	FirstNameTitles []string
	Conjunctions    []string
	Prefixes        []string
	// SuffixAcronyms are compared with every period removed ("Ph.D." -> "phd").
	SuffixAcronyms []string
	// SuffixWords are compared verbatim ("jr", "iii").
	SuffixWords []string
}

// DefaultSplitterOptions returns the vocabulary used by NewParser.
func DefaultSplitterOptions() SplitterOptions {
	return SplitterOptions{
		Titles:          nil,
		FirstNameTitles: []string{"sir", "dame", "lord", "lady", "king", "queen", "prince", "princess", "pope", "brother", "sister"},
		Conjunctions:    []string{"&", "and", "et", "e", "of", "the", "und", "y"},
		Prefixes: []string{
			"abu", "bin", "bon", "da", "dal", "de", "degli", "dei", "del", "dela", "della",
			"delle", "delli", "dello", "der", "di", "dí", "do", "dos", "du", "ibn", "la",
			"le", "san", "santa", "st", "ste", "van", "vel", "von",
		},
		SuffixAcronyms: []string{
			"cfa", "cfp", "cpa", "dds", "dmd", "dvm", "edd", "esq", "facp", "facs", "jd",
			"lld", "llm", "mba", "md", "mph", "msw", "phd", "psyd", "ret", "rn", "usa",
			"usaf", "usmc", "usn", "uscg",
		},
		SuffixWords: []string{
			"dr", "esq", "esquire", "jr", "jnr", "junior", "sr", "snr",
			"2", "i", "ii", "iii", "iv", "v",
		},
	}
}

// Name is the raw output of Splitter.Split. Fields keep the casing of the
// input.
type Name struct {
	Title    string
	First    string
	Middle   string
	Last     string
	Suffix   string
	Nickname string
}

// Splitter divides a personal name into components using comma placement and
// a small vocabulary of titles, conjunctions, prefixes and suffixes.
//
// Supported layouts:
//
//	first middle last suffix
//	first middle last, suffix[, suffix]
//	last, first middle[, suffix]
type Splitter struct {
	titles          wordSet
	firstNameTitles wordSet
	conjunctions    wordSet
	prefixes        wordSet
	suffixAcronyms  wordSet
	suffixWords     wordSet
}

// NewSplitter builds a splitter from opts. The splitter is immutable.
func NewSplitter(opts SplitterOptions) *Splitter {
	return &Splitter{
		titles:          newWordSet(opts.Titles),
		firstNameTitles: newWordSet(opts.FirstNameTitles),
		conjunctions:    newWordSet(opts.Conjunctions),
		prefixes:        newWordSet(opts.Prefixes),
		suffixAcronyms:  newWordSet(opts.SuffixAcronyms),
		suffixWords:     newWordSet(opts.SuffixWords),
	}
}

var (
	whitespaceRun  = regexp.MustCompile(`\s+`)
	phdPattern     = regexp.MustCompile(`(?i)\s(ph\.?\s+d\.?)`)
	doubleQuoted   = regexp.MustCompile(`"(.*?)"`)
	parenthesized  = regexp.MustCompile(`\((.*?)\)`)
	initialPattern = regexp.MustCompile(`^(\w\.|[A-Z])?$`)
	romanNumeral   = regexp.MustCompile(`(?i)^(X|IX|IV|V?I{0,3})$`)
	periodInside   = regexp.MustCompile(`.*\..+$`)
)

// Split parses full into its components. It never fails; unrecognizable input
// lands in First and Last as best it can.
func (s *Splitter) Split(full string) Name {
	st := &splitState{
		Splitter:     s,
		titles:       wordSet{},
		conjunctions: wordSet{},
		suffixWords:  wordSet{},
	}
	full = st.extractPhD(full)
	full = st.extractNicknames(full)
	full = collapseWhitespace(full)

	parts := strings.Split(full, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	if len(parts) == 1 {
		st.splitPlain(st.parsePieces(strings.Split(parts[0], " "), 0))
	} else {
		postComma := st.parsePieces(strings.Split(parts[1], " "), 1)
		if st.areSuffixes(strings.Split(parts[1], " ")) && len(strings.Split(parts[0], " ")) > 1 {
			st.suffix = append(st.suffix, parts[1:]...)
			st.splitBeforeSuffixComma(st.parsePieces(strings.Split(parts[0], " "), 0))
		} else {
			st.splitLastNameFirst(parts, postComma)
		}
	}
	st.handleFirstNameTitle()
	return st.name()
}

// collapseWhitespace trims, folds whitespace runs to one space and drops a
// single trailing comma.
func collapseWhitespace(s string) string {
	s = whitespaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
	return strings.TrimSuffix(s, ",")
}

type splitState struct {
	*Splitter

	// vocabulary learned while parsing this name
	titles       wordSet
	conjunctions wordSet
	suffixWords  wordSet

	title, first, middle, last, suffix, nickname []string
}

func (st *splitState) name() Name {
	return Name{
		Title:    strings.Join(st.title, " "),
		First:    strings.Join(st.first, " "),
		Middle:   strings.Join(st.middle, " "),
		Last:     strings.Join(st.last, " "),
		Suffix:   strings.Join(st.suffix, ", "),
		Nickname: strings.Join(st.nickname, " "),
	}
}

func (st *splitState) hasFirst() bool {
	return strings.Join(st.first, " ") != ""
}

func (st *splitState) extractPhD(full string) string {
	match := phdPattern.FindStringSubmatch(full)
	if match == nil {
		return full
	}
	st.suffix = append(st.suffix, match[1])
	return phdPattern.ReplaceAllString(full, "")
}

func (st *splitState) extractNicknames(full string) string {
	for _, re := range []*regexp.Regexp{doubleQuoted, parenthesized} {
		matches := re.FindAllStringSubmatch(full, -1)
		if len(matches) == 0 {
			continue
		}
		for _, m := range matches {
			st.nickname = append(st.nickname, m[1])
		}
		full = re.ReplaceAllString(full, "")
	}
	return full
}

// splitPlain handles names without commas: first middle... last suffix...
func (st *splitState) splitPlain(pieces []string) {
	for i, piece := range pieces {
		next := pieceAt(pieces, i+1)
		if !st.hasFirst() && (next != "" || len(pieces) == 1) && st.isTitle(piece) {
			st.title = append(st.title, piece)
			continue
		}
		if !st.hasFirst() {
			if len(pieces) == 1 && len(st.nickname) > 0 {
				st.last = append(st.last, piece)
				continue
			}
			st.first = append(st.first, piece)
			continue
		}
		if st.areSuffixes(pieces[i+1:]) ||
			(i == len(pieces)-2 && isRomanNumeral(next) && !isInitial(piece)) {
			st.last = append(st.last, piece)
			st.suffix = append(st.suffix, pieces[i+1:]...)
			break
		}
		if next == "" {
			st.last = append(st.last, piece)
			continue
		}
		st.middle = append(st.middle, piece)
	}
}

// splitBeforeSuffixComma handles "first middle last, suffix" where the text
// after the first comma is made only of suffixes.
func (st *splitState) splitBeforeSuffixComma(pieces []string) {
	for i, piece := range pieces {
		next := pieceAt(pieces, i+1)
		if !st.hasFirst() && (next != "" || len(pieces) == 1) && st.isTitle(piece) {
			st.title = append(st.title, piece)
			continue
		}
		if !st.hasFirst() {
			st.first = append(st.first, piece)
			continue
		}
		if st.areSuffixes(pieces[i+1:]) {
			st.last = append(st.last, piece)
			st.suffix = append(append([]string(nil), pieces[i+1:]...), st.suffix...)
			break
		}
		if next == "" {
			st.last = append(st.last, piece)
			continue
		}
		st.middle = append(st.middle, piece)
	}
}

// splitLastNameFirst handles "last [suffix], first middles[, suffix...]".
func (st *splitState) splitLastNameFirst(parts, postComma []string) {
	for _, piece := range st.parsePieces(strings.Split(parts[0], " "), 1) {
		// the first piece is always a last name, even when it looks like a suffix
		if len(st.last) > 0 && st.isSuffix(piece) {
			st.suffix = append(st.suffix, piece)
			continue
		}
		st.last = append(st.last, piece)
	}
	for i, piece := range postComma {
		next := pieceAt(postComma, i+1)
		if !st.hasFirst() && (next != "" || len(postComma) == 1) && st.isTitle(piece) {
			st.title = append(st.title, piece)
			continue
		}
		if !st.hasFirst() {
			st.first = append(st.first, piece)
			continue
		}
		if st.isSuffix(piece) {
			st.suffix = append(st.suffix, piece)
			continue
		}
		st.middle = append(st.middle, piece)
	}
	if len(parts) > 2 && parts[2] != "" {
		st.suffix = append(st.suffix, parts[2:]...)
	}
}

// handleFirstNameTitle treats the lone name after an ordinary title as a last
// name ("Mr. Johnson"); first-name titles keep it as a first name.
func (st *splitState) handleFirstNameTitle() {
	n := st.name()
	if n.Title == "" || st.firstNameTitles.has(lc(n.Title)) {
		return
	}
	members := 0
	for _, v := range []string{n.Title, n.First, n.Middle, n.Last, n.Suffix, n.Nickname} {
		if v != "" {
			members++
		}
	}
	if members == 2 {
		st.first, st.last = st.last, st.first
	}
}

func pieceAt(pieces []string, i int) string {
	if i < 0 || i >= len(pieces) {
		return ""
	}
	return pieces[i]
}
