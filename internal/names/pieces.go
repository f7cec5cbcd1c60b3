package names

import (
	"strings"
	"unicode/utf8"
)

type wordSet map[string]struct{}

func newWordSet(words []string) wordSet {
	set := make(wordSet, len(words))
	for _, w := range words {
		set.add(w)
	}
	return set
}

func (w wordSet) add(word string) {
	w[lc(word)] = struct{}{}
}

func (w wordSet) has(word string) bool {
	_, ok := w[word]
	return ok
}

// lc lower-cases and trims surrounding periods for vocabulary comparisons.
func lc(s string) string {
	return strings.Trim(strings.ToLower(s), ".")
}

func isInitial(piece string) bool {
	return initialPattern.MatchString(piece)
}

func isRomanNumeral(piece string) bool {
	return romanNumeral.MatchString(piece)
}

func (st *splitState) isTitle(piece string) bool {
	key := lc(piece)
	return st.Splitter.titles.has(key) || st.titles.has(key)
}

func (st *splitState) isConjunction(piece string) bool {
	key := strings.ToLower(piece)
	return (st.Splitter.conjunctions.has(key) || st.conjunctions.has(key)) && !isInitial(piece)
}

func (st *splitState) isPrefix(piece string) bool {
	return st.prefixes.has(lc(piece))
}

func (st *splitState) isSuffix(piece string) bool {
	key := lc(piece)
	known := st.suffixAcronyms.has(strings.ReplaceAll(key, ".", "")) ||
		st.Splitter.suffixWords.has(key) || st.suffixWords.has(key)
	return known && !isInitial(piece)
}

// areSuffixes reports whether every piece is a suffix; an empty list counts.
func (st *splitState) areSuffixes(pieces []string) bool {
	for _, piece := range pieces {
		if !st.isSuffix(piece) {
			return false
		}
	}
	return true
}

// parsePieces splits parts on spaces, trims stray commas, learns dotted
// compound titles and suffixes ("Lt.Gov.", "Jr.Esq") and joins conjunctions
// and surname prefixes onto their neighbours. additional is the number of
// pieces of the name that live in other comma-separated parts.
func (st *splitState) parsePieces(parts []string, additional int) []string {
	var out []string
	for _, part := range parts {
		for _, x := range strings.Split(part, " ") {
			out = append(out, strings.Trim(x, " ,"))
		}
	}
	for _, piece := range out {
		if !periodInside.MatchString(piece) {
			continue
		}
		chunks := strings.Split(piece, ".")
		if anyOf(chunks, st.isTitle) {
			st.titles.add(piece)
			continue
		}
		if anyOf(chunks, st.isSuffix) {
			st.suffixWords.add(piece)
		}
	}
	return st.joinOnConjunctions(out, additional)
}

func anyOf(items []string, pred func(string) bool) bool {
	for _, item := range items {
		if pred(item) {
			return true
		}
	}
	return false
}

func (st *splitState) joinOnConjunctions(pieces []string, additional int) []string {
	if len(pieces)+additional < 3 {
		return pieces
	}
	roots := 0
	for _, p := range pieces {
		if !strings.Contains(p, " ") {
			roots++
		}
	}
	total := roots + additional

	// Runs of adjacent conjunctions ("and the") become a single conjunction.
	var runs [][2]int
	for i := 0; i < len(pieces); {
		if !st.isConjunction(pieces[i]) {
			i++
			continue
		}
		j := i
		for j+1 < len(pieces) && st.isConjunction(pieces[j+1]) {
			j++
		}
		if j > i {
			runs = append(runs, [2]int{i, j})
		}
		i = j + 1
	}
	for k := len(runs) - 1; k >= 0; k-- {
		start, end := runs[k][0], runs[k][1]
		joined := strings.Join(pieces[start:end+1], " ")
		st.conjunctions.add(joined)
		pieces = append(pieces[:start], append([]string{joined}, pieces[end+1:]...)...)
	}
	if len(pieces) == 1 {
		return pieces
	}

	var conj []int
	for i, p := range pieces {
		if st.isConjunction(p) {
			conj = append(conj, i)
		}
	}
	for k := 0; k < len(conj); k++ {
		i := conj[k]
		if i >= len(pieces) {
			continue
		}
		// A lone letter in a short name is more likely an initial.
		if utf8.RuneCountInString(pieces[i]) == 1 && total < 4 {
			continue
		}
		if i == 0 {
			if len(pieces) < 2 {
				continue
			}
			joined := pieces[0] + " " + pieces[1]
			if st.isTitle(pieces[1]) {
				st.titles.add(joined)
			}
			pieces = append([]string{joined}, pieces[2:]...)
			shiftAfter(conj, i, 1)
			continue
		}
		hi := min(i+2, len(pieces))
		joined := strings.Join(pieces[i-1:hi], " ")
		if st.isTitle(pieces[i-1]) {
			st.titles.add(joined)
		}
		removed := hi - i
		pieces = append(pieces[:i-1], append([]string{joined}, pieces[hi:]...)...)
		shiftAfter(conj, i, removed)
	}

	return st.joinPrefixes(pieces, total)
}

func shiftAfter(indexes []int, pivot, by int) {
	for j, v := range indexes {
		if v > pivot {
			indexes[j] = v - by
		}
	}
}

// joinPrefixes attaches surname prefixes to what follows them, up to the
// next prefix or suffix: "van der Berg" stays one piece.
func (st *splitState) joinPrefixes(pieces []string, total int) []string {
	var prefixes []string
	for _, p := range pieces {
		if st.isPrefix(p) {
			prefixes = append(prefixes, p)
		}
	}
	i := 0
	for _, prefix := range prefixes {
		if idx := indexOf(pieces, prefix, 0); idx >= 0 {
			i = idx
		}
		// a leading prefix is taken as a first name
		if i == 0 && total >= 1 {
			continue
		}
		if i >= len(pieces) {
			continue
		}
		j := -1
		for k := i + 1; k < len(pieces); k++ {
			if st.isPrefix(pieces[k]) {
				j = k
				if j == i+1 {
					j++
				}
				break
			}
		}
		if j < 0 {
			for k := i + 1; k < len(pieces); k++ {
				if st.isSuffix(pieces[k]) {
					j = k
					break
				}
			}
		}
		if j < 0 {
			j = len(pieces)
		}
		j = min(j, len(pieces))
		joined := strings.Join(pieces[i:j], " ")
		pieces = append(pieces[:i:i], append([]string{joined}, pieces[j:]...)...)
	}
	return pieces
}

func indexOf(items []string, target string, from int) int {
	for i := from; i < len(items); i++ {
		if items[i] == target {
			return i
		}
	}
	return -1
}
