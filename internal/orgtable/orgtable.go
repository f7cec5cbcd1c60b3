package orgtable

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Skip is the canonical value for spellings that must be discarded.
const Skip = "@skip@"

// Single characters are indistinguishable from initials.
const minRawRunes = 2

// ErrMalformedTable reports an org table that cannot be used.
var ErrMalformedTable = errors.New("malformed org table")

//go:embed orgs.yaml
var defaultTableYAML []byte

// Entry maps one raw spelling to its canonical organization.
type Entry struct {
	Raw   string `yaml:"raw"`
	Clean string `yaml:"clean"`
}

// Skipped reports whether the entry discards its spelling.
func (e Entry) Skipped() bool {
	return e.Clean == Skip
}

// Matcher pairs an entry with its whole-word pattern.
type Matcher struct {
	Entry
	Pattern *regexp.Regexp
}

// Table is an ordered, read-only raw-to-clean mapping.
type Table struct {
	matchers []Matcher
	index    map[string]string
}

// New validates entries and builds a table preserving their order.
func New(entries []Entry) (*Table, error) {
	t := &Table{
		matchers: make([]Matcher, 0, len(entries)),
		index:    make(map[string]string, len(entries)),
	}
	for i, entry := range entries {
		if strings.TrimSpace(entry.Raw) == "" {
			return nil, fmt.Errorf("%w: entry %d has empty raw spelling", ErrMalformedTable, i+1)
		}
		if utf8.RuneCountInString(entry.Raw) < minRawRunes {
			return nil, fmt.Errorf("%w: raw spelling %q is shorter than %d characters", ErrMalformedTable, entry.Raw, minRawRunes)
		}
		if strings.TrimSpace(entry.Clean) == "" {
			return nil, fmt.Errorf("%w: entry %q has empty clean name", ErrMalformedTable, entry.Raw)
		}
		if _, dup := t.index[entry.Raw]; dup {
			return nil, fmt.Errorf("%w: duplicate raw spelling %q", ErrMalformedTable, entry.Raw)
		}
		pattern, err := regexp.Compile(`\b` + regexp.QuoteMeta(entry.Raw) + `\b`)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %q: %v", ErrMalformedTable, entry.Raw, err)
		}
		t.index[entry.Raw] = entry.Clean
		t.matchers = append(t.matchers, Matcher{Entry: entry, Pattern: pattern})
	}
	return t, nil
}

// Parse decodes a YAML sequence of raw/clean entries.
func Parse(data []byte) (*Table, error) {
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTable, err)
	}
	return New(entries)
}

// Load reads a YAML table from path. An empty path yields the embedded
// default table.
func Load(path string) (*Table, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read org table %q: %w", path, err)
	}
	table, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load org table %q: %w", path, err)
	}
	return table, nil
}

var defaultTable = sync.OnceValues(func() (*Table, error) {
	return Parse(defaultTableYAML)
})

// Default returns the embedded table shipped with the binary.
func Default() (*Table, error) {
	return defaultTable()
}

// DefaultYAML returns the embedded table source.
func DefaultYAML() []byte {
	out := make([]byte, len(defaultTableYAML))
	copy(out, defaultTableYAML)
	return out
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.matchers)
}

// Entries returns the entries in table order.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	out := make([]Entry, len(t.matchers))
	for i, m := range t.matchers {
		out[i] = m.Entry
	}
	return out
}

// Matchers returns the compiled entries in table order. Callers must not
// modify the returned slice.
func (t *Table) Matchers() []Matcher {
	if t == nil {
		return nil
	}
	return t.matchers
}

// Lookup returns the clean value for an exact raw spelling, including Skip.
func (t *Table) Lookup(raw string) (string, bool) {
	if t == nil {
		return "", false
	}
	clean, ok := t.index[raw]
	return clean, ok
}

// Official returns the canonical organization for raw when it is listed and
// not skipped.
func (t *Table) Official(raw string) (string, bool) {
	clean, ok := t.Lookup(raw)
	if !ok || clean == Skip {
		return "", false
	}
	return clean, true
}

// IsSkipped reports whether raw is listed with the Skip sentinel.
func (t *Table) IsSkipped(raw string) bool {
	clean, ok := t.Lookup(raw)
	return ok && clean == Skip
}

// Canonicalize maps raw through the table. Unknown spellings are kept
// verbatim; skipped spellings report keep=false.
func (t *Table) Canonicalize(raw string) (value string, keep bool) {
	clean, ok := t.Lookup(raw)
	if !ok {
		return raw, true
	}
	if clean == Skip {
		return "", false
	}
	return clean, true
}
