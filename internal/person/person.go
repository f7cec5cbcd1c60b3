package person

import (
	"errors"
	"fmt"
	"hash/fnv"
	"sort"

	"namedisambig/internal/counter"
	"namedisambig/internal/names"
	"namedisambig/internal/textutil"
)

// ErrInvalidArgument reports a constructor argument that violates its
// contract.
var ErrInvalidArgument = errors.New("invalid argument")

// Person is a canonical identity with everything observed about it.
type Person struct {
	// ID is assigned by the store on insert; zero until persisted.
	ID int64

	Last   string
	First  string
	Middle string

	Positions counter.Counter
	Aliases   counter.Counter
	Count     int

	DocsAuthored DocSet
	DocsReceived DocSet
}

// Fields are the explicit construction arguments. Positions and aliases may
// be supplied either as a ready multiset (used as-is) or as a list of
// observations (normalized and weighted by Count), not both.
type Fields struct {
	Last   string
	First  string
	Middle string

	Positions    counter.Counter
	PositionList []string
	Aliases      counter.Counter
	AliasList    []string

	// Count is the observation weight; zero means one.
	Count int

	DocsAuthored []string
	DocsReceived []string
}

// New builds a record from explicit fields. Name fields are upper-cased.
func New(f Fields) (*Person, error) {
	count, err := f.count()
	if err != nil {
		return nil, err
	}
	positions, err := f.positions(count)
	if err != nil {
		return nil, err
	}
	aliases, err := f.aliases(count)
	if err != nil {
		return nil, err
	}
	authored, err := newDocSet("docs authored", f.DocsAuthored)
	if err != nil {
		return nil, err
	}
	received, err := newDocSet("docs received", f.DocsReceived)
	if err != nil {
		return nil, err
	}
	return &Person{
		Last:         textutil.Upper(f.Last),
		First:        textutil.Upper(f.First),
		Middle:       textutil.Upper(f.Middle),
		Positions:    positions,
		Aliases:      aliases,
		Count:        count,
		DocsAuthored: authored,
		DocsReceived: received,
	}, nil
}

// FromRaw parses raw and builds a record from it. Name fields in f are
// replaced by the parse; positions found while parsing are added to any
// explicit positions. Unless aliases are supplied, the only alias is the
// upper-cased raw string weighted by the count.
func FromRaw(parser *names.Parser, raw string, f Fields) (*Person, error) {
	if parser == nil {
		return nil, fmt.Errorf("%w: nil parser", ErrInvalidArgument)
	}
	count, err := f.count()
	if err != nil {
		return nil, err
	}
	parsed := parser.Parse(raw, count, true)
	f.First, f.Middle, f.Last = parsed.First, parsed.Middle, parsed.Last
	if f.Aliases.Len() == 0 && len(f.AliasList) == 0 {
		f.Aliases = counter.FromMap(map[string]int{textutil.Upper(raw): count})
	}

	p, err := New(f)
	if err != nil {
		return nil, err
	}
	p.Positions.Merge(parsed.Positions)
	return p, nil
}

func (f Fields) count() (int, error) {
	switch {
	case f.Count < 0:
		return 0, fmt.Errorf("%w: count %d is negative", ErrInvalidArgument, f.Count)
	case f.Count == 0:
		return 1, nil
	default:
		return f.Count, nil
	}
}

func (f Fields) positions(count int) (counter.Counter, error) {
	if f.Positions.Len() > 0 && len(f.PositionList) > 0 {
		return counter.Counter{}, fmt.Errorf("%w: positions given both as multiset and list", ErrInvalidArgument)
	}
	if len(f.PositionList) == 0 {
		if err := checkWeights("positions", f.Positions); err != nil {
			return counter.Counter{}, err
		}
		return f.Positions.Clone(), nil
	}
	var out counter.Counter
	for _, pos := range f.PositionList {
		out.Add(names.PositionKey(pos), count)
	}
	return out, nil
}

func (f Fields) aliases(count int) (counter.Counter, error) {
	if f.Aliases.Len() > 0 && len(f.AliasList) > 0 {
		return counter.Counter{}, fmt.Errorf("%w: aliases given both as multiset and list", ErrInvalidArgument)
	}
	if len(f.AliasList) == 0 {
		if err := checkWeights("aliases", f.Aliases); err != nil {
			return counter.Counter{}, err
		}
		return f.Aliases.Clone(), nil
	}
	var out counter.Counter
	for _, alias := range f.AliasList {
		out.Add(textutil.Upper(alias), count)
	}
	return out, nil
}

func checkWeights(field string, c counter.Counter) error {
	for _, entry := range c.MostCommon() {
		if entry.Count < 0 {
			return fmt.Errorf("%w: %s weight for %q is negative", ErrInvalidArgument, field, entry.Key)
		}
	}
	return nil
}

// Merge folds source into p: multisets are weighted-added and counts summed.
// Name fields never change.
func (p *Person) Merge(source *Person) {
	if source == nil {
		return
	}
	p.Positions.Merge(source.Positions)
	p.Aliases.Merge(source.Aliases)
	p.Count += source.Count
}

// MergeInto folds source into target.
func MergeInto(target, source *Person) {
	target.Merge(source)
}

// AddAlias records one more observation of alias.
func (p *Person) AddAlias(alias string, count int) {
	p.Aliases.Add(textutil.Upper(alias), count)
	p.Count += count
}

// Copy returns a deep copy.
func (p *Person) Copy() *Person {
	cp := *p
	cp.Positions = p.Positions.Clone()
	cp.Aliases = p.Aliases.Clone()
	cp.DocsAuthored = p.DocsAuthored.clone()
	cp.DocsReceived = p.DocsReceived.clone()
	return &cp
}

// Stemmed returns "LAST FIRST MIDDLE", the record's sort key.
func (p *Person) Stemmed() string {
	return p.Last + " " + p.First + " " + p.Middle
}

// Less orders records by their stemmed key.
func (p *Person) Less(other *Person) bool {
	return p.Stemmed() < other.Stemmed()
}

// Equal compares name fields and multiset contents. Count, ID and document
// sets are not part of a record's identity.
func (p *Person) Equal(other *Person) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.Last == other.Last &&
		p.First == other.First &&
		p.Middle == other.Middle &&
		p.Positions.Equal(other.Positions) &&
		p.Aliases.Equal(other.Aliases)
}

// Hash is consistent with Equal.
func (p *Person) Hash() uint64 {
	h := fnv.New64a()
	_, _ = fmt.Fprintf(h, "%s\x00%s\x00%s\x00%s\x00%s",
		p.Last, p.First, p.Middle, p.Positions.Canonical(), p.Aliases.Canonical())
	return h.Sum64()
}

// Sort orders records by stemmed key, keeping the input order of ties.
func Sort(people []*Person) {
	sort.SliceStable(people, func(i, j int) bool {
		return people[i].Less(people[j])
	})
}
