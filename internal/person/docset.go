package person

import (
	"fmt"
	"sort"
	"strings"
)

// DocSet is a set of document ids.
type DocSet map[string]struct{}

func newDocSet(field string, ids []string) (DocSet, error) {
	set := make(DocSet, len(ids))
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("%w: %s contains an empty document id", ErrInvalidArgument, field)
		}
		if set.Has(id) {
			return nil, fmt.Errorf("%w: %s must be a set, %q appears twice", ErrInvalidArgument, field, id)
		}
		set[id] = struct{}{}
	}
	return set, nil
}

// Add inserts id.
func (d DocSet) Add(id string) {
	d[id] = struct{}{}
}

// Has reports membership.
func (d DocSet) Has(id string) bool {
	_, ok := d[id]
	return ok
}

// Sorted returns the ids in ascending order.
func (d DocSet) Sorted() []string {
	out := make([]string, 0, len(d))
	for id := range d {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (d DocSet) clone() DocSet {
	if d == nil {
		return nil
	}
	out := make(DocSet, len(d))
	for id := range d {
		out[id] = struct{}{}
	}
	return out
}

// NewDocSet returns a set holding ids.
func NewDocSet(ids ...string) DocSet {
	set := make(DocSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
