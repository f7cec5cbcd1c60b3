// Package memory is an in-process Store used by tests and dry runs.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"namedisambig/internal/person"
	"namedisambig/internal/resolver"
	"namedisambig/internal/store"
)

// Store keeps records in insertion order. All methods are safe for
// concurrent use.
type Store struct {
	aliasMu sync.Mutex

	mu        sync.RWMutex
	nextID    int64
	people    []*person.Person
	byID      map[int64]*person.Person
	documents map[string]store.Document
	authored  map[int64]map[string]struct{}
	received  map[int64]map[string]struct{}
}

var _ store.Store = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{
		byID:      make(map[int64]*person.Person),
		documents: make(map[string]store.Document),
		authored:  make(map[int64]map[string]struct{}),
		received:  make(map[int64]map[string]struct{}),
	}
}

// FindByAliasPrefix scans the serialized aliases of every record.
func (s *Store) FindByAliasPrefix(_ context.Context, prefix string) ([]*person.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*person.Person
	for _, p := range s.people {
		data, err := p.Aliases.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("encode aliases for person %d: %w", p.ID, err)
		}
		if strings.Contains(string(data), prefix) {
			out = append(out, p.Copy())
		}
	}
	return out, nil
}

// Insert assigns the next id and stores a copy of p.
func (s *Store) Insert(_ context.Context, p *person.Person) (*person.Person, error) {
	if p == nil {
		return nil, fmt.Errorf("insert: %w", person.ErrInvalidArgument)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	stored := p.Copy()
	stored.ID = s.nextID
	s.people = append(s.people, stored)
	s.byID[stored.ID] = stored
	return stored.Copy(), nil
}

// WithAliasLock serializes find-or-create steps.
func (s *Store) WithAliasLock(ctx context.Context, _ string, fn func(ctx context.Context, tx resolver.Store) error) error {
	s.aliasMu.Lock()
	defer s.aliasMu.Unlock()
	return fn(ctx, s)
}

// Get returns a copy of the record with its document sets.
func (s *Store) Get(_ context.Context, id int64) (*person.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("person %d: %w", id, store.ErrNotFound)
	}
	out := p.Copy()
	out.DocsAuthored = docSet(s.authored[id])
	out.DocsReceived = docSet(s.received[id])
	return out, nil
}

func docSet(ids map[string]struct{}) person.DocSet {
	set := person.NewDocSet()
	for id := range ids {
		set.Add(id)
	}
	return set
}

// List returns records in id order.
func (s *Store) List(_ context.Context, opts store.ListOptions) ([]*person.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := min(max(opts.Offset, 0), len(s.people))
	end := len(s.people)
	if opts.Limit > 0 && start+opts.Limit < end {
		end = start + opts.Limit
	}
	out := make([]*person.Person, 0, end-start)
	for _, p := range s.people[start:end] {
		out = append(out, p.Copy())
	}
	return out, nil
}

// Count returns the number of records.
func (s *Store) Count(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.people), nil
}

// SaveDocument inserts or replaces doc.
func (s *Store) SaveDocument(_ context.Context, doc store.Document) error {
	if strings.TrimSpace(doc.TID) == "" {
		return fmt.Errorf("save document: empty tid: %w", person.ErrInvalidArgument)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.TID] = doc
	return nil
}

// LinkAuthor records personID as an author of tid.
func (s *Store) LinkAuthor(_ context.Context, personID int64, tid string) error {
	return s.link(s.authored, personID, tid)
}

// LinkRecipient records personID as a recipient of tid.
func (s *Store) LinkRecipient(_ context.Context, personID int64, tid string) error {
	return s.link(s.received, personID, tid)
}

func (s *Store) link(links map[int64]map[string]struct{}, personID int64, tid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[personID]; !ok {
		return fmt.Errorf("person %d: %w", personID, store.ErrNotFound)
	}
	if _, ok := s.documents[tid]; !ok {
		return fmt.Errorf("document %q: %w", tid, store.ErrNotFound)
	}
	if links[personID] == nil {
		links[personID] = make(map[string]struct{})
	}
	links[personID][tid] = struct{}{}
	return nil
}

// DocumentsFor returns the documents linked to personID, ordered by tid.
func (s *Store) DocumentsFor(_ context.Context, personID int64, role store.Role) ([]store.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	links := s.authored
	if role == store.RoleRecipient {
		links = s.received
	}
	tids := make([]string, 0, len(links[personID]))
	for tid := range links[personID] {
		tids = append(tids, tid)
	}
	sort.Strings(tids)

	docs := make([]store.Document, 0, len(tids))
	for _, tid := range tids {
		docs = append(docs, s.documents[tid])
	}
	return docs, nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }
