package resolver_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"namedisambig/internal/names"
	"namedisambig/internal/orgtable"
	"namedisambig/internal/person"
	"namedisambig/internal/resolver"
	"namedisambig/internal/store/memory"
)

func newResolver(t *testing.T, st resolver.Store, opts ...resolver.Option) *resolver.Resolver {
	t.Helper()
	table, err := orgtable.Default()
	require.NoError(t, err)
	r, err := resolver.New(st, names.NewParser(table), opts...)
	require.NoError(t, err)
	return r
}

func TestResolveCreatesThenMatches(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	r := newResolver(t, st)

	first, err := r.Resolve(ctx, "teague ce jr")
	require.NoError(t, err)
	assert.True(t, first.Created())
	assert.Equal(t, int64(1), first.Person.ID)
	assert.Equal(t, "TEAGUE", first.Person.Last)
	assert.Equal(t, "C", first.Person.First)
	assert.Equal(t, "E", first.Person.Middle)
	assert.Equal(t, 1, first.Person.Aliases.Get("TEAGUE CE JR"))
	assert.Equal(t, 1, first.Person.Positions.Get("JR"))

	second, err := r.Resolve(ctx, "TEAGUE CE JR")
	require.NoError(t, err)
	assert.Equal(t, resolver.OutcomeMatched, second.Outcome)
	assert.Equal(t, first.Person.ID, second.Person.ID)
	assert.Equal(t, 1, second.Candidates)

	count, err := st.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPrefixAnchorsOnAliasStart(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	r := newResolver(t, st)

	macdunn, err := r.Resolve(ctx, "MACDUNN, WL, PM")
	require.NoError(t, err)
	dunn, err := r.Resolve(ctx, "DUNN, WL, PHILIP MORRIS")
	require.NoError(t, err)
	require.True(t, dunn.Created(), "MACDUNN must not satisfy a DUNN lookup")

	got, err := r.Resolve(ctx, "Dunn, WL")
	require.NoError(t, err)
	assert.Equal(t, resolver.OutcomeMatched, got.Outcome)
	assert.Equal(t, dunn.Person.ID, got.Person.ID)
	assert.NotEqual(t, macdunn.Person.ID, got.Person.ID)
}

func TestAmbiguousPicksFirstInStoreOrder(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	r := newResolver(t, st)

	a, err := r.Resolve(ctx, "SMITH, J, PHILIP MORRIS")
	require.NoError(t, err)
	b, err := r.Resolve(ctx, "SMITH, J, LORILLARD")
	require.NoError(t, err)
	require.True(t, b.Created())

	got, err := r.Resolve(ctx, "smith, j")
	require.NoError(t, err)
	assert.True(t, got.Ambiguous())
	assert.Equal(t, 2, got.Candidates)
	assert.Equal(t, a.Person.ID, got.Person.ID)
}

func TestResolveRejectsBlankAlias(t *testing.T) {
	r := newResolver(t, memory.New())
	_, err := r.Resolve(context.Background(), "  ")
	require.ErrorIs(t, err, resolver.ErrEmptyAlias)
}

func TestResolvedPersonIsPrivateCopy(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	r := newResolver(t, st)

	res, err := r.Resolve(ctx, "HOLTZMAN A")
	require.NoError(t, err)
	res.Person.Aliases.Add("SOMETHING ELSE", 3)

	stored, err := st.Get(ctx, res.Person.ID)
	require.NoError(t, err)
	assert.False(t, stored.Aliases.Has("SOMETHING ELSE"))
}

func TestConcurrentResolutionCreatesOneRecord(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	r := newResolver(t, st)

	const workers = 32
	ids := make([]int64, workers)
	var g errgroup.Group
	for i := range workers {
		g.Go(func() error {
			res, err := r.Resolve(ctx, "PROCTOR RN")
			if err != nil {
				return err
			}
			ids[i] = res.Person.ID
			return nil
		})
	}
	require.NoError(t, g.Wait())

	count, err := st.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}

// Two resolvers sharing a store only coordinate through the store's lock.
func TestConcurrentResolversShareStoreLock(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	r1 := newResolver(t, st)
	r2 := newResolver(t, st)

	var g errgroup.Group
	for i := range 16 {
		r := r1
		if i%2 == 1 {
			r = r2
		}
		g.Go(func() error {
			_, err := r.Resolve(ctx, "HENSON A")
			return err
		})
	}
	require.NoError(t, g.Wait())

	count, err := st.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

type countingRecorder struct {
	mu       sync.Mutex
	outcomes map[string]int
	parses   int
}

func (c *countingRecorder) ObserveResolution(outcome string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.outcomes == nil {
		c.outcomes = map[string]int{}
	}
	c.outcomes[outcome]++
}

func (c *countingRecorder) ObserveParse(time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.parses++
}

func TestRecorderSeesOutcomes(t *testing.T) {
	ctx := context.Background()
	rec := &countingRecorder{}
	r := newResolver(t, memory.New(), resolver.WithRecorder(rec))

	for _, alias := range []string{"BAKER T", "BAKER T", "BAKER T, PM"} {
		_, err := r.Resolve(ctx, alias)
		require.NoError(t, err)
	}

	assert.Equal(t, map[string]int{"created": 2, "matched": 1}, rec.outcomes)
	assert.Equal(t, 2, rec.parses)
}

type failingStore struct{ err error }

func (f failingStore) FindByAliasPrefix(context.Context, string) ([]*person.Person, error) {
	return nil, f.err
}

func (f failingStore) Insert(context.Context, *person.Person) (*person.Person, error) {
	return nil, f.err
}

func TestStoreErrorsPropagate(t *testing.T) {
	boom := errors.New("disk full")
	r := newResolver(t, failingStore{err: boom})

	_, err := r.Resolve(context.Background(), "BAKER T")
	require.ErrorIs(t, err, boom)
}

func TestNewRequiresCollaborators(t *testing.T) {
	table, err := orgtable.Default()
	require.NoError(t, err)

	_, err = resolver.New(nil, names.NewParser(table))
	require.Error(t, err)
	_, err = resolver.New(memory.New(), nil)
	require.Error(t, err)
}

func TestPrefix(t *testing.T) {
	assert.Equal(t, `"DUNN, WL`, resolver.Prefix("Dunn, WL"))
}
