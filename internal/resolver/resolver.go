package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"namedisambig/internal/counter"
	"namedisambig/internal/logging"
	"namedisambig/internal/names"
	"namedisambig/internal/person"
	"namedisambig/internal/textutil"
)

// ErrEmptyAlias is returned for aliases that are blank after trimming.
var ErrEmptyAlias = errors.New("empty alias")

// Store is the persistence surface the resolver needs.
type Store interface {
	// FindByAliasPrefix returns every record whose serialized aliases contain
	// prefix, in ascending id order.
	FindByAliasPrefix(ctx context.Context, prefix string) ([]*person.Person, error)
	// Insert persists p and returns it with its assigned ID.
	Insert(ctx context.Context, p *person.Person) (*person.Person, error)
}

// Locker is implemented by stores that can run a find-or-create step in an
// exclusive scope keyed by the alias prefix. fn receives a Store bound to
// that scope.
type Locker interface {
	WithAliasLock(ctx context.Context, key string, fn func(ctx context.Context, tx Store) error) error
}

// Recorder receives resolution metrics. Implementations must be safe for
// concurrent use.
type Recorder interface {
	ObserveResolution(outcome string)
	ObserveParse(elapsed time.Duration)
}

// Outcome values.
const (
	OutcomeCreated   = "created"
	OutcomeMatched   = "matched"
	OutcomeAmbiguous = "ambiguous"
)

// Resolution is the result of resolving one alias.
type Resolution struct {
	Person  *person.Person
	Outcome string
	// Candidates is the number of stored records that matched the prefix.
	Candidates int
}

// Created reports whether the record was inserted by this resolution.
func (r Resolution) Created() bool { return r.Outcome == OutcomeCreated }

// Ambiguous reports whether more than one record matched.
func (r Resolution) Ambiguous() bool { return r.Outcome == OutcomeAmbiguous }

// Resolver finds or creates person records for aliases.
type Resolver struct {
	store    Store
	parser   *names.Parser
	logger   *slog.Logger
	recorder Recorder
	group    singleflight.Group
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used for created and ambiguous resolutions.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logging.NewComponentLogger(logger, "resolver")
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(recorder Recorder) Option {
	return func(r *Resolver) {
		r.recorder = recorder
	}
}

// New constructs a Resolver over store.
func New(store Store, parser *names.Parser, opts ...Option) (*Resolver, error) {
	if store == nil {
		return nil, errors.New("resolver: store is required")
	}
	if parser == nil {
		return nil, errors.New("resolver: parser is required")
	}
	r := &Resolver{
		store:  store,
		parser: parser,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Prefix returns the lookup key for alias.
func Prefix(alias string) string {
	return counter.QuotedPrefix(textutil.Upper(alias))
}

// Resolve returns the record for rawAlias, creating it when no stored alias
// starts with it. Ambiguity is reported through the result, never as an
// error. The returned Person is a private copy.
func (r *Resolver) Resolve(ctx context.Context, rawAlias string) (Resolution, error) {
	if strings.TrimSpace(rawAlias) == "" {
		return Resolution{}, ErrEmptyAlias
	}
	prefix := Prefix(rawAlias)

	value, err, _ := r.group.Do(prefix, func() (any, error) {
		return r.resolveLocked(ctx, rawAlias, prefix)
	})
	if err != nil {
		return Resolution{}, err
	}
	res := value.(Resolution)
	res.Person = res.Person.Copy()

	if r.recorder != nil {
		r.recorder.ObserveResolution(res.Outcome)
	}
	return res, nil
}

func (r *Resolver) resolveLocked(ctx context.Context, rawAlias, prefix string) (Resolution, error) {
	locker, ok := r.store.(Locker)
	if !ok {
		return r.findOrCreate(ctx, r.store, rawAlias, prefix)
	}
	var res Resolution
	err := locker.WithAliasLock(ctx, prefix, func(ctx context.Context, tx Store) error {
		var err error
		res, err = r.findOrCreate(ctx, tx, rawAlias, prefix)
		return err
	})
	return res, err
}

func (r *Resolver) findOrCreate(ctx context.Context, store Store, rawAlias, prefix string) (Resolution, error) {
	logger := logging.WithContext(ctx, r.logger).With(logging.Args(logging.Alias(textutil.Upper(rawAlias)))...)

	candidates, err := store.FindByAliasPrefix(ctx, prefix)
	if err != nil {
		return Resolution{}, fmt.Errorf("find alias %q: %w", rawAlias, err)
	}

	switch len(candidates) {
	case 0:
		started := time.Now()
		p, err := person.FromRaw(r.parser, rawAlias, person.Fields{})
		if r.recorder != nil {
			r.recorder.ObserveParse(time.Since(started))
		}
		if err != nil {
			return Resolution{}, fmt.Errorf("build person for %q: %w", rawAlias, err)
		}
		inserted, err := store.Insert(ctx, p)
		if err != nil {
			return Resolution{}, fmt.Errorf("insert person for %q: %w", rawAlias, err)
		}
		logger.Debug("created person",
			logging.PersonID(inserted.ID),
			logging.String("full_name", inserted.FullName()),
			logging.Outcome(OutcomeCreated),
		)
		return Resolution{Person: inserted, Outcome: OutcomeCreated}, nil
	case 1:
		return Resolution{Person: candidates[0], Outcome: OutcomeMatched, Candidates: 1}, nil
	default:
		chosen := candidates[0]
		logging.WarnWithContext(logger, "alias matches several people", "resolution_ambiguous",
			logging.PersonID(chosen.ID),
			logging.Int("candidates", len(candidates)),
			logging.Outcome(OutcomeAmbiguous),
			logging.String(logging.FieldErrorHint, "merge or split the matching records with 'people show'"),
			logging.String(logging.FieldImpact, "alias attributed to the lowest person id"),
		)
		return Resolution{Person: chosen, Outcome: OutcomeAmbiguous, Candidates: len(candidates)}, nil
	}
}
