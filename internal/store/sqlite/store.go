package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"namedisambig/internal/orgtable"
	"namedisambig/internal/person"
	"namedisambig/internal/resolver"
	"namedisambig/internal/store"
)

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store manages person persistence backed by SQLite.
type Store struct {
	db    *sql.DB
	path  string
	table *orgtable.Table
}

var _ store.Store = (*Store)(nil)

// Open creates or opens the database at path. table is used to compute the
// most_likely_org column on insert.
func Open(ctx context.Context, path string, table *orgtable.Table, busyTimeout time.Duration) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}
	if busyTimeout <= 0 {
		busyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_txlock=immediate",
		path, busyTimeout.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	s := &Store{db: db, path: path, table: table}
	if err := s.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) persons() personQueries {
	return personQueries{q: s.db, table: s.table}
}

// FindByAliasPrefix returns records whose aliases JSON contains prefix.
func (s *Store) FindByAliasPrefix(ctx context.Context, prefix string) ([]*person.Person, error) {
	return s.persons().FindByAliasPrefix(ctx, prefix)
}

// Insert persists p outside any lock scope.
func (s *Store) Insert(ctx context.Context, p *person.Person) (*person.Person, error) {
	var out *person.Person
	err := retryOnBusy(ctx, func() error {
		var err error
		out, err = s.persons().Insert(ctx, p)
		return err
	})
	return out, err
}

// WithAliasLock runs fn inside a BEGIN IMMEDIATE transaction. SQLite has one
// writer at a time, so the key is not needed to scope the lock.
func (s *Store) WithAliasLock(ctx context.Context, _ string, fn func(ctx context.Context, tx resolver.Store) error) error {
	var tx *sql.Tx
	if err := retryOnBusy(ctx, func() error {
		var err error
		tx, err = s.db.BeginTx(ctx, nil)
		return err
	}); err != nil {
		return fmt.Errorf("begin alias tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(ctx, personQueries{q: tx, table: s.table}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit alias tx: %w", err)
	}
	return nil
}

// Get returns the record with id and its document sets.
func (s *Store) Get(ctx context.Context, id int64) (*person.Person, error) {
	p, err := scanPerson(s.db.QueryRowContext(ctx,
		"SELECT "+personColumns+" FROM persons WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("person %d: %w", id, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get person %d: %w", id, err)
	}
	if p.DocsAuthored, err = s.docSet(ctx, "document_authors", id); err != nil {
		return nil, err
	}
	if p.DocsReceived, err = s.docSet(ctx, "document_recipients", id); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Store) docSet(ctx context.Context, linkTable string, id int64) (person.DocSet, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT tid FROM "+linkTable+" WHERE person_id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", linkTable, err)
	}
	defer rows.Close()

	set := person.NewDocSet()
	for rows.Next() {
		var tid string
		if err := rows.Scan(&tid); err != nil {
			return nil, fmt.Errorf("scan %s: %w", linkTable, err)
		}
		set.Add(tid)
	}
	return set, rows.Err()
}

// List returns records in id order.
func (s *Store) List(ctx context.Context, opts store.ListOptions) ([]*person.Person, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+personColumns+" FROM persons ORDER BY id LIMIT ? OFFSET ?",
		limit, max(opts.Offset, 0))
	if err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}
	defer rows.Close()
	return scanPeople(rows)
}

// Count returns the number of records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM persons").Scan(&n); err != nil {
		return 0, fmt.Errorf("count persons: %w", err)
	}
	return n, nil
}
