package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"namedisambig/internal/counter"
	"namedisambig/internal/orgtable"
	"namedisambig/internal/person"
	"namedisambig/internal/resolver"
	"namedisambig/internal/store"
)

// foreignKeyViolation is the SQLSTATE for a missing referenced row.
const foreignKeyViolation = "23503"

const personColumns = "id, last, first, middle, positions, aliases, count"

const documentColumns = "tid, title, date, doc_type, collection, pages, au, au_org, au_person, rc, rc_org, rc_person, cc, cc_org"

// querier is satisfied by *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements store.Store on PostgreSQL.
type Store struct {
	pool  *pgxpool.Pool
	table *orgtable.Table
}

var _ store.Store = (*Store)(nil)

// Open connects to dsn and ensures the schema exists.
func Open(ctx context.Context, dsn string, table *orgtable.Table) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	s, err := New(ctx, pool, table)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing pool. The pool is closed by Close.
func New(ctx context.Context, pool *pgxpool.Pool, table *orgtable.Table) (*Store, error) {
	s := &Store{pool: pool, table: table}
	if err := s.initSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Close releases the pool.
func (s *Store) Close() error {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// FindByAliasPrefix returns records whose aliases JSON contains prefix.
func (s *Store) FindByAliasPrefix(ctx context.Context, prefix string) ([]*person.Person, error) {
	return personQueries{q: s.pool, table: s.table}.FindByAliasPrefix(ctx, prefix)
}

// Insert persists p.
func (s *Store) Insert(ctx context.Context, p *person.Person) (*person.Person, error) {
	return personQueries{q: s.pool, table: s.table}.Insert(ctx, p)
}

// WithAliasLock runs fn in a transaction holding an advisory lock on key.
func (s *Store) WithAliasLock(ctx context.Context, key string, fn func(ctx context.Context, tx resolver.Store) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin alias tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", key); err != nil {
		return fmt.Errorf("lock alias %q: %w", key, err)
	}
	if err := fn(ctx, personQueries{q: tx, table: s.table}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit alias tx: %w", err)
	}
	return nil
}

// Get returns the record with id and its document sets.
func (s *Store) Get(ctx context.Context, id int64) (*person.Person, error) {
	p, err := scanPerson(s.pool.QueryRow(ctx, "SELECT "+personColumns+" FROM persons WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
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
	rows, err := s.pool.Query(ctx, "SELECT tid FROM "+linkTable+" WHERE person_id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", linkTable, err)
	}
	tids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", linkTable, err)
	}
	return person.NewDocSet(tids...), nil
}

// List returns records in id order.
func (s *Store) List(ctx context.Context, opts store.ListOptions) ([]*person.Person, error) {
	var limit any
	if opts.Limit > 0 {
		limit = opts.Limit
	}
	rows, err := s.pool.Query(ctx,
		"SELECT "+personColumns+" FROM persons ORDER BY id LIMIT $1 OFFSET $2",
		limit, max(opts.Offset, 0))
	if err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}
	return collectPeople(rows)
}

// Count returns the number of records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(1) FROM persons").Scan(&n); err != nil {
		return 0, fmt.Errorf("count persons: %w", err)
	}
	return n, nil
}

// SaveDocument inserts doc or updates the row with the same tid.
func (s *Store) SaveDocument(ctx context.Context, doc store.Document) error {
	if strings.TrimSpace(doc.TID) == "" {
		return fmt.Errorf("save document: empty tid: %w", person.ErrInvalidArgument)
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO documents (`+documentColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
        ON CONFLICT (tid) DO UPDATE SET
            title = EXCLUDED.title,
            date = EXCLUDED.date,
            doc_type = EXCLUDED.doc_type,
            collection = EXCLUDED.collection,
            pages = EXCLUDED.pages,
            au = EXCLUDED.au,
            au_org = EXCLUDED.au_org,
            au_person = EXCLUDED.au_person,
            rc = EXCLUDED.rc,
            rc_org = EXCLUDED.rc_org,
            rc_person = EXCLUDED.rc_person,
            cc = EXCLUDED.cc,
            cc_org = EXCLUDED.cc_org`,
		doc.TID, doc.Title, doc.Date, doc.DocType, doc.Collection, doc.Pages,
		doc.Authors, doc.AuthorOrgs, doc.AuthorPersons,
		doc.Recipients, doc.RecipientOrgs, doc.RecipientPersons,
		doc.CC, doc.CCOrgs,
	)
	if err != nil {
		return fmt.Errorf("save document %q: %w", doc.TID, err)
	}
	return nil
}

// LinkAuthor records personID as an author of tid.
func (s *Store) LinkAuthor(ctx context.Context, personID int64, tid string) error {
	return s.link(ctx, "document_authors", personID, tid)
}

// LinkRecipient records personID as a recipient of tid.
func (s *Store) LinkRecipient(ctx context.Context, personID int64, tid string) error {
	return s.link(ctx, "document_recipients", personID, tid)
}

func (s *Store) link(ctx context.Context, linkTable string, personID int64, tid string) error {
	_, err := s.pool.Exec(ctx,
		"INSERT INTO "+linkTable+" (person_id, tid) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		personID, tid)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
		return fmt.Errorf("link person %d to %q: %w", personID, tid, store.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("link %s: %w", linkTable, err)
	}
	return nil
}

// DocumentsFor returns the documents linked to personID, ordered by tid.
func (s *Store) DocumentsFor(ctx context.Context, personID int64, role store.Role) ([]store.Document, error) {
	linkTable := "document_authors"
	if role == store.RoleRecipient {
		linkTable = "document_recipients"
	}
	rows, err := s.pool.Query(ctx,
		"SELECT d."+strings.ReplaceAll(documentColumns, ", ", ", d.")+
			" FROM documents d JOIN "+linkTable+" l ON l.tid = d.tid WHERE l.person_id = $1 ORDER BY d.tid",
		personID)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	docs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (store.Document, error) {
		var d store.Document
		err := row.Scan(
			&d.TID, &d.Title, &d.Date, &d.DocType, &d.Collection, &d.Pages,
			&d.Authors, &d.AuthorOrgs, &d.AuthorPersons,
			&d.Recipients, &d.RecipientOrgs, &d.RecipientPersons,
			&d.CC, &d.CCOrgs,
		)
		return d, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan documents: %w", err)
	}
	return docs, nil
}

// personQueries implements resolver.Store over the pool or a transaction.
type personQueries struct {
	q     querier
	table *orgtable.Table
}

func (p personQueries) FindByAliasPrefix(ctx context.Context, prefix string) ([]*person.Person, error) {
	rows, err := p.q.Query(ctx,
		"SELECT "+personColumns+" FROM persons WHERE strpos(aliases, $1) > 0 ORDER BY id", prefix)
	if err != nil {
		return nil, fmt.Errorf("query alias prefix: %w", err)
	}
	return collectPeople(rows)
}

func (p personQueries) Insert(ctx context.Context, rec *person.Person) (*person.Person, error) {
	if rec == nil {
		return nil, fmt.Errorf("insert: %w", person.ErrInvalidArgument)
	}
	positions, err := rec.Positions.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode positions: %w", err)
	}
	aliases, err := rec.Aliases.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode aliases: %w", err)
	}

	var id int64
	err = p.q.QueryRow(ctx,
		`INSERT INTO persons (last, first, middle, full_name, most_likely_org, positions, aliases, count)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id`,
		rec.Last, rec.First, rec.Middle,
		rec.FullName(), rec.MostLikelyPosition(p.table),
		string(positions), string(aliases), rec.Count,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert person: %w", err)
	}

	out := rec.Copy()
	out.ID = id
	out.DocsAuthored = nil
	out.DocsReceived = nil
	return out, nil
}

func scanPerson(row pgx.Row) (*person.Person, error) {
	var (
		rec       person.Person
		positions string
		aliases   string
	)
	if err := row.Scan(&rec.ID, &rec.Last, &rec.First, &rec.Middle, &positions, &aliases, &rec.Count); err != nil {
		return nil, err
	}
	if err := decodeCounter(positions, &rec.Positions); err != nil {
		return nil, fmt.Errorf("person %d positions: %w", rec.ID, err)
	}
	if err := decodeCounter(aliases, &rec.Aliases); err != nil {
		return nil, fmt.Errorf("person %d aliases: %w", rec.ID, err)
	}
	return &rec, nil
}

func decodeCounter(raw string, dst *counter.Counter) error {
	if raw == "" {
		return nil
	}
	return dst.UnmarshalJSON([]byte(raw))
}

func collectPeople(rows pgx.Rows) ([]*person.Person, error) {
	people, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*person.Person, error) {
		return scanPerson(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan persons: %w", err)
	}
	return people, nil
}
