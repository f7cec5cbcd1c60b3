// Package store defines the persistence contract shared by the memory,
// SQLite and Postgres backends.
package store

import (
	"context"
	"errors"

	"namedisambig/internal/person"
	"namedisambig/internal/resolver"
)

var (
	// ErrNotFound is returned when a person or document does not exist.
	ErrNotFound = errors.New("not found")
	// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
	ErrSchemaMismatch = errors.New("schema version mismatch")
)

// Role distinguishes authored from received documents.
type Role string

const (
	RoleAuthor    Role = "author"
	RoleRecipient Role = "recipient"
)

// Document is one row of the document index. Raw author and recipient
// cells are kept verbatim next to the resolved links.
type Document struct {
	TID        string
	Title      string
	Date       string
	DocType    string
	Collection string
	Pages      int

	Authors          string
	AuthorOrgs       string
	AuthorPersons    string
	Recipients       string
	RecipientOrgs    string
	RecipientPersons string
	CC               string
	CCOrgs           string
}

// ListOptions pages through person records in id order.
type ListOptions struct {
	Limit  int
	Offset int
}

// Store is the full backend surface used by the CLI and ingest pipeline.
type Store interface {
	resolver.Store
	resolver.Locker

	// Get returns the record with its document sets filled in.
	Get(ctx context.Context, id int64) (*person.Person, error)
	List(ctx context.Context, opts ListOptions) ([]*person.Person, error)
	Count(ctx context.Context) (int, error)

	// SaveDocument inserts or replaces the document keyed by TID.
	SaveDocument(ctx context.Context, doc Document) error
	LinkAuthor(ctx context.Context, personID int64, tid string) error
	LinkRecipient(ctx context.Context, personID int64, tid string) error
	DocumentsFor(ctx context.Context, personID int64, role Role) ([]Document, error)

	Close() error
}
