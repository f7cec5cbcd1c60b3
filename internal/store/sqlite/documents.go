package sqlite

import (
	"context"
	"fmt"
	"strings"

	"namedisambig/internal/person"
	"namedisambig/internal/store"
)

const documentColumns = "tid, title, date, doc_type, collection, pages, au, au_org, au_person, rc, rc_org, rc_person, cc, cc_org"

// SaveDocument inserts doc or updates the existing row with the same tid.
// Existing author and recipient links are kept.
func (s *Store) SaveDocument(ctx context.Context, doc store.Document) error {
	if strings.TrimSpace(doc.TID) == "" {
		return fmt.Errorf("save document: empty tid: %w", person.ErrInvalidArgument)
	}
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO documents (`+documentColumns+`)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
            ON CONFLICT(tid) DO UPDATE SET
                title = excluded.title,
                date = excluded.date,
                doc_type = excluded.doc_type,
                collection = excluded.collection,
                pages = excluded.pages,
                au = excluded.au,
                au_org = excluded.au_org,
                au_person = excluded.au_person,
                rc = excluded.rc,
                rc_org = excluded.rc_org,
                rc_person = excluded.rc_person,
                cc = excluded.cc,
                cc_org = excluded.cc_org`,
			doc.TID, doc.Title, doc.Date, doc.DocType, doc.Collection, doc.Pages,
			doc.Authors, doc.AuthorOrgs, doc.AuthorPersons,
			doc.Recipients, doc.RecipientOrgs, doc.RecipientPersons,
			doc.CC, doc.CCOrgs,
		)
		if err != nil {
			return fmt.Errorf("save document %q: %w", doc.TID, err)
		}
		return nil
	})
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
	var found int
	err := s.db.QueryRowContext(ctx,
		"SELECT (SELECT COUNT(1) FROM persons WHERE id = ?) + 2 * (SELECT COUNT(1) FROM documents WHERE tid = ?)",
		personID, tid,
	).Scan(&found)
	if err != nil {
		return fmt.Errorf("check link targets: %w", err)
	}
	if found&1 == 0 {
		return fmt.Errorf("person %d: %w", personID, store.ErrNotFound)
	}
	if found&2 == 0 {
		return fmt.Errorf("document %q: %w", tid, store.ErrNotFound)
	}

	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx,
			"INSERT OR IGNORE INTO "+linkTable+" (person_id, tid) VALUES (?, ?)", personID, tid)
		if err != nil {
			return fmt.Errorf("link %s: %w", linkTable, err)
		}
		return nil
	})
}

// DocumentsFor returns the documents linked to personID, ordered by tid.
func (s *Store) DocumentsFor(ctx context.Context, personID int64, role store.Role) ([]store.Document, error) {
	linkTable := "document_authors"
	if role == store.RoleRecipient {
		linkTable = "document_recipients"
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT d."+strings.ReplaceAll(documentColumns, ", ", ", d.")+
			" FROM documents d JOIN "+linkTable+" l ON l.tid = d.tid WHERE l.person_id = ? ORDER BY d.tid",
		personID)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var docs []store.Document
	for rows.Next() {
		var d store.Document
		if err := rows.Scan(
			&d.TID, &d.Title, &d.Date, &d.DocType, &d.Collection, &d.Pages,
			&d.Authors, &d.AuthorOrgs, &d.AuthorPersons,
			&d.Recipients, &d.RecipientOrgs, &d.RecipientPersons,
			&d.CC, &d.CCOrgs,
		); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}
