package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"namedisambig/internal/counter"
	"namedisambig/internal/orgtable"
	"namedisambig/internal/person"
)

const personColumns = "id, last, first, middle, positions, aliases, count"

// personQueries implements resolver.Store over a connection or transaction.
type personQueries struct {
	q     querier
	table *orgtable.Table
}

func (p personQueries) FindByAliasPrefix(ctx context.Context, prefix string) ([]*person.Person, error) {
	rows, err := p.q.QueryContext(ctx,
		"SELECT "+personColumns+" FROM persons WHERE instr(aliases, ?) > 0 ORDER BY id", prefix)
	if err != nil {
		return nil, fmt.Errorf("query alias prefix: %w", err)
	}
	defer rows.Close()
	return scanPeople(rows)
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

	res, err := p.q.ExecContext(ctx,
		`INSERT INTO persons (
            last, first, middle, full_name, most_likely_org,
            positions, aliases, count, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Last,
		rec.First,
		rec.Middle,
		rec.FullName(),
		rec.MostLikelyPosition(p.table),
		string(positions),
		string(aliases),
		rec.Count,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert person: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	out := rec.Copy()
	out.ID = id
	out.DocsAuthored = nil
	out.DocsReceived = nil
	return out, nil
}

func scanPerson(scanner interface{ Scan(dest ...any) error }) (*person.Person, error) {
	var (
		rec       person.Person
		positions string
		aliases   string
	)
	if err := scanner.Scan(&rec.ID, &rec.Last, &rec.First, &rec.Middle, &positions, &aliases, &rec.Count); err != nil {
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

func scanPeople(rows *sql.Rows) ([]*person.Person, error) {
	var out []*person.Person
	for rows.Next() {
		rec, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate persons: %w", err)
	}
	return out, nil
}
