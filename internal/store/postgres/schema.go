package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"namedisambig/internal/store"
)

//go:embed schema.sql
var schemaSQL string

const schemaVersion = 1

// schemaLockKey serializes schema creation between concurrent first runs.
const schemaLockKey = 0x6e616d65

func (s *Store) initSchema(ctx context.Context) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", int64(schemaLockKey)); err != nil {
		return fmt.Errorf("lock schema: %w", err)
	}

	var exists bool
	if err := tx.QueryRow(ctx, "SELECT to_regclass('schema_version') IS NOT NULL").Scan(&exists); err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if exists {
		var version int
		err := tx.QueryRow(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("read schema version: %w", err)
		}
		if err == nil {
			if version != schemaVersion {
				return fmt.Errorf("%w: database has version %d, expected %d",
					store.ErrSchemaMismatch, version, schemaVersion)
			}
			return tx.Commit(ctx)
		}
	}

	if _, err := tx.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.Exec(ctx, "INSERT INTO schema_version (version) VALUES ($1)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}
