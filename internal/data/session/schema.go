package session

import (
	"context"
	"database/sql"
	"fmt"

	"shadow/internal/core/errors"
)

// SchemaVersion is the newest migration this build knows how to apply.
const SchemaVersion = 2

type migration struct {
	version int
	stmts   []string
}

// At most one row may have active = 1.
var migrations = []migration{
	{version: 1, stmts: []string{
		`CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  workspace_path TEXT NOT NULL,
  started_at_utc TEXT NOT NULL,
  diff_count INTEGER NOT NULL DEFAULT 0,
  active INTEGER NOT NULL DEFAULT 1
)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_sessions_single_active ON sessions(active) WHERE active = 1`,
	}},
	{version: 2, stmts: []string{
		`ALTER TABLE sessions ADD COLUMN stopped_at_utc TEXT NOT NULL DEFAULT ''`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at_utc)`,
	}},
}

// EnsureSchema applies every pending migration, each in its own transaction.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	const bookkeeping = `CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  applied_at_utc TEXT NOT NULL DEFAULT (CURRENT_TIMESTAMP)
)`
	if _, err := db.ExecContext(ctx, bookkeeping); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "create schema_migrations")
	}

	current, err := appliedVersion(ctx, db)
	if err != nil {
		return err
	}
	if current > SchemaVersion {
		return errors.New(errors.CodeConflict,
			fmt.Sprintf("session database is at schema %d; this build supports up to %d", current, SchemaVersion))
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := apply(ctx, db, m); err != nil {
			return errors.Wrap(err, errors.CodeInternal, fmt.Sprintf("apply session schema %d", m.version))
		}
	}
	return nil
}

func appliedVersion(ctx context.Context, db *sql.DB) (int, error) {
	var v int
	if err := db.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&v); err != nil {
		return 0, errors.Wrap(err, errors.CodeInternal, "read schema version")
	}
	return v, nil
}

func apply(ctx context.Context, db *sql.DB, m migration) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, stmt := range m.stmts {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	if _, err = tx.ExecContext(ctx, `INSERT INTO schema_migrations(version) VALUES (?)`, m.version); err != nil {
		return err
	}
	return tx.Commit()
}
