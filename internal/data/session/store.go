package session

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"shadow/internal/core/errors"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const (
	driverName  = "sqlite"
	maxAttempts = 5
)

// Session is one tracked working period over a workspace.
type Session struct {
	ID            string    `json:"id" yaml:"id"`
	WorkspacePath string    `json:"workspace_path" yaml:"workspace_path"`
	StartedAt     time.Time `json:"started_at" yaml:"started_at"`
	StoppedAt     time.Time `json:"stopped_at,omitempty" yaml:"stopped_at,omitempty"`
	DiffCount     int       `json:"diff_count" yaml:"diff_count"`
	Active        bool      `json:"active" yaml:"active"`
}

// Store persists sessions in SQLite. At most one session is active at a time.
type Store struct {
	path string
	db   *sql.DB
	mu   sync.Mutex
	now  func() time.Time
}

func Open(path string, busyTimeout time.Duration) (*Store, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return nil, errors.New(errors.CodeValidationError, "session db path must not be empty")
	}
	if info, err := os.Stat(cleanPath); err == nil && info.IsDir() {
		return nil, errors.AddContext(
			errors.New(errors.CodeValidationError, "session db path is a directory, expected file"), errors.CtxPath, cleanPath)
	}

	dir := filepath.Dir(cleanPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.IOFailure(dir, err)
		}
	}

	if busyTimeout <= 0 {
		busyTimeout = 5 * time.Second
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)", cleanPath, busyTimeout.Milliseconds())
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite sessions %q: %w", cleanPath, err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite sessions %q: %w", cleanPath, err)
	}
	if err := EnsureSchema(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize sqlite schema %q: %w", cleanPath, err)
	}

	return &Store{path: cleanPath, db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// Start opens a new active session for workspacePath. It fails with
// CONFLICT when another session is still active.
func (s *Store) Start(ctx context.Context, workspacePath string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := &Session{
		ID:            uuid.NewString(),
		WorkspacePath: workspacePath,
		StartedAt:     s.now().UTC(),
		Active:        true,
	}

	err := s.withRetry("start session", func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		var existing string
		err = tx.QueryRowContext(ctx, `SELECT id FROM sessions WHERE active = 1`).Scan(&existing)
		switch {
		case err == nil:
			return errors.AddContext(errors.New(errors.CodeConflict, "a session is already active"), errors.CtxSession, existing)
		case !stderrors.Is(err, sql.ErrNoRows):
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sessions (id, workspace_path, started_at_utc, diff_count, active) VALUES (?, ?, ?, 0, 1)`,
			sess.ID, sess.WorkspacePath, sess.StartedAt.Format(time.RFC3339Nano),
		); err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// Active returns the active session, or ok=false when there is none.
func (s *Store) Active(ctx context.Context) (*Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active(ctx)
}

func (s *Store) active(ctx context.Context) (*Session, bool, error) {
	var sess *Session
	err := s.withRetry("load active session", func() error {
		row := s.db.QueryRowContext(ctx, `
SELECT id, workspace_path, started_at_utc, stopped_at_utc, diff_count, active
FROM sessions WHERE active = 1`)
		var scanErr error
		sess, scanErr = scanSession(row)
		return scanErr
	})
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return sess, true, nil
}

// Stop deactivates the active session and returns its final state.
// It fails with NOT_FOUND when no session is active.
func (s *Store) Stop(ctx context.Context) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok, err := s.active(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New(errors.CodeNotFound, "no active session")
	}

	stoppedAt := s.now().UTC()
	err = s.withRetry("stop session", func() error {
		_, err := s.db.ExecContext(ctx,
			`UPDATE sessions SET active = 0, stopped_at_utc = ? WHERE id = ?`,
			stoppedAt.Format(time.RFC3339Nano), sess.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	sess.Active = false
	sess.StoppedAt = stoppedAt
	return sess, nil
}

// IncrementDiffCount adds n to the active session's diff counter. It is a
// no-op when no session is active.
func (s *Store) IncrementDiffCount(ctx context.Context, n int) error {
	if n <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.withRetry("increment diff count", func() error {
		_, err := s.db.ExecContext(ctx, `UPDATE sessions SET diff_count = diff_count + ? WHERE active = 1`, n)
		return err
	})
}

// Recent returns up to limit sessions, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		limit = 10
	}

	var rows *sql.Rows
	err := s.withRetry("load sessions", func() error {
		var qErr error
		rows, qErr = s.db.QueryContext(ctx, `
SELECT id, workspace_path, started_at_utc, stopped_at_utc, diff_count, active
FROM sessions ORDER BY started_at_utc DESC, id ASC LIMIT ?`, limit)
		return qErr
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Session, 0)
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		out = append(out, *sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session rows: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*Session, error) {
	var (
		sess       Session
		startedRaw string
		stoppedRaw string
		active     int
	)
	if err := row.Scan(&sess.ID, &sess.WorkspacePath, &startedRaw, &stoppedRaw, &sess.DiffCount, &active); err != nil {
		return nil, err
	}

	started, err := time.Parse(time.RFC3339Nano, startedRaw)
	if err != nil {
		return nil, fmt.Errorf("parse session start %q: %w", startedRaw, err)
	}
	sess.StartedAt = started.UTC()
	if stoppedRaw != "" {
		stopped, err := time.Parse(time.RFC3339Nano, stoppedRaw)
		if err != nil {
			return nil, fmt.Errorf("parse session stop %q: %w", stoppedRaw, err)
		}
		sess.StoppedAt = stopped.UTC()
	}
	sess.Active = active == 1
	return &sess, nil
}

func (s *Store) withRetry(op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !isLockError(err) || attempt == maxAttempts {
			break
		}
		time.Sleep(time.Duration(attempt*25) * time.Millisecond)
	}

	var de *errors.DomainError
	if stderrors.As(lastErr, &de) || stderrors.Is(lastErr, sql.ErrNoRows) {
		return lastErr
	}
	return fmt.Errorf("%s: %w", op, lastErr)
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "busy")
}
