package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"shadow/internal/core/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state", "session.db"), time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_StartAndActive(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, ok, err := s.Active(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	started, err := s.Start(ctx, "/work/app")
	require.NoError(t, err)
	assert.NotEmpty(t, started.ID)
	assert.True(t, started.Active)
	assert.Equal(t, time.UTC, started.StartedAt.Location())

	active, ok, err := s.Active(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, started.ID, active.ID)
	assert.Equal(t, "/work/app", active.WorkspacePath)
	assert.True(t, started.StartedAt.Equal(active.StartedAt))
	assert.Zero(t, active.DiffCount)
}

func TestStore_StartWhileActiveConflicts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.Start(ctx, "/work")
	require.NoError(t, err)

	_, err = s.Start(ctx, "/work")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeConflict), "got %v", err)

	active, ok, err := s.Active(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, first.ID, active.ID)
}

func TestStore_StopWithoutSession(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Stop(context.Background())
	assert.True(t, errors.IsCode(err, errors.CodeNotFound), "got %v", err)
}

func TestStore_StopThenRestart(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }
	first, err := s.Start(ctx, "/work")
	require.NoError(t, err)

	s.now = func() time.Time { return base.Add(time.Hour) }
	stopped, err := s.Stop(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, stopped.ID)
	assert.False(t, stopped.Active)
	assert.True(t, stopped.StoppedAt.Equal(base.Add(time.Hour)))

	_, ok, err := s.Active(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	s.now = func() time.Time { return base.Add(2 * time.Hour) }
	second, err := s.Start(ctx, "/work")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	recent, err := s.Recent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, second.ID, recent[0].ID)
	assert.True(t, recent[0].Active)
	assert.Equal(t, first.ID, recent[1].ID)
	assert.False(t, recent[1].Active)
	assert.True(t, recent[1].StoppedAt.Equal(base.Add(time.Hour)))
}

func TestStore_IncrementDiffCount(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// No active session: nothing to count against.
	require.NoError(t, s.IncrementDiffCount(ctx, 3))

	_, err := s.Start(ctx, "/work")
	require.NoError(t, err)
	require.NoError(t, s.IncrementDiffCount(ctx, 2))
	require.NoError(t, s.IncrementDiffCount(ctx, 0))
	require.NoError(t, s.IncrementDiffCount(ctx, 5))

	active, ok, err := s.Active(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 7, active.DiffCount)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")
	ctx := context.Background()

	s, err := Open(path, time.Second)
	require.NoError(t, err)
	started, err := s.Start(ctx, "/work")
	require.NoError(t, err)
	require.NoError(t, s.IncrementDiffCount(ctx, 4))
	require.NoError(t, s.Close())

	reopened, err := Open(path, time.Second)
	require.NoError(t, err)
	defer reopened.Close()

	active, ok, err := reopened.Active(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, started.ID, active.ID)
	assert.Equal(t, 4, active.DiffCount)
	assert.Equal(t, path, reopened.Path())
}

func TestOpen_RejectsBadPaths(t *testing.T) {
	_, err := Open("  ", time.Second)
	assert.True(t, errors.IsCode(err, errors.CodeValidationError), "got %v", err)

	_, err = Open(t.TempDir(), time.Second)
	assert.True(t, errors.IsCode(err, errors.CodeValidationError), "got %v", err)
}

func TestIsLockError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New(errors.CodeInternal, "database is locked"), true},
		{errors.New(errors.CodeInternal, "SQLITE_BUSY"), true},
		{errors.New(errors.CodeInternal, "no such table"), false},
	}
	for _, tt := range tests {
		if got := isLockError(tt.err); got != tt.want {
			t.Errorf("isLockError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestEnsureSchema(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, EnsureSchema(ctx, s.db), "re-running migrations must be a no-op")

	var applied int
	require.NoError(t, s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&applied))
	assert.Equal(t, SchemaVersion, applied)

	_, err := s.db.ExecContext(ctx, `INSERT INTO schema_migrations(version) VALUES (?)`, SchemaVersion+1)
	require.NoError(t, err)
	err = EnsureSchema(ctx, s.db)
	assert.True(t, errors.IsCode(err, errors.CodeConflict), "got %v", err)
}
