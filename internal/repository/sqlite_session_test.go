package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/alexanderramin/worklog/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteSessionRepo_TransportErrorPassesThrough(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	boom := errors.New("disk I/O error")

	failing := testutil.NewFailOnNthExec(database, 1, boom)
	repo := NewSQLiteSessionRepo(failing)

	err := repo.Create(ctx, testutil.NewTestSession("alice", "p1"))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrDuplicateActiveSession)
	assert.Equal(t, int32(1), failing.Execs())

	// The failed insert left nothing behind.
	exists, err := repo.ExistsActiveByOwner(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSQLiteSessionRepo_UpdateTransportErrorIsNotAConflict(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	boom := errors.New("database is locked")

	sess := testutil.NewTestSession("alice", "p1", testutil.WithStartedAt(base))
	require.NoError(t, NewSQLiteSessionRepo(database).Create(ctx, sess))

	repo := NewSQLiteSessionRepo(testutil.NewFailOnNthExec(database, 1, boom))
	paused, err := sess.Pause(base.Add(time.Minute))
	require.NoError(t, err)

	err = repo.UpdateIfState(ctx, &paused, domain.StateRunning)
	assert.ErrorIs(t, err, boom)
	assert.False(t, domain.IsRetryable(err))
}

func TestSQLiteSessionRepo_ReadsPlainRFC3339Timestamps(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	_, err := database.Exec(`INSERT INTO sessions
		(id, owner_id, project_id, started_at, ended_at, active, paused, paused_at, note, created_at, updated_at)
		VALUES ('legacy', 'alice', 'p1', '2026-01-05T09:00:00Z', '2026-01-05T10:30:00+00:00', 0, 0, NULL, '', '2026-01-05T09:00:00Z', '2026-01-05T10:30:00Z')`)
	require.NoError(t, err)

	sess, err := NewSQLiteSessionRepo(database).FindByID(ctx, "legacy")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC), sess.StartedAt)
	require.NotNil(t, sess.EndedAt)
	assert.Equal(t, 90, domain.CompletedMinutes(*sess))
}

func TestSQLiteSessionRepo_StoresFixedWidthUTC(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	loc := time.FixedZone("UTC+2", 2*60*60)
	sess := testutil.NewTestSession("alice", "p1", testutil.WithStartedAt(time.Date(2026, 1, 5, 11, 0, 0, 0, loc)))
	require.NoError(t, NewSQLiteSessionRepo(database).Create(ctx, sess))

	var raw string
	require.NoError(t, database.QueryRow(`SELECT started_at FROM sessions WHERE id = ?`, sess.ID).Scan(&raw))
	assert.Equal(t, "2026-01-05T09:00:00.000000000Z", raw)
}

func TestIsActiveSessionConflict_IgnoresOtherErrors(t *testing.T) {
	assert.False(t, isActiveSessionConflict(errors.New("UNIQUE constraint failed: sessions.owner_id")))
	assert.False(t, isActiveSessionConflict(nil))
}
