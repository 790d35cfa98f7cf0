package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/alexanderramin/worklog/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConcurrentCreate_OneActivePerOwner races many creates for the same
// owner against a file-backed database. The partial unique index must let
// exactly one through.
func TestConcurrentCreate_OneActivePerOwner(t *testing.T) {
	database := testutil.NewFileTestDB(t)
	repo := NewSQLiteSessionRepo(database)
	ctx := context.Background()

	const writers = 8
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		successes  int
		duplicates int
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := repo.Create(ctx, testutil.NewTestSession("alice", fmt.Sprintf("p%d", i)))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domain.ErrDuplicateActiveSession):
				duplicates++
			default:
				t.Errorf("writer %d: unexpected error: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, writers-1, duplicates)

	page, err := repo.ListByOwner(ctx, "alice", 1, 50)
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalCount)
}

// TestConcurrentUpdate_SingleWinner races a pause against an end on the same
// running session. Exactly one conditional update may apply.
func TestConcurrentUpdate_SingleWinner(t *testing.T) {
	database := testutil.NewFileTestDB(t)
	repo := NewSQLiteSessionRepo(database)
	ctx := context.Background()

	sess := testutil.NewTestSession("alice", "p1", testutil.WithStartedAt(base))
	require.NoError(t, repo.Create(ctx, sess))

	paused, err := sess.Pause(base.Add(time.Minute))
	require.NoError(t, err)
	ended, err := sess.End(base.Add(time.Minute), "")
	require.NoError(t, err)

	results := make([]error, 2)
	var wg sync.WaitGroup
	for i, next := range []*domain.Session{&paused, &ended} {
		wg.Add(1)
		go func(i int, next *domain.Session) {
			defer wg.Done()
			results[i] = repo.UpdateIfState(ctx, next, domain.StateRunning)
		}(i, next)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, domain.ErrStateConflict):
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, conflicts)
}

// TestConcurrentAccess_ReadsDuringWrites verifies WAL readers see consistent
// rows while a writer cycles sessions.
func TestConcurrentAccess_ReadsDuringWrites(t *testing.T) {
	database := testutil.NewFileTestDB(t)
	repo := NewSQLiteSessionRepo(database)
	ctx := context.Background()

	const cycles = 20
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < cycles; i++ {
			start := base.Add(time.Duration(i) * time.Hour)
			s := testutil.NewTestSession("alice", "p1", testutil.WithStartedAt(start))
			if err := repo.Create(ctx, s); err != nil {
				t.Errorf("writer: create %d: %v", i, err)
				return
			}
			done, err := s.End(start.Add(30*time.Minute), "")
			if err != nil {
				t.Errorf("writer: end %d: %v", i, err)
				return
			}
			if err := repo.UpdateIfState(ctx, &done, domain.StateRunning); err != nil {
				t.Errorf("writer: update %d: %v", i, err)
				return
			}
		}
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func(reader int) {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				list, err := repo.ListCompletedByOwnerAndProject(ctx, "alice", "p1")
				if err != nil {
					t.Errorf("reader %d: %v", reader, err)
					return
				}
				for _, s := range list {
					if s.EndedAt == nil || s.Active {
						t.Errorf("reader %d: saw half-written session %s", reader, s.ID)
					}
				}
			}
		}(r)
	}
	wg.Wait()

	list, err := repo.ListCompletedByOwnerAndProject(ctx, "alice", "p1")
	require.NoError(t, err)
	assert.Len(t, list, cycles)
}
