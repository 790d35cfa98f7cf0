package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/worklog/internal/clock"
	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/alexanderramin/worklog/internal/mock"
	"github.com/alexanderramin/worklog/internal/repository"
	"github.com/alexanderramin/worklog/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, repo repository.SessionRepo, sessions ...*domain.Session) {
	t.Helper()
	for _, s := range sessions {
		require.NoError(t, repo.Create(context.Background(), s))
	}
}

func done(owner, project string, start time.Time, minutes int) *domain.Session {
	return testutil.NewTestSession(owner, project,
		testutil.WithStartedAt(start),
		testutil.WithDuration(time.Duration(minutes)*time.Minute),
	)
}

func TestProjectTotal_Aggregates(t *testing.T) {
	_, stats, repo, _ := setupSQLite(t)
	ctx := context.Background()

	seed(t, repo,
		done("alice", "P", t0, 60),
		done("alice", "P", t0.Add(2*time.Hour), 45),
		done("alice", "P", t0.Add(4*time.Hour), 30),
		done("alice", "Q", t0, 600),
		done("bob", "P", t0, 600),
		testutil.NewTestSession("alice", "P", testutil.WithStartedAt(t0.Add(6*time.Hour))),
	)

	sum, err := stats.ProjectTotal(ctx, "alice", "P")
	require.NoError(t, err)
	assert.Equal(t, "P", sum.ProjectID)
	assert.Equal(t, 135, sum.TotalMinutes)
	assert.Equal(t, 3, sum.TotalSessions)
	assert.Equal(t, 45.0, sum.AverageMinutes)
	assert.InDelta(t, 2.25, sum.TotalHours, 1e-9)
	require.NotNil(t, sum.LastSessionDate)
	assert.Equal(t, t0.Add(4*time.Hour), *sum.LastSessionDate)
}

func TestProjectTotal_EndedWhilePausedBillsOpenPause(t *testing.T) {
	svc, stats, _, clk := setupSQLite(t)
	ctx := context.Background()

	sess, err := svc.Start(ctx, "alice", "acme", "")
	require.NoError(t, err)
	clk.Advance(20 * time.Minute)
	_, err = svc.Pause(ctx, "alice")
	require.NoError(t, err)
	clk.Advance(30 * time.Minute)
	_, err = svc.End(ctx, sess.ID, "alice", "")
	require.NoError(t, err)

	sum, err := stats.ProjectTotal(ctx, "alice", "acme")
	require.NoError(t, err)
	assert.Equal(t, 50, sum.TotalMinutes)
}

func TestProjectTotal_Empty(t *testing.T) {
	_, stats, _, _ := setupSQLite(t)

	sum, err := stats.ProjectTotal(context.Background(), "alice", "P")
	require.NoError(t, err)
	assert.Zero(t, sum.TotalMinutes)
	assert.Zero(t, sum.TotalSessions)
	assert.Zero(t, sum.AverageMinutes)
	assert.Nil(t, sum.LastSessionDate)
}

func TestProjectTotals_KeepsRequestOrder(t *testing.T) {
	_, stats, repo, _ := setupSQLite(t)
	seed(t, repo,
		done("alice", "A", t0, 10),
		done("alice", "B", t0.Add(time.Hour), 20),
		done("alice", "C", t0.Add(2*time.Hour), 30),
	)

	sums, err := stats.ProjectTotals(context.Background(), "alice", []string{"C", "A", "missing", "B"})
	require.NoError(t, err)
	require.Len(t, sums, 4)
	assert.Equal(t, "C", sums[0].ProjectID)
	assert.Equal(t, 30, sums[0].TotalMinutes)
	assert.Equal(t, 10, sums[1].TotalMinutes)
	assert.Equal(t, "missing", sums[2].ProjectID)
	assert.Zero(t, sums[2].TotalSessions)
	assert.Equal(t, 20, sums[3].TotalMinutes)
}

func TestProjectTotals_PropagatesStoreError(t *testing.T) {
	boom := errors.New("read failed")
	repo := &mock.SessionRepo{
		ListCompletedByOwnerAndProjectFn: func(_ context.Context, _, projectID string) ([]*domain.Session, error) {
			if projectID == "bad" {
				return nil, boom
			}
			return nil, nil
		},
	}
	stats := NewStatsService(repo, clock.NewManual(t0), time.UTC)

	_, err := stats.ProjectTotals(context.Background(), "alice", []string{"ok", "bad"})
	assert.ErrorIs(t, err, boom)
}

func TestDailyTotal_UsesDayLocation(t *testing.T) {
	_, stats, repo, _ := setupSQLite(t)
	berlin := time.FixedZone("CET", 60*60)

	// 23:30 UTC on Mar 1 is 00:30 on Mar 2 in CET.
	seed(t, repo,
		done("alice", "P", time.Date(2026, 3, 1, 23, 30, 0, 0, time.UTC), 15),
		done("alice", "P", time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC), 45),
		done("alice", "P", time.Date(2026, 3, 1, 22, 0, 0, 0, time.UTC), 100),
	)

	day, err := stats.DailyTotal(context.Background(), "alice", time.Date(2026, 3, 2, 8, 0, 0, 0, berlin))
	require.NoError(t, err)
	assert.Equal(t, 60, day.TotalMinutes)
	assert.Equal(t, 2, day.Sessions)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, berlin), day.Start)
}

func TestRangeTotal(t *testing.T) {
	_, stats, repo, _ := setupSQLite(t)
	ctx := context.Background()
	seed(t, repo,
		done("alice", "P", t0, 30),
		done("alice", "Q", t0.Add(24*time.Hour), 30),
		done("alice", "P", t0.Add(48*time.Hour), 30),
	)

	total, err := stats.RangeTotal(ctx, "alice", t0, t0.Add(48*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 60, total.TotalMinutes)
	assert.Equal(t, 1.0, total.TotalHours)

	_, err = stats.RangeTotal(ctx, "alice", t0, t0.Add(-time.Hour))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestYearTotal_ScopesByEndedAt(t *testing.T) {
	_, stats, repo, _ := setupSQLite(t)
	seed(t, repo,
		done("alice", "P", time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC), 40),
		done("alice", "P", time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC), 70),
	)

	y2025, err := stats.YearTotal(context.Background(), "alice", 2025)
	require.NoError(t, err)
	assert.Equal(t, 40, y2025.TotalMinutes)
	assert.Equal(t, 1, y2025.Sessions)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), y2025.Start)
}

func TestYearTotal_JanuaryOnlyWithinYear(t *testing.T) {
	_, stats, repo, _ := setupSQLite(t)
	// Started on New Year's Eve, ended in January: counted in the new year.
	seed(t, repo,
		done("alice", "P", time.Date(2025, 12, 31, 23, 30, 0, 0, time.UTC), 60),
		done("alice", "P", time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC), 20),
	)

	y2026, err := stats.YearTotal(context.Background(), "alice", 2026)
	require.NoError(t, err)
	assert.Equal(t, 60, y2026.TotalMinutes)
}

func TestLastMonthTotal_FollowsClock(t *testing.T) {
	_, stats, repo, clk := setupSQLite(t)
	clk.Set(time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC))
	seed(t, repo,
		done("alice", "P", time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC), 30),
		done("alice", "P", time.Date(2025, 12, 31, 9, 0, 0, 0, time.UTC), 30),
		done("alice", "P", time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC), 30),
	)

	total, err := stats.LastMonthTotal(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 60, total.TotalMinutes)
	assert.Equal(t, time.December, total.Start.Month())
}

func TestOverview(t *testing.T) {
	obs := &recordingObserver{}
	_, stats, repo, clk := setupSQLite(t, obs)
	clk.Set(time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC))
	seed(t, repo,
		done("alice", "P", time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), 25),
		done("alice", "P", time.Date(2026, 2, 3, 9, 0, 0, 0, time.UTC), 50),
		done("alice", "P", time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC), 100),
	)

	ov, err := stats.Overview(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 25, ov.Today.TotalMinutes)
	assert.Equal(t, 50, ov.LastMonth.TotalMinutes)
	assert.Equal(t, 175, ov.Year.TotalMinutes)
	assert.Equal(t, 3, ov.Year.Sessions)
	assert.Equal(t, "stats.overview", obs.last().Name)
}

func TestOverview_PropagatesStoreError(t *testing.T) {
	boom := errors.New("year query failed")
	repo := &mock.SessionRepo{
		Base: repository.NewMemorySessionRepo(),
		ListCompletedByOwnerAndYearFn: func(context.Context, string, int, *time.Location) ([]*domain.Session, error) {
			return nil, boom
		},
	}
	stats := NewStatsService(repo, clock.NewManual(t0), nil)

	_, err := stats.Overview(context.Background(), "alice")
	assert.ErrorIs(t, err, boom)
}
