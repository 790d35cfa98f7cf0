package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/worklog/internal/clock"
	"github.com/alexanderramin/worklog/internal/repository"
	"github.com/alexanderramin/worklog/internal/testutil"
)

// t0 is a Monday morning, well clear of any month or year boundary.
var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

// setupSQLite wires the services to an in-memory SQLite store and a manual
// clock set to t0.
func setupSQLite(t *testing.T, observers ...UseCaseObserver) (SessionService, StatsService, repository.SessionRepo, *clock.Manual) {
	t.Helper()
	repo := repository.NewSQLiteSessionRepo(testutil.NewTestDB(t))
	clk := clock.NewManual(t0)
	return NewSessionService(repo, clk, observers...), NewStatsService(repo, clk, time.UTC, observers...), repo, clk
}

// recordingObserver keeps every event it sees.
type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingObserver) last() UseCaseEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return UseCaseEvent{}
	}
	return r.events[len(r.events)-1]
}
