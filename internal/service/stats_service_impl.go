package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/worklog/internal/clock"
	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/alexanderramin/worklog/internal/repository"
	"golang.org/x/sync/errgroup"
)

// maxProjectFanout bounds concurrent store reads in ProjectTotals.
const maxProjectFanout = 4

type statsService struct {
	sessions repository.SessionRepo
	clock    clock.Clock
	loc      *time.Location
	observer UseCaseObserver
}

// NewStatsService builds the aggregation service. loc fixes the calendar used
// for "today", last month and year boundaries; nil means UTC.
func NewStatsService(
	sessions repository.SessionRepo,
	clk clock.Clock,
	loc *time.Location,
	observers ...UseCaseObserver,
) StatsService {
	if loc == nil {
		loc = time.UTC
	}
	return &statsService{
		sessions: sessions,
		clock:    clock.OrSystem(clk),
		loc:      loc,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *statsService) ProjectTotal(ctx context.Context, ownerID, projectID string) (summary *domain.ProjectSummary, err error) {
	ownerID = domain.NormalizeOwnerID(ownerID)
	startedAt := time.Now()
	fields := map[string]any{"owner": ownerID, "project": projectID}
	defer func() { observeUseCase(ctx, s.observer, "stats.project", startedAt, fields, &err) }()

	sum, err := s.projectSummary(ctx, ownerID, projectID)
	if err != nil {
		return nil, err
	}
	fields["total_minutes"] = sum.TotalMinutes
	return &sum, nil
}

func (s *statsService) ProjectTotals(ctx context.Context, ownerID string, projectIDs []string) (summaries []domain.ProjectSummary, err error) {
	ownerID = domain.NormalizeOwnerID(ownerID)
	startedAt := time.Now()
	fields := map[string]any{"owner": ownerID, "projects": len(projectIDs)}
	defer func() { observeUseCase(ctx, s.observer, "stats.projects", startedAt, fields, &err) }()

	out := make([]domain.ProjectSummary, len(projectIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxProjectFanout)
	for i, projectID := range projectIDs {
		g.Go(func() error {
			sum, err := s.projectSummary(gctx, ownerID, projectID)
			if err != nil {
				return err
			}
			out[i] = sum
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *statsService) DailyTotal(ctx context.Context, ownerID string, day time.Time) (total *domain.PeriodTotal, err error) {
	ownerID = domain.NormalizeOwnerID(ownerID)
	startedAt := time.Now()
	fields := map[string]any{"owner": ownerID, "day": day.Format(time.DateOnly)}
	defer func() { observeUseCase(ctx, s.observer, "stats.day", startedAt, fields, &err) }()

	start, end := domain.DayBounds(day)
	return s.rangeTotal(ctx, ownerID, start, end)
}

func (s *statsService) RangeTotal(ctx context.Context, ownerID string, start, end time.Time) (total *domain.PeriodTotal, err error) {
	ownerID = domain.NormalizeOwnerID(ownerID)
	startedAt := time.Now()
	fields := map[string]any{"owner": ownerID, "start": start, "end": end}
	defer func() { observeUseCase(ctx, s.observer, "stats.range", startedAt, fields, &err) }()

	if end.Before(start) {
		return nil, fmt.Errorf("%w: range end precedes start", domain.ErrInvalidInput)
	}
	return s.rangeTotal(ctx, ownerID, start, end)
}

func (s *statsService) LastMonthTotal(ctx context.Context, ownerID string) (total *domain.PeriodTotal, err error) {
	ownerID = domain.NormalizeOwnerID(ownerID)
	startedAt := time.Now()
	fields := map[string]any{"owner": ownerID}
	defer func() { observeUseCase(ctx, s.observer, "stats.last_month", startedAt, fields, &err) }()

	start, end := domain.LastMonthRange(s.now())
	return s.rangeTotal(ctx, ownerID, start, end)
}

func (s *statsService) YearTotal(ctx context.Context, ownerID string, year int) (total *domain.PeriodTotal, err error) {
	ownerID = domain.NormalizeOwnerID(ownerID)
	startedAt := time.Now()
	fields := map[string]any{"owner": ownerID, "year": year}
	defer func() { observeUseCase(ctx, s.observer, "stats.year", startedAt, fields, &err) }()

	return s.yearTotal(ctx, ownerID, year)
}

// Overview computes today, last month and the current year in parallel.
func (s *statsService) Overview(ctx context.Context, ownerID string) (ov *domain.Overview, err error) {
	ownerID = domain.NormalizeOwnerID(ownerID)
	startedAt := time.Now()
	fields := map[string]any{"owner": ownerID}
	defer func() { observeUseCase(ctx, s.observer, "stats.overview", startedAt, fields, &err) }()

	now := s.now()
	out := &domain.Overview{GeneratedAt: now}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		start, end := domain.DayBounds(now)
		t, err := s.rangeTotal(gctx, ownerID, start, end)
		if err != nil {
			return fmt.Errorf("today: %w", err)
		}
		out.Today = *t
		return nil
	})
	g.Go(func() error {
		start, end := domain.LastMonthRange(now)
		t, err := s.rangeTotal(gctx, ownerID, start, end)
		if err != nil {
			return fmt.Errorf("last month: %w", err)
		}
		out.LastMonth = *t
		return nil
	})
	g.Go(func() error {
		t, err := s.yearTotal(gctx, ownerID, now.Year())
		if err != nil {
			return fmt.Errorf("year: %w", err)
		}
		out.Year = *t
		return nil
	})
	if err = g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *statsService) now() time.Time {
	return s.clock.Now().In(s.loc)
}

func (s *statsService) projectSummary(ctx context.Context, ownerID, projectID string) (domain.ProjectSummary, error) {
	sessions, err := s.sessions.ListCompletedByOwnerAndProject(ctx, ownerID, projectID)
	if err != nil {
		return domain.ProjectSummary{}, fmt.Errorf("loading project sessions: %w", err)
	}
	sum := domain.ProjectSummary{ProjectID: projectID}
	for _, sess := range sessions {
		sum.TotalMinutes += domain.CompletedMinutes(*sess)
		sum.TotalSessions++
		if sum.LastSessionDate == nil || sess.StartedAt.After(*sum.LastSessionDate) {
			last := sess.StartedAt
			sum.LastSessionDate = &last
		}
	}
	sum.TotalHours = domain.MinutesToHours(sum.TotalMinutes)
	if sum.TotalSessions > 0 {
		sum.AverageMinutes = float64(sum.TotalMinutes) / float64(sum.TotalSessions)
	}
	return sum, nil
}

func (s *statsService) rangeTotal(ctx context.Context, ownerID string, start, end time.Time) (*domain.PeriodTotal, error) {
	sessions, err := s.sessions.ListCompletedByOwnerAndDateRange(ctx, ownerID, start, end)
	if err != nil {
		return nil, fmt.Errorf("loading sessions in range: %w", err)
	}
	return periodTotal(start, end, sessions), nil
}

func (s *statsService) yearTotal(ctx context.Context, ownerID string, year int) (*domain.PeriodTotal, error) {
	sessions, err := s.sessions.ListCompletedByOwnerAndYear(ctx, ownerID, year, s.loc)
	if err != nil {
		return nil, fmt.Errorf("loading sessions for year: %w", err)
	}
	start, end := domain.YearBounds(year, s.loc)
	return periodTotal(start, end, sessions), nil
}

func periodTotal(start, end time.Time, sessions []*domain.Session) *domain.PeriodTotal {
	t := &domain.PeriodTotal{Start: start, End: end}
	for _, sess := range sessions {
		if !sess.Completed() {
			continue
		}
		t.TotalMinutes += domain.CompletedMinutes(*sess)
		t.Sessions++
	}
	t.TotalHours = domain.MinutesToHours(t.TotalMinutes)
	return t
}
