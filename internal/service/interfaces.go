package service

import (
	"context"
	"time"

	"github.com/alexanderramin/worklog/internal/domain"
)

// SessionService manages the session lifecycle. Every operation is scoped to
// an owner identity the caller has already verified.
type SessionService interface {
	Start(ctx context.Context, ownerID, projectID, note string) (*domain.Session, error)
	Pause(ctx context.Context, ownerID string) (*domain.Session, error)
	Resume(ctx context.Context, ownerID string) (*domain.Session, error)
	End(ctx context.Context, sessionID, ownerID, note string) (*domain.Session, error)
	Current(ctx context.Context, ownerID string) (*domain.Session, error)
	Get(ctx context.Context, sessionID, ownerID string) (*domain.Session, error)
	List(ctx context.Context, ownerID string, page, pageSize int) (domain.SessionPage, error)
}

// StatsService aggregates completed sessions into totals.
type StatsService interface {
	ProjectTotal(ctx context.Context, ownerID, projectID string) (*domain.ProjectSummary, error)
	ProjectTotals(ctx context.Context, ownerID string, projectIDs []string) ([]domain.ProjectSummary, error)
	DailyTotal(ctx context.Context, ownerID string, day time.Time) (*domain.PeriodTotal, error)
	RangeTotal(ctx context.Context, ownerID string, start, end time.Time) (*domain.PeriodTotal, error)
	LastMonthTotal(ctx context.Context, ownerID string) (*domain.PeriodTotal, error)
	YearTotal(ctx context.Context, ownerID string, year int) (*domain.PeriodTotal, error)
	Overview(ctx context.Context, ownerID string) (*domain.Overview, error)
}
