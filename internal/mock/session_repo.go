// Package mock provides test doubles for worklog interfaces using function fields.
package mock

import (
	"context"
	"time"

	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/alexanderramin/worklog/internal/repository"
)

var _ repository.SessionRepo = (*SessionRepo)(nil)

// SessionRepo is a test double for repository.SessionRepo.
// Each method calls its Fn field when set and otherwise delegates to Base,
// so a test can override a single method on top of a real store. Calling a
// method with neither set panics.
type SessionRepo struct {
	Base repository.SessionRepo

	CreateFn                           func(ctx context.Context, s *domain.Session) error
	FindByIDFn                         func(ctx context.Context, id string) (*domain.Session, error)
	FindActiveByOwnerFn                func(ctx context.Context, ownerID string) (*domain.Session, error)
	ExistsActiveByOwnerFn              func(ctx context.Context, ownerID string) (bool, error)
	UpdateIfStateFn                    func(ctx context.Context, s *domain.Session, expected ...domain.State) error
	ListByOwnerFn                      func(ctx context.Context, ownerID string, page, pageSize int) (domain.SessionPage, error)
	ListCompletedByOwnerAndProjectFn   func(ctx context.Context, ownerID, projectID string) ([]*domain.Session, error)
	ListCompletedByOwnerAndDateRangeFn func(ctx context.Context, ownerID string, start, end time.Time) ([]*domain.Session, error)
	ListCompletedByOwnerAndYearFn      func(ctx context.Context, ownerID string, year int, loc *time.Location) ([]*domain.Session, error)
	DeleteAllByProjectFn               func(ctx context.Context, projectID string) (int64, error)
}

func (m *SessionRepo) Create(ctx context.Context, s *domain.Session) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, s)
	}
	return m.Base.Create(ctx, s)
}

func (m *SessionRepo) FindByID(ctx context.Context, id string) (*domain.Session, error) {
	if m.FindByIDFn != nil {
		return m.FindByIDFn(ctx, id)
	}
	return m.Base.FindByID(ctx, id)
}

func (m *SessionRepo) FindActiveByOwner(ctx context.Context, ownerID string) (*domain.Session, error) {
	if m.FindActiveByOwnerFn != nil {
		return m.FindActiveByOwnerFn(ctx, ownerID)
	}
	return m.Base.FindActiveByOwner(ctx, ownerID)
}

func (m *SessionRepo) ExistsActiveByOwner(ctx context.Context, ownerID string) (bool, error) {
	if m.ExistsActiveByOwnerFn != nil {
		return m.ExistsActiveByOwnerFn(ctx, ownerID)
	}
	return m.Base.ExistsActiveByOwner(ctx, ownerID)
}

func (m *SessionRepo) UpdateIfState(ctx context.Context, s *domain.Session, expected ...domain.State) error {
	if m.UpdateIfStateFn != nil {
		return m.UpdateIfStateFn(ctx, s, expected...)
	}
	return m.Base.UpdateIfState(ctx, s, expected...)
}

func (m *SessionRepo) ListByOwner(ctx context.Context, ownerID string, page, pageSize int) (domain.SessionPage, error) {
	if m.ListByOwnerFn != nil {
		return m.ListByOwnerFn(ctx, ownerID, page, pageSize)
	}
	return m.Base.ListByOwner(ctx, ownerID, page, pageSize)
}

func (m *SessionRepo) ListCompletedByOwnerAndProject(ctx context.Context, ownerID, projectID string) ([]*domain.Session, error) {
	if m.ListCompletedByOwnerAndProjectFn != nil {
		return m.ListCompletedByOwnerAndProjectFn(ctx, ownerID, projectID)
	}
	return m.Base.ListCompletedByOwnerAndProject(ctx, ownerID, projectID)
}

func (m *SessionRepo) ListCompletedByOwnerAndDateRange(ctx context.Context, ownerID string, start, end time.Time) ([]*domain.Session, error) {
	if m.ListCompletedByOwnerAndDateRangeFn != nil {
		return m.ListCompletedByOwnerAndDateRangeFn(ctx, ownerID, start, end)
	}
	return m.Base.ListCompletedByOwnerAndDateRange(ctx, ownerID, start, end)
}

func (m *SessionRepo) ListCompletedByOwnerAndYear(ctx context.Context, ownerID string, year int, loc *time.Location) ([]*domain.Session, error) {
	if m.ListCompletedByOwnerAndYearFn != nil {
		return m.ListCompletedByOwnerAndYearFn(ctx, ownerID, year, loc)
	}
	return m.Base.ListCompletedByOwnerAndYear(ctx, ownerID, year, loc)
}

func (m *SessionRepo) DeleteAllByProject(ctx context.Context, projectID string) (int64, error) {
	if m.DeleteAllByProjectFn != nil {
		return m.DeleteAllByProjectFn(ctx, projectID)
	}
	return m.Base.DeleteAllByProject(ctx, projectID)
}
