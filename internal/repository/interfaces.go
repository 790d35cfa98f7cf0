package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/worklog/internal/domain"
)

// ErrNotFound indicates a requested session record is missing.
var ErrNotFound = errors.New("not found")

// SessionRepo persists and queries sessions.
//
// Implementations own the single-active-session rule: Create must reject a
// second active session for an owner atomically, returning
// domain.ErrDuplicateActiveSession, even when two creates race past an
// ExistsActiveByOwner check. UpdateIfState is a compare-and-swap keyed on the
// stored state and returns domain.ErrStateConflict when the row is no longer
// in one of the expected states.
type SessionRepo interface {
	Create(ctx context.Context, s *domain.Session) error
	FindByID(ctx context.Context, id string) (*domain.Session, error)
	FindActiveByOwner(ctx context.Context, ownerID string) (*domain.Session, error)
	ExistsActiveByOwner(ctx context.Context, ownerID string) (bool, error)
	// UpdateIfState writes the mutable fields of s (ended_at, active, paused,
	// paused_at, note, updated_at) when the stored row is in one of expected.
	UpdateIfState(ctx context.Context, s *domain.Session, expected ...domain.State) error
	// ListByOwner returns one page of the owner's sessions, newest first.
	ListByOwner(ctx context.Context, ownerID string, page, pageSize int) (domain.SessionPage, error)
	ListCompletedByOwnerAndProject(ctx context.Context, ownerID, projectID string) ([]*domain.Session, error)
	// ListCompletedByOwnerAndDateRange filters on started_at in [start, end).
	ListCompletedByOwnerAndDateRange(ctx context.Context, ownerID string, start, end time.Time) ([]*domain.Session, error)
	// ListCompletedByOwnerAndYear filters on ended_at within the calendar
	// year in loc.
	ListCompletedByOwnerAndYear(ctx context.Context, ownerID string, year int, loc *time.Location) ([]*domain.Session, error)
	// DeleteAllByProject removes every session of a project. It serves the
	// external project-deletion workflow.
	DeleteAllByProject(ctx context.Context, projectID string) (int64, error)
}
