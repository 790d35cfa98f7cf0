package testutil

import (
	"time"

	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/google/uuid"
)

// Session options
type SessionOption func(*domain.Session)

func WithStartedAt(t time.Time) SessionOption {
	return func(s *domain.Session) {
		s.StartedAt = t.UTC()
		s.CreatedAt = t.UTC()
		s.UpdatedAt = t.UTC()
	}
}

// WithEndedAt completes the session at t and clears any pause state.
func WithEndedAt(t time.Time) SessionOption {
	return func(s *domain.Session) {
		end := t.UTC()
		s.EndedAt = &end
		s.Active = false
		s.Paused = false
		s.PausedAt = nil
		s.UpdatedAt = end
	}
}

// WithDuration completes the session d after its start.
func WithDuration(d time.Duration) SessionOption {
	return func(s *domain.Session) {
		WithEndedAt(s.StartedAt.Add(d))(s)
	}
}

// WithPausedAt marks an active session paused since t.
func WithPausedAt(t time.Time) SessionOption {
	return func(s *domain.Session) {
		p := t.UTC()
		s.Paused = true
		s.PausedAt = &p
	}
}

func WithNote(n string) SessionOption {
	return func(s *domain.Session) {
		s.Note = n
	}
}

func WithID(id string) SessionOption {
	return func(s *domain.Session) {
		s.ID = id
	}
}

// NewTestSession builds a running session for owner on project, started an
// hour ago. Options apply in order, so WithStartedAt goes before WithDuration.
func NewTestSession(ownerID, projectID string, opts ...SessionOption) *domain.Session {
	now := time.Now().UTC()
	started := now.Add(-time.Hour)
	s := &domain.Session{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		ProjectID: projectID,
		StartedAt: started,
		Active:    true,
		CreatedAt: started,
		UpdatedAt: started,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
