package domain

import (
	"fmt"
	"strings"
	"time"
)

// Session is a billable work interval an owner opened against a project.
type Session struct {
	ID        string
	OwnerID   string
	ProjectID string
	StartedAt time.Time
	EndedAt   *time.Time
	Active    bool
	Paused    bool
	PausedAt  *time.Time
	Note      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// State derives the lifecycle state from the Active and Paused flags.
func (s Session) State() State {
	switch {
	case !s.Active:
		return StateCompleted
	case s.Paused:
		return StatePaused
	default:
		return StateRunning
	}
}

// Completed reports whether the session is closed and carries an end instant.
func (s Session) Completed() bool {
	return !s.Active && s.EndedAt != nil
}

// Validate checks the flag and timestamp coherence rules:
// inactive iff ended, paused implies active with a pause instant, and an
// inactive session carries no pause state.
func (s Session) Validate() error {
	if s.Active == (s.EndedAt != nil) {
		return fmt.Errorf("%w: active=%t but ended_at present=%t", ErrInvalidInput, s.Active, s.EndedAt != nil)
	}
	if s.Paused && (!s.Active || s.PausedAt == nil) {
		return fmt.Errorf("%w: paused session must be active with paused_at set", ErrInvalidInput)
	}
	if !s.Paused && s.PausedAt != nil {
		return fmt.Errorf("%w: paused_at set on a session that is not paused", ErrInvalidInput)
	}
	if s.EndedAt != nil && s.EndedAt.Before(s.StartedAt) {
		return fmt.Errorf("%w: ended_at precedes started_at", ErrInvalidInput)
	}
	return nil
}

// StartSessionInput carries the caller-supplied fields for a new session.
type StartSessionInput struct {
	OwnerID   string
	ProjectID string
	Note      string
}

// NormalizeOwnerID is the canonical form of an owner id as stored and
// compared.
func NormalizeOwnerID(id string) string {
	return strings.TrimSpace(id)
}

// StartSession builds a Running session beginning at now. The id is left
// for the caller (or store) to assign.
func StartSession(in StartSessionInput, now time.Time) (Session, error) {
	ownerID := NormalizeOwnerID(in.OwnerID)
	projectID := strings.TrimSpace(in.ProjectID)
	if ownerID == "" {
		return Session{}, fmt.Errorf("%w: owner id is required", ErrInvalidInput)
	}
	if projectID == "" {
		return Session{}, fmt.Errorf("%w: project id is required", ErrInvalidInput)
	}
	now = now.UTC()
	return Session{
		OwnerID:   ownerID,
		ProjectID: projectID,
		StartedAt: now,
		Active:    true,
		Note:      strings.TrimSpace(in.Note),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Pause moves a Running session to Paused, recording now as the start of the
// pause span.
func (s Session) Pause(now time.Time) (Session, error) {
	switch s.State() {
	case StateCompleted:
		return Session{}, ErrNoActiveSession
	case StatePaused:
		return Session{}, ErrAlreadyPaused
	}
	now = now.UTC()
	s.Paused = true
	s.PausedAt = &now
	s.UpdatedAt = now
	return s, nil
}

// Resume moves a Paused session back to Running and drops the pause instant.
func (s Session) Resume(now time.Time) (Session, error) {
	switch s.State() {
	case StateCompleted:
		return Session{}, ErrNoActiveSession
	case StateRunning:
		return Session{}, ErrNotPaused
	}
	s.Paused = false
	s.PausedAt = nil
	s.UpdatedAt = now.UTC()
	return s, nil
}

// End closes an active session at now. A non-blank note replaces the stored
// one. Pause flags are cleared so a completed session never carries pause
// state; an open pause span at this point is counted as worked time, the same
// as every earlier pause span of the session.
func (s Session) End(now time.Time, note string) (Session, error) {
	if s.State() == StateCompleted {
		return Session{}, ErrAlreadyCompleted
	}
	now = now.UTC()
	s.EndedAt = &now
	s.Active = false
	s.Paused = false
	s.PausedAt = nil
	if n := strings.TrimSpace(note); n != "" {
		s.Note = n
	}
	s.UpdatedAt = now
	return s, nil
}
