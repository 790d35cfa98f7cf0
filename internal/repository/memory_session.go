package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/google/uuid"
)

// MemorySessionRepo is an in-memory SessionRepo. Every method holds one
// mutex, so check-and-insert in Create is atomic. Sessions are copied on the
// way in and out; callers never share state with the store.
type MemorySessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
}

// NewMemorySessionRepo creates an empty in-memory store.
func NewMemorySessionRepo() *MemorySessionRepo {
	return &MemorySessionRepo{sessions: make(map[string]*domain.Session)}
}

var _ SessionRepo = (*MemorySessionRepo)(nil)

func (m *MemorySessionRepo) Create(_ context.Context, s *domain.Session) error {
	if err := s.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if s.Active && m.activeLocked(s.OwnerID) != nil {
		return domain.ErrDuplicateActiveSession
	}
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if _, exists := m.sessions[s.ID]; exists {
		return fmt.Errorf("inserting session: duplicate id %q", s.ID)
	}
	m.sessions[s.ID] = cloneSession(s)
	return nil
}

func (m *MemorySessionRepo) FindByID(_ context.Context, id string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session: %w", ErrNotFound)
	}
	return cloneSession(s), nil
}

func (m *MemorySessionRepo) FindActiveByOwner(_ context.Context, ownerID string) (*domain.Session, error) {
	if err := validateOwner(ownerID); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.activeLocked(ownerID)
	if s == nil {
		return nil, fmt.Errorf("session: %w", ErrNotFound)
	}
	return cloneSession(s), nil
}

func (m *MemorySessionRepo) ExistsActiveByOwner(_ context.Context, ownerID string) (bool, error) {
	if err := validateOwner(ownerID); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeLocked(ownerID) != nil, nil
}

func (m *MemorySessionRepo) UpdateIfState(_ context.Context, s *domain.Session, expected ...domain.State) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if _, err := stateClause(expected, func(bool, bool) string { return "" }); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.sessions[s.ID]
	if !ok {
		return fmt.Errorf("session: %w", ErrNotFound)
	}
	if stored.OwnerID != s.OwnerID || !stateIn(stored.State(), expected) {
		return domain.ErrStateConflict
	}
	if s.Active && !stored.Active {
		if other := m.activeLocked(s.OwnerID); other != nil && other.ID != s.ID {
			return domain.ErrDuplicateActiveSession
		}
	}

	stored.EndedAt = cloneTime(s.EndedAt)
	stored.Active = s.Active
	stored.Paused = s.Paused
	stored.PausedAt = cloneTime(s.PausedAt)
	stored.Note = s.Note
	stored.UpdatedAt = s.UpdatedAt
	return nil
}

func (m *MemorySessionRepo) ListByOwner(_ context.Context, ownerID string, page, pageSize int) (domain.SessionPage, error) {
	if err := validateOwner(ownerID); err != nil {
		return domain.SessionPage{}, err
	}
	page, pageSize = normalizePage(page, pageSize)

	m.mu.Lock()
	all := m.filterLocked(func(s *domain.Session) bool { return s.OwnerID == ownerID })
	m.mu.Unlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].StartedAt.Equal(all[j].StartedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].StartedAt.After(all[j].StartedAt)
	})

	out := domain.SessionPage{Page: page, PageSize: pageSize, TotalCount: len(all)}
	offset := (page - 1) * pageSize
	if offset >= len(all) {
		return out, nil
	}
	end := offset + pageSize
	if end > len(all) {
		end = len(all)
	}
	out.Sessions = all[offset:end]
	return out, nil
}

func (m *MemorySessionRepo) ListCompletedByOwnerAndProject(_ context.Context, ownerID, projectID string) ([]*domain.Session, error) {
	if err := validateOwner(ownerID); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	out := m.filterLocked(func(s *domain.Session) bool {
		return s.OwnerID == ownerID && s.ProjectID == projectID && s.Completed()
	})
	sortByStart(out)
	return out, nil
}

func (m *MemorySessionRepo) ListCompletedByOwnerAndDateRange(_ context.Context, ownerID string, start, end time.Time) ([]*domain.Session, error) {
	if err := validateOwner(ownerID); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	out := m.filterLocked(func(s *domain.Session) bool {
		return s.OwnerID == ownerID && s.Completed() &&
			!s.StartedAt.Before(start) && s.StartedAt.Before(end)
	})
	sortByStart(out)
	return out, nil
}

func (m *MemorySessionRepo) ListCompletedByOwnerAndYear(_ context.Context, ownerID string, year int, loc *time.Location) ([]*domain.Session, error) {
	if err := validateOwner(ownerID); err != nil {
		return nil, err
	}
	start, end := domain.YearBounds(year, loc)

	m.mu.Lock()
	defer m.mu.Unlock()

	out := m.filterLocked(func(s *domain.Session) bool {
		return s.OwnerID == ownerID && s.Completed() &&
			!s.EndedAt.Before(start) && s.EndedAt.Before(end)
	})
	sort.Slice(out, func(i, j int) bool { return out[i].EndedAt.Before(*out[j].EndedAt) })
	return out, nil
}

func (m *MemorySessionRepo) DeleteAllByProject(_ context.Context, projectID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for id, s := range m.sessions {
		if s.ProjectID == projectID {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

func (m *MemorySessionRepo) activeLocked(ownerID string) *domain.Session {
	for _, s := range m.sessions {
		if s.OwnerID == ownerID && s.Active {
			return s
		}
	}
	return nil
}

// filterLocked returns copies of the sessions matching keep.
func (m *MemorySessionRepo) filterLocked(keep func(*domain.Session) bool) []*domain.Session {
	var out []*domain.Session
	for _, s := range m.sessions {
		if keep(s) {
			out = append(out, cloneSession(s))
		}
	}
	return out
}

func sortByStart(sessions []*domain.Session) {
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].StartedAt.Before(sessions[j].StartedAt)
	})
}

func cloneSession(s *domain.Session) *domain.Session {
	c := *s
	c.EndedAt = cloneTime(s.EndedAt)
	c.PausedAt = cloneTime(s.PausedAt)
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
