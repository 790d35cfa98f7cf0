package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/worklog/internal/clock"
	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/alexanderramin/worklog/internal/repository"
	"github.com/google/uuid"
)

type sessionService struct {
	sessions repository.SessionRepo
	clock    clock.Clock
	observer UseCaseObserver
}

func NewSessionService(
	sessions repository.SessionRepo,
	clk clock.Clock,
	observers ...UseCaseObserver,
) SessionService {
	return &sessionService{
		sessions: sessions,
		clock:    clock.OrSystem(clk),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *sessionService) Start(ctx context.Context, ownerID, projectID, note string) (sess *domain.Session, err error) {
	ownerID = domain.NormalizeOwnerID(ownerID)
	startedAt := time.Now()
	fields := map[string]any{"owner": ownerID, "project": projectID}
	defer func() { observeUseCase(ctx, s.observer, "session.start", startedAt, fields, &err) }()

	next, err := domain.StartSession(domain.StartSessionInput{
		OwnerID:   ownerID,
		ProjectID: projectID,
		Note:      note,
	}, s.clock.Now())
	if err != nil {
		return nil, err
	}

	exists, err := s.sessions.ExistsActiveByOwner(ctx, next.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("checking active session: %w", err)
	}
	if exists {
		return nil, domain.ErrDuplicateActiveSession
	}

	next.ID = uuid.New().String()
	// The store re-checks atomically; a racing start surfaces here.
	if err = s.sessions.Create(ctx, &next); err != nil {
		if errors.Is(err, domain.ErrDuplicateActiveSession) {
			return nil, domain.ErrDuplicateActiveSession
		}
		return nil, fmt.Errorf("creating session: %w", err)
	}
	fields["session"] = next.ID
	return &next, nil
}

func (s *sessionService) Pause(ctx context.Context, ownerID string) (sess *domain.Session, err error) {
	ownerID = domain.NormalizeOwnerID(ownerID)
	startedAt := time.Now()
	fields := map[string]any{"owner": ownerID}
	defer func() { observeUseCase(ctx, s.observer, "session.pause", startedAt, fields, &err) }()

	return s.transitionActive(ctx, ownerID, fields, domain.StateRunning, func(cur domain.Session, now time.Time) (domain.Session, error) {
		return cur.Pause(now)
	})
}

func (s *sessionService) Resume(ctx context.Context, ownerID string) (sess *domain.Session, err error) {
	ownerID = domain.NormalizeOwnerID(ownerID)
	startedAt := time.Now()
	fields := map[string]any{"owner": ownerID}
	defer func() { observeUseCase(ctx, s.observer, "session.resume", startedAt, fields, &err) }()

	return s.transitionActive(ctx, ownerID, fields, domain.StatePaused, func(cur domain.Session, now time.Time) (domain.Session, error) {
		return cur.Resume(now)
	})
}

func (s *sessionService) End(ctx context.Context, sessionID, ownerID, note string) (sess *domain.Session, err error) {
	ownerID = domain.NormalizeOwnerID(ownerID)
	startedAt := time.Now()
	fields := map[string]any{"owner": ownerID, "session": sessionID}
	defer func() { observeUseCase(ctx, s.observer, "session.end", startedAt, fields, &err) }()

	cur, err := s.owned(ctx, sessionID, ownerID)
	if err != nil {
		return nil, err
	}
	end := func(c domain.Session, now time.Time) (domain.Session, error) {
		return c.End(now, note)
	}
	next, err := s.apply(ctx, *cur, end, domain.StateRunning, domain.StatePaused)
	if err != nil {
		return nil, err
	}
	fields["project"] = next.ProjectID
	fields["minutes"] = domain.CompletedMinutes(*next)
	return next, nil
}

func (s *sessionService) Current(ctx context.Context, ownerID string) (*domain.Session, error) {
	ownerID = domain.NormalizeOwnerID(ownerID)
	cur, err := s.sessions.FindActiveByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrNoActiveSession
		}
		return nil, fmt.Errorf("finding active session: %w", err)
	}
	return cur, nil
}

func (s *sessionService) Get(ctx context.Context, sessionID, ownerID string) (*domain.Session, error) {
	return s.owned(ctx, sessionID, ownerID)
}

func (s *sessionService) List(ctx context.Context, ownerID string, page, pageSize int) (domain.SessionPage, error) {
	ownerID = domain.NormalizeOwnerID(ownerID)
	p, err := s.sessions.ListByOwner(ctx, ownerID, page, pageSize)
	if err != nil {
		return domain.SessionPage{}, fmt.Errorf("listing sessions: %w", err)
	}
	return p, nil
}

type transitionFunc func(cur domain.Session, now time.Time) (domain.Session, error)

// transitionActive applies fn to the owner's active session, persisting it
// only if the stored row is still in expected.
func (s *sessionService) transitionActive(ctx context.Context, ownerID string, fields map[string]any, expected domain.State, fn transitionFunc) (*domain.Session, error) {
	cur, err := s.Current(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	fields["session"] = cur.ID
	next, err := s.apply(ctx, *cur, fn, expected)
	if errors.Is(err, domain.ErrSessionNotFound) {
		// Deleted between the read and the write.
		return nil, domain.ErrNoActiveSession
	}
	return next, err
}

// apply runs fn against cur and writes the result with a conditional update.
// When the update loses a race, fn is re-run against the fresh row: its
// refusal explains the conflict, and if it would now succeed the caller gets
// a retryable ErrStateConflict.
func (s *sessionService) apply(ctx context.Context, cur domain.Session, fn transitionFunc, expected ...domain.State) (*domain.Session, error) {
	now := s.clock.Now()
	next, err := fn(cur, now)
	if err != nil {
		return nil, err
	}

	err = s.sessions.UpdateIfState(ctx, &next, expected...)
	switch {
	case err == nil:
		return &next, nil
	case errors.Is(err, repository.ErrNotFound):
		return nil, domain.ErrSessionNotFound
	case !errors.Is(err, domain.ErrStateConflict):
		return nil, fmt.Errorf("updating session: %w", err)
	}

	latest, findErr := s.sessions.FindByID(ctx, cur.ID)
	if findErr != nil {
		if errors.Is(findErr, repository.ErrNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("re-reading session: %w", findErr)
	}
	if _, refusal := fn(*latest, now); refusal != nil {
		return nil, refusal
	}
	return nil, domain.ErrStateConflict
}

func (s *sessionService) owned(ctx context.Context, sessionID, ownerID string) (*domain.Session, error) {
	ownerID = domain.NormalizeOwnerID(ownerID)
	cur, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("finding session: %w", err)
	}
	if cur.OwnerID != ownerID {
		return nil, domain.ErrOwnership
	}
	return cur, nil
}
