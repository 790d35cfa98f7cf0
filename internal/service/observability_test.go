package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/alexanderramin/worklog/internal/repository"
	"github.com/stretchr/testify/assert"
)

func TestOutcome(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{domain.ErrDuplicateActiveSession, "duplicate_active"},
		{fmt.Errorf("wrapped: %w", domain.ErrAlreadyPaused), "already_paused"},
		{domain.ErrStateConflict, "conflict"},
		{fmt.Errorf("session: %w", repository.ErrNotFound), "not_found"},
		{errors.New("disk full"), "error"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Outcome(tc.err))
	}
}

func TestLogUseCaseObserver_Levels(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(&buf, slog.LevelInfo)
	ctx := context.Background()

	obs.ObserveUseCase(ctx, UseCaseEvent{Name: "session.start", Duration: 3 * time.Millisecond, Success: true,
		Fields: map[string]any{"owner": "alice"}})
	obs.ObserveUseCase(ctx, UseCaseEvent{Name: "session.pause", Err: domain.ErrAlreadyPaused})
	obs.ObserveUseCase(ctx, UseCaseEvent{Name: "session.end", Err: errors.New("disk full")})

	out := buf.String()
	assert.Contains(t, out, "level=INFO msg=service_use_case use_case=session.start duration_ms=3 success=true outcome=ok")
	assert.Contains(t, out, "owner=alice")
	assert.Contains(t, out, "level=WARN msg=service_use_case use_case=session.pause")
	assert.Contains(t, out, "outcome=already_paused")
	assert.Contains(t, out, "level=ERROR msg=service_use_case use_case=session.end")
}

func TestLogUseCaseObserver_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(&buf, slog.LevelWarn)

	obs.ObserveUseCase(context.Background(), UseCaseEvent{Name: "stats.day", Success: true})
	assert.Empty(t, buf.String())
}

func TestNewLogUseCaseObserver_NilWriter(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil, nil))
}

func TestMultiUseCaseObserver(t *testing.T) {
	a, b := &recordingObserver{}, &recordingObserver{}

	assert.IsType(t, NoopUseCaseObserver{}, MultiUseCaseObserver(nil, nil))
	assert.Same(t, a, MultiUseCaseObserver(nil, a))

	MultiUseCaseObserver(a, nil, b).ObserveUseCase(context.Background(), UseCaseEvent{Name: "x"})
	assert.Len(t, a.events, 1)
	assert.Len(t, b.events, 1)
}
