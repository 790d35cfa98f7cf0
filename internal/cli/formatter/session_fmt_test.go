package formatter

import (
	"testing"
	"time"

	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/stretchr/testify/assert"
)

var fmtNow = time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

func runningSession() *domain.Session {
	return &domain.Session{
		ID:        "a1b2c3d4-e5f6-7890-abcd-ef1234567890",
		OwnerID:   "alice",
		ProjectID: "acme-site",
		StartedAt: fmtNow.Add(-95 * time.Minute),
		Active:    true,
		Note:      "landing page",
	}
}

func TestFormatSession_Running(t *testing.T) {
	out := stripANSI(FormatSession(runningSession(), fmtNow))
	assert.Contains(t, out, "SESSION")
	assert.Contains(t, out, "acme-site")
	assert.Contains(t, out, "Running")
	assert.Contains(t, out, "1h 35m")
	assert.Contains(t, out, "landing page")
	assert.NotContains(t, out, "Ended")
}

func TestFormatSession_PausedShowsPauseInstant(t *testing.T) {
	s := runningSession()
	pausedAt := fmtNow.Add(-35 * time.Minute)
	s.Paused = true
	s.PausedAt = &pausedAt

	out := stripANSI(FormatSession(s, fmtNow))
	assert.Contains(t, out, "Paused")
	assert.Contains(t, out, "Mon Mar 2 11:25")
	assert.Contains(t, out, "1h 0m")
}

func TestFormatSession_CompletedShowsWorkedMinutes(t *testing.T) {
	s := runningSession()
	ended := s.StartedAt.Add(45 * time.Minute)
	s.Active = false
	s.EndedAt = &ended

	out := stripANSI(FormatSession(s, fmtNow))
	assert.Contains(t, out, "Completed")
	assert.Contains(t, out, "Ended")
	assert.Contains(t, out, "45m")
	assert.NotContains(t, out, "Elapsed")
}

func TestFormatSessionEvent(t *testing.T) {
	s := runningSession()
	out := stripANSI(FormatSessionEvent("Started", s, fmtNow))
	assert.Contains(t, out, "Started session a1b2c3d4 on acme-site")
	assert.Contains(t, out, "Running")

	ended := s.StartedAt.Add(30 * time.Minute)
	s.Active = false
	s.EndedAt = &ended
	out = stripANSI(FormatSessionEvent("Ended", s, fmtNow))
	assert.Contains(t, out, "30m worked")
}

func TestFormatSessionList(t *testing.T) {
	done := runningSession()
	done.ID = "ffffffff-0000-0000-0000-000000000000"
	ended := done.StartedAt.Add(20 * time.Minute)
	done.Active = false
	done.EndedAt = &ended
	done.Note = "a note that is far too long to fit inside the list column"

	page := domain.SessionPage{
		Sessions:   []*domain.Session{runningSession(), done},
		Page:       1,
		PageSize:   2,
		TotalCount: 5,
	}

	out := stripANSI(FormatSessionList(page, fmtNow))
	assert.Contains(t, out, "SESSIONS")
	assert.Contains(t, out, "a1b2c3d4")
	assert.Contains(t, out, "ffffffff")
	assert.Contains(t, out, "20m")
	assert.Contains(t, out, "…")
	assert.Contains(t, out, "page 1 of 3 · 5 sessions")
	assert.Contains(t, out, "next: --page 2")
}

func TestFormatSessionList_Empty(t *testing.T) {
	assert.Contains(t, stripANSI(FormatSessionList(domain.SessionPage{Page: 1, PageSize: 20}, fmtNow)), "No sessions recorded yet.")

	past := domain.SessionPage{Page: 4, PageSize: 20, TotalCount: 21}
	assert.Contains(t, stripANSI(FormatSessionList(past, fmtNow)), "No sessions on page 4 (2 pages).")
}
