package formatter

import (
	"testing"
	"time"

	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestFormatProjectSummary(t *testing.T) {
	last := fmtNow.Add(-24 * time.Hour)
	out := stripANSI(FormatProjectSummary(domain.ProjectSummary{
		ProjectID:       "acme-site",
		TotalMinutes:    135,
		TotalHours:      2.25,
		TotalSessions:   3,
		AverageMinutes:  45,
		LastSessionDate: &last,
	}, fmtNow))

	assert.Contains(t, out, "ACME-SITE")
	assert.Contains(t, out, "2h 15m")
	assert.Contains(t, out, "2.25h")
	assert.Contains(t, out, "45.0m")
	assert.Contains(t, out, "Yesterday")
}

func TestFormatProjectSummary_NoSessions(t *testing.T) {
	out := stripANSI(FormatProjectSummary(domain.ProjectSummary{ProjectID: "empty"}, fmtNow))
	assert.Contains(t, out, "0m")
	assert.Contains(t, out, "--")
}

func TestFormatProjectSummaries_ShowsShares(t *testing.T) {
	out := stripANSI(FormatProjectSummaries([]domain.ProjectSummary{
		{ProjectID: "a", TotalMinutes: 90, TotalSessions: 2, AverageMinutes: 45},
		{ProjectID: "b", TotalMinutes: 30, TotalSessions: 1, AverageMinutes: 30},
	}, fmtNow))

	assert.Contains(t, out, "PROJECTS")
	assert.Contains(t, out, " 75%")
	assert.Contains(t, out, " 25%")
	assert.Contains(t, out, "combined 2h 0m")
}

func TestFormatProjectSummaries_SingleFallsBackToDetail(t *testing.T) {
	out := stripANSI(FormatProjectSummaries([]domain.ProjectSummary{{ProjectID: "solo"}}, fmtNow))
	assert.Contains(t, out, "SOLO")
	assert.NotContains(t, out, "SHARE")
}

func TestFormatPeriodTotal(t *testing.T) {
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	out := stripANSI(FormatPeriodTotal("Day", domain.PeriodTotal{
		Start:        start,
		End:          start.AddDate(0, 0, 1),
		TotalMinutes: 75,
		TotalHours:   1.25,
		Sessions:     2,
	}))
	assert.Contains(t, out, "DAY")
	assert.Contains(t, out, "Mon Mar 2, 2026")
	assert.Contains(t, out, "1h 15m")
	assert.Contains(t, out, "1.25h")
}

func TestFormatOverview(t *testing.T) {
	today := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	year := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	out := stripANSI(FormatOverview(domain.Overview{
		GeneratedAt: fmtNow,
		Today:       domain.PeriodTotal{Start: today, End: today.AddDate(0, 0, 1), TotalMinutes: 30, Sessions: 1},
		LastMonth:   domain.PeriodTotal{Start: feb, End: feb.AddDate(0, 1, 0), TotalMinutes: 600, Sessions: 8},
		Year:        domain.PeriodTotal{Start: year, End: year.AddDate(1, 0, 0), TotalMinutes: 900, Sessions: 12},
	}))

	assert.Contains(t, out, "OVERVIEW")
	assert.Contains(t, out, "Today")
	assert.Contains(t, out, "Last month")
	assert.Contains(t, out, "2026")
	assert.Contains(t, out, "10h 0m")
	assert.Contains(t, out, "15h 0m")
}
