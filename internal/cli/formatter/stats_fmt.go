package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/worklog/internal/domain"
)

const shareBarWidth = 12

// FormatProjectSummary renders the totals for a single project.
func FormatProjectSummary(s domain.ProjectSummary, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", Dim("Total    "), StyleGreen.Render(FormatMinutes(s.TotalMinutes))+Dim(" ("+FormatHours(s.TotalHours)+")"))
	fmt.Fprintf(&b, "%s %d\n", Dim("Sessions "), s.TotalSessions)
	fmt.Fprintf(&b, "%s %.1fm\n", Dim("Average  "), s.AverageMinutes)
	last := Dim("--")
	if s.LastSessionDate != nil {
		last = HumanDate(*s.LastSessionDate, now)
	}
	fmt.Fprintf(&b, "%s %s", Dim("Last     "), last)
	return RenderBox(s.ProjectID, b.String())
}

// FormatProjectSummaries renders several projects side by side with each
// project's share of the combined minutes.
func FormatProjectSummaries(sums []domain.ProjectSummary, now time.Time) string {
	if len(sums) == 1 {
		return FormatProjectSummary(sums[0], now)
	}

	grand := 0
	for _, s := range sums {
		grand += s.TotalMinutes
	}

	cols := []Column{
		{Title: "PROJECT"},
		{Title: "TOTAL", Right: true},
		{Title: "SESSIONS", Right: true},
		{Title: "AVG", Right: true},
		{Title: "LAST"},
		{Title: "SHARE"},
	}
	rows := make([][]string, 0, len(sums))
	for _, s := range sums {
		last := Dim("--")
		if s.LastSessionDate != nil {
			last = HumanDate(*s.LastSessionDate, now)
		}
		share := 0.0
		if grand > 0 {
			share = float64(s.TotalMinutes) / float64(grand)
		}
		rows = append(rows, []string{
			Bold(s.ProjectID),
			FormatMinutes(s.TotalMinutes),
			fmt.Sprintf("%d", s.TotalSessions),
			fmt.Sprintf("%.1fm", s.AverageMinutes),
			last,
			RenderShare(share, shareBarWidth),
		})
	}

	footer := Dim("combined ") + StyleGreen.Render(FormatMinutes(grand))
	return RenderBox("Projects", RenderTable(cols, rows)+"\n"+footer)
}

// FormatPeriodTotal renders one aggregation window.
func FormatPeriodTotal(title string, t domain.PeriodTotal) string {
	return RenderBox(title, periodLines(t))
}

// FormatOverview renders today, last month and the current year together.
func FormatOverview(ov domain.Overview) string {
	cols := []Column{
		{Title: "PERIOD"},
		{Title: "WINDOW"},
		{Title: "TOTAL", Right: true},
		{Title: "HOURS", Right: true},
		{Title: "SESSIONS", Right: true},
	}
	row := func(label string, t domain.PeriodTotal) []string {
		return []string{
			Bold(label),
			Dim(FormatPeriod(t.Start, t.End)),
			StyleGreen.Render(FormatMinutes(t.TotalMinutes)),
			FormatHours(t.TotalHours),
			fmt.Sprintf("%d", t.Sessions),
		}
	}
	rows := [][]string{
		row("Today", ov.Today),
		row("Last month", ov.LastMonth),
		row(fmt.Sprintf("%d", ov.Year.Start.Year()), ov.Year),
	}
	footer := Dim("as of " + ov.GeneratedAt.Format("Mon Jan 2 15:04 MST"))
	return RenderBox("Overview", RenderTable(cols, rows)+"\n"+footer)
}

func periodLines(t domain.PeriodTotal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", Dim("Window  "), FormatPeriod(t.Start, t.End))
	fmt.Fprintf(&b, "%s %s\n", Dim("Total   "), StyleGreen.Render(FormatMinutes(t.TotalMinutes))+Dim(" ("+FormatHours(t.TotalHours)+")"))
	fmt.Fprintf(&b, "%s %d", Dim("Sessions"), t.Sessions)
	return b.String()
}
