package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/worklog/internal/domain"
)

const noteColumnWidth = 32

// FormatSession renders one session as a labelled detail box. Times are shown
// in now's location.
func FormatSession(s *domain.Session, now time.Time) string {
	loc := now.Location()
	var b strings.Builder

	field := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", Dim(fmt.Sprintf("%-9s", label)), value)
	}

	field("ID", s.ID)
	field("Project", Bold(s.ProjectID))
	field("State", StatePill(s.State()))
	field("Started", s.StartedAt.In(loc).Format("Mon Jan 2 15:04")+" "+Dim("("+HumanTimestamp(s.StartedAt, now)+")"))
	if s.PausedAt != nil {
		field("Paused", s.PausedAt.In(loc).Format("Mon Jan 2 15:04"))
	}
	if s.EndedAt != nil {
		field("Ended", s.EndedAt.In(loc).Format("Mon Jan 2 15:04"))
		field("Worked", StateColor(s.State()).Render(FormatMinutes(domain.CompletedMinutes(*s))))
	} else {
		field("Elapsed", StateColor(s.State()).Render(domain.FormatElapsed(*s, now)))
	}
	if s.Note != "" {
		field("Note", s.Note)
	}

	return RenderBox("Session", strings.TrimRight(b.String(), "\n"))
}

// FormatSessionEvent renders the one-line confirmation printed after a
// lifecycle command.
func FormatSessionEvent(verb string, s *domain.Session, now time.Time) string {
	line := fmt.Sprintf("%s session %s on %s", verb, TruncID(s.ID), Bold(s.ProjectID))
	switch s.State() {
	case domain.StateCompleted:
		line += Dim(" · ") + StyleGreen.Render(FormatMinutes(domain.CompletedMinutes(*s))) + " worked"
	default:
		line += Dim(" · ") + StatePill(s.State()) + Dim(" · ") + domain.FormatElapsed(*s, now)
	}
	return line
}

// FormatSessionList renders a page of session history, newest first.
func FormatSessionList(p domain.SessionPage, now time.Time) string {
	if len(p.Sessions) == 0 {
		if p.TotalCount > 0 {
			return Dim(fmt.Sprintf("No sessions on page %d (%d pages).", p.Page, p.TotalPages()))
		}
		return Dim("No sessions recorded yet.")
	}

	loc := now.Location()
	cols := []Column{
		{Title: "ID"},
		{Title: "PROJECT"},
		{Title: "STATE"},
		{Title: "STARTED"},
		{Title: "DURATION", Right: true},
		{Title: "NOTE"},
	}
	rows := make([][]string, 0, len(p.Sessions))
	for _, s := range p.Sessions {
		dur := domain.FormatElapsed(*s, now)
		if s.Completed() {
			dur = FormatMinutes(domain.CompletedMinutes(*s))
		}
		rows = append(rows, []string{
			TruncID(s.ID),
			s.ProjectID,
			StatePill(s.State()),
			HumanDate(s.StartedAt, now) + " " + s.StartedAt.In(loc).Format("15:04"),
			dur,
			truncate(s.Note, noteColumnWidth),
		})
	}

	footer := Dim(fmt.Sprintf("page %d of %d · %d sessions", p.Page, p.TotalPages(), p.TotalCount))
	if p.HasNext() {
		footer += Dim(fmt.Sprintf(" · next: --page %d", p.Page+1))
	}
	return RenderBox("Sessions", RenderTable(cols, rows)+"\n"+footer)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
