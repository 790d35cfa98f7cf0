package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/worklog/internal/cli/formatter"
	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

const maxNoteLength = 500

// errPromptAborted is returned when the user cancels an interactive prompt.
var errPromptAborted = errors.New("aborted")

// worklogHuhTheme returns a huh theme matching the formatter palette.
func worklogHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// promptNote asks for a closing note. An empty answer keeps the note the
// session was started with.
func promptNote(ctx context.Context, s *domain.Session, now time.Time) (string, error) {
	var note string

	desc := fmt.Sprintf("%s · %s", s.ProjectID, domain.FormatElapsed(*s, now))
	if s.Note != "" {
		desc += " · leave empty to keep \"" + s.Note + "\""
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("What did you work on?").
				Description(desc).
				CharLimit(maxNoteLength).
				Value(&note).
				Validate(validateNote),
		),
	).WithTheme(worklogHuhTheme()).WithShowHelp(false)

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", errPromptAborted
		}
		return "", fmt.Errorf("note prompt: %w", err)
	}
	return strings.TrimSpace(note), nil
}

func validateNote(s string) error {
	if strings.ContainsAny(s, "\r\n") {
		return errors.New("keep the note on one line")
	}
	return nil
}
