package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// globalOptions carries the persistent flags shared by every subcommand.
type globalOptions struct {
	output string
	owner  string
}

func (o *globalOptions) bind(fs *pflag.FlagSet) {
	fs.StringVarP(&o.output, "output", "o", outputText, "Output format: text, json or yaml")
	fs.StringVar(&o.owner, "owner", "", "Act as this owner instead of the configured one")
}

func (o *globalOptions) validate() error {
	switch o.output {
	case outputText, outputJSON, outputYAML:
		return nil
	}
	return fmt.Errorf("%w: unknown output format %q (want text, json or yaml)", domain.ErrInvalidInput, o.output)
}

// ownerID resolves the acting owner: --owner first, then the configured one.
func (o *globalOptions) ownerID(app *App) (string, error) {
	if id := domain.NormalizeOwnerID(o.owner); id != "" {
		return id, nil
	}
	if id := domain.NormalizeOwnerID(app.Owner); id != "" {
		return id, nil
	}
	return "", fmt.Errorf("%w: no owner configured; set WORKLOG_OWNER or pass --owner", domain.ErrInvalidInput)
}

// render writes v in the selected structured format, or the text produced
// by text when the format is text.
func (o *globalOptions) render(w io.Writer, v any, text func() string) error {
	switch o.output {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := fmt.Fprintln(w, text())
		return err
	}
}

// sessionView is the structured rendering of a session.
type sessionView struct {
	ID             string       `json:"id" yaml:"id"`
	OwnerID        string       `json:"owner_id" yaml:"owner_id"`
	ProjectID      string       `json:"project_id" yaml:"project_id"`
	State          domain.State `json:"state" yaml:"state"`
	StartedAt      time.Time    `json:"started_at" yaml:"started_at"`
	EndedAt        *time.Time   `json:"ended_at,omitempty" yaml:"ended_at,omitempty"`
	PausedAt       *time.Time   `json:"paused_at,omitempty" yaml:"paused_at,omitempty"`
	ElapsedMinutes int          `json:"elapsed_minutes" yaml:"elapsed_minutes"`
	Note           string       `json:"note,omitempty" yaml:"note,omitempty"`
}

func newSessionView(s *domain.Session, now time.Time) sessionView {
	elapsed := int(domain.ClampedElapsed(*s, now) / time.Minute)
	if s.Completed() {
		elapsed = domain.CompletedMinutes(*s)
	}
	return sessionView{
		ID:             s.ID,
		OwnerID:        s.OwnerID,
		ProjectID:      s.ProjectID,
		State:          s.State(),
		StartedAt:      s.StartedAt,
		EndedAt:        s.EndedAt,
		PausedAt:       s.PausedAt,
		ElapsedMinutes: elapsed,
		Note:           s.Note,
	}
}

type sessionPageView struct {
	Sessions   []sessionView `json:"sessions" yaml:"sessions"`
	Page       int           `json:"page" yaml:"page"`
	PageSize   int           `json:"page_size" yaml:"page_size"`
	TotalCount int           `json:"total_count" yaml:"total_count"`
	TotalPages int           `json:"total_pages" yaml:"total_pages"`
}

func newSessionPageView(p domain.SessionPage, now time.Time) sessionPageView {
	out := sessionPageView{
		Sessions:   make([]sessionView, 0, len(p.Sessions)),
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalCount: p.TotalCount,
		TotalPages: p.TotalPages(),
	}
	for _, s := range p.Sessions {
		out.Sessions = append(out.Sessions, newSessionView(s, now))
	}
	return out
}
