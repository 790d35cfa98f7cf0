package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/worklog/internal/cli/formatter"
	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

const (
	watchTickInterval = time.Second
	// watchRefreshTicks re-reads the store every this many ticks so changes
	// made from another terminal show up.
	watchRefreshTicks = 15
)

type watchKeyMap struct {
	Toggle key.Binding
	End    key.Binding
	Quit   key.Binding
}

func (k watchKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.End, k.Quit}
}

func (k watchKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func newWatchKeyMap() watchKeyMap {
	return watchKeyMap{
		Toggle: key.NewBinding(key.WithKeys("p", " "), key.WithHelp("p", "pause/resume")),
		End:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "end")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type watchTickMsg time.Time

// watchSessionMsg carries the result of a store read or transition.
type watchSessionMsg struct {
	session *domain.Session
	err     error
}

// watchModel is a live timer for the owner's active session.
type watchModel struct {
	ctx     context.Context
	app     *App
	owner   string
	keys    watchKeyMap
	help    help.Model
	session *domain.Session
	now     time.Time
	ticks   int
	busy    bool
	err     error
	ended   bool
}

func newWatchModel(ctx context.Context, app *App, owner string, s *domain.Session) watchModel {
	return watchModel{
		ctx:     ctx,
		app:     app,
		owner:   owner,
		keys:    newWatchKeyMap(),
		help:    help.New(),
		session: s,
		now:     app.now(),
	}
}

func (m watchModel) Init() tea.Cmd {
	return watchTick()
}

func watchTick() tea.Cmd {
	return tea.Tick(watchTickInterval, func(t time.Time) tea.Msg {
		return watchTickMsg(t)
	})
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case watchTickMsg:
		m.now = m.app.now()
		m.ticks++
		cmds := []tea.Cmd{watchTick()}
		if m.ticks%watchRefreshTicks == 0 && !m.busy {
			cmds = append(cmds, m.refresh())
		}
		return m, tea.Batch(cmds...)

	case watchSessionMsg:
		m.busy = false
		m.now = m.app.now()
		switch {
		case errors.Is(msg.err, domain.ErrNoActiveSession):
			m.session = nil
			m.err = msg.err
			return m, tea.Quit
		case msg.err != nil:
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.session = msg.session
		if msg.session.State() == domain.StateCompleted {
			m.ended = true
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case m.busy || m.session == nil:
			return m, nil
		case key.Matches(msg, m.keys.Toggle):
			m.busy = true
			return m, m.toggle()
		case key.Matches(msg, m.keys.End):
			m.busy = true
			return m, m.end()
		}
	}
	return m, nil
}

func (m watchModel) refresh() tea.Cmd {
	ctx, svc, owner := m.ctx, m.app.Sessions, m.owner
	return func() tea.Msg {
		s, err := svc.Current(ctx, owner)
		return watchSessionMsg{session: s, err: err}
	}
}

func (m watchModel) toggle() tea.Cmd {
	ctx, svc, owner := m.ctx, m.app.Sessions, m.owner
	paused := m.session.Paused
	return func() tea.Msg {
		var s *domain.Session
		var err error
		if paused {
			s, err = retryOnConflict(ctx, func(ctx context.Context) (*domain.Session, error) {
				return svc.Resume(ctx, owner)
			})
		} else {
			s, err = retryOnConflict(ctx, func(ctx context.Context) (*domain.Session, error) {
				return svc.Pause(ctx, owner)
			})
		}
		return watchSessionMsg{session: s, err: err}
	}
}

func (m watchModel) end() tea.Cmd {
	ctx, svc, owner, id := m.ctx, m.app.Sessions, m.owner, m.session.ID
	return func() tea.Msg {
		s, err := retryOnConflict(ctx, func(ctx context.Context) (*domain.Session, error) {
			return svc.End(ctx, id, owner, "")
		})
		return watchSessionMsg{session: s, err: err}
	}
}

func (m watchModel) View() string {
	if m.session == nil {
		return formatter.Dim("No active session.") + "\n"
	}
	if m.ended {
		return formatter.FormatSessionEvent("Ended", m.session, m.now) + "\n"
	}

	s := *m.session
	clock := formatter.StateColor(s.State()).Bold(true).Render(formatClock(domain.ClampedElapsed(s, m.now)))

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n\n", formatter.Bold(s.ProjectID), formatter.StatePill(s.State()))
	b.WriteString(clock)
	b.WriteString("\n")
	b.WriteString(formatter.Dim("started " + formatter.HumanTimestamp(s.StartedAt, m.now)))
	if s.Note != "" {
		b.WriteString(formatter.Dim(" · " + s.Note))
	}
	if m.err != nil {
		b.WriteString("\n\n")
		b.WriteString(formatter.StyleRed.Render(m.err.Error()))
	}

	return formatter.RenderBox("Session", b.String()) + "\n" + m.help.View(m.keys) + "\n"
}

// formatClock renders d as H:MM:SS.
func formatClock(d time.Duration) string {
	d = d.Truncate(time.Second)
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

func newSessionWatchCmd(app *App, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Live timer for the active session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return errors.New("watch needs an interactive terminal; use `worklog session status`")
			}
			owner, err := opts.ownerID(app)
			if err != nil {
				return err
			}
			s, err := app.Sessions.Current(cmd.Context(), owner)
			if err != nil {
				return err
			}

			p := tea.NewProgram(
				newWatchModel(cmd.Context(), app, owner, s),
				tea.WithContext(cmd.Context()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			final, err := p.Run()
			if err != nil {
				return fmt.Errorf("watch: %w", err)
			}
			if fm, ok := final.(watchModel); ok && fm.err != nil && !errors.Is(fm.err, domain.ErrNoActiveSession) {
				return fm.err
			}
			return nil
		},
	}
}
