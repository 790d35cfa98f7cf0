package cli

import (
	"context"
	"time"

	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/alexanderramin/worklog/internal/service"
	"github.com/spf13/cobra"
)

// App holds the services and process-level settings used by CLI commands.
type App struct {
	Sessions service.SessionService
	Stats    service.StatsService

	// Owner is the identity every command acts as unless --owner overrides it.
	Owner string
	// Location is the calendar used for date flags and displayed times.
	Location *time.Location
	// Now defaults to time.Now.
	Now func() time.Time
	// IsInteractive reports whether stdin is a terminal. Prompts and the
	// live watch view are only offered when it returns true.
	IsInteractive func() bool
	// PromptNote asks for a closing note. Defaults to a huh form.
	PromptNote func(ctx context.Context, s *domain.Session, now time.Time) (string, error)
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now().In(a.location())
	}
	return time.Now().In(a.location())
}

func (a *App) location() *time.Location {
	if a.Location == nil {
		return time.Local
	}
	return a.Location
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "worklog" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "worklog",
		Short:         "Track billable work sessions and report time totals",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.validate()
		},
	}
	opts.bind(root.PersistentFlags())

	root.AddCommand(
		newSessionCmd(app, opts),
		newStatsCmd(app, opts),
	)

	return root
}
