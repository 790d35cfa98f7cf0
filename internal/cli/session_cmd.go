package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/worklog/internal/cli/formatter"
	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/spf13/cobra"
)

// conflictRetries bounds how often a transition is retried after losing a
// race with a concurrent writer.
const conflictRetries = 3

func newSessionCmd(app *App, opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "session",
		Aliases: []string{"s"},
		Short:   "Start, pause, resume and end work sessions",
	}

	cmd.AddCommand(
		newSessionStartCmd(app, opts),
		newSessionPauseCmd(app, opts),
		newSessionResumeCmd(app, opts),
		newSessionEndCmd(app, opts),
		newSessionStatusCmd(app, opts),
		newSessionShowCmd(app, opts),
		newSessionListCmd(app, opts),
		newSessionWatchCmd(app, opts),
	)

	return cmd
}

func newSessionStartCmd(app *App, opts *globalOptions) *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "start <project-id>",
		Short: "Start a session on a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := opts.ownerID(app)
			if err != nil {
				return err
			}
			s, err := app.Sessions.Start(cmd.Context(), owner, args[0], note)
			if err != nil {
				if errors.Is(err, domain.ErrDuplicateActiveSession) {
					return fmt.Errorf("%w (end or check it with `worklog session status`)", err)
				}
				return err
			}
			return renderSessionEvent(cmd, app, opts, "Started", s)
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "Session note")
	return cmd
}

func newSessionPauseCmd(app *App, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pause",
		Short: "Pause the running session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := opts.ownerID(app)
			if err != nil {
				return err
			}
			s, err := retryOnConflict(cmd.Context(), func(ctx context.Context) (*domain.Session, error) {
				return app.Sessions.Pause(ctx, owner)
			})
			if err != nil {
				return err
			}
			return renderSessionEvent(cmd, app, opts, "Paused", s)
		},
	}
}

func newSessionResumeCmd(app *App, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "Resume the paused session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := opts.ownerID(app)
			if err != nil {
				return err
			}
			s, err := retryOnConflict(cmd.Context(), func(ctx context.Context) (*domain.Session, error) {
				return app.Sessions.Resume(ctx, owner)
			})
			if err != nil {
				return err
			}
			return renderSessionEvent(cmd, app, opts, "Resumed", s)
		},
	}
}

func newSessionEndCmd(app *App, opts *globalOptions) *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "end [session-id]",
		Short: "End a session (the active one when no id is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			owner, err := opts.ownerID(app)
			if err != nil {
				return err
			}

			var target *domain.Session
			if len(args) == 1 {
				target, err = app.Sessions.Get(ctx, args[0], owner)
			} else {
				target, err = app.Sessions.Current(ctx, owner)
			}
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("note") && app.interactive() && opts.output == outputText && target.Active {
				prompt := app.PromptNote
				if prompt == nil {
					prompt = promptNote
				}
				if note, err = prompt(ctx, target, app.now()); err != nil {
					return err
				}
			}

			s, err := retryOnConflict(ctx, func(ctx context.Context) (*domain.Session, error) {
				return app.Sessions.End(ctx, target.ID, owner, note)
			})
			if err != nil {
				return err
			}
			return renderSessionEvent(cmd, app, opts, "Ended", s)
		},
	}

	cmd.Flags().StringVar(&note, "note", "", "Closing note (replaces the start note when non-empty)")
	return cmd
}

func newSessionStatusCmd(app *App, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the active session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := opts.ownerID(app)
			if err != nil {
				return err
			}
			s, err := app.Sessions.Current(cmd.Context(), owner)
			if errors.Is(err, domain.ErrNoActiveSession) {
				return opts.render(cmd.OutOrStdout(), nil, func() string {
					return formatter.Dim("No active session.")
				})
			}
			if err != nil {
				return err
			}
			now := app.now()
			return opts.render(cmd.OutOrStdout(), newSessionView(s, now), func() string {
				return formatter.FormatSession(s, now)
			})
		},
	}
}

func newSessionShowCmd(app *App, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show one of your sessions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := opts.ownerID(app)
			if err != nil {
				return err
			}
			s, err := app.Sessions.Get(cmd.Context(), args[0], owner)
			if err != nil {
				return err
			}
			now := app.now()
			return opts.render(cmd.OutOrStdout(), newSessionView(s, now), func() string {
				return formatter.FormatSession(s, now)
			})
		},
	}
}

func newSessionListCmd(app *App, opts *globalOptions) *cobra.Command {
	var page, size int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List session history, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := opts.ownerID(app)
			if err != nil {
				return err
			}
			p, err := app.Sessions.List(cmd.Context(), owner, page, size)
			if err != nil {
				return err
			}
			now := app.now()
			return opts.render(cmd.OutOrStdout(), newSessionPageView(p, now), func() string {
				return formatter.FormatSessionList(p, now)
			})
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number, starting at 1")
	cmd.Flags().IntVar(&size, "size", 20, "Sessions per page (max 100)")
	return cmd
}

func renderSessionEvent(cmd *cobra.Command, app *App, opts *globalOptions, verb string, s *domain.Session) error {
	now := app.now()
	return opts.render(cmd.OutOrStdout(), newSessionView(s, now), func() string {
		return formatter.FormatSessionEvent(verb, s, now)
	})
}

// retryOnConflict re-runs fn while it reports a retryable state conflict.
// Each attempt re-reads the session, so a refusal after a lost race surfaces
// as the specific lifecycle error.
func retryOnConflict(ctx context.Context, fn func(context.Context) (*domain.Session, error)) (*domain.Session, error) {
	var err error
	for range conflictRetries {
		var s *domain.Session
		s, err = fn(ctx)
		if !domain.IsRetryable(err) {
			return s, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, err
}
