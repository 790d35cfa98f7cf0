package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/worklog/internal/cli/formatter"
	"github.com/alexanderramin/worklog/internal/domain"
	"github.com/spf13/cobra"
)

func newStatsCmd(app *App, opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Report worked time from completed sessions",
	}

	cmd.AddCommand(
		newStatsProjectCmd(app, opts),
		newStatsDayCmd(app, opts),
		newStatsRangeCmd(app, opts),
		newStatsLastMonthCmd(app, opts),
		newStatsYearCmd(app, opts),
		newStatsOverviewCmd(app, opts),
	)

	return cmd
}

func newStatsProjectCmd(app *App, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "project <project-id>...",
		Short: "Totals for one or more projects",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := opts.ownerID(app)
			if err != nil {
				return err
			}
			now := app.now()

			if len(args) == 1 {
				sum, err := app.Stats.ProjectTotal(cmd.Context(), owner, args[0])
				if err != nil {
					return err
				}
				return opts.render(cmd.OutOrStdout(), sum, func() string {
					return formatter.FormatProjectSummary(*sum, now)
				})
			}

			sums, err := app.Stats.ProjectTotals(cmd.Context(), owner, args)
			if err != nil {
				return err
			}
			return opts.render(cmd.OutOrStdout(), sums, func() string {
				return formatter.FormatProjectSummaries(sums, now)
			})
		},
	}
}

func newStatsDayCmd(app *App, opts *globalOptions) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "day",
		Short: "Total for a calendar day (today by default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := opts.ownerID(app)
			if err != nil {
				return err
			}
			day := app.now()
			if date != "" {
				if day, err = parseDay(date, app.location()); err != nil {
					return err
				}
			}
			total, err := app.Stats.DailyTotal(cmd.Context(), owner, day)
			if err != nil {
				return err
			}
			return opts.render(cmd.OutOrStdout(), total, func() string {
				return formatter.FormatPeriodTotal("Day", *total)
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to report (YYYY-MM-DD)")
	return cmd
}

func newStatsRangeCmd(app *App, opts *globalOptions) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "range",
		Short: "Total for sessions started between two dates (inclusive)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := opts.ownerID(app)
			if err != nil {
				return err
			}
			start, err := parseDay(from, app.location())
			if err != nil {
				return err
			}
			last, err := parseDay(to, app.location())
			if err != nil {
				return err
			}
			total, err := app.Stats.RangeTotal(cmd.Context(), owner, start, last.AddDate(0, 0, 1))
			if err != nil {
				return err
			}
			return opts.render(cmd.OutOrStdout(), total, func() string {
				return formatter.FormatPeriodTotal("Range", *total)
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Last day, inclusive (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newStatsLastMonthCmd(app *App, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "last-month",
		Short: "Total for the previous calendar month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := opts.ownerID(app)
			if err != nil {
				return err
			}
			total, err := app.Stats.LastMonthTotal(cmd.Context(), owner)
			if err != nil {
				return err
			}
			return opts.render(cmd.OutOrStdout(), total, func() string {
				return formatter.FormatPeriodTotal(total.Start.Format("January 2006"), *total)
			})
		},
	}
}

func newStatsYearCmd(app *App, opts *globalOptions) *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "year",
		Short: "Total for sessions that ended in a calendar year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := opts.ownerID(app)
			if err != nil {
				return err
			}
			if year == 0 {
				year = app.now().Year()
			}
			total, err := app.Stats.YearTotal(cmd.Context(), owner, year)
			if err != nil {
				return err
			}
			return opts.render(cmd.OutOrStdout(), total, func() string {
				return formatter.FormatPeriodTotal(fmt.Sprintf("Year %d", year), *total)
			})
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Calendar year (current year by default)")
	return cmd
}

func newStatsOverviewCmd(app *App, opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Today, last month and this year at a glance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := opts.ownerID(app)
			if err != nil {
				return err
			}
			ov, err := app.Stats.Overview(cmd.Context(), owner)
			if err != nil {
				return err
			}
			return opts.render(cmd.OutOrStdout(), ov, func() string {
				return formatter.FormatOverview(*ov)
			})
		},
	}
}

func parseDay(v string, loc *time.Location) (time.Time, error) {
	day, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(v), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a YYYY-MM-DD date", domain.ErrInvalidInput, v)
	}
	return day, nil
}
