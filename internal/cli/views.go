package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/rshade/ecoquest/internal/activity"
	"github.com/rshade/ecoquest/internal/garden"
	"github.com/rshade/ecoquest/internal/insights"
	"github.com/rshade/ecoquest/internal/leaderboard"
)

var (
	highlightStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	headingStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	goodStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	badStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// heading renders a section title, underlined on a terminal.
func (a *app) heading(cmd *cobra.Command, title string) string {
	if a.styled(cmd) {
		return headingStyle.Render(title)
	}
	return title
}

func newLeaderboardCmd(a *app) *cobra.Command {
	var (
		sortBy string
		top    int
	)

	cmd := &cobra.Command{
		Use:     "leaderboard",
		Aliases: []string{"lb"},
		Short:   "Show the ranking of all users",
		Example: `  ecoquest leaderboard
  ecoquest leaderboard --sort carbon --top 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			metric, err := leaderboard.ParseSortBy(sortBy)
			if err != nil {
				return err
			}
			if top < 0 {
				return fmt.Errorf("--top must not be negative, got %d", top)
			}

			return a.withService(cmd, func(ctx context.Context, svc *activity.Service, sess activity.Session) error {
				board, err := svc.Leaderboard(ctx, sess, metric)
				if err != nil {
					return friendly(err)
				}
				entries := board.Top(top)
				board.Entries = entries

				w := cmd.OutOrStdout()
				if done, werr := writeStructured(w, a.format(), board, entries); done {
					return werr
				}
				return a.renderLeaderboard(cmd, board, sess.UserID)
			})
		},
	}

	cmd.Flags().StringVar(&sortBy, "sort", string(leaderboard.SortByPoints), "ranking metric: points or carbon")
	cmd.Flags().IntVar(&top, "top", 0, "show only the first N users (0 for all)")
	return cmd
}

func (a *app) renderLeaderboard(cmd *cobra.Command, board leaderboard.Board, userID string) error {
	w := cmd.OutOrStdout()
	if len(board.Entries) == 0 {
		fmt.Fprintln(w, "The leaderboard is empty.")
		return nil
	}

	styled := a.styled(cmd)
	tw := newTable(w)
	fmt.Fprintln(tw, "Rank\tUser\tPoints\tkg CO2e\t")
	fmt.Fprintln(tw, "----\t----\t------\t-------\t")
	for _, e := range board.Entries {
		name := e.DisplayName()
		marker := ""
		if e.UserID == userID {
			marker = "<- you"
			if styled {
				name = highlightStyle.Render(name)
			}
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n", e.Rank, name, e.TotalPoints, a.kg(e.TotalCarbonKg), marker)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if board.UserRank > 0 {
		fmt.Fprintf(w, "\nYou are #%d, in the top %d%% by %s.\n", board.UserRank, board.TopPercent, board.SortBy)
	}
	return nil
}

func newGardenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "garden",
		Short: "Show your virtual garden",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withService(cmd, func(ctx context.Context, svc *activity.Service, sess activity.Session) error {
				g, err := svc.Garden(ctx, sess)
				if err != nil {
					return friendly(err)
				}

				w := cmd.OutOrStdout()
				if done, werr := writeStructured(w, a.format(), g, []garden.Growth{g}); done {
					return werr
				}
				fmt.Fprint(w, garden.Render(g, a.styled(cmd)))
				return nil
			})
		},
	}
}

func newSummaryCmd(a *app) *cobra.Command {
	var (
		date  string
		check bool
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show a day's footprint against your daily target",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withService(cmd, func(ctx context.Context, svc *activity.Service, sess activity.Session) error {
				s, err := svc.DailySummary(ctx, sess, date)
				if err != nil {
					return friendly(err)
				}

				w := cmd.OutOrStdout()
				if done, werr := writeStructured(w, a.format(), s, []insights.DailySummary{s}); done {
					if werr != nil {
						return werr
					}
				} else {
					a.renderSummary(cmd, w, s)
				}

				if check && !s.TargetAchieved {
					return &ExitError{
						Code:   ExitOverTarget,
						Reason: fmt.Sprintf("daily target of %s kg CO2e exceeded on %s", a.kg(s.TargetKg), s.Date),
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "day to summarize as YYYY-MM-DD (default today)")
	cmd.Flags().BoolVar(&check, "check", false, "exit with status 2 when the day is over target")
	return cmd
}

func (a *app) renderSummary(cmd *cobra.Command, w io.Writer, s insights.DailySummary) {
	fmt.Fprintln(w, a.heading(cmd, "Summary for "+s.Date))
	fmt.Fprintf(w, "Activities: %d\n", s.ActivityCount)
	fmt.Fprintf(w, "Footprint:  %s / %s kg CO2e target\n", a.kg(s.TotalCarbonKg), a.kg(s.TargetKg))

	status := fmt.Sprintf("Target achieved, +%d XP", s.XPEarned)
	style := goodStyle
	if !s.TargetAchieved {
		status = fmt.Sprintf("Over target by %s kg CO2e", a.kg(s.TotalCarbonKg-s.TargetKg))
		style = badStyle
	}
	if a.styled(cmd) {
		status = style.Render(status)
	}
	fmt.Fprintln(w, status)
}

func newInsightsCmd(a *app) *cobra.Command {
	var rng string

	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Show trends, a category breakdown and reduction tips",
		Example: `  ecoquest insights
  ecoquest insights --range year -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := insights.ParseRange(rng)
			if err != nil {
				return err
			}

			return a.withService(cmd, func(ctx context.Context, svc *activity.Service, sess activity.Session) error {
				report, err := svc.Insights(ctx, sess, r)
				if err != nil {
					return friendly(err)
				}

				w := cmd.OutOrStdout()
				if done, werr := writeStructured(w, a.format(), report, report.ByCategory); done {
					return werr
				}
				return a.renderInsights(cmd, report)
			})
		},
	}

	cmd.Flags().StringVar(&rng, "range", string(insights.RangeMonth), "window: week, month or year")
	return cmd
}

func (a *app) renderInsights(cmd *cobra.Command, r activity.Report) error {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s (%s to %s)\n\n", a.heading(cmd, "Insights for the last "+string(r.Range)), r.From, r.To)

	if len(r.Trend) == 0 {
		fmt.Fprintln(w, "No activities in this window.")
	} else {
		tw := newTable(w)
		fmt.Fprintf(tw, "Period (by %s)\tkg CO2e\n", r.Granularity)
		for _, p := range r.Trend {
			fmt.Fprintf(tw, "%s\t%s\n", p.Period, a.kg(p.CarbonKg))
		}
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "Category\tkg CO2e\tShare")
		for _, c := range r.ByCategory {
			fmt.Fprintf(tw, "%s\t%s\t%.1f%%\n", c.CategoryName, a.kg(c.CarbonKg), c.SharePct)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(r.Tips) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, a.heading(cmd, "Tips"))
		for _, tip := range r.Tips {
			fmt.Fprintf(w, "  * %s\n", tip)
		}
	}
	return nil
}

func newDashboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"home"},
		Short:   "Show your totals, garden, rank, today and recent activities",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withService(cmd, func(ctx context.Context, svc *activity.Service, sess activity.Session) error {
				d, err := svc.Dashboard(ctx, sess)
				if err != nil {
					return friendly(err)
				}

				w := cmd.OutOrStdout()
				if done, werr := writeStructured(w, a.format(), d, d.Recent); done {
					return werr
				}
				return a.renderDashboard(cmd, d)
			})
		},
	}
}

func (a *app) renderDashboard(cmd *cobra.Command, d activity.Dashboard) error {
	w := cmd.OutOrStdout()

	name := d.User.Username
	if strings.TrimSpace(name) == "" {
		name = d.User.ID
	}
	fmt.Fprintln(w, a.heading(cmd, "Welcome back, "+name))
	fmt.Fprintf(w, "Total points:    %d\n", d.User.TotalPoints)
	fmt.Fprintf(w, "Total footprint: %s kg CO2e\n", a.kg(d.User.TotalCarbonKg))
	if d.Rank > 0 {
		fmt.Fprintf(w, "Rank:            #%d (top %d%%)\n", d.Rank, d.TopPercent)
	}
	fmt.Fprintf(w, "Garden:          %s (level %d)\n\n", d.Garden.Level.Name, d.Garden.Level.Number)

	a.renderSummary(cmd, w, d.Today)

	fmt.Fprintln(w)
	fmt.Fprintln(w, a.heading(cmd, "Recent activities"))
	if len(d.Recent) == 0 {
		fmt.Fprintln(w, "Nothing logged yet. Try `ecoquest activity add`.")
		return nil
	}
	tw := newTable(w)
	for _, act := range d.Recent {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s kg\t+%d\n",
			act.Date, act.CategoryName, act.ActivityType, a.kg(act.CarbonKg), act.Points)
	}
	return tw.Flush()
}
