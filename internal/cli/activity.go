package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/ecoquest/internal/activity"
	"github.com/rshade/ecoquest/internal/batch"
	"github.com/rshade/ecoquest/internal/cli/pagination"
	"github.com/rshade/ecoquest/internal/ingest"
	"github.com/rshade/ecoquest/internal/tui"
)

func newActivityCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "activity", Aliases: []string{"act"}, Short: "Log, list and remove activities"}
	cmd.AddCommand(
		newActivityAddCmd(a), newActivityListCmd(a),
		newActivityDeleteCmd(a), newActivityBrowseCmd(a),
		newActivityImportCmd(a),
	)
	return cmd
}

type activityAddParams struct {
	category     string
	activityType string
	date         string
	details      detailFlags
}

func newActivityAddCmd(a *app) *cobra.Command {
	var p activityAddParams

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Log an activity and earn points",
		Example: `  ecoquest activity add --category Transportation --type "bike to work" -d mode=bike -d distance=12
  ecoquest activity add --category 2 --type dinner -d meal_type=meat_low --date 2024-03-14`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runActivityAdd(cmd, &p)
		},
	}

	cmd.Flags().StringVarP(&p.category, "category", "c", "", "category name or ID (required)")
	cmd.Flags().StringVarP(&p.activityType, "type", "t", "", "short description of the activity (required)")
	cmd.Flags().StringVar(&p.date, "date", "", "activity date as YYYY-MM-DD (default today)")
	p.details.register(cmd)
	_ = cmd.MarkFlagRequired("category")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func (a *app) runActivityAdd(cmd *cobra.Command, p *activityAddParams) error {
	raw, err := p.details.parse()
	if err != nil {
		return err
	}

	return a.withService(cmd, func(ctx context.Context, svc *activity.Service, sess activity.Session) error {
		audit := newAuditContext(ctx, "activity add", sess.UserID, map[string]string{
			"category": p.category,
			"type":     p.activityType,
		})

		cat, err := resolveCategory(ctx, svc, p.category)
		if err != nil {
			audit.logFailure(ctx, err)
			return err
		}

		sub, err := svc.Submit(ctx, sess, activity.SubmitRequest{
			CategoryID:   cat.ID,
			ActivityType: p.activityType,
			Date:         p.date,
			Details:      raw,
		})
		if err != nil {
			audit.logFailure(ctx, err)
			return friendly(err)
		}
		audit.logSuccess(ctx, sub.Activity.Points, sub.Activity.CarbonKg)

		w := cmd.OutOrStdout()
		if done, werr := writeStructured(w, a.format(), sub, []activity.Submission{sub}); done {
			return werr
		}

		act := sub.Activity
		fmt.Fprintf(w, "Logged %q (%s) on %s: %s kg CO2e, +%d points\n",
			act.ActivityType, act.CategoryName, act.Date, a.kg(act.CarbonKg), act.Points)
		if eq := equivalentText(act.CarbonKg); eq != "" {
			fmt.Fprintln(w, eq)
		}
		fmt.Fprintf(w, "ID: %s\n", act.ID)
		printReport(cmd.ErrOrStderr(), sub.Report)
		return nil
	})
}

// resolveCategory finds a category by numeric ID or case-insensitive name.
func resolveCategory(ctx context.Context, svc *activity.Service, ref string) (activity.Category, error) {
	cats, err := svc.Categories(ctx)
	if err != nil {
		return activity.Category{}, err
	}
	return activity.FindCategory(cats, ref)
}

type activityListParams struct {
	from, to string
	sort     string
	page     pagination.Params
}

// activityListResult is the JSON shape of `activity list`.
type activityListResult struct {
	Activities []activity.Activity `json:"activities"`
	Pagination pagination.Meta     `json:"pagination"`
}

func newActivityListCmd(a *app) *cobra.Command {
	p := activityListParams{page: pagination.Params{Limit: pagination.DefaultLimit}}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your activities",
		Example: `  ecoquest activity list --from 2024-03-01 --to 2024-03-31
  ecoquest activity list --sort carbon:desc --limit 10
  ecoquest activity list --page 2 --page-size 20 -o ndjson`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runActivityList(cmd, &p)
		},
	}

	cmd.Flags().StringVar(&p.from, "from", "", "first date to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&p.to, "to", "", "last date to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&p.sort, "sort", "date:desc",
		"sort as field[:asc|desc]; fields: "+strings.Join(pagination.ActivityFields(), ", "))
	cmd.Flags().IntVar(&p.page.Limit, "limit", pagination.DefaultLimit, "maximum rows (0 for all)")
	cmd.Flags().IntVar(&p.page.Offset, "offset", 0, "rows to skip")
	cmd.Flags().IntVar(&p.page.Page, "page", 0, "page number, starting at 1")
	cmd.Flags().IntVar(&p.page.PageSize, "page-size", 0, "rows per page (requires --page)")
	return cmd
}

func (a *app) runActivityList(cmd *cobra.Command, p *activityListParams) error {
	if p.page.IsPageBased() && !cmd.Flags().Changed("limit") {
		p.page.Limit = 0
	}
	if err := p.page.Validate(); err != nil {
		return err
	}
	field, order, err := pagination.ParseSort(p.sort, pagination.SortOrderDesc)
	if err != nil {
		return err
	}

	return a.withService(cmd, func(ctx context.Context, svc *activity.Service, sess activity.Session) error {
		acts, err := svc.List(ctx, sess, p.from, p.to)
		if err != nil {
			return friendly(err)
		}
		sorted, err := pagination.SortActivities(acts, field, order)
		if err != nil {
			return err
		}
		window := pagination.Apply(p.page, sorted)

		w := cmd.OutOrStdout()
		result := activityListResult{Activities: window, Pagination: pagination.NewMeta(p.page, len(sorted))}
		if done, werr := writeStructured(w, a.format(), result, window); done {
			return werr
		}
		return a.renderActivities(cmd, window, result.Pagination)
	})
}

func (a *app) renderActivities(cmd *cobra.Command, acts []activity.Activity, meta pagination.Meta) error {
	w := cmd.OutOrStdout()
	if len(acts) == 0 {
		fmt.Fprintln(w, "No activities found.")
		return nil
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tDate\tCategory\tActivity\tkg CO2e\tPoints")
	fmt.Fprintln(tw, "--\t----\t--------\t--------\t-------\t------")
	var kg float64
	var points int
	for _, act := range acts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n",
			act.ID, act.Date, act.CategoryName, act.ActivityType, a.kg(act.CarbonKg), act.Points)
		kg += act.CarbonKg
		points += act.Points
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%d of %d activities, %s kg CO2e, %d points", len(acts), meta.TotalItems, a.kg(kg), points)
	if meta.TotalPages > 1 {
		fmt.Fprintf(w, " (page %d of %d)", meta.CurrentPage, meta.TotalPages)
	}
	fmt.Fprintln(w)
	return nil
}

func newActivityDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete one of your activities and reverse its points",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd, func(ctx context.Context, svc *activity.Service, sess activity.Session) error {
				audit := newAuditContext(ctx, "activity delete", sess.UserID, map[string]string{"id": args[0]})

				act, err := svc.Delete(ctx, sess, args[0])
				if err != nil {
					audit.logFailure(ctx, err)
					if errors.Is(err, activity.ErrActivityNotFound) {
						return fmt.Errorf("no activity %s for user %s", args[0], sess.UserID)
					}
					return friendly(err)
				}
				audit.logSuccess(ctx, -act.Points, -act.CarbonKg)

				w := cmd.OutOrStdout()
				if done, werr := writeStructured(w, a.format(), act, []activity.Activity{act}); done {
					return werr
				}
				fmt.Fprintf(w, "Deleted %q from %s (-%d points)\n", act.ActivityType, act.Date, act.Points)
				return nil
			})
		},
	}
}

func newActivityBrowseCmd(a *app) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse activities interactively",
		Long:  "Opens an interactive list of your activities. Falls back to a table when not attached to a terminal.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withService(cmd, func(ctx context.Context, svc *activity.Service, sess activity.Session) error {
				load := func(ctx context.Context) ([]activity.Activity, error) {
					return svc.List(ctx, sess, from, to)
				}
				if !a.styled(cmd) {
					acts, err := load(ctx)
					if err != nil {
						return friendly(err)
					}
					return a.renderActivities(cmd, acts, pagination.NewMeta(pagination.Params{}, len(acts)))
				}

				del := func(ctx context.Context, id string) error {
					audit := newAuditContext(ctx, "activity delete", sess.UserID, map[string]string{"id": id})
					act, err := svc.Delete(ctx, sess, id)
					if err != nil {
						audit.logFailure(ctx, err)
						return err
					}
					audit.logSuccess(ctx, -act.Points, -act.CarbonKg)
					return nil
				}

				model := tui.NewBrowser(ctx, load, del)
				final, err := tea.NewProgram(model,
					tea.WithContext(ctx),
					tea.WithInput(cmd.InOrStdin()),
					tea.WithOutput(cmd.OutOrStdout()),
					tea.WithAltScreen(),
				).Run()
				if err != nil {
					return fmt.Errorf("running browser: %w", err)
				}
				if b, ok := final.(*tui.Browser); ok && b.Err() != nil {
					return friendly(b.Err())
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first date to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last date to include (YYYY-MM-DD)")
	return cmd
}

func newActivityImportCmd(a *app) *cobra.Command {
	var (
		batchSize int
		strict    bool
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Log many activities from a JSON, NDJSON or YAML file",
		Long: `Imports activities from a file. JSON and YAML files hold a list of records
or an object with an "activities" list; NDJSON files hold one record per line.
Each record has category (name or ID), activity_type, an optional date and
details.

Records that fail are reported and skipped unless --strict is given.`,
		Example: `  ecoquest activity import week.yaml
  ecoquest activity import trips.ndjson --strict -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd, func(ctx context.Context, svc *activity.Service, sess activity.Session) error {
				audit := newAuditContext(ctx, "activity import", sess.UserID, map[string]string{"file": args[0]})

				records, err := ingest.ParseFile(ctx, args[0])
				if err != nil {
					audit.logFailure(ctx, err)
					return err
				}

				errOut := cmd.ErrOrStderr()
				sum, err := ingest.Import(ctx, svc, sess, records, ingest.Options{
					BatchSize: batchSize,
					Strict:    strict,
					OnProgress: func(p batch.Snapshot) {
						if p.TotalBatches > 1 {
							fmt.Fprintf(errOut, "Imported batch %d/%d (%.0f%%)\n",
								p.ProcessedBatches, p.TotalBatches, p.PercentComplete)
						}
					},
				})
				if err != nil {
					audit.logFailure(ctx, err)
					return friendly(err)
				}
				audit.logSuccess(ctx, sum.Points, sum.CarbonKg)

				w := cmd.OutOrStdout()
				if done, werr := writeStructured(w, a.format(), sum, sum.Failed); done {
					return werr
				}
				fmt.Fprintf(w, "Imported %d of %d activities: %s kg CO2e, +%d points\n",
					sum.Imported, sum.Total, a.kg(sum.CarbonKg), sum.Points)
				if sum.Defaulted > 0 {
					fmt.Fprintf(errOut, "Note: %d activities used default values for some details\n", sum.Defaulted)
				}
				for _, f := range sum.Failed {
					fmt.Fprintf(errOut, "Skipped %s\n", f.Error())
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&batchSize, "batch-size", batch.DefaultBatchSize, "records per batch")
	cmd.Flags().BoolVar(&strict, "strict", false, "stop at the first record that fails")
	return cmd
}
