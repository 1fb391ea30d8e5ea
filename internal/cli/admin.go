package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rshade/ecoquest/internal/activity"
)

func newCategoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"categories"},
		Short:   "List or add activity categories",
	}
	cmd.AddCommand(newCategoryListCmd(a), newCategoryAddCmd(a))
	return cmd
}

func newCategoryListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List activity categories",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, closeStore, err := a.openService(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			cats, err := svc.Categories(ctx)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if done, werr := writeStructured(w, a.format(), map[string]any{"categories": cats}, cats); done {
				return werr
			}
			tw := newTable(w)
			fmt.Fprintln(tw, "ID\tName")
			for _, c := range cats {
				fmt.Fprintf(tw, "%d\t%s\n", c.ID, c.Name)
			}
			return tw.Flush()
		},
	}
}

func newCategoryAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a custom category (admin only)",
		Long: `Adds a custom category. Activities in a custom category take their
footprint directly from the "amount" detail, in kg CO2e.`,
		Example: `  ecoquest config set profile.admin true
  ecoquest category add Gardening`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd, func(ctx context.Context, svc *activity.Service, sess activity.Session) error {
				audit := newAuditContext(ctx, "category add", sess.UserID, map[string]string{"name": args[0]})

				c, err := svc.AddCategory(ctx, sess, args[0])
				if err != nil {
					audit.logFailure(ctx, err)
					return friendly(err)
				}
				audit.logSuccess(ctx, 0, 0)

				w := cmd.OutOrStdout()
				if done, werr := writeStructured(w, a.format(), c, []activity.Category{c}); done {
					return werr
				}
				fmt.Fprintf(w, "Added category %q with ID %d\n", c.Name, c.ID)
				return nil
			})
		},
	}
}

func newAdminCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrative commands (requires profile.admin)",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show store-wide totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withService(cmd, func(ctx context.Context, svc *activity.Service, sess activity.Session) error {
				st, err := svc.AdminStats(ctx, sess)
				if err != nil {
					return friendly(err)
				}

				w := cmd.OutOrStdout()
				if done, werr := writeStructured(w, a.format(), st, []activity.Stats{st}); done {
					return werr
				}
				tw := newTable(w)
				fmt.Fprintf(tw, "Users\t%d\n", st.Users)
				fmt.Fprintf(tw, "Activities\t%d\n", st.Activities)
				fmt.Fprintf(tw, "Total footprint\t%s kg CO2e\n", a.kg(st.TotalCarbonKg))
				fmt.Fprintf(tw, "Total points\t%s\n", strconv.Itoa(st.TotalPoints))
				return tw.Flush()
			})
		},
	})
	return cmd
}
