package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rshade/ecoquest/internal/activity"
)

type targetResult struct {
	UserID        string  `json:"user_id"`
	DailyTargetKg float64 `json:"daily_target_kg"`
}

func newTargetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "target [kg]",
		Short: "Show or change your daily footprint target",
		Example: `  ecoquest target
  ecoquest target 8.5`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withService(cmd, func(ctx context.Context, svc *activity.Service, sess activity.Session) error {
				if len(args) == 1 {
					kg, err := strconv.ParseFloat(args[0], 64)
					if err != nil {
						return fmt.Errorf("%w: %q", activity.ErrInvalidTarget, args[0])
					}

					audit := newAuditContext(ctx, "target set", sess.UserID, map[string]string{"kg": args[0]})
					if err = svc.SetDailyTarget(ctx, sess, kg); err != nil {
						audit.logFailure(ctx, err)
						return friendly(err)
					}
					audit.logSuccess(ctx, 0, kg)
				}

				u, err := svc.Profile(ctx, sess)
				if err != nil {
					return friendly(err)
				}

				res := targetResult{UserID: u.ID, DailyTargetKg: u.DailyTargetKg}
				w := cmd.OutOrStdout()
				if done, werr := writeStructured(w, a.format(), res, []targetResult{res}); done {
					return werr
				}
				fmt.Fprintf(w, "Daily target: %s kg CO2e\n", a.kg(u.DailyTargetKg))
				return nil
			})
		},
	}
}
