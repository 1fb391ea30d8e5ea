package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/ecoquest/internal/footprint"
	"github.com/rshade/ecoquest/internal/greenops"
)

// calcResult is the JSON shape of `ecoquest calc`.
type calcResult struct {
	Category    string                `json:"category"`
	CarbonKg    float64               `json:"carbon_kg"`
	Points      int                   `json:"points"`
	Details     footprint.Details     `json:"details"`
	Report      footprint.ParseReport `json:"report"`
	Equivalents *greenops.Summary     `json:"equivalents,omitempty"`
}

func newCalcCmd(a *app) *cobra.Command {
	var details detailFlags

	cmd := &cobra.Command{
		Use:   "calc <category> [activity-type]",
		Short: "Preview the footprint and points of an activity without saving it",
		Long: `Computes the carbon footprint (kg CO2e) and reward points of an activity.

Known categories are Transportation, Food, Home Energy and Shopping. Any
other name is treated as a custom category whose "amount" detail is taken
directly as kg CO2e.`,
		Example: `  ecoquest calc Transportation --detail mode=car --detail distance=100 --detail passengers=4
  ecoquest calc Food --details '{"meal_type": "vegan", "servings": 2, "organic": true}'
  ecoquest calc "Home Energy" -d energy_type=electricity -d amount=120 -o json`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := details.parse()
			if err != nil {
				return err
			}
			activityType := ""
			if len(args) > 1 {
				activityType = args[1]
			}
			return a.runCalc(cmd, args[0], activityType, raw)
		},
	}
	details.register(cmd)
	return cmd
}

func (a *app) runCalc(cmd *cobra.Command, category, activityType string, raw map[string]any) error {
	res := footprint.Calculate(category, activityType, raw)

	out := calcResult{
		Category: res.Category.String(),
		CarbonKg: res.CarbonKg,
		Points:   res.Points,
		Details:  res.Details,
		Report:   res.Report,
	}
	if res.Category == footprint.CategoryCustom && strings.TrimSpace(category) != "" {
		out.Category = strings.TrimSpace(category)
	}
	if eq, err := greenops.Equivalents(res.CarbonKg); err == nil && !eq.IsEmpty {
		out.Equivalents = &eq
	}

	w := cmd.OutOrStdout()
	if done, err := writeStructured(w, a.format(), out, []calcResult{out}); done {
		return err
	}

	fmt.Fprintf(w, "Category:  %s\n", out.Category)
	fmt.Fprintf(w, "Footprint: %s kg CO2e\n", a.kg(out.CarbonKg))
	fmt.Fprintf(w, "Points:    %d\n", out.Points)
	if out.Equivalents != nil {
		fmt.Fprintln(w, out.Equivalents.DisplayText)
	}
	printReport(cmd.ErrOrStderr(), out.Report)
	return nil
}
