package cli

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/ecoquest/internal/config"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// rootFlags are the persistent flags shared by every command.
type rootFlags struct {
	debug      bool
	configPath string
	dbPath     string
	user       string
	output     string
}

// NewRootCmd creates the root Cobra command for the ecoquest CLI.
func NewRootCmd(ver string) *cobra.Command {
	return NewRootCmdWithEnv(ver, os.LookupEnv)
}

// NewRootCmdWithEnv creates the root command with an explicit env lookup for
// testability.
func NewRootCmdWithEnv(ver string, lookupEnv config.LookupFunc) *cobra.Command {
	a := &app{lookupEnv: lookupEnv}

	cmd := &cobra.Command{
		Use:           "ecoquest",
		Short:         "Track the carbon footprint of everyday activities",
		Long:          "EcoQuest: log activities, see their carbon footprint, earn points and grow your garden",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.loadConfig(cmd); err != nil {
				return err
			}
			a.setupLogging(cmd)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.cleanup(cmd)
		},
	}

	f := &a.flags
	cmd.PersistentFlags().BoolVar(&f.debug, "debug", false, "enable debug logging to stderr")
	cmd.PersistentFlags().StringVar(&f.configPath, "config", "",
		"config file (default ~/.ecoquest/config.yaml, or $"+config.EnvConfig+")")
	cmd.PersistentFlags().StringVar(&f.dbPath, "db", "", "SQLite database path (overrides store.path)")
	cmd.PersistentFlags().StringVar(&f.user, "user", "", "act as this user ID (overrides profile.user_id)")
	cmd.PersistentFlags().StringVarP(&f.output, "output", "o", "", "output format: table, json or ndjson")

	cmd.AddCommand(
		newCalcCmd(a),
		newActivityCmd(a),
		newLeaderboardCmd(a),
		newGardenCmd(a),
		newSummaryCmd(a),
		newInsightsCmd(a),
		newDashboardCmd(a),
		newTargetCmd(a),
		newServeCmd(a),
		newCategoryCmd(a),
		newAdminCmd(a),
		newConfigCmd(a),
	)
	return cmd
}

const rootCmdExample = `  # Preview the footprint of a car trip
  ecoquest calc Transportation --detail mode=car --detail distance=100

  # Log a vegetarian lunch for today
  ecoquest activity add --category Food --type lunch --detail meal_type=vegetarian

  # List this month's activities as JSON
  ecoquest activity list --from 2024-03-01 --output json

  # Browse activities interactively
  ecoquest activity browse

  # Show your garden and today's summary
  ecoquest garden
  ecoquest summary

  # Serve the JSON API
  ecoquest serve --addr 127.0.0.1:8080`

// newConfigCmd creates the config command group.
func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(
		newConfigInitCmd(a), newConfigSetCmd(a), newConfigGetCmd(a),
		newConfigListCmd(a), newConfigValidateCmd(a),
	)
	return cmd
}
