package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newConfigValidateCmd creates the config validate command for validating configuration.
func newConfigValidateCmd(a *app) *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the effective configuration: the config file, the project
overlay (.ecoquest.yaml) and ECOQUEST_* environment overrides.`,
		Example: `  # Validate current configuration
  ecoquest config validate

  # Validate and show detailed information
  ecoquest config validate --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.cfg.Validate(); err != nil {
				return fmt.Errorf("configuration validation failed: %w", err)
			}
			cmd.Printf("Configuration is valid\n")

			if verbose {
				a.printVerboseDetails(cmd)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")
	return cmd
}

func (a *app) printVerboseDetails(cmd *cobra.Command) {
	cfg := a.cfg
	cmd.Println()
	cmd.Println("Configuration details:")
	cmd.Printf("  Config file: %s\n", cfg.Path())
	cmd.Printf("  Database: %s\n", cfg.Store.Path)
	cmd.Printf("  Server address: %s\n", cfg.Server.Addr)
	cmd.Printf("  Daily target: %s kg CO2e\n", a.kg(cfg.Scoring.DailyTargetKg))
	cmd.Printf("  Output format: %s\n", cfg.Output.DefaultFormat)
	cmd.Printf("  Output precision: %d\n", cfg.Output.Precision)
	cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
	if cfg.Logging.File != "" {
		cmd.Printf("  Log file: %s\n", cfg.Logging.File)
	}
	cmd.Printf("  Audit trail: %t\n", cfg.Logging.Audit.Enabled)
	if cfg.Profile.UserID == "" {
		cmd.Println("  No local profile yet (created on first use)")
	} else {
		cmd.Printf("  Profile: %s (admin: %t)\n", cfg.Profile.UserID, cfg.Profile.Admin)
	}
}
