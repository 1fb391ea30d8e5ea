package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/ecoquest/internal/config"
)

// newConfigInitCmd creates the config init command for initializing configuration.
func newConfigInitCmd(a *app) *cobra.Command {
	var (
		force    bool
		username string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates a new configuration file with default values and a fresh local
profile. The file is written to --config, $ECOQUEST_CONFIG or ~/.ecoquest/config.yaml.`,
		Example: `  # Create the configuration
  ecoquest config init --username alice

  # Create configuration, overwriting existing
  ecoquest config init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := a.cfg.Path()

			if !force {
				_, err := os.Stat(path)
				if err == nil {
					return errors.New("configuration file already exists, use --force to overwrite")
				}
				if !errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("cannot access config path %s: %w", path, err)
				}
			}

			cfg := config.New()
			cfg.SetPath(path)
			cfg.EnsureProfile()
			cfg.Profile.Username = username
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			cmd.Printf("Configuration initialized successfully\n")
			cmd.Printf("Configuration file: %s\n", path)
			cmd.Printf("User ID: %s\n", cfg.Profile.UserID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	cmd.Flags().StringVar(&username, "username", "", "display name shown on the leaderboard")
	return cmd
}
