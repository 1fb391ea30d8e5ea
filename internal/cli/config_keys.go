package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/ecoquest/internal/config"
)

func newConfigGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one effective configuration value",
		Example: `  ecoquest config get scoring.daily_target_kg
  ECOQUEST_OUTPUT_FORMAT=json ecoquest config get output.default_format`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := a.cfg.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
}

// newConfigSetCmd writes to the config file only; environment and overlay
// overrides are not persisted.
func newConfigSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change a configuration value in the config file",
		Example: `  ecoquest config set profile.username alice
  ecoquest config set scoring.daily_target_kg 8.5
  ecoquest config set logging.audit.enabled true`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.cfg.Path())
			if err != nil {
				return err
			}
			if err = cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err = cfg.Validate(); err != nil {
				return fmt.Errorf("refusing to save: %w", err)
			}
			if err = cfg.Save(); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}

			v, _ := cfg.Get(args[0])
			cmd.Printf("%s = %s\n", args[0], v)
			return nil
		},
	}
}

func newConfigListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List every configuration key with its effective value",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			values := make(map[string]string, len(config.Keys()))
			for _, key := range config.Keys() {
				v, err := a.cfg.Get(key)
				if err != nil {
					return err
				}
				values[key] = v
			}

			w := cmd.OutOrStdout()
			switch a.format() {
			case formatJSON, formatNDJSON:
				return writeJSON(w, values)
			}

			tw := newTable(w)
			fmt.Fprintln(tw, "KEY\tVALUE")
			for _, key := range config.Keys() {
				fmt.Fprintf(tw, "%s\t%s\n", key, values[key])
			}
			return tw.Flush()
		},
	}
}
