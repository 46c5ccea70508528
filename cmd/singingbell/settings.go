package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/urmzd/singingbell/pkg/config"
)

// configCmd manages the settings file.
func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the settings file.",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a settings file with the default values to --config.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := os.Stat(opts.configPath); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", opts.configPath)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}

			cfg := config.Default()
			if opts.dbPath != "" {
				cfg.Database = opts.dbPath
			}
			if err := config.Save(opts.configPath, cfg); err != nil {
				return err
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "settings written to %s\n", opts.configPath)
			return err
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing settings file")
	cmd.AddCommand(initCmd)

	return cmd
}
