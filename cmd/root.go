// Package cmd implements the cukejson CLI commands.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thelinuxer/cypress-cucumber-preprocessor/config"
	"go.uber.org/zap"
)

// NewRootCmd creates the root cukejson command with all subcommands registered.
func NewRootCmd(logger *zap.Logger) *cobra.Command {
	if logger == nil {
		logger = zap.NewNop()
	}
	root := &cobra.Command{
		Use:           "cukejson",
		Short:         "cukejson - materialize feature files and maintain cucumber json reports",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	root.PersistentFlags().String("config", "", "path to a YAML configuration file")
	root.AddCommand(NewScenariosCmd(logger))
	root.AddCommand(NewEmbedCmd(logger))
	return root
}

// loadConfig reads --config, then applies environment overrides
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.Config{}, err
	}
	cfg := config.Default()
	if path != "" {
		if cfg, err = config.Load(path); err != nil {
			return config.Config{}, err
		}
	}
	if cfg, err = cfg.FromEnv(); err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
