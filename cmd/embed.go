package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thelinuxer/cypress-cucumber-preprocessor/report"
	"go.uber.org/zap"
)

// NewEmbedCmd creates the embed subcommand. It attaches screenshots and
// videos to an existing report in place. Running it twice adds nothing.
func NewEmbedCmd(logger *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "embed <report.json>",
		Short:        "Embed failure screenshots and videos into a cucumber json report",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			tree, err := report.ReadFile(args[0])
			if err != nil {
				return err
			}

			folder := report.FeatureFolder(tree, cfg.IntegrationFolder)
			if cmd.Flags().Changed("feature-folder") {
				if folder, err = cmd.Flags().GetString("feature-folder"); err != nil {
					return err
				}
			}

			res, err := report.NewEmbedder(cfg, logger).Embed(tree, folder)
			if err != nil {
				return err
			}
			if err := report.WriteFile(args[0], tree); err != nil {
				return err
			}

			for _, file := range res.Unmatched {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s does not match a failed step\n", file)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "embedded %d screenshots and %d videos into %s\n", res.Screenshots, res.Videos, args[0])
			return nil
		},
	}
	cmd.Flags().String("feature-folder", "", "folder under the screenshots and videos folders, defaults to the report's feature folder")
	return cmd
}
