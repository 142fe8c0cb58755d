package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thelinuxer/cypress-cucumber-preprocessor/feature"
	"github.com/thelinuxer/cypress-cucumber-preprocessor/scenario"
	"go.uber.org/zap"
)

// scenarioOutput is the JSON shape of one materialized scenario
type scenarioOutput struct {
	Name      string            `json:"name"`
	Tags      []string          `json:"tags"`
	ShouldRun bool              `json:"shouldRun"`
	Row       map[string]string `json:"row,omitempty"`
	Steps     []string          `json:"steps"`
}

// NewScenariosCmd creates the scenarios subcommand. It prints the concrete
// scenarios a feature file expands to, in registration order.
func NewScenariosCmd(logger *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "scenarios <feature-file>",
		Short:        "List the concrete scenarios of a feature file as JSON",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("tags") {
				if cfg.Tags, err = cmd.Flags().GetString("tags"); err != nil {
					return err
				}
			}

			f, err := feature.Load(args[0])
			if err != nil {
				return err
			}
			selector, err := scenario.TagSelector(cfg.Tags)
			if err != nil {
				return err
			}

			scenarios := scenario.NewMaterializer(f, selector).MaterializeAll(f.Sections)
			out := make([]scenarioOutput, 0, len(scenarios))
			for _, sc := range scenarios {
				steps := make([]string, len(sc.Steps))
				for i, step := range sc.Steps {
					steps[i] = step.Keyword + step.Text
				}
				out = append(out, scenarioOutput{
					Name:      sc.Name,
					Tags:      sc.Tags,
					ShouldRun: sc.ShouldRun,
					Row:       sc.Row,
					Steps:     steps,
				})
			}
			logger.Debug("Feature materialized", zap.String("feature", f.Name), zap.Int("scenarios", len(out)))

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(out); err != nil {
				return fmt.Errorf("encoding output: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().String("tags", "", "tag expression selecting scenarios, overrides the configuration")
	return cmd
}
