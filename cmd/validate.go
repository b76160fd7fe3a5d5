package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Tessera-Labs-HQ/tessera/internal/config"
	"github.com/Tessera-Labs-HQ/tessera/internal/validator"
)

var validateReportPath string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Generate data and report its quality without exporting",
	Long: `Run the full generation pipeline and print the quality report
(primary-key duplicates, foreign-key orphans, null counts, distribution
drift) without writing any data files.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		applyGenerateFlags(cfg)
		if validateReportPath != "" {
			cfg.ReportPath = validateReportPath
		}

		dbSchema, sc, data, err := runGeneration(cfg)
		if err != nil {
			return err
		}

		report := validator.New(dbSchema, sc, data).ValidateAll()
		report.PrintSummary()

		if err := report.WriteJSON(cfg.ReportPath); err != nil {
			return err
		}
		color.Green("✅ Quality report written to %s", cfg.ReportPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVar(&genSchemaPath, "schema", "", "Path to SQL schema file")
	validateCmd.Flags().StringVar(&genScenarioPath, "scenario", "", "Path to scenario YAML file")
	validateCmd.Flags().Int64Var(&genSeed, "seed", 0, "Override the scenario's random seed")
	validateCmd.Flags().StringVar(&validateReportPath, "report", "", "Quality report output path")
}
