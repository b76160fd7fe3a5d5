package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const defaultConfigFile = `# tessera configuration
schema_path: db/schema.sql
scenario_path: scenarios/scenario.yaml
output_dir: output/data
report_path: output/quality_report.json
format: csv
dialect: postgresql

database:
  provider: postgresql
  url_env: DATABASE_URL
`

const exampleScenario = `scenario: starter_scenario
seed: 42
entities:
  customers:
    cardinality: 100
    distribution:
      region:
        tier1: 0.6
        tier2: 0.4
  orders:
    cardinality: 300
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter tessera.yaml and example scenario",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat("tessera.yaml"); err == nil {
			return fmt.Errorf("tessera.yaml already exists")
		}

		if err := os.WriteFile("tessera.yaml", []byte(defaultConfigFile), 0644); err != nil {
			return fmt.Errorf("failed to write tessera.yaml: %w", err)
		}
		color.Green("✅ Created tessera.yaml")

		scenarioPath := filepath.Join("scenarios", "scenario.yaml")
		if _, err := os.Stat(scenarioPath); os.IsNotExist(err) {
			if err := os.MkdirAll("scenarios", 0755); err != nil {
				return fmt.Errorf("failed to create scenarios directory: %w", err)
			}
			if err := os.WriteFile(scenarioPath, []byte(exampleScenario), 0644); err != nil {
				return fmt.Errorf("failed to write example scenario: %w", err)
			}
			color.Green("✅ Created %s", scenarioPath)
		}

		color.Cyan("💡 Point schema_path at your CREATE TABLE file and run: tessera generate")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
