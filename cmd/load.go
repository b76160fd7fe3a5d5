package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tessera-Labs-HQ/tessera/internal/config"
	"github.com/Tessera-Labs-HQ/tessera/internal/export"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Generate synthetic data and insert it into a live database",
	Long: `Run the generation pipeline and load the result directly into the
configured database, inserting tables in foreign-key dependency order
inside a single transaction.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		applyGenerateFlags(cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}

		dbURL, err := cfg.GetDatabaseURL()
		if err != nil {
			return err
		}

		dbSchema, _, data, err := runGeneration(cfg)
		if err != nil {
			return err
		}

		order, err := generationOrder(dbSchema)
		if err != nil {
			return err
		}

		db, err := export.OpenDB(cfg.Database.Provider, dbURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		return export.LoadDB(context.Background(), db, data, order, cfg.Database.Provider)
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
	loadCmd.Flags().StringVar(&genSchemaPath, "schema", "", "Path to SQL schema file")
	loadCmd.Flags().StringVar(&genScenarioPath, "scenario", "", "Path to scenario YAML file")
	loadCmd.Flags().Int64Var(&genSeed, "seed", 0, "Override the scenario's random seed")
}
