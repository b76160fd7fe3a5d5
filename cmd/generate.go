package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Tessera-Labs-HQ/tessera/internal/config"
	"github.com/Tessera-Labs-HQ/tessera/internal/dataset"
	"github.com/Tessera-Labs-HQ/tessera/internal/export"
	"github.com/Tessera-Labs-HQ/tessera/internal/generator"
	"github.com/Tessera-Labs-HQ/tessera/internal/scenario"
	"github.com/Tessera-Labs-HQ/tessera/internal/schema"
	"github.com/Tessera-Labs-HQ/tessera/internal/validator"
)

var (
	genSchemaPath   string
	genScenarioPath string
	genSeed         int64
	genFormat       string
	genOutputDir    string
	genPreview      bool
	genSkipReport   bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate synthetic data from a schema and scenario",
	Long: `Parse a SQL schema, load a scenario YAML, generate data for every
table in foreign-key dependency order, export it, and write a quality
report.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		applyGenerateFlags(cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}

		dbSchema, sc, data, err := runGeneration(cfg)
		if err != nil {
			return err
		}

		if err := exportDataset(cfg, dbSchema, data); err != nil {
			return err
		}

		if !genSkipReport {
			report := validator.New(dbSchema, sc, data).ValidateAll()
			if err := report.WriteJSON(cfg.ReportPath); err != nil {
				return err
			}
			report.PrintSummary()
			color.Green("✅ Quality report written to %s", cfg.ReportPath)
		}

		return nil
	},
}

func applyGenerateFlags(cfg *config.Config) {
	if genSchemaPath != "" {
		cfg.SchemaPath = genSchemaPath
	}
	if genScenarioPath != "" {
		cfg.ScenarioPath = genScenarioPath
	}
	if genFormat != "" {
		cfg.Format = strings.ToLower(genFormat)
	}
	if genOutputDir != "" {
		cfg.OutputDir = genOutputDir
	}
}

func runGeneration(cfg *config.Config) (*schema.DatabaseSchema, *scenario.Scenario, dataset.Dataset, error) {
	color.Cyan("🧩 Parsing schema from %s", cfg.SchemaPath)
	ddl, err := os.ReadFile(cfg.SchemaPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to read schema file: %w", err)
	}
	dbSchema, err := schema.NewParser(cfg.Dialect).Parse(string(ddl))
	if err != nil {
		return nil, nil, nil, err
	}

	color.Cyan("📋 Loading scenario from %s", cfg.ScenarioPath)
	sc, err := scenario.Load(cfg.ScenarioPath)
	if err != nil {
		return nil, nil, nil, err
	}
	if genSeed != 0 {
		sc.Seed = genSeed
	}

	engine, err := generator.NewEngine(dbSchema, sc.Seed)
	if err != nil {
		return nil, nil, nil, err
	}
	engine.Verbose = true

	order, _ := engine.Graph().TopologicalOrder()
	color.Green("📊 Found %d tables", len(dbSchema.Tables))
	color.Cyan("📋 Generation order: %s", strings.Join(order, " → "))

	var data dataset.Dataset
	if genPreview {
		data, err = engine.Preview(sc)
	} else {
		data, err = engine.Generate(sc)
	}
	if err != nil {
		return nil, nil, nil, err
	}

	color.Green("✅ Generated %d tables (scenario %q, seed %d)", len(data), sc.Name, sc.Seed)
	return dbSchema, sc, data, nil
}

func exportDataset(cfg *config.Config, dbSchema *schema.DatabaseSchema, data dataset.Dataset) error {
	switch cfg.Format {
	case "csv":
		if err := export.WriteCSV(data, cfg.OutputDir); err != nil {
			return err
		}
		color.Green("✅ CSV files written to %s", cfg.OutputDir)
	case "json":
		path := filepath.Join(cfg.OutputDir, "dataset.json")
		if err := export.WriteJSON(data, path); err != nil {
			return err
		}
		color.Green("✅ Dataset written to %s", path)
	case "sql":
		order, err := generationOrder(dbSchema)
		if err != nil {
			return err
		}
		path := filepath.Join(cfg.OutputDir, "dataset.sql")
		if err := export.WriteSQL(data, order, cfg.Dialect, path); err != nil {
			return err
		}
		color.Green("✅ INSERT script written to %s", path)
	default:
		return fmt.Errorf("unsupported export format: %s", cfg.Format)
	}
	return nil
}

func generationOrder(dbSchema *schema.DatabaseSchema) ([]string, error) {
	graph := generator.NewDependencyGraph()
	for name, table := range dbSchema.Tables {
		graph.AddNode(name)
		for _, fk := range table.ForeignKeys {
			graph.AddEdge(name, fk.ReferencesTable)
		}
	}
	return graph.TopologicalOrder()
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVar(&genSchemaPath, "schema", "", "Path to SQL schema file")
	generateCmd.Flags().StringVar(&genScenarioPath, "scenario", "", "Path to scenario YAML file")
	generateCmd.Flags().Int64Var(&genSeed, "seed", 0, "Override the scenario's random seed")
	generateCmd.Flags().StringVar(&genFormat, "format", "", "Export format: csv, json, sql")
	generateCmd.Flags().StringVar(&genOutputDir, "output", "", "Output directory")
	generateCmd.Flags().BoolVar(&genPreview, "preview", false, "Generate only a small sample per table")
	generateCmd.Flags().BoolVar(&genSkipReport, "no-report", false, "Skip quality validation")
}
