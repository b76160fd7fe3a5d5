package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	Version = "0.3.2"
)

var rootCmd = &cobra.Command{
	Use:   "tessera",
	Short: "Schema-aware synthetic data generator for relational databases",
	Long: `
Tessera synthesizes realistic, referentially-consistent tabular data
from a SQL schema and a declarative scenario (row counts, value
distributions, constraints).

Pipeline:
- Parse CREATE TABLE statements into a schema model
- Order tables by foreign-key dependencies
- Generate rows per table (semantic, type-based, distribution-driven)
- Validate output quality (keys, orphans, nulls, distribution drift)`,

	Run: func(cmd *cobra.Command, args []string) {
		showVersion, _ := cmd.Flags().GetBool("version")
		if showVersion {
			fmt.Printf("tessera version %s\n", Version)
			os.Exit(0)
		}
		cmd.Help()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./tessera.yaml)")
	rootCmd.Flags().BoolP("version", "v", false, "Print version")
}

func initConfig() {
	// .env is optional; a missing file is not an error.
	godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("tessera")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			color.Red("❌ Failed to read config file: %v", err)
			os.Exit(1)
		}
	}
}
