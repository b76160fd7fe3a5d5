package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	SchemaPath   string   `json:"schema_path" mapstructure:"schema_path"`
	ScenarioPath string   `json:"scenario_path" mapstructure:"scenario_path"`
	OutputDir    string   `json:"output_dir" mapstructure:"output_dir"`
	ReportPath   string   `json:"report_path" mapstructure:"report_path"`
	Format       string   `json:"format" mapstructure:"format"`
	Dialect      string   `json:"dialect" mapstructure:"dialect"`
	Database     Database `json:"database" mapstructure:"database"`
}

type Database struct {
	Provider string `json:"provider" mapstructure:"provider"`
	URLEnv   string `json:"url_env" mapstructure:"url_env"`
}

func Load() (*Config, error) {
	var cfg Config

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.SchemaPath == "" {
		c.SchemaPath = "db/schema.sql"
	}
	if c.ScenarioPath == "" {
		c.ScenarioPath = "scenarios/scenario.yaml"
	}
	if c.OutputDir == "" {
		c.OutputDir = "output/data"
	}
	if c.ReportPath == "" {
		c.ReportPath = "output/quality_report.json"
	}
	if c.Format == "" {
		c.Format = "csv"
	}
	if c.Dialect == "" {
		c.Dialect = "postgresql"
	}
	if c.Database.Provider == "" {
		c.Database.Provider = "postgresql"
	}
	if c.Database.URLEnv == "" {
		c.Database.URLEnv = "DATABASE_URL"
	}
}

func (c *Config) Validate() error {
	switch c.Format {
	case "csv", "json", "sql":
	default:
		return fmt.Errorf("unsupported export format: %s (supported: csv, json, sql)", c.Format)
	}

	supportedProviders := []string{"postgresql", "postgres", "mysql", "sqlite", "sqlite3"}
	supported := false
	for _, provider := range supportedProviders {
		if c.Database.Provider == provider {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("unsupported database provider: %s. Supported providers: %v", c.Database.Provider, supportedProviders)
	}

	return nil
}

func (c *Config) GetDatabaseURL() (string, error) {
	dbURL := os.Getenv(c.Database.URLEnv)
	if dbURL == "" {
		return "", fmt.Errorf("database URL not found in environment variable %s", c.Database.URLEnv)
	}
	return dbURL, nil
}
