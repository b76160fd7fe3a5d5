package config

import "testing"

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	if cfg.SchemaPath != "db/schema.sql" {
		t.Errorf("unexpected default schema path: %s", cfg.SchemaPath)
	}
	if cfg.ScenarioPath != "scenarios/scenario.yaml" {
		t.Errorf("unexpected default scenario path: %s", cfg.ScenarioPath)
	}
	if cfg.OutputDir != "output/data" {
		t.Errorf("unexpected default output dir: %s", cfg.OutputDir)
	}
	if cfg.ReportPath != "output/quality_report.json" {
		t.Errorf("unexpected default report path: %s", cfg.ReportPath)
	}
	if cfg.Format != "csv" {
		t.Errorf("unexpected default format: %s", cfg.Format)
	}
	if cfg.Dialect != "postgresql" {
		t.Errorf("unexpected default dialect: %s", cfg.Dialect)
	}
	if cfg.Database.Provider != "postgresql" {
		t.Errorf("unexpected default provider: %s", cfg.Database.Provider)
	}
	if cfg.Database.URLEnv != "DATABASE_URL" {
		t.Errorf("unexpected default URL env: %s", cfg.Database.URLEnv)
	}
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		Format:   "json",
		Database: Database{Provider: "sqlite", URLEnv: "SQLITE_URL"},
	}
	cfg.applyDefaults()

	if cfg.Format != "json" {
		t.Errorf("explicit format overwritten: %s", cfg.Format)
	}
	if cfg.Database.Provider != "sqlite" {
		t.Errorf("explicit provider overwritten: %s", cfg.Database.Provider)
	}
	if cfg.Database.URLEnv != "SQLITE_URL" {
		t.Errorf("explicit URL env overwritten: %s", cfg.Database.URLEnv)
	}
}

func TestValidateFormat(t *testing.T) {
	for _, format := range []string{"csv", "json", "sql"} {
		cfg := &Config{Format: format}
		cfg.applyDefaults()
		if err := cfg.Validate(); err != nil {
			t.Errorf("format %s should be valid: %v", format, err)
		}
	}

	cfg := &Config{Format: "parquet"}
	cfg.applyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestValidateProvider(t *testing.T) {
	for _, provider := range []string{"postgresql", "postgres", "mysql", "sqlite", "sqlite3"} {
		cfg := &Config{Database: Database{Provider: provider}}
		cfg.applyDefaults()
		if err := cfg.Validate(); err != nil {
			t.Errorf("provider %s should be valid: %v", provider, err)
		}
	}

	cfg := &Config{Database: Database{Provider: "oracle"}}
	cfg.applyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unsupported provider")
	}
}

func TestGetDatabaseURL(t *testing.T) {
	cfg := &Config{Database: Database{URLEnv: "TESSERA_TEST_DB_URL"}}

	if _, err := cfg.GetDatabaseURL(); err == nil {
		t.Error("expected error when env var is unset")
	}

	t.Setenv("TESSERA_TEST_DB_URL", "postgres://localhost/test")
	url, err := cfg.GetDatabaseURL()
	if err != nil {
		t.Fatalf("GetDatabaseURL failed: %v", err)
	}
	if url != "postgres://localhost/test" {
		t.Errorf("unexpected URL: %s", url)
	}
}
