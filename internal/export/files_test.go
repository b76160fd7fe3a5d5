package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Tessera-Labs-HQ/tessera/internal/dataset"
)

func sampleDataset() dataset.Dataset {
	customers := dataset.NewTable("customers", []string{"customer_id", "name", "signup_date"}, 0)
	customers.Rows = [][]interface{}{
		{1, "Alice O'Brien", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{2, "Bob Stone", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
	}

	orders := dataset.NewTable("orders", []string{"order_id", "customer_id", "total"}, 0)
	orders.Rows = [][]interface{}{
		{1, 1, 42.5},
		{2, 2, 9.99},
	}

	return dataset.Dataset{"customers": customers, "orders": orders}
}

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()
	data := sampleDataset()

	if err := WriteCSV(data, dir); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	file, err := os.Open(filepath.Join(dir, "customers.csv"))
	if err != nil {
		t.Fatalf("customers.csv not written: %v", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("failed to read CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d records", len(records))
	}
	if records[0][0] != "customer_id" || records[0][1] != "name" {
		t.Errorf("unexpected header: %v", records[0])
	}
	if records[1][1] != "Alice O'Brien" {
		t.Errorf("expected quoted name to round-trip, got %q", records[1][1])
	}
	if records[1][2] != "2024-03-15 00:00:00" {
		t.Errorf("unexpected date format: %q", records[1][2])
	}

	if _, err := os.Stat(filepath.Join(dir, "orders.csv")); err != nil {
		t.Errorf("orders.csv not written: %v", err)
	}
}

func TestWriteCSVCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")

	if err := WriteCSV(sampleDataset(), dir); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "customers.csv")); err != nil {
		t.Errorf("expected file in created directory: %v", err)
	}
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")

	if err := WriteJSON(sampleDataset(), path); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	var doc map[string][]map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(doc["customers"]) != 2 {
		t.Fatalf("expected 2 customer rows, got %d", len(doc["customers"]))
	}
	if doc["customers"][0]["name"] != "Alice O'Brien" {
		t.Errorf("unexpected name: %v", doc["customers"][0]["name"])
	}
	if doc["orders"][0]["total"] != 42.5 {
		t.Errorf("unexpected total: %v", doc["orders"][0]["total"])
	}
}

func TestFormatCell(t *testing.T) {
	tests := []struct {
		in   interface{}
		want string
	}{
		{nil, ""},
		{"plain", "plain"},
		{true, "true"},
		{42, "42"},
		{int64(9000000000), "9000000000"},
		{3.14, "3.14"},
		{time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), "2025-01-02 03:04:05"},
	}
	for _, tt := range tests {
		if got := formatCell(tt.in); got != tt.want {
			t.Errorf("formatCell(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteSQL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.sql")

	err := WriteSQL(sampleDataset(), []string{"customers", "orders"}, "postgresql", path)
	if err != nil {
		t.Fatalf("WriteSQL failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read script: %v", err)
	}
	script := string(raw)

	custIdx := strings.Index(script, `INSERT INTO "customers"`)
	orderIdx := strings.Index(script, `INSERT INTO "orders"`)
	if custIdx == -1 || orderIdx == -1 {
		t.Fatalf("expected INSERTs for both tables:\n%s", script)
	}
	if custIdx > orderIdx {
		t.Error("parent table must be inserted before child table")
	}
	if !strings.Contains(script, "'Alice O''Brien'") {
		t.Errorf("expected escaped single quote in literal:\n%s", script)
	}
	if strings.Contains(script, "?") {
		t.Errorf("placeholders left uninlined:\n%s", script)
	}
}

func TestWriteSQLMySQLQuoting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.sql")

	err := WriteSQL(sampleDataset(), []string{"customers", "orders"}, "mysql", path)
	if err != nil {
		t.Fatalf("WriteSQL failed: %v", err)
	}

	raw, _ := os.ReadFile(path)
	if !strings.Contains(string(raw), "INSERT INTO `customers`") {
		t.Errorf("expected backtick quoting for mysql:\n%s", raw)
	}
}

func TestWriteSQLBatching(t *testing.T) {
	wide := dataset.NewTable("events", []string{"event_id"}, 0)
	for i := 1; i <= sqlInsertBatch+50; i++ {
		wide.Rows = append(wide.Rows, []interface{}{i})
	}
	path := filepath.Join(t.TempDir(), "seed.sql")

	err := WriteSQL(dataset.Dataset{"events": wide}, []string{"events"}, "postgresql", path)
	if err != nil {
		t.Fatalf("WriteSQL failed: %v", err)
	}

	raw, _ := os.ReadFile(path)
	if n := strings.Count(string(raw), "INSERT INTO"); n != 2 {
		t.Errorf("expected 2 batched INSERT statements, got %d", n)
	}
}

func TestFormatLiteral(t *testing.T) {
	tests := []struct {
		in   interface{}
		want string
	}{
		{nil, "NULL"},
		{"it's", "'it''s'"},
		{true, "TRUE"},
		{false, "FALSE"},
		{7, "7"},
		{2.5, "2.5"},
		{time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), "'2025-01-02 03:04:05'"},
	}
	for _, tt := range tests {
		if got := formatLiteral(tt.in); got != tt.want {
			t.Errorf("formatLiteral(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
