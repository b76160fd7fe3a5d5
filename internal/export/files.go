package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/Tessera-Labs-HQ/tessera/internal/dataset"
)

// WriteCSV writes one CSV file per table into outputDir. Tables are
// written concurrently; each file is independent of the others.
func WriteCSV(data dataset.Dataset, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	type result struct {
		table string
		err   error
	}
	results := make(chan result, len(data))
	var wg sync.WaitGroup

	for tableName, table := range data {
		wg.Add(1)
		go func(name string, t *dataset.Table) {
			defer wg.Done()
			results <- result{name, writeTableCSV(t, filepath.Join(outputDir, name+".csv"))}
		}(tableName, table)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	for res := range results {
		if res.err != nil {
			return fmt.Errorf("failed to export table %s: %w", res.table, res.err)
		}
	}
	return nil
}

func writeTableCSV(table *dataset.Table, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(table.Columns); err != nil {
		return err
	}
	record := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		for i, cell := range row {
			record[i] = formatCell(cell)
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteJSON dumps the whole dataset into a single JSON document of
// table name → list of row objects.
func WriteJSON(data dataset.Dataset, path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}

	doc := make(map[string][]map[string]interface{}, len(data))
	for tableName, table := range data {
		rows := make([]map[string]interface{}, len(table.Rows))
		for i, row := range table.Rows {
			obj := make(map[string]interface{}, len(table.Columns))
			for j, col := range table.Columns {
				obj[col] = row[j]
			}
			rows[i] = obj
		}
		doc[tableName] = rows
	}

	encoded, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal dataset: %w", err)
	}
	if err := os.WriteFile(path, encoded, 0644); err != nil {
		return fmt.Errorf("failed to write dataset: %w", err)
	}
	return nil
}

// formatCell renders a cell for CSV output.
func formatCell(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		return v.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprintf("%v", v)
	}
}
