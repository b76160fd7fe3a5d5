package validator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/fatih/color"
)

// WriteJSON serializes the report to a machine-readable file, creating
// parent directories as needed.
func (r Report) WriteJSON(path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal quality report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write quality report: %w", err)
	}
	return nil
}

// PrintSummary renders a human-readable pass/fail overview per table.
func (r Report) PrintSummary() {
	for _, tableName := range r.SortedTables() {
		report := r[tableName]
		color.Cyan("\n==== Table: %s ====", tableName)

		if report.PrimaryKey != nil {
			printCheck(fmt.Sprintf("Primary key %v", report.PrimaryKey.Columns),
				report.PrimaryKey.Valid, report.PrimaryKey.Duplicates, "duplicates")
		}
		for _, uc := range report.Unique {
			printCheck(fmt.Sprintf("Unique %v", uc.Columns), uc.Valid, uc.Duplicates, "duplicates")
		}
		for _, fk := range report.ForeignKeys {
			printCheck(fmt.Sprintf("FK %v → %s", fk.ChildColumns, fk.ParentTable),
				fk.Valid, fk.Missing, "orphans")
		}

		totalNulls := 0
		for _, n := range report.Nulls {
			totalNulls += n
		}
		fmt.Printf("  Nulls: %d across %d columns\n", totalNulls, len(report.Nulls))

		if len(report.Drift) > 0 {
			cols := make([]string, 0, len(report.Drift))
			for col := range report.Drift {
				cols = append(cols, col)
			}
			sort.Strings(cols)
			for _, col := range cols {
				drift := report.Drift[col]
				fmt.Printf("  Distribution %s: PSI=%.5f\n", col, drift.PSI)
			}
		}
	}
	fmt.Println()
}

func printCheck(label string, valid bool, count int, noun string) {
	if valid {
		color.Green("  ✅ %s", label)
	} else {
		color.Red("  ❌ %s (%d %s)", label, count, noun)
	}
}
