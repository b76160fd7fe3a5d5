package validator

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/Tessera-Labs-HQ/tessera/internal/dataset"
	"github.com/Tessera-Labs-HQ/tessera/internal/scenario"
	"github.com/Tessera-Labs-HQ/tessera/internal/schema"
)

// psiEpsilon keeps the PSI log ratio defined when a category is absent
// from one side.
const psiEpsilon = 1e-8

// KeyCheck reports duplicate counting over a column combination.
type KeyCheck struct {
	Columns    []string `json:"columns"`
	Duplicates int      `json:"duplicates"`
	Valid      bool     `json:"valid"`
}

// ForeignKeyCheck reports orphaned child values for one foreign key.
type ForeignKeyCheck struct {
	ChildColumns []string `json:"child_columns"`
	ParentTable  string   `json:"parent_table"`
	Missing      int      `json:"missing"`
	Valid        bool     `json:"valid"`
}

// NumericRange is the observed min/max of a numeric column.
type NumericRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DriftCheck compares a declared categorical distribution against the
// realized frequencies using the Population Stability Index.
type DriftCheck struct {
	Expected map[string]float64 `json:"expected"`
	Actual   map[string]float64 `json:"actual"`
	PSI      float64            `json:"psi"`
}

// TableReport is the per-table validation result. Findings are data:
// nothing here throws, blocks, or mutates the dataset.
type TableReport struct {
	PrimaryKey  *KeyCheck                 `json:"primary_key,omitempty"`
	Unique      []KeyCheck                `json:"unique"`
	ForeignKeys []ForeignKeyCheck         `json:"foreign_keys"`
	Nulls       map[string]int            `json:"nulls"`
	ValueCounts map[string]map[string]int `json:"value_counts"`
	Ranges      map[string]NumericRange   `json:"ranges"`
	Drift       map[string]DriftCheck     `json:"distribution_validation"`
}

// Report maps table names to their validation results.
type Report map[string]*TableReport

// Validator checks a generated dataset against schema constraints and
// scenario-declared distributions.
type Validator struct {
	schema   *schema.DatabaseSchema
	scenario *scenario.Scenario
	data     dataset.Dataset
}

func New(dbSchema *schema.DatabaseSchema, sc *scenario.Scenario, data dataset.Dataset) *Validator {
	return &Validator{schema: dbSchema, scenario: sc, data: data}
}

// ValidateAll produces a report entry for every generated table.
func (v *Validator) ValidateAll() Report {
	report := make(Report, len(v.data))
	for tableName, table := range v.data {
		report[tableName] = v.validateTable(tableName, table)
	}
	return report
}

func (v *Validator) validateTable(tableName string, table *dataset.Table) *TableReport {
	result := &TableReport{
		Unique:      []KeyCheck{},
		ForeignKeys: []ForeignKeyCheck{},
		Nulls:       make(map[string]int),
		ValueCounts: make(map[string]map[string]int),
		Ranges:      make(map[string]NumericRange),
		Drift:       make(map[string]DriftCheck),
	}

	tableSchema := v.schema.GetTable(tableName)
	if tableSchema != nil {
		if tableSchema.PrimaryKey != nil {
			dup := countDuplicates(table, tableSchema.PrimaryKey.Columns)
			result.PrimaryKey = &KeyCheck{
				Columns:    tableSchema.PrimaryKey.Columns,
				Duplicates: dup,
				Valid:      dup == 0,
			}
		}
		for _, uc := range tableSchema.UniqueConstraints {
			dup := countDuplicates(table, uc.Columns)
			result.Unique = append(result.Unique, KeyCheck{
				Columns:    uc.Columns,
				Duplicates: dup,
				Valid:      dup == 0,
			})
		}
		for _, fk := range tableSchema.ForeignKeys {
			// A parent missing from the dataset skips the check rather
			// than failing: its absence is a generation-scope decision,
			// not a data defect.
			parent, ok := v.data[fk.ReferencesTable]
			if !ok {
				continue
			}
			missing := countOrphans(table, parent, fk)
			result.ForeignKeys = append(result.ForeignKeys, ForeignKeyCheck{
				ChildColumns: fk.Columns,
				ParentTable:  fk.ReferencesTable,
				Missing:      missing,
				Valid:        missing == 0,
			})
		}
	}

	for _, col := range table.Columns {
		values, err := table.Column(col)
		if err != nil {
			continue
		}

		nulls := 0
		counts := make(map[string]int)
		var min, max float64
		numeric := 0
		for _, val := range values {
			if val == nil {
				nulls++
			}
			counts[stringify(val)]++
			if f, ok := asFloat(val); ok {
				if numeric == 0 || f < min {
					min = f
				}
				if numeric == 0 || f > max {
					max = f
				}
				numeric++
			}
		}

		result.Nulls[col] = nulls
		result.ValueCounts[col] = counts
		// Ranges only make sense for columns that are numeric throughout.
		if numeric == len(values) && numeric > 0 {
			result.Ranges[col] = NumericRange{Min: min, Max: max}
		}
	}

	if ts, ok := v.scenario.Tables[tableName]; ok {
		for col, dist := range ts.Distributions {
			if !dist.IsCategorical() || table.ColumnIndex(col) < 0 {
				continue
			}
			values, _ := table.Column(col)
			actual := normalizedFrequencies(values)
			result.Drift[col] = DriftCheck{
				Expected: dist.Weights,
				Actual:   actual,
				PSI:      CalculatePSI(dist.Weights, actual),
			}
		}
	}

	return result
}

// CalculatePSI computes the Population Stability Index between an
// expected and an actual categorical distribution over the union of
// their categories, rounded to 5 decimal places. Zero means identical.
func CalculatePSI(expected, actual map[string]float64) float64 {
	bins := make(map[string]bool, len(expected)+len(actual))
	for k := range expected {
		bins[k] = true
	}
	for k := range actual {
		bins[k] = true
	}

	psi := 0.0
	for bin := range bins {
		pExpected, ok := expected[bin]
		if !ok {
			pExpected = psiEpsilon
		}
		pActual, ok := actual[bin]
		if !ok {
			pActual = psiEpsilon
		}
		psi += (pExpected - pActual) * math.Log((pExpected+psiEpsilon)/(pActual+psiEpsilon))
	}
	return math.Round(psi*1e5) / 1e5
}

// normalizedFrequencies returns the stringified value frequency table
// normalized to proportions, nulls included.
func normalizedFrequencies(values []interface{}) map[string]float64 {
	if len(values) == 0 {
		return map[string]float64{}
	}
	counts := make(map[string]int)
	for _, val := range values {
		counts[stringify(val)]++
	}
	freqs := make(map[string]float64, len(counts))
	for k, n := range counts {
		freqs[k] = float64(n) / float64(len(values))
	}
	return freqs
}

// countDuplicates counts rows whose combination over the given columns
// was already seen in an earlier row.
func countDuplicates(table *dataset.Table, columns []string) int {
	idxs := make([]int, 0, len(columns))
	for _, col := range columns {
		idx := table.ColumnIndex(col)
		if idx < 0 {
			return 0
		}
		idxs = append(idxs, idx)
	}

	seen := make(map[string]bool, len(table.Rows))
	duplicates := 0
	for _, row := range table.Rows {
		parts := make([]string, len(idxs))
		for i, idx := range idxs {
			parts[i] = stringify(row[idx])
		}
		key := strings.Join(parts, "\x1f")
		if seen[key] {
			duplicates++
		} else {
			seen[key] = true
		}
	}
	return duplicates
}

// countOrphans counts child rows whose FK value combination is absent
// from the realized parent key set.
func countOrphans(child, parent *dataset.Table, fk schema.ForeignKey) int {
	childIdxs := make([]int, 0, len(fk.Columns))
	for _, col := range fk.Columns {
		idx := child.ColumnIndex(col)
		if idx < 0 {
			return 0
		}
		childIdxs = append(childIdxs, idx)
	}
	parentIdxs := make([]int, 0, len(fk.ReferencesColumns))
	for _, col := range fk.ReferencesColumns {
		idx := parent.ColumnIndex(col)
		if idx < 0 {
			return 0
		}
		parentIdxs = append(parentIdxs, idx)
	}

	parentKeys := make(map[string]bool, len(parent.Rows))
	for _, row := range parent.Rows {
		parts := make([]string, len(parentIdxs))
		for i, idx := range parentIdxs {
			parts[i] = stringify(row[idx])
		}
		parentKeys[strings.Join(parts, "\x1f")] = true
	}

	missing := 0
	for _, row := range child.Rows {
		parts := make([]string, len(childIdxs))
		for i, idx := range childIdxs {
			parts[i] = stringify(row[idx])
		}
		if !parentKeys[strings.Join(parts, "\x1f")] {
			missing++
		}
	}
	return missing
}

// stringify renders any cell for reporting and key comparison. Numeric
// widths are normalized so int(5) and int64(5) compare equal.
func stringify(val interface{}) string {
	switch v := val.(type) {
	case nil:
		return "<nil>"
	case time.Time:
		return v.Format("2006-01-02 15:04:05")
	case float64:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.6f", v), "0"), ".")
	case float32:
		return stringify(float64(v))
	case int, int8, int16, int32, int64, uint, uint32, uint64:
		return fmt.Sprintf("%d", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func asFloat(val interface{}) (float64, bool) {
	switch v := val.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

// SortedTables returns report table names in stable order for rendering.
func (r Report) SortedTables() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
