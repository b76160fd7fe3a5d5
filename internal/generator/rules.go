package generator

import (
	"fmt"
	"math"
	"math/rand"
	"regexp"
	"sort"
	"strings"

	"github.com/Tessera-Labs-HQ/tessera/internal/dataset"
	"github.com/Tessera-Labs-HQ/tessera/internal/scenario"
	"github.com/Tessera-Labs-HQ/tessera/internal/schema"
)

// SemanticRule pairs a column-name keyword with the faker capability
// that synthesizes values of that kind. Rules are evaluated in order,
// first match wins.
type SemanticRule struct {
	Keyword  string
	Generate func(f *Faker) interface{}
}

// DefaultSemanticRules returns the built-in keyword dispatch table.
// Order matters: "name" precedes "first_name" and "username", so any
// column containing "name" yields a full name unless callers install a
// more specific rule ahead of it.
func DefaultSemanticRules() []SemanticRule {
	return []SemanticRule{
		{"name", func(f *Faker) interface{} { return f.Name() }},
		{"first_name", func(f *Faker) interface{} { return f.FirstName() }},
		{"last_name", func(f *Faker) interface{} { return f.LastName() }},
		{"email", func(f *Faker) interface{} { return f.Email() }},
		{"phone", func(f *Faker) interface{} { return f.Phone() }},
		{"address", func(f *Faker) interface{} { return f.Address() }},
		{"street", func(f *Faker) interface{} { return f.Street() }},
		{"city", func(f *Faker) interface{} { return f.City() }},
		{"state", func(f *Faker) interface{} { return f.State() }},
		{"country", func(f *Faker) interface{} { return f.Country() }},
		{"zipcode", func(f *Faker) interface{} { return f.Zip() }},
		{"zip", func(f *Faker) interface{} { return f.Zip() }},
		{"company", func(f *Faker) interface{} { return f.Company() }},
		{"job", func(f *Faker) interface{} { return f.Job() }},
		{"description", func(f *Faker) interface{} { return f.Text(200) }},
		{"url", func(f *Faker) interface{} { return f.URL() }},
		{"username", func(f *Faker) interface{} { return f.Username() }},
		{"password", func(f *Faker) interface{} { return f.Password() }},
		{"date", func(f *Faker) interface{} { return f.Date() }},
		{"datetime", func(f *Faker) interface{} { return f.DateTime() }},
		{"time", func(f *Faker) interface{} { return f.TimeOfDay() }},
	}
}

// RuleBasedGenerator synthesizes one table at a time. It owns a single
// *rand.Rand seeded once at construction; generation order therefore
// affects the concrete values drawn, and a fixed seed plus a fixed
// order reproduces output exactly.
type RuleBasedGenerator struct {
	rand  *rand.Rand
	faker *Faker
	rules []SemanticRule
}

func NewRuleBasedGenerator(seed int64) *RuleBasedGenerator {
	rng := rand.New(rand.NewSource(seed))
	return &RuleBasedGenerator{
		rand:  rng,
		faker: NewFaker(rng),
		rules: DefaultSemanticRules(),
	}
}

// Faker exposes the underlying semantic generator, mainly so callers
// can pin its date anchor.
func (g *RuleBasedGenerator) Faker() *Faker {
	return g.faker
}

// PrependSemanticRule installs a rule ahead of the built-ins, letting a
// more specific keyword win over the generic ones.
func (g *RuleBasedGenerator) PrependSemanticRule(rule SemanticRule) {
	g.rules = append([]SemanticRule{rule}, g.rules...)
}

// GenerateTable produces rowCount rows for one table. Parent tables
// already present in parents feed foreign-key columns; a missing parent
// degrades to ordinary typed generation and is reported in the returned
// notes rather than failing the run.
func (g *RuleBasedGenerator) GenerateTable(
	table *schema.TableSchema,
	rowCount int,
	ts *scenario.TableScenario,
	parents dataset.Dataset,
) (*dataset.Table, []string, error) {
	out := dataset.NewTable(table.Name, table.ColumnNames(), rowCount)
	var notes []string

	for _, col := range table.Columns {
		values, note := g.generateColumnValues(table, &col, rowCount, ts, parents)
		if note != "" {
			notes = append(notes, note)
		}
		if err := out.SetColumn(col.Name, values); err != nil {
			return nil, notes, err
		}
	}

	// Integrity passes run after all columns exist: first uniqueness
	// suffixing, then primary-key normalization to a dense 1..N range.
	for _, uniqueCol := range table.UniqueColumns() {
		if out.ColumnIndex(uniqueCol) < 0 {
			continue
		}
		values, _ := out.Column(uniqueCol)
		if err := out.SetColumn(uniqueCol, ensureUnique(values)); err != nil {
			return nil, notes, err
		}
	}
	if table.PrimaryKey != nil {
		for _, pkCol := range table.PrimaryKey.Columns {
			if out.ColumnIndex(pkCol) < 0 {
				continue
			}
			seq := make([]interface{}, rowCount)
			for i := range seq {
				seq[i] = i + 1
			}
			if err := out.SetColumn(pkCol, seq); err != nil {
				return nil, notes, err
			}
		}
	}

	return out, notes, nil
}

func (g *RuleBasedGenerator) generateColumnValues(
	table *schema.TableSchema,
	col *schema.Column,
	rowCount int,
	ts *scenario.TableScenario,
	parents dataset.Dataset,
) ([]interface{}, string) {
	// Foreign keys are resolved before everything else so child values
	// always exist in the parent when it has been generated.
	if fk := table.ForeignKeyFor(col.Name); fk != nil {
		if values, ok := g.sampleParent(fk, col.Name, rowCount, parents); ok {
			return values, ""
		}
		note := fmt.Sprintf("table %s: parent %s unavailable for FK column %s, generating non-referential values",
			table.Name, fk.ReferencesTable, col.Name)
		return g.GenerateColumn(col, rowCount, nil, nil), note
	}

	var dist *scenario.Distribution
	if ts != nil {
		dist = ts.Distributions[col.Name]
	}
	enumValues := ExtractEnumValues(col.Check)
	if len(enumValues) == 0 {
		for _, cc := range table.CheckConstraints {
			if len(cc.Columns) == 1 && cc.Columns[0] == col.Name {
				if enumValues = ExtractEnumValues(cc.Expression); len(enumValues) > 0 {
					break
				}
			}
		}
	}

	return g.GenerateColumn(col, rowCount, dist, enumValues), ""
}

// GenerateColumn synthesizes values for a single column, applying the
// priority chain: explicit distribution, enumerated CHECK domain,
// semantic name match, declared-type fallback.
func (g *RuleBasedGenerator) GenerateColumn(
	col *schema.Column,
	rowCount int,
	dist *scenario.Distribution,
	enumValues []string,
) []interface{} {
	if dist != nil {
		return g.fromDistribution(dist, rowCount, col.Type)
	}

	if len(enumValues) > 0 {
		values := make([]interface{}, rowCount)
		for i := range values {
			values[i] = enumValues[g.rand.Intn(len(enumValues))]
		}
		return values
	}

	nameLower := strings.ToLower(col.Name)
	for _, rule := range g.rules {
		if strings.Contains(nameLower, rule.Keyword) {
			values := make([]interface{}, rowCount)
			for i := range values {
				values[i] = rule.Generate(g.faker)
			}
			return values
		}
	}

	return g.fromType(col, rowCount)
}

func (g *RuleBasedGenerator) sampleParent(fk *schema.ForeignKey, localCol string, rowCount int, parents dataset.Dataset) ([]interface{}, bool) {
	parent, ok := parents[fk.ReferencesTable]
	if !ok {
		return nil, false
	}
	refCol := fk.ReferencesColumns[0]
	for i, c := range fk.Columns {
		if c == localCol && i < len(fk.ReferencesColumns) {
			refCol = fk.ReferencesColumns[i]
			break
		}
	}
	pool, err := parent.Column(refCol)
	if err != nil || len(pool) == 0 {
		return nil, false
	}
	values := make([]interface{}, rowCount)
	for i := range values {
		values[i] = pool[g.rand.Intn(len(pool))]
	}
	return values, true
}

func (g *RuleBasedGenerator) fromDistribution(dist *scenario.Distribution, rowCount int, colType string) []interface{} {
	isInt := strings.Contains(strings.ToLower(colType), "int")
	values := make([]interface{}, rowCount)

	switch dist.Type {
	case "categorical":
		categories, cumulative := normalizeWeights(dist.Weights)
		if len(categories) == 0 {
			return values
		}
		for i := range values {
			values[i] = pickCumulative(categories, cumulative, g.rand.Float64())
		}

	case "normal":
		mean := dist.Param("mean", 50)
		std := dist.Param("std", 10)
		for i := range values {
			v := g.rand.NormFloat64()*std + mean
			if isInt {
				values[i] = int(v)
			} else {
				values[i] = round2(v)
			}
		}

	case "uniform":
		min := dist.Param("min", 0)
		max := dist.Param("max", 100)
		if max <= min {
			max = min + 1
		}
		// A fractional range narrower than 1 truncates to an empty integer
		// span; widen it so integer draws stay defined.
		span := int(max - min)
		if span < 1 {
			span = 1
		}
		for i := range values {
			if isInt {
				values[i] = int(min) + g.rand.Intn(span)
			} else {
				values[i] = round2(min + g.rand.Float64()*(max-min))
			}
		}

	default:
		// Unrecognized spec: fall back to uniform [0, 100).
		for i := range values {
			values[i] = round2(g.rand.Float64() * 100)
		}
	}
	return values
}

func (g *RuleBasedGenerator) fromType(col *schema.Column, rowCount int) []interface{} {
	typeLower := strings.ToLower(col.Type)
	values := make([]interface{}, rowCount)

	switch {
	case strings.Contains(typeLower, "int"):
		for i := range values {
			values[i] = g.rand.Intn(999999) + 1
		}
	case strings.Contains(typeLower, "decimal") || strings.Contains(typeLower, "numeric") ||
		strings.Contains(typeLower, "float") || strings.Contains(typeLower, "double"):
		for i := range values {
			values[i] = round2(0.01 + g.rand.Float64()*(10000.0-0.01))
		}
	case strings.Contains(typeLower, "varchar") || strings.Contains(typeLower, "char") ||
		strings.Contains(typeLower, "text") || strings.Contains(typeLower, "string"):
		maxLen := declaredLength(col.Type)
		for i := range values {
			values[i] = g.faker.Text(maxLen)
		}
	case strings.Contains(typeLower, "timestamp") || strings.Contains(typeLower, "datetime"):
		for i := range values {
			values[i] = g.faker.DateTime()
		}
	case strings.Contains(typeLower, "date"):
		for i := range values {
			values[i] = g.faker.Date()
		}
	case strings.Contains(typeLower, "bool"):
		for i := range values {
			values[i] = g.rand.Intn(2) == 1
		}
	default:
		for i := range values {
			values[i] = g.faker.Word()
		}
	}
	return values
}

// declaredLength extracts N from a type like VARCHAR(100), capped at
// 200, defaulting to 50.
func declaredLength(colType string) int {
	open := strings.Index(colType, "(")
	closeIdx := strings.Index(colType, ")")
	if open < 0 || closeIdx <= open {
		return 50
	}
	n := 0
	if _, err := fmt.Sscanf(strings.TrimSpace(colType[open+1:closeIdx]), "%d", &n); err != nil || n <= 0 {
		return 50
	}
	if n > 200 {
		return 200
	}
	return n
}

var inListRe = regexp.MustCompile(`(?i)\bIN\s*\(([^)]*)\)`)

// ExtractEnumValues mines a CHECK expression for an IN (...) value
// list. Matching is case-insensitive; values are de-quoted and trimmed.
// Anything that does not look like a value list yields nil.
func ExtractEnumValues(check string) []string {
	if check == "" {
		return nil
	}
	m := inListRe.FindStringSubmatch(check)
	if m == nil {
		return nil
	}
	var values []string
	for _, part := range strings.Split(m[1], ",") {
		cleaned := strings.Trim(strings.TrimSpace(part), "'\"")
		if cleaned != "" {
			values = append(values, cleaned)
		}
	}
	return values
}

// ensureUnique deduplicates values in row order by suffixing repeats
// with their occurrence count: strings get "_N", numbers get +N.
func ensureUnique(values []interface{}) []interface{} {
	result := make([]interface{}, len(values))
	seen := make(map[string]int)

	for i, val := range values {
		key := fmt.Sprintf("%v", val)
		count, dup := seen[key]
		if !dup {
			result[i] = val
			seen[key] = 1
			continue
		}
		switch v := val.(type) {
		case string:
			result[i] = fmt.Sprintf("%s_%d", v, count)
		case int:
			result[i] = v + count
		case int64:
			result[i] = v + int64(count)
		case float64:
			result[i] = v + float64(count)
		default:
			result[i] = fmt.Sprintf("%v_%d", v, count)
		}
		seen[key] = count + 1
	}
	return result
}

// normalizeWeights returns categories in lexicographic order with their
// cumulative normalized weights, so map iteration order never leaks
// into the draw sequence.
func normalizeWeights(weights map[string]float64) ([]string, []float64) {
	categories := make([]string, 0, len(weights))
	for cat := range weights {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	total := 0.0
	for _, cat := range categories {
		if weights[cat] > 0 {
			total += weights[cat]
		}
	}

	cumulative := make([]float64, len(categories))
	if total <= 0 {
		// Degenerate weights: fall back to a uniform draw.
		for i := range categories {
			cumulative[i] = float64(i+1) / float64(len(categories))
		}
		return categories, cumulative
	}

	running := 0.0
	for i, cat := range categories {
		w := weights[cat]
		if w < 0 {
			w = 0
		}
		running += w / total
		cumulative[i] = running
	}
	return categories, cumulative
}

func pickCumulative(categories []string, cumulative []float64, draw float64) string {
	for i, c := range cumulative {
		if draw < c {
			return categories[i]
		}
	}
	return categories[len(categories)-1]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
