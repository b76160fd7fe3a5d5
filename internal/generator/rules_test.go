package generator

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/Tessera-Labs-HQ/tessera/internal/dataset"
	"github.com/Tessera-Labs-HQ/tessera/internal/scenario"
	"github.com/Tessera-Labs-HQ/tessera/internal/schema"
)

func TestExtractEnumValues(t *testing.T) {
	cases := []struct {
		check string
		want  []string
	}{
		{"status IN ('PLACED', 'SHIPPED', 'DELIVERED')", []string{"PLACED", "SHIPPED", "DELIVERED"}},
		{"status in ('a','b')", []string{"a", "b"}},
		{`tier IN ("gold", "silver")`, []string{"gold", "silver"}},
		{"age > 0", nil},
		{"", nil},
	}
	for _, tc := range cases {
		got := ExtractEnumValues(tc.check)
		if len(got) != len(tc.want) {
			t.Errorf("ExtractEnumValues(%q) = %v, want %v", tc.check, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("ExtractEnumValues(%q)[%d] = %q, want %q", tc.check, i, got[i], tc.want[i])
			}
		}
	}
}

func TestEnsureUniqueSuffixes(t *testing.T) {
	values := []interface{}{"bob", "bob", "bob", "alice"}
	got := ensureUnique(values)

	want := []interface{}{"bob", "bob_1", "bob_2", "alice"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("value %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestEnsureUniqueNumeric(t *testing.T) {
	values := []interface{}{5, 5, 5}
	got := ensureUnique(values)

	if got[0] != 5 || got[1] != 6 || got[2] != 7 {
		t.Errorf("expected 5, 6, 7, got %v", got)
	}
}

func TestGenerateColumnEnumDomain(t *testing.T) {
	g := NewRuleBasedGenerator(1)
	col := &schema.Column{Name: "status", Type: "VARCHAR(20)", Check: "status IN ('A','B','C')"}

	values := g.GenerateColumn(col, 200, nil, ExtractEnumValues(col.Check))
	allowed := map[interface{}]bool{"A": true, "B": true, "C": true}
	for _, v := range values {
		if !allowed[v] {
			t.Fatalf("value %v outside enumerated domain", v)
		}
	}
}

func TestGenerateColumnSemanticEmail(t *testing.T) {
	g := NewRuleBasedGenerator(1)
	col := &schema.Column{Name: "contact_email", Type: "VARCHAR(100)"}

	values := g.GenerateColumn(col, 20, nil, nil)
	for _, v := range values {
		s, ok := v.(string)
		if !ok || !strings.Contains(s, "@") {
			t.Fatalf("expected email-shaped string, got %v", v)
		}
	}
}

func TestGenerateColumnNamePrecedesUsername(t *testing.T) {
	// "name" is first in the dispatch table, so user_name columns draw
	// full names; installing a more specific rule overrides that.
	g := NewRuleBasedGenerator(1)
	col := &schema.Column{Name: "user_name", Type: "VARCHAR(50)"}

	values := g.GenerateColumn(col, 5, nil, nil)
	if s, ok := values[0].(string); !ok || !strings.Contains(s, " ") {
		t.Fatalf("expected full name, got %v", values[0])
	}

	g.PrependSemanticRule(SemanticRule{"user_name", func(f *Faker) interface{} { return f.Username() }})
	values = g.GenerateColumn(col, 5, nil, nil)
	if s, ok := values[0].(string); !ok || strings.Contains(s, " ") {
		t.Fatalf("expected username, got %v", values[0])
	}
}

func TestGenerateColumnTypeFallbacks(t *testing.T) {
	g := NewRuleBasedGenerator(7)

	intVals := g.GenerateColumn(&schema.Column{Name: "qty", Type: "INTEGER"}, 100, nil, nil)
	for _, v := range intVals {
		n, ok := v.(int)
		if !ok || n < 1 || n >= 1000000 {
			t.Fatalf("integer fallback out of range: %v", v)
		}
	}

	decVals := g.GenerateColumn(&schema.Column{Name: "amount", Type: "DECIMAL(10, 2)"}, 100, nil, nil)
	for _, v := range decVals {
		f, ok := v.(float64)
		if !ok || f < 0.01 || f >= 10000.0 {
			t.Fatalf("decimal fallback out of range: %v", v)
		}
		if math.Round(f*100)/100 != f {
			t.Fatalf("decimal not rounded to 2 places: %v", f)
		}
	}

	strVals := g.GenerateColumn(&schema.Column{Name: "note", Type: "VARCHAR(30)"}, 20, nil, nil)
	for _, v := range strVals {
		s, ok := v.(string)
		if !ok || len(s) > 30 {
			t.Fatalf("string fallback exceeds declared length: %q", v)
		}
	}

	boolVals := g.GenerateColumn(&schema.Column{Name: "active", Type: "BOOLEAN"}, 10, nil, nil)
	if _, ok := boolVals[0].(bool); !ok {
		t.Fatalf("expected bool, got %T", boolVals[0])
	}

	tsVals := g.GenerateColumn(&schema.Column{Name: "created", Type: "TIMESTAMP"}, 10, nil, nil)
	if _, ok := tsVals[0].(time.Time); !ok {
		t.Fatalf("expected time.Time, got %T", tsVals[0])
	}
}

func TestDeclaredLength(t *testing.T) {
	cases := []struct {
		typ  string
		want int
	}{
		{"VARCHAR(100)", 100},
		{"VARCHAR(500)", 200},
		{"TEXT", 50},
		{"CHAR(1)", 1},
	}
	for _, tc := range cases {
		if got := declaredLength(tc.typ); got != tc.want {
			t.Errorf("declaredLength(%q) = %d, want %d", tc.typ, got, tc.want)
		}
	}
}

func TestCategoricalDistributionProportions(t *testing.T) {
	g := NewRuleBasedGenerator(42)
	dist := &scenario.Distribution{
		Type:    "categorical",
		Weights: map[string]float64{"tier1": 3, "tier2": 2}, // un-normalized
	}
	col := &schema.Column{Name: "region", Type: "VARCHAR(10)"}

	values := g.GenerateColumn(col, 10000, dist, nil)
	counts := map[interface{}]int{}
	for _, v := range values {
		counts[v]++
	}
	p1 := float64(counts["tier1"]) / 10000
	if p1 < 0.55 || p1 > 0.65 {
		t.Errorf("expected tier1 proportion near 0.6, got %.3f", p1)
	}
	if counts["tier1"]+counts["tier2"] != 10000 {
		t.Errorf("values outside declared categories: %v", counts)
	}
}

func TestNormalDistributionIntegerTruncation(t *testing.T) {
	g := NewRuleBasedGenerator(42)
	dist := &scenario.Distribution{Type: "normal", Params: map[string]float64{"mean": 40, "std": 5}}

	intVals := g.GenerateColumn(&schema.Column{Name: "age", Type: "INTEGER"}, 100, dist, nil)
	for _, v := range intVals {
		if _, ok := v.(int); !ok {
			t.Fatalf("expected truncated int, got %T", v)
		}
	}

	floatVals := g.GenerateColumn(&schema.Column{Name: "score", Type: "FLOAT"}, 100, dist, nil)
	for _, v := range floatVals {
		f, ok := v.(float64)
		if !ok {
			t.Fatalf("expected float64, got %T", v)
		}
		if math.Round(f*100)/100 != f {
			t.Fatalf("float not rounded to 2 places: %v", f)
		}
	}
}

func TestUniformDistributionRange(t *testing.T) {
	g := NewRuleBasedGenerator(42)
	dist := &scenario.Distribution{Type: "uniform", Params: map[string]float64{"min": 10, "max": 20}}

	values := g.GenerateColumn(&schema.Column{Name: "qty", Type: "INT"}, 500, dist, nil)
	for _, v := range values {
		n := v.(int)
		if n < 10 || n >= 20 {
			t.Fatalf("uniform draw out of [10, 20): %d", n)
		}
	}
}

func TestUniformDistributionFractionalRangeOnInteger(t *testing.T) {
	g := NewRuleBasedGenerator(42)
	dist := &scenario.Distribution{Type: "uniform", Params: map[string]float64{"min": 0, "max": 0.5}}

	values := g.GenerateColumn(&schema.Column{Name: "qty", Type: "INT"}, 100, dist, nil)
	for _, v := range values {
		if n := v.(int); n != 0 {
			t.Fatalf("expected 0 for sub-unit integer range, got %d", n)
		}
	}
}

func TestGenerateTablePKSequential(t *testing.T) {
	g := NewRuleBasedGenerator(42)
	table := &schema.TableSchema{
		Name: "customers",
		Columns: []schema.Column{
			{Name: "customer_id", Type: "VARCHAR(36)"}, // non-integer PK still coerced
			{Name: "region", Type: "VARCHAR(10)"},
		},
		PrimaryKey: &schema.PrimaryKey{Columns: []string{"customer_id"}},
	}

	out, notes, err := g.GenerateTable(table, 50, nil, dataset.Dataset{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notes) != 0 {
		t.Errorf("unexpected notes: %v", notes)
	}

	ids, _ := out.Column("customer_id")
	for i, id := range ids {
		if id != i+1 {
			t.Fatalf("expected sequential PK, row %d = %v", i, id)
		}
	}
}

func TestGenerateTableUniqueColumn(t *testing.T) {
	g := NewRuleBasedGenerator(42)
	table := &schema.TableSchema{
		Name: "users",
		Columns: []schema.Column{
			{Name: "city", Type: "VARCHAR(50)", Unique: true},
		},
	}

	out, _, err := g.GenerateTable(table, 100, nil, dataset.Dataset{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	values, _ := out.Column("city")
	seen := map[interface{}]bool{}
	for _, v := range values {
		if seen[v] {
			t.Fatalf("duplicate unique value: %v", v)
		}
		seen[v] = true
	}
}

func TestGenerateTableFKSampling(t *testing.T) {
	g := NewRuleBasedGenerator(42)

	parent := dataset.NewTable("customers", []string{"customer_id"}, 10)
	for i := range parent.Rows {
		parent.Rows[i][0] = i + 1
	}
	parents := dataset.Dataset{"customers": parent}

	table := &schema.TableSchema{
		Name: "orders",
		Columns: []schema.Column{
			{Name: "customer_id", Type: "INTEGER"},
		},
		ForeignKeys: []schema.ForeignKey{{
			Columns:           []string{"customer_id"},
			ReferencesTable:   "customers",
			ReferencesColumns: []string{"customer_id"},
		}},
	}

	out, notes, err := g.GenerateTable(table, 100, nil, parents)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notes) != 0 {
		t.Errorf("unexpected degradation notes: %v", notes)
	}

	values, _ := out.Column("customer_id")
	for _, v := range values {
		n := v.(int)
		if n < 1 || n > 10 {
			t.Fatalf("FK value %v not drawn from parent", v)
		}
	}
}

func TestGenerateTableFKSoftDegradation(t *testing.T) {
	g := NewRuleBasedGenerator(42)
	table := &schema.TableSchema{
		Name: "orders",
		Columns: []schema.Column{
			{Name: "customer_id", Type: "INTEGER"},
		},
		ForeignKeys: []schema.ForeignKey{{
			Columns:           []string{"customer_id"},
			ReferencesTable:   "customers",
			ReferencesColumns: []string{"customer_id"},
		}},
	}

	out, notes, err := g.GenerateTable(table, 20, nil, dataset.Dataset{})
	if err != nil {
		t.Fatalf("expected soft degradation, got error: %v", err)
	}
	if len(notes) == 0 {
		t.Error("expected a degradation note for missing parent")
	}
	if out.RowCount() != 20 {
		t.Errorf("expected 20 rows despite missing parent, got %d", out.RowCount())
	}
}
