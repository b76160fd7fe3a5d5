package generator

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/Tessera-Labs-HQ/tessera/internal/dataset"
	"github.com/Tessera-Labs-HQ/tessera/internal/scenario"
	"github.com/Tessera-Labs-HQ/tessera/internal/schema"
)

// PreviewRows is the per-table cap used when a caller only wants a
// quick sample of the output.
const PreviewRows = 10

// Engine drives generation across all tables in dependency order so
// child tables can sample already-materialized parent output. The
// accumulated dataset is rebuilt from scratch on every Generate call.
type Engine struct {
	schema  *schema.DatabaseSchema
	graph   *DependencyGraph
	rules   *RuleBasedGenerator
	Verbose bool
}

// NewEngine validates the schema, builds the foreign-key graph, and
// seeds a single generator for the whole run. Structural and schema
// errors surface here, before any row exists.
func NewEngine(dbSchema *schema.DatabaseSchema, seed int64) (*Engine, error) {
	if err := dbSchema.Validate(); err != nil {
		return nil, err
	}

	graph := NewDependencyGraph()
	for name, table := range dbSchema.Tables {
		graph.AddNode(name)
		for _, fk := range table.ForeignKeys {
			graph.AddEdge(name, fk.ReferencesTable)
		}
	}
	// Fail fast on cycles; a partial dataset is meaningless without a
	// valid generation order.
	if _, err := graph.TopologicalOrder(); err != nil {
		return nil, err
	}

	return &Engine{
		schema: dbSchema,
		graph:  graph,
		rules:  NewRuleBasedGenerator(seed),
	}, nil
}

// Graph exposes the foreign-key dependency graph.
func (e *Engine) Graph() *DependencyGraph {
	return e.graph
}

// Rules exposes the underlying rule-based generator.
func (e *Engine) Rules() *RuleBasedGenerator {
	return e.rules
}

// Generate produces the full dataset for the scenario. Tables named in
// the scenario but absent from the schema are skipped silently; tables
// missing a scenario entry use the default cardinality.
func (e *Engine) Generate(sc *scenario.Scenario) (dataset.Dataset, error) {
	return e.generate(sc, false)
}

// Preview generates at most PreviewRows rows per table.
func (e *Engine) Preview(sc *scenario.Scenario) (dataset.Dataset, error) {
	return e.generate(sc, true)
}

func (e *Engine) generate(sc *scenario.Scenario, preview bool) (dataset.Dataset, error) {
	order, err := e.graph.TopologicalOrder()
	if err != nil {
		return nil, err
	}

	data := make(dataset.Dataset, len(order))
	for _, tableName := range order {
		table := e.schema.GetTable(tableName)
		if table == nil {
			continue
		}

		ts := sc.TableOrDefault(tableName)
		rowCount := ts.Cardinality
		if preview && rowCount > PreviewRows {
			rowCount = PreviewRows
		}

		if e.Verbose {
			color.Cyan("  📝 Generating %s (%d rows)...", tableName, rowCount)
		}

		generated, notes, err := e.rules.GenerateTable(table, rowCount, ts, data)
		if err != nil {
			return nil, fmt.Errorf("failed to generate table %s: %w", tableName, err)
		}
		for _, note := range notes {
			color.Yellow("  ⚠️  %s", note)
		}

		data[tableName] = generated
	}

	return data, nil
}
