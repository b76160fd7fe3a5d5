package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultCardinality = 1000
	DefaultSeed        = 42
	DefaultName        = "default_scenario"
)

// Distribution is a parsed distribution directive for one column: either
// a categorical weight table or a typed spec (normal, uniform, ...).
type Distribution struct {
	Type    string
	Weights map[string]float64
	Params  map[string]float64
}

// IsCategorical reports whether the directive is a value→weight mapping.
func (d *Distribution) IsCategorical() bool {
	return d.Type == "categorical"
}

// Param returns a named parameter, falling back to def when absent.
func (d *Distribution) Param(name string, def float64) float64 {
	if v, ok := d.Params[name]; ok {
		return v
	}
	return def
}

// Correlation declares a relationship with another table's column.
// Captured structurally; the generator does not compute joint samples.
type Correlation struct {
	WithTable  string
	WithColumn string
	Strength   float64
}

// TemporalPattern declares time-volume shaping (surge, seasonal, ...).
// Captured structurally; not interpreted by the core generator.
type TemporalPattern struct {
	PatternType string
	Params      map[string]interface{}
}

// TableScenario holds the generation directives for a single table.
type TableScenario struct {
	Cardinality      int
	Distributions    map[string]*Distribution
	Constraints      map[string]interface{}
	Correlations     []Correlation
	TemporalPatterns map[string]TemporalPattern
}

// Scenario is the full declarative generation request.
type Scenario struct {
	Name   string
	Seed   int64
	Tables map[string]*TableScenario
}

// TableOrDefault returns the table's scenario entry, or an implicit
// default (fixed row count, no overrides) when the table is absent.
func (s *Scenario) TableOrDefault(table string) *TableScenario {
	if ts, ok := s.Tables[table]; ok {
		return ts
	}
	return &TableScenario{Cardinality: DefaultCardinality}
}

// yamlScenario mirrors the external declarative format:
// scenario / seed / entities.
type yamlScenario struct {
	Name     string                `yaml:"scenario"`
	Seed     int64                 `yaml:"seed"`
	Entities map[string]yamlEntity `yaml:"entities"`
}

type yamlEntity struct {
	Cardinality     int                    `yaml:"cardinality"`
	Distribution    map[string]yaml.Node   `yaml:"distribution"`
	Constraints     map[string]interface{} `yaml:"constraints"`
	Correlation     *yamlCorrelation       `yaml:"correlation"`
	TemporalPattern map[string]interface{} `yaml:"temporal_pattern"`
}

type yamlCorrelation struct {
	With string `yaml:"with"`
	Key  string `yaml:"key"`
}

// Load reads a scenario YAML file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return Parse(data)
}

// Parse decodes scenario YAML. Unknown keys are ignored; absent keys
// take the documented defaults.
func Parse(data []byte) (*Scenario, error) {
	var raw yamlScenario
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse scenario YAML: %w", err)
	}

	s := &Scenario{
		Name:   raw.Name,
		Seed:   raw.Seed,
		Tables: make(map[string]*TableScenario),
	}
	if s.Name == "" {
		s.Name = DefaultName
	}
	if s.Seed == 0 {
		s.Seed = DefaultSeed
	}

	for tableName, entity := range raw.Entities {
		ts := &TableScenario{
			Cardinality:      entity.Cardinality,
			Distributions:    make(map[string]*Distribution),
			Constraints:      entity.Constraints,
			TemporalPatterns: make(map[string]TemporalPattern),
		}
		if ts.Cardinality <= 0 {
			ts.Cardinality = DefaultCardinality
		}

		for col, node := range entity.Distribution {
			dist, err := parseDistribution(&node)
			if err != nil {
				return nil, fmt.Errorf("table %s, column %s: %w", tableName, col, err)
			}
			ts.Distributions[col] = dist
		}

		if entity.Correlation != nil {
			ts.Correlations = append(ts.Correlations, Correlation{
				WithTable:  entity.Correlation.With,
				WithColumn: entity.Correlation.Key,
				Strength:   0.8,
			})
		}
		for name, value := range entity.TemporalPattern {
			ts.TemporalPatterns[name] = TemporalPattern{
				PatternType: name,
				Params:      map[string]interface{}{"values": value},
			}
		}

		s.Tables[tableName] = ts
	}

	return s, nil
}

// parseDistribution accepts two shapes: a plain mapping of value→weight
// (categorical), or a spec with a "type" key and numeric parameters.
func parseDistribution(node *yaml.Node) (*Distribution, error) {
	var spec map[string]interface{}
	if err := node.Decode(&spec); err != nil {
		return nil, fmt.Errorf("distribution must be a mapping: %w", err)
	}

	if typ, ok := spec["type"].(string); ok {
		dist := &Distribution{Type: typ, Params: make(map[string]float64)}
		for k, v := range spec {
			if k == "type" {
				continue
			}
			if f, ok := toFloat(v); ok {
				dist.Params[k] = f
			}
		}
		if typ == "categorical" {
			dist.Weights = make(map[string]float64)
			for k, v := range dist.Params {
				dist.Weights[k] = v
			}
		}
		return dist, nil
	}

	// No type key: treat an all-numeric mapping as categorical weights.
	weights := make(map[string]float64, len(spec))
	for k, v := range spec {
		f, ok := toFloat(v)
		if !ok {
			return nil, fmt.Errorf("categorical weight for %q is not numeric", k)
		}
		weights[k] = f
	}
	return &Distribution{Type: "categorical", Weights: weights}, nil
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	return 0, false
}
