package generator

import (
	"errors"
	"fmt"
	"sort"
)

// ErrCyclicDependency is returned when the foreign-key graph contains a
// cycle: no generation order exists, so the whole run is aborted.
var ErrCyclicDependency = errors.New("circular dependency detected in foreign keys")

// DependencyGraph orders tables so every parent is generated before the
// children that reference it. Edges point child → parent.
type DependencyGraph struct {
	nodes      map[string]bool
	deps       map[string][]string // child -> parents it depends on
	dependents map[string][]string // parent -> children depending on it
}

func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		nodes:      make(map[string]bool),
		deps:       make(map[string][]string),
		dependents: make(map[string][]string),
	}
}

// AddNode registers a table with no edges, so tables without foreign
// keys still appear in the generation order.
func (g *DependencyGraph) AddNode(table string) {
	g.nodes[table] = true
}

// AddEdge registers that child must be generated after parent.
// Self-references are ignored; a table can always sample itself later.
func (g *DependencyGraph) AddEdge(child, parent string) {
	if child == parent {
		return
	}
	g.nodes[child] = true
	g.nodes[parent] = true
	if !contains(g.deps[child], parent) {
		g.deps[child] = append(g.deps[child], parent)
	}
	if !contains(g.dependents[parent], child) {
		g.dependents[parent] = append(g.dependents[parent], child)
	}
}

// Dependencies returns the tables the given table depends on.
func (g *DependencyGraph) Dependencies(table string) []string {
	return g.deps[table]
}

// Dependents returns the tables that depend on the given table.
func (g *DependencyGraph) Dependents(table string) []string {
	return g.dependents[table]
}

// TopologicalOrder returns every node such that each parent precedes all
// of its children, using Kahn's algorithm. Ready nodes are consumed in
// lexicographic order so a fixed graph always yields the same order,
// which generation determinism depends on. A cycle is a fatal error.
func (g *DependencyGraph) TopologicalOrder() ([]string, error) {
	inDegree := make(map[string]int, len(g.nodes))
	for node := range g.nodes {
		inDegree[node] = len(g.deps[node])
	}

	var ready []string
	for node, deg := range inDegree {
		if deg == 0 {
			ready = append(ready, node)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(g.nodes))
	for len(ready) > 0 {
		node := ready[0]
		ready = ready[1:]
		order = append(order, node)

		var freed []string
		for _, dependent := range g.dependents[node] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				freed = append(freed, dependent)
			}
		}
		if len(freed) > 0 {
			ready = append(ready, freed...)
			sort.Strings(ready)
		}
	}

	if len(order) != len(g.nodes) {
		var stuck []string
		for node, deg := range inDegree {
			if deg > 0 {
				stuck = append(stuck, node)
			}
		}
		sort.Strings(stuck)
		return nil, fmt.Errorf("%w: unresolved tables %v", ErrCyclicDependency, stuck)
	}
	return order, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
