package api

import (
	"fmt"
	"sort"
)

// Edge is a dependency edge: To depends on From.
type Edge struct {
	From string
	To   string
}

// Graph is a workflow definition: a set of work nodes plus the dependency
// edges between them. A Graph is built up before a run and is read-only
// while an executor walks it, so it is safe for concurrent read access.
type Graph struct {
	id    string
	nodes map[string]Node
	edges []Edge
}

// NewGraph creates an empty graph with the given identity.
func NewGraph(id string) *Graph {
	return &Graph{
		id:    id,
		nodes: make(map[string]Node),
	}
}

// ID returns the graph identity recorded in evidence events.
func (g *Graph) ID() string { return g.id }

// AddNode registers a work node. Node ids must be unique within the graph.
func (g *Graph) AddNode(n Node) error {
	if n == nil {
		return NewGraphError("nil node")
	}
	id := n.NodeID()
	if id == "" {
		return NewGraphError("node id is required")
	}
	if _, exists := g.nodes[id]; exists {
		return NewGraphError(fmt.Sprintf("duplicate node id: %s", id))
	}
	g.nodes[id] = n
	return nil
}

// AddEdge records that node 'to' depends on node 'from'. Endpoints are
// checked during Validate, not here, so edges and nodes can be added in
// any order.
func (g *Graph) AddEdge(from, to string) {
	g.edges = append(g.edges, Edge{From: from, To: to})
}

// Node returns the node registered under id.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// NodeIDs returns all node ids in ascending order.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Edges returns a copy of the dependency edges.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// DependenciesOf returns the direct predecessors of a node in ascending
// order. Root nodes (and unknown ids) get an empty slice.
func (g *Graph) DependenciesOf(nodeID string) []string {
	var deps []string
	for _, e := range g.edges {
		if e.To == nodeID {
			deps = append(deps, e.From)
		}
	}
	sort.Strings(deps)
	return deps
}

// Validate checks structural integrity: every edge endpoint must reference
// a registered node and the dependency relation must be acyclic.
func (g *Graph) Validate() error {
	for _, e := range g.edges {
		if _, ok := g.nodes[e.From]; !ok {
			return NewGraphError(fmt.Sprintf("edge references unknown node: %s", e.From))
		}
		if _, ok := g.nodes[e.To]; !ok {
			return NewGraphError(fmt.Sprintf("edge references unknown node: %s", e.To))
		}
	}
	if _, err := g.TopologicalSort(); err != nil {
		return err
	}
	return nil
}

// TopologicalSort returns an execution order in which every node appears
// after all of its dependencies. Ties between unordered nodes break by
// ascending node id, so re-sorting an unchanged graph always yields the
// same order. Returns a GraphError if the graph contains a cycle.
func (g *Graph) TopologicalSort() ([]string, error) {
	indeg := make(map[string]int, len(g.nodes))
	succ := make(map[string][]string, len(g.nodes))
	for id := range g.nodes {
		indeg[id] = 0
	}
	for _, e := range g.edges {
		// Edges with unknown endpoints are reported by Validate; skip
		// them here so sorting stays well-defined on the known nodes.
		if _, ok := g.nodes[e.From]; !ok {
			continue
		}
		if _, ok := g.nodes[e.To]; !ok {
			continue
		}
		succ[e.From] = append(succ[e.From], e.To)
		indeg[e.To]++
	}

	ready := make([]string, 0, len(g.nodes))
	for id, d := range indeg {
		if d == 0 {
			ready = append(ready, id)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(g.nodes))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		next := succ[id]
		sort.Strings(next)
		for _, s := range next {
			indeg[s]--
			if indeg[s] == 0 {
				ready = insertSorted(ready, s)
			}
		}
	}

	if len(order) != len(g.nodes) {
		return nil, NewGraphError("dependency cycle detected")
	}
	return order, nil
}

// insertSorted keeps the ready list in ascending order so the tie-break
// stays deterministic as nodes become unblocked.
func insertSorted(list []string, s string) []string {
	i := sort.SearchStrings(list, s)
	list = append(list, "")
	copy(list[i+1:], list[i:])
	list[i] = s
	return list
}
