package provenant

import (
	"errors"
	"fmt"

	"github.com/provenantdev/provenant/pkg/api"
)

// GraphBuilder provides a fluent API for defining workflow graphs:
//
//	graph, err := provenant.New("ingest-pipeline").
//	    Node(parse).
//	    Node(normalize).
//	    Node(report).
//	    Edge("parse", "normalize").
//	    Edge("normalize", "report").
//	    Build()
//
// Construction errors accumulate and surface from Build, so calls chain
// without per-step error handling.
type GraphBuilder struct {
	graph *api.Graph
	errs  []error
}

// New creates a new graph builder with the given graph identity.
func New(id string) *GraphBuilder {
	return &GraphBuilder{graph: api.NewGraph(id)}
}

// Node registers a work node.
func (b *GraphBuilder) Node(n Node) *GraphBuilder {
	if n == nil {
		panic("provenant: nil node")
	}
	if err := b.graph.AddNode(n); err != nil {
		b.errs = append(b.errs, err)
	}
	return b
}

// NodeFn registers a plain function as a work node.
func (b *GraphBuilder) NodeFn(id, nodeType string, fn NodeFunc) *GraphBuilder {
	if fn == nil {
		panic(fmt.Sprintf("provenant: node %q has nil function", id))
	}
	return b.Node(&api.FuncNode{ID: id, Type: nodeType, Fn: fn})
}

// Edge records that node 'to' depends on node 'from'.
func (b *GraphBuilder) Edge(from, to string) *GraphBuilder {
	b.graph.AddEdge(from, to)
	return b
}

// Build returns the graph, validated. Any construction or structural
// error collected along the way fails the build.
func (b *GraphBuilder) Build() (*api.Graph, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	if err := b.graph.Validate(); err != nil {
		return nil, err
	}
	return b.graph, nil
}

// MustBuild is like Build but panics on error. Useful for static graphs
// wired up in main().
func (b *GraphBuilder) MustBuild() *api.Graph {
	g, err := b.Build()
	if err != nil {
		panic(err)
	}
	return g
}
