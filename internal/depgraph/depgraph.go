// Package depgraph links indexed classes through their imports.
package depgraph

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dominikbraun/graph"

	"github.com/mherod/source-parse/internal/model"
)

// Edge is an import from one indexed class to another.
type Edge struct {
	From string
	To   string
}

func (e Edge) String() string {
	return e.From + " -> " + e.To
}

// Graph is a directed graph of qualified class names.
type Graph struct {
	g graph.Graph[string, string]
}

// Build adds a vertex per class and an edge A -> B whenever A imports B's
// qualified name, or imports B's package with a trailing ".*".
// Imports that name nothing in the set are ignored.
func Build(classes []model.SourceClass) (*Graph, error) {
	g := graph.New(graph.StringHash, graph.Directed())

	byPackage := map[string][]string{}
	for _, c := range classes {
		name := c.QualifiedName()
		if err := g.AddVertex(name); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
			return nil, fmt.Errorf("failed to add class %s: %w", name, err)
		}
		byPackage[c.Package] = append(byPackage[c.Package], name)
	}

	for _, c := range classes {
		from := c.QualifiedName()
		for _, imp := range c.Imports {
			imp = strings.TrimRight(imp, ";")

			var targets []string
			if pkg, ok := strings.CutSuffix(imp, ".*"); ok {
				targets = byPackage[pkg]
			} else if _, err := g.Vertex(imp); err == nil {
				targets = []string{imp}
			}

			for _, to := range targets {
				if to == from {
					continue
				}
				err := g.AddEdge(from, to)
				if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
					return nil, fmt.Errorf("failed to link %s -> %s: %w", from, to, err)
				}
			}
		}
	}

	return &Graph{g: g}, nil
}

// Order returns the number of classes in the graph.
func (g *Graph) Order() (int, error) {
	return g.g.Order()
}

// Edges returns every edge sorted by source then target.
func (g *Graph) Edges() ([]Edge, error) {
	raw, err := g.g.Edges()
	if err != nil {
		return nil, fmt.Errorf("failed to list edges: %w", err)
	}

	edges := make([]Edge, len(raw))
	for i, e := range raw {
		edges[i] = Edge{From: e.Source, To: e.Target}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})
	return edges, nil
}

// Cycles returns the strongly connected components with more than one
// class, each sorted, ordered by their first member.
func (g *Graph) Cycles() ([][]string, error) {
	components, err := graph.StronglyConnectedComponents(g.g)
	if err != nil {
		return nil, fmt.Errorf("failed to find cycles: %w", err)
	}

	var cycles [][]string
	for _, c := range components {
		if len(c) < 2 {
			continue
		}
		sort.Strings(c)
		cycles = append(cycles, c)
	}
	sort.Slice(cycles, func(i, j int) bool { return cycles[i][0] < cycles[j][0] })
	return cycles, nil
}
