// # internal/engine/graph/graph.go
package graph

import (
	"shadow/internal/engine/resolver"
	"shadow/internal/shared/util"
)

// Node is one scanned source file. Imports hold normalized relative
// specifiers in source order; Exports hold exported binding names.
type Node struct {
	FilePath string   `json:"file_path" yaml:"file_path"`
	Imports  []string `json:"imports" yaml:"imports"`
	Exports  []string `json:"exports" yaml:"exports"`
}

// Graph is a file-level import graph. It is mutated only while it is being
// built; once published through a Snapshot it is read-only.
type Graph struct {
	nodes map[string]*Node    // path -> node
	edges map[string][]string // from -> resolved dependencies
}

func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
		edges: make(map[string][]string),
	}
}

// AddNode registers n, replacing any node with the same path. Edges are
// stale until BuildEdges runs again.
func (g *Graph) AddNode(n *Node) {
	g.nodes[n.FilePath] = n
}

// BuildEdges resolves every node's imports against the current node set and
// overwrites the adjacency. Unresolvable imports are dropped. Running it
// twice over the same nodes yields the same edges.
func (g *Graph) BuildEdges() {
	paths := g.SortedPaths()
	idx := resolver.NewIndex(paths)

	edges := make(map[string][]string, len(paths))
	for _, path := range paths {
		deps := make([]string, 0, len(g.nodes[path].Imports))
		for _, spec := range g.nodes[path].Imports {
			if target, ok := idx.Resolve(spec); ok {
				deps = append(deps, target)
			}
		}
		edges[path] = util.DedupeStrings(deps)
	}
	g.edges = edges
}

func (g *Graph) Node(path string) (*Node, bool) {
	n, ok := g.nodes[path]
	return n, ok
}

func (g *Graph) HasNode(path string) bool {
	_, ok := g.nodes[path]
	return ok
}

// Dependencies returns the files path imports, in import order.
func (g *Graph) Dependencies(path string) []string {
	return append([]string(nil), g.edges[path]...)
}

// Dependents returns the files importing path, sorted. It scans every edge.
func (g *Graph) Dependents(path string) []string {
	out := make([]string, 0)
	for _, from := range g.SortedPaths() {
		if containsPath(g.edges[from], path) {
			out = append(out, from)
		}
	}
	return out
}

func (g *Graph) SortedPaths() []string {
	return util.SortedStringKeys(g.nodes)
}

func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

func (g *Graph) EdgeCount() int {
	count := 0
	for _, deps := range g.edges {
		count += len(deps)
	}
	return count
}

// Edge is a resolved import from one file to another.
type Edge struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// Edges lists every resolved import ordered by importer, then import order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, g.EdgeCount())
	for _, from := range g.SortedPaths() {
		for _, to := range g.edges[from] {
			out = append(out, Edge{From: from, To: to})
		}
	}
	return out
}
