// # internal/engine/graph/detect.go
package graph

// DetectCycles returns each import cycle found by a depth-first walk from
// every file in sorted order. A self-import is a cycle of length one. Each
// back edge reports one cycle, listed from the file it points back to.
func (g *Graph) DetectCycles() [][]string {
	s := &cycleSearch{
		g:       g,
		visited: make(map[string]bool),
		depth:   make(map[string]int),
	}
	for _, path := range g.SortedPaths() {
		if !s.visited[path] {
			s.visit(path)
		}
	}
	return s.cycles
}

type cycleSearch struct {
	g       *Graph
	visited map[string]bool
	depth   map[string]int // position on stack for files currently being walked
	stack   []string
	cycles  [][]string
}

func (s *cycleSearch) visit(curr string) {
	s.visited[curr] = true
	s.depth[curr] = len(s.stack)
	s.stack = append(s.stack, curr)

	for _, next := range s.g.edges[curr] {
		if at, onStack := s.depth[next]; onStack {
			s.cycles = append(s.cycles, append([]string(nil), s.stack[at:]...))
			continue
		}
		if !s.visited[next] {
			s.visit(next)
		}
	}

	s.stack = s.stack[:len(s.stack)-1]
	delete(s.depth, curr)
}

// FindImportChain returns the shortest import path from one file to another,
// following dependencies in import order.
func (g *Graph) FindImportChain(from, to string) ([]string, bool) {
	if !g.HasNode(from) || !g.HasNode(to) {
		return nil, false
	}
	if from == to {
		return []string{from}, true
	}

	parent := map[string]string{from: ""}
	frontier := []string{from}
	for len(frontier) > 0 {
		curr := frontier[0]
		frontier = frontier[1:]

		for _, next := range g.edges[curr] {
			if _, seen := parent[next]; seen {
				continue
			}
			parent[next] = curr
			if next == to {
				return walkBack(parent, from, to), true
			}
			frontier = append(frontier, next)
		}
	}
	return nil, false
}

func walkBack(parent map[string]string, from, to string) []string {
	var reversed []string
	for node := to; node != from; node = parent[node] {
		reversed = append(reversed, node)
	}
	chain := make([]string, 0, len(reversed)+1)
	chain = append(chain, from)
	for i := len(reversed) - 1; i >= 0; i-- {
		chain = append(chain, reversed[i])
	}
	return chain
}
