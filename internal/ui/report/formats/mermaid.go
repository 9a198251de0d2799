package formats

import (
	"fmt"
	"strings"

	"shadow/internal/engine/graph"
)

type MermaidGenerator struct {
	graph *graph.Graph
}

func NewMermaidGenerator(g *graph.Graph) *MermaidGenerator {
	return &MermaidGenerator{graph: g}
}

func (m *MermaidGenerator) Generate(cycles [][]string) (string, error) {
	var b strings.Builder
	b.WriteString("flowchart LR\n")

	paths := m.graph.SortedPaths()
	ids := makeIDs(paths)
	ringEdges, ringNodes := cycleEdges(cycles)

	for _, p := range paths {
		n, _ := m.graph.Node(p)
		label := strings.ReplaceAll(fileLabel(n), "\\n", "<br/>")
		b.WriteString(fmt.Sprintf("  %s[\"%s\"]\n", ids[p], escapeLabel(label)))
	}

	linkIdx := 0
	cycleLinks := make([]int, 0)
	for _, e := range m.graph.Edges() {
		if ringEdges.has(e.From, e.To) {
			b.WriteString(fmt.Sprintf("  %s -->|cycle| %s\n", ids[e.From], ids[e.To]))
			cycleLinks = append(cycleLinks, linkIdx)
		} else {
			b.WriteString(fmt.Sprintf("  %s --> %s\n", ids[e.From], ids[e.To]))
		}
		linkIdx++
	}

	if len(ringNodes) > 0 {
		b.WriteString("  classDef cycle fill:#ffe4e1,stroke:#d00,stroke-width:2px\n")
		for _, p := range paths {
			if ringNodes[p] {
				b.WriteString(fmt.Sprintf("  class %s cycle\n", ids[p]))
			}
		}
	}
	for _, idx := range cycleLinks {
		b.WriteString(fmt.Sprintf("  linkStyle %d stroke:#d00,stroke-width:3px\n", idx))
	}

	return b.String(), nil
}
