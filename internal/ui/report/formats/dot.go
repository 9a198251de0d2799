// # internal/ui/report/formats/dot.go
package formats

import (
	"fmt"
	"strings"

	"shadow/internal/engine/graph"
)

type DOTGenerator struct {
	graph *graph.Graph
}

func NewDOTGenerator(g *graph.Graph) *DOTGenerator {
	return &DOTGenerator{graph: g}
}

// Generate renders the file graph. Files and edges on a cycle are drawn red.
func (d *DOTGenerator) Generate(cycles [][]string) (string, error) {
	var buf strings.Builder

	buf.WriteString("digraph dependencies {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=rounded, fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=8, penwidth=1.2];\n")
	buf.WriteString("  overlap=false;\n\n")

	ringEdges, ringNodes := cycleEdges(cycles)

	for _, p := range d.graph.SortedPaths() {
		n, _ := d.graph.Node(p)
		label := escapeLabel(fileLabel(n))
		if ringNodes[p] {
			buf.WriteString(fmt.Sprintf("  \"%s\" [label=\"%s\", style=\"rounded,filled\", fillcolor=\"mistyrose\", color=\"red\", penwidth=2.0];\n", p, label))
			continue
		}
		buf.WriteString(fmt.Sprintf("  \"%s\" [label=\"%s\", color=\"darkslategrey\"];\n", p, label))
	}
	buf.WriteString("\n")

	for _, e := range d.graph.Edges() {
		if ringEdges.has(e.From, e.To) {
			buf.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\" [color=\"red\", penwidth=3.0, label=\"CYCLE\"];\n", e.From, e.To))
			continue
		}
		buf.WriteString(fmt.Sprintf("  \"%s\" -> \"%s\" [color=\"forestgreen\"];\n", e.From, e.To))
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}
