// # internal/ui/report/formats/tsv.go
package formats

import (
	"fmt"
	"strings"

	"shadow/internal/engine/graph"
)

type TSVGenerator struct {
	graph *graph.Graph
}

func NewTSVGenerator(g *graph.Graph) *TSVGenerator {
	return &TSVGenerator{graph: g}
}

// Generate writes one row per edge, tagging edges that close a cycle.
func (t *TSVGenerator) Generate(cycles [][]string) (string, error) {
	var buf strings.Builder
	ringEdges, _ := cycleEdges(cycles)

	buf.WriteString("From\tTo\tCycle\n")
	for _, e := range t.graph.Edges() {
		buf.WriteString(fmt.Sprintf("%s\t%s\t%t\n", e.From, e.To, ringEdges.has(e.From, e.To)))
	}
	return buf.String(), nil
}

// GenerateImpact writes one row per changed and impacted file.
func (t *TSVGenerator) GenerateImpact(a graph.ImpactAnalysis) (string, error) {
	var buf strings.Builder

	buf.WriteString("Role\tFile\tRisk\n")
	for _, f := range a.ChangedFiles {
		buf.WriteString(fmt.Sprintf("changed\t%s\t%s\n", f, a.RiskLevel))
	}
	for _, f := range a.ImpactedFiles {
		buf.WriteString(fmt.Sprintf("impacted\t%s\t%s\n", f, a.RiskLevel))
	}
	return buf.String(), nil
}
