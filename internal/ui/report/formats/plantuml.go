package formats

import (
	"fmt"
	"strings"

	"shadow/internal/engine/graph"
)

type PlantUMLGenerator struct {
	graph *graph.Graph
}

func NewPlantUMLGenerator(g *graph.Graph) *PlantUMLGenerator {
	return &PlantUMLGenerator{graph: g}
}

func (p *PlantUMLGenerator) Generate(cycles [][]string) (string, error) {
	var b strings.Builder
	b.WriteString("@startuml\n")
	b.WriteString("left to right direction\n")
	b.WriteString("skinparam componentStyle rectangle\n\n")

	paths := p.graph.SortedPaths()
	ids := makeIDs(paths)
	ringEdges, ringNodes := cycleEdges(cycles)

	for _, path := range paths {
		if ringNodes[path] {
			b.WriteString(fmt.Sprintf("component \"%s\" as %s #MistyRose\n", escapeLabel(path), ids[path]))
			continue
		}
		b.WriteString(fmt.Sprintf("component \"%s\" as %s\n", escapeLabel(path), ids[path]))
	}
	b.WriteString("\n")

	for _, e := range p.graph.Edges() {
		if ringEdges.has(e.From, e.To) {
			b.WriteString(fmt.Sprintf("%s -[#red,bold]-> %s : cycle\n", ids[e.From], ids[e.To]))
			continue
		}
		b.WriteString(fmt.Sprintf("%s --> %s\n", ids[e.From], ids[e.To]))
	}

	b.WriteString("@enduml\n")
	return b.String(), nil
}
