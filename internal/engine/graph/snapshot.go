package graph

import (
	"sync/atomic"

	"shadow/internal/core/errors"
	"shadow/internal/shared/observability"
)

// Snapshot holds the most recently published graph. Rebuilds construct a
// fresh Graph and swap it in, so readers only ever see complete graphs.
type Snapshot struct {
	current atomic.Pointer[Graph]
}

func NewSnapshot() *Snapshot {
	return &Snapshot{}
}

func (s *Snapshot) Publish(g *Graph) {
	if g == nil {
		return
	}
	s.current.Store(g)
	observability.GraphNodes.Set(float64(g.NodeCount()))
	observability.GraphEdges.Set(float64(g.EdgeCount()))
}

func (s *Snapshot) Current() (*Graph, bool) {
	g := s.current.Load()
	return g, g != nil
}

// Analyze runs impact analysis against the published graph.
func (s *Snapshot) Analyze(changed []string) (ImpactAnalysis, error) {
	g, ok := s.Current()
	if !ok {
		return ImpactAnalysis{}, errors.GraphNotBuilt()
	}
	result := g.Analyze(changed)
	observability.ImpactQueriesTotal.WithLabelValues(string(result.RiskLevel)).Inc()
	return result, nil
}
