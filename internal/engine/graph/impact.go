package graph

import (
	"sort"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

type ImpactAnalysis struct {
	ChangedFiles  []string  `json:"changed_files" yaml:"changed_files"`
	ImpactedFiles []string  `json:"impacted_files" yaml:"impacted_files"`
	RiskLevel     RiskLevel `json:"risk_level" yaml:"risk_level"`
}

// RiskFor maps the number of changed plus impacted files to a risk tier.
func RiskFor(total int) RiskLevel {
	switch {
	case total <= 2:
		return RiskLow
	case total <= 7:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// Analyze walks importers breadth-first from every changed file. The
// impacted set never contains a changed file, even through a cycle.
// changed is echoed back unmodified, duplicates included.
func (g *Graph) Analyze(changed []string) ImpactAnalysis {
	seeds := make(map[string]bool, len(changed))
	reached := make(map[string]bool, len(changed))
	queue := make([]string, 0, len(changed))
	for _, path := range changed {
		seeds[path] = true
		if reached[path] {
			continue
		}
		reached[path] = true
		queue = append(queue, path)
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		// O(E) per pop; reached only grows, so the queue drains.
		for from, deps := range g.edges {
			if reached[from] || !containsPath(deps, curr) {
				continue
			}
			reached[from] = true
			queue = append(queue, from)
		}
	}

	impacted := make([]string, 0, len(reached))
	for path := range reached {
		if !seeds[path] {
			impacted = append(impacted, path)
		}
	}
	sort.Strings(impacted)

	echoed := append(make([]string, 0, len(changed)), changed...)
	return ImpactAnalysis{
		ChangedFiles:  echoed,
		ImpactedFiles: impacted,
		RiskLevel:     RiskFor(len(echoed) + len(impacted)),
	}
}

func containsPath(paths []string, target string) bool {
	for _, p := range paths {
		if p == target {
			return true
		}
	}
	return false
}
