package formats

import (
	"fmt"
	"path"
	"strings"
	"unicode"

	"shadow/internal/engine/graph"
)

func fileLabel(n *graph.Node) string {
	if n == nil {
		return ""
	}
	return fmt.Sprintf("%s\\n(%d exports, %d imports)", path.Base(n.FilePath), len(n.Exports), len(n.Imports))
}

func sanitizeID(name string) string {
	if name == "" {
		return "m"
	}
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteRune('_')
	}
	out := b.String()
	if unicode.IsDigit(rune(out[0])) {
		return "m_" + out
	}
	return out
}

// makeIDs assigns each name a unique identifier, suffixing collisions in
// input order.
func makeIDs(names []string) map[string]string {
	ids := make(map[string]string, len(names))
	used := make(map[string]int, len(names))
	for _, name := range names {
		base := sanitizeID(name)
		idx := used[base]
		used[base] = idx + 1
		if idx == 0 {
			ids[name] = base
			continue
		}
		ids[name] = fmt.Sprintf("%s_%d", base, idx+1)
	}
	return ids
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

type edgeSet map[string]map[string]bool

func (s edgeSet) has(from, to string) bool {
	return s[from] != nil && s[from][to]
}

// cycleEdges returns the closing edges of every cycle, treating each cycle
// as a ring.
func cycleEdges(cycles [][]string) (edgeSet, map[string]bool) {
	edges := make(edgeSet)
	nodes := make(map[string]bool)
	for _, cycle := range cycles {
		for i := range cycle {
			from := cycle[i]
			to := cycle[(i+1)%len(cycle)]
			if edges[from] == nil {
				edges[from] = make(map[string]bool)
			}
			edges[from][to] = true
			nodes[from] = true
		}
	}
	return edges, nodes
}
