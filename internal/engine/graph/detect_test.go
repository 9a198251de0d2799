package graph

import (
	"reflect"
	"testing"
)

func TestDetectCycles(t *testing.T) {
	g := buildGraph(map[string][]string{
		"a.ts": {"b.ts"},
		"b.ts": {"c.ts"},
		"c.ts": {"a.ts"},
		"d.ts": {"a.ts"},
	})

	cycles := g.DetectCycles()
	if len(cycles) != 1 {
		t.Fatalf("Expected 1 cycle, got %d: %v", len(cycles), cycles)
	}
	if !reflect.DeepEqual(cycles[0], []string{"a.ts", "b.ts", "c.ts"}) {
		t.Errorf("Unexpected cycle %v", cycles[0])
	}
}

func TestDetectCycles_SelfImport(t *testing.T) {
	g := buildGraph(map[string][]string{"a.ts": {"a.ts"}})
	cycles := g.DetectCycles()
	if len(cycles) != 1 || !reflect.DeepEqual(cycles[0], []string{"a.ts"}) {
		t.Errorf("Expected self-import cycle, got %v", cycles)
	}
}

func TestDetectCycles_Acyclic(t *testing.T) {
	g := buildGraph(map[string][]string{
		"a.ts": nil,
		"b.ts": {"a.ts"},
		"c.ts": {"a.ts", "b.ts"},
	})
	if cycles := g.DetectCycles(); len(cycles) != 0 {
		t.Errorf("Expected no cycles, got %v", cycles)
	}
}

func TestFindImportChain(t *testing.T) {
	g := buildGraph(map[string][]string{
		"app.ts":  {"ui.ts", "db.ts"},
		"ui.ts":   {"util.ts"},
		"db.ts":   {"util.ts"},
		"util.ts": nil,
		"lone.ts": nil,
	})

	chain, ok := g.FindImportChain("app.ts", "util.ts")
	if !ok {
		t.Fatal("Expected a chain from app.ts to util.ts")
	}
	if !reflect.DeepEqual(chain, []string{"app.ts", "ui.ts", "util.ts"}) {
		t.Errorf("Unexpected chain %v", chain)
	}

	if chain, ok := g.FindImportChain("util.ts", "util.ts"); !ok || len(chain) != 1 {
		t.Errorf("Expected trivial chain, got %v", chain)
	}
	if _, ok := g.FindImportChain("util.ts", "app.ts"); ok {
		t.Error("Expected no chain against import direction")
	}
	if _, ok := g.FindImportChain("app.ts", "lone.ts"); ok {
		t.Error("Expected no chain to an unconnected file")
	}
	if _, ok := g.FindImportChain("ghost.ts", "util.ts"); ok {
		t.Error("Expected no chain from an unknown file")
	}
}
