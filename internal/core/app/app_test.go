package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"shadow/internal/core/config"
	"shadow/internal/core/errors"
	"shadow/internal/core/ports"
	"shadow/internal/engine/diff"
	"shadow/internal/engine/graph"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeWorkspace(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func newTestApp(t *testing.T, files map[string]string) *App {
	t.Helper()
	root := t.TempDir()
	writeWorkspace(t, root, files)

	cfg := config.DefaultConfig()
	cfg.Watch.Debounce = 20 * time.Millisecond
	cfg.Watch.MinRebuildInterval = 0

	a, err := New(cfg, root)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

var chainWorkspace = map[string]string{
	"src/a.ts": "import { b } from './b'\nexport function a() {}\n",
	"src/b.ts": "import { c } from './c'\nexport const b = 1\n",
	"src/c.ts": "export class C {\n}\n",
}

func TestNew_RequiresConfig(t *testing.T) {
	_, err := New(nil, t.TempDir())
	assert.True(t, errors.IsCode(err, errors.CodeValidationError))
}

func TestNew_InvalidExcludePattern(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Exclude.Dirs = []string{"[unterminated"}
	_, err := New(cfg, t.TempDir())
	assert.True(t, errors.IsCode(err, errors.CodeValidationError), "got %v", err)
}

func TestApp_ComputeDiffs(t *testing.T) {
	a := newTestApp(t, nil)
	ctx := context.Background()

	diffs, err := a.ComputeDiffs(ctx, []ports.FileChange{
		{Path: "test.ts", OldContent: "function old(){return 1;}", NewContent: "function old(){return 1;}\nfunction brandNew(){return 2;}"},
		{Path: "same.js", OldContent: "class A {\n", NewContent: "class A {\n"},
	})
	require.NoError(t, err)
	require.Len(t, diffs, 2)

	require.Len(t, diffs[0].Changes, 1)
	assert.Equal(t, diff.Added, diffs[0].Changes[0].Type)
	assert.Equal(t, "brandNew", diffs[0].Changes[0].Name)
	assert.Empty(t, diffs[1].Changes)

	// No session was ever started, so no state is created on disk.
	_, statErr := os.Stat(a.Paths.SessionDBPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestApp_ComputeDiffsAbortsOnUnsupported(t *testing.T) {
	a := newTestApp(t, nil)

	diffs, err := a.ComputeDiffs(context.Background(), []ports.FileChange{
		{Path: "ok.ts", OldContent: "", NewContent: "function f() {}"},
		{Path: "main.rs", OldContent: "", NewContent: "fn main() {}"},
		{Path: "later.ts", OldContent: "", NewContent: ""},
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotSupported), "got %v", err)
	assert.Nil(t, diffs)
}

func TestApp_ConfiguredExtensionsOnly(t *testing.T) {
	root := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Scanner.Extensions = []string{"ts"}
	a, err := New(cfg, root)
	require.NoError(t, err)

	_, err = a.ComputeDiffs(context.Background(), []ports.FileChange{{Path: "x.js"}})
	assert.True(t, errors.IsCode(err, errors.CodeNotSupported), "got %v", err)
	assert.Equal(t, []string{"ts"}, a.Registry().SupportedExtensions())
}

func TestApp_AnalyzeBeforeBuild(t *testing.T) {
	a := newTestApp(t, chainWorkspace)

	_, err := a.AnalyzeImpact(context.Background(), []string{"src/c.ts"})
	assert.True(t, errors.IsCode(err, errors.CodeGraphNotBuilt), "got %v", err)

	_, err = a.CurrentGraph()
	assert.True(t, errors.IsCode(err, errors.CodeGraphNotBuilt))
}

func TestApp_BuildAndAnalyze(t *testing.T) {
	a := newTestApp(t, chainWorkspace)
	ctx := context.Background()

	result, err := a.BuildDependencyGraph(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, a.Paths.WorkspaceRoot, result.Root)
	assert.Equal(t, 3, result.Files)
	assert.Equal(t, 2, result.Edges)
	assert.Zero(t, result.Skipped)

	impact, err := a.AnalyzeImpact(ctx, []string{"src/c.ts"})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/c.ts"}, impact.ChangedFiles)
	assert.Equal(t, []string{"src/a.ts", "src/b.ts"}, impact.ImpactedFiles)
	assert.Equal(t, graph.RiskMedium, impact.RiskLevel)

	leaf, err := a.AnalyzeImpact(ctx, []string{"src/a.ts"})
	require.NoError(t, err)
	assert.Empty(t, leaf.ImpactedFiles)
	assert.Equal(t, graph.RiskLow, leaf.RiskLevel)
}

func TestApp_RebuildReplacesSnapshot(t *testing.T) {
	a := newTestApp(t, chainWorkspace)
	ctx := context.Background()

	_, err := a.BuildDependencyGraph(ctx, "")
	require.NoError(t, err)
	before, err := a.CurrentGraph()
	require.NoError(t, err)

	writeWorkspace(t, a.Paths.WorkspaceRoot, map[string]string{"src/d.ts": "import { a } from './a'\n"})
	_, err = a.BuildDependencyGraph(ctx, "")
	require.NoError(t, err)
	after, err := a.CurrentGraph()
	require.NoError(t, err)

	assert.Equal(t, 3, before.NodeCount(), "published graphs are never mutated")
	assert.Equal(t, 4, after.NodeCount())
}

func TestApp_FailedBuildKeepsPreviousGraph(t *testing.T) {
	a := newTestApp(t, chainWorkspace)
	ctx := context.Background()

	_, err := a.BuildDependencyGraph(ctx, "")
	require.NoError(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = a.BuildDependencyGraph(cancelled, "")
	require.Error(t, err)

	g, err := a.CurrentGraph()
	require.NoError(t, err)
	assert.Equal(t, 3, g.NodeCount())
}

func TestApp_AnalyzeImpactFromPatch(t *testing.T) {
	a := newTestApp(t, chainWorkspace)
	ctx := context.Background()
	_, err := a.BuildDependencyGraph(ctx, "")
	require.NoError(t, err)

	patchText := "diff --git a/src/b.ts b/src/b.ts\n" +
		"--- a/src/b.ts\n" +
		"+++ b/src/b.ts\n" +
		"@@ -1,2 +1,2 @@\n" +
		" import { c } from './c'\n" +
		"-export const b = 1\n" +
		"+export const b = 2\n"

	impact, err := a.AnalyzeImpactFromPatch(ctx, patchText)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/b.ts"}, impact.ChangedFiles)
	assert.Equal(t, []string{"src/a.ts"}, impact.ImpactedFiles)
	assert.Equal(t, graph.RiskLow, impact.RiskLevel)

	_, err = a.AnalyzeImpactFromPatch(ctx, "--- a/x.ts\n+++ b/x.ts\n@@ -one +two @@\n")
	assert.True(t, errors.IsCode(err, errors.CodeValidationError), "got %v", err)
}

func TestApp_CyclesAndChains(t *testing.T) {
	a := newTestApp(t, map[string]string{
		"a.ts": "import { b } from './b'\n",
		"b.ts": "import { a } from './a'\nimport { c } from './c'\n",
		"c.ts": "export const c = 1\n",
	})
	ctx := context.Background()

	_, err := a.DetectCycles(ctx)
	assert.True(t, errors.IsCode(err, errors.CodeGraphNotBuilt))

	_, err = a.BuildDependencyGraph(ctx, "")
	require.NoError(t, err)

	cycles, err := a.DetectCycles(ctx)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a.ts", "b.ts"}}, cycles)

	chain, ok, err := a.TraceImportChain(ctx, "a.ts", "c.ts")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"a.ts", "b.ts", "c.ts"}, chain)

	_, ok, err = a.TraceImportChain(ctx, "c.ts", "a.ts")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = a.TraceImportChain(ctx, "a.ts", "missing.ts")
	assert.True(t, errors.IsCode(err, errors.CodeNotFound))
}

func TestApp_Health(t *testing.T) {
	a := newTestApp(t, chainWorkspace)
	ctx := context.Background()

	body, ok := a.Health(ctx)
	assert.False(t, ok)
	assert.Equal(t, "down", body.(HealthStatus).Status)

	_, err := a.BuildDependencyGraph(ctx, "")
	require.NoError(t, err)

	body, ok = a.Health(ctx)
	assert.True(t, ok)
	status := body.(HealthStatus)
	assert.Equal(t, "up", status.Status)
	assert.Equal(t, "ok (3 files, 2 edges)", status.Components["graph"])
}
