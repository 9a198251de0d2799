package app

import (
	"context"
	"log/slog"

	"shadow/internal/core/errors"
	"shadow/internal/core/ports"
	"shadow/internal/data/patch"
	"shadow/internal/engine/diff"
	"shadow/internal/engine/graph"
	"shadow/internal/shared/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ComputeDiffs diffs each change in order. The first failure aborts the
// batch and no diffs are returned. Successful batches are counted against
// the active session, if one exists.
func (a *App) ComputeDiffs(ctx context.Context, changes []ports.FileChange) ([]diff.FileDiff, error) {
	ctx, span := observability.Tracer.Start(ctx, "App.ComputeDiffs", trace.WithAttributes(attribute.Int("files", len(changes))))
	defer span.End()

	diffs := make([]diff.FileDiff, 0, len(changes))
	for _, c := range changes {
		if err := ctx.Err(); err != nil {
			return nil, recordError(span, err)
		}
		observability.DiffRequestsTotal.Inc()
		fd, err := a.differ.Compute(c.Path, c.OldContent, c.NewContent)
		if err != nil {
			return nil, recordError(span, err)
		}
		diffs = append(diffs, fd)
	}

	store, err := a.sessionStore(false)
	if err != nil {
		slog.Warn("session store unavailable, diff count not recorded", "error", err)
	} else if store != nil {
		if err := store.IncrementDiffCount(ctx, len(diffs)); err != nil {
			slog.Warn("failed to record diff count", "count", len(diffs), "error", err)
		}
	}

	slog.Debug("diffs computed", "count", len(diffs))
	return diffs, nil
}

// BuildDependencyGraph scans root, or the configured workspace root when
// root is empty, and publishes the result. A failed build leaves the
// previous graph in place.
func (a *App) BuildDependencyGraph(ctx context.Context, root string) (ports.ScanResult, error) {
	if root == "" {
		root = a.Paths.WorkspaceRoot
	}
	ctx, span := observability.Tracer.Start(ctx, "App.BuildDependencyGraph", trace.WithAttributes(attribute.String("root", root)))
	defer span.End()

	g, stats, err := a.builder.Build(ctx, root)
	if err != nil {
		return ports.ScanResult{}, recordError(span, errors.AddContext(err, errors.CtxOperation, "build_graph"))
	}
	a.snapshot.Publish(g)

	result := ports.ScanResult{
		Root:     root,
		Files:    stats.Files,
		Edges:    g.EdgeCount(),
		Skipped:  stats.Skipped,
		Duration: stats.Duration,
	}
	span.SetAttributes(attribute.Int("files", result.Files), attribute.Int("edges", result.Edges))
	slog.Info("dependency graph built", "path", root, "files", result.Files, "edges", result.Edges, "skipped", result.Skipped)
	return result, nil
}

// AnalyzeImpact queries the published graph. It never builds on demand.
func (a *App) AnalyzeImpact(ctx context.Context, changed []string) (graph.ImpactAnalysis, error) {
	_, span := observability.Tracer.Start(ctx, "App.AnalyzeImpact", trace.WithAttributes(attribute.Int("changed", len(changed))))
	defer span.End()

	result, err := a.snapshot.Analyze(changed)
	if err != nil {
		return graph.ImpactAnalysis{}, recordError(span, err)
	}
	span.SetAttributes(attribute.String("risk", string(result.RiskLevel)), attribute.Int("impacted", len(result.ImpactedFiles)))
	return result, nil
}

// AnalyzeImpactFromPatch derives the changed files from a unified diff.
func (a *App) AnalyzeImpactFromPatch(ctx context.Context, patchText string) (graph.ImpactAnalysis, error) {
	changed, err := patch.ChangedFiles(patchText)
	if err != nil {
		return graph.ImpactAnalysis{}, err
	}
	slog.Debug("patch parsed", "count", len(changed))
	return a.AnalyzeImpact(ctx, changed)
}

// CurrentGraph returns the published graph.
func (a *App) CurrentGraph() (*graph.Graph, error) {
	g, ok := a.snapshot.Current()
	if !ok {
		return nil, errors.GraphNotBuilt()
	}
	return g, nil
}

func (a *App) DetectCycles(ctx context.Context) ([][]string, error) {
	_, span := observability.Tracer.Start(ctx, "App.DetectCycles")
	defer span.End()

	g, err := a.CurrentGraph()
	if err != nil {
		return nil, recordError(span, err)
	}
	cycles := g.DetectCycles()
	span.SetAttributes(attribute.Int("cycles", len(cycles)))
	return cycles, nil
}

// TraceImportChain returns the shortest dependency path between two files.
func (a *App) TraceImportChain(ctx context.Context, from, to string) ([]string, bool, error) {
	_, span := observability.Tracer.Start(ctx, "App.TraceImportChain")
	defer span.End()

	g, err := a.CurrentGraph()
	if err != nil {
		return nil, false, recordError(span, err)
	}
	for _, p := range []string{from, to} {
		if !g.HasNode(p) {
			return nil, false, recordError(span, errors.AddContext(
				errors.New(errors.CodeNotFound, "file is not in the dependency graph"), errors.CtxPath, p))
		}
	}
	chain, ok := g.FindImportChain(from, to)
	return chain, ok, nil
}

func recordError(span trace.Span, err error) error {
	if code := errors.CodeOf(err); code != "" {
		span.SetAttributes(attribute.String("error.code", string(code)))
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
