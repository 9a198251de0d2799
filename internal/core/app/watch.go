package app

import (
	"context"
	stderrors "errors"
	"log/slog"

	"shadow/internal/core/errors"
	"shadow/internal/core/ports"
	"shadow/internal/core/watcher"
	"shadow/internal/shared/observability"
	"shadow/internal/shared/util"

	"golang.org/x/sync/errgroup"
)

// Watch builds the graph, then rebuilds it whenever source files under the
// workspace root change, at most once per configured interval. Changes that
// arrive while a rebuild is pending coalesce into it. Watch blocks until
// ctx is done. onRebuild, when set, receives every successful rebuild.
func (a *App) Watch(ctx context.Context, onRebuild func(ports.ScanResult, []string)) error {
	root := a.Paths.WorkspaceRoot
	if _, err := a.BuildDependencyGraph(ctx, root); err != nil {
		return err
	}

	trigger := make(chan []string, 1)
	w, err := watcher.NewWatcher(watcher.Options{
		Debounce:     a.Config.Watch.Debounce,
		ExcludeDirs:  a.Config.Exclude.Dirs,
		ExcludeFiles: a.Config.Exclude.Files,
		Extensions:   a.registry.SupportedExtensions(),
	}, func(paths []string) {
		select {
		case trigger <- paths:
		default:
			// A rebuild is already queued and will rescan everything.
		}
	})
	if err != nil {
		return err
	}

	if err := w.Watch([]string{root}); err != nil {
		_ = w.Close()
		return errors.AddContext(err, errors.CtxOperation, "watch")
	}
	slog.Info("watching workspace", "path", root)

	limiter := util.NewIntervalLimiter(a.Config.Watch.MinRebuildInterval)
	// The initial build consumed the first slot.
	limiter.Allow()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-gctx.Done()
		return w.Close()
	})
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case paths := <-trigger:
				if err := limiter.Wait(gctx); err != nil {
					return nil
				}
				a.rebuild(gctx, root, paths, onRebuild)
			}
		}
	})

	if err := g.Wait(); err != nil && !stderrors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (a *App) rebuild(ctx context.Context, root string, paths []string, onRebuild func(ports.ScanResult, []string)) {
	slog.Debug("rebuilding dependency graph", "count", len(paths))
	result, err := a.BuildDependencyGraph(ctx, root)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		observability.RebuildsTotal.WithLabelValues("error").Inc()
		slog.Warn("rebuild failed, keeping previous graph", "path", root, "error", err)
		return
	}
	observability.RebuildsTotal.WithLabelValues("ok").Inc()
	if onRebuild != nil {
		onRebuild(result, paths)
	}
}
