package app

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"shadow/internal/core/config"
	"shadow/internal/core/errors"
	"shadow/internal/core/ports"
	"shadow/internal/data/session"
	"shadow/internal/engine/diff"
	"shadow/internal/engine/graph"
	"shadow/internal/engine/parser"
)

// App owns the diff engine, the graph builder and the published graph
// snapshot for one workspace.
type App struct {
	Config *config.Config
	Paths  config.ResolvedPaths

	registry *parser.Registry
	differ   *diff.Engine
	builder  *graph.Builder
	snapshot *graph.Snapshot

	sessionMu sync.Mutex
	sessions  ports.SessionStore
	openStore func(path string) (ports.SessionStore, error)
}

var (
	_ ports.AnalysisService = (*App)(nil)
	_ ports.SessionService  = (*App)(nil)
)

// New wires an App for cfg with relative paths anchored at cwd. The session
// store is opened on first use.
func New(cfg *config.Config, cwd string) (*App, error) {
	if cfg == nil {
		return nil, errors.New(errors.CodeValidationError, "config is required")
	}
	paths, err := config.ResolvePaths(cfg, cwd)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, "resolve paths")
	}

	registry := parser.NewRegistry()
	registry.RegisterExtensions(parser.NewScriptScanner(), cfg.Scanner.Extensions...)

	builder, err := graph.NewBuilder(registry, graph.BuilderOptions{
		ExcludeDirs:  cfg.Exclude.Dirs,
		ExcludeFiles: cfg.Exclude.Files,
		UseGitignore: cfg.Exclude.Gitignore,
	})
	if err != nil {
		return nil, err
	}

	busyTimeout := cfg.Session.BusyTimeout
	return &App{
		Config:   cfg,
		Paths:    paths,
		registry: registry,
		differ:   diff.NewEngine(registry),
		builder:  builder,
		snapshot: graph.NewSnapshot(),
		openStore: func(path string) (ports.SessionStore, error) {
			return session.Open(path, busyTimeout)
		},
	}, nil
}

// WithSessionStore replaces the session store, closing any store already open.
func (a *App) WithSessionStore(store ports.SessionStore) *App {
	a.sessionMu.Lock()
	defer a.sessionMu.Unlock()
	if a.sessions != nil {
		_ = a.sessions.Close()
	}
	a.sessions = store
	return a
}

func (a *App) Registry() *parser.Registry {
	return a.registry
}

func (a *App) Close() error {
	a.sessionMu.Lock()
	defer a.sessionMu.Unlock()
	if a.sessions == nil {
		return nil
	}
	err := a.sessions.Close()
	a.sessions = nil
	return err
}

// sessionStore returns the session store, opening it when create is set or
// the database file already exists. It returns nil when sessions are
// disabled or there is nothing to open.
func (a *App) sessionStore(create bool) (ports.SessionStore, error) {
	if !a.Config.Session.IsEnabled() {
		return nil, nil
	}

	a.sessionMu.Lock()
	defer a.sessionMu.Unlock()
	if a.sessions != nil {
		return a.sessions, nil
	}

	if !create {
		if _, err := os.Stat(a.Paths.SessionDBPath); err != nil {
			if stderrors.Is(err, fs.ErrNotExist) {
				return nil, nil
			}
			return nil, errors.IOFailure(a.Paths.SessionDBPath, err)
		}
	}

	store, err := a.openStore(a.Paths.SessionDBPath)
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxPath, a.Paths.SessionDBPath)
	}
	slog.Debug("session store opened", "path", a.Paths.SessionDBPath)
	a.sessions = store
	return store, nil
}

func sessionsDisabled() error {
	return errors.New(errors.CodeNotSupported, fmt.Sprintf("sessions are disabled; set [session] enabled = true in %s", config.DefaultConfigFile))
}
