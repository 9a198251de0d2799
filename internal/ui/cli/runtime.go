package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"shadow/internal/core/app"
	"shadow/internal/core/config"
	"shadow/internal/shared/observability"
	"shadow/internal/shared/util"
	"shadow/internal/ui/report"

	"github.com/spf13/cobra"
)

// runtime is the per-invocation wiring shared by every subcommand.
type runtime struct {
	cfg     *config.Config
	app     *app.App
	printer *report.Printer
	cwd     string
}

// withRuntime loads config, builds the app and printer, and runs fn with
// tracing installed for the duration of the command.
func withRuntime(cmd *cobra.Command, opts *globalOptions, fn func(ctx context.Context, rt *runtime) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("detect working directory: %w", err)
	}

	cfg, err := loadConfig(opts, cwd)
	if err != nil {
		return err
	}
	if strings.TrimSpace(opts.root) != "" {
		cfg.Paths.WorkspaceRoot = opts.root
	}

	formatName := cfg.Output.Format
	if opts.format != "" {
		formatName = opts.format
	}
	format, err := report.ParseFormat(formatName)
	if err != nil {
		return err
	}
	colorMode := cfg.Output.Color
	if opts.color != "" {
		colorMode = opts.color
	}

	a, err := app.New(cfg, cwd)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			slog.Warn("failed to close app", "error", err)
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	shutdown, err := observability.InitTracing(ctx, cfg.Observability.OTLPEndpoint, cfg.Observability.ServiceName)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Warn("failed to flush traces", "error", err)
		}
	}()

	return fn(ctx, &runtime{
		cfg:     cfg,
		app:     a,
		printer: report.NewPrinter(cmd.OutOrStdout(), format, colorMode),
		cwd:     cwd,
	})
}

// loadConfig reads --config when given, or ./shadow.toml when it exists.
func loadConfig(opts *globalOptions, cwd string) (*config.Config, error) {
	path := opts.configPath
	required := path != ""
	if !required {
		path = filepath.Join(cwd, config.DefaultConfigFile)
	}
	cfg, err := config.LoadOrDefault(path, required)
	if err != nil {
		return nil, err
	}
	slog.Debug("config loaded", "path", path, "required", required)
	return cfg, nil
}

// workspacePath maps a command-line path onto the graph's key space:
// absolute or cwd-relative paths inside the workspace become
// workspace-relative forward-slash paths; anything else is kept as typed.
func (rt *runtime) workspacePath(p string) string {
	root := rt.app.Paths.WorkspaceRoot
	candidate := p
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(rt.cwd, candidate)
	}
	if rel, ok := util.RelativeSlashPath(root, candidate); ok && rel != "" && rel != "." {
		return rel
	}
	return filepath.ToSlash(p)
}
