package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

type ResolvedPaths struct {
	WorkspaceRoot string
	StateDir      string
	SessionDBPath string
}

// ResolvePaths anchors the configured paths. workspace_root is relative to
// cwd, state_dir to the workspace root, and db_path to the state dir.
func ResolvePaths(cfg *Config, cwd string) (ResolvedPaths, error) {
	if strings.TrimSpace(cwd) == "" {
		return ResolvedPaths{}, fmt.Errorf("cwd must not be empty")
	}

	root := ResolveRelative(cwd, cfg.Paths.WorkspaceRoot)
	stateDir := ResolveRelative(root, cfg.Paths.StateDir)
	dbPath := ResolveRelative(stateDir, cfg.Session.DBPath)

	return ResolvedPaths{
		WorkspaceRoot: root,
		StateDir:      stateDir,
		SessionDBPath: dbPath,
	}, nil
}

func ResolveRelative(base, value string) string {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return filepath.Clean(base)
	}
	if filepath.IsAbs(raw) {
		return filepath.Clean(raw)
	}
	return filepath.Clean(filepath.Join(base, raw))
}
