package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"shadow/internal/core/errors"

	"github.com/BurntSushi/toml"
)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeValidationError, "decode config"), errors.CtxPath, path)
	}

	applyDefaults(&cfg)
	ApplyEnvOverrides(&cfg)
	normalize(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, errors.AddContext(err, errors.CtxPath, path)
	}
	return &cfg, nil
}

// LoadOrDefault loads path, falling back to defaults when the file does not
// exist and required is false.
func LoadOrDefault(path string, required bool) (*Config, error) {
	cfg, err := Load(path)
	if err == nil {
		return cfg, nil
	}
	if !required && stderrors.Is(err, fs.ErrNotExist) {
		cfg = DefaultConfig()
		ApplyEnvOverrides(cfg)
		normalize(cfg)
		if err := validate(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return nil, err
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = currentVersion
	}

	if strings.TrimSpace(cfg.Paths.WorkspaceRoot) == "" {
		cfg.Paths.WorkspaceRoot = "."
	}
	if strings.TrimSpace(cfg.Paths.StateDir) == "" {
		cfg.Paths.StateDir = ".shadow"
	}

	if len(cfg.Scanner.Extensions) == 0 {
		cfg.Scanner.Extensions = []string{"ts", "js", "tsx", "jsx"}
	}

	if cfg.Exclude.Dirs == nil {
		cfg.Exclude.Dirs = []string{".git", "node_modules", ".shadow"}
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if cfg.Watch.MinRebuildInterval == 0 {
		cfg.Watch.MinRebuildInterval = 2 * time.Second
	}

	if strings.TrimSpace(cfg.Session.DBPath) == "" {
		cfg.Session.DBPath = "session.db"
	}
	if cfg.Session.BusyTimeout <= 0 {
		cfg.Session.BusyTimeout = 5 * time.Second
	}

	if strings.TrimSpace(cfg.Observability.ServiceName) == "" {
		cfg.Observability.ServiceName = "shadow"
	}

	if strings.TrimSpace(cfg.Output.Format) == "" {
		cfg.Output.Format = "text"
	}
	if strings.TrimSpace(cfg.Output.Color) == "" {
		cfg.Output.Color = "auto"
	}
}

func normalize(cfg *Config) {
	exts := make([]string, 0, len(cfg.Scanner.Extensions))
	seen := make(map[string]bool, len(cfg.Scanner.Extensions))
	for _, ext := range cfg.Scanner.Extensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext == "" || seen[ext] {
			continue
		}
		seen[ext] = true
		exts = append(exts, ext)
	}
	cfg.Scanner.Extensions = exts

	cfg.Output.Format = strings.ToLower(strings.TrimSpace(cfg.Output.Format))
	cfg.Output.Color = strings.ToLower(strings.TrimSpace(cfg.Output.Color))
}
