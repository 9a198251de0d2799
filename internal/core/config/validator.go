package config

import (
	"fmt"
	"strings"

	"shadow/internal/core/errors"

	"github.com/gobwas/glob"
)

var (
	supportedExtensions = map[string]bool{"ts": true, "js": true, "tsx": true, "jsx": true}
	supportedFormats    = map[string]bool{"text": true, "json": true, "yaml": true, "dot": true, "mermaid": true, "plantuml": true, "tsv": true}
	supportedColors     = map[string]bool{"auto": true, "always": true, "never": true}
)

func validate(cfg *Config) error {
	validators := []func(*Config) error{
		validateVersion,
		validateScanner,
		validateExclude,
		validateWatch,
		validateSession,
		validateOutput,
	}
	for _, v := range validators {
		if err := v(cfg); err != nil {
			return errors.Wrap(err, errors.CodeValidationError, "invalid config")
		}
	}
	return nil
}

func validateVersion(cfg *Config) error {
	if cfg.Version < 1 {
		return fmt.Errorf("version must be >= 1, got %d", cfg.Version)
	}
	if cfg.Version > currentVersion {
		return fmt.Errorf("unsupported config version %d; supported version is %d", cfg.Version, currentVersion)
	}
	return nil
}

func validateScanner(cfg *Config) error {
	if len(cfg.Scanner.Extensions) == 0 {
		return fmt.Errorf("scanner.extensions must not be empty")
	}
	for _, ext := range cfg.Scanner.Extensions {
		if !supportedExtensions[ext] {
			return fmt.Errorf("scanner.extensions: %q has no scanner; supported: ts, js, tsx, jsx", ext)
		}
	}
	return nil
}

func validateExclude(cfg *Config) error {
	for i, p := range cfg.Exclude.Dirs {
		if _, err := glob.Compile(p); err != nil {
			return fmt.Errorf("exclude.dirs[%d]: invalid pattern %q: %w", i, p, err)
		}
	}
	for i, p := range cfg.Exclude.Files {
		if _, err := glob.Compile(p); err != nil {
			return fmt.Errorf("exclude.files[%d]: invalid pattern %q: %w", i, p, err)
		}
	}
	return nil
}

func validateWatch(cfg *Config) error {
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	if cfg.Watch.MinRebuildInterval < 0 {
		return fmt.Errorf("watch.min_rebuild_interval must not be negative")
	}
	return nil
}

func validateSession(cfg *Config) error {
	if strings.TrimSpace(cfg.Session.DBPath) == "" {
		return fmt.Errorf("session.db_path must not be empty")
	}
	return nil
}

func validateOutput(cfg *Config) error {
	if !supportedFormats[cfg.Output.Format] {
		return fmt.Errorf("output.format must be one of: text, json, yaml, dot, mermaid, plantuml, tsv; got %q", cfg.Output.Format)
	}
	if !supportedColors[cfg.Output.Color] {
		return fmt.Errorf("output.color must be one of: auto, always, never; got %q", cfg.Output.Color)
	}
	return nil
}
