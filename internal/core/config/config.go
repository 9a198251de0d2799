package config

import (
	"time"
)

const (
	DefaultConfigFile = "shadow.toml"
	currentVersion    = 1
)

type Config struct {
	Version       int           `toml:"version"`
	Paths         Paths         `toml:"paths"`
	Scanner       Scanner       `toml:"scanner"`
	Exclude       Exclude       `toml:"exclude"`
	Watch         Watch         `toml:"watch"`
	Session       Session       `toml:"session"`
	Observability Observability `toml:"observability"`
	Output        Output        `toml:"output"`
}

type Paths struct {
	WorkspaceRoot string `toml:"workspace_root"`
	StateDir      string `toml:"state_dir"` // relative to workspace_root unless absolute
}

type Scanner struct {
	Extensions []string `toml:"extensions"`
}

type Exclude struct {
	Dirs      []string `toml:"dirs"`
	Files     []string `toml:"files"`
	Gitignore bool     `toml:"gitignore"`
}

type Watch struct {
	Debounce           time.Duration `toml:"debounce"`
	MinRebuildInterval time.Duration `toml:"min_rebuild_interval"`
}

type Session struct {
	Enabled     *bool         `toml:"enabled"`
	DBPath      string        `toml:"db_path"` // relative to state_dir unless absolute
	BusyTimeout time.Duration `toml:"busy_timeout"`
}

func (s Session) IsEnabled() bool {
	if s.Enabled == nil {
		return true
	}
	return *s.Enabled
}

type Observability struct {
	MetricsAddr  string `toml:"metrics_addr"`
	OTLPEndpoint string `toml:"otlp_endpoint"`
	ServiceName  string `toml:"service_name"`
}

type Output struct {
	Format string `toml:"format"`
	Color  string `toml:"color"` // auto, always, never
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}
