package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: SHADOW_[SECTION]_[KEY] (e.g., SHADOW_WATCH_DEBOUNCE).
func ApplyEnvOverrides(cfg *Config) {
	// Paths
	setEnvString(&cfg.Paths.WorkspaceRoot, "SHADOW_PATHS_WORKSPACE_ROOT")
	setEnvString(&cfg.Paths.StateDir, "SHADOW_PATHS_STATE_DIR")

	// Exclude
	setEnvBool(&cfg.Exclude.Gitignore, "SHADOW_EXCLUDE_GITIGNORE")

	// Watch
	setEnvDuration(&cfg.Watch.Debounce, "SHADOW_WATCH_DEBOUNCE")
	setEnvDuration(&cfg.Watch.MinRebuildInterval, "SHADOW_WATCH_MIN_REBUILD_INTERVAL")

	// Session
	if val, ok := os.LookupEnv("SHADOW_SESSION_ENABLED"); ok {
		if b, err := strconv.ParseBool(strings.ToLower(val)); err == nil {
			slog.Debug("applying env override", "key", "SHADOW_SESSION_ENABLED", "value", val)
			cfg.Session.Enabled = &b
		}
	}
	setEnvString(&cfg.Session.DBPath, "SHADOW_SESSION_DB_PATH")
	setEnvDuration(&cfg.Session.BusyTimeout, "SHADOW_SESSION_BUSY_TIMEOUT")

	// Observability
	setEnvString(&cfg.Observability.MetricsAddr, "SHADOW_OBSERVABILITY_METRICS_ADDR")
	setEnvString(&cfg.Observability.OTLPEndpoint, "SHADOW_OBSERVABILITY_OTLP_ENDPOINT")
	setEnvString(&cfg.Observability.ServiceName, "SHADOW_OBSERVABILITY_SERVICE_NAME")

	// Output
	setEnvString(&cfg.Output.Format, "SHADOW_OUTPUT_FORMAT")
	setEnvString(&cfg.Output.Color, "SHADOW_OUTPUT_COLOR")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = b
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = d
		}
	}
}
