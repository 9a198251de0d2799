package ports

import (
	"context"
	"time"

	"shadow/internal/data/session"
	"shadow/internal/engine/diff"
	"shadow/internal/engine/graph"
)

// FileChange is one file's before and after text for a structural diff.
type FileChange struct {
	Path       string
	OldContent string
	NewContent string
}

// ScanResult summarizes a completed dependency-graph build.
type ScanResult struct {
	Root     string        `json:"root" yaml:"root"`
	Files    int           `json:"files" yaml:"files"`
	Edges    int           `json:"edges" yaml:"edges"`
	Skipped  int           `json:"skipped" yaml:"skipped"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// SessionStatus reports the active session, if any.
type SessionStatus struct {
	Active        bool      `json:"is_active" yaml:"is_active"`
	SessionID     string    `json:"session_id,omitempty" yaml:"session_id,omitempty"`
	WorkspacePath string    `json:"workspace_path,omitempty" yaml:"workspace_path,omitempty"`
	StartedAt     time.Time `json:"start_time,omitempty" yaml:"start_time,omitempty"`
	DiffCount     int       `json:"diff_count" yaml:"diff_count"`
}

// SessionStore abstracts session persistence.
type SessionStore interface {
	Start(ctx context.Context, workspacePath string) (*session.Session, error)
	Active(ctx context.Context) (*session.Session, bool, error)
	Stop(ctx context.Context) (*session.Session, error)
	IncrementDiffCount(ctx context.Context, n int) error
	Close() error
}

// AnalysisService is the driving-port surface over diff, graph and impact use cases.
type AnalysisService interface {
	ComputeDiffs(ctx context.Context, changes []FileChange) ([]diff.FileDiff, error)
	BuildDependencyGraph(ctx context.Context, root string) (ScanResult, error)
	AnalyzeImpact(ctx context.Context, changed []string) (graph.ImpactAnalysis, error)
	AnalyzeImpactFromPatch(ctx context.Context, patchText string) (graph.ImpactAnalysis, error)
	CurrentGraph() (*graph.Graph, error)
}

// SessionService exposes session lifecycle for driving adapters.
type SessionService interface {
	StartSession(ctx context.Context) (SessionStatus, error)
	StopSession(ctx context.Context) (SessionStatus, error)
	Status(ctx context.Context) (SessionStatus, error)
	DiffCount(ctx context.Context) (int, error)
}
