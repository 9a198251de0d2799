// # internal/engine/graph/builder.go
package graph

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"shadow/internal/core/errors"
	"shadow/internal/engine/parser"
	"shadow/internal/engine/resolver"
	"shadow/internal/shared/observability"
	"shadow/internal/shared/util"

	"github.com/gobwas/glob"
	ignore "github.com/sabhiram/go-gitignore"
)

// DefaultExcludeDirs are skipped by name at any depth.
var DefaultExcludeDirs = []string{".git", "node_modules", ".shadow"}

type BuilderOptions struct {
	ExcludeDirs  []string // glob patterns matched against directory base names
	ExcludeFiles []string // glob patterns matched against base names and relative paths
	UseGitignore bool     // also honor <root>/.gitignore
}

type ScanStats struct {
	Files    int           `json:"files" yaml:"files"`
	Skipped  int           `json:"skipped" yaml:"skipped"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// Builder walks a workspace and produces a fresh Graph per call.
type Builder struct {
	registry     *parser.Registry
	resolver     *resolver.JavaScriptResolver
	dirGlobs     []glob.Glob
	fileGlobs    []glob.Glob
	useGitignore bool
}

func NewBuilder(registry *parser.Registry, opts BuilderOptions) (*Builder, error) {
	excludeDirs := opts.ExcludeDirs
	if excludeDirs == nil {
		excludeDirs = DefaultExcludeDirs
	}
	dirGlobs, err := compileGlobs(excludeDirs)
	if err != nil {
		return nil, err
	}
	fileGlobs, err := compileGlobs(opts.ExcludeFiles)
	if err != nil {
		return nil, err
	}

	return &Builder{
		registry:     registry,
		resolver:     resolver.NewJavaScriptResolver(),
		dirGlobs:     dirGlobs,
		fileGlobs:    fileGlobs,
		useGitignore: opts.UseGitignore,
	}, nil
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeValidationError, fmt.Sprintf("invalid exclude pattern %q", p))
		}
		out = append(out, g)
	}
	return out, nil
}

// Build scans root and returns a graph with resolved edges. A missing root
// yields an empty graph. Unreadable entries are logged and skipped. ctx is
// checked before each entry; cancellation discards the partial graph.
func (b *Builder) Build(ctx context.Context, root string) (*Graph, ScanStats, error) {
	started := time.Now()
	stats := ScanStats{}
	g := NewGraph()
	defer func() {
		stats.Duration = time.Since(started)
		observability.ScanDuration.Observe(stats.Duration.Seconds())
	}()

	info, err := os.Stat(root)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			slog.Warn("workspace root does not exist, using empty graph", "path", root)
			return g, stats, nil
		}
		return nil, stats, errors.IOFailure(root, err)
	}
	if !info.IsDir() {
		return nil, stats, errors.AddContext(
			errors.New(errors.CodeValidationError, "workspace root is not a directory"), errors.CtxPath, root)
	}

	gitignore := b.loadGitignore(root)

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			b.skip(&stats, path, walkErr)
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		rel, ok := util.RelativeSlashPath(root, path)
		if !ok || rel == "" {
			return nil
		}

		if d.IsDir() {
			if b.excludedDir(d.Name()) || (gitignore != nil && (gitignore.MatchesPath(rel) || gitignore.MatchesPath(rel+"/"))) {
				return filepath.SkipDir
			}
			return nil
		}

		extractor, ok := b.registry.ExtractorFor(parser.Extension(path))
		if !ok {
			return nil
		}
		if b.excludedFile(d.Name(), rel) || (gitignore != nil && gitignore.MatchesPath(rel)) {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			b.skip(&stats, path, err)
			return nil
		}

		g.AddNode(b.scanFile(rel, content, extractor))
		return nil
	})
	if err != nil {
		return nil, stats, err
	}

	g.BuildEdges()
	stats.Files = g.NodeCount()
	slog.Debug("workspace scanned", "path", root, "files", stats.Files, "edges", g.EdgeCount(), "skipped", stats.Skipped)
	return g, stats, nil
}

func (b *Builder) scanFile(rel string, content []byte, extractor parser.DependencyExtractor) *Node {
	raw := extractor.ExtractImports(content)
	imports := make([]string, 0, len(raw))
	for _, spec := range raw {
		if normalized, ok := b.resolver.NormalizeSpecifier(rel, spec); ok {
			imports = append(imports, normalized)
		}
	}
	return &Node{
		FilePath: rel,
		Imports:  imports,
		Exports:  extractor.ExtractExports(content),
	}
}

func (b *Builder) skip(stats *ScanStats, path string, err error) {
	stats.Skipped++
	observability.ScanSkippedFilesTotal.Inc()
	slog.Warn("skipping unreadable path", "path", path, "error", errors.IOFailure(path, err))
}

func (b *Builder) excludedDir(name string) bool {
	for _, g := range b.dirGlobs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

func (b *Builder) excludedFile(name, rel string) bool {
	for _, g := range b.fileGlobs {
		if g.Match(name) || g.Match(rel) {
			return true
		}
	}
	return false
}

func (b *Builder) loadGitignore(root string) *ignore.GitIgnore {
	if !b.useGitignore {
		return nil
	}
	path := filepath.Join(root, ".gitignore")
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		if !stderrors.Is(err, fs.ErrNotExist) {
			slog.Warn("failed to read .gitignore", "path", path, "error", err)
		}
		return nil
	}
	return gi
}
