// # internal/engine/parser/parser.go
package parser

import (
	"path/filepath"
	"strings"

	"shadow/internal/core/errors"
	"shadow/internal/shared/util"
)

// Scanner turns file text into a declaration tree rooted at a Program node.
type Scanner interface {
	Parse(content []byte) (*Node, error)
	Extensions() []string
}

// DependencyExtractor is the optional capability used by the workspace scan.
// Imports are raw relative specifiers exactly as written in the source.
type DependencyExtractor interface {
	ExtractImports(content []byte) []string
	ExtractExports(content []byte) []string
}

type Registry struct {
	scanners map[string]Scanner // extension -> scanner
}

func NewRegistry() *Registry {
	return &Registry{scanners: make(map[string]Scanner)}
}

// NewDefaultRegistry registers the line scanner for ts, js, tsx and jsx.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewScriptScanner())
	return r
}

func (r *Registry) Register(s Scanner) {
	r.RegisterExtensions(s, s.Extensions()...)
}

// RegisterExtensions binds s to a subset of extensions, replacing any prior binding.
func (r *Registry) RegisterExtensions(s Scanner, exts ...string) {
	for _, ext := range exts {
		normalized := normalizeExtension(ext)
		if normalized == "" {
			continue
		}
		r.scanners[normalized] = s
	}
}

func (r *Registry) ScannerFor(ext string) (Scanner, bool) {
	s, ok := r.scanners[normalizeExtension(ext)]
	return s, ok
}

func (r *Registry) ExtractorFor(ext string) (DependencyExtractor, bool) {
	s, ok := r.ScannerFor(ext)
	if !ok {
		return nil, false
	}
	e, ok := s.(DependencyExtractor)
	return e, ok
}

// Parse scans content with the scanner registered for path's extension.
func (r *Registry) Parse(path string, content []byte) (*Node, error) {
	ext := Extension(path)
	s, ok := r.ScannerFor(ext)
	if !ok {
		return nil, errors.AddContext(errors.UnsupportedExtension(ext), errors.CtxPath, path)
	}
	return s.Parse(content)
}

func (r *Registry) IsSupportedPath(path string) bool {
	_, ok := r.ScannerFor(Extension(path))
	return ok
}

func (r *Registry) SupportedExtensions() []string {
	return util.SortedStringKeys(r.scanners)
}

// Extension returns path's suffix without the dot; "" when there is none.
func Extension(path string) string {
	return normalizeExtension(filepath.Ext(path))
}

func normalizeExtension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
