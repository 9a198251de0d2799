// # internal/engine/parser/script.go
package parser

import (
	"strings"
)

var scriptExtensions = []string{"ts", "js", "tsx", "jsx"}

// ScriptScanner is a line-oriented declaration scanner for TypeScript and
// JavaScript sources. It indexes declarations; it does not validate syntax.
type ScriptScanner struct{}

func NewScriptScanner() *ScriptScanner {
	return &ScriptScanner{}
}

func (s *ScriptScanner) Extensions() []string {
	out := make([]string, len(scriptExtensions))
	copy(out, scriptExtensions)
	return out
}

func (s *ScriptScanner) Parse(content []byte) (*Node, error) {
	lines := SplitLines(content)
	root := newProgram(len(lines))

	for i, line := range lines {
		lineNo := i + 1
		trimmed := strings.TrimSpace(line)

		if name, ok := functionName(trimmed); ok {
			root.Children = append(root.Children, newLeaf(KindFunction, name, lineNo))
		}
		if name, ok := className(trimmed); ok {
			root.Children = append(root.Children, newLeaf(KindClass, name, lineNo))
		}
		if name, ok := importSource(trimmed); ok {
			root.Children = append(root.Children, newLeaf(KindImport, name, lineNo))
		}
	}

	return root, nil
}

// ExtractImports returns relative import and require specifiers in line order.
func (s *ScriptScanner) ExtractImports(content []byte) []string {
	imports := make([]string, 0)
	for _, line := range SplitLines(content) {
		trimmed := strings.TrimSpace(line)

		if spec, ok := importSource(trimmed); ok && isRelative(spec) {
			imports = append(imports, spec)
		}
		if spec, ok := requireSource(trimmed); ok && isRelative(spec) {
			imports = append(imports, spec)
		}
	}
	return imports
}

// ExtractExports returns names bound by `export function`, `export class` and
// `export const|let|var` lines. The first matching rule wins per line.
func (s *ScriptScanner) ExtractExports(content []byte) []string {
	exports := make([]string, 0)
	for _, line := range SplitLines(content) {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "export ") {
			continue
		}

		var name string
		switch {
		case strings.Contains(trimmed, "function "):
			name = functionToken(trimmed)
		case strings.Contains(trimmed, "class "):
			name = classToken(trimmed)
		case strings.Contains(trimmed, "const "), strings.Contains(trimmed, "let "), strings.Contains(trimmed, "var "):
			name = bindingToken(trimmed)
		}
		if name != "" {
			exports = append(exports, name)
		}
	}
	return exports
}

// SplitLines splits on newlines, dropping carriage returns and the empty
// element left by a trailing newline.
func SplitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	lines := strings.Split(string(content), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i := range lines {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}
	return lines
}

func functionName(line string) (string, bool) {
	if strings.HasPrefix(line, "function ") || strings.HasPrefix(line, "export function ") {
		name := functionToken(line)
		return name, name != ""
	}

	// Arrow function assignment: `const name = (...) => ...`.
	idx := strings.Index(line, " = ")
	if idx < 0 || !strings.Contains(line[idx+3:], "=>") {
		return "", false
	}
	left, _, _ := strings.Cut(line[:idx], ":")
	fields := strings.Fields(left)
	if len(fields) == 0 {
		return "", false
	}
	return fields[len(fields)-1], true
}

func className(line string) (string, bool) {
	if !strings.HasPrefix(line, "class ") && !strings.HasPrefix(line, "export class ") {
		return "", false
	}
	name := classToken(line)
	return name, name != ""
}

func importSource(line string) (string, bool) {
	if !strings.HasPrefix(line, "import ") {
		return "", false
	}
	_, after, found := strings.Cut(line, " from ")
	if !found {
		return "", false
	}
	spec := unquote(after)
	return spec, spec != ""
}

func requireSource(line string) (string, bool) {
	_, after, found := strings.Cut(line, "require(")
	if !found {
		return "", false
	}
	inner, _, closed := strings.Cut(after, ")")
	if !closed {
		return "", false
	}
	spec := unquote(inner)
	return spec, spec != ""
}

func functionToken(line string) string {
	name, _, _ := strings.Cut(tokenAfter(line, "function"), "(")
	return name
}

func classToken(line string) string {
	name, _, _ := strings.Cut(tokenAfter(line, "class"), "{")
	return name
}

func bindingToken(line string) string {
	fields := strings.Fields(line)
	for i, field := range fields {
		if (field == "const" || field == "let" || field == "var") && i+1 < len(fields) {
			name, _, _ := strings.Cut(fields[i+1], "=")
			name, _, _ = strings.Cut(name, ":")
			return strings.TrimSpace(name)
		}
	}
	return ""
}

func tokenAfter(line, keyword string) string {
	fields := strings.Fields(line)
	for i, field := range fields {
		if field == keyword && i+1 < len(fields) {
			return fields[i+1]
		}
	}
	return ""
}

// unquote extracts the first quoted string when s starts with a quote, and
// otherwise strips quotes and semicolons from both ends.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	switch q := s[0]; q {
	case '\'', '"', '`':
		if end := strings.IndexByte(s[1:], q); end >= 0 {
			return s[1 : end+1]
		}
	}
	return strings.Trim(s, "'\"`; ")
}

func isRelative(spec string) bool {
	return strings.HasPrefix(spec, ".")
}
