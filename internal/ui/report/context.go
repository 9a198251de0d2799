// # internal/ui/report/context.go
package report

import (
	"fmt"

	"shadow/internal/engine/diff"
	"shadow/internal/engine/parser"
)

const DefaultContextRadius = 2

// Snippet is a change with the surrounding source lines of the version it
// refers to. Removed changes point into the old text, all others into the new.
type Snippet struct {
	Change  diff.Change `json:"change" yaml:"change"`
	Context []string    `json:"context" yaml:"context"`
}

// ChangeSnippets pairs every change of fd with ±radius lines of source.
func ChangeSnippets(fd diff.FileDiff, oldText, newText string, radius int) []Snippet {
	if radius < 0 {
		radius = 0
	}
	oldLines := parser.SplitLines([]byte(oldText))
	newLines := parser.SplitLines([]byte(newText))

	out := make([]Snippet, 0, len(fd.Changes))
	for _, c := range fd.Changes {
		lines := newLines
		if c.Type == diff.Removed {
			lines = oldLines
		}
		out = append(out, Snippet{
			Change:  c,
			Context: buildContext(lines, c.Lines.Start-1, c.Lines.End-1, radius),
		})
	}
	return out
}

// buildContext returns lines [first-radius, last+radius] formatted as
// "<linenum>: <source>", clamped to the text.
func buildContext(lines []string, first, last, radius int) []string {
	if len(lines) == 0 || first < 0 {
		return nil
	}
	if last < first {
		last = first
	}
	start := max(first-radius, 0)
	end := min(last+radius+1, len(lines))
	if start >= end {
		return nil
	}

	out := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, formatContextLine(i+1, lines[i]))
	}
	return out
}

func formatContextLine(lineNum int, source string) string {
	return fmt.Sprintf("%6d: %s", lineNum, source)
}
