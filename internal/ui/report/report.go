// # internal/ui/report/report.go
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"shadow/internal/core/errors"
	"shadow/internal/core/ports"
	"shadow/internal/engine/diff"
	"shadow/internal/engine/graph"
	"shadow/internal/ui/report/formats"

	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatDOT      Format = "dot"
	FormatMermaid  Format = "mermaid"
	FormatPlantUML Format = "plantuml"
	FormatTSV      Format = "tsv"
)

var knownFormats = []Format{FormatText, FormatJSON, FormatYAML, FormatDOT, FormatMermaid, FormatPlantUML, FormatTSV}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatText, nil
	}
	for _, known := range knownFormats {
		if f == known {
			return f, nil
		}
	}
	return "", errors.New(errors.CodeValidationError, fmt.Sprintf("unknown output format %q", s))
}

// DiffEntry is a computed diff plus the texts it was computed from, used for
// source context in text output.
type DiffEntry struct {
	Diff    diff.FileDiff
	OldText string
	NewText string
}

// Printer renders results to w in a single format.
type Printer struct {
	w      io.Writer
	format Format
	styles styles
}

func NewPrinter(w io.Writer, format Format, colorMode string) *Printer {
	if format == "" {
		format = FormatText
	}
	return &Printer{
		w:      w,
		format: format,
		styles: newStyles(w, ColorEnabled(colorMode, w)),
	}
}

func (p *Printer) Format() Format {
	return p.format
}

func (p *Printer) Impact(a graph.ImpactAnalysis) error {
	switch p.format {
	case FormatJSON, FormatYAML:
		return p.encode(a)
	case FormatTSV:
		out, err := formats.NewTSVGenerator(nil).GenerateImpact(a)
		if err != nil {
			return err
		}
		return p.write(out)
	case FormatText:
	default:
		return p.unsupported("impact")
	}

	var b strings.Builder
	p.writeList(&b, "Changed files", a.ChangedFiles)
	p.writeList(&b, "Impacted files", a.ImpactedFiles)
	b.WriteString(fmt.Sprintf("Risk: %s\n", p.styles.riskStyle(a.RiskLevel).Render(string(a.RiskLevel))))
	return p.write(b.String())
}

// Diffs renders each file's changes. In text output radius > 0 adds source
// context around every change.
func (p *Printer) Diffs(entries []DiffEntry, radius int) error {
	switch p.format {
	case FormatJSON, FormatYAML:
		diffs := make([]diff.FileDiff, 0, len(entries))
		for _, e := range entries {
			diffs = append(diffs, e.Diff)
		}
		return p.encode(diffs)
	case FormatText:
	default:
		return p.unsupported("diff")
	}

	var b strings.Builder
	for _, e := range entries {
		b.WriteString(p.styles.header.Render(e.Diff.FilePath))
		b.WriteString(fmt.Sprintf(": %d change(s)\n", len(e.Diff.Changes)))

		snippets := ChangeSnippets(e.Diff, e.OldText, e.NewText, radius)
		for _, sn := range snippets {
			c := sn.Change
			marker, style := "~", p.styles.modified
			switch c.Type {
			case diff.Added:
				marker, style = "+", p.styles.added
			case diff.Removed:
				marker, style = "-", p.styles.removed
			}
			line := fmt.Sprintf("%s %s %s", marker, c.Kind, c.Name)
			b.WriteString("  " + style.Render(line))
			b.WriteString(p.styles.muted.Render(fmt.Sprintf(" (lines %d-%d)", c.Lines.Start, c.Lines.End)))
			b.WriteString("\n")
			if radius > 0 {
				for _, ctxLine := range sn.Context {
					b.WriteString("    " + p.styles.muted.Render(ctxLine) + "\n")
				}
			}
		}
	}
	return p.write(b.String())
}

type graphDocument struct {
	Nodes  []*graph.Node `json:"nodes" yaml:"nodes"`
	Edges  []graph.Edge  `json:"edges" yaml:"edges"`
	Cycles [][]string    `json:"cycles" yaml:"cycles"`
}

func (p *Printer) Graph(g *graph.Graph, cycles [][]string) error {
	var (
		out string
		err error
	)
	switch p.format {
	case FormatDOT:
		out, err = formats.NewDOTGenerator(g).Generate(cycles)
	case FormatMermaid:
		out, err = formats.NewMermaidGenerator(g).Generate(cycles)
	case FormatPlantUML:
		out, err = formats.NewPlantUMLGenerator(g).Generate(cycles)
	case FormatTSV:
		out, err = formats.NewTSVGenerator(g).Generate(cycles)
	case FormatJSON, FormatYAML:
		doc := graphDocument{Nodes: make([]*graph.Node, 0, g.NodeCount()), Edges: g.Edges(), Cycles: cycles}
		if doc.Cycles == nil {
			doc.Cycles = [][]string{}
		}
		for _, path := range g.SortedPaths() {
			n, _ := g.Node(path)
			doc.Nodes = append(doc.Nodes, n)
		}
		return p.encode(doc)
	case FormatText:
		var b strings.Builder
		b.WriteString(p.styles.header.Render(fmt.Sprintf("%d files, %d edges", g.NodeCount(), g.EdgeCount())))
		b.WriteString("\n")
		for _, e := range g.Edges() {
			b.WriteString(fmt.Sprintf("  %s -> %s\n", e.From, e.To))
		}
		out = b.String()
		if len(cycles) > 0 {
			out += p.cyclesText(cycles)
		}
	default:
		return p.unsupported("graph")
	}
	if err != nil {
		return err
	}
	return p.write(out)
}

func (p *Printer) Cycles(cycles [][]string) error {
	switch p.format {
	case FormatJSON, FormatYAML:
		if cycles == nil {
			cycles = [][]string{}
		}
		return p.encode(cycles)
	case FormatText:
		return p.write(p.cyclesText(cycles))
	default:
		return p.unsupported("cycles")
	}
}

func (p *Printer) cyclesText(cycles [][]string) string {
	if len(cycles) == 0 {
		return "No import cycles detected.\n"
	}
	var b strings.Builder
	b.WriteString(p.styles.cycle.Render(fmt.Sprintf("%d import cycle(s)", len(cycles))))
	b.WriteString("\n")
	for i, cycle := range cycles {
		ring := append(append([]string(nil), cycle...), cycle[0])
		b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, strings.Join(ring, " -> ")))
	}
	return b.String()
}

type chainDocument struct {
	From  string   `json:"from" yaml:"from"`
	To    string   `json:"to" yaml:"to"`
	Found bool     `json:"found" yaml:"found"`
	Chain []string `json:"chain" yaml:"chain"`
}

func (p *Printer) Chain(from, to string, chain []string, found bool) error {
	switch p.format {
	case FormatJSON, FormatYAML:
		if chain == nil {
			chain = []string{}
		}
		return p.encode(chainDocument{From: from, To: to, Found: found, Chain: chain})
	case FormatText:
	default:
		return p.unsupported("chain")
	}
	if !found {
		return p.write(fmt.Sprintf("No import chain from %s to %s.\n", from, to))
	}
	return p.write(strings.Join(chain, "\n  -> ") + "\n")
}

func (p *Printer) Scan(r ports.ScanResult) error {
	switch p.format {
	case FormatJSON, FormatYAML:
		return p.encode(r)
	case FormatText:
	default:
		return p.unsupported("scan")
	}
	line := fmt.Sprintf("Scanned %s: %d files, %d edges, %d skipped in %s\n",
		r.Root, r.Files, r.Edges, r.Skipped, r.Duration.Round(time.Millisecond))
	return p.write(line)
}

func (p *Printer) Session(s ports.SessionStatus) error {
	switch p.format {
	case FormatJSON, FormatYAML:
		return p.encode(s)
	case FormatText:
	default:
		return p.unsupported("session")
	}
	if !s.Active {
		if s.SessionID == "" {
			return p.write("No active session.\n")
		}
		return p.write(fmt.Sprintf("Session %s stopped after %d diff(s).\n", s.SessionID, s.DiffCount))
	}
	var b strings.Builder
	b.WriteString(p.styles.header.Render("Session "+s.SessionID) + "\n")
	b.WriteString(fmt.Sprintf("  workspace: %s\n", s.WorkspacePath))
	b.WriteString(fmt.Sprintf("  started:   %s\n", s.StartedAt.UTC().Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf("  diffs:     %d\n", s.DiffCount))
	return p.write(b.String())
}

func (p *Printer) writeList(b *strings.Builder, title string, items []string) {
	b.WriteString(p.styles.header.Render(fmt.Sprintf("%s (%d)", title, len(items))))
	b.WriteString("\n")
	if len(items) == 0 {
		b.WriteString(p.styles.muted.Render("  none") + "\n")
		return
	}
	for _, item := range items {
		b.WriteString("  " + item + "\n")
	}
}

func (p *Printer) encode(v any) error {
	switch p.format {
	case FormatYAML:
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return p.write(string(data) + "\n")
	}
}

func (p *Printer) write(s string) error {
	_, err := io.WriteString(p.w, s)
	return err
}

func (p *Printer) unsupported(what string) error {
	return errors.New(errors.CodeValidationError, fmt.Sprintf("format %q not supported for %s output", p.format, what))
}
