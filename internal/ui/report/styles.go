package report

import (
	"io"
	"os"
	"strings"

	"shadow/internal/engine/graph"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ColorEnabled resolves a color mode for w. Auto means w is a terminal and
// NO_COLOR is unset.
func ColorEnabled(mode string, w io.Writer) bool {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type styles struct {
	header   lipgloss.Style
	muted    lipgloss.Style
	added    lipgloss.Style
	removed  lipgloss.Style
	modified lipgloss.Style
	cycle    lipgloss.Style
	risk     map[graph.RiskLevel]lipgloss.Style
}

func newStyles(w io.Writer, color bool) styles {
	r := lipgloss.NewRenderer(w)
	if color {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}

	return styles{
		header: r.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true),
		muted: r.NewStyle().
			Foreground(lipgloss.Color("#64748B")),
		added: r.NewStyle().
			Foreground(lipgloss.Color("#10B981")),
		removed: r.NewStyle().
			Foreground(lipgloss.Color("#F87171")),
		modified: r.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")),
		cycle: r.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true),
		risk: map[graph.RiskLevel]lipgloss.Style{
			graph.RiskLow:    r.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true),
			graph.RiskMedium: r.NewStyle().Foreground(lipgloss.Color("#FBBF24")).Bold(true),
			graph.RiskHigh:   r.NewStyle().Foreground(lipgloss.Color("#F87171")).Bold(true),
		},
	}
}

func (s styles) riskStyle(level graph.RiskLevel) lipgloss.Style {
	if st, ok := s.risk[level]; ok {
		return st
	}
	return s.header
}
