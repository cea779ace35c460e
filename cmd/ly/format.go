package main

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/zulandar/laneyard/internal/capacity"
	"github.com/zulandar/laneyard/internal/interval"
	"golang.org/x/term"
)

// styles colours capacity levels when writing to a terminal.
type styles struct {
	enabled    bool
	safe       lipgloss.Style
	warning    lipgloss.Style
	overbooked lipgloss.Style
	header     lipgloss.Style
}

func newStyles(w io.Writer) styles {
	return styles{
		enabled:    isTerminal(w),
		safe:       lipgloss.NewStyle().Foreground(lipgloss.Color("#36A64F")),
		warning:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FF9800")),
		overbooked: lipgloss.NewStyle().Foreground(lipgloss.Color("#E53935")).Bold(true),
		header:     lipgloss.NewStyle().Bold(true),
	}
}

// isTerminal reports whether w is a terminal. Buffers and pipes get plain
// text.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (s styles) level(l capacity.Level, text string) string {
	if !s.enabled {
		return text
	}
	switch l {
	case capacity.LevelOverbooked:
		return s.overbooked.Render(text)
	case capacity.LevelWarning:
		return s.warning.Render(text)
	default:
		return s.safe.Render(text)
	}
}

func (s styles) bold(text string) string {
	if !s.enabled {
		return text
	}
	return s.header.Render(text)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func today() string {
	return interval.Format(time.Now())
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
