package output

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles holds the lipgloss styles used in text mode.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Header3 lipgloss.Style
	Key     lipgloss.Style
	Muted   lipgloss.Style
	Bold    lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	StatusSuccess lipgloss.Style
	StatusFailed  lipgloss.Style
}

// newStyles builds styles bound to w. Colour is dropped when w is not a
// terminal or NO_COLOR is set.
func newStyles(w io.Writer, isTTY bool) *Styles {
	lr := lipgloss.NewRenderer(w)
	if !isTTY || os.Getenv("NO_COLOR") != "" {
		lr.SetColorProfile(termenv.Ascii)
	} else {
		lr.SetColorProfile(termenv.EnvColorProfile())
	}

	return &Styles{
		Header1: lr.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		Header2: lr.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575")),
		Header3: lr.NewStyle().Bold(true),
		Key:     lr.NewStyle().Foreground(lipgloss.Color("#3C99DC")),
		Muted:   lr.NewStyle().Foreground(lipgloss.Color("#808080")),
		Bold:    lr.NewStyle().Bold(true),
		Success: lr.NewStyle().Foreground(lipgloss.Color("#04B575")),
		Warning: lr.NewStyle().Foreground(lipgloss.Color("#FFB000")),
		Error:   lr.NewStyle().Foreground(lipgloss.Color("#FF4672")),

		StatusSuccess: lr.NewStyle().Foreground(lipgloss.Color("#04B575")).SetString("✓"),
		StatusFailed:  lr.NewStyle().Foreground(lipgloss.Color("#FF4672")).SetString("✗"),
	}
}
