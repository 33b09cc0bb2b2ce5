// Package tui is the interactive terminal interface of registrar.
package tui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Primary     = lipgloss.Color("#00529b") // calm blue
	Foreground  = lipgloss.Color("#212529")
	Muted       = lipgloss.Color("#6c757d")
	Border      = lipgloss.Color("#dee2e6")
	SelectedBg  = lipgloss.Color("#cfe2ff")
	SelectedFg  = lipgloss.Color("#002a52")
	Destructive = lipgloss.Color("#dc3545")
	Success     = lipgloss.Color("#28a745")
	Warning     = lipgloss.Color("#ffc107")
)

// Styles holds all the styled components.
type Styles struct {
	Header   lipgloss.Style
	Info     lipgloss.Style
	Title    lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style
	Label    lipgloss.Style
	Help     lipgloss.Style
	Focused  lipgloss.Style
	Panel    lipgloss.Style
	Active   lipgloss.Style
	Selected lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
}

func NewStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Background(Primary).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2).
			Bold(true),
		Info: lipgloss.NewStyle().
			Background(Primary).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2),
		Title: lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true),
		Body:  lipgloss.NewStyle().Foreground(Foreground),
		Muted: lipgloss.NewStyle().Foreground(Muted),
		Bold:  lipgloss.NewStyle().Bold(true),
		Label: lipgloss.NewStyle().Width(12),
		Help:  lipgloss.NewStyle().Foreground(Muted).Italic(true),
		Focused: lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 1),
		Active: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1),
		Selected: lipgloss.NewStyle().
			Background(SelectedBg).
			Foreground(SelectedFg),

		Success: lipgloss.NewStyle().Foreground(Success).Italic(true),
		Error:   lipgloss.NewStyle().Foreground(Destructive).Italic(true),
		Warning: lipgloss.NewStyle().Foreground(Warning).Italic(true),
	}
}

// PlainStyles renders without colors, for pipes and tests.
func PlainStyles() Styles {
	s := lipgloss.NewStyle()
	return Styles{
		Header: s, Info: s, Title: s, Body: s, Muted: s, Bold: s,
		Label: s.Width(12), Help: s, Focused: s,
		Panel: s, Active: s, Selected: s,
		Success: s, Error: s, Warning: s,
	}
}

// DefaultStyles returns plain styles when NO_COLOR is set.
func DefaultStyles() Styles {
	if os.Getenv("NO_COLOR") != "" {
		return PlainStyles()
	}
	return NewStyles()
}

// RenderDivider returns a horizontal divider.
func (s Styles) RenderDivider(width int) string {
	return s.Muted.Render(strings.Repeat("─", width))
}
