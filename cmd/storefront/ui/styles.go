// Package ui provides the bubbletea pages and visual styling for the
// interactive storefront. Light/dark mode is detected from the environment.
package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	// Light mode
	LightForeground = lipgloss.Color("#1a202c")
	LightPrimary    = lipgloss.Color("#4338ca") // Indigo
	LightAccent     = lipgloss.Color("#16a34a") // Green (prices)
	LightMuted      = lipgloss.Color("#94a3b8")
	LightBorder     = lipgloss.Color("#cbd5e1")

	// Dark mode
	DarkForeground = lipgloss.Color("#e2e8f0")
	DarkPrimary    = lipgloss.Color("#818cf8")
	DarkAccent     = lipgloss.Color("#4ade80")
	DarkMuted      = lipgloss.Color("#64748b")
	DarkBorder     = lipgloss.Color("#334155")

	// Semantic, same in both modes
	Destructive = lipgloss.Color("#e53935")
	Warning     = lipgloss.Color("#FFC107")
)

// Theme holds the active color scheme.
type Theme struct {
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme.
func LightTheme() Theme {
	return Theme{
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Muted:      LightMuted,
		Border:     LightBorder,
	}
}

// DarkTheme returns the dark mode theme.
func DarkTheme() Theme {
	return Theme{
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		IsDark:     true,
	}
}

// DetectTheme picks dark mode when the terminal hints at it.
func DetectTheme() Theme {
	colorfgbg := os.Getenv("COLORFGBG")
	if strings.HasSuffix(colorfgbg, ";0") || os.Getenv("STOREFRONT_DARK") == "1" {
		return DarkTheme()
	}
	if term := os.Getenv("TERM_PROGRAM"); term == "iTerm.app" || term == "WezTerm" {
		return DarkTheme()
	}
	return LightTheme()
}

// Styles bundles the lipgloss styles used by the pages.
type Styles struct {
	Theme Theme

	Header  lipgloss.Style
	Footer  lipgloss.Style
	Title   lipgloss.Style
	Body    lipgloss.Style
	Muted   lipgloss.Style
	Price   lipgloss.Style
	Badge   lipgloss.Style
	Label   lipgloss.Style
	Field   lipgloss.Style
	Card    lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Warn    lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().Bold(true).Foreground(theme.Primary).Padding(0, 1),
		Footer: lipgloss.NewStyle().Foreground(theme.Muted).Padding(0, 1),
		Title:  lipgloss.NewStyle().Bold(true).Foreground(theme.Foreground),
		Body:   lipgloss.NewStyle().Foreground(theme.Foreground),
		Muted:  lipgloss.NewStyle().Foreground(theme.Muted),
		Price:  lipgloss.NewStyle().Bold(true).Foreground(theme.Accent),
		Badge:  lipgloss.NewStyle().Foreground(theme.Accent),
		Label:  lipgloss.NewStyle().Foreground(theme.Muted),
		Field: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(1, 2),
		Success: lipgloss.NewStyle().Bold(true).Foreground(theme.Accent),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(Destructive),
		Warn:    lipgloss.NewStyle().Foreground(Warning),
	}
}

// DefaultStyles builds styles from the detected theme.
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}

// RenderDivider returns a horizontal divider of the given width.
func (s Styles) RenderDivider(width int) string {
	if width <= 0 {
		return ""
	}
	return s.Muted.Render(strings.Repeat("─", width))
}
