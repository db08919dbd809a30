// Package theme holds the color schemes used by the terminal report.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the color scheme and styling
type Theme struct {
	Name string

	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color

	// Status colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	// Table colors
	TableHeader   lipgloss.Color
	TableHeaderBg lipgloss.Color
	TableRowOdd   lipgloss.Color

	// Filter chips
	ChipForeground lipgloss.Color
	ChipBackground lipgloss.Color
	ChipNegated    lipgloss.Color
	MatchType      lipgloss.Color
}

// Names lists the available themes
func Names() []string {
	return []string{"default", "catppuccin-mocha"}
}

// GetTheme returns a theme by name, falling back to the default
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin", "catppuccin-mocha":
		return CatppuccinMochaTheme()
	default:
		return DefaultTheme()
	}
}
