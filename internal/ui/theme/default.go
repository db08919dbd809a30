package theme

import "github.com/charmbracelet/lipgloss"

// DefaultTheme returns the default dark theme
func DefaultTheme() Theme {
	return Theme{
		Name: "default",

		Foreground: lipgloss.Color("252"),
		Muted:      lipgloss.Color("245"),
		Border:     lipgloss.Color("240"),

		// Status colors
		Success: lipgloss.Color("42"),
		Warning: lipgloss.Color("220"),
		Error:   lipgloss.Color("196"),
		Info:    lipgloss.Color("75"),

		// Table colors
		TableHeader:   lipgloss.Color("105"),
		TableHeaderBg: lipgloss.Color("236"),
		TableRowOdd:   lipgloss.Color("236"),

		// Filter chips
		ChipForeground: lipgloss.Color("15"),
		ChipBackground: lipgloss.Color("25"),
		ChipNegated:    lipgloss.Color("88"),
		MatchType:      lipgloss.Color("220"),
	}
}
