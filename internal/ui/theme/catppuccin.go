package theme

import "github.com/charmbracelet/lipgloss"

// CatppuccinMochaTheme returns the Catppuccin Mocha theme
// Based on: https://github.com/catppuccin/catppuccin
func CatppuccinMochaTheme() Theme {
	return Theme{
		Name: "catppuccin-mocha",

		Foreground: lipgloss.Color("#cdd6f4"), // Text
		Muted:      lipgloss.Color("#6c7086"), // Overlay0
		Border:     lipgloss.Color("#45475a"), // Surface1

		// Status colors
		Success: lipgloss.Color("#a6e3a1"), // Green
		Warning: lipgloss.Color("#f9e2af"), // Yellow
		Error:   lipgloss.Color("#f38ba8"), // Red
		Info:    lipgloss.Color("#89dceb"), // Sky

		// Table colors
		TableHeader:   lipgloss.Color("#89b4fa"), // Blue
		TableHeaderBg: lipgloss.Color("#313244"), // Surface0
		TableRowOdd:   lipgloss.Color("#181825"), // Mantle

		// Filter chips
		ChipForeground: lipgloss.Color("#1e1e2e"), // Base
		ChipBackground: lipgloss.Color("#89b4fa"), // Blue
		ChipNegated:    lipgloss.Color("#f38ba8"), // Red
		MatchType:      lipgloss.Color("#f9e2af"), // Yellow
	}
}
