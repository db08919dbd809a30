package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/rebeliceyang/lazyfilter/internal/ui/theme"
)

// SuccessMessage renders a confirmation line such as "Saved preset ..."
func SuccessMessage(th theme.Theme, msg string) string {
	return lipgloss.NewStyle().Foreground(th.Success).Render(msg)
}

// WarningMessage renders msg prefixed with "Warning: "
func WarningMessage(th theme.Theme, msg string) string {
	return lipgloss.NewStyle().Foreground(th.Warning).Render("Warning: " + msg)
}
