package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rebeliceyang/lazyfilter/internal/models"
	"github.com/rebeliceyang/lazyfilter/internal/ui/theme"
)

// RenderChips renders one chip per applied filter, joined by the match type
// connector ("and" / "or")
func RenderChips(filters []models.AppliedFilter, mt models.MatchType, th theme.Theme) string {
	if len(filters) == 0 {
		return lipgloss.NewStyle().Foreground(th.Muted).Render("no filters")
	}

	chipStyle := lipgloss.NewStyle().
		Foreground(th.ChipForeground).
		Background(th.ChipBackground).
		Padding(0, 1)
	negatedStyle := chipStyle.Background(th.ChipNegated)

	connector := "and"
	if mt == models.MatchAny {
		connector = "or"
	}
	connector = lipgloss.NewStyle().Foreground(th.MatchType).Render(" " + connector + " ")

	chips := make([]string, len(filters))
	for i, f := range filters {
		style := chipStyle
		if f.Relationship.IsNegative() && !f.IsEmpty() {
			style = negatedStyle
		}
		chips[i] = style.Render(f.Describe())
	}
	return strings.Join(chips, connector)
}
