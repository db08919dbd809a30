package components

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/rebeliceyang/lazyfilter/internal/models"
	"github.com/rebeliceyang/lazyfilter/internal/ui/theme"
)

func testRecords() []models.Record {
	return []models.Record{
		{ID: "1", Fields: map[string][]string{"status": {"Open"}, "tags": {"Bug", "Docs"}}},
		{ID: "2", Fields: map[string][]string{"status": {"Completed"}, "tags": {"Feature"}}},
	}
}

func TestTableView_Empty(t *testing.T) {
	tv := NewTableView(theme.DefaultTheme())
	if !strings.Contains(tv.View(), "No data") {
		t.Error("Expected empty state message")
	}
}

func TestTableView_SetRecords(t *testing.T) {
	tv := NewTableView(theme.DefaultTheme())
	tv.SetRecords([]string{"id", "status", "tags"}, testRecords(), 5, ";")

	if len(tv.Rows) != 2 || tv.Rows[0][0] != "1" || tv.Rows[0][2] != "Bug;Docs" {
		t.Fatalf("Unexpected rows: %v", tv.Rows)
	}
	if tv.ColumnWidths[0] != minColumnWidth {
		t.Errorf("Expected min width for id column, got %d", tv.ColumnWidths[0])
	}
	if tv.ColumnWidths[1] != len("Completed") {
		t.Errorf("Expected status width %d, got %d", len("Completed"), tv.ColumnWidths[1])
	}

	view := tv.View()
	for _, want := range []string{"status", "Completed", "Bug;Docs", "showing 2 of 5 rows (3 hidden)"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected view to contain %q", want)
		}
	}
}

func TestTableView_StatusLine(t *testing.T) {
	tv := NewTableView(theme.DefaultTheme())
	tv.SetData([]string{"a"}, [][]string{{"x"}, {"y"}}, 2)
	if got := tv.StatusLine(); got != "showing 2 of 2 rows" {
		t.Errorf("Unexpected status line %q", got)
	}
}

func TestTableView_MaxRows(t *testing.T) {
	tv := NewTableView(theme.DefaultTheme())
	tv.MaxRows = 1
	tv.SetData([]string{"name"}, [][]string{{"alpha"}, {"beta"}, {"gamma"}}, 3)

	view := tv.View()
	if !strings.Contains(view, "alpha") || strings.Contains(view, "gamma") {
		t.Errorf("Expected only the first row, got:\n%s", view)
	}
	if !strings.Contains(view, "2 more") {
		t.Error("Expected overflow note")
	}
}

func TestTableView_Truncation(t *testing.T) {
	tv := NewTableView(theme.DefaultTheme())
	tv.MaxColumnWidth = 8
	tv.SetData([]string{"title"}, [][]string{{"a very long title indeed"}, {"日本語のタイトル"}}, 2)

	if tv.ColumnWidths[0] != 8 {
		t.Fatalf("Expected width capped at 8, got %d", tv.ColumnWidths[0])
	}
	for _, cell := range []string{"a very long title indeed", "日本語のタイトル", "ab"} {
		if w := runewidth.StringWidth(tv.pad(cell, 8)); w > 8 {
			t.Errorf("pad(%q) has width %d, want <= 8", cell, w)
		}
	}
	if got := tv.pad("ab", 8); got != "ab      " {
		t.Errorf("Expected right padding, got %q", got)
	}
	if got := tv.pad("a very long title indeed", 8); !strings.HasSuffix(got, "...") {
		t.Errorf("Expected ellipsis, got %q", got)
	}
}

func TestRenderChips(t *testing.T) {
	th := theme.DefaultTheme()

	if got := RenderChips(nil, models.MatchAll, th); !strings.Contains(got, "no filters") {
		t.Errorf("Expected empty chip message, got %q", got)
	}

	filters := []models.AppliedFilter{
		{
			CategoryID: "status", SelectionType: models.SelectionRadio,
			PropertyNameSingular: "status", PropertyNamePlural: "statuses",
			Values:       []models.ComboboxOption{{ID: "status:Completed", Label: "Completed", Value: "Completed"}},
			Relationship: models.RelIs,
		},
		{
			CategoryID: "tags", SelectionType: models.SelectionCheckboxes,
			PropertyNameSingular: "tag", PropertyNamePlural: "tags",
			Values: []models.ComboboxOption{
				{ID: "tags:Bug", Label: "Bug", Value: "Bug"},
				{ID: "tags:Docs", Label: "Docs", Value: "Docs"},
			},
			Relationship: models.RelIncludeAllOf,
		},
		{
			CategoryID: "title", SelectionType: models.SelectionText,
			PropertyNameSingular: "title", PropertyNamePlural: "titles",
			TextValue: "crash", Relationship: models.RelDoesNotContain,
		},
	}

	all := RenderChips(filters, models.MatchAll, th)
	for _, want := range []string{"status is Completed", "tags include all of Bug, Docs", `title does not contain "crash"`, " and "} {
		if !strings.Contains(all, want) {
			t.Errorf("Expected chips to contain %q, got %q", want, all)
		}
	}

	anyOf := RenderChips(filters, models.MatchAny, th)
	if !strings.Contains(anyOf, " or ") {
		t.Errorf("Expected or connector, got %q", anyOf)
	}
}

func TestGetTheme(t *testing.T) {
	if theme.GetTheme("catppuccin").Name != "catppuccin-mocha" {
		t.Error("Expected catppuccin theme")
	}
	if theme.GetTheme("unknown").Name != "default" {
		t.Error("Expected default theme fallback")
	}
}

func TestMessages(t *testing.T) {
	for _, th := range []theme.Theme{theme.DefaultTheme(), theme.CatppuccinMochaTheme()} {
		if th.Success == "" || th.Warning == "" {
			t.Errorf("%s: status colors must be set", th.Name)
		}
		if got := SuccessMessage(th, "Saved preset"); !strings.Contains(got, "Saved preset") {
			t.Errorf("%s: unexpected success message %q", th.Name, got)
		}
		if got := WarningMessage(th, `unknown column "owner"`); !strings.Contains(got, `Warning: unknown column "owner"`) {
			t.Errorf("%s: unexpected warning message %q", th.Name, got)
		}
	}
}
