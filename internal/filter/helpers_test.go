package filter

import (
	"slices"
	"strings"

	"github.com/rebeliceyang/lazyfilter/internal/models"
)

type testRow struct {
	id       string
	status   string
	priority string
	tags     []string
	title    string
}

func rowFields(r testRow) map[string]any {
	return map[string]any{
		"status":   r.status,
		"priority": r.priority,
		"tags":     r.tags,
		"title":    r.title,
	}
}

func testPredicate(row testRow, f models.AppliedFilter, v models.ComboboxOption) bool {
	switch f.CategoryID {
	case "status":
		return row.status == v.Value
	case "priority":
		return row.priority == v.Value
	case "tags":
		return slices.Contains(row.tags, v.Value)
	case "title":
		return strings.Contains(strings.ToLower(row.title), strings.ToLower(v.Value))
	}
	return false
}

func testText(row testRow, f models.AppliedFilter) string {
	if f.CategoryID == "title" {
		return row.title
	}
	return ""
}

func opts(values ...string) []models.ComboboxOption {
	out := make([]models.ComboboxOption, len(values))
	for i, v := range values {
		out[i] = models.ComboboxOption{ID: "opt-" + v, Label: v, Value: v}
	}
	return out
}

func radio(id, category string, rel models.Relationship, values ...string) models.AppliedFilter {
	return models.AppliedFilter{
		ID:            id,
		CategoryID:    category,
		SelectionType: models.SelectionRadio,
		Relationship:  rel,
		Values:        opts(values...),
	}
}

func checkboxes(id string, rel models.Relationship, values ...string) models.AppliedFilter {
	return models.AppliedFilter{
		ID:            id,
		CategoryID:    "tags",
		SelectionType: models.SelectionCheckboxes,
		Relationship:  rel,
		Values:        opts(values...),
	}
}

func text(id string, rel models.Relationship, value string) models.AppliedFilter {
	return models.AppliedFilter{
		ID:            id,
		CategoryID:    "title",
		SelectionType: models.SelectionText,
		Relationship:  rel,
		TextValue:     value,
	}
}

type recordingReporter struct {
	anomalies []Anomaly
}

func (r *recordingReporter) ReportAnomaly(a Anomaly) {
	r.anomalies = append(r.anomalies, a)
}
