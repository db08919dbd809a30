package nlquery

import (
	"errors"
	"slices"
	"testing"

	"github.com/rebeliceyang/lazyfilter/internal/filter"
	"github.com/rebeliceyang/lazyfilter/internal/filtering"
	"github.com/rebeliceyang/lazyfilter/internal/models"
	"github.com/rebeliceyang/lazyfilter/internal/source"
)

func option(category, value string) models.ComboboxOption {
	return models.ComboboxOption{ID: source.OptionID(category, value), Label: value, Value: value}
}

func newTestStore() *filtering.Store[models.Record] {
	categories := []models.FilterOption{
		{ID: "status", SelectionType: models.SelectionRadio, PropertyNameSingular: "status", PropertyNamePlural: "statuses",
			Options: []models.ComboboxOption{option("status", "Open"), option("status", "Completed")}},
		{ID: "tags", SelectionType: models.SelectionCheckboxes, PropertyNameSingular: "tag", PropertyNamePlural: "tags",
			Options: []models.ComboboxOption{option("tags", "Bug"), option("tags", "Docs"), option("tags", "Feature")}},
		{ID: "title", SelectionType: models.SelectionText, PropertyNameSingular: "title", PropertyNamePlural: "titles"},
	}
	rows := []models.Record{
		{ID: "1", Fields: map[string][]string{"status": {"Open"}, "tags": {"Bug"}, "title": {"Crash on save"}}},
		{ID: "2", Fields: map[string][]string{"status": {"Completed"}, "tags": {"Docs", "Bug"}, "title": {"Update README"}}},
		{ID: "3", Fields: map[string][]string{"status": {"Open"}, "tags": {"Feature"}, "title": {"Add export"}}},
	}
	return filtering.New(rows, categories, filtering.Options[models.Record]{
		RowID:     source.RecordID,
		RowKey:    filter.RecordSignature,
		Predicate: source.RecordPredicate,
		Text:      source.RecordText,
		Memoize:   true,
	})
}

func visible(s *filtering.Store[models.Record]) []string {
	var out []string
	for _, r := range s.FilteredRows() {
		out = append(out, r.ID)
	}
	return out
}

func TestDecode(t *testing.T) {
	resp, err := Decode([]byte(`{
		"filters": [
			{"columnName": "Status", "columnType": "radio", "values": ["open"], "isNegation": false},
			{"columnName": "tags", "columnType": "checkboxes", "values": ["Bug", "Docs"], "isNegation": true}
		],
		"matchType": "ANY"
	}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(resp.Filters) != 2 || resp.MatchType != models.MatchAny {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if !resp.Filters[1].IsNegation || !slices.Equal(resp.Filters[1].Values, []string{"Bug", "Docs"}) {
		t.Errorf("unexpected second filter: %+v", resp.Filters[1])
	}
}

func TestDecode_Defaults(t *testing.T) {
	resp, err := Decode([]byte(`{"filters": []}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if resp.MatchType != models.MatchAll {
		t.Errorf("expected default match type all, got %q", resp.MatchType)
	}

	if _, err := Decode([]byte(`{"matchType": "most"}`)); !errors.Is(err, filtering.ErrInvalidMatchType) {
		t.Errorf("expected ErrInvalidMatchType, got %v", err)
	}
	if _, err := Decode([]byte(`not json`)); err == nil {
		t.Error("expected parse error")
	}
}

func TestApply(t *testing.T) {
	s := newTestStore()
	resp := &Response{
		Filters: []Filter{
			{ColumnName: "STATUS", Values: []string{"open"}},
			{ColumnName: "tag", Values: []string{"feature", "Bug", "bug"}},
		},
		MatchType: models.MatchAll,
	}

	added, warnings, err := Apply(resp, s)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if len(added) != 2 {
		t.Fatalf("expected 2 filters, got %d", len(added))
	}
	if added[0].Relationship != models.RelIs {
		t.Errorf("expected %q, got %q", models.RelIs, added[0].Relationship)
	}
	if len(added[1].Values) != 2 || added[1].Relationship != models.RelIncludeAnyOf {
		t.Errorf("expected deduplicated multi-value include any of, got %+v", added[1])
	}
	if got := visible(s); !slices.Equal(got, []string{"1", "3"}) {
		t.Errorf("expected rows [1 3], got %v", got)
	}
}

func TestApply_Negation(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		rel    models.Relationship
		rows   []string
	}{
		{"radio", Filter{ColumnName: "status", Values: []string{"Open"}, IsNegation: true}, models.RelIsNot, []string{"2"}},
		{"single checkbox", Filter{ColumnName: "tags", Values: []string{"Bug"}, IsNegation: true}, models.RelDoNotInclude, []string{"3"}},
		{"multi checkbox", Filter{ColumnName: "tags", Values: []string{"Docs", "Feature"}, IsNegation: true}, models.RelExcludeIfAnyOf, []string{"1"}},
		{"text", Filter{ColumnName: "titles", Values: []string{"readme"}, IsNegation: true}, models.RelDoesNotContain, []string{"1", "3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore()
			added, _, err := Apply(&Response{Filters: []Filter{tt.filter}, MatchType: models.MatchAll}, s)
			if err != nil {
				t.Fatalf("Apply failed: %v", err)
			}
			if len(added) != 1 || added[0].Relationship != tt.rel {
				t.Fatalf("expected relationship %q, got %+v", tt.rel, added)
			}
			if got := visible(s); !slices.Equal(got, tt.rows) {
				t.Errorf("expected rows %v, got %v", tt.rows, got)
			}
		})
	}
}

func TestApply_SkipsUnknown(t *testing.T) {
	s := newTestStore()
	resp := &Response{
		Filters: []Filter{
			{ColumnName: "assignee", Values: []string{"ann"}},
			{ColumnName: "status", Values: []string{"Archived"}},
			{ColumnName: "title", Values: []string{"  "}},
			{ColumnName: "title", Values: []string{"crash", "save"}},
		},
		MatchType: models.MatchAny,
	}

	added, warnings, err := Apply(resp, s)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if len(warnings) != 3 {
		t.Errorf("expected 3 warnings, got %v", warnings)
	}
	if len(added) != 1 || added[0].TextValue != "crash save" {
		t.Fatalf("expected one text filter, got %+v", added)
	}
	if s.MatchType() != models.MatchAny {
		t.Errorf("expected match type any, got %q", s.MatchType())
	}
	if got := visible(s); len(got) != 0 {
		t.Errorf("expected no rows to contain %q, got %v", "crash save", got)
	}
}

func TestApply_TextColumnType(t *testing.T) {
	s := newTestStore()
	resp := &Response{
		Filters: []Filter{
			{ColumnName: "status", ColumnType: "text", Values: []string{"plet"}, IsNegation: true},
			{ColumnName: "tags", ColumnType: "TEXT", Values: []string{"feat"}},
		},
		MatchType: models.MatchAll,
	}

	added, warnings, err := Apply(resp, s)
	if err != nil || len(warnings) != 0 {
		t.Fatalf("Apply failed: %v %v", err, warnings)
	}
	if len(added) != 2 {
		t.Fatalf("expected 2 filters, got %+v", added)
	}
	if added[0].SelectionType != models.SelectionText || added[0].Relationship != models.RelDoesNotContain {
		t.Errorf("expected negated substring filter on status, got %+v", added[0])
	}
	if added[1].Describe() != `tag contains "feat"` {
		t.Errorf("unexpected description %q", added[1].Describe())
	}
	if got := visible(s); !slices.Equal(got, []string{"3"}) {
		t.Errorf("expected row 3, got %v", got)
	}
}
