// Package nlquery turns the structured output of a natural-language filter
// resolver into filters on a filtering.Store.
package nlquery

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rebeliceyang/lazyfilter/internal/filtering"
	"github.com/rebeliceyang/lazyfilter/internal/models"
)

// Filter is one resolved filter instruction
type Filter struct {
	ColumnName string   `json:"columnName"`
	ColumnType string   `json:"columnType"`
	Values     []string `json:"values"`
	IsNegation bool     `json:"isNegation"`
}

// Response is the resolver payload
type Response struct {
	Filters   []Filter         `json:"filters"`
	MatchType models.MatchType `json:"matchType"`
}

// Decode parses a resolver response. A missing match type means "all".
func Decode(data []byte) (*Response, error) {
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse resolver response: %w", err)
	}

	switch models.MatchType(strings.ToLower(string(resp.MatchType))) {
	case "", models.MatchAll:
		resp.MatchType = models.MatchAll
	case models.MatchAny:
		resp.MatchType = models.MatchAny
	default:
		return nil, fmt.Errorf("%w: %q", filtering.ErrInvalidMatchType, resp.MatchType)
	}

	return &resp, nil
}

// Target is the part of a filtering.Store that Apply drives
type Target interface {
	Categories() []models.FilterOption
	AddFilter(in filtering.FilterInput) (models.AppliedFilter, error)
	SetMatchType(mt models.MatchType) error
}

// Apply adds one filter per resolvable instruction and sets the match type.
// Columns and values that match nothing are skipped; each skip is returned
// as a warning. A "text" column type asks for a substring filter on any
// column; other column types defer to the category.
func Apply(resp *Response, target Target) (added []models.AppliedFilter, warnings []string, err error) {
	categories := target.Categories()

	for _, nf := range resp.Filters {
		cat, ok := findCategory(categories, nf.ColumnName)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown column %q", nf.ColumnName))
			continue
		}

		st := cat.SelectionType
		in := filtering.FilterInput{CategoryID: cat.ID}
		if strings.EqualFold(nf.ColumnType, string(models.SelectionText)) {
			st = models.SelectionText
			in.AsText = cat.SelectionType != models.SelectionText
		}
		if st == models.SelectionText {
			in.TextValue = strings.TrimSpace(strings.Join(nf.Values, " "))
			if in.TextValue == "" {
				warnings = append(warnings, fmt.Sprintf("no text for column %q", nf.ColumnName))
				continue
			}
		} else {
			for _, v := range nf.Values {
				opt, ok := findValue(cat, v)
				if !ok {
					warnings = append(warnings, fmt.Sprintf("unknown value %q for column %q", v, nf.ColumnName))
					continue
				}
				if !containsOption(in.Values, opt.ID) {
					in.Values = append(in.Values, opt)
				}
			}
			if len(in.Values) == 0 {
				continue
			}
		}
		if nf.IsNegation {
			in.Relationship = negation(st, len(in.Values))
		}

		f, err := target.AddFilter(in)
		if err != nil {
			return added, warnings, fmt.Errorf("failed to add filter for column %q: %w", nf.ColumnName, err)
		}
		added = append(added, f)
	}

	if err := target.SetMatchType(resp.MatchType); err != nil {
		return added, warnings, err
	}
	return added, warnings, nil
}

// negation picks the negative relationship for a selection type and value count
func negation(st models.SelectionType, count int) models.Relationship {
	switch st {
	case models.SelectionRadio:
		return models.RelIsNot
	case models.SelectionCheckboxes:
		if count > 1 {
			return models.RelExcludeIfAnyOf
		}
		return models.RelDoNotInclude
	default:
		return models.RelDoesNotContain
	}
}

func findCategory(categories []models.FilterOption, column string) (models.FilterOption, bool) {
	column = strings.TrimSpace(column)
	for _, c := range categories {
		if strings.EqualFold(c.ID, column) ||
			strings.EqualFold(c.PropertyNameSingular, column) ||
			strings.EqualFold(c.PropertyNamePlural, column) {
			return c, true
		}
	}
	return models.FilterOption{}, false
}

func findValue(cat models.FilterOption, value string) (models.ComboboxOption, bool) {
	value = strings.TrimSpace(value)
	for _, opt := range cat.Options {
		if strings.EqualFold(opt.Value, value) || strings.EqualFold(opt.Label, value) {
			return opt, true
		}
	}
	return models.ComboboxOption{}, false
}

func containsOption(opts []models.ComboboxOption, id string) bool {
	for _, o := range opts {
		if o.ID == id {
			return true
		}
	}
	return false
}
