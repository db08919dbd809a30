package models

import (
	"strings"
	"time"
)

// SelectionType describes how many values a row carries for a property
type SelectionType string

const (
	SelectionRadio      SelectionType = "radio"      // at most one value per row (status)
	SelectionCheckboxes SelectionType = "checkboxes" // several values per row (tags)
	SelectionText       SelectionType = "text"       // free-form substring match
)

// Relationship represents a filter comparison operator
type Relationship string

const (
	RelIs             Relationship = "is"
	RelIsNot          Relationship = "is not"
	RelIsAnyOf        Relationship = "is any of"
	RelInclude        Relationship = "include"
	RelDoNotInclude   Relationship = "do not include"
	RelIncludeAllOf   Relationship = "include all of"
	RelIncludeAnyOf   Relationship = "include any of"
	RelExcludeIfAnyOf Relationship = "exclude if any of"
	RelExcludeIfAll   Relationship = "exclude if all"
	RelContains       Relationship = "contains"
	RelDoesNotContain Relationship = "does not contain"
)

// AllRelationships lists every declared relationship
func AllRelationships() []Relationship {
	return []Relationship{
		RelIs, RelIsNot, RelIsAnyOf,
		RelInclude, RelDoNotInclude, RelIncludeAllOf, RelIncludeAnyOf,
		RelExcludeIfAnyOf, RelExcludeIfAll,
		RelContains, RelDoesNotContain,
	}
}

// IsNegative reports whether the relationship hides rows that match its values
func (r Relationship) IsNegative() bool {
	switch r {
	case RelIsNot, RelDoNotInclude, RelExcludeIfAnyOf, RelExcludeIfAll, RelDoesNotContain:
		return true
	}
	return false
}

// MatchType decides how a list of filters combines
type MatchType string

const (
	MatchAll MatchType = "all"
	MatchAny MatchType = "any"
)

// ComboboxOption is one selectable value of a filter category.
// ID is the identity used for selection membership, Value is what rows are compared against.
type ComboboxOption struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
	Value string `yaml:"value" json:"value"`
}

// FilterOption describes a filterable property (a category / column)
type FilterOption struct {
	ID                   string           `yaml:"id" json:"id"`
	SelectionType        SelectionType    `yaml:"selection_type" json:"selectionType"`
	PropertyNameSingular string           `yaml:"property_name_singular" json:"propertyNameSingular"`
	PropertyNamePlural   string           `yaml:"property_name_plural" json:"propertyNamePlural"`
	Options              []ComboboxOption `yaml:"options" json:"options"`
}

// FindOption returns the option with the given id
func (c FilterOption) FindOption(id string) (ComboboxOption, bool) {
	for _, opt := range c.Options {
		if opt.ID == id {
			return opt, true
		}
	}
	return ComboboxOption{}, false
}

// AppliedFilter is a live, user-constructed filter on one property.
//
// SelectionType, property names and Options are copied from the category when
// the filter is created so the filter keeps working if categories change later.
type AppliedFilter struct {
	ID                   string           `yaml:"id" json:"id"`
	CreatedAt            int64            `yaml:"created_at" json:"createdAt"`
	CategoryID           string           `yaml:"category_id" json:"categoryId"`
	SelectionType        SelectionType    `yaml:"selection_type" json:"selectionType"`
	PropertyNameSingular string           `yaml:"property_name_singular" json:"propertyNameSingular"`
	PropertyNamePlural   string           `yaml:"property_name_plural" json:"propertyNamePlural"`
	Options              []ComboboxOption `yaml:"options,omitempty" json:"options,omitempty"`
	Values               []ComboboxOption `yaml:"values" json:"values"`
	Relationship         Relationship     `yaml:"relationship" json:"relationship"`
	TextValue            string           `yaml:"text_value,omitempty" json:"textValue,omitempty"`

	// CacheVersion is bumped whenever matching semantics change. It is an
	// invalidation signal only and never part of the filter's identity.
	CacheVersion int `yaml:"-" json:"-"`
}

// IsText reports whether the filter is a free-text filter
func (f AppliedFilter) IsText() bool {
	return f.SelectionType == SelectionText
}

// IsEmpty reports whether the filter selects nothing and so matches every row
func (f AppliedFilter) IsEmpty() bool {
	return f.ValueCount() == 0
}

// ValueCount is the number of selected values used to pick the legal
// relationship set. A text filter counts its search string as one value.
func (f AppliedFilter) ValueCount() int {
	if f.IsText() && f.TextValue != "" {
		return 1
	}
	return len(f.Values)
}

// SearchText returns the text a TEXT filter searches for
func (f AppliedFilter) SearchText() string {
	if f.TextValue != "" {
		return f.TextValue
	}
	if len(f.Values) > 0 {
		return f.Values[0].Value
	}
	return ""
}

// HasValue reports whether the option id is currently selected
func (f AppliedFilter) HasValue(optionID string) bool {
	for _, v := range f.Values {
		if v.ID == optionID {
			return true
		}
	}
	return false
}

// Describe renders the filter as a short phrase such as
// "status is Completed" or "tags include all of Bug, Docs"
func (f AppliedFilter) Describe() string {
	name := f.PropertyNameSingular
	if f.SelectionType == SelectionCheckboxes || f.ValueCount() > 1 {
		name = f.PropertyNamePlural
	}
	if name == "" {
		name = f.CategoryID
	}
	if f.IsEmpty() {
		return name + ": any"
	}
	if f.IsText() {
		return name + " " + string(f.Relationship) + " \"" + f.SearchText() + "\""
	}

	labels := make([]string, len(f.Values))
	for i, v := range f.Values {
		labels[i] = v.Label
		if labels[i] == "" {
			labels[i] = v.Value
		}
	}
	return name + " " + string(f.Relationship) + " " + strings.Join(labels, ", ")
}

// Clone returns a deep copy so callers can't mutate shared slices
func (f AppliedFilter) Clone() AppliedFilter {
	out := f
	if f.Options != nil {
		out.Options = append([]ComboboxOption(nil), f.Options...)
	}
	if f.Values != nil {
		out.Values = append([]ComboboxOption(nil), f.Values...)
	}
	return out
}

// Preset is a named, saved set of filters
type Preset struct {
	ID          string          `yaml:"id" json:"id"`
	Name        string          `yaml:"name" json:"name"`
	Description string          `yaml:"description" json:"description"`
	Filters     []AppliedFilter `yaml:"filters" json:"filters"`
	MatchType   MatchType       `yaml:"match_type" json:"match_type"`
	Tags        []string        `yaml:"tags" json:"tags"`
	CreatedAt   time.Time       `yaml:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `yaml:"updated_at" json:"updated_at"`
	LastUsed    time.Time       `yaml:"last_used" json:"last_used"`
	UsageCount  int             `yaml:"usage_count" json:"usage_count"`
}
