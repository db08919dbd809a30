package filter

import (
	"fmt"
	"slices"

	"github.com/rebeliceyang/lazyfilter/internal/models"
)

// MultiValuePolicy picks the relationship for a filter created with 2+ values at once
type MultiValuePolicy string

const (
	MultiValueAnyOf MultiValuePolicy = "any_of"
	MultiValueAllOf MultiValuePolicy = "all_of"
)

// ParseMultiValuePolicy converts a config string to a policy
func ParseMultiValuePolicy(s string) (MultiValuePolicy, error) {
	switch MultiValuePolicy(s) {
	case MultiValueAnyOf, MultiValueAllOf:
		return MultiValuePolicy(s), nil
	default:
		return "", fmt.Errorf("unknown multi-value policy: %q", s)
	}
}

// GetRelationshipsForType returns the legal relationships for a selection type
// and number of selected values. An empty filter accepts every relationship of
// its type since it never hides rows. Nil means nothing is legal.
func GetRelationshipsForType(st models.SelectionType, count int) []models.Relationship {
	switch st {
	case models.SelectionRadio:
		switch {
		case count == 0:
			return []models.Relationship{models.RelIs, models.RelIsNot, models.RelIsAnyOf}
		case count == 1:
			return []models.Relationship{models.RelIs, models.RelIsNot}
		default:
			return []models.Relationship{models.RelIsAnyOf, models.RelIsNot}
		}
	case models.SelectionCheckboxes:
		switch {
		case count == 0:
			return []models.Relationship{
				models.RelInclude, models.RelDoNotInclude,
				models.RelIncludeAllOf, models.RelIncludeAnyOf,
				models.RelExcludeIfAnyOf, models.RelExcludeIfAll,
			}
		case count == 1:
			return []models.Relationship{models.RelInclude, models.RelDoNotInclude}
		default:
			return []models.Relationship{
				models.RelIncludeAllOf, models.RelIncludeAnyOf,
				models.RelExcludeIfAnyOf, models.RelExcludeIfAll,
			}
		}
	case models.SelectionText:
		if count > 1 {
			return nil
		}
		return []models.Relationship{models.RelContains, models.RelDoesNotContain}
	default:
		return nil
	}
}

// IsLegal reports whether rel is allowed for the selection type and value count
func IsLegal(st models.SelectionType, count int, rel models.Relationship) bool {
	return slices.Contains(GetRelationshipsForType(st, count), rel)
}

// DefaultRelationship is the relationship a fresh filter starts with
func DefaultRelationship(st models.SelectionType, count int, policy MultiValuePolicy) models.Relationship {
	switch st {
	case models.SelectionRadio:
		if count > 1 {
			return models.RelIsAnyOf
		}
		return models.RelIs
	case models.SelectionCheckboxes:
		if count > 1 {
			if policy == MultiValueAllOf {
				return models.RelIncludeAllOf
			}
			return models.RelIncludeAnyOf
		}
		return models.RelInclude
	default:
		return models.RelContains
	}
}

// Resolver computes relationship transitions when a filter's values change
type Resolver struct {
	MultiValueDefault MultiValuePolicy
}

// NewResolver creates a resolver with the given multi-value creation policy
func NewResolver(policy MultiValuePolicy) *Resolver {
	if policy == "" {
		policy = MultiValueAnyOf
	}
	return &Resolver{MultiValueDefault: policy}
}

// ResolveRelationship uses the any-of creation policy
func ResolveRelationship(f models.AppliedFilter, newValues []models.ComboboxOption) models.Relationship {
	return NewResolver(MultiValueAnyOf).Resolve(f, newValues)
}

// Resolve returns the relationship f should have once its values become newValues.
// Rules apply in order: same size keeps the relationship, a filter with no
// previous values takes the default, shrinking to one value maps to the
// single-value analog and growing to several maps to the multi-value analog.
// TEXT filters carry a search string rather than values and keep their relationship.
func (r *Resolver) Resolve(f models.AppliedFilter, newValues []models.ComboboxOption) models.Relationship {
	oldCount, newCount := len(f.Values), len(newValues)

	switch {
	case f.IsText(), newCount == oldCount:
		return f.Relationship
	case oldCount == 0:
		return DefaultRelationship(f.SelectionType, newCount, r.MultiValueDefault)
	case newCount == 1:
		return toSingleValue(f.Relationship)
	case newCount > 1:
		return toMultiValue(f.Relationship)
	default:
		// all values removed; an empty filter matches everything whatever its relationship
		return f.Relationship
	}
}

// toSingleValue maps a relationship to its nearest single-value analog
func toSingleValue(rel models.Relationship) models.Relationship {
	switch rel {
	case models.RelIncludeAllOf, models.RelIncludeAnyOf:
		return models.RelInclude
	case models.RelExcludeIfAnyOf, models.RelExcludeIfAll:
		return models.RelDoNotInclude
	case models.RelIsAnyOf:
		return models.RelIs
	case models.RelIs, models.RelIsNot,
		models.RelInclude, models.RelDoNotInclude,
		models.RelContains, models.RelDoesNotContain:
		return rel
	}
	panic(fmt.Sprintf("filter: no single-value mapping for relationship %q", rel))
}

// toMultiValue maps a relationship to its nearest multi-value analog
func toMultiValue(rel models.Relationship) models.Relationship {
	switch rel {
	case models.RelIs:
		return models.RelIsAnyOf
	case models.RelInclude:
		return models.RelIncludeAllOf
	case models.RelDoNotInclude:
		return models.RelExcludeIfAnyOf
	case models.RelIsNot, models.RelIsAnyOf,
		models.RelIncludeAllOf, models.RelIncludeAnyOf,
		models.RelExcludeIfAnyOf, models.RelExcludeIfAll,
		models.RelContains, models.RelDoesNotContain:
		return rel
	}
	panic(fmt.Sprintf("filter: no multi-value mapping for relationship %q", rel))
}
