// Package filtering holds the filter state of a grid and derives the visible
// rows from it. A Store is the only thing a UI layer talks to: it exposes the
// applied filters, categories, match type, the filtered rows and counts, and
// the operations that change them.
package filtering

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rebeliceyang/lazyfilter/internal/filter"
	"github.com/rebeliceyang/lazyfilter/internal/logging"
	"github.com/rebeliceyang/lazyfilter/internal/models"
)

var (
	ErrFilterNotFound      = errors.New("filter not found")
	ErrCategoryNotFound    = errors.New("filter category not found")
	ErrInvalidRelationship = errors.New("relationship not allowed for filter")
	ErrInvalidMatchType    = errors.New("invalid match type")
	ErrTextFilter          = errors.New("operation does not apply to this filter's selection type")
)

// Options configures a Store
type Options[T any] struct {
	RowID     filter.IDFunc[T]
	RowKey    filter.KeyFunc[T]
	Predicate filter.Predicate[T]
	Text      filter.TextFunc[T]

	MatchType        models.MatchType
	MultiValuePolicy filter.MultiValuePolicy
	// Memoize routes evaluation through a MemoizedFilterSystem
	Memoize bool
	Logger  *logging.Logger
}

// FilterInput describes a filter to add. An empty Relationship picks the default.
type FilterInput struct {
	CategoryID   string
	Values       []models.ComboboxOption
	TextValue    string
	Relationship models.Relationship
	// AsText builds a TEXT filter whatever the category's selection type
	AsText bool
}

type rowMatcher[T any] interface {
	FilterRowByMatchType(row T, filters []models.AppliedFilter, mt models.MatchType) bool
}

// Store is the filtering facade over a row set. It is safe for concurrent use.
type Store[T any] struct {
	mu sync.RWMutex

	rows       []T
	categories []models.FilterOption
	filters    []models.AppliedFilter
	matchType  models.MatchType
	filtered   []T
	clock      int64

	rowID    filter.IDFunc[T]
	resolver *filter.Resolver
	matcher  rowMatcher[T]
	memo     *filter.MemoizedFilterSystem[T]
	logger   *logging.Logger
	newID    func() string
}

// New creates a Store and computes the initial filtered rows
func New[T any](rows []T, categories []models.FilterOption, opts Options[T]) *Store[T] {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NopLogger()
	}
	logger = logger.WithComponent("filtering")

	mt := opts.MatchType
	if mt != models.MatchAny {
		mt = models.MatchAll
	}

	evaluatorOpts := []filter.EvaluatorOption[T]{
		filter.WithReporter[T](filter.LogReporter{Logger: logger}),
	}
	if opts.Text != nil {
		evaluatorOpts = append(evaluatorOpts, filter.WithText(opts.Text))
	}
	evaluator := filter.NewEvaluator(opts.Predicate, evaluatorOpts...)

	s := &Store[T]{
		rows:       slices.Clone(rows),
		categories: slices.Clone(categories),
		matchType:  mt,
		rowID:      opts.RowID,
		resolver:   filter.NewResolver(opts.MultiValuePolicy),
		matcher:    evaluator,
		logger:     logger,
		newID:      func() string { return uuid.New().String() },
	}
	if opts.Memoize && opts.RowID != nil && opts.RowKey != nil {
		s.memo = filter.NewMemoizedFilterSystem(evaluator, opts.RowID, opts.RowKey)
		s.matcher = s.memo
	}

	s.recompute()
	return s
}

// Filters returns a copy of the applied filters in creation order
func (s *Store[T]) Filters() []models.AppliedFilter {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.AppliedFilter, len(s.filters))
	for i, f := range s.filters {
		out[i] = f.Clone()
	}
	return out
}

// Filter returns one applied filter by id
func (s *Store[T]) Filter(id string) (models.AppliedFilter, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.filters[i].Clone(), true
	}
	return models.AppliedFilter{}, false
}

// FiltersCreatedAfter returns filters whose logical creation time is after ts
func (s *Store[T]) FiltersCreatedAfter(ts int64) []models.AppliedFilter {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.AppliedFilter
	for _, f := range s.filters {
		if f.CreatedAt > ts {
			out = append(out, f.Clone())
		}
	}
	return out
}

// Clock returns the current logical time used for CreatedAt
func (s *Store[T]) Clock() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clock
}

// Categories returns the filterable categories
func (s *Store[T]) Categories() []models.FilterOption {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.categories)
}

// Category returns one category by id
func (s *Store[T]) Category(id string) (models.FilterOption, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.category(id)
}

func (s *Store[T]) category(id string) (models.FilterOption, bool) {
	for _, c := range s.categories {
		if c.ID == id {
			return c, true
		}
	}
	return models.FilterOption{}, false
}

// MatchType returns how filters combine
func (s *Store[T]) MatchType() models.MatchType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.matchType
}

// FilteredRows returns the rows passing the current filters, in row order
func (s *Store[T]) FilteredRows() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.filtered)
}

// TotalRowCount is the number of rows before filtering
func (s *Store[T]) TotalRowCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

// HiddenRowCount is the number of rows the filters hide
func (s *Store[T]) HiddenRowCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows) - len(s.filtered)
}

// CacheStats reports memoization counters; ok is false when memoization is off
func (s *Store[T]) CacheStats() (stats filter.CacheStats, ok bool) {
	if s.memo == nil {
		return filter.CacheStats{}, false
	}
	return s.memo.CacheStats(), true
}

// AddFilter creates a filter on a category. Options and property names are
// copied from the category so later category changes don't affect it.
func (s *Store[T]) AddFilter(in FilterInput) (models.AppliedFilter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat, ok := s.category(in.CategoryID)
	if !ok {
		return models.AppliedFilter{}, fmt.Errorf("%w: %s", ErrCategoryNotFound, in.CategoryID)
	}

	f := models.AppliedFilter{
		ID:                   s.newID(),
		CategoryID:           cat.ID,
		SelectionType:        cat.SelectionType,
		PropertyNameSingular: cat.PropertyNameSingular,
		PropertyNamePlural:   cat.PropertyNamePlural,
		Options:              slices.Clone(cat.Options),
	}
	if cat.SelectionType == models.SelectionText || in.AsText {
		f.SelectionType = models.SelectionText
		f.Options = nil
		if len(in.Values) > 0 {
			return models.AppliedFilter{}, fmt.Errorf("%w: text filter %s takes a text value", ErrTextFilter, cat.ID)
		}
		f.TextValue = in.TextValue
	} else {
		if in.TextValue != "" {
			return models.AppliedFilter{}, fmt.Errorf("%w: %s filter %s takes option values", ErrTextFilter, cat.SelectionType, cat.ID)
		}
		f.Values = slices.Clone(in.Values)
	}

	f.Relationship = filter.DefaultRelationship(f.SelectionType, f.ValueCount(), s.resolver.MultiValueDefault)
	if in.Relationship != "" {
		if !filter.IsLegal(f.SelectionType, f.ValueCount(), in.Relationship) {
			return models.AppliedFilter{}, fmt.Errorf("%w: %q with %d %s values", ErrInvalidRelationship, in.Relationship, f.ValueCount(), f.SelectionType)
		}
		f.Relationship = in.Relationship
	}

	s.clock++
	f.CreatedAt = s.clock
	s.filters = append(s.filters, f)
	s.logger.Debug("filter added", "filter_id", f.ID, "category", f.CategoryID, "relationship", string(f.Relationship))

	s.recompute()
	return f.Clone(), nil
}

// RemoveFilter deletes a filter and its cached results
func (s *Store[T]) RemoveFilter(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrFilterNotFound, id)
	}
	s.filters = slices.Delete(s.filters, i, i+1)
	if s.memo != nil {
		s.memo.ClearFilterCache(id)
	}

	s.recompute()
	return nil
}

// RemoveAllFilters deletes every filter
func (s *Store[T]) RemoveAllFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.memo != nil {
		for _, f := range s.filters {
			s.memo.ClearFilterCache(f.ID)
		}
	}
	s.filters = nil

	s.recompute()
}

// UpdateFilterValues replaces a filter's values and recomputes its
// relationship in the same update, so readers never see a relationship that
// doesn't fit the value count.
func (s *Store[T]) UpdateFilterValues(id string, values []models.ComboboxOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrFilterNotFound, id)
	}
	f := s.filters[i]
	if f.IsText() {
		return fmt.Errorf("%w: text filter %s has no option values", ErrTextFilter, id)
	}

	rel := s.resolver.Resolve(f, values)
	f.Values = slices.Clone(values)
	f.Relationship = rel
	f.CacheVersion++
	s.filters[i] = f

	s.recompute()
	return nil
}

// UpdateFilterText replaces the search string of a TEXT filter
func (s *Store[T]) UpdateFilterText(id, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrFilterNotFound, id)
	}
	if !s.filters[i].IsText() {
		return fmt.Errorf("%w: filter %s is not a text filter", ErrTextFilter, id)
	}
	s.filters[i].TextValue = text
	s.filters[i].CacheVersion++

	s.recompute()
	return nil
}

// UpdateFilterRelationship sets an operator the user picked. It must be legal
// for the filter's selection type and current value count.
func (s *Store[T]) UpdateFilterRelationship(id string, rel models.Relationship) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrFilterNotFound, id)
	}
	f := s.filters[i]
	if !filter.IsLegal(f.SelectionType, f.ValueCount(), rel) {
		return fmt.Errorf("%w: %q with %d %s values", ErrInvalidRelationship, rel, f.ValueCount(), f.SelectionType)
	}
	if f.Relationship == rel {
		return nil
	}
	s.filters[i].Relationship = rel
	s.filters[i].CacheVersion++

	s.recompute()
	return nil
}

// SetMatchType switches between ALL and ANY
func (s *Store[T]) SetMatchType(mt models.MatchType) error {
	if mt != models.MatchAll && mt != models.MatchAny {
		return fmt.Errorf("%w: %q", ErrInvalidMatchType, mt)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.matchType == mt {
		return nil
	}
	s.matchType = mt
	s.recompute()
	return nil
}

// ReplaceFilters swaps in a saved filter set. Each filter gets a fresh id and
// creation time; relationships that don't fit are reset to the default.
func (s *Store[T]) ReplaceFilters(filters []models.AppliedFilter, mt models.MatchType) error {
	if mt != models.MatchAll && mt != models.MatchAny {
		return fmt.Errorf("%w: %q", ErrInvalidMatchType, mt)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.memo != nil {
		for _, f := range s.filters {
			s.memo.ClearFilterCache(f.ID)
		}
	}

	next := make([]models.AppliedFilter, 0, len(filters))
	for _, in := range filters {
		f := in.Clone()
		f.ID = s.newID()
		s.clock++
		f.CreatedAt = s.clock
		f.CacheVersion = 0
		if !filter.IsLegal(f.SelectionType, f.ValueCount(), f.Relationship) {
			def := filter.DefaultRelationship(f.SelectionType, f.ValueCount(), s.resolver.MultiValueDefault)
			s.logger.Warn("saved filter relationship reset",
				"category", f.CategoryID, "relationship", string(f.Relationship), "default", string(def))
			f.Relationship = def
		}
		next = append(next, f)
	}
	s.filters = next
	s.matchType = mt

	s.recompute()
	return nil
}

// SetRows replaces the row set wholesale and drops the cache
func (s *Store[T]) SetRows(rows []T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rows = slices.Clone(rows)
	if s.memo != nil {
		s.memo.ClearCache()
	}
	s.recompute()
}

// UpsertRow replaces the row with the same id or appends it.
// Changed content is picked up by the row signature.
func (s *Store[T]) UpsertRow(row T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.rowID(row)
	if i := slices.IndexFunc(s.rows, func(r T) bool { return s.rowID(r) == id }); i >= 0 {
		s.rows[i] = row
	} else {
		s.rows = append(s.rows, row)
	}
	s.recompute()
}

// RemoveRow deletes a row and its cached results
func (s *Store[T]) RemoveRow(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.rows, func(r T) bool { return s.rowID(r) == id })
	if i < 0 {
		return false
	}
	s.rows = slices.Delete(s.rows, i, i+1)
	if s.memo != nil {
		s.memo.ClearRowCache(id)
	}
	s.recompute()
	return true
}

// SetCategories replaces the category catalog. Existing filters keep the
// snapshot they were created with.
func (s *Store[T]) SetCategories(categories []models.FilterOption) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = slices.Clone(categories)
}

func (s *Store[T]) indexOf(id string) int {
	return slices.IndexFunc(s.filters, func(f models.AppliedFilter) bool { return f.ID == id })
}

// recompute derives filtered rows from (rows, filters, matchType). Callers hold mu.
func (s *Store[T]) recompute() {
	start := time.Now()

	filtered := make([]T, 0, len(s.rows))
	for _, row := range s.rows {
		if s.matcher.FilterRowByMatchType(row, s.filters, s.matchType) {
			filtered = append(filtered, row)
		}
	}
	s.filtered = filtered

	s.logger.Debug("rows filtered",
		"filters", len(s.filters),
		"match_type", string(s.matchType),
		"visible", len(filtered),
		"total", len(s.rows),
		"duration_us", time.Since(start).Microseconds(),
	)
}
