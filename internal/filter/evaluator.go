package filter

import (
	"strings"

	"github.com/rebeliceyang/lazyfilter/internal/logging"
	"github.com/rebeliceyang/lazyfilter/internal/models"
	"golang.org/x/text/cases"
)

// Predicate reports whether row carries the selected option value for the
// filter's property (for example row.status == v.Value).
type Predicate[T any] func(row T, f models.AppliedFilter, v models.ComboboxOption) bool

// TextFunc returns the row text a TEXT filter searches in
type TextFunc[T any] func(row T, f models.AppliedFilter) string

// Anomaly describes a filter the evaluator could not apply. The row is kept visible.
type Anomaly struct {
	FilterID      string
	SelectionType models.SelectionType
	Relationship  models.Relationship
	ValueCount    int
	Reason        string
}

// Reporter receives fail-open diagnostics
type Reporter interface {
	ReportAnomaly(a Anomaly)
}

// LogReporter reports anomalies as WARN log entries
type LogReporter struct {
	Logger *logging.Logger
}

func (r LogReporter) ReportAnomaly(a Anomaly) {
	r.Logger.Warn("filter ignored",
		"filter_id", a.FilterID,
		"selection_type", string(a.SelectionType),
		"relationship", string(a.Relationship),
		"value_count", a.ValueCount,
		"reason", a.Reason,
	)
}

type nopReporter struct{}

func (nopReporter) ReportAnomaly(Anomaly) {}

// Evaluator applies filters to rows of type T
type Evaluator[T any] struct {
	predicate Predicate[T]
	text      TextFunc[T]
	reporter  Reporter
}

// EvaluatorOption configures an Evaluator
type EvaluatorOption[T any] func(*Evaluator[T])

// WithText sets the text getter used by CONTAINS / DOES_NOT_CONTAIN
func WithText[T any](fn TextFunc[T]) EvaluatorOption[T] {
	return func(e *Evaluator[T]) { e.text = fn }
}

// WithReporter sets where fail-open diagnostics go
func WithReporter[T any](r Reporter) EvaluatorOption[T] {
	return func(e *Evaluator[T]) {
		if r != nil {
			e.reporter = r
		}
	}
}

// NewEvaluator creates an evaluator around a per-value predicate.
// Without WithText, TEXT filters hand the search string to the predicate as
// an option whose Value is the text.
func NewEvaluator[T any](predicate Predicate[T], opts ...EvaluatorOption[T]) *Evaluator[T] {
	e := &Evaluator[T]{
		predicate: predicate,
		reporter:  nopReporter{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FilterRow evaluates one filter against one row with a bare predicate
func FilterRow[T any](row T, f models.AppliedFilter, predicate Predicate[T]) bool {
	return NewEvaluator(predicate).FilterRow(row, f)
}

// FilterRowByMatchType evaluates a filter list against one row with a bare predicate
func FilterRowByMatchType[T any](row T, filters []models.AppliedFilter, mt models.MatchType, predicate Predicate[T]) bool {
	return NewEvaluator(predicate).FilterRowByMatchType(row, filters, mt)
}

// FilterRow reports whether row passes f. Empty filters pass every row and
// filters in an inconsistent state fail open.
func (e *Evaluator[T]) FilterRow(row T, f models.AppliedFilter) bool {
	if f.IsEmpty() {
		return true
	}

	count := f.ValueCount()
	switch f.SelectionType {
	case models.SelectionRadio, models.SelectionCheckboxes, models.SelectionText:
	default:
		e.report(f, count, "unknown selection type")
		return true
	}
	if !IsLegal(f.SelectionType, count, f.Relationship) {
		e.report(f, count, "relationship not legal for selection type and value count")
		return true
	}

	switch f.Relationship {
	case models.RelIs:
		if len(f.Values) == 1 {
			return e.predicate(row, f, f.Values[0])
		}
		return e.anyMatch(row, f)
	case models.RelIsNot:
		return !e.anyMatch(row, f)
	case models.RelIsAnyOf, models.RelInclude, models.RelIncludeAnyOf:
		return e.anyMatch(row, f)
	case models.RelDoNotInclude, models.RelExcludeIfAnyOf:
		return !e.anyMatch(row, f)
	case models.RelIncludeAllOf:
		return e.allMatch(row, f)
	case models.RelExcludeIfAll:
		return !e.allMatch(row, f)
	case models.RelContains:
		return e.containsText(row, f)
	case models.RelDoesNotContain:
		return !e.containsText(row, f)
	}

	e.report(f, count, "unhandled relationship")
	return true
}

// FilterRowByMatchType combines filters with AND (MatchAll) or OR (MatchAny),
// stopping at the first deciding filter. No filters means the row passes.
func (e *Evaluator[T]) FilterRowByMatchType(row T, filters []models.AppliedFilter, mt models.MatchType) bool {
	return combine(filters, mt, func(f models.AppliedFilter) bool {
		return e.FilterRow(row, f)
	})
}

func combine(filters []models.AppliedFilter, mt models.MatchType, eval func(models.AppliedFilter) bool) bool {
	if len(filters) == 0 {
		return true
	}
	if mt == models.MatchAny {
		for _, f := range filters {
			if eval(f) {
				return true
			}
		}
		return false
	}
	for _, f := range filters {
		if !eval(f) {
			return false
		}
	}
	return true
}

func (e *Evaluator[T]) anyMatch(row T, f models.AppliedFilter) bool {
	for _, v := range f.Values {
		if e.predicate(row, f, v) {
			return true
		}
	}
	return false
}

func (e *Evaluator[T]) allMatch(row T, f models.AppliedFilter) bool {
	for _, v := range f.Values {
		if !e.predicate(row, f, v) {
			return false
		}
	}
	return true
}

func (e *Evaluator[T]) containsText(row T, f models.AppliedFilter) bool {
	needle := f.SearchText()
	if e.text == nil {
		return e.predicate(row, f, models.ComboboxOption{Label: needle, Value: needle})
	}
	return ContainsFold(e.text(row, f), needle)
}

// ContainsFold is a case-insensitive substring test using Unicode case folding
func ContainsFold(haystack, needle string) bool {
	fold := cases.Fold()
	return strings.Contains(fold.String(haystack), fold.String(needle))
}

func (e *Evaluator[T]) report(f models.AppliedFilter, count int, reason string) {
	e.reporter.ReportAnomaly(Anomaly{
		FilterID:      f.ID,
		SelectionType: f.SelectionType,
		Relationship:  f.Relationship,
		ValueCount:    count,
		Reason:        reason,
	})
}
