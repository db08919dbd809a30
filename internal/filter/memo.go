package filter

import (
	"strings"
	"sync"

	"github.com/rebeliceyang/lazyfilter/internal/models"
)

// IDFunc returns a row's stable identity
type IDFunc[T any] func(row T) string

// KeyFunc returns a row's content signature. It must return the same string
// for unchanged content and a different one once content changes; a key that
// stays the same across a content change yields stale results, and a key that
// changes for unchanged content only orphans cache entries until the row is
// evaluated again.
type KeyFunc[T any] func(row T) string

// CacheStats summarizes the memoization cache
type CacheStats struct {
	Rows             int    // distinct row entries cached
	FilterSignatures int    // distinct filter signatures seen across rows
	Entries          int    // total cached (row, filter) results
	Hits             uint64 // lookups answered from cache
	Misses           uint64 // lookups that ran the evaluator
}

// MemoizedFilterSystem caches per-(row, filter) results keyed by content
// signatures rather than identity. It is safe for concurrent use.
type MemoizedFilterSystem[T any] struct {
	mu        sync.Mutex
	evaluator *Evaluator[T]
	rowID     IDFunc[T]
	rowKey    KeyFunc[T]

	// "{rowID}:{rowSignature}" -> filter signature -> result
	results map[string]map[string]bool
	// rowID -> outer key last seen for that row
	current map[string]string

	hits   uint64
	misses uint64
}

// NewMemoizedFilterSystem wraps an evaluator with a result cache
func NewMemoizedFilterSystem[T any](evaluator *Evaluator[T], rowID IDFunc[T], rowKey KeyFunc[T]) *MemoizedFilterSystem[T] {
	return &MemoizedFilterSystem[T]{
		evaluator: evaluator,
		rowID:     rowID,
		rowKey:    rowKey,
		results:   make(map[string]map[string]bool),
		current:   make(map[string]string),
	}
}

// Evaluate returns FilterRow(row, f), computing it only when this row content
// and filter signature have not been seen together before.
func (m *MemoizedFilterSystem[T]) Evaluate(row T, f models.AppliedFilter) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.evaluateLocked(m.rowEntry(row), row, f)
}

// FilterRowByMatchType is FilterRowByMatchType with every filter going through the cache
func (m *MemoizedFilterSystem[T]) FilterRowByMatchType(row T, filters []models.AppliedFilter, mt models.MatchType) bool {
	if len(filters) == 0 {
		return true
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entry := m.rowEntry(row)
	return combine(filters, mt, func(f models.AppliedFilter) bool {
		return m.evaluateLocked(entry, row, f)
	})
}

// rowEntry returns the inner result map for row, dropping the entry cached
// under the row's previous content signature.
func (m *MemoizedFilterSystem[T]) rowEntry(row T) map[string]bool {
	id := m.rowID(row)
	key := escapeSignature(id) + ":" + m.rowKey(row)

	if prev, ok := m.current[id]; ok && prev != key {
		delete(m.results, prev)
	}
	m.current[id] = key

	entry, ok := m.results[key]
	if !ok {
		entry = make(map[string]bool)
		m.results[key] = entry
	}
	return entry
}

func (m *MemoizedFilterSystem[T]) evaluateLocked(entry map[string]bool, row T, f models.AppliedFilter) bool {
	sig := FilterSignature(f)
	if result, ok := entry[sig]; ok {
		m.hits++
		return result
	}

	m.misses++
	result := m.evaluator.FilterRow(row, f)
	entry[sig] = result
	return result
}

// ClearCache drops every cached result
func (m *MemoizedFilterSystem[T]) ClearCache() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.results = make(map[string]map[string]bool)
	m.current = make(map[string]string)
	m.hits, m.misses = 0, 0
}

// ClearFilterCache removes the results of every signature of filterID across all rows
func (m *MemoizedFilterSystem[T]) ClearFilterCache(filterID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prefix := filterSignaturePrefix(filterID)
	for _, entry := range m.results {
		for sig := range entry {
			if strings.HasPrefix(sig, prefix) {
				delete(entry, sig)
			}
		}
	}
}

// ClearRowCache removes the cached results of one row
func (m *MemoizedFilterSystem[T]) ClearRowCache(rowID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if key, ok := m.current[rowID]; ok {
		delete(m.results, key)
		delete(m.current, rowID)
	}
}

// CacheStats returns cache counters
func (m *MemoizedFilterSystem[T]) CacheStats() CacheStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := CacheStats{
		Rows:   len(m.results),
		Hits:   m.hits,
		Misses: m.misses,
	}
	seen := make(map[string]struct{})
	for _, entry := range m.results {
		stats.Entries += len(entry)
		for sig := range entry {
			seen[sig] = struct{}{}
		}
	}
	stats.FilterSignatures = len(seen)
	return stats
}
