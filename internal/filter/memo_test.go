package filter

import (
	"fmt"
	"sync"
	"testing"

	"github.com/rebeliceyang/lazyfilter/internal/models"
)

func newTestMemo() *MemoizedFilterSystem[testRow] {
	return NewMemoizedFilterSystem(
		newTestEvaluator(),
		func(r testRow) string { return r.id },
		func(r testRow) string { return ContentSignature(rowFields(r)) },
	)
}

func TestMemo_TransparentToFilterRow(t *testing.T) {
	rows := []testRow{
		{id: "1", status: "Open", priority: "High", tags: []string{"Bug"}, title: "Crash on save"},
		{id: "2", status: "Completed", priority: "Low", tags: []string{"Docs", "Bug"}, title: "Update README"},
		{id: "3", status: "Blocked", priority: "Low", tags: nil, title: "Save dialog"},
	}
	filters := []models.AppliedFilter{
		radio("a", "status", models.RelIs, "Open"),
		radio("b", "status", models.RelIsNot, "Completed"),
		radio("c", "priority", models.RelIsAnyOf, "Low", "Medium"),
		checkboxes("d", models.RelIncludeAllOf, "Bug", "Docs"),
		checkboxes("e", models.RelExcludeIfAnyOf, "Docs", "Perf"),
		text("f", models.RelContains, "save"),
		radio("g", "status", models.RelIs, "Open", "Blocked"), // fails open
	}

	m := newTestMemo()
	e := newTestEvaluator()
	for pass := 0; pass < 3; pass++ {
		for _, row := range rows {
			for _, f := range filters {
				if got, want := m.Evaluate(row, f), e.FilterRow(row, f); got != want {
					t.Errorf("pass %d row %s filter %s: memo %v, direct %v", pass, row.id, f.ID, got, want)
				}
			}
			for _, mt := range []models.MatchType{models.MatchAll, models.MatchAny} {
				if got, want := m.FilterRowByMatchType(row, filters, mt), e.FilterRowByMatchType(row, filters, mt); got != want {
					t.Errorf("pass %d row %s %s: memo %v, direct %v", pass, row.id, mt, got, want)
				}
			}
		}
	}
}

func TestMemo_HitsOnEqualContentDifferentValue(t *testing.T) {
	m := newTestMemo()
	f := checkboxes("f", models.RelInclude, "Bug")

	m.Evaluate(testRow{id: "1", tags: []string{"Bug", "Docs"}}, f)
	// a fresh value with the same content in another order
	m.Evaluate(testRow{id: "1", tags: []string{"Docs", "Bug"}}, f)

	stats := m.CacheStats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("expected 1 hit and 1 miss, got %+v", stats)
	}
	if stats.Rows != 1 || stats.Entries != 1 {
		t.Errorf("expected a single cached row entry, got %+v", stats)
	}
}

func TestMemo_RowContentChangeInvalidates(t *testing.T) {
	m := newTestMemo()
	f := radio("f", "status", models.RelIs, "Open")

	if !m.Evaluate(testRow{id: "1", status: "Open"}, f) {
		t.Fatal("expected open row to match")
	}
	if m.Evaluate(testRow{id: "1", status: "Completed"}, f) {
		t.Fatal("changed row returned the result computed for old content")
	}

	stats := m.CacheStats()
	if stats.Rows != 1 {
		t.Errorf("stale row entry should be dropped, got %d rows", stats.Rows)
	}
}

func TestMemo_FilterChangeMisses(t *testing.T) {
	m := newTestMemo()
	row := testRow{id: "1", status: "Open"}
	f := radio("f", "status", models.RelIs, "Open")

	if !m.Evaluate(row, f) {
		t.Fatal("expected match")
	}
	f.Relationship = models.RelIsNot
	if m.Evaluate(row, f) {
		t.Fatal("relationship change must not reuse the cached result")
	}

	// bumping the cache version alone keeps the signature
	f.CacheVersion++
	m.Evaluate(row, f)
	if stats := m.CacheStats(); stats.Hits != 1 {
		t.Errorf("expected cache hit after version-only change, got %+v", stats)
	}
}

func TestMemo_ClearFilterCacheIsolation(t *testing.T) {
	m := newTestMemo()
	rows := []testRow{{id: "1", status: "Open"}, {id: "2", status: "Completed"}}
	keep := radio("keep", "status", models.RelIs, "Open")
	drop := radio("drop", "status", models.RelIsNot, "Open")
	// an id that starts with the dropped id must survive
	lookalike := radio("drop:2", "status", models.RelIs, "Completed")

	for _, row := range rows {
		m.Evaluate(row, keep)
		m.Evaluate(row, drop)
		m.Evaluate(row, lookalike)
	}
	if stats := m.CacheStats(); stats.Entries != 6 {
		t.Fatalf("expected 6 entries, got %+v", stats)
	}

	m.ClearFilterCache("drop")

	stats := m.CacheStats()
	if stats.Entries != 4 || stats.FilterSignatures != 2 {
		t.Errorf("expected only the dropped filter's entries removed, got %+v", stats)
	}

	before := stats.Hits
	for _, row := range rows {
		m.Evaluate(row, keep)
		m.Evaluate(row, lookalike)
	}
	if got := m.CacheStats().Hits - before; got != 4 {
		t.Errorf("expected 4 hits for surviving filters, got %d", got)
	}
}

func TestMemo_ClearRowCache(t *testing.T) {
	m := newTestMemo()
	f := radio("f", "status", models.RelIs, "Open")
	m.Evaluate(testRow{id: "1", status: "Open"}, f)
	m.Evaluate(testRow{id: "2", status: "Open"}, f)

	m.ClearRowCache("1")
	m.ClearRowCache("missing")

	stats := m.CacheStats()
	if stats.Rows != 1 || stats.Entries != 1 {
		t.Errorf("expected only row 2 cached, got %+v", stats)
	}
}

func TestMemo_ClearCache(t *testing.T) {
	m := newTestMemo()
	f := radio("f", "status", models.RelIs, "Open")
	m.Evaluate(testRow{id: "1", status: "Open"}, f)
	m.Evaluate(testRow{id: "1", status: "Open"}, f)

	m.ClearCache()

	if stats := m.CacheStats(); stats != (CacheStats{}) {
		t.Errorf("expected empty stats, got %+v", stats)
	}
}

func TestMemo_CacheStats(t *testing.T) {
	m := newTestMemo()
	f1 := radio("f1", "status", models.RelIs, "Open")
	f2 := checkboxes("f2", models.RelInclude, "Bug")

	for i := 0; i < 3; i++ {
		row := testRow{id: fmt.Sprint(i), status: "Open", tags: []string{"Bug"}}
		m.FilterRowByMatchType(row, []models.AppliedFilter{f1, f2}, models.MatchAll)
	}

	stats := m.CacheStats()
	if stats.Rows != 3 || stats.FilterSignatures != 2 || stats.Entries != 6 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestMemo_ConcurrentUse(t *testing.T) {
	m := newTestMemo()
	e := newTestEvaluator()
	filters := []models.AppliedFilter{
		radio("a", "status", models.RelIs, "Open"),
		checkboxes("b", models.RelIncludeAnyOf, "Bug", "Docs"),
	}

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				status := "Open"
				if (i+w)%3 == 0 {
					status = "Completed"
				}
				row := testRow{id: fmt.Sprint(i % 10), status: status, tags: []string{"Bug"}}
				if got, want := m.FilterRowByMatchType(row, filters, models.MatchAll), e.FilterRowByMatchType(row, filters, models.MatchAll); got != want {
					t.Errorf("worker %d row %s: memo %v, direct %v", w, row.id, got, want)
				}
				if i%50 == 0 {
					m.ClearFilterCache("a")
				}
			}
		}(w)
	}
	wg.Wait()
}
