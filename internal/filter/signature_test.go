package filter

import (
	"testing"

	"github.com/rebeliceyang/lazyfilter/internal/models"
)

func TestContentSignature_OrderIndependent(t *testing.T) {
	a := ContentSignature(map[string]any{"status": "Open", "tags": []string{"Bug", "Docs"}})
	b := ContentSignature(map[string]any{"tags": []string{"Docs", "Bug"}, "status": "Open"})
	if a != b {
		t.Errorf("expected equal signatures, got %q and %q", a, b)
	}
}

func TestContentSignature_DistinguishesContent(t *testing.T) {
	pairs := [][2]map[string]any{
		{{"status": "Open"}, {"status": "Closed"}},
		{{"tags": []string{"a,b"}}, {"tags": []string{"a", "b"}}},
		{{"tags": "a"}, {"tags": []string{"a"}}},
		{{"a": "x|b=y"}, {"a": "x", "b": "y"}},
		{{"k": `x\`}, {"k": "x"}},
	}
	for _, p := range pairs {
		if ContentSignature(p[0]) == ContentSignature(p[1]) {
			t.Errorf("signature collision between %v and %v: %q", p[0], p[1], ContentSignature(p[0]))
		}
	}
}

func TestContentSignature_Scalars(t *testing.T) {
	got := ContentSignature(map[string]any{"n": 3, "ok": true, "missing": nil})
	want := "missing=|n=3|ok=true"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestRecordSignature(t *testing.T) {
	r1 := models.Record{ID: "1", Fields: map[string][]string{"tags": {"b", "a"}, "status": {"Open"}}}
	r2 := models.Record{ID: "1", Fields: map[string][]string{"status": {"Open"}, "tags": {"a", "b"}}}
	if RecordSignature(r1) != RecordSignature(r2) {
		t.Error("expected record signatures to match")
	}
}

func TestFilterSignature(t *testing.T) {
	f := checkboxes("f1", models.RelIncludeAnyOf, "Docs", "Bug")
	if got, want := FilterSignature(f), "f1:include any of:Bug,Docs"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	reordered := checkboxes("f1", models.RelIncludeAnyOf, "Bug", "Docs")
	if FilterSignature(f) != FilterSignature(reordered) {
		t.Error("value order should not change the signature")
	}

	versioned := f.Clone()
	versioned.CacheVersion = 9
	if FilterSignature(f) != FilterSignature(versioned) {
		t.Error("cache version should not change the signature")
	}

	grown := checkboxes("f1", models.RelIncludeAnyOf, "Docs", "Bug", "Perf")
	if FilterSignature(f) == FilterSignature(grown) {
		t.Error("added value should change the signature")
	}

	tf := text("t1", models.RelContains, "a:b")
	if got, want := FilterSignature(tf), `t1:contains:a\:b`; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
