package detect

import (
	"reflect"
	"strings"
	"testing"

	"github.com/Hyperpolymath/rescript-evangeliser/internal/catalog"
)

func textRule(t *testing.T, id string, confidence float64, pattern string) *catalog.PatternRule {
	t.Helper()
	tr, err := NewTextRule(pattern)
	if err != nil {
		t.Fatalf("NewTextRule(%q): %v", pattern, err)
	}
	return &catalog.PatternRule{
		ID:         id,
		Name:       id,
		Category:   catalog.CategoryNullSafety,
		Difficulty: catalog.DifficultyBeginner,
		Confidence: confidence,
		Detector:   tr,
	}
}

func funcRule(id string, confidence float64, f func(string) bool) *catalog.PatternRule {
	return &catalog.PatternRule{
		ID:         id,
		Name:       id,
		Category:   catalog.CategoryAsync,
		Difficulty: catalog.DifficultyBeginner,
		Confidence: confidence,
		Detector:   FuncRule(f),
	}
}

func registry(t *testing.T, rules ...*catalog.PatternRule) *catalog.Registry {
	t.Helper()
	reg, err := catalog.NewRegistry(rules)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return reg
}

func matchIDs(matches []Match) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.RuleID
	}
	return out
}

func TestDetectRanksByConfidence(t *testing.T) {
	reg := registry(t,
		textRule(t, "low", 0.3, `low`),
		textRule(t, "high", 0.9, `high`),
		textRule(t, "mid", 0.6, `mid`),
	)

	got := matchIDs(NewEngine(reg).Detect("low mid high"))
	want := []string{"high", "mid", "low"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
}

func TestDetectEqualConfidenceKeepsRegistryOrder(t *testing.T) {
	// The documented tie-break: two rules at the same weight surface in
	// registration order.
	reg := registry(t,
		textRule(t, "nullish", 0.9, `\?\?`),
		textRule(t, "chaining", 0.9, `\?\.`),
	)

	got := NewEngine(reg).Detect("x ?? y; z?.w")
	if len(got) != 2 {
		t.Fatalf("match count = %d, want 2", len(got))
	}
	if got[0].RuleID != "nullish" || got[1].RuleID != "chaining" {
		t.Fatalf("tie order = %v, want [nullish chaining]", matchIDs(got))
	}
	if got[0].Confidence != 0.9 || got[1].Confidence != 0.9 {
		t.Fatalf("confidence not carried verbatim: %v", got)
	}
}

func TestDetectFiresAtMostOncePerRule(t *testing.T) {
	reg := registry(t, textRule(t, "await", 0.95, `\bawait\b`))

	got := NewEngine(reg).Detect("await a(); await b(); await c();")
	if len(got) != 1 {
		t.Fatalf("rule fired %d times, want 1", len(got))
	}
}

func TestDetectIsDeterministic(t *testing.T) {
	reg := registry(t,
		textRule(t, "a", 0.8, `foo`),
		textRule(t, "b", 0.8, `bar`),
		textRule(t, "c", 0.5, `baz`),
		funcRule("d", 0.8, func(s string) bool { return strings.Contains(s, "qux") }),
	)
	engine := NewEngine(reg)

	text := "foo bar baz qux"
	first := engine.Detect(text)
	for i := 0; i < 50; i++ {
		if got := engine.Detect(text); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differed: %v vs %v", i, matchIDs(got), matchIDs(first))
		}
	}
}

func TestDetectOrderingIndependentOfWorkerCount(t *testing.T) {
	reg := registry(t,
		textRule(t, "a", 0.7, `x`),
		textRule(t, "b", 0.7, `x`),
		textRule(t, "c", 0.7, `x`),
		textRule(t, "d", 0.9, `x`),
		textRule(t, "e", 0.7, `x`),
	)

	want := matchIDs(NewEngine(reg).WithWorkers(1).Detect("x"))
	for _, workers := range []int{2, 4, 16} {
		got := matchIDs(NewEngine(reg).WithWorkers(workers).Detect("x"))
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("workers=%d order = %v, want %v", workers, got, want)
		}
	}
}

func TestDetectIsolatesPanickingDetectors(t *testing.T) {
	boom := funcRule("boom", 0.99, func(string) bool { panic("defective rule") })
	reg := registry(t,
		textRule(t, "ok1", 0.8, `x`),
		boom,
		textRule(t, "ok2", 0.6, `x`),
	)

	report := NewEngine(reg).Scan("x")
	if got := matchIDs(report.Matches); !reflect.DeepEqual(got, []string{"ok1", "ok2"}) {
		t.Fatalf("matches = %v, want [ok1 ok2]", got)
	}
	if len(report.Faults) != 1 || report.Faults[0].RuleID != "boom" {
		t.Fatalf("faults = %+v, want one fault for boom", report.Faults)
	}
	if report.RulesRun != 3 {
		t.Fatalf("RulesRun = %d, want 3", report.RulesRun)
	}
}

func TestDetectEmptyInput(t *testing.T) {
	reg := registry(t,
		textRule(t, "await", 0.95, `\bawait\b`),
		funcRule("always", 0.1, func(string) bool { return true }),
	)

	got := NewEngine(reg).Detect("")
	if len(got) != 1 || got[0].RuleID != "always" {
		t.Fatalf("empty input matches = %v, want [always]", matchIDs(got))
	}
}

func TestDetectNoMatches(t *testing.T) {
	reg := registry(t, textRule(t, "await", 0.95, `\bawait\b`))
	if got := NewEngine(reg).Detect("const x = 1;"); len(got) != 0 {
		t.Fatalf("expected no matches, got %v", matchIDs(got))
	}
}

func TestDetectExcerptProvenance(t *testing.T) {
	reg := registry(t, textRule(t, "await", 0.95, `await \w+`))

	got := NewEngine(reg).Detect("const x = await fetchUser();")
	if len(got) != 1 {
		t.Fatalf("match count = %d, want 1", len(got))
	}
	if got[0].Excerpt != "await fetchUser" {
		t.Fatalf("excerpt = %q, want %q", got[0].Excerpt, "await fetchUser")
	}
}

func TestDetectConcurrentCallers(t *testing.T) {
	reg := registry(t,
		textRule(t, "a", 0.9, `foo`),
		textRule(t, "b", 0.5, `bar`),
	)
	engine := NewEngine(reg)

	done := make(chan []string, 8)
	for i := 0; i < 8; i++ {
		go func() {
			done <- matchIDs(engine.Detect("foo bar"))
		}()
	}
	want := []string{"a", "b"}
	for i := 0; i < 8; i++ {
		if got := <-done; !reflect.DeepEqual(got, want) {
			t.Fatalf("concurrent call returned %v, want %v", got, want)
		}
	}
}
