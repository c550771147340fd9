package catalog

import (
	"testing"
)

type stubDetector bool

func (s stubDetector) Match(string) bool { return bool(s) }

func rule(id string, c Category, d Difficulty, confidence float64) *PatternRule {
	return &PatternRule{
		ID:         id,
		Name:       id,
		Category:   c,
		Difficulty: d,
		Confidence: confidence,
		Detector:   stubDetector(true),
	}
}

func TestNewRegistryRejectsDuplicateIDs(t *testing.T) {
	_, err := NewRegistry([]*PatternRule{
		rule("a", CategoryAsync, DifficultyBeginner, 0.5),
		rule("a", CategoryTypes, DifficultyAdvanced, 0.7),
	})
	if err == nil {
		t.Fatal("expected duplicate id error, got nil")
	}
}

func TestNewRegistryValidation(t *testing.T) {
	tests := []struct {
		name string
		rule *PatternRule
	}{
		{
			name: "missing id",
			rule: rule("", CategoryAsync, DifficultyBeginner, 0.5),
		},
		{
			name: "nil detector",
			rule: &PatternRule{ID: "x", Category: CategoryAsync, Difficulty: DifficultyBeginner, Confidence: 0.5},
		},
		{
			name: "confidence above one",
			rule: rule("x", CategoryAsync, DifficultyBeginner, 1.5),
		},
		{
			name: "negative confidence",
			rule: rule("x", CategoryAsync, DifficultyBeginner, -0.1),
		},
		{
			name: "unknown category",
			rule: rule("x", Category("bogus"), DifficultyBeginner, 0.5),
		},
		{
			name: "unknown difficulty",
			rule: rule("x", CategoryAsync, Difficulty("expert"), 0.5),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRegistry([]*PatternRule{tt.rule}); err == nil {
				t.Fatal("expected validation error, got nil")
			}
		})
	}
}

func TestByIDRoundTrip(t *testing.T) {
	reg, err := NewRegistry([]*PatternRule{
		rule("a", CategoryAsync, DifficultyBeginner, 0.9),
		rule("b", CategoryTypes, DifficultyAdvanced, 0.7),
		rule("c", CategoryAsync, DifficultyIntermediate, 0.8),
	})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	for _, r := range reg.All() {
		got, ok := reg.ByID(r.ID)
		if !ok {
			t.Fatalf("ByID(%q) not found", r.ID)
		}
		if got != r {
			t.Fatalf("ByID(%q) returned a different rule", r.ID)
		}
	}
}

func TestByIDAbsentIsNotFound(t *testing.T) {
	reg, err := NewRegistry(nil)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	if _, ok := reg.ByID("nope"); ok {
		t.Fatal("expected not found for absent id")
	}
}

func TestByCategoryPreservesRegistryOrder(t *testing.T) {
	reg, err := NewRegistry([]*PatternRule{
		rule("a", CategoryAsync, DifficultyBeginner, 0.9),
		rule("b", CategoryTypes, DifficultyAdvanced, 0.7),
		rule("c", CategoryAsync, DifficultyIntermediate, 0.8),
	})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	got := reg.ByCategory(CategoryAsync)
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Fatalf("ByCategory order wrong: %v", ids(got))
	}

	if empty := reg.ByCategory(CategoryStrings); len(empty) != 0 {
		t.Fatalf("expected empty slice for unused category, got %v", ids(empty))
	}
}

func TestByDifficulty(t *testing.T) {
	reg, err := NewRegistry([]*PatternRule{
		rule("a", CategoryAsync, DifficultyBeginner, 0.9),
		rule("b", CategoryTypes, DifficultyBeginner, 0.7),
		rule("c", CategoryAsync, DifficultyAdvanced, 0.8),
	})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	got := reg.ByDifficulty(DifficultyBeginner)
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Fatalf("ByDifficulty order wrong: %v", ids(got))
	}
}

func TestStatisticsBucketsSumToTotal(t *testing.T) {
	reg, err := NewRegistry([]*PatternRule{
		rule("a", CategoryAsync, DifficultyBeginner, 0.9),
		rule("b", CategoryTypes, DifficultyBeginner, 0.7),
		rule("c", CategoryAsync, DifficultyAdvanced, 0.8),
		rule("d", CategoryNullSafety, DifficultyIntermediate, 0.6),
	})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	stats := reg.Statistics()
	if stats.Total != reg.Count() {
		t.Fatalf("Total = %d, Count = %d", stats.Total, reg.Count())
	}

	catSum := 0
	for _, n := range stats.ByCategory {
		catSum += n
	}
	if catSum != stats.Total {
		t.Fatalf("category buckets sum to %d, want %d", catSum, stats.Total)
	}

	diffSum := 0
	for _, n := range stats.ByDifficulty {
		diffSum += n
	}
	if diffSum != stats.Total {
		t.Fatalf("difficulty buckets sum to %d, want %d", diffSum, stats.Total)
	}

	if stats.ByCategory[CategoryAsync] != 2 {
		t.Fatalf("async bucket = %d, want 2", stats.ByCategory[CategoryAsync])
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"null-safety", false},
		{"async", false},
		{"string-operations", false},
		{"", true},
		{"Async", true},
		{"networking", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseCategory(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCategory(%q) err = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestParseDifficulty(t *testing.T) {
	for _, d := range AllDifficulties() {
		if _, err := ParseDifficulty(string(d)); err != nil {
			t.Fatalf("ParseDifficulty(%q): %v", d, err)
		}
	}
	if _, err := ParseDifficulty("expert"); err == nil {
		t.Fatal("expected error for unknown difficulty")
	}
}

func TestAllReturnsACopy(t *testing.T) {
	reg, err := NewRegistry([]*PatternRule{
		rule("a", CategoryAsync, DifficultyBeginner, 0.9),
		rule("b", CategoryTypes, DifficultyAdvanced, 0.7),
	})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	all := reg.All()
	all[0], all[1] = all[1], all[0]

	again := reg.All()
	if again[0].ID != "a" || again[1].ID != "b" {
		t.Fatalf("registry order disturbed by caller mutation: %v", ids(again))
	}
}

func ids(rules []*PatternRule) []string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.ID
	}
	return out
}
