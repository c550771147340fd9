// Package catalog defines the pattern-rule data model and the immutable
// registry of all authored rules. Rules are loaded once at startup and never
// change afterwards; every query is a pure read.
package catalog

import (
	"fmt"
)

// Category is a topic tag from the closed set of pattern categories.
// Categories group rules for browsing and statistics; they never influence
// detection.
type Category string

const (
	CategoryNullSafety      Category = "null-safety"
	CategoryConditionals    Category = "conditionals"
	CategoryArrayOperations Category = "array-operations"
	CategoryAsync           Category = "async"
	CategoryErrorHandling   Category = "error-handling"
	CategoryPatternMatching Category = "pattern-matching"
	CategoryImmutability    Category = "immutability"
	CategoryFunctions       Category = "functions"
	CategoryTypes           Category = "types"
	CategoryStrings         Category = "string-operations"
)

// AllCategories returns the closed set of valid categories.
func AllCategories() []Category {
	return []Category{
		CategoryNullSafety,
		CategoryConditionals,
		CategoryArrayOperations,
		CategoryAsync,
		CategoryErrorHandling,
		CategoryPatternMatching,
		CategoryImmutability,
		CategoryFunctions,
		CategoryTypes,
		CategoryStrings,
	}
}

// ParseCategory converts a string to a Category, rejecting values outside
// the closed set.
func ParseCategory(s string) (Category, error) {
	for _, c := range AllCategories() {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category: %q", s)
}

// Difficulty indicates how advanced a pattern is. Metadata only.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// AllDifficulties returns the closed set of valid difficulties.
func AllDifficulties() []Difficulty {
	return []Difficulty{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced}
}

// ParseDifficulty converts a string to a Difficulty, rejecting values outside
// the closed set.
func ParseDifficulty(s string) (Difficulty, error) {
	for _, d := range AllDifficulties() {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown difficulty: %q", s)
}

// Detector is the predicate a rule evaluates against input text. A detector
// must be pure: no I/O, no shared state, same answer for the same text.
type Detector interface {
	// Match reports whether the idiom is present in text. Presence is
	// binary; how often the idiom recurs does not matter.
	Match(text string) bool
}

// Example pairs a snippet in the source style with its ReScript counterpart.
type Example struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

// Narrative is the fixed five-part pedagogical text shown with a match.
type Narrative struct {
	Celebration string `json:"celebration"` // what the author already does well
	Caveat      string `json:"caveat"`      // the soft downside of the current idiom
	Pitch       string `json:"pitch"`       // what ReScript offers instead
	Rationale   string `json:"rationale"`   // the safety/type argument
	Payoff      string `json:"payoff"`      // a concrete win, usually an anecdote
}

// PatternRule is one named, weighted detector plus its explanatory content.
// Rules are immutable after registration; ID is the sole external reference
// key.
type PatternRule struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Category   Category   `json:"category"`
	Difficulty Difficulty `json:"difficulty"`

	// Confidence is a static author-assigned weight in [0,1] used only for
	// ranking. It is not a measured probability.
	Confidence float64 `json:"confidence"`

	Detector Detector `json:"-"`

	// Content bundle. Opaque to the engine; never branched on by matching
	// logic.
	Example    Example   `json:"example"`
	Narrative  Narrative `json:"narrative"`
	Icons      []string  `json:"icons,omitempty"`
	Tags       []string  `json:"tags,omitempty"`
	Related    []string  `json:"related,omitempty"` // soft references by rule id
	Objectives []string  `json:"objectives,omitempty"`
	Mistakes   []string  `json:"mistakes,omitempty"`
	Practices  []string  `json:"practices,omitempty"`
}

// Validate checks the invariants a rule must satisfy before registration.
func (r *PatternRule) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("rule id is required")
	}
	if r.Detector == nil {
		return fmt.Errorf("rule %s: detector is required", r.ID)
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("rule %s: confidence must be between 0 and 1, got %v", r.ID, r.Confidence)
	}
	if _, err := ParseCategory(string(r.Category)); err != nil {
		return fmt.Errorf("rule %s: %w", r.ID, err)
	}
	if _, err := ParseDifficulty(string(r.Difficulty)); err != nil {
		return fmt.Errorf("rule %s: %w", r.ID, err)
	}
	return nil
}
