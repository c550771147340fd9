package catalog

import (
	"fmt"
)

// Registry is the ordered, immutable collection of all pattern rules.
// Registration order is preserved and serves as the tie-break when the
// detection engine ranks matches of equal confidence.
type Registry struct {
	rules []*PatternRule
	byID  map[string]*PatternRule
}

// NewRegistry builds a registry from rules in their authored order.
// It returns an error on duplicate ids or on any rule that fails validation.
func NewRegistry(rules []*PatternRule) (*Registry, error) {
	r := &Registry{
		rules: make([]*PatternRule, 0, len(rules)),
		byID:  make(map[string]*PatternRule, len(rules)),
	}
	for _, rule := range rules {
		if err := rule.Validate(); err != nil {
			return nil, err
		}
		if _, exists := r.byID[rule.ID]; exists {
			return nil, fmt.Errorf("duplicate rule id: %s", rule.ID)
		}
		r.rules = append(r.rules, rule)
		r.byID[rule.ID] = rule
	}
	return r, nil
}

// ByID returns the rule with the given id. An absent id is a normal
// not-found result, never an error.
func (r *Registry) ByID(id string) (*PatternRule, bool) {
	rule, ok := r.byID[id]
	return rule, ok
}

// All returns every rule in registry order. The returned slice is a copy;
// callers cannot disturb registration order.
func (r *Registry) All() []*PatternRule {
	out := make([]*PatternRule, len(r.rules))
	copy(out, r.rules)
	return out
}

// ByCategory returns all rules in the given category, in registry order.
// No rules in the category yields an empty slice.
func (r *Registry) ByCategory(c Category) []*PatternRule {
	var out []*PatternRule
	for _, rule := range r.rules {
		if rule.Category == c {
			out = append(out, rule)
		}
	}
	return out
}

// ByDifficulty returns all rules at the given difficulty, in registry order.
func (r *Registry) ByDifficulty(d Difficulty) []*PatternRule {
	var out []*PatternRule
	for _, rule := range r.rules {
		if rule.Difficulty == d {
			out = append(out, rule)
		}
	}
	return out
}

// Count returns the number of registered rules.
func (r *Registry) Count() int {
	return len(r.rules)
}

// Statistics summarizes the catalog. Every rule lands in exactly one
// category bucket and one difficulty bucket, so each bucket sum equals Total.
type Statistics struct {
	Total        int                `json:"total"`
	ByCategory   map[Category]int   `json:"byCategory"`
	ByDifficulty map[Difficulty]int `json:"byDifficulty"`
}

// Statistics computes catalog-wide counts.
func (r *Registry) Statistics() Statistics {
	stats := Statistics{
		Total:        len(r.rules),
		ByCategory:   make(map[Category]int),
		ByDifficulty: make(map[Difficulty]int),
	}
	for _, rule := range r.rules {
		stats.ByCategory[rule.Category]++
		stats.ByDifficulty[rule.Difficulty]++
	}
	return stats
}
