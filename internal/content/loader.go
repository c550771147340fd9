// Package content owns the authored pattern catalog: JSONC documents with
// every rule's detection pattern and pedagogical bundle, embedded at build
// time. The catalog is pure data; logic lives in catalog and detect.
package content

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/Hyperpolymath/rescript-evangeliser/internal/catalog"
	"github.com/Hyperpolymath/rescript-evangeliser/internal/detect"
	"github.com/Hyperpolymath/rescript-evangeliser/internal/jsonc"
	"github.com/Hyperpolymath/rescript-evangeliser/schemas"
)

//go:embed catalog/*.jsonc
var catalogFS embed.FS

// entry is the on-disk shape of one catalog record. Exactly one of Pattern
// (a regular expression) or Detector (a builtin predicate key) selects the
// rule's detection variant; the schema enforces the exclusivity.
type entry struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Category   string            `json:"category"`
	Difficulty string            `json:"difficulty"`
	Confidence float64           `json:"confidence"`
	Pattern    string            `json:"pattern,omitempty"`
	Detector   string            `json:"detector,omitempty"`
	Example    catalog.Example   `json:"example"`
	Narrative  catalog.Narrative `json:"narrative"`
	Icons      []string          `json:"icons,omitempty"`
	Tags       []string          `json:"tags,omitempty"`
	Related    []string          `json:"related,omitempty"`
	Objectives []string          `json:"objectives,omitempty"`
	Mistakes   []string          `json:"mistakes,omitempty"`
	Practices  []string          `json:"practices,omitempty"`
}

// Load builds the registry from the embedded catalog. File name order, then
// entry order within each file, defines registry order; ties in confidence
// resolve to that order at detection time. Any malformed document, unknown
// detector key, or invalid pattern is a load error: content defects surface
// at startup, never mid-scan.
func Load() (*catalog.Registry, error) {
	names, err := catalogFiles()
	if err != nil {
		return nil, err
	}

	var rules []*catalog.PatternRule
	for _, name := range names {
		entries, err := loadDocument(name)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			rule, err := buildRule(e)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			rules = append(rules, rule)
		}
	}

	return catalog.NewRegistry(rules)
}

func catalogFiles() ([]string, error) {
	dirents, err := catalogFS.ReadDir("catalog")
	if err != nil {
		return nil, fmt.Errorf("read catalog dir: %w", err)
	}
	names := make([]string, 0, len(dirents))
	for _, d := range dirents {
		names = append(names, "catalog/"+d.Name())
	}
	sort.Strings(names)
	return names, nil
}

func loadDocument(name string) ([]entry, error) {
	raw, err := catalogFS.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	clean := jsonc.Clean(raw)

	var doc any
	if err := json.Unmarshal(clean, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	if err := schemas.Validate(schemas.Catalog, doc); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	var entries []entry
	if err := json.Unmarshal(clean, &entries); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return entries, nil
}

func buildRule(e entry) (*catalog.PatternRule, error) {
	var detector catalog.Detector
	switch {
	case e.Pattern != "":
		t, err := detect.NewTextRule(e.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", e.ID, err)
		}
		detector = t
	case e.Detector != "":
		f, ok := builtinDetectors[e.Detector]
		if !ok {
			return nil, fmt.Errorf("rule %s: unknown detector key %q", e.ID, e.Detector)
		}
		detector = f
	default:
		return nil, fmt.Errorf("rule %s: no pattern or detector", e.ID)
	}

	category, err := catalog.ParseCategory(e.Category)
	if err != nil {
		return nil, fmt.Errorf("rule %s: %w", e.ID, err)
	}
	difficulty, err := catalog.ParseDifficulty(e.Difficulty)
	if err != nil {
		return nil, fmt.Errorf("rule %s: %w", e.ID, err)
	}

	return &catalog.PatternRule{
		ID:         e.ID,
		Name:       e.Name,
		Category:   category,
		Difficulty: difficulty,
		Confidence: e.Confidence,
		Detector:   detector,
		Example:    e.Example,
		Narrative:  e.Narrative,
		Icons:      e.Icons,
		Tags:       e.Tags,
		Related:    e.Related,
		Objectives: e.Objectives,
		Mistakes:   e.Mistakes,
		Practices:  e.Practices,
	}, nil
}
