// Package detect evaluates every catalog rule against an input text and
// returns matches ranked by confidence. Detection is pure text matching;
// the input is never parsed and never assumed to be valid source code.
package detect

import (
	"fmt"
	"regexp"

	"github.com/Hyperpolymath/rescript-evangeliser/internal/catalog"
)

// TextRule is the declarative detector variant: a compiled regular
// expression over the raw input text.
type TextRule struct {
	re *regexp.Regexp
}

// NewTextRule compiles a regular expression into a detector.
func NewTextRule(src string) (*TextRule, error) {
	re, err := regexp.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("compile pattern %q: %w", src, err)
	}
	return &TextRule{re: re}, nil
}

// MustTextRule is NewTextRule for authored patterns that are known good.
func MustTextRule(src string) *TextRule {
	t, err := NewTextRule(src)
	if err != nil {
		panic(err)
	}
	return t
}

// Match implements catalog.Detector.
func (t *TextRule) Match(text string) bool {
	return t.re.MatchString(text)
}

// Excerpt returns the first chunk of text the pattern matched, as provenance
// for the caller. Empty when nothing matched.
func (t *TextRule) Excerpt(text string) string {
	return t.re.FindString(text)
}

// FuncRule is the computed detector variant: an arbitrary pure predicate
// over the input text. Used for shapes a single regular expression cannot
// express, such as nesting depth.
type FuncRule func(text string) bool

// Match implements catalog.Detector.
func (f FuncRule) Match(text string) bool {
	return f(text)
}

// excerpter is implemented by detectors that can report which input chunk
// triggered them. Provenance is optional; detectors without it produce
// matches with an empty excerpt.
type excerpter interface {
	Excerpt(text string) string
}

var _ catalog.Detector = (*TextRule)(nil)
var _ catalog.Detector = (FuncRule)(nil)
