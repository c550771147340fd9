package content

import (
	"regexp"
	"strings"

	"github.com/Hyperpolymath/rescript-evangeliser/internal/detect"
)

// Computed detectors for shapes a single regular expression cannot express.
// Catalog entries reference these by key in their "detector" field.
var builtinDetectors = map[string]detect.FuncRule{
	"nested-ternary":   hasNestedTernary,
	"callback-pyramid": hasCallbackPyramid,
}

// hasNestedTernary reports whether one statement carries more than one
// conditional expression, which covers both true nesting (a ? b ? c : d : e)
// and the chained form (a ? b : c ? d : e). `??` and `?.` are not ternaries
// and are ignored; `;` and `}` end the statement being counted.
func hasNestedTernary(text string) bool {
	stripped := strings.NewReplacer("??", "  ", "?.", "  ").Replace(text)

	count := 0
	for _, r := range stripped {
		switch r {
		case '?':
			count++
			if count >= 2 {
				return true
			}
		case ';', '}':
			count = 0
		}
	}
	return false
}

var callbackOpener = regexp.MustCompile(`[,(]\s*(?:function\b|(?:\([^()]*\)|[A-Za-z_$][\w$]*)\s*=>)`)

// hasCallbackPyramid reports three or more callbacks passed as arguments,
// the shape that nests rightward instead of reading top to bottom.
func hasCallbackPyramid(text string) bool {
	return len(callbackOpener.FindAllStringIndex(text, -1)) >= 3
}
