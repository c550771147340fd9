package detect

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Hyperpolymath/rescript-evangeliser/internal/catalog"
)

// Match is one fired rule: the rule itself, the confidence it fired with,
// and optional provenance for the caller.
type Match struct {
	Rule *catalog.PatternRule `json:"-"`

	RuleID string `json:"ruleId"`

	// Confidence is the rule's static weight, carried verbatim. Kept on the
	// match rather than read through the rule so a future implementation can
	// score per invocation without changing the ranking contract.
	Confidence float64 `json:"confidence"`

	// Excerpt is the first input chunk that triggered the rule, when the
	// detector can report one. Empty otherwise.
	Excerpt string `json:"excerpt,omitempty"`
}

// Fault records a rule whose detector panicked during a scan. The rule is
// treated as not matching; the scan always completes.
type Fault struct {
	RuleID string
	Err    error
}

// Report carries the full outcome of one scan for callers that want
// diagnostics beyond the ranked matches.
type Report struct {
	Matches  []Match
	RulesRun int
	Duration time.Duration
	Faults   []Fault
}

// Engine evaluates all registered rules against input text. An Engine is
// stateless between calls and safe for concurrent use; the registry it reads
// is immutable.
type Engine struct {
	registry *catalog.Registry
	workers  int
}

const defaultWorkers = 4

// NewEngine creates an engine over the given registry.
func NewEngine(registry *catalog.Registry) *Engine {
	return &Engine{registry: registry, workers: defaultWorkers}
}

// WithWorkers sets the number of parallel evaluation workers. Values below 1
// fall back to the default. Worker count never affects result ordering.
func (e *Engine) WithWorkers(n int) *Engine {
	if n < 1 {
		n = defaultWorkers
	}
	e.workers = n
	return e
}

// Detect evaluates every rule against text and returns matches sorted by
// confidence descending, ties broken by registry order. Each rule fires at
// most once. Detect never fails: a detector that panics counts as no match
// and the remaining rules still run.
func (e *Engine) Detect(text string) []Match {
	return e.Scan(text).Matches
}

// Scan is Detect plus diagnostics: how many rules ran, how long the pass
// took, and which detectors faulted.
func (e *Engine) Scan(text string) *Report {
	start := time.Now()
	rules := e.registry.All()

	// One slot per rule position so worker scheduling cannot disturb the
	// registry-order tie-break applied below.
	type outcome struct {
		matched bool
		excerpt string
		fault   error
	}
	outcomes := make([]outcome, len(rules))

	jobs := make(chan int, len(rules))
	var wg sync.WaitGroup
	for w := 0; w < e.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				matched, excerpt, fault := evaluate(rules[i], text)
				outcomes[i] = outcome{matched: matched, excerpt: excerpt, fault: fault}
			}
		}()
	}
	for i := range rules {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	report := &Report{RulesRun: len(rules)}
	for i, rule := range rules {
		if outcomes[i].fault != nil {
			report.Faults = append(report.Faults, Fault{RuleID: rule.ID, Err: outcomes[i].fault})
			continue
		}
		if !outcomes[i].matched {
			continue
		}
		report.Matches = append(report.Matches, Match{
			Rule:       rule,
			RuleID:     rule.ID,
			Confidence: rule.Confidence,
			Excerpt:    outcomes[i].excerpt,
		})
	}

	// Matches are already in registry order, so a stable sort on confidence
	// alone yields the documented tie-break.
	sort.SliceStable(report.Matches, func(i, j int) bool {
		return report.Matches[i].Confidence > report.Matches[j].Confidence
	})

	report.Duration = time.Since(start)
	return report
}

// evaluate runs one detector, isolating panics. Rule predicates are authored
// independently; a defect in one must never abort the scan.
func evaluate(rule *catalog.PatternRule, text string) (matched bool, excerpt string, fault error) {
	defer func() {
		if r := recover(); r != nil {
			matched = false
			excerpt = ""
			fault = fmt.Errorf("detector %s panicked: %v", rule.ID, r)
		}
	}()

	matched = rule.Detector.Match(text)
	if matched {
		if ex, ok := rule.Detector.(excerpter); ok {
			excerpt = ex.Excerpt(text)
		}
	}
	return matched, excerpt, fault
}
