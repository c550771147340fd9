package cli

import (
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Hyperpolymath/rescript-evangeliser/internal/catalog"
	"github.com/Hyperpolymath/rescript-evangeliser/internal/config"
	"github.com/Hyperpolymath/rescript-evangeliser/internal/content"
	"github.com/Hyperpolymath/rescript-evangeliser/internal/detect"
	"github.com/Hyperpolymath/rescript-evangeliser/internal/progress"
)

func cmdList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	categoryFlag := fs.String("category", "", "filter by category")
	difficultyFlag := fs.String("difficulty", "", "filter by difficulty")
	asJSON := fs.Bool("json", false, "emit the catalog as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	registry, err := content.Load()
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	rules := registry.All()
	if *categoryFlag != "" {
		c, err := catalog.ParseCategory(*categoryFlag)
		if err != nil {
			return err
		}
		rules = registry.ByCategory(c)
	}
	if *difficultyFlag != "" {
		d, err := catalog.ParseDifficulty(*difficultyFlag)
		if err != nil {
			return err
		}
		rules = intersectDifficulty(rules, d)
	}

	if *asJSON {
		return printJSON(rules)
	}

	if len(rules) == 0 {
		fmt.Println("No patterns match the filter.")
		return nil
	}
	for _, r := range rules {
		fmt.Printf("  %-24s %-32s %-18s %-12s %.2f\n", r.ID, r.Name, r.Category, r.Difficulty, r.Confidence)
	}
	return nil
}

func intersectDifficulty(rules []*catalog.PatternRule, d catalog.Difficulty) []*catalog.PatternRule {
	var out []*catalog.PatternRule
	for _, r := range rules {
		if r.Difficulty == d {
			out = append(out, r)
		}
	}
	return out
}

func cmdShow(args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	asJSON := fs.Bool("json", false, "emit the pattern as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: evangeliser show <pattern-id>")
	}
	id := fs.Arg(0)

	registry, err := content.Load()
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	rule, ok := registry.ByID(id)
	if !ok {
		fmt.Printf("No pattern with id %q. Try 'evangeliser list'.\n", id)
		return nil
	}

	if *asJSON {
		return printJSON(rule)
	}
	printRule(registry, rule)
	return nil
}

func printRule(registry *catalog.Registry, rule *catalog.PatternRule) {
	fmt.Printf("%s — %s\n", rule.ID, rule.Name)
	fmt.Printf("  category: %s  difficulty: %s  confidence: %.2f\n\n", rule.Category, rule.Difficulty, rule.Confidence)

	n := rule.Narrative
	for _, part := range []string{n.Celebration, n.Caveat, n.Pitch, n.Rationale, n.Payoff} {
		fmt.Printf("  %s\n", part)
	}

	fmt.Printf("\n  Before:\n%s\n", indent(rule.Example.Before, "    "))
	fmt.Printf("\n  After:\n%s\n", indent(rule.Example.After, "    "))

	if len(rule.Objectives) > 0 {
		fmt.Println("\n  Objectives:")
		for _, o := range rule.Objectives {
			fmt.Printf("    - %s\n", o)
		}
	}
	if len(rule.Mistakes) > 0 {
		fmt.Println("\n  Common mistakes:")
		for _, m := range rule.Mistakes {
			fmt.Printf("    - %s\n", m)
		}
	}
	if len(rule.Practices) > 0 {
		fmt.Println("\n  Best practices:")
		for _, p := range rule.Practices {
			fmt.Printf("    - %s\n", p)
		}
	}

	if len(rule.Related) > 0 {
		fmt.Println("\n  Related:")
		for _, id := range rule.Related {
			// Related links are soft references; an unknown id is simply
			// not shown with a name.
			if rel, ok := registry.ByID(id); ok {
				fmt.Printf("    - %s (%s)\n", id, rel.Name)
			} else {
				fmt.Printf("    - %s\n", id)
			}
		}
	}
}

func printMatches(matches []detect.Match) {
	if len(matches) == 0 {
		fmt.Println("No patterns detected.")
		return
	}
	fmt.Printf("Detected %d pattern(s):\n\n", len(matches))
	for _, m := range matches {
		fmt.Printf("  %-24s %-32s %.2f", m.RuleID, m.Rule.Name, m.Confidence)
		if m.Excerpt != "" {
			fmt.Printf("  %q", truncate(m.Excerpt, 40))
		}
		fmt.Println()
		fmt.Printf("    %s\n", m.Rule.Narrative.Pitch)
	}
	fmt.Printf("\nRun 'evangeliser show <id>' for the full lesson.\n")
}

func cmdStats(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	root := fs.String("root", ".", "workspace root (for progress)")
	asJSON := fs.Bool("json", false, "emit statistics as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	registry, err := content.Load()
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	stats := registry.Statistics()

	rootPath, err := filepath.Abs(*root)
	if err != nil {
		return err
	}
	cfg, err := config.Load(rootPath)
	if err != nil {
		return err
	}
	store, err := progress.Open(cfg.ProgressDB(rootPath))
	if err != nil {
		return err
	}
	defer store.Close()
	done, err := store.Completed()
	if err != nil {
		return err
	}

	if *asJSON {
		return printJSON(struct {
			catalog.Statistics
			Completed int `json:"completed"`
		}{stats, len(done)})
	}

	fmt.Printf("Catalog: %d patterns, %d completed\n\n", stats.Total, len(done))
	fmt.Println("  By category:")
	for _, c := range catalog.AllCategories() {
		if n := stats.ByCategory[c]; n > 0 {
			fmt.Printf("    %-20s %d\n", c, n)
		}
	}
	fmt.Println("\n  By difficulty:")
	for _, d := range catalog.AllDifficulties() {
		if n := stats.ByDifficulty[d]; n > 0 {
			fmt.Printf("    %-20s %d\n", d, n)
		}
	}
	return nil
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
