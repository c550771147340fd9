package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/Hyperpolymath/rescript-evangeliser/internal/config"
	"github.com/Hyperpolymath/rescript-evangeliser/internal/content"
	"github.com/Hyperpolymath/rescript-evangeliser/internal/detect"
	"github.com/Hyperpolymath/rescript-evangeliser/internal/fsutil"
	"github.com/Hyperpolymath/rescript-evangeliser/internal/progress"
)

func cmdDetect(args []string) error {
	fs := flag.NewFlagSet("detect", flag.ContinueOnError)
	file := fs.String("file", "", "read the snippet from a file")
	text := fs.String("text", "", "use the given snippet directly")
	minConfidence := fs.Float64("min-confidence", 0, "drop matches below this confidence")
	asJSON := fs.Bool("json", false, "emit matches as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *minConfidence < 0 || *minConfidence > 1 {
		return fmt.Errorf("min-confidence must be between 0 and 1, got %v", *minConfidence)
	}

	snippet, err := readSnippet(*file, *text)
	if err != nil {
		return err
	}

	registry, err := content.Load()
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	matches := detect.NewEngine(registry).Detect(snippet)
	matches = filterByConfidence(matches, *minConfidence)

	if *asJSON {
		return printJSON(matches)
	}
	printMatches(matches)
	return nil
}

func readSnippet(file, text string) (string, error) {
	switch {
	case text != "":
		return text, nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", file, err)
		}
		return string(data), nil
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
}

func filterByConfidence(matches []detect.Match, min float64) []detect.Match {
	if min <= 0 {
		return matches
	}
	var out []detect.Match
	for _, m := range matches {
		if m.Confidence >= min {
			out = append(out, m)
		}
	}
	return out
}

// fileHits aggregates a whole-workspace scan: per rule, how many files it
// fired in.
type fileHits struct {
	RuleID     string  `json:"ruleId"`
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
	Files      int     `json:"files"`
}

func cmdScan(args []string) error {
	fs := flag.NewFlagSet("scan", flag.ContinueOnError)
	root := fs.String("root", ".", "workspace root to scan")
	asJSON := fs.Bool("json", false, "emit results as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rootPath, err := filepath.Abs(*root)
	if err != nil {
		return err
	}

	cfg, err := config.Load(rootPath)
	if err != nil {
		return err
	}
	registry, err := content.Load()
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	files, err := fsutil.ListFiles(rootPath, cfg.IgnoreGlobs)
	if err != nil {
		return fmt.Errorf("list files: %w", err)
	}

	engine := detect.NewEngine(registry)
	started := time.Now()
	hitsByRule := make(map[string]*fileHits)
	for _, rel := range files {
		data, err := os.ReadFile(filepath.Join(rootPath, rel))
		if err != nil {
			continue // unreadable files are skipped, not fatal
		}
		for _, m := range engine.Detect(string(data)) {
			if m.Confidence < cfg.MinConfidence || !cfg.AllowsCategory(m.Rule.Category) {
				continue
			}
			h, ok := hitsByRule[m.RuleID]
			if !ok {
				h = &fileHits{RuleID: m.RuleID, Name: m.Rule.Name, Confidence: m.Confidence}
				hitsByRule[m.RuleID] = h
			}
			h.Files++
		}
	}

	results := make([]fileHits, 0, len(hitsByRule))
	for _, h := range hitsByRule {
		results = append(results, *h)
	}
	// Same ranking contract as a single detect pass: confidence first, then
	// registry order.
	position := make(map[string]int, registry.Count())
	for i, rule := range registry.All() {
		position[rule.ID] = i
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Confidence != results[j].Confidence {
			return results[i].Confidence > results[j].Confidence
		}
		return position[results[i].RuleID] < position[results[j].RuleID]
	})

	store, err := progress.Open(cfg.ProgressDB(rootPath))
	if err != nil {
		return err
	}
	defer store.Close()
	if _, err := store.RecordSession(started, len(files), len(results)); err != nil {
		return err
	}

	if *asJSON {
		return printJSON(results)
	}

	fmt.Printf("Scanned %d files in %s\n\n", len(files), rootPath)
	if len(results) == 0 {
		fmt.Println("No patterns detected.")
		return nil
	}
	for _, h := range results {
		fmt.Printf("  %-24s %-32s %.2f  %d file(s)\n", h.RuleID, h.Name, h.Confidence, h.Files)
	}
	fmt.Printf("\nRun 'evangeliser show <id>' for the full lesson.\n")
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
