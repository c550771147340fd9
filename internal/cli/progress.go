package cli

import (
	"flag"
	"fmt"
	"path/filepath"

	"github.com/Hyperpolymath/rescript-evangeliser/internal/config"
	"github.com/Hyperpolymath/rescript-evangeliser/internal/content"
	"github.com/Hyperpolymath/rescript-evangeliser/internal/progress"
)

func openStore(root string) (*progress.Store, string, error) {
	rootPath, err := filepath.Abs(root)
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.Load(rootPath)
	if err != nil {
		return nil, "", err
	}
	store, err := progress.Open(cfg.ProgressDB(rootPath))
	if err != nil {
		return nil, "", err
	}
	return store, rootPath, nil
}

func cmdComplete(args []string) error {
	fs := flag.NewFlagSet("complete", flag.ContinueOnError)
	root := fs.String("root", ".", "workspace root")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: evangeliser complete <pattern-id>")
	}
	id := fs.Arg(0)

	registry, err := content.Load()
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	rule, ok := registry.ByID(id)
	if !ok {
		return fmt.Errorf("unknown pattern id: %s", id)
	}

	store, _, err := openStore(*root)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.MarkCompleted(rule.ID); err != nil {
		return err
	}
	fmt.Printf("Marked %s (%s) as completed.\n", rule.ID, rule.Name)
	return nil
}

func cmdProgress(args []string) error {
	fs := flag.NewFlagSet("progress", flag.ContinueOnError)
	root := fs.String("root", ".", "workspace root")
	sessions := fs.Int("sessions", 5, "number of recent scans to show")
	if err := fs.Parse(args); err != nil {
		return err
	}

	registry, err := content.Load()
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	store, _, err := openStore(*root)
	if err != nil {
		return err
	}
	defer store.Close()

	done, err := store.Completed()
	if err != nil {
		return err
	}

	fmt.Printf("Completed %d of %d patterns\n\n", len(done), registry.Count())
	for _, rule := range registry.All() {
		mark := " "
		if done[rule.ID] {
			mark = "x"
		}
		fmt.Printf("  [%s] %-24s %s\n", mark, rule.ID, rule.Name)
	}

	runs, err := store.Sessions(*sessions)
	if err != nil {
		return err
	}
	if len(runs) > 0 {
		fmt.Println("\nRecent scans:")
		for _, s := range runs {
			fmt.Printf("  %s  %s  %d files, %d patterns\n",
				s.ID, s.StartedAt.Format("2006-01-02 15:04"), s.Scanned, s.Matched)
		}
	}
	return nil
}

func cmdReset(args []string) error {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	root := fs.String("root", ".", "workspace root")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, _, err := openStore(*root)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Reset(); err != nil {
		return err
	}
	fmt.Println("Progress cleared.")
	return nil
}
