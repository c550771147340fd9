// Package config loads the optional .evangeliser.jsonc workspace
// configuration: ignore globs for scanning, a confidence floor, and the
// progress database location.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Hyperpolymath/rescript-evangeliser/internal/catalog"
	"github.com/Hyperpolymath/rescript-evangeliser/internal/jsonc"
	"github.com/Hyperpolymath/rescript-evangeliser/schemas"
)

// FileName is the workspace configuration file looked up at the root.
const FileName = ".evangeliser.jsonc"

// Config is the merged workspace configuration.
type Config struct {
	// IgnoreGlobs are doublestar patterns excluded from scans. User globs
	// extend the defaults; they never replace them.
	IgnoreGlobs []string `json:"ignoreGlobs,omitempty"`

	// MinConfidence drops matches below this weight from CLI output.
	MinConfidence float64 `json:"minConfidence,omitempty"`

	// Categories restricts scanning to the given categories. Empty means all.
	Categories []catalog.Category `json:"categories,omitempty"`

	// ProgressPath overrides the completion database location.
	ProgressPath string `json:"progressPath,omitempty"`
}

func defaultConfig() Config {
	return Config{
		IgnoreGlobs: []string{
			".git/**",
			"node_modules/**",
			"lib/**",
			"dist/**",
			"build/**",
			".evangeliser/**",
		},
	}
}

// raw mirrors the file shape before category strings are parsed.
type raw struct {
	IgnoreGlobs   []string `json:"ignoreGlobs,omitempty"`
	MinConfidence float64  `json:"minConfidence,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	ProgressPath  string   `json:"progressPath,omitempty"`
}

// Load reads the workspace config from root, merging user settings over
// defaults. A missing file yields the defaults; a malformed or
// schema-invalid file is an error.
func Load(root string) (Config, error) {
	cfg := defaultConfig()

	path := filepath.Join(root, FileName)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w", path, err)
	}

	clean := jsonc.Clean(data)
	var doc any
	if err := json.Unmarshal(clean, &doc); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := schemas.Validate(schemas.Config, doc); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	var r raw
	if err := json.Unmarshal(clean, &r); err != nil {
		return Config{}, fmt.Errorf("decode %s: %w", path, err)
	}

	for _, g := range r.IgnoreGlobs {
		if g != "" && !contains(cfg.IgnoreGlobs, g) {
			cfg.IgnoreGlobs = append(cfg.IgnoreGlobs, g)
		}
	}
	if r.MinConfidence < 0 || r.MinConfidence > 1 {
		return Config{}, fmt.Errorf("%s: minConfidence must be between 0 and 1, got %v", path, r.MinConfidence)
	}
	cfg.MinConfidence = r.MinConfidence
	for _, s := range r.Categories {
		c, err := catalog.ParseCategory(s)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
		cfg.Categories = append(cfg.Categories, c)
	}
	cfg.ProgressPath = r.ProgressPath

	return cfg, nil
}

// ProgressDB returns the completion database path for a workspace root,
// honoring the ProgressPath override.
func (c Config) ProgressDB(root string) string {
	if c.ProgressPath != "" {
		if filepath.IsAbs(c.ProgressPath) {
			return c.ProgressPath
		}
		return filepath.Join(root, c.ProgressPath)
	}
	return filepath.Join(root, ".evangeliser", "progress.db")
}

// AllowsCategory reports whether the config's category filter admits cat.
func (c Config) AllowsCategory(cat catalog.Category) bool {
	if len(c.Categories) == 0 {
		return true
	}
	for _, allowed := range c.Categories {
		if allowed == cat {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
