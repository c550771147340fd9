// Package cli implements the evangeliser command surface.
package cli

import (
	"fmt"
)

// Run dispatches a CLI invocation.
func Run(args []string) error {
	if len(args) == 0 {
		return usage()
	}
	switch args[0] {
	case "version", "--version", "-v":
		return cmdVersion()
	case "detect":
		return cmdDetect(args[1:])
	case "scan":
		return cmdScan(args[1:])
	case "list", "ls":
		return cmdList(args[1:])
	case "show":
		return cmdShow(args[1:])
	case "stats":
		return cmdStats(args[1:])
	case "complete":
		return cmdComplete(args[1:])
	case "progress":
		return cmdProgress(args[1:])
	case "reset":
		return cmdReset(args[1:])
	case "help", "-h", "--help":
		return usage()
	default:
		return fmt.Errorf("unknown command: %s\nRun 'evangeliser help' for usage", args[0])
	}
}

func usage() error {
	fmt.Print(`evangeliser - spot JavaScript idioms and learn their ReScript counterparts

DETECTION
  detect    Detect patterns in a snippet (stdin, --file, or --text)
  scan      Detect patterns across every source file in a workspace

CATALOG
  list      Browse the pattern catalog
  show      Show one pattern's full lesson
  stats     Catalog statistics and learning progress

PROGRESS
  complete  Mark a pattern as worked through
  progress  Show completed patterns and past scans
  reset     Clear completion state

Examples:
  evangeliser detect --file src/app.js
  echo 'const x = a ?? b;' | evangeliser detect
  evangeliser scan --root .
  evangeliser list --category null-safety
  evangeliser show null-coalescing
  evangeliser complete null-coalescing
`)
	return nil
}
