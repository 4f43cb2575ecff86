// Package main is the loopgen command line tool.
//
// Usage:
//
//	loopgen [flags] <command> [args]
//
// Commands:
//
//	generate   - Compose a loop and write its pack (MIDI, score, cover)
//	styles     - List the styles and their defaults
//	version    - Show version information
package main

import (
	"fmt"
	"os"

	"github.com/Conceptual-Machines/loopgen-api/cmd/loopgen/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
