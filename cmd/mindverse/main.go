// Package main provides the Mind Universe CLI.
//
// Usage:
//
//	mindverse [--config file] <command> [args]
//
// Commands:
//
//	serve    - Run the HTTP and websocket API
//	chat     - Talk to the mentor in a terminal UI
//	analyze  - Tag a journal text with the local rules
//	speak    - Synthesize text to a WAV file
//	export   - Export a user's journal as Markdown or JSON
package main

import (
	"fmt"
	"os"

	"github.com/mengmoon/mind-universe/cmd/mindverse/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
