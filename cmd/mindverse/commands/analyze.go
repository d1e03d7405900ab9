package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mengmoon/mind-universe/pkg/journal"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [text]",
	Short: "Tag a journal text with the local rules",
	Long: `Run the rule-based tagger on text and print the result as JSON.

The text is taken from the arguments, or from stdin when none are given.
No model provider is contacted; sentiment comes from the built-in lexicon.

Example:
  mindverse analyze "I hear voices and feel lonely"
  cat entry.txt | mindverse analyze`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		if text == "" {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			text = string(data)
		}
		if strings.TrimSpace(text) == "" {
			return fmt.Errorf("no text to analyze")
		}

		analysis := journal.NewTagger(journal.NewLexicon()).Analyze(text)

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(analysis)
	},
}
