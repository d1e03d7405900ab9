package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mengmoon/mind-universe/internal/insights"
	"github.com/mengmoon/mind-universe/internal/store"
)

var (
	exportUser   string
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a user's journal as Markdown or JSON",
	Long: `Export every journal entry of a user, oldest first, directly from the
configured SQLite store.

Example:
  mindverse export --user alice --format md -o journal.md`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportUser == "" {
			return fmt.Errorf("--user is required")
		}
		if exportFormat != insights.FormatMarkdown && exportFormat != "markdown" && exportFormat != insights.FormatJSON {
			return fmt.Errorf("unknown format %q, use md or json", exportFormat)
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		st, err := store.Open(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer st.Close()

		entries, err := st.AllEntries(cmd.Context(), exportUser)
		if err != nil {
			return err
		}

		var w io.Writer = cmd.OutOrStdout()
		if exportOutput != "" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return fmt.Errorf("failed to create output: %w", err)
			}
			defer f.Close()
			w = f
		}
		return insights.Export(w, exportFormat, entries)
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportUser, "user", "u", "", "user id")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", insights.FormatMarkdown, "md or json")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
}
