package insights

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mengmoon/mind-universe/internal/store"
)

// Export formats.
const (
	FormatMarkdown = "md"
	FormatJSON     = "json"
)

// Export writes entries in the named format.
func Export(w io.Writer, format string, entries []store.Entry) error {
	switch format {
	case FormatMarkdown, "markdown":
		return ExportMarkdown(w, entries)
	case FormatJSON:
		return ExportJSON(w, entries)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// ExportMarkdown writes entries as a Markdown document.
func ExportMarkdown(w io.Writer, entries []store.Entry) error {
	var sb strings.Builder
	sb.WriteString("# Journal Export\n\n")
	if len(entries) == 0 {
		sb.WriteString("_No entries._\n")
	}
	for _, e := range entries {
		fmt.Fprintf(&sb, "## %s\n\n", titleOf(e))
		fmt.Fprintf(&sb, "*%s*", e.CreatedAt.Format("2006-01-02 15:04"))
		if e.Sentiment != nil {
			fmt.Fprintf(&sb, " | %s (%.2f)", emotionOf(e), *e.Sentiment)
		}
		sb.WriteString("\n\n")
		sb.WriteString(strings.TrimSpace(e.Content))
		sb.WriteString("\n\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// ExportJSON writes entries as an indented JSON array.
func ExportJSON(w io.Writer, entries []store.Entry) error {
	if entries == nil {
		entries = []store.Entry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}
