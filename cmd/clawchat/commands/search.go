package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openclaw/clawchat/internal/archive"
	"github.com/openclaw/clawchat/pkg/models"
)

// NewSearchCommand creates the search command
func NewSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search archived transcripts",
		Long: `Search the local transcript archive for messages containing the query.
The archive is filled as you chat; sessions never opened in this client
will not appear.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runSearch,
	}
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, _, err := setup()
	if err != nil {
		return err
	}

	arch, err := archive.Open(cfg.ArchivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer arch.Close()

	query := strings.Join(args, " ")
	hits, err := arch.Search(query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(hits) == 0 {
		fmt.Printf("No matches for %q\n", query)
		return nil
	}

	fmt.Printf("%d match(es) for %q:\n\n", len(hits), query)
	for _, h := range hits {
		title := h.Title
		if title == "" {
			title = h.SessionID
		}
		label := "you"
		if h.Role == models.RoleAssistant {
			label = "assistant"
		}
		fmt.Printf("%s (%s):\n  %s\n\n", title, label, snippet(h.Content, query))
	}
	return nil
}

// snippet trims a long message around the first match.
func snippet(content, query string) string {
	const window = 70

	idx := strings.Index(strings.ToLower(content), strings.ToLower(query))
	if idx < 0 {
		idx = 0
	}
	start := idx - window/2
	if start < 0 {
		start = 0
	}
	end := start + window + len(query)
	if end > len(content) {
		end = len(content)
	}

	out := content[start:end]
	if start > 0 {
		out = "..." + out
	}
	if end < len(content) {
		out += "..."
	}
	return strings.ReplaceAll(out, "\n", " ")
}
