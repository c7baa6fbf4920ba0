package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/casechain-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/casechain-cli/internal/core/domain"
	"github.com/custodia-labs/casechain-cli/internal/core/services"
)

var (
	searchDB    string
	searchType  string
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search unified content",
	Long: `Searches titles and bodies of unified content rows.
Without a query, lists the most recent content rows.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchDB, "db", "", "database path (default: $CASECHAIN_DB_PATH or config)")
	searchCmd.Flags().StringVar(&searchType, "type", "", "restrict results to one source type")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := ""
	if len(args) > 0 {
		query = args[0]
	}

	store, err := sqlite.OpenReadOnly(resolveDBPath(searchDB))
	if err != nil {
		return systemErr(err)
	}
	defer store.Close() //nolint:errcheck // Close on read path, best effort

	svc := services.NewContentService(store.ContentStore(), domain.DefaultRetryPolicy)

	results, err := svc.Search(cmd.Context(), domain.ContentQuery{
		Query:      query,
		SourceType: domain.SourceType(searchType),
		Limit:      searchLimit,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return printJSON(cmd, results)
	}
	return outputSearchTable(cmd, results)
}

func outputSearchTable(cmd *cobra.Command, results []domain.Content) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		title := results[i].Title
		if title == "" {
			title = results[i].ID
		}

		cmd.Printf("  [%d] %s (%s)\n", i+1, title, results[i].SourceType)
		cmd.Printf("      ID: %s  Source: %s\n", results[i].ID, results[i].SourceID)
		if snippet := bodySnippet(results[i].Body); snippet != "" {
			cmd.Printf("      %s\n", snippet)
		}
		cmd.Println()
	}

	return nil
}

// bodySnippet takes the first line of the body, truncated for display.
func bodySnippet(body string) string {
	const maxLen = 80

	line := body
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	line = strings.TrimSpace(line)
	if len(line) > maxLen {
		line = line[:maxLen] + "..."
	}
	return line
}
