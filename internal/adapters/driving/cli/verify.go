package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/casechain-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/casechain-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/casechain-cli/internal/core/domain"
	"github.com/custodia-labs/casechain-cli/internal/core/services"
)

var (
	verifyDB    string
	verifyModel string
	verifyTable bool
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Audit chain integrity without writing",
	Long: `Opens the database read-only and counts chain defects: document
chunks with no content hash, duplicated business or hash keys, anchor
chunks without content rows, and ready content without embeddings.

Structural violations exit with code 2 and should block CI; coverage
gaps exit with code 1. The embedding coverage check only runs when a
model is set via --model or the embedding.model config key.

Prints the report as JSON so CI can parse it; pass --table for a
human-readable summary instead.`,
	Args: cobra.NoArgs,
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().StringVar(&verifyDB, "db", "", "database path (default: $CASECHAIN_DB_PATH or config)")
	verifyCmd.Flags().StringVar(&verifyModel, "model", "", "embedding model to check coverage for")
	verifyCmd.Flags().BoolVar(&verifyTable, "table", false, "print a human-readable table instead of JSON")
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, _ []string) error {
	path := resolveDBPath(verifyDB)

	store, err := sqlite.OpenReadOnly(path)
	if err != nil {
		return systemErr(err)
	}
	defer store.Close() //nolint:errcheck // Close on read path, best effort

	model := verifyModel
	if model == "" {
		if cfg, cfgErr := file.NewConfigStore(""); cfgErr == nil {
			model = cfg.GetString(file.KeyEmbedModel)
		}
	}

	verifier := services.NewIntegrityVerifier(store.AuditStore(), path, model)
	report, err := verifier.Verify(cmd.Context())
	if err != nil {
		return systemErr(fmt.Errorf("verification failed: %w", err))
	}

	if verifyTable {
		printVerifyReport(cmd, report)
		return reportExit(report.ExitCode())
	}

	if err := printJSON(cmd, report); err != nil {
		return err
	}
	return reportExit(report.ExitCode())
}

func printVerifyReport(cmd *cobra.Command, report *domain.VerifyReport) {
	cmd.Printf("Chain verification: %s\n", report.Status)
	cmd.Printf("  Database: %s\n", report.DatabasePath)
	if report.Model != "" {
		cmd.Printf("  Model:    %s\n", report.Model)
	}
	cmd.Println()

	c := report.Counts
	cmd.Println("Structural checks:")
	cmd.Printf("  docs with null sha256:        %d\n", c.DocsNullSHA256)
	cmd.Printf("  doc (sha256, chunk) dupes:    %d\n", c.DocDupeKeys)
	cmd.Printf("  content business-key dupes:   %d\n", c.ContentDupeBusinessKeys)
	cmd.Printf("  content (sha256, chunk) dupes: %d\n", c.ContentDupeSHAKeys)
	cmd.Println()
	cmd.Println("Coverage checks:")
	cmd.Printf("  docs without content:         %d\n", c.DocsWithoutContent)
	cmd.Printf("  content without doc:          %d\n", c.ContentWithoutDoc)
	if report.Model != "" {
		cmd.Printf("  content without embedding:    %d\n", c.ContentWithoutEmbedding)
	} else {
		cmd.Println("  content without embedding:    (skipped, no model set)")
	}
}
