package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/casechain-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/casechain-cli/internal/core/domain"
	"github.com/custodia-labs/casechain-cli/internal/core/services"
)

var (
	backfillDB     string
	backfillSource string
	backfillLimit  int
	backfillDryRun bool
)

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Repair gaps between document chunks and content rows",
	Long: `Runs one bounded repair pass over the content chain:
fills missing content hashes from matching document chunks (or
synthesizes them from the content body), then creates content rows for
document chunks that have none.

Each pass is idempotent; rerun until the exit code is 0. Chunks with no
extracted text are reported as unresolved and exit with code 2.`,
	Args: cobra.NoArgs,
	RunE: runBackfill,
}

func init() {
	backfillCmd.Flags().StringVar(&backfillDB, "db", "", "database path (default: $CASECHAIN_DB_PATH or config)")
	backfillCmd.Flags().StringVar(&backfillSource, "source-type", "", "restrict the pass to one source type")
	backfillCmd.Flags().IntVarP(&backfillLimit, "limit", "n", 0, "maximum rows per repair step")
	backfillCmd.Flags().BoolVar(&backfillDryRun, "dry-run", false, "report what would change without writing")
	rootCmd.AddCommand(backfillCmd)
}

func runBackfill(cmd *cobra.Command, _ []string) error {
	store, err := sqlite.OpenExisting(resolveDBPath(backfillDB))
	if err != nil {
		return systemErr(err)
	}
	defer store.Close() //nolint:errcheck // Close on read path, best effort

	builder := services.NewChainBuilder(
		store.ContentStore(),
		store.DocumentStore(),
		domain.DefaultRetryPolicy,
	)

	report, err := builder.Backfill(cmd.Context(), domain.BackfillOptions{
		SourceType: domain.SourceType(backfillSource),
		Limit:      backfillLimit,
		DryRun:     backfillDryRun,
	})
	if err != nil {
		return systemErr(fmt.Errorf("backfill failed: %w", err))
	}

	if err := printJSON(cmd, report); err != nil {
		return err
	}
	return reportExit(report.ExitCode())
}
