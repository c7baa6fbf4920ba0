package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/casechain-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/casechain-cli/internal/adapters/driven/embedding/ollama"
	"github.com/custodia-labs/casechain-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/casechain-cli/internal/adapters/driven/vector/qdrant"
	"github.com/custodia-labs/casechain-cli/internal/core/domain"
	"github.com/custodia-labs/casechain-cli/internal/core/ports/driven"
	"github.com/custodia-labs/casechain-cli/internal/core/services"
	"github.com/custodia-labs/casechain-cli/internal/logger"
)

var (
	embedDB      string
	embedModel   string
	embedBaseURL string
	embedLimit   int
	embedRate    float64
	embedIndex   bool
)

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Link ready content rows to embeddings",
	Long: `Embeds content rows flagged ready that lack an embedding for the
target model, writing vectors to the embeddings table. With --index the
vectors are also mirrored into a Qdrant collection for semantic lookup;
index failures are logged but never fail the pass.

Runs are bounded by --limit; exit code 1 means rows remain or some rows
failed to embed, so rerun until the exit code is 0.`,
	Args: cobra.NoArgs,
	RunE: runEmbed,
}

func init() {
	embedCmd.Flags().StringVar(&embedDB, "db", "", "database path (default: $CASECHAIN_DB_PATH or config)")
	embedCmd.Flags().StringVar(&embedModel, "model", "", "embedding model (default: config or "+ollama.DefaultModel+")")
	embedCmd.Flags().StringVar(&embedBaseURL, "base-url", "", "ollama base URL (default: config or "+ollama.DefaultBaseURL+")")
	embedCmd.Flags().IntVarP(&embedLimit, "limit", "n", 0, "maximum rows to embed in one pass")
	embedCmd.Flags().Float64Var(&embedRate, "rate", 5, "maximum embedding requests per second")
	embedCmd.Flags().BoolVar(&embedIndex, "index", false, "mirror vectors into the Qdrant index")
	rootCmd.AddCommand(embedCmd)
}

func runEmbed(cmd *cobra.Command, _ []string) error {
	store, err := sqlite.OpenExisting(resolveDBPath(embedDB))
	if err != nil {
		return systemErr(err)
	}
	defer store.Close() //nolint:errcheck // Close on read path, best effort

	cfg, cfgErr := file.NewConfigStore("")

	model := embedModel
	if model == "" && cfgErr == nil {
		model = cfg.GetString(file.KeyEmbedModel)
	}
	baseURL := embedBaseURL
	if baseURL == "" && cfgErr == nil {
		baseURL = cfg.GetString(file.KeyEmbedURL)
	}

	embedder := ollama.NewEmbeddingService(ollama.Config{
		BaseURL: baseURL,
		Model:   model,
	})
	defer embedder.Close() //nolint:errcheck // idle connection cleanup

	ctx := cmd.Context()
	if err := embedder.Ping(ctx); err != nil {
		return systemErr(fmt.Errorf("embedding provider unreachable: %w", err))
	}

	var index driven.VectorIndex
	if embedIndex {
		qcfg := qdrant.Config{Dimensions: embedder.Dimensions()}
		if cfgErr == nil {
			qcfg.Host = cfg.GetString(file.KeyQdrantHost)
			qcfg.Port = cfg.GetInt(file.KeyQdrantPort)
		}
		idx, idxErr := qdrant.NewIndex(qcfg)
		if idxErr == nil {
			idxErr = idx.EnsureCollection(ctx)
		}
		if idxErr != nil {
			// The embeddings table stays authoritative without the mirror.
			logger.Warn("vector index unavailable, continuing without it: %v", idxErr)
		} else {
			index = idx
			defer idx.Close() //nolint:errcheck // idle connection cleanup
		}
	}

	limiter := rate.NewLimiter(rate.Limit(embedRate), 1)

	linker := services.NewEmbedLinker(
		store.ContentStore(),
		store.EmbeddingStore(),
		embedder,
		index,
		limiter,
		domain.DefaultRetryPolicy,
	)

	report, err := linker.Link(ctx, domain.EmbedOptions{
		Model: embedder.ModelName(),
		Limit: embedLimit,
	})
	if err != nil {
		return systemErr(fmt.Errorf("embedding link failed: %w", err))
	}

	if err := printJSON(cmd, report); err != nil {
		return err
	}
	return reportExit(report.ExitCode())
}
