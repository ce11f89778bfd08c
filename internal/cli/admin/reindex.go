package admin

import (
	"fmt"

	"github.com/cloo-solutions/chavis/internal/config"
	"github.com/spf13/cobra"
)

// ReindexCmd returns the reindex command
func ReindexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the vector index from the knowledge store",
		Long: `Upserts the vector document of every knowledge item and deletes documents
whose item no longer exists. The memory index lives inside the server process,
so use POST /admin/reindex on a running server for that backend.`,
		Args: cobra.NoArgs,
		RunE: runReindex,
	}

	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations")
	addBackendFlags(cmd.Flags())

	return cmd
}

func runReindex(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.VectorBackend != config.VectorPGVector {
		return fmt.Errorf("reindex needs a persistent vector index (got %q); call POST /admin/reindex on the server instead", cfg.VectorBackend)
	}
	if !cfg.VectorIndexEnabled() {
		return fmt.Errorf("vector index disabled: set CHAVIS_EMBEDDING_API_KEY or CHAVIS_EMBEDDING_BASE_URL")
	}

	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	b, err := buildBackend(ctx, cfg, !noMigrate)
	if err != nil {
		return err
	}
	defer b.Close()

	report, err := newServices(b, cfg).projection.Rebuild(ctx)
	if err != nil {
		return fmt.Errorf("rebuild failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "upserted=%d deleted=%d failed=%d\n", report.Upserted, report.Deleted, report.Failed)
	if report.Failed > 0 {
		return fmt.Errorf("%d documents could not be synced", report.Failed)
	}
	return nil
}
