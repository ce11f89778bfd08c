package admin

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloo-solutions/chavis/internal/api/handlers"
	"github.com/cloo-solutions/chavis/internal/config"
	"github.com/cloo-solutions/chavis/internal/jobs"
	"github.com/cloo-solutions/chavis/internal/server"
	"github.com/spf13/cobra"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the CHAVIS chat and knowledge administration API",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")
	addBackendFlags(cmd.Flags())

	return cmd
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyFlagOverrides(cmd.Flags(), cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	shutdownTelemetry := initTelemetry(cfg.Debug)
	defer shutdownTelemetry()

	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	b, err := buildBackend(ctx, cfg, !noMigrate)
	if err != nil {
		return err
	}
	defer b.Close()

	svcs := newServices(b, cfg)

	if cfg.InitSeedFile != "" {
		if err := bootstrapSeed(ctx, svcs, cfg.InitSeedFile); err != nil {
			return fmt.Errorf("failed to seed knowledge store: %w", err)
		}
	}

	// The memory index starts empty on every boot.
	if cfg.VectorBackend == config.VectorMemory && cfg.VectorIndexEnabled() {
		if _, err := svcs.projection.Rebuild(ctx); err != nil {
			return fmt.Errorf("failed to build vector index: %w", err)
		}
	}

	var reconcileWorker *jobs.Worker
	if cfg.ReconcileInterval > 0 && cfg.VectorIndexEnabled() {
		reconcileWorker = jobs.NewWorker("reconcile", jobs.NewReconcileJob(svcs.projection), cfg.ReconcileInterval)
		go reconcileWorker.Start(ctx)
	}

	router := server.NewRouter(server.RouterConfig{
		ChatHandler:       handlers.NewChatHandler(svcs.cascade),
		KnowledgeHandler:  handlers.NewKnowledgeHandler(svcs.knowledge),
		UnansweredHandler: handlers.NewUnansweredHandler(svcs.unanswered),
		AdminHandler:      handlers.NewAdminHandler(svcs.projection),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	if reconcileWorker != nil {
		reconcileWorker.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}
