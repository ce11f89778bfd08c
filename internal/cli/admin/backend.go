package admin

import (
	"context"
	"fmt"
	"log"

	"github.com/cloo-solutions/chavis/internal/anthropic"
	"github.com/cloo-solutions/chavis/internal/config"
	"github.com/cloo-solutions/chavis/internal/database"
	"github.com/cloo-solutions/chavis/internal/domain"
	"github.com/cloo-solutions/chavis/internal/gemini"
	"github.com/cloo-solutions/chavis/internal/openai"
	"github.com/cloo-solutions/chavis/internal/repository"
	"github.com/cloo-solutions/chavis/internal/service"
	"github.com/cloo-solutions/chavis/internal/storage"
	"github.com/cloo-solutions/chavis/internal/vectorindex"
	"github.com/jackc/pgx/v5/pgxpool"
)

// backend holds the storage and model adapters selected by config.
type backend struct {
	knowledge  service.KnowledgeRepositoryInterface
	unanswered service.UnansweredRepositoryInterface
	index      service.VectorIndex
	generator  service.TextGenerator
	closers    []func()
}

func (b *backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// services is the application layer built on a backend.
type services struct {
	knowledge  *service.KnowledgeService
	unanswered *service.UnansweredService
	cascade    *service.Cascade
	projection *service.ProjectionService
}

func newServices(b *backend, cfg *config.Config) *services {
	refusal := cfg.RefusalMessage
	if refusal == "" {
		refusal = domain.DefaultRefusalMessage
	}

	unansweredSvc := service.NewUnansweredService(b.unanswered)
	return &services{
		knowledge:  service.NewKnowledgeService(b.knowledge, b.index),
		unanswered: unansweredSvc,
		cascade: service.NewCascade(
			service.NewExactMatchResolver(b.knowledge),
			service.NewRAGResolver(b.index, b.generator, refusal),
			unansweredSvc,
			refusal,
		),
		projection: service.NewProjectionService(b.knowledge, b.index),
	}
}

// buildBackend opens the configured stores. Migrations run only when a
// Postgres pool is opened and runMigrate is set.
func buildBackend(ctx context.Context, cfg *config.Config, runMigrate bool) (*backend, error) {
	b := &backend{}

	var pool *pgxpool.Pool
	if cfg.StoreBackend == config.StorePostgres || cfg.VectorBackend == config.VectorPGVector {
		p, err := database.NewPool(ctx, database.Config{URL: cfg.DatabaseURL})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		pool = p
		b.closers = append(b.closers, pool.Close)
		log.Println("connected to database")

		if runMigrate {
			if err := runMigrations(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
				b.Close()
				return nil, fmt.Errorf("failed to run migrations: %w", err)
			}
		}
	}

	if err := b.openStore(ctx, cfg, pool); err != nil {
		b.Close()
		return nil, err
	}

	b.index = newIndex(cfg, pool)

	gen, closeGen, err := newGenerator(ctx, cfg)
	if err != nil {
		b.Close()
		return nil, err
	}
	b.generator = gen
	if closeGen != nil {
		b.closers = append(b.closers, closeGen)
	}

	return b, nil
}

func (b *backend) openStore(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) error {
	switch cfg.StoreBackend {
	case config.StorePostgres:
		b.knowledge = repository.NewKnowledgeRepository(pool)
		b.unanswered = repository.NewUnansweredRepository(pool)
		log.Println("store: postgres")

	case config.StoreS3:
		s3Client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
			Prefix:          cfg.S3Prefix,
			UsePathStyle:    true,
		})
		if err != nil {
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		if err := s3Client.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("failed to ensure S3 bucket: %w", err)
		}
		b.knowledge = repository.NewBlobKnowledgeRepository(s3Client)
		b.unanswered = repository.NewBlobUnansweredRepository(s3Client)
		log.Printf("store: s3 bucket '%s' ready", cfg.S3Bucket)

	default:
		local, err := storage.NewLocalStore(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("failed to open data directory: %w", err)
		}
		b.knowledge = repository.NewBlobKnowledgeRepository(local)
		b.unanswered = repository.NewBlobUnansweredRepository(local)
		log.Printf("store: file (%s)", cfg.DataDir)
	}
	return nil
}

func newIndex(cfg *config.Config, pool *pgxpool.Pool) service.VectorIndex {
	if !cfg.VectorIndexEnabled() {
		log.Println("vector index disabled: questions without an exact match will be logged as unanswered")
		return vectorindex.Disabled{}
	}

	embedder := openai.NewClientWithConfig(openai.Config{
		APIKey:              cfg.EmbeddingAPIKey,
		BaseURL:             cfg.EmbeddingBaseURL,
		EmbeddingModel:      cfg.EmbeddingModel,
		EmbeddingDimensions: cfg.EmbeddingDimensions,
	})

	if cfg.VectorBackend == config.VectorPGVector {
		log.Println("vector index: pgvector")
		return vectorindex.NewPGVector(pool, embedder)
	}
	log.Println("vector index: memory")
	return vectorindex.NewMemory(embedder)
}

// newGenerator selects the text generation adapter. The returned close func may be nil.
func newGenerator(ctx context.Context, cfg *config.Config) (service.TextGenerator, func(), error) {
	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		return openai.NewGenerator(openai.NewAPIClient(cfg.LLMAPIKey, cfg.LLMBaseURL), cfg.LLMModel), nil, nil

	case config.ProviderAnthropic:
		return anthropic.NewGenerator(anthropic.Config{
			APIKey:  cfg.LLMAPIKey,
			BaseURL: cfg.LLMBaseURL,
			Model:   cfg.LLMModel,
		}), nil, nil

	case config.ProviderGoogle:
		gen, err := gemini.NewGenerator(ctx, gemini.Config{APIKey: cfg.LLMAPIKey, Model: cfg.LLMModel})
		if err != nil {
			return nil, nil, err
		}
		return gen, func() {
			if err := gen.Close(); err != nil {
				log.Printf("failed to close gemini client: %v", err)
			}
		}, nil

	case config.ProviderOllama:
		baseURL := cfg.LLMBaseURL
		if baseURL == "" {
			baseURL = openai.DefaultOllamaBaseURL
		}
		return openai.NewGenerator(openai.NewAPIClient(cfg.LLMAPIKey, baseURL), cfg.LLMModel), nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
	}
}
