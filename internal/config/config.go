package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "CHAVIS"

const (
	StoreFile     = "file"
	StorePostgres = "postgres"
	StoreS3       = "s3"

	VectorMemory   = "memory"
	VectorPGVector = "pgvector"
	VectorNone     = "none"

	ProviderOllama    = "ollama"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGoogle    = "google"
)

// PGVectorDimensions is the embedding width fixed by the vector_documents migration.
const PGVectorDimensions = 1536

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	StoreBackend string `envconfig:"STORE_BACKEND" default:"file"`
	DataDir      string `envconfig:"DATA_DIR" default:"./data"`

	DatabaseURL   string `envconfig:"DATABASE_URL"`
	MigrationsDir string `envconfig:"MIGRATIONS_DIR" default:"migrations"`

	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"chavis-data"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
	S3Prefix    string `envconfig:"S3_PREFIX"`

	VectorBackend string `envconfig:"VECTOR_BACKEND" default:"memory"`

	EmbeddingAPIKey     string `envconfig:"EMBEDDING_API_KEY"`
	EmbeddingBaseURL    string `envconfig:"EMBEDDING_BASE_URL"`
	EmbeddingModel      string `envconfig:"EMBEDDING_MODEL" default:"text-embedding-3-small"`
	EmbeddingDimensions int    `envconfig:"EMBEDDING_DIMENSIONS" default:"1536"`

	LLMProvider string `envconfig:"LLM_PROVIDER" default:"ollama"`
	LLMModel    string `envconfig:"LLM_MODEL" default:"llama3"`
	LLMAPIKey   string `envconfig:"LLM_API_KEY"`
	LLMBaseURL  string `envconfig:"LLM_BASE_URL"`

	RefusalMessage    string        `envconfig:"REFUSAL_MESSAGE"`
	ReconcileInterval time.Duration `envconfig:"RECONCILE_INTERVAL" default:"0"`

	// Seed the knowledge store from a YAML file on startup when it is empty
	InitSeedFile string `envconfig:"INIT_SEED_FILE"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(cfg.StoreBackend))
	cfg.VectorBackend = strings.ToLower(strings.TrimSpace(cfg.VectorBackend))
	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(cfg.LLMProvider))

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	return cfg
}

// Validate checks backend selections and the settings each one requires.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreFile:
		if c.DataDir == "" {
			return fmt.Errorf("%s_DATA_DIR is required for the file store", envPrefix)
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%s_DATABASE_URL is required for the postgres store", envPrefix)
		}
	case StoreS3:
		if !c.HasS3() {
			return fmt.Errorf("%s_S3_ENDPOINT, %s_S3_ACCESS_KEY_ID and %s_S3_SECRET_ACCESS_KEY are required for the s3 store", envPrefix, envPrefix, envPrefix)
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.StoreBackend)
	}

	switch c.VectorBackend {
	case VectorMemory, VectorNone:
	case VectorPGVector:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%s_DATABASE_URL is required for the pgvector index", envPrefix)
		}
		if c.EmbeddingDimensions != PGVectorDimensions {
			return fmt.Errorf("pgvector index requires %d embedding dimensions, got %d", PGVectorDimensions, c.EmbeddingDimensions)
		}
	default:
		return fmt.Errorf("unknown vector backend %q", c.VectorBackend)
	}

	switch c.LLMProvider {
	case ProviderOllama:
	case ProviderOpenAI, ProviderAnthropic, ProviderGoogle:
		if c.LLMAPIKey == "" {
			return fmt.Errorf("%s_LLM_API_KEY is required for provider %q", envPrefix, c.LLMProvider)
		}
	default:
		return fmt.Errorf("unknown LLM provider %q", c.LLMProvider)
	}

	if c.EmbeddingDimensions <= 0 {
		return fmt.Errorf("%s_EMBEDDING_DIMENSIONS must be positive", envPrefix)
	}
	if c.ReconcileInterval < 0 {
		return fmt.Errorf("%s_RECONCILE_INTERVAL must not be negative", envPrefix)
	}
	return nil
}

func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

func (c *Config) HasDatabase() bool {
	return c.DatabaseURL != ""
}

// HasEmbeddings reports whether an embedding provider is reachable. A base URL
// alone is enough for keyless local servers.
func (c *Config) HasEmbeddings() bool {
	return c.EmbeddingAPIKey != "" || c.EmbeddingBaseURL != ""
}

// VectorIndexEnabled reports whether a vector index will be built.
func (c *Config) VectorIndexEnabled() bool {
	return c.VectorBackend != VectorNone && c.HasEmbeddings()
}
