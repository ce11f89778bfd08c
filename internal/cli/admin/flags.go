package admin

import (
	"github.com/cloo-solutions/chavis/internal/config"
	"github.com/spf13/pflag"
)

// addBackendFlags registers the flags that override backend selection.
func addBackendFlags(flags *pflag.FlagSet) {
	flags.String("store", config.StoreFile, "Record store backend (file|postgres|s3)")
	flags.String("data-dir", "./data", "Data directory for the file store")
	flags.String("vector", config.VectorMemory, "Vector index backend (memory|pgvector|none)")
	flags.String("llm-provider", config.ProviderOllama, "Text generation provider (ollama|openai|anthropic|google)")
	flags.String("llm-model", "llama3", "Text generation model")
}

// applyFlagOverrides copies explicitly set flags over the environment config.
// Flags left at their defaults never override the environment.
func applyFlagOverrides(flags *pflag.FlagSet, cfg *config.Config) {
	override := func(name string, dst *string) {
		if !flags.Changed(name) {
			return
		}
		if v, err := flags.GetString(name); err == nil {
			*dst = v
		}
	}

	override("port", &cfg.Port)
	override("store", &cfg.StoreBackend)
	override("data-dir", &cfg.DataDir)
	override("vector", &cfg.VectorBackend)
	override("llm-provider", &cfg.LLMProvider)
	override("llm-model", &cfg.LLMModel)
}
