//go:build integration

package openai

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegration_GenerateEmbedding_RealAPI(t *testing.T) {
	apiKey := os.Getenv("CHAVIS_EMBEDDING_API_KEY")
	if apiKey == "" {
		t.Skip("CHAVIS_EMBEDDING_API_KEY not set, skipping integration test")
	}

	client := NewClientWithConfig(Config{APIKey: apiKey})
	embedding, err := client.GenerateEmbedding(context.Background(), "사내 와이파이 비밀번호는 어디서 확인하나요?")

	require.NoError(t, err)
	assert.Len(t, embedding, DefaultEmbeddingDimensions)
}

func TestIntegration_Generate_Ollama(t *testing.T) {
	baseURL := os.Getenv("CHAVIS_LLM_BASE_URL")
	if baseURL == "" {
		t.Skip("CHAVIS_LLM_BASE_URL not set, skipping integration test")
	}

	gen := NewGenerator(NewAPIClient("ollama", baseURL), "llama3")
	text, err := gen.Generate(context.Background(), "Answer in one word.", "What color is the sky?")

	require.NoError(t, err)
	assert.NotEmpty(t, text)
}
