// Package openai adapts the go-openai client for embeddings and chat
// generation. Any OpenAI-compatible server, Ollama included, can be targeted
// through a base URL.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	DefaultEmbeddingModel      = openai.SmallEmbedding3
	DefaultEmbeddingDimensions = 1536
)

var (
	ErrEmptyText       = errors.New("text cannot be empty")
	ErrNoEmbedding     = errors.New("no embedding data returned")
	ErrWrongDimensions = errors.New("embedding has wrong dimensions")
)

// EmbeddingsAPI is the part of the go-openai client used for embeddings.
type EmbeddingsAPI interface {
	CreateEmbeddings(ctx context.Context, conv openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

// Config selects the endpoint and model.
type Config struct {
	APIKey              string
	BaseURL             string
	EmbeddingModel      string
	EmbeddingDimensions int
}

// NewAPIClient builds a go-openai client, optionally pointed at baseURL.
func NewAPIClient(apiKey, baseURL string) *openai.Client {
	clientCfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientCfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(clientCfg)
}

// Client turns text into embedding vectors of a fixed width.
type Client struct {
	api        EmbeddingsAPI
	model      openai.EmbeddingModel
	dimensions int
}

func NewClient(api EmbeddingsAPI, model string, dimensions int) *Client {
	if model == "" {
		model = string(DefaultEmbeddingModel)
	}
	if dimensions <= 0 {
		dimensions = DefaultEmbeddingDimensions
	}
	return &Client{api: api, model: openai.EmbeddingModel(model), dimensions: dimensions}
}

func NewClientWithConfig(cfg Config) *Client {
	return NewClient(NewAPIClient(cfg.APIKey, cfg.BaseURL), cfg.EmbeddingModel, cfg.EmbeddingDimensions)
}

// Dimensions reports the vector width every embedding is checked against.
func (c *Client) Dimensions() int {
	return c.dimensions
}

// GenerateEmbedding embeds a single text.
func (c *Client) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	req := openai.EmbeddingRequest{
		Input: []string{text},
		Model: c.model,
	}
	// only the text-embedding-3 family can shorten its output
	if strings.HasPrefix(string(c.model), "text-embedding-3") {
		req.Dimensions = c.dimensions
	}

	resp, err := c.api.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, ErrNoEmbedding
	}

	embedding := resp.Data[0].Embedding
	if len(embedding) != c.dimensions {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrWrongDimensions, c.dimensions, len(embedding))
	}
	return embedding, nil
}
