// Package gemini generates grounded answers with Google Gemini models.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	genaiopt "google.golang.org/api/option"
)

// ErrEmptyResponse is returned when the response has no candidate content.
var ErrEmptyResponse = errors.New("no response from Google")

type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Config holds the API key and model name.
type Config struct {
	APIKey string
	Model  string
}

type Generator struct {
	client   *genai.Client
	newModel func(system string) contentGenerator
}

func NewGenerator(ctx context.Context, cfg Config) (*Generator, error) {
	client, err := genai.NewClient(ctx, genaiopt.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	g := &Generator{client: client}
	g.newModel = func(system string) contentGenerator {
		model := client.GenerativeModel(cfg.Model)
		if system != "" {
			model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
		}
		return model
	}
	return g, nil
}

// Generate sends user as the prompt with system as the model's system instruction.
func (g *Generator) Generate(ctx context.Context, system, user string) (string, error) {
	rsp, err := g.newModel(system).GenerateContent(ctx, genai.Text(user))
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}

	if len(rsp.Candidates) == 0 || rsp.Candidates[0].Content == nil || len(rsp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}

	var b strings.Builder
	for _, part := range rsp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return strings.TrimSpace(b.String()), nil
}

// Close releases the underlying client.
func (g *Generator) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}
