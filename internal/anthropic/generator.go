// Package anthropic generates grounded answers with Claude models.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	anthropicopt "github.com/anthropics/anthropic-sdk-go/option"
)

const defaultMaxTokens = 1024

// ErrEmptyResponse is returned when the message has no content blocks.
var ErrEmptyResponse = errors.New("no response from Anthropic")

// Config holds the API key, model and optional endpoint override.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

type Generator struct {
	client *anthropic.Client
	model  string
}

func NewGenerator(cfg Config) *Generator {
	opts := []anthropicopt.RequestOption{anthropicopt.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, anthropicopt.WithBaseURL(cfg.BaseURL))
	}
	client := anthropic.NewClient(opts...)
	return &Generator{client: &client, model: cfg.Model}
}

// Generate passes system as the system prompt and user as the single user turn.
func (g *Generator) Generate(ctx context.Context, system, user string) (string, error) {
	req := anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: defaultMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	}
	if system != "" {
		req.System = []anthropic.TextBlockParam{{Text: system}}
	}

	rsp, err := g.client.Messages.New(ctx, req)
	if err != nil {
		return "", fmt.Errorf("anthropic message failed: %w", err)
	}

	if len(rsp.Content) == 0 {
		return "", ErrEmptyResponse
	}

	var b strings.Builder
	for _, content := range rsp.Content {
		if text, ok := content.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(text.Text)
		}
	}
	return strings.TrimSpace(b.String()), nil
}
