package llm

import (
	"context"
	"fmt"

	"github.com/Shreya728/pdfbot/internal/config"
)

// Gateway routes chat completions to the configured provider and
// embeddings to the OpenAI-compatible one. Every call is a single shot;
// a failed call fails, there is no retry or fallback.
type Gateway interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	Embed(ctx context.Context, req EmbeddingRequest) (*EmbeddingResponse, error)
}

type gateway struct {
	chat  Provider
	embed Provider
}

func NewGateway(cfg config.LLMConfig) (Gateway, error) {
	var openaiCompat *OpenAIProvider
	if cfg.APIKey != "" {
		openaiCompat = NewOpenAIProvider(cfg.APIKey, cfg.BaseURL, cfg.Provider)
	}

	g := &gateway{}

	switch cfg.Provider {
	case "anthropic":
		if cfg.AnthropicKey == "" {
			return nil, fmt.Errorf("LLM provider %q needs ANTHROPIC_API_KEY", cfg.Provider)
		}
		g.chat = NewAnthropicProvider(cfg.AnthropicKey)
	default:
		if openaiCompat == nil {
			return nil, fmt.Errorf("LLM provider %q needs an API key", cfg.Provider)
		}
		g.chat = openaiCompat
	}

	// Embeddings always need an OpenAI-compatible endpoint, whatever
	// handles chat.
	if openaiCompat == nil {
		return nil, fmt.Errorf("embeddings need an OpenAI-compatible API key")
	}
	g.embed = openaiCompat

	return g, nil
}

func (g *gateway) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	return g.chat.ChatCompletion(ctx, req)
}

func (g *gateway) Embed(ctx context.Context, req EmbeddingRequest) (*EmbeddingResponse, error) {
	return g.embed.GenerateEmbedding(ctx, req)
}
