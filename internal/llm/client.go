package llm

import (
	"context"
	"fmt"
)

// Request is a single chat-style completion request.
type Request struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
	Tier        ModelTier
}

// Client is an abstraction over LLM providers
type Client interface {
	// Complete sends one request and returns the raw text of the first completion.
	// Transport failures and non-success responses are returned as *UpstreamError.
	Complete(ctx context.Context, req Request) (string, error)
	// GetModel returns the provider model name used for a tier
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration.
// An empty API key yields ErrNotConfigured.
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if apiKey == "" {
		return nil, ErrNotConfigured
	}

	switch config.Provider {
	case ProviderOpenAI, "":
		return NewOpenAIClient(config, apiKey)
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey)
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", config.Provider)
	}
}
