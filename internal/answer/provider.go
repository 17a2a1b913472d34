// Package answer turns spoken questions into text replies by calling a
// hosted or local model backend. One backend is active per process,
// selected by configuration.
package answer

import (
	"context"
	"fmt"

	"voxbridge/internal/models"
)

// Provider names accepted in configuration.
const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderOllama    = "ollama"
)

const defaultMaxTokens = 1024

// Provider answers a single question given the system prompt and the
// conversation so far.
type Provider interface {
	Complete(ctx context.Context, system string, conversation []models.ChatMessage, question string) (string, error)
	Name() string
}

// Config selects and parameterizes the answer backend.
type Config struct {
	Provider  string
	BaseURL   string
	APIKey    string
	Model     string
	MaxTokens int
}

// NewProvider creates the configured backend. An empty provider name
// selects anthropic.
func NewProvider(cfg Config) (Provider, error) {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	switch cfg.Provider {
	case "", ProviderAnthropic:
		return NewAnthropicProvider(cfg)
	case ProviderGemini:
		return NewGeminiProvider(cfg)
	case ProviderOpenAI:
		return NewOpenAIProvider(cfg)
	case ProviderOllama:
		return NewOllamaProvider(cfg)
	default:
		return nil, fmt.Errorf("unknown answer provider: %s", cfg.Provider)
	}
}
