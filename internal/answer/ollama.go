package answer

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"

	"voxbridge/internal/models"
)

// OllamaProvider answers questions through a local Ollama server.
type OllamaProvider struct {
	client    *api.Client
	model     string
	maxTokens int
}

func NewOllamaProvider(cfg Config) (*OllamaProvider, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("ollama model name is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama base URL: %w", err)
	}

	return &OllamaProvider{
		client:    api.NewClient(parsed, http.DefaultClient),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}, nil
}

func (p *OllamaProvider) Name() string {
	return ProviderOllama
}

func (p *OllamaProvider) Complete(ctx context.Context, system string, conversation []models.ChatMessage, question string) (string, error) {
	msgs := make([]api.Message, 0, len(conversation)+2)
	if system != "" {
		msgs = append(msgs, api.Message{Role: "system", Content: system})
	}
	for _, m := range conversation {
		msgs = append(msgs, api.Message{Role: m.Role, Content: m.Content})
	}
	msgs = append(msgs, api.Message{Role: models.RoleUser, Content: question})

	stream := false
	req := &api.ChatRequest{
		Model:    p.model,
		Messages: msgs,
		Stream:   &stream,
		Options:  map[string]any{"num_predict": p.maxTokens},
	}

	var reply strings.Builder
	err := p.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		reply.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	return reply.String(), nil
}
