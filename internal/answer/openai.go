package answer

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"voxbridge/internal/models"
)

// OpenAIProvider answers questions through the OpenAI chat completions
// API, which also covers OpenAI-compatible gateways via the base URL.
type OpenAIProvider struct {
	client    openai.Client
	model     string
	maxTokens int64
}

func NewOpenAIProvider(cfg Config) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIProvider{
		client:    openai.NewClient(opts...),
		model:     model,
		maxTokens: int64(cfg.MaxTokens),
	}, nil
}

func (p *OpenAIProvider) Name() string {
	return ProviderOpenAI
}

func (p *OpenAIProvider) Complete(ctx context.Context, system string, conversation []models.ChatMessage, question string) (string, error) {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(conversation)+2)
	if system != "" {
		msgs = append(msgs, openai.SystemMessage(system))
	}
	for _, m := range conversation {
		switch m.Role {
		case models.RoleAssistant:
			msgs = append(msgs, openai.AssistantMessage(m.Content))
		default:
			msgs = append(msgs, openai.UserMessage(m.Content))
		}
	}
	msgs = append(msgs, openai.UserMessage(question))

	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages:            msgs,
		Model:               openai.ChatModel(p.model),
		MaxCompletionTokens: openai.Int(p.maxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
