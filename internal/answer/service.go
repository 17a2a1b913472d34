package answer

import (
	"context"
	"log"
	"strings"
	"time"

	"voxbridge/internal/models"
)

// FallbackReply is spoken when the backend fails, times out, or returns
// nothing usable.
const FallbackReply = "Sorry, I'm having trouble reaching my answer service right now. Please try again in a moment."

// DefaultTimeout bounds one backend call. Voice platforms give a webhook
// roughly ten seconds before hanging up, so the call must resolve first.
const DefaultTimeout = 8 * time.Second

// Service wraps a provider with the per-question deadline and the spoken
// fallback. Each question gets exactly one backend call, no retries.
type Service struct {
	provider Provider
	timeout  time.Duration
}

func NewService(provider Provider, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{provider: provider, timeout: timeout}
}

// Ask fetches one answer. The second return reports whether the reply is
// the fallback rather than a real answer.
func (s *Service) Ask(ctx context.Context, system string, conversation []models.ChatMessage, question string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	reply, err := s.provider.Complete(ctx, system, conversation, question)
	if err != nil {
		log.Printf("Answer provider %s failed: %v", s.provider.Name(), err)
		return FallbackReply, true
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		log.Printf("Answer provider %s returned an empty reply", s.provider.Name())
		return FallbackReply, true
	}
	return reply, false
}

// ProviderName reports which backend is active, for logs and health output.
func (s *Service) ProviderName() string {
	return s.provider.Name()
}
