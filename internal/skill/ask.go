package skill

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"voxbridge/internal/answer"
	"voxbridge/internal/attributes"
	"voxbridge/internal/history"
	"voxbridge/internal/models"
	"voxbridge/internal/persona"
	"voxbridge/internal/voice"
)

// AskHandler answers the question intent: it replays the conversation
// window to the answer backend, speaks the formatted reply, and records
// the exchange. A fallback reply leaves the window and the stored
// attributes untouched.
type AskHandler struct {
	Answer  *answer.Service
	Persona *persona.Persona
	Store   attributes.Store
	Redis   *redis.Client

	MaxHistoryEntries    int
	MaxSpeechLength      int
	TopicResetEnabled    bool
	TopicResetMinOverlap int
}

func (h *AskHandler) CanHandle(env *models.RequestEnvelope) bool {
	return env.RequestType() == models.RequestTypeIntent && env.IntentName() == models.IntentAsk
}

func (h *AskHandler) Handle(ctx context.Context, env *models.RequestEnvelope) (*models.ResponseEnvelope, error) {
	attrs := env.SessionAttributes()

	question := strings.TrimSpace(env.SlotValue(models.SlotQuestion))
	if question == "" {
		return NewResponse(EmptyQuestionSpeech, WelcomeReprompt, false, attrs), nil
	}

	window := history.FromAttributes(attrs[history.AttributesKey])
	if h.TopicResetEnabled && window.ShouldReset(question, h.TopicResetMinOverlap) {
		log.Printf("Topic shift detected, dropping %d history entries", len(window))
		window = nil
	}

	start := time.Now()
	reply, fromFallback := h.Answer.Ask(ctx, h.Persona.Prompt(), window.Messages(), question)
	latency := time.Since(start)

	speech := voice.ForSpeech(reply, h.MaxSpeechLength)

	if !fromFallback {
		window = window.AppendExchange(question, reply, h.MaxHistoryEntries)
		attrs[history.AttributesKey] = window
		h.saveAttributes(ctx, env, attrs)
	}
	h.recordExchange(ctx, env, question, reply, fromFallback, latency)

	resp := NewResponse(speech, AskReprompt, false, attrs)
	if !fromFallback {
		resp.Response.Card = &models.Card{
			Type:    "Simple",
			Title:   CardTitle,
			Content: voice.PlainText(speech),
		}
	}
	return resp, nil
}

func (h *AskHandler) saveAttributes(ctx context.Context, env *models.RequestEnvelope, attrs map[string]any) {
	if h.Store == nil {
		return
	}
	userID := env.UserID()
	if userID == "" {
		return
	}
	if err := h.Store.Save(ctx, userID, attrs); err != nil {
		log.Printf("Failed to save attributes for %s: %v", userID, err)
	}
}

// recordExchange pushes the exchange onto the archive queue and fans it
// out to console sockets. Both are best effort: a redis hiccup never
// breaks the spoken reply.
func (h *AskHandler) recordExchange(ctx context.Context, env *models.RequestEnvelope, question, reply string, fallback bool, latency time.Duration) {
	if h.Redis == nil {
		return
	}
	t := models.Transcript{
		ID:        uuid.New(),
		SessionID: env.SessionID(),
		UserID:    env.UserID(),
		Question:  question,
		Reply:     reply,
		Fallback:  fallback,
		LatencyMS: latency.Milliseconds(),
		CreatedAt: time.Now().UTC(),
	}
	data, err := json.Marshal(t)
	if err != nil {
		return
	}
	if err := h.Redis.RPush(ctx, models.TranscriptQueue, data).Err(); err != nil {
		log.Printf("Failed to enqueue transcript: %v", err)
	}
	event, _ := json.Marshal(models.WSMessage{Type: "exchange", Payload: t})
	if err := h.Redis.Publish(ctx, models.ConsoleEventsChannel, event).Err(); err != nil {
		log.Printf("Failed to publish console event: %v", err)
	}
}
