package skill

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"voxbridge/internal/answer"
	"voxbridge/internal/attributes"
	"voxbridge/internal/history"
	"voxbridge/internal/models"
	"voxbridge/internal/persona"
	"voxbridge/internal/voice"
)

type scriptedProvider struct {
	reply string
	err   error

	calls            int
	lastSystem       string
	lastConversation []models.ChatMessage
	lastQuestion     string
}

func (p *scriptedProvider) Complete(ctx context.Context, system string, conversation []models.ChatMessage, question string) (string, error) {
	p.calls++
	p.lastSystem = system
	p.lastConversation = conversation
	p.lastQuestion = question
	if p.err != nil {
		return "", p.err
	}
	return p.reply, nil
}

func (p *scriptedProvider) Name() string { return "scripted" }

func newAskHandler(t *testing.T, p answer.Provider) *AskHandler {
	t.Helper()
	pers, err := persona.New("")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	return &AskHandler{
		Answer:            answer.NewService(p, time.Second),
		Persona:           pers,
		MaxHistoryEntries: 10,
		MaxSpeechLength:   8000,
	}
}

// roundTripAttrs simulates the platform echoing session attributes back
// on the next request: everything goes through JSON.
func roundTripAttrs(t *testing.T, attrs map[string]any) map[string]any {
	t.Helper()
	data, err := json.Marshal(attrs)
	if err != nil {
		t.Fatalf("Failed to marshal attributes: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Failed to unmarshal attributes: %v", err)
	}
	return out
}

func volcanoAttrs() map[string]any {
	return map[string]any{history.AttributesKey: []any{
		map[string]any{"role": "user", "content": "what is a volcano"},
		map[string]any{"role": "assistant", "content": "A volcano is an opening in the crust."},
		map[string]any{"role": "user", "content": "tell me about lava"},
		map[string]any{"role": "assistant", "content": "Lava is molten rock."},
	}}
}

func TestAsk_AnswersAndTracksHistory(t *testing.T) {
	provider := &scriptedProvider{reply: "A volcano is an opening in the crust. Lava comes out."}
	h := newAskHandler(t, provider)

	resp, err := h.Handle(context.Background(), intentEnvelope(models.IntentAsk, "what is a volcano", nil))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	ssml := spokenSSML(t, resp)
	if !strings.HasPrefix(ssml, "<speak>") || !strings.HasSuffix(ssml, "</speak>") {
		t.Errorf("Expected speak envelope, got %q", ssml)
	}
	if !strings.Contains(ssml, "volcano") {
		t.Errorf("Expected the answer in speech, got %q", ssml)
	}
	if !strings.Contains(ssml, voice.PauseTag) {
		t.Errorf("Expected a sentence pause, got %q", ssml)
	}
	if resp.Response.ShouldEndSession {
		t.Error("Expected the session to stay open")
	}
	if resp.Response.Reprompt == nil || !strings.Contains(resp.Response.Reprompt.OutputSpeech.SSML, AskReprompt) {
		t.Error("Expected a follow-up reprompt")
	}

	window := history.FromAttributes(resp.SessionAttributes[history.AttributesKey])
	if len(window) != 2 {
		t.Fatalf("Expected 2 history entries, got %d", len(window))
	}
	if window[0].Content != "what is a volcano" || window[1].Role != models.RoleAssistant {
		t.Errorf("Expected the exchange recorded, got %+v", window)
	}

	if provider.calls != 1 {
		t.Errorf("Expected 1 backend call, got %d", provider.calls)
	}
	if provider.lastSystem != persona.DefaultPrompt {
		t.Errorf("Expected the default persona prompt, got %q", provider.lastSystem)
	}
	if provider.lastQuestion != "what is a volcano" {
		t.Errorf("Expected the question passed through, got %q", provider.lastQuestion)
	}
	if len(provider.lastConversation) != 0 {
		t.Errorf("Expected empty conversation on first question, got %d entries", len(provider.lastConversation))
	}

	card := resp.Response.Card
	if card == nil {
		t.Fatal("Expected a companion card")
	}
	if card.Title != CardTitle || !strings.Contains(card.Content, "volcano") {
		t.Errorf("Expected card with answer text, got %+v", card)
	}
	if strings.Contains(card.Content, "<break") {
		t.Errorf("Expected plain card text, got %q", card.Content)
	}
}

func TestAsk_ConversationRoundTrip(t *testing.T) {
	provider := &scriptedProvider{reply: "Lava is molten rock that reaches the surface."}
	h := newAskHandler(t, provider)

	first, err := h.Handle(context.Background(), intentEnvelope(models.IntentAsk, "what is lava", nil))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	echoed := roundTripAttrs(t, first.SessionAttributes)
	second, err := h.Handle(context.Background(), intentEnvelope(models.IntentAsk, "how hot does lava get", echoed))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(provider.lastConversation) != 2 {
		t.Fatalf("Expected the first exchange replayed, got %d entries", len(provider.lastConversation))
	}
	if provider.lastConversation[0].Content != "what is lava" {
		t.Errorf("Expected the first question replayed, got %q", provider.lastConversation[0].Content)
	}
	if provider.lastConversation[1].Role != models.RoleAssistant {
		t.Errorf("Expected the first reply replayed, got role %q", provider.lastConversation[1].Role)
	}

	window := history.FromAttributes(second.SessionAttributes[history.AttributesKey])
	if len(window) != 4 {
		t.Errorf("Expected 4 history entries after two exchanges, got %d", len(window))
	}
}

func TestAsk_FallbackKeepsHistoryAndAttributes(t *testing.T) {
	provider := &scriptedProvider{err: errors.New("upstream timeout")}
	h := newAskHandler(t, provider)

	attrs := roundTripAttrs(t, volcanoAttrs())
	resp, err := h.Handle(context.Background(), intentEnvelope(models.IntentAsk, "what about geysers", attrs))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !strings.Contains(spokenSSML(t, resp), "trouble reaching") {
		t.Errorf("Expected the fallback reply, got %q", spokenSSML(t, resp))
	}
	if resp.Response.ShouldEndSession {
		t.Error("Expected the session to stay open after a fallback")
	}
	if resp.Response.Card != nil {
		t.Error("Expected no card for a fallback reply")
	}

	window := history.FromAttributes(resp.SessionAttributes[history.AttributesKey])
	if len(window) != 4 {
		t.Fatalf("Expected history untouched by fallback, got %d entries", len(window))
	}
	if window[3].Content != "Lava is molten rock." {
		t.Errorf("Expected original history preserved, got %+v", window)
	}
	if provider.calls != 1 {
		t.Errorf("Expected exactly 1 backend attempt, got %d", provider.calls)
	}
}

func TestAsk_EmptyQuestionSkipsBackend(t *testing.T) {
	provider := &scriptedProvider{reply: "should never be spoken"}
	h := newAskHandler(t, provider)

	resp, err := h.Handle(context.Background(), intentEnvelope(models.IntentAsk, "", nil))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !strings.Contains(spokenSSML(t, resp), EmptyQuestionSpeech) {
		t.Errorf("Expected the empty-question reprompt, got %q", spokenSSML(t, resp))
	}
	if provider.calls != 0 {
		t.Errorf("Expected no backend call, got %d", provider.calls)
	}
}

func TestAsk_TopicResetDropsWindow(t *testing.T) {
	provider := &scriptedProvider{reply: "Hamlet was written by William Shakespeare."}
	h := newAskHandler(t, provider)
	h.TopicResetEnabled = true
	h.TopicResetMinOverlap = 1

	attrs := roundTripAttrs(t, volcanoAttrs())
	resp, err := h.Handle(context.Background(), intentEnvelope(models.IntentAsk, "who wrote hamlet", attrs))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(provider.lastConversation) != 0 {
		t.Errorf("Expected a fresh conversation after topic shift, got %d entries", len(provider.lastConversation))
	}
	window := history.FromAttributes(resp.SessionAttributes[history.AttributesKey])
	if len(window) != 2 {
		t.Fatalf("Expected only the new exchange, got %d entries", len(window))
	}
	if window[0].Content != "who wrote hamlet" {
		t.Errorf("Expected the new question first, got %q", window[0].Content)
	}
}

func TestAsk_TopicTieKeepsWindow(t *testing.T) {
	provider := &scriptedProvider{reply: "Lava can reach twelve hundred degrees Celsius."}
	h := newAskHandler(t, provider)
	h.TopicResetEnabled = true
	h.TopicResetMinOverlap = 1

	attrs := roundTripAttrs(t, volcanoAttrs())
	if _, err := h.Handle(context.Background(), intentEnvelope(models.IntentAsk, "how hot is lava", attrs)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(provider.lastConversation) != 4 {
		t.Errorf("Expected the window kept on shared topic, got %d entries", len(provider.lastConversation))
	}
}

func TestAsk_TopicResetOffByDefault(t *testing.T) {
	provider := &scriptedProvider{reply: "William Shakespeare wrote Hamlet."}
	h := newAskHandler(t, provider)

	attrs := roundTripAttrs(t, volcanoAttrs())
	if _, err := h.Handle(context.Background(), intentEnvelope(models.IntentAsk, "who wrote hamlet", attrs)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(provider.lastConversation) != 4 {
		t.Errorf("Expected the window kept with reset disabled, got %d entries", len(provider.lastConversation))
	}
}

func TestAsk_PersistsAttributes(t *testing.T) {
	provider := &scriptedProvider{reply: "The moon is about 384 thousand kilometers away."}
	h := newAskHandler(t, provider)
	h.Store = attributes.NewMemoryStore()

	if _, err := h.Handle(context.Background(), intentEnvelope(models.IntentAsk, "how far is the moon", nil)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	saved, err := h.Store.Load(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Expected saved attributes, got %v", err)
	}
	if _, ok := saved[history.AttributesKey]; !ok {
		t.Errorf("Expected history persisted, got %+v", saved)
	}
}

func TestAsk_LongAnswerTruncated(t *testing.T) {
	provider := &scriptedProvider{
		reply: strings.Repeat("All work and no play makes Jack a dull boy. ", 400),
	}
	h := newAskHandler(t, provider)

	resp, err := h.Handle(context.Background(), intentEnvelope(models.IntentAsk, "tell me everything", nil))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	ssml := spokenSSML(t, resp)
	if !strings.Contains(ssml, voice.ContinuationPrompt) {
		t.Error("Expected the continuation prompt on a truncated answer")
	}
	if len(ssml) > 8000+len("<speak></speak>") {
		t.Errorf("Expected speech capped at 8000 bytes, got %d", len(ssml))
	}
}
