package skill

import (
	"context"
	"errors"
	"log"

	"voxbridge/internal/attributes"
	"voxbridge/internal/history"
	"voxbridge/internal/models"
)

// LaunchHandler greets the speaker. With persistence on, it restores the
// speaker's saved attributes so the conversation survives across sessions.
type LaunchHandler struct {
	Store attributes.Store
}

func (h *LaunchHandler) CanHandle(env *models.RequestEnvelope) bool {
	return env.RequestType() == models.RequestTypeLaunch
}

func (h *LaunchHandler) Handle(ctx context.Context, env *models.RequestEnvelope) (*models.ResponseEnvelope, error) {
	attrs := env.SessionAttributes()
	if h.Store != nil {
		if userID := env.UserID(); userID != "" {
			saved, err := h.Store.Load(ctx, userID)
			switch {
			case err == nil:
				attrs = saved
			case errors.Is(err, attributes.ErrNotFound):
			default:
				log.Printf("Failed to load attributes for %s: %v", userID, err)
			}
		}
	}

	speech := WelcomeSpeech
	if len(history.FromAttributes(attrs[history.AttributesKey])) > 0 {
		speech = WelcomeBackSpeech
	}
	return NewResponse(speech, WelcomeReprompt, false, attrs), nil
}

// HelpHandler explains what the skill does and keeps the session open.
type HelpHandler struct{}

func (h *HelpHandler) CanHandle(env *models.RequestEnvelope) bool {
	return env.RequestType() == models.RequestTypeIntent && env.IntentName() == models.IntentHelp
}

func (h *HelpHandler) Handle(ctx context.Context, env *models.RequestEnvelope) (*models.ResponseEnvelope, error) {
	return NewResponse(HelpSpeech, HelpReprompt, false, env.SessionAttributes()), nil
}

// StopHandler says goodbye and ends the session for both the stop and
// cancel built-ins.
type StopHandler struct{}

func (h *StopHandler) CanHandle(env *models.RequestEnvelope) bool {
	if env.RequestType() != models.RequestTypeIntent {
		return false
	}
	name := env.IntentName()
	return name == models.IntentStop || name == models.IntentCancel
}

func (h *StopHandler) Handle(ctx context.Context, env *models.RequestEnvelope) (*models.ResponseEnvelope, error) {
	return NewResponse(GoodbyeSpeech, "", true, env.SessionAttributes()), nil
}

// FallbackHandler catches utterances the platform could not map to any
// intent and nudges the speaker back on track.
type FallbackHandler struct{}

func (h *FallbackHandler) CanHandle(env *models.RequestEnvelope) bool {
	return env.RequestType() == models.RequestTypeIntent && env.IntentName() == models.IntentFallback
}

func (h *FallbackHandler) Handle(ctx context.Context, env *models.RequestEnvelope) (*models.ResponseEnvelope, error) {
	return NewResponse(FallbackSpeech, FallbackReprompt, false, env.SessionAttributes()), nil
}

// SessionEndedHandler acknowledges the teardown notification. The reply
// carries no speech; the platform ignores it. Attributes get one final
// save so the last exchange is never lost.
type SessionEndedHandler struct {
	Store attributes.Store
}

func (h *SessionEndedHandler) CanHandle(env *models.RequestEnvelope) bool {
	return env.RequestType() == models.RequestTypeSessionEnded
}

func (h *SessionEndedHandler) Handle(ctx context.Context, env *models.RequestEnvelope) (*models.ResponseEnvelope, error) {
	if env.Request != nil && env.Request.Error != nil {
		log.Printf("Session ended with reason %s: %s", env.Request.Reason, env.Request.Error.Message)
	} else if env.Request != nil {
		log.Printf("Session ended with reason %s", env.Request.Reason)
	}

	if h.Store != nil {
		if userID := env.UserID(); userID != "" && env.Session != nil && env.Session.Attributes != nil {
			if err := h.Store.Save(ctx, userID, env.Session.Attributes); err != nil {
				log.Printf("Failed to save attributes for %s: %v", userID, err)
			}
		}
	}
	return EmptyResponse(), nil
}
