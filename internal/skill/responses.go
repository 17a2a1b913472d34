package skill

import (
	"voxbridge/internal/models"
	"voxbridge/internal/voice"
)

// NewResponse builds a spoken response envelope. speech must already be
// speech-markup safe; reprompt may be empty to skip the reprompt block.
func NewResponse(speech, reprompt string, endSession bool, attrs map[string]any) *models.ResponseEnvelope {
	resp := &models.Response{
		OutputSpeech: &models.OutputSpeech{
			Type: models.SpeechTypeSSML,
			SSML: voice.WrapSSML(speech),
		},
		ShouldEndSession: endSession,
	}
	if reprompt != "" {
		resp.Reprompt = &models.Reprompt{
			OutputSpeech: &models.OutputSpeech{
				Type: models.SpeechTypeSSML,
				SSML: voice.WrapSSML(reprompt),
			},
		}
	}
	return &models.ResponseEnvelope{
		Version:           models.EnvelopeVersion,
		SessionAttributes: attrs,
		Response:          resp,
	}
}

// ApologyResponse is the catch-all reply: the speaker hears an apology
// and keeps the session instead of getting a platform error.
func ApologyResponse() *models.ResponseEnvelope {
	return NewResponse(ApologySpeech, WelcomeReprompt, false, nil)
}

// EmptyResponse acknowledges requests that must not speak, like session
// teardown notifications.
func EmptyResponse() *models.ResponseEnvelope {
	return &models.ResponseEnvelope{
		Version:  models.EnvelopeVersion,
		Response: &models.Response{ShouldEndSession: true},
	}
}
