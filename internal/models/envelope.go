package models

// Request kinds accepted on the skill webhook. The set is closed: anything
// else falls through to the dispatcher's catch-all.
const (
	RequestTypeLaunch       = "LaunchRequest"
	RequestTypeIntent       = "IntentRequest"
	RequestTypeSessionEnded = "SessionEndedRequest"
)

// Intent names the skill responds to. AskIntent carries the free-text
// question slot; the AMAZON.* names are the platform built-ins.
const (
	IntentAsk      = "AskIntent"
	IntentHelp     = "AMAZON.HelpIntent"
	IntentCancel   = "AMAZON.CancelIntent"
	IntentStop     = "AMAZON.StopIntent"
	IntentFallback = "AMAZON.FallbackIntent"

	SlotQuestion = "question"
)

// EnvelopeVersion is the wire format version echoed in every response.
const EnvelopeVersion = "1.0"

type RequestEnvelope struct {
	Version string          `json:"version"`
	Session *Session        `json:"session,omitempty"`
	Context *RequestContext `json:"context,omitempty"`
	Request *Request        `json:"request"`
}

type Session struct {
	New         bool           `json:"new"`
	SessionID   string         `json:"sessionId"`
	Attributes  map[string]any `json:"attributes,omitempty"`
	Application *Application   `json:"application,omitempty"`
	User        *User          `json:"user,omitempty"`
}

type Application struct {
	ApplicationID string `json:"applicationId"`
}

type User struct {
	UserID      string `json:"userId"`
	AccessToken string `json:"accessToken,omitempty"`
}

type RequestContext struct {
	System *SystemContext `json:"System,omitempty"`
}

type SystemContext struct {
	Application *Application `json:"application,omitempty"`
	User        *User        `json:"user,omitempty"`
}

type Request struct {
	Type      string `json:"type"`
	RequestID string `json:"requestId"`
	Timestamp string `json:"timestamp"`
	Locale    string `json:"locale,omitempty"`

	// IntentRequest only.
	Intent *Intent `json:"intent,omitempty"`

	// SessionEndedRequest only.
	Reason string        `json:"reason,omitempty"`
	Error  *SessionError `json:"error,omitempty"`
}

type Intent struct {
	Name  string          `json:"name"`
	Slots map[string]Slot `json:"slots,omitempty"`
}

type Slot struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

type SessionError struct {
	Type    string `json:"type,omitempty"`
	Message string `json:"message,omitempty"`
}

type ResponseEnvelope struct {
	Version           string         `json:"version"`
	SessionAttributes map[string]any `json:"sessionAttributes,omitempty"`
	Response          *Response      `json:"response"`
}

type Response struct {
	OutputSpeech     *OutputSpeech `json:"outputSpeech,omitempty"`
	Card             *Card         `json:"card,omitempty"`
	Reprompt         *Reprompt     `json:"reprompt,omitempty"`
	ShouldEndSession bool          `json:"shouldEndSession"`
}

const (
	SpeechTypeSSML      = "SSML"
	SpeechTypePlainText = "PlainText"
)

type OutputSpeech struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
	SSML string `json:"ssml,omitempty"`
}

type Card struct {
	Type    string `json:"type"`
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
}

type Reprompt struct {
	OutputSpeech *OutputSpeech `json:"outputSpeech,omitempty"`
}

// RequestType returns the request kind, or "" for an envelope with no
// request block.
func (e *RequestEnvelope) RequestType() string {
	if e == nil || e.Request == nil {
		return ""
	}
	return e.Request.Type
}

// IntentName returns the intent of an IntentRequest, or "" for any other
// request kind.
func (e *RequestEnvelope) IntentName() string {
	if e == nil || e.Request == nil || e.Request.Intent == nil {
		return ""
	}
	return e.Request.Intent.Name
}

// SlotValue returns the value of a named slot, or "" when the slot is
// absent or unfilled.
func (e *RequestEnvelope) SlotValue(name string) string {
	if e == nil || e.Request == nil || e.Request.Intent == nil {
		return ""
	}
	return e.Request.Intent.Slots[name].Value
}

// SessionAttributes returns the attributes map carried by the session,
// never nil.
func (e *RequestEnvelope) SessionAttributes() map[string]any {
	if e == nil || e.Session == nil || e.Session.Attributes == nil {
		return map[string]any{}
	}
	return e.Session.Attributes
}

// UserID returns the platform user ID, preferring the session block over
// the system context.
func (e *RequestEnvelope) UserID() string {
	if e == nil {
		return ""
	}
	if e.Session != nil && e.Session.User != nil && e.Session.User.UserID != "" {
		return e.Session.User.UserID
	}
	if e.Context != nil && e.Context.System != nil && e.Context.System.User != nil {
		return e.Context.System.User.UserID
	}
	return ""
}

// ApplicationID returns the skill application ID, preferring the session
// block over the system context.
func (e *RequestEnvelope) ApplicationID() string {
	if e == nil {
		return ""
	}
	if e.Session != nil && e.Session.Application != nil && e.Session.Application.ApplicationID != "" {
		return e.Session.Application.ApplicationID
	}
	if e.Context != nil && e.Context.System != nil && e.Context.System.Application != nil {
		return e.Context.System.Application.ApplicationID
	}
	return ""
}

// SessionID returns the platform session ID, or "" when absent.
func (e *RequestEnvelope) SessionID() string {
	if e == nil || e.Session == nil {
		return ""
	}
	return e.Session.SessionID
}
