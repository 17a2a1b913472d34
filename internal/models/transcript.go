package models

import (
	"time"

	"github.com/google/uuid"
)

// TranscriptQueue is the redis list the webhook pushes finished exchanges
// onto; the worker pool drains it into postgres.
const TranscriptQueue = "queue:transcripts"

// ConsoleEventsChannel is the redis pub/sub channel carrying live exchange
// events to connected console sockets.
const ConsoleEventsChannel = "console:events"

// Transcript is one archived question/answer exchange.
type Transcript struct {
	ID        uuid.UUID `json:"id"`
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	Question  string    `json:"question"`
	Reply     string    `json:"reply"`
	Fallback  bool      `json:"fallback"`
	LatencyMS int64     `json:"latency_ms"`
	CreatedAt time.Time `json:"created_at"`
}
