package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"voxbridge/internal/attributes"
	"voxbridge/internal/middleware"
	"voxbridge/internal/models"
	"voxbridge/internal/repository"
	"voxbridge/internal/skill"
)

const listLimit = 50

// ConsoleHandler serves the operator console: login, request simulation,
// and read access to stored sessions and archived transcripts.
type ConsoleHandler struct {
	jwtAuth      *middleware.JWTAuth
	passwordHash string
	dispatcher   *skill.Dispatcher
	store        attributes.Store
	transcripts  *repository.TranscriptRepo
}

func NewConsoleHandler(jwtAuth *middleware.JWTAuth, passwordHash string, dispatcher *skill.Dispatcher, store attributes.Store, transcripts *repository.TranscriptRepo) *ConsoleHandler {
	return &ConsoleHandler{
		jwtAuth:      jwtAuth,
		passwordHash: passwordHash,
		dispatcher:   dispatcher,
		store:        store,
		transcripts:  transcripts,
	}
}

func (h *ConsoleHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(h.passwordHash), []byte(req.Password)); err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResp("UNAUTHORIZED", "Invalid password", r))
		return
	}

	token, err := h.jwtAuth.GenerateConsoleToken()
	if err != nil {
		log.Printf("Console login: failed to sign token: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "An unexpected error occurred", r))
		return
	}

	writeJSON(w, http.StatusOK, models.TokenResponse{
		AccessToken: token,
		ExpiresIn:   int(middleware.TokenTTL.Seconds()),
	})
}

// Simulate runs a synthetic envelope through the live dispatcher and
// returns the raw response envelope. Simulated requests skip envelope
// verification since they never leave the process.
func (h *ConsoleHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req models.SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	env := buildSimulatedEnvelope(req)
	resp := h.dispatcher.Dispatch(r.Context(), env)
	writeJSON(w, http.StatusOK, resp)
}

func (h *ConsoleHandler) Sessions(w http.ResponseWriter, r *http.Request) {
	records := []attributes.Record{}
	if h.store != nil {
		var err error
		records, err = h.store.List(r.Context(), listLimit)
		if err != nil {
			log.Printf("Console sessions: list failed: %v", err)
			writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "An unexpected error occurred", r))
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": records})
}

func (h *ConsoleHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	if h.store == nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Session attributes not found", r))
		return
	}

	if err := h.store.Delete(r.Context(), key); err != nil {
		if errors.Is(err, attributes.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Session attributes not found", r))
			return
		}
		log.Printf("Console sessions: delete %q failed: %v", key, err)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "An unexpected error occurred", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Session attributes deleted"})
}

func (h *ConsoleHandler) Transcripts(w http.ResponseWriter, r *http.Request) {
	transcripts := []models.Transcript{}
	if h.transcripts != nil {
		var err error
		transcripts, err = h.transcripts.ListRecent(r.Context(), listLimit)
		if err != nil {
			log.Printf("Console transcripts: list failed: %v", err)
			writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "An unexpected error occurred", r))
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"transcripts": transcripts})
}

// buildSimulatedEnvelope fills platform-shaped defaults around whatever
// the console supplied, so handlers see the same envelope shape the real
// platform sends.
func buildSimulatedEnvelope(req models.SimulateRequest) *models.RequestEnvelope {
	reqType := req.Type
	if reqType == "" {
		if req.Question != "" || req.Intent != "" {
			reqType = models.RequestTypeIntent
		} else {
			reqType = models.RequestTypeLaunch
		}
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = "console-session"
	}
	userID := req.UserID
	if userID == "" {
		userID = "console-user"
	}

	env := &models.RequestEnvelope{
		Version: models.EnvelopeVersion,
		Session: &models.Session{
			New:        req.NewSession,
			SessionID:  sessionID,
			Attributes: req.Attributes,
			User:       &models.User{UserID: userID},
		},
		Request: &models.Request{
			Type:      reqType,
			RequestID: uuid.New().String(),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Locale:    "en-US",
		},
	}

	if reqType == models.RequestTypeIntent {
		intentName := req.Intent
		if intentName == "" {
			intentName = models.IntentAsk
		}
		env.Request.Intent = &models.Intent{Name: intentName}
		if req.Question != "" {
			env.Request.Intent.Slots = map[string]models.Slot{
				models.SlotQuestion: {Name: models.SlotQuestion, Value: req.Question},
			}
		}
	}

	return env
}

// Shared helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}
