package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"voxbridge/internal/models"
	"voxbridge/internal/skill"
)

type SkillHandler struct {
	dispatcher *skill.Dispatcher
	verifier   *skill.Verifier
}

func NewSkillHandler(dispatcher *skill.Dispatcher, verifier *skill.Verifier) *SkillHandler {
	return &SkillHandler{dispatcher: dispatcher, verifier: verifier}
}

// Webhook is the endpoint the voice platform posts request envelopes to.
// The platform reads whatever comes back aloud, so every outcome is a
// 200 with a speakable envelope: a malformed or rejected request gets
// the apology rather than an error status.
func (h *SkillHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	var env models.RequestEnvelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		log.Printf("Skill webhook: malformed envelope: %v", err)
		writeJSON(w, http.StatusOK, skill.ApologyResponse())
		return
	}

	if err := h.verifier.Verify(&env, time.Now()); err != nil {
		log.Printf("Skill webhook: rejected envelope: %v", err)
		writeJSON(w, http.StatusOK, skill.ApologyResponse())
		return
	}

	resp := h.dispatcher.Dispatch(r.Context(), &env)
	writeJSON(w, http.StatusOK, resp)
}
