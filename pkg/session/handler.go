package session

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

type SessionDTO struct {
	Id string `json:"id"`
}

type Handler struct {
	newId func() string
}

func NewHandler() *Handler {
	return &Handler{newId: NewId}
}

// CreateSession godoc
// @Summary Start a session
// @Description Returns a new session id. Send it in the X-Session-Id header to work on its ledger.
// @Tags Session
// @Produce json
// @Success 201 {object} SessionDTO
// @Router /api/session [post]
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	id := h.newId()
	log.Debugf("created session %s", id)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(SessionDTO{Id: id}); err != nil {
		log.Errorf("failed to encode session: %v", err)
	}
}
