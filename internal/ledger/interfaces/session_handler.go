package interfaces

import (
	"log"
	"net/http"

	"github.com/fintrackhq/fintrack/internal/identity"
)

// SessionHandler turns authenticated session announcements into identity
// events for the session bridge. Loading happens asynchronously on the bridge
// goroutine, so both endpoints reply 202.
type SessionHandler struct {
	events       chan<- identity.Event
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string)
}

func NewSessionHandler(
	events chan<- identity.Event,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
) *SessionHandler {
	if events == nil {
		log.Fatal("Events channel must not be nil")
		return nil
	}
	return &SessionHandler{
		events:       events,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *SessionHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	h.events <- identity.Event{Kind: identity.SignedIn, UserID: userID}
	h.respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"status":  "success",
		"message": "Session start accepted.",
	})
}

func (h *SessionHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	h.events <- identity.Event{Kind: identity.SignedOut, UserID: userID}
	h.respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"status":  "success",
		"message": "Session end accepted.",
	})
}
