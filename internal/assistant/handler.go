package assistant

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
)

type Asker interface {
	Ask(ctx context.Context, userID, query string) (string, error)
}

type Handler struct {
	client       Asker
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string)
}

func NewHandler(
	client Asker,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
) *Handler {
	return &Handler{
		client:       client,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Query == "" {
		h.respondError(w, http.StatusBadRequest, "Query is required")
		return
	}

	reply, err := h.client.Ask(r.Context(), userID, req.Query)
	if err != nil {
		log.Printf("Error querying assistant: %v", err)
		h.respondError(w, http.StatusBadGateway, "Assistant is unavailable")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   map[string]string{"reply": reply},
	})
}
