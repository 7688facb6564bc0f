package alerts

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/fintrackhq/fintrack/internal/ledger/domain"
	ledgerErrors "github.com/fintrackhq/fintrack/internal/ledger/errors"
)

type ScopeResolver interface {
	Resolve(ctx context.Context, userID string) (domain.Scope, error)
}

type Handler struct {
	repo         Repository
	resolver     ScopeResolver
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string)
}

func NewHandler(
	repo Repository,
	resolver ScopeResolver,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
) *Handler {
	return &Handler{
		repo:         repo,
		resolver:     resolver,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *Handler) scope(w http.ResponseWriter, r *http.Request) (domain.Scope, bool) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return domain.Scope{}, false
	}
	scope, err := h.resolver.Resolve(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ledgerErrors.ErrScopeUnresolved) {
			h.respondError(w, http.StatusConflict, "Profile is not provisioned yet")
			return domain.Scope{}, false
		}
		log.Printf("Error resolving tenant scope: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to resolve tenant scope")
		return domain.Scope{}, false
	}
	return scope, true
}

func (h *Handler) GetUnread(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scope(w, r)
	if !ok {
		return
	}
	list, err := h.repo.FindUnread(r.Context(), scope)
	if err != nil {
		log.Printf("Error fetching alerts: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve alerts")
		return
	}
	if list == nil {
		list = []Alert{}
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{"status": "success", "data": list})
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scope(w, r)
	if !ok {
		return
	}
	if err := h.repo.MarkRead(r.Context(), scope, r.PathValue("alertID")); err != nil {
		log.Printf("Error marking alert read: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to update alert")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Alert marked as read.",
	})
}
