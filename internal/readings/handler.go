package readings

import (
	"context"
	"encoding/json"
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
	service      Service
	resolver     ScopeResolver
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string)
}

func NewHandler(
	service Service,
	resolver ScopeResolver,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
) *Handler {
	return &Handler{
		service:      service,
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

func (h *Handler) GetReadings(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scope(w, r)
	if !ok {
		return
	}
	list, err := h.service.GetReadings(r.Context(), scope)
	if err != nil {
		log.Printf("Error fetching readings: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve readings")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{"status": "success", "data": list})
}

func (h *Handler) CreateReading(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scope(w, r)
	if !ok {
		return
	}
	var reading Reading
	if err := json.NewDecoder(r.Body).Decode(&reading); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.service.CreateReading(r.Context(), scope, reading)
	if err != nil {
		if ledgerErrors.IsValidationError(err) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("Error creating reading: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to create reading")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Reading created successfully.",
		"data":    created,
	})
}

func (h *Handler) UpdateReading(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scope(w, r)
	if !ok {
		return
	}
	var reading Reading
	if err := json.NewDecoder(r.Body).Decode(&reading); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	reading.ID = r.PathValue("readingID")

	updated, err := h.service.UpdateReading(r.Context(), scope, reading)
	if err != nil {
		switch {
		case ledgerErrors.IsValidationError(err):
			h.respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrReadingNotFound):
			h.respondError(w, http.StatusNotFound, "Reading not found")
		default:
			log.Printf("Error updating reading: %v", err)
			h.respondError(w, http.StatusInternalServerError, "Failed to update reading")
		}
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Reading updated successfully.",
		"data":    updated,
	})
}

func (h *Handler) DeleteReading(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scope(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteReading(r.Context(), scope, r.PathValue("readingID")); err != nil {
		if errors.Is(err, ErrReadingNotFound) {
			h.respondError(w, http.StatusNotFound, "Reading not found")
			return
		}
		log.Printf("Error deleting reading: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to delete reading")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Reading deleted successfully.",
	})
}
