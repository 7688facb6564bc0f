package savings

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/fintrackhq/fintrack/internal/ledger/domain"
	ledgerErrors "github.com/fintrackhq/fintrack/internal/ledger/errors"
	"github.com/shopspring/decimal"
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

func (h *Handler) GetGoals(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scope(w, r)
	if !ok {
		return
	}
	goals, err := h.service.GetGoals(r.Context(), scope)
	if err != nil {
		log.Printf("Error fetching savings goals: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve savings goals")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   goals,
	})
}

func (h *Handler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scope(w, r)
	if !ok {
		return
	}
	var goal Goal
	if err := json.NewDecoder(r.Body).Decode(&goal); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.service.CreateGoal(r.Context(), scope, goal)
	if err != nil {
		if ledgerErrors.IsValidationError(err) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("Error creating savings goal: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to create savings goal")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Savings goal created successfully.",
		"data":    created,
	})
}

func (h *Handler) AddContribution(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.scope(w, r)
	if !ok {
		return
	}
	goalID := r.PathValue("goalID")
	var req struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	goal, err := h.service.AddToGoal(r.Context(), scope, goalID, req.Amount)
	if err != nil {
		switch {
		case ledgerErrors.IsValidationError(err):
			h.respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrGoalNotFound):
			h.respondError(w, http.StatusNotFound, "Savings goal not found")
		default:
			log.Printf("Error updating savings goal: %v", err)
			h.respondError(w, http.StatusInternalServerError, "Failed to update savings goal")
		}
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Contribution added successfully.",
		"data":    goal,
	})
}
