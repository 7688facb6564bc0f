package interfaces

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/fintrackhq/fintrack/internal/ledger/application"
	"github.com/fintrackhq/fintrack/internal/ledger/domain"
	ledgerErrors "github.com/fintrackhq/fintrack/internal/ledger/errors"
	"github.com/shopspring/decimal"
)

type LedgerService interface {
	Snapshot() application.Snapshot
	Summary() application.Summary
	AddIncome(ctx context.Context, source domain.IncomeSource) (domain.IncomeSource, domain.Transaction, error)
	AddBudget(ctx context.Context, category domain.BudgetCategory) (domain.BudgetCategory, error)
	ProcessPayment(ctx context.Context, payment domain.Payment) (domain.Transaction, error)
	RefreshTransactions(ctx context.Context) error
}

// LedgerHandler serves the per-session ledger. The resolve func maps the
// authenticated user to their live session state; a miss means no session is
// loaded (signed out, still loading, or the tenant scope is unresolved).
type LedgerHandler struct {
	resolve      func(userID string) (LedgerService, bool)
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string)
}

func NewLedgerHandler(
	resolve func(userID string) (LedgerService, bool),
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
) *LedgerHandler {
	if resolve == nil {
		log.Fatal("Resolve function must not be nil")
		return nil
	}
	if respondJSON == nil {
		log.Fatal("RespondJSON function must not be nil")
		return nil
	}
	if respondError == nil {
		log.Fatal("RespondError function must not be nil")
		return nil
	}
	return &LedgerHandler{
		resolve:      resolve,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *LedgerHandler) ledger(w http.ResponseWriter, r *http.Request) (LedgerService, bool) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}
	service, ok := h.resolve(userID)
	if !ok {
		h.respondError(w, http.StatusConflict, "Ledger not loaded. Start a session first.")
		return nil, false
	}
	return service, true
}

func (h *LedgerHandler) GetLedger(w http.ResponseWriter, r *http.Request) {
	service, ok := h.ledger(w, r)
	if !ok {
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data": map[string]interface{}{
			"ledger":  service.Snapshot(),
			"summary": service.Summary(),
		},
	})
}

func (h *LedgerHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	service, ok := h.ledger(w, r)
	if !ok {
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   service.Summary(),
	})
}

func (h *LedgerHandler) AddIncome(w http.ResponseWriter, r *http.Request) {
	service, ok := h.ledger(w, r)
	if !ok {
		return
	}
	var req struct {
		Name   string          `json:"name"`
		Amount decimal.Decimal `json:"amount"`
		Date   string          `json:"date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	source, mirror, err := service.AddIncome(r.Context(), domain.IncomeSource{
		Name:   req.Name,
		Amount: req.Amount,
		Date:   req.Date,
	})
	if err != nil {
		if ledgerErrors.IsPartialFailureError(err) {
			// The income row committed without its mirror transaction. The
			// caller must know which half exists so it can warn and re-sync.
			h.respondJSON(w, http.StatusInternalServerError, map[string]interface{}{
				"status":  "partial_failure",
				"message": err.Error(),
				"data":    map[string]interface{}{"income": source},
			})
			return
		}
		h.handleMutationError(w, err, "Failed to add income")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Income added successfully.",
		"data": map[string]interface{}{
			"income":      source,
			"transaction": mirror,
		},
	})
}

func (h *LedgerHandler) AddBudget(w http.ResponseWriter, r *http.Request) {
	service, ok := h.ledger(w, r)
	if !ok {
		return
	}
	var req struct {
		Name   string          `json:"name"`
		Budget decimal.Decimal `json:"budget"`
		Color  string          `json:"color"`
		Icon   string          `json:"icon"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	category, err := service.AddBudget(r.Context(), domain.BudgetCategory{
		Name:   req.Name,
		Budget: req.Budget,
		Color:  req.Color,
		Icon:   req.Icon,
	})
	if err != nil {
		h.handleMutationError(w, err, "Failed to add budget category")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Budget category added successfully.",
		"data":    category,
	})
}

func (h *LedgerHandler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	service, ok := h.ledger(w, r)
	if !ok {
		return
	}
	var payment domain.Payment
	if err := json.NewDecoder(r.Body).Decode(&payment); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	transaction, err := service.ProcessPayment(r.Context(), payment)
	if err != nil {
		if ledgerErrors.IsPartialFailureError(err) {
			// The debit is on the ledger but the category total is stale.
			h.respondJSON(w, http.StatusInternalServerError, map[string]interface{}{
				"status":  "partial_failure",
				"message": err.Error(),
				"data":    map[string]interface{}{"transaction": transaction},
			})
			return
		}
		h.handleMutationError(w, err, "Failed to process payment")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Payment processed successfully.",
		"data":    transaction,
	})
}

func (h *LedgerHandler) RefreshTransactions(w http.ResponseWriter, r *http.Request) {
	service, ok := h.ledger(w, r)
	if !ok {
		return
	}
	if err := service.RefreshTransactions(r.Context()); err != nil {
		h.handleMutationError(w, err, "Failed to refresh transactions")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Transactions refreshed.",
		"data":    service.Snapshot().Transactions,
	})
}

func (h *LedgerHandler) handleMutationError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case ledgerErrors.IsValidationError(err):
		h.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ledgerErrors.ErrAuthRequired):
		h.respondError(w, http.StatusUnauthorized, "Sign in to modify the ledger")
	case errors.Is(err, ledgerErrors.ErrNotReady):
		h.respondError(w, http.StatusConflict, "Ledger is still loading")
	case ledgerErrors.IsRemoteWriteError(err):
		log.Printf("Remote store write failed: %v", err)
		h.respondError(w, http.StatusBadGateway, "Remote store write failed")
	default:
		log.Printf("Ledger operation failed: %v", err)
		h.respondError(w, http.StatusInternalServerError, fallback)
	}
}
