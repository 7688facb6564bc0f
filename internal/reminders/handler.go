package reminders

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	ledgerErrors "github.com/fintrackhq/fintrack/internal/ledger/errors"
)

type Handler struct {
	service      Service
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string)
}

func NewHandler(
	service Service,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
) *Handler {
	return &Handler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *Handler) GetReminders(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if r.URL.Query().Get("upcoming") == "true" {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		list, err := h.service.GetUpcoming(r.Context(), userID, limit)
		if err != nil {
			log.Printf("Error fetching upcoming reminders: %v", err)
			h.respondError(w, http.StatusInternalServerError, "Failed to retrieve reminders")
			return
		}
		h.respondJSON(w, http.StatusOK, map[string]interface{}{"status": "success", "data": list})
		return
	}

	list, err := h.service.GetReminders(r.Context(), userID)
	if err != nil {
		log.Printf("Error fetching reminders: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve reminders")
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{"status": "success", "data": list})
}

func (h *Handler) CreateReminder(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var reminder Reminder
	if err := json.NewDecoder(r.Body).Decode(&reminder); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.service.CreateReminder(r.Context(), userID, reminder)
	if err != nil {
		if ledgerErrors.IsValidationError(err) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("Error creating reminder: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to create reminder")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Reminder created successfully.",
		"data":    created,
	})
}

func (h *Handler) CompleteReminder(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	reminderID, err := strconv.ParseInt(r.PathValue("reminderID"), 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid reminder ID")
		return
	}

	if err := h.service.CompleteReminder(r.Context(), userID, reminderID); err != nil {
		if errors.Is(err, ErrReminderNotFound) {
			h.respondError(w, http.StatusNotFound, "Reminder not found")
			return
		}
		log.Printf("Error completing reminder: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to update reminder")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Reminder marked as completed.",
	})
}

func (h *Handler) DeleteReminder(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	reminderID, err := strconv.ParseInt(r.PathValue("reminderID"), 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid reminder ID")
		return
	}

	if err := h.service.DeleteReminder(r.Context(), userID, reminderID); err != nil {
		if errors.Is(err, ErrReminderNotFound) {
			h.respondError(w, http.StatusNotFound, "Reminder not found")
			return
		}
		log.Printf("Error deleting reminder: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to delete reminder")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Reminder deleted successfully.",
	})
}
