package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apimw "github.com/taskflow/eventcore/internal/api/middleware"
	"github.com/taskflow/eventcore/internal/domain"
	"github.com/taskflow/eventcore/internal/reminder"
)

// ReminderHandler delegates straight to reminder.Service: the endpoints here
// are thin HTTP adapters over reminder scheduling.
type ReminderHandler struct {
	svc    *reminder.Service
	logger *zap.Logger
}

func NewReminderHandler(svc *reminder.Service, logger *zap.Logger) *ReminderHandler {
	return &ReminderHandler{svc: svc, logger: logger}
}

func (h *ReminderHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := apimw.GetUserID(r.Context())
	taskID := chi.URLParam(r, "id")

	var req domain.CreateReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	rem, err := h.svc.Schedule(r.Context(), userID, taskID, req.RemindAt, req.Type)
	if err != nil {
		mapReminderError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, rem)
}

func (h *ReminderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := apimw.GetUserID(r.Context())
	taskID := chi.URLParam(r, "id")

	reminders, err := h.svc.List(r.Context(), userID, taskID)
	if err != nil {
		mapReminderError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"reminders": reminders})
}

func (h *ReminderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID := apimw.GetUserID(r.Context())
	reminderID := chi.URLParam(r, "id")

	if err := h.svc.Cancel(r.Context(), userID, reminderID); err != nil {
		mapReminderError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func mapReminderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrReminderInPast), errors.Is(err, domain.ErrInvalidNotifyType):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
