package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apimw "github.com/taskflow/eventcore/internal/api/middleware"
	"github.com/taskflow/eventcore/internal/domain"
	"github.com/taskflow/eventcore/internal/service"
)

// RecurrenceHandler attaches and inspects a recurrence rule for a task.
// internal/recur owns spawning the next occurrence; this handler only
// creates and reads the rule itself.
type RecurrenceHandler struct {
	svc    *service.RecurrenceService
	logger *zap.Logger
}

func NewRecurrenceHandler(svc *service.RecurrenceService, logger *zap.Logger) *RecurrenceHandler {
	return &RecurrenceHandler{svc: svc, logger: logger}
}

func (h *RecurrenceHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := apimw.GetUserID(r.Context())
	taskID := chi.URLParam(r, "id")

	var req domain.CreateRecurrenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	rule, err := h.svc.Create(r.Context(), userID, taskID, req)
	if err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, rule)
}

func (h *RecurrenceHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := apimw.GetUserID(r.Context())
	taskID := chi.URLParam(r, "id")

	rule, err := h.svc.Get(r.Context(), userID, taskID)
	if err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rule)
}
