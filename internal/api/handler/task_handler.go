package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apimw "github.com/taskflow/eventcore/internal/api/middleware"
	"github.com/taskflow/eventcore/internal/domain"
	"github.com/taskflow/eventcore/internal/repository"
	"github.com/taskflow/eventcore/internal/service"
)

// TaskHandler exposes task CRUD. After every mutation it calls
// service.TaskService, which itself publishes the lifecycle event — the
// handler never touches the publisher directly.
type TaskHandler struct {
	svc    *service.TaskService
	logger *zap.Logger
}

func NewTaskHandler(svc *service.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{svc: svc, logger: logger}
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := apimw.GetUserID(r.Context())
	var req domain.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	task, err := h.svc.Create(r.Context(), userID, req)
	if err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := apimw.GetUserID(r.Context())
	id := chi.URLParam(r, "id")

	task, err := h.svc.Get(r.Context(), userID, id)
	if err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := apimw.GetUserID(r.Context())
	filter := repository.TaskFilter{UserID: userID, Page: 1, Limit: 20}

	if page, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && page > 0 {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}
	if categoryID := r.URL.Query().Get("category_id"); categoryID != "" {
		filter.CategoryID = &categoryID
	}
	if completeStr := r.URL.Query().Get("is_complete"); completeStr != "" {
		if complete, err := strconv.ParseBool(completeStr); err == nil {
			filter.IsComplete = &complete
		}
	}

	tasks, total, err := h.svc.List(r.Context(), filter)
	if err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"tasks": tasks, "total": total, "page": filter.Page, "limit": filter.Limit})
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := apimw.GetUserID(r.Context())
	id := chi.URLParam(r, "id")

	var req domain.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	task, err := h.svc.Update(r.Context(), userID, id, req)
	if err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	userID := apimw.GetUserID(r.Context())
	id := chi.URLParam(r, "id")

	task, err := h.svc.Complete(r.Context(), userID, id)
	if err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := apimw.GetUserID(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.svc.Delete(r.Context(), userID, id); err != nil {
		mapError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
