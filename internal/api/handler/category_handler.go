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

// CategoryHandler exposes task-category CRUD.
type CategoryHandler struct {
	svc    *service.CategoryService
	logger *zap.Logger
}

func NewCategoryHandler(svc *service.CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{svc: svc, logger: logger}
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := apimw.GetUserID(r.Context())
	var req domain.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	category, err := h.svc.Create(r.Context(), userID, req)
	if err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, category)
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := apimw.GetUserID(r.Context())
	categories, err := h.svc.List(r.Context(), userID)
	if err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := apimw.GetUserID(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.svc.Delete(r.Context(), userID, id); err != nil {
		mapError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
