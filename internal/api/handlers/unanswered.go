package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/cloo-solutions/chavis/internal/api"
	"github.com/cloo-solutions/chavis/internal/domain"
	"github.com/go-chi/chi/v5"
)

type UnansweredService interface {
	List(ctx context.Context) ([]*domain.UnansweredQuestion, error)
	Remove(ctx context.Context, id string) error
}

type UnansweredHandler struct {
	svc UnansweredService
}

func NewUnansweredHandler(svc UnansweredService) *UnansweredHandler {
	return &UnansweredHandler{svc: svc}
}

type UnansweredResponse struct {
	ID        string `json:"id"`
	Question  string `json:"question"`
	CreatedAt string `json:"createdAt"`
}

func (h *UnansweredHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.List(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	resp := make([]*UnansweredResponse, 0, len(entries))
	for _, q := range entries {
		resp = append(resp, &UnansweredResponse{
			ID:        q.ID,
			Question:  q.Question,
			CreatedAt: q.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	api.JSON(w, http.StatusOK, resp)
}

func (h *UnansweredHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	if err := h.svc.Remove(r.Context(), id); err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, DeleteResponse{ID: id, Deleted: true})
}
