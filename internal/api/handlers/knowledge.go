package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cloo-solutions/chavis/internal/api"
	"github.com/cloo-solutions/chavis/internal/domain"
	"github.com/cloo-solutions/chavis/internal/service"
	"github.com/go-chi/chi/v5"
)

type KnowledgeService interface {
	List(ctx context.Context) ([]*domain.KnowledgeItem, error)
	Get(ctx context.Context, id string) (*domain.KnowledgeItem, error)
	Add(ctx context.Context, input service.AddInput) (*domain.KnowledgeItem, error)
	Update(ctx context.Context, id string, input service.UpdateInput) (*domain.KnowledgeItem, error)
	Remove(ctx context.Context, id string) error
}

type KnowledgeHandler struct {
	svc KnowledgeService
}

func NewKnowledgeHandler(svc KnowledgeService) *KnowledgeHandler {
	return &KnowledgeHandler{svc: svc}
}

type CreateKnowledgeRequest struct {
	Keywords      []string `json:"keywords"`
	Answer        string   `json:"answer"`
	ReferenceLink string   `json:"referenceLink"`
}

// UpdateKnowledgeRequest fields left out of the body (or null) are not changed.
type UpdateKnowledgeRequest struct {
	Keywords      []string `json:"keywords"`
	Answer        *string  `json:"answer"`
	ReferenceLink *string  `json:"referenceLink"`
}

type KnowledgeResponse struct {
	ID            string   `json:"id"`
	Keywords      []string `json:"keywords"`
	Answer        string   `json:"answer"`
	ReferenceLink string   `json:"referenceLink"`
}

type DeleteResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

func knowledgeToResponse(k *domain.KnowledgeItem) *KnowledgeResponse {
	keywords := k.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	return &KnowledgeResponse{
		ID:            k.ID,
		Keywords:      keywords,
		Answer:        k.Answer,
		ReferenceLink: k.ReferenceLink,
	}
}

func (h *KnowledgeHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	resp := make([]*KnowledgeResponse, 0, len(items))
	for _, k := range items {
		resp = append(resp, knowledgeToResponse(k))
	}
	api.JSON(w, http.StatusOK, resp)
}

func (h *KnowledgeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	item, err := h.svc.Get(r.Context(), id)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, knowledgeToResponse(item))
}

func (h *KnowledgeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateKnowledgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.svc.Add(r.Context(), service.AddInput{
		Keywords:      req.Keywords,
		Answer:        req.Answer,
		ReferenceLink: req.ReferenceLink,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusCreated, knowledgeToResponse(item))
}

func (h *KnowledgeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.Error(w, http.StatusBadRequest, "id is required")
		return
	}

	var req UpdateKnowledgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.svc.Update(r.Context(), id, service.UpdateInput{
		Keywords:      req.Keywords,
		Answer:        req.Answer,
		ReferenceLink: req.ReferenceLink,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.JSON(w, http.StatusOK, knowledgeToResponse(item))
}

func (h *KnowledgeHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
