package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/cloo-solutions/chavis/internal/api"
	"github.com/cloo-solutions/chavis/internal/api/middleware"
	"github.com/cloo-solutions/chavis/internal/domain"
)

type CascadeService interface {
	Answer(ctx context.Context, question string) (*domain.Answer, error)
}

type ChatHandler struct {
	svc CascadeService
}

func NewChatHandler(svc CascadeService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

// ChatRequest uses a pointer so a missing question is distinguishable from
// an empty one. Non-string values fail to decode.
type ChatRequest struct {
	Question *string `json:"question"`
}

type ChatResponse struct {
	Answer         string                     `json:"answer"`
	Type           string                     `json:"type"`
	Sources        []domain.RetrievedDocument `json:"sources"`
	MatchedKeyword string                     `json:"matchedKeyword,omitempty"`
	ReferenceLink  string                     `json:"referenceLink,omitempty"`
}

func answerToResponse(a *domain.Answer) *ChatResponse {
	sources := a.Sources
	if sources == nil {
		sources = []domain.RetrievedDocument{}
	}
	return &ChatResponse{
		Answer:         a.Text,
		Type:           string(a.Type),
		Sources:        sources,
		MatchedKeyword: a.MatchedKeyword,
		ReferenceLink:  a.ReferenceLink,
	}
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "question must be a non-empty string")
		return
	}
	if req.Question == nil || strings.TrimSpace(*req.Question) == "" {
		api.Error(w, http.StatusBadRequest, "question must be a non-empty string")
		return
	}

	answer, err := h.svc.Answer(r.Context(), *req.Question)
	if err != nil {
		if errors.Is(err, domain.ErrGenerationFailed) {
			log.Printf("chat: %v", err)
			w.Header().Set(middleware.AnswerTypeHeader, "generation_failed")
			api.ErrorWithDetail(w, http.StatusInternalServerError,
				"failed to generate answer",
				"the text generation service did not respond; check that it is running")
			return
		}
		api.HandleError(w, err)
		return
	}

	w.Header().Set(middleware.AnswerTypeHeader, string(answer.Type))
	api.JSON(w, http.StatusOK, answerToResponse(answer))
}
