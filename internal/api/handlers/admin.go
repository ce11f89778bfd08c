package handlers

import (
	"context"
	"net/http"

	"github.com/cloo-solutions/chavis/internal/api"
	"github.com/cloo-solutions/chavis/internal/service"
)

type ProjectionService interface {
	Rebuild(ctx context.Context) (*service.RebuildReport, error)
}

type AdminHandler struct {
	projection ProjectionService
}

func NewAdminHandler(projection ProjectionService) *AdminHandler {
	return &AdminHandler{projection: projection}
}

// Reindex rebuilds the vector index from the record store.
func (h *AdminHandler) Reindex(w http.ResponseWriter, r *http.Request) {
	report, err := h.projection.Rebuild(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}
	api.JSON(w, http.StatusOK, report)
}
