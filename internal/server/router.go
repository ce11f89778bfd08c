package server

import (
	"net/http"

	"github.com/cloo-solutions/chavis/internal/api"
	"github.com/cloo-solutions/chavis/internal/api/handlers"
	"github.com/cloo-solutions/chavis/internal/api/middleware"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes int64 = 1 * 1024 * 1024

type RouterConfig struct {
	ChatHandler       *handlers.ChatHandler
	KnowledgeHandler  *handlers.KnowledgeHandler
	UnansweredHandler *handlers.UnansweredHandler
	AdminHandler      *handlers.AdminHandler
}

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.JSON(w, http.StatusOK, healthResponse{Status: "ok", Message: "CHAVIS server is running"})
	})

	r.Post("/chat", cfg.ChatHandler.Chat)

	r.Route("/knowledge", func(r chi.Router) {
		r.Get("/", cfg.KnowledgeHandler.List)
		r.Post("/", cfg.KnowledgeHandler.Create)
		r.Get("/{id}", cfg.KnowledgeHandler.Get)
		r.Put("/{id}", cfg.KnowledgeHandler.Update)
		r.Delete("/{id}", cfg.KnowledgeHandler.Delete)
	})

	r.Route("/unanswered", func(r chi.Router) {
		r.Get("/", cfg.UnansweredHandler.List)
		r.Delete("/{id}", cfg.UnansweredHandler.Delete)
	})

	r.Post("/admin/reindex", cfg.AdminHandler.Reindex)

	return r
}
