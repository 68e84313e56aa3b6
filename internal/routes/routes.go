package routes

import (
	"net/http"

	"bioconsult/internal/handlers"

	"github.com/gorilla/mux"
)

// Handlers groups everything the router mounts
type Handlers struct {
	Health    *handlers.HealthHandler
	Reindex   *handlers.ReindexHandler
	Chat      *handlers.ChatHandler
	Documents *handlers.DocumentsHandler
}

// RegisterRoutes sets up all application routes
func RegisterRoutes(router *mux.Router, h *Handlers) {
	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", h.Health.Health).Methods(http.MethodGet)
	api.HandleFunc("/reindex", h.Reindex.Reindex).Methods(http.MethodPost)
	api.HandleFunc("/chat", h.Chat.Chat).Methods(http.MethodPost)
	api.HandleFunc("/documents", h.Documents.List).Methods(http.MethodGet)
	api.HandleFunc("/collections/stats", h.Documents.CollectionStats).Methods(http.MethodGet)
}
