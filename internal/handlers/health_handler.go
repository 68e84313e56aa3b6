package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"bioconsult/internal/repositories"
)

// HealthHandler reports service and collaborator liveness
type HealthHandler struct {
	vectorRepo repositories.VectorRepository
	ingestRepo repositories.IngestRepository
	logger     *log.Logger
}

// NewHealthHandler creates a new health handler. Either repository may be
// nil when the collaborator is not configured.
func NewHealthHandler(vectorRepo repositories.VectorRepository, ingestRepo repositories.IngestRepository, logger *log.Logger) *HealthHandler {
	return &HealthHandler{
		vectorRepo: vectorRepo,
		ingestRepo: ingestRepo,
		logger:     logger,
	}
}

// HealthResponse reports the liveness of the service and its collaborators
type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

// Health handles health check requests
// @Summary Health check
// @Description Report service and collaborator liveness
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /api/health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:   "ok",
		Services: map[string]string{},
	}

	if h.vectorRepo != nil {
		if err := h.vectorRepo.Ping(r.Context()); err != nil {
			h.logger.Printf("ChromaDB ping failed: %v", err)
			resp.Services["chromadb"] = "unreachable"
			resp.Status = "degraded"
		} else {
			resp.Services["chromadb"] = "ok"
		}
	} else {
		resp.Services["chromadb"] = "disabled"
		resp.Status = "degraded"
	}

	if h.ingestRepo != nil {
		if err := h.ingestRepo.Ping(r.Context()); err != nil {
			h.logger.Printf("Redis ping failed: %v", err)
			resp.Services["redis"] = "unreachable"
		} else {
			resp.Services["redis"] = "ok"
		}
	} else {
		// The registry is optional; a missing Redis never degrades health.
		resp.Services["redis"] = "disabled"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Printf("Failed to encode health response: %v", err)
	}
}
