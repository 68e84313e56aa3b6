package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"bioconsult/internal/models"
	"bioconsult/internal/services"
)

// ReindexHandler triggers corpus rebuilds
type ReindexHandler struct {
	indexer    *services.IndexerService
	collection string
	logger     *log.Logger
}

// NewReindexHandler creates a new reindex handler
func NewReindexHandler(indexer *services.IndexerService, collection string, logger *log.Logger) *ReindexHandler {
	return &ReindexHandler{
		indexer:    indexer,
		collection: collection,
		logger:     logger,
	}
}

// Reindex handles rebuild requests
// @Summary Rebuild the vector index
// @Description Load the document corpus, chunk, embed and upsert into the collection. With clear=true the collection is wiped first.
// @Tags index
// @Accept json
// @Produce json
// @Param request body models.ReindexRequest false "Rebuild options"
// @Success 200 {object} models.ReindexResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/reindex [post]
func (h *ReindexHandler) Reindex(w http.ResponseWriter, r *http.Request) {
	var req models.ReindexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.sendError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	h.logger.Printf("Reindex requested (clear=%t)", req.Clear)

	stats, err := h.indexer.Rebuild(r.Context(), req.Clear)
	if err != nil {
		h.logger.Printf("Reindex failed: %v", err)
		h.sendError(w, http.StatusInternalServerError, "Reindex failed")
		return
	}

	h.sendJSON(w, http.StatusOK, models.ReindexResponse{
		Documents:       stats.DocumentCount,
		Chunks:          stats.ChunkCount,
		FailedDocuments: stats.FailedDocuments,
		Collection:      h.collection,
		Status:          "success",
	})
}

func (h *ReindexHandler) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Printf("Failed to encode JSON: %v", err)
	}
}

func (h *ReindexHandler) sendError(w http.ResponseWriter, status int, message string) {
	h.sendJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Status:  status,
	})
}
