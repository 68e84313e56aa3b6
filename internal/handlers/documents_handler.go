package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"bioconsult/internal/repositories"
)

// DocumentsHandler exposes the ingest registry and collection statistics
type DocumentsHandler struct {
	ingestRepo repositories.IngestRepository
	vectorRepo repositories.VectorRepository
	collection string
	logger     *log.Logger
}

// NewDocumentsHandler creates a new documents handler. ingestRepo may be
// nil when Redis is not configured; listing then reports the registry as
// unavailable.
func NewDocumentsHandler(ingestRepo repositories.IngestRepository, vectorRepo repositories.VectorRepository, collection string, logger *log.Logger) *DocumentsHandler {
	return &DocumentsHandler{
		ingestRepo: ingestRepo,
		vectorRepo: vectorRepo,
		collection: collection,
		logger:     logger,
	}
}

// DocumentsResponse lists the ingest registry
type DocumentsResponse struct {
	Documents []*repositories.IngestRecord `json:"documents"`
	Total     int                          `json:"total"`
}

// CollectionStatsResponse reports the size of the vector collection
type CollectionStatsResponse struct {
	Collection string `json:"collection"`
	ChunkCount int    `json:"chunk_count"`
}

// List handles ingest registry listing requests
// @Summary List indexed documents
// @Description List per-source ingest records from the last rebuilds
// @Tags documents
// @Produce json
// @Success 200 {object} DocumentsResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/documents [get]
func (h *DocumentsHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.ingestRepo == nil {
		h.sendError(w, http.StatusServiceUnavailable, "Ingest registry is not configured")
		return
	}

	records, err := h.ingestRepo.List(r.Context())
	if err != nil {
		h.logger.Printf("Failed to list ingest records: %v", err)
		h.sendError(w, http.StatusInternalServerError, "Failed to list documents")
		return
	}

	h.sendJSON(w, http.StatusOK, DocumentsResponse{
		Documents: records,
		Total:     len(records),
	})
}

// CollectionStats handles collection statistics requests
// @Summary Collection statistics
// @Description Report the number of chunks stored in the vector collection
// @Tags documents
// @Produce json
// @Success 200 {object} CollectionStatsResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/collections/stats [get]
func (h *DocumentsHandler) CollectionStats(w http.ResponseWriter, r *http.Request) {
	count, err := h.vectorRepo.Count(r.Context())
	if err != nil {
		h.logger.Printf("Failed to count collection: %v", err)
		h.sendError(w, http.StatusInternalServerError, "Failed to read collection stats")
		return
	}

	h.sendJSON(w, http.StatusOK, CollectionStatsResponse{
		Collection: h.collection,
		ChunkCount: count,
	})
}

func (h *DocumentsHandler) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Printf("Failed to encode JSON: %v", err)
	}
}

func (h *DocumentsHandler) sendError(w http.ResponseWriter, status int, message string) {
	h.sendJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Status:  status,
	})
}
