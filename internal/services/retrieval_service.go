package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"bioconsult/internal/embedding"
	"bioconsult/internal/models"
	"bioconsult/internal/repositories"
)

// RetrievalService answers nearest-neighbor lookups for the chat pipeline
type RetrievalService struct {
	embedder   embedding.Embedder
	vectorRepo repositories.VectorRepository
	logger     *log.Logger

	defaultTopK int
	maxTopK     int
}

// NewRetrievalService creates a new retrieval service
func NewRetrievalService(
	embedder embedding.Embedder,
	vectorRepo repositories.VectorRepository,
	defaultTopK int,
	maxTopK int,
	logger *log.Logger,
) *RetrievalService {
	return &RetrievalService{
		embedder:    embedder,
		vectorRepo:  vectorRepo,
		logger:      logger,
		defaultTopK: defaultTopK,
		maxTopK:     maxTopK,
	}
}

// Retrieve embeds the question once and returns up to topK stored chunks
// ordered by ascending distance, rank 1-based. There is no re-ranking
// beyond the index's own distance ordering. topK values outside [1, max]
// are clamped rather than rejected; zero means "use the default". An
// empty index yields an empty slice and no error.
func (s *RetrievalService) Retrieve(ctx context.Context, question string, topK int) ([]models.RetrievedContext, error) {
	if question == "" {
		return nil, fmt.Errorf("retrieval: question is required")
	}
	topK = s.clampTopK(topK)

	start := time.Now()
	embedded, err := s.embedder.EmbedQuery(ctx, question)
	if err != nil {
		s.logger.Printf("Failed to embed question: %v", err)
		return nil, fmt.Errorf("retrieval: failed to embed question: %w", err)
	}

	contexts, err := s.vectorRepo.Query(ctx, embedded, topK)
	if err != nil {
		s.logger.Printf("Vector query failed: %v", err)
		return nil, fmt.Errorf("retrieval: vector query failed: %w", err)
	}

	s.logger.Printf("Retrieved %d/%d contexts in %.2fms",
		len(contexts), topK, time.Since(start).Seconds()*1000)

	return contexts, nil
}

// clampTopK bounds the requested neighbor count to [1, maxTopK]
func (s *RetrievalService) clampTopK(topK int) int {
	if topK <= 0 {
		topK = s.defaultTopK
	}
	if topK < 1 {
		topK = 1
	}
	if topK > s.maxTopK {
		topK = s.maxTopK
	}
	return topK
}
