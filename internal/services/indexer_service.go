package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"bioconsult/internal/chunking"
	"bioconsult/internal/embedding"
	"bioconsult/internal/models"
	"bioconsult/internal/repositories"
)

// DocumentLoader yields the raw corpus for indexing
type DocumentLoader interface {
	Load(ctx context.Context) ([]models.RawDocument, error)
}

// IndexerService rebuilds the vector collection from the document corpus.
// A rebuild with clear=true must not run concurrently with queries against
// the same collection; the server runs rebuilds synchronously per request.
type IndexerService struct {
	loader     DocumentLoader
	embedder   embedding.Embedder
	vectorRepo repositories.VectorRepository
	ingestRepo repositories.IngestRepository
	keywords   *KeywordExtractor
	logger     *log.Logger

	chunkSize    int
	chunkOverlap int
}

// NewIndexerService creates a new indexer service. ingestRepo may be nil,
// which disables registry bookkeeping but not indexing itself.
func NewIndexerService(
	loader DocumentLoader,
	embedder embedding.Embedder,
	vectorRepo repositories.VectorRepository,
	ingestRepo repositories.IngestRepository,
	chunkSize int,
	chunkOverlap int,
	logger *log.Logger,
) *IndexerService {
	return &IndexerService{
		loader:       loader,
		embedder:     embedder,
		vectorRepo:   vectorRepo,
		ingestRepo:   ingestRepo,
		keywords:     NewKeywordExtractor(),
		logger:       logger,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// IndexStats summarizes one rebuild run
type IndexStats struct {
	DocumentCount   int      `json:"documents"`
	ChunkCount      int      `json:"chunks"`
	FailedDocuments []string `json:"failed_documents,omitempty"`
}

// Rebuild loads the corpus, chunks every readable document, embeds all
// chunks in one batched call and upserts them keyed by derived chunk ids.
// Upserting replaces matching ids and inserts new ones; stale ids from
// removed documents stay behind unless clear=true wipes the collection
// first. Unreadable documents are recorded as failed and skipped, never
// aborting the run. An empty corpus is a trivial success that touches the
// vector write path not at all.
func (s *IndexerService) Rebuild(ctx context.Context, clear bool) (*IndexStats, error) {
	start := time.Now()

	if clear {
		s.logger.Printf("Clearing collection before rebuild")
		if err := s.vectorRepo.Reset(ctx); err != nil {
			return nil, fmt.Errorf("indexer: failed to reset collection: %w", err)
		}
		if s.ingestRepo != nil {
			if err := s.ingestRepo.Clear(ctx); err != nil {
				s.logger.Printf("Failed to clear ingest registry: %v", err)
			}
		}
	} else {
		if err := s.vectorRepo.EnsureCollection(ctx); err != nil {
			return nil, fmt.Errorf("indexer: failed to ensure collection: %w", err)
		}
	}

	docs, err := s.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("indexer: failed to load documents: %w", err)
	}
	s.logger.Printf("Loaded %d documents", len(docs))

	stats := &IndexStats{}
	var records []*repositories.ChunkRecord
	var texts []string
	chunksPerSource := make(map[string]int)

	for _, doc := range docs {
		if doc.Failed() {
			s.logger.Printf("Skipping unreadable document %s: %v", doc.Source, doc.Err)
			stats.FailedDocuments = append(stats.FailedDocuments, doc.Source)
			s.recordIngest(ctx, doc.Source, repositories.IngestStatusFailed, 0, doc.Err.Error())
			continue
		}

		chunks, err := chunking.Split(doc.Text, doc.Source, s.chunkSize, s.chunkOverlap)
		if err != nil {
			return nil, fmt.Errorf("indexer: failed to chunk %s: %w", doc.Source, err)
		}

		for _, chunk := range chunks {
			metadata := map[string]interface{}{
				"source":         chunk.Source,
				"sequence_index": chunk.SequenceIndex,
				"start_offset":   chunk.StartOffset,
				"end_offset":     chunk.EndOffset,
			}
			if kws := s.keywords.Extract(chunk.Text); len(kws) > 0 {
				metadata["keywords"] = strings.Join(kws, ",")
			}

			records = append(records, &repositories.ChunkRecord{
				ID:       chunking.ChunkID(chunk.Source, chunk.SequenceIndex, chunk.Text),
				Text:     chunk.Text,
				Metadata: metadata,
			})
			texts = append(texts, chunk.Text)
		}

		stats.DocumentCount++
		chunksPerSource[doc.Source] = len(chunks)
	}

	stats.ChunkCount = len(records)
	if len(records) == 0 {
		s.logger.Printf("No chunks to index (%d documents, %d failed)",
			stats.DocumentCount, len(stats.FailedDocuments))
		s.recordIndexed(ctx, chunksPerSource)
		return stats, nil
	}

	s.logger.Printf("Embedding %d chunks", len(records))
	embeddings, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("indexer: failed to embed chunks: %w", err)
	}
	if len(embeddings) != len(records) {
		return nil, fmt.Errorf("indexer: embedding count mismatch: %d chunks, %d vectors",
			len(records), len(embeddings))
	}
	for i := range records {
		records[i].Embedding = embeddings[i]
	}

	if err := s.vectorRepo.UpsertChunks(ctx, records); err != nil {
		return nil, fmt.Errorf("indexer: failed to upsert chunks: %w", err)
	}

	s.recordIndexed(ctx, chunksPerSource)

	s.logger.Printf("Indexed %d chunks from %d documents (%d failed) in %.2fs",
		stats.ChunkCount, stats.DocumentCount, len(stats.FailedDocuments),
		time.Since(start).Seconds())

	return stats, nil
}

// recordIndexed writes one registry entry per successfully chunked source
func (s *IndexerService) recordIndexed(ctx context.Context, chunksPerSource map[string]int) {
	for source, count := range chunksPerSource {
		s.recordIngest(ctx, source, repositories.IngestStatusIndexed, count, "")
	}
}

// recordIngest updates the registry; registry failures are logged, not fatal
func (s *IndexerService) recordIngest(ctx context.Context, source string, status repositories.IngestStatus, chunkCount int, errMsg string) {
	if s.ingestRepo == nil {
		return
	}

	rec := &repositories.IngestRecord{
		ID:         uuid.New().String(),
		Source:     source,
		Status:     status,
		ChunkCount: chunkCount,
		Error:      errMsg,
		IndexedAt:  time.Now().UTC(),
	}
	if err := s.ingestRepo.Record(ctx, rec); err != nil {
		s.logger.Printf("Failed to record ingest status for %s: %v", source, err)
	}
}
