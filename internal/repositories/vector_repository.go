package repositories

import (
	"context"

	"bioconsult/internal/models"
)

// VectorRepository abstracts the vector index so the pipeline never binds
// to a concrete store and tests can substitute in-memory fakes.
type VectorRepository interface {
	// EnsureCollection makes sure the logical collection exists.
	EnsureCollection(ctx context.Context) error

	// Reset wipes and recreates the collection. Resetting a missing
	// collection succeeds; callers must not run it concurrently with
	// queries against the same collection.
	Reset(ctx context.Context) error

	// UpsertChunks writes order-aligned record batches keyed by id.
	// Records with a known id are replaced, new ids inserted. An empty
	// batch is rejected with ErrEmptyBatch.
	UpsertChunks(ctx context.Context, records []*ChunkRecord) error

	// Query returns up to topK nearest records, ordered by ascending
	// distance. An empty index yields an empty slice.
	Query(ctx context.Context, embedding []float32, topK int) ([]models.RetrievedContext, error)

	// Count returns the number of records in the collection.
	Count(ctx context.Context) (int, error)

	Ping(ctx context.Context) error
	Close() error
}

// ChunkRecord is what the indexer proposes for storage: one embedded chunk
// with its derived id and metadata.
type ChunkRecord struct {
	ID        string
	Text      string
	Embedding []float32
	Metadata  map[string]interface{}
}

// VectorRepositoryError wraps failures from the vector store
type VectorRepositoryError struct {
	Operation string
	Err       error
	Message   string
}

func (e *VectorRepositoryError) Error() string {
	if e.Message != "" {
		return e.Operation + ": " + e.Message
	}
	if e.Err != nil {
		return e.Operation + ": " + e.Err.Error()
	}
	return e.Operation + ": unknown error"
}

func (e *VectorRepositoryError) Unwrap() error {
	return e.Err
}

// NewVectorRepositoryError creates a new vector repository error
func NewVectorRepositoryError(operation string, err error, message string) *VectorRepositoryError {
	return &VectorRepositoryError{
		Operation: operation,
		Err:       err,
		Message:   message,
	}
}

// ErrEmptyBatch rejects upsert calls with no records. The vector store
// treats empty writes as malformed, so the pipeline must never issue them.
var ErrEmptyBatch = NewVectorRepositoryError("upsert_chunks", nil, "empty batch: at least one record is required")
