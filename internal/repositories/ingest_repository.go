package repositories

import (
	"context"
	"time"
)

// IngestRepository records the outcome of indexing runs per source
// document. It exists for observability; the retrieval pipeline itself
// never reads it, so a missing registry only disables the listing API.
type IngestRepository interface {
	Record(ctx context.Context, rec *IngestRecord) error
	Get(ctx context.Context, source string) (*IngestRecord, error)
	List(ctx context.Context) ([]*IngestRecord, error)
	Clear(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// IngestStatus classifies how a source document fared during a rebuild
type IngestStatus string

const (
	IngestStatusIndexed IngestStatus = "indexed"
	IngestStatusFailed  IngestStatus = "failed"
)

// IngestRecord is one source document's entry in the registry
type IngestRecord struct {
	ID         string       `json:"id"`
	Source     string       `json:"source"`
	Status     IngestStatus `json:"status"`
	ChunkCount int          `json:"chunk_count"`
	Error      string       `json:"error,omitempty"`
	IndexedAt  time.Time    `json:"indexed_at"`
}

// IngestRepositoryError wraps failures from the ingest registry
type IngestRepositoryError struct {
	Operation string
	Source    string
	Err       error
}

func (e *IngestRepositoryError) Error() string {
	msg := "ingest registry " + e.Operation
	if e.Source != "" {
		msg += " (" + e.Source + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *IngestRepositoryError) Unwrap() error {
	return e.Err
}
