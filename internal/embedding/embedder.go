// Package embedding defines the gateway to an external embedding model.
package embedding

import "context"

// Embedder converts text into fixed-length vectors for similarity search.
// EmbedDocuments is order-preserving and returns exactly one vector per
// input text. Implementations normalize vectors to unit length when the
// backing index compares by cosine distance.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// RequestError reports a failed round trip to the embedding backend.
// Any such failure aborts the current pipeline call before writes happen.
type RequestError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return "embedding: " + e.Message
	}
	if e.Err != nil {
		return "embedding: " + e.Err.Error()
	}
	return "embedding: request failed"
}

func (e *RequestError) Unwrap() error {
	return e.Err
}
