package repositories

import (
	"context"
	"errors"
	"fmt"

	"bioconsult/internal/db"
	"bioconsult/internal/models"
)

// ChromaVectorRepository implements VectorRepository on top of the
// ChromaDB v2 HTTP client. One repository instance owns one collection.
type ChromaVectorRepository struct {
	client     *db.ChromaDBClient
	collection string
}

// NewChromaVectorRepository creates a ChromaDB-backed vector repository
// bound to the named collection.
func NewChromaVectorRepository(client *db.ChromaDBClient, collection string) *ChromaVectorRepository {
	return &ChromaVectorRepository{
		client:     client,
		collection: collection,
	}
}

// EnsureCollection creates the collection if it does not exist yet
func (r *ChromaVectorRepository) EnsureCollection(ctx context.Context) error {
	if _, err := r.client.GetOrCreateCollection(ctx, r.collection); err != nil {
		return NewVectorRepositoryError("ensure_collection", err, "")
	}
	return nil
}

// Reset drops and recreates the collection. The delete is idempotent, so a
// reset against a fresh store is a no-op followed by a create.
func (r *ChromaVectorRepository) Reset(ctx context.Context) error {
	if err := r.client.DeleteCollection(ctx, r.collection); err != nil {
		return NewVectorRepositoryError("reset", err, "failed to delete collection: "+r.collection)
	}
	if _, err := r.client.GetOrCreateCollection(ctx, r.collection); err != nil {
		return NewVectorRepositoryError("reset", err, "failed to recreate collection: "+r.collection)
	}
	return nil
}

// UpsertChunks writes the proposed records in one order-aligned batch
func (r *ChromaVectorRepository) UpsertChunks(ctx context.Context, records []*ChunkRecord) error {
	if len(records) == 0 {
		return ErrEmptyBatch
	}

	ids := make([]string, len(records))
	documents := make([]string, len(records))
	embeddings := make([][]float32, len(records))
	metadatas := make([]map[string]interface{}, len(records))

	for i, rec := range records {
		ids[i] = rec.ID
		documents[i] = rec.Text
		embeddings[i] = rec.Embedding
		metadatas[i] = rec.Metadata
	}

	if err := r.client.Upsert(ctx, r.collection, ids, documents, embeddings, metadatas); err != nil {
		return NewVectorRepositoryError("upsert_chunks", err, fmt.Sprintf("failed to upsert %d records", len(records)))
	}

	return nil
}

// Query returns the nearest records for the embedding, nearest first.
// ChromaDB is the authority on the distance metric and ordering; results
// are converted as-is with 1-based ranks. A collection that was never
// created is an empty index, not an error.
func (r *ChromaVectorRepository) Query(ctx context.Context, embedding []float32, topK int) ([]models.RetrievedContext, error) {
	resp, err := r.client.Query(ctx, r.collection, embedding, topK)
	if errors.Is(err, db.ErrCollectionNotFound) {
		return []models.RetrievedContext{}, nil
	}
	if err != nil {
		return nil, NewVectorRepositoryError("query", err, "")
	}

	contexts := make([]models.RetrievedContext, 0)
	if len(resp.IDs) == 0 {
		return contexts, nil
	}

	for i := range resp.IDs[0] {
		var text string
		if len(resp.Documents) > 0 && i < len(resp.Documents[0]) {
			text = resp.Documents[0][i]
		}

		var distance float32
		if len(resp.Distances) > 0 && i < len(resp.Distances[0]) {
			distance = resp.Distances[0][i]
		}

		metadata := map[string]interface{}{}
		if len(resp.Metadatas) > 0 && i < len(resp.Metadatas[0]) {
			metadata = resp.Metadatas[0][i]
		}

		source := ""
		if s, ok := metadata["source"].(string); ok {
			source = s
		}

		contexts = append(contexts, models.RetrievedContext{
			Rank:     i + 1,
			Source:   source,
			Text:     text,
			Distance: distance,
			Metadata: metadata,
		})
	}

	return contexts, nil
}

// Count returns the number of records in the collection. A collection
// that was never created counts as zero.
func (r *ChromaVectorRepository) Count(ctx context.Context) (int, error) {
	count, err := r.client.CountCollection(ctx, r.collection)
	if errors.Is(err, db.ErrCollectionNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, NewVectorRepositoryError("count", err, "")
	}
	return count, nil
}

// Ping checks if ChromaDB is alive
func (r *ChromaVectorRepository) Ping(ctx context.Context) error {
	if err := r.client.Heartbeat(ctx); err != nil {
		return NewVectorRepositoryError("ping", err, "ChromaDB heartbeat failed")
	}
	return nil
}

// Close closes the underlying client
func (r *ChromaVectorRepository) Close() error {
	r.client.Close()
	return nil
}
