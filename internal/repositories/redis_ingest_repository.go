package repositories

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/redis/go-redis/v9"
)

const (
	ingestKeyPrefix = "ingest:"
	ingestIndexKey  = "ingest:index"
)

// RedisIngestRepository implements IngestRepository using Redis. Records
// are keyed by source filename so a re-run overwrites the previous entry
// for the same document.
type RedisIngestRepository struct {
	client *redis.Client
}

// NewRedisIngestRepository creates a Redis-backed ingest registry
func NewRedisIngestRepository(client *redis.Client) *RedisIngestRepository {
	return &RedisIngestRepository{
		client: client,
	}
}

// Record stores or replaces the registry entry for a source document
func (r *RedisIngestRepository) Record(ctx context.Context, rec *IngestRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return &IngestRepositoryError{Operation: "record", Source: rec.Source, Err: err}
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, ingestKeyPrefix+rec.Source, data, 0)
	pipe.SAdd(ctx, ingestIndexKey, rec.Source)

	if _, err := pipe.Exec(ctx); err != nil {
		return &IngestRepositoryError{Operation: "record", Source: rec.Source, Err: err}
	}

	return nil
}

// Get retrieves the registry entry for a source document
func (r *RedisIngestRepository) Get(ctx context.Context, source string) (*IngestRecord, error) {
	data, err := r.client.Get(ctx, ingestKeyPrefix+source).Result()
	if err == redis.Nil {
		return nil, &IngestRepositoryError{Operation: "get", Source: source}
	}
	if err != nil {
		return nil, &IngestRepositoryError{Operation: "get", Source: source, Err: err}
	}

	var rec IngestRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, &IngestRepositoryError{Operation: "get", Source: source, Err: err}
	}

	return &rec, nil
}

// List returns all registry entries sorted by source name
func (r *RedisIngestRepository) List(ctx context.Context) ([]*IngestRecord, error) {
	sources, err := r.client.SMembers(ctx, ingestIndexKey).Result()
	if err != nil {
		return nil, &IngestRepositoryError{Operation: "list", Err: err}
	}
	sort.Strings(sources)

	records := make([]*IngestRecord, 0, len(sources))
	for _, source := range sources {
		rec, err := r.Get(ctx, source)
		if err != nil {
			// Entry vanished between SMEMBERS and GET; skip it.
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}

// Clear removes all registry entries
func (r *RedisIngestRepository) Clear(ctx context.Context) error {
	sources, err := r.client.SMembers(ctx, ingestIndexKey).Result()
	if err != nil {
		return &IngestRepositoryError{Operation: "clear", Err: err}
	}

	pipe := r.client.TxPipeline()
	for _, source := range sources {
		pipe.Del(ctx, ingestKeyPrefix+source)
	}
	pipe.Del(ctx, ingestIndexKey)

	if _, err := pipe.Exec(ctx); err != nil {
		return &IngestRepositoryError{Operation: "clear", Err: err}
	}

	return nil
}

// Ping checks if Redis is alive
func (r *RedisIngestRepository) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return &IngestRepositoryError{Operation: "ping", Err: err}
	}
	return nil
}

// Close closes the Redis connection
func (r *RedisIngestRepository) Close() error {
	return r.client.Close()
}
