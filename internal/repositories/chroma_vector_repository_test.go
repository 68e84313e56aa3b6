package repositories

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"bioconsult/internal/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newChromaTestServer fakes the subset of the ChromaDB v2 API the
// repository touches and returns a repository wired to it.
func newChromaTestServer(t *testing.T, handler http.HandlerFunc) (*ChromaVectorRepository, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)

	client := db.NewChromaDBClient(db.ChromaDBConfig{Host: u.Hostname(), Port: port})
	return NewChromaVectorRepository(client, "bioconsult"), srv
}

func TestUpsertChunks_RejectsEmptyBatch(t *testing.T) {
	var requests int32
	repo, srv := newChromaTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
	})
	defer srv.Close()

	err := repo.UpsertChunks(context.Background(), nil)
	require.ErrorIs(t, err, ErrEmptyBatch)
	assert.Equal(t, int32(0), atomic.LoadInt32(&requests), "empty batch must not reach the store")
}

func TestQuery_ConvertsRankedResults(t *testing.T) {
	repo, srv := newChromaTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if strings.HasSuffix(r.URL.Path, "/query") {
			json.NewEncoder(w).Encode(db.QueryResponse{
				IDs:       [][]string{{"doc_a.txt#0#aaaaaaaa", "doc_b.txt#0#bbbbbbbb"}},
				Documents: [][]string{{"The mitochondria is the powerhouse of the cell.", "Mitosis produces two identical daughter cells."}},
				Metadatas: [][]map[string]interface{}{{
					{"source": "doc_a.txt"},
					{"source": "doc_b.txt"},
				}},
				Distances: [][]float32{{0.12, 0.48}},
			})
			return
		}

		// Collection lookup.
		json.NewEncoder(w).Encode(db.Collection{ID: "col-1", Name: "bioconsult"})
	})
	defer srv.Close()

	contexts, err := repo.Query(context.Background(), []float32{0.1, 0.2}, 2)
	require.NoError(t, err)
	require.Len(t, contexts, 2)

	assert.Equal(t, 1, contexts[0].Rank)
	assert.Equal(t, "doc_a.txt", contexts[0].Source)
	assert.Equal(t, float32(0.12), contexts[0].Distance)
	assert.Equal(t, 2, contexts[1].Rank)
	assert.Equal(t, "doc_b.txt", contexts[1].Source)

	// Nearest-first ordering holds.
	assert.LessOrEqual(t, contexts[0].Distance, contexts[1].Distance)
}

func TestQuery_EmptyIndexYieldsEmptySlice(t *testing.T) {
	repo, srv := newChromaTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, "/query") {
			json.NewEncoder(w).Encode(db.QueryResponse{
				IDs:       [][]string{{}},
				Documents: [][]string{{}},
				Metadatas: [][]map[string]interface{}{{}},
				Distances: [][]float32{{}},
			})
			return
		}
		json.NewEncoder(w).Encode(db.Collection{ID: "col-1", Name: "bioconsult"})
	})
	defer srv.Close()

	contexts, err := repo.Query(context.Background(), []float32{0.1}, 4)
	require.NoError(t, err)
	assert.Empty(t, contexts)
}

func TestQuery_FreshStoreWithoutCollectionIsEmpty(t *testing.T) {
	// Nothing has been indexed yet, so the collection does not exist.
	repo, srv := newChromaTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	defer srv.Close()

	contexts, err := repo.Query(context.Background(), []float32{0.1, 0.2}, 4)
	require.NoError(t, err)
	assert.Empty(t, contexts)
}

func TestCount_FreshStoreWithoutCollectionIsZero(t *testing.T) {
	repo, srv := newChromaTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	defer srv.Close()

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestReset_DeleteThenRecreate(t *testing.T) {
	var deletes, creates int32
	repo, srv := newChromaTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodDelete:
			atomic.AddInt32(&deletes, 1)
			// Missing collection: delete is still a success for the caller.
			w.WriteHeader(http.StatusNotFound)
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/collections"):
			atomic.AddInt32(&creates, 1)
			json.NewEncoder(w).Encode(db.Collection{ID: "col-1", Name: "bioconsult"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	defer srv.Close()

	err := repo.Reset(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&deletes))
	assert.Equal(t, int32(1), atomic.LoadInt32(&creates))
}
