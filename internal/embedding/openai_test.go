package embedding

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEmbeddingsServer(t *testing.T, calls *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)

		var req embeddingsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		type datum struct {
			Index     int       `json:"index"`
			Embedding []float32 `json:"embedding"`
		}
		data := make([]datum, len(req.Input))
		for i := range req.Input {
			// Distinct non-unit vectors so normalization is observable.
			data[i] = datum{Index: i, Embedding: []float32{float32(len(req.Input[i])), 3, 4}}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"data": data})
	}))
}

func newTestEmbedder(t *testing.T, baseURL string) *OpenAIEmbedder {
	t.Helper()
	e, err := NewOpenAIEmbedder(OpenAIConfig{BaseURL: baseURL, APIKey: "test-key"})
	require.NoError(t, err)
	return e
}

func TestNewOpenAIEmbedder_RequiresAPIKey(t *testing.T) {
	_, err := NewOpenAIEmbedder(OpenAIConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestEmbedDocuments_OrderPreservingAndNormalized(t *testing.T) {
	var calls int32
	srv := newEmbeddingsServer(t, &calls)
	defer srv.Close()

	e := newTestEmbedder(t, srv.URL)

	vectors, err := e.EmbedDocuments(context.Background(), []string{"a", "bb", "ccc"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	for i, v := range vectors {
		require.Len(t, v, 3)
		// First component encodes input length, proving order survived.
		expectedFirst := float32(i + 1)
		norm := math.Sqrt(float64(expectedFirst*expectedFirst + 9 + 16))
		assert.InDelta(t, float64(expectedFirst)/norm, float64(v[0]), 1e-6)

		var length float64
		for _, x := range v {
			length += float64(x) * float64(x)
		}
		assert.InDelta(t, 1.0, length, 1e-6)
	}
}

func TestEmbedDocuments_EmptyInput(t *testing.T) {
	var calls int32
	srv := newEmbeddingsServer(t, &calls)
	defer srv.Close()

	e := newTestEmbedder(t, srv.URL)

	vectors, err := e.EmbedDocuments(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, vectors)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls), "no network call for an empty batch")
}

func TestEmbedDocuments_SplitsLargeBatches(t *testing.T) {
	var calls int32
	srv := newEmbeddingsServer(t, &calls)
	defer srv.Close()

	e := newTestEmbedder(t, srv.URL)

	texts := make([]string, embedBatchSize+1)
	for i := range texts {
		texts[i] = "passage"
	}

	vectors, err := e.EmbedDocuments(context.Background(), texts)
	require.NoError(t, err)
	assert.Len(t, vectors, embedBatchSize+1)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestEmbedQuery(t *testing.T) {
	var calls int32
	srv := newEmbeddingsServer(t, &calls)
	defer srv.Close()

	e := newTestEmbedder(t, srv.URL)

	v, err := e.EmbedQuery(context.Background(), "what is mitosis?")
	require.NoError(t, err)
	assert.Len(t, v, 3)
}

func TestEmbed_BackendErrorSurfacesAsRequestError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "model overloaded"}`, http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	e := newTestEmbedder(t, srv.URL)

	_, err := e.EmbedQuery(context.Background(), "question")
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusServiceUnavailable, reqErr.StatusCode)
}

func TestEmbed_CountMismatchIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"data": []interface{}{}})
	}))
	defer srv.Close()

	e := newTestEmbedder(t, srv.URL)

	_, err := e.EmbedDocuments(context.Background(), []string{"a", "b"})
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Contains(t, reqErr.Error(), "2 inputs")
}
