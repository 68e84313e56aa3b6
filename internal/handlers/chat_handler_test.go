package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"bioconsult/internal/llm"
	"bioconsult/internal/models"
	"bioconsult/internal/repositories"
	"bioconsult/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Stubs
// ============================================================================

type stubEmbedder struct {
	err error
}

func (s *stubEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = []float32{1, 0, 0}
	}
	return out, nil
}

func (s *stubEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []float32{1, 0, 0}, nil
}

type stubVectorRepo struct {
	contexts []models.RetrievedContext
	err      error
}

func (s *stubVectorRepo) EnsureCollection(ctx context.Context) error { return nil }
func (s *stubVectorRepo) Reset(ctx context.Context) error            { return nil }
func (s *stubVectorRepo) UpsertChunks(ctx context.Context, records []*repositories.ChunkRecord) error {
	return nil
}
func (s *stubVectorRepo) Query(ctx context.Context, embedding []float32, topK int) ([]models.RetrievedContext, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.contexts, nil
}
func (s *stubVectorRepo) Count(ctx context.Context) (int, error) { return len(s.contexts), nil }
func (s *stubVectorRepo) Ping(ctx context.Context) error         { return nil }
func (s *stubVectorRepo) Close() error                           { return nil }

// ============================================================================
// Helper Functions
// ============================================================================

func newChatHandler(t *testing.T, vectorRepo *stubVectorRepo, embedder *stubEmbedder, llmBaseURL string) *ChatHandler {
	logger := log.New(io.Discard, "", 0)

	retrieval := services.NewRetrievalService(embedder, vectorRepo, 4, 12, logger)
	assembler := services.NewContextAssembler("persona", 8)
	router := llm.NewRouter(llm.RouterConfig{
		Provider:      "ollama",
		Model:         "llama3.1",
		OllamaBaseURL: llmBaseURL,
	})

	return NewChatHandler(retrieval, assembler, router, logger)
}

func postChat(t *testing.T, handler *ChatHandler, body interface{}) (*httptest.ResponseRecorder, models.ChatResponse) {
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	handler.Chat(rec, req)

	var resp models.ChatResponse
	if rec.Code == http.StatusOK {
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	}
	return rec, resp
}

func ollamaStub(t *testing.T, answer string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"response": answer})
	}))
}

// ============================================================================
// Tests
// ============================================================================

func TestChat_AnswersWithSources(t *testing.T) {
	srv := ollamaStub(t, "Mitochondria produce ATP. [#1]")
	defer srv.Close()

	vectorRepo := &stubVectorRepo{contexts: []models.RetrievedContext{
		{Rank: 1, Source: "doc_a.txt", Text: "The mitochondria is the powerhouse of the cell.", Distance: 0.1},
	}}
	handler := newChatHandler(t, vectorRepo, &stubEmbedder{}, srv.URL)

	rec, resp := postChat(t, handler, models.ChatRequest{Question: "What does mitochondria do?"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Mitochondria produce ATP. [#1]", resp.Answer)
	assert.Equal(t, 1, resp.UsedContextCount)
	require.Len(t, resp.Sources, 1)
	assert.Equal(t, 1, resp.Sources[0].N)
	assert.Equal(t, "doc_a.txt", resp.Sources[0].Source)
	assert.Equal(t, "success", resp.Status)
}

func TestChat_RetrievalFailureFallsBack(t *testing.T) {
	srv := ollamaStub(t, "never reached")
	defer srv.Close()

	vectorRepo := &stubVectorRepo{err: errors.New("chroma down")}
	handler := newChatHandler(t, vectorRepo, &stubEmbedder{}, srv.URL)

	rec, resp := postChat(t, handler, models.ChatRequest{Question: "anything"})

	// Never a raw error: a polite fallback with zero context attribution.
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, FallbackAnswer, resp.Answer)
	assert.Equal(t, 0, resp.UsedContextCount)
	assert.Empty(t, resp.Sources)
	assert.Equal(t, "fallback", resp.Status)
}

func TestChat_EmptyAnswerFallsBack(t *testing.T) {
	srv := ollamaStub(t, "")
	defer srv.Close()

	handler := newChatHandler(t, &stubVectorRepo{}, &stubEmbedder{}, srv.URL)

	rec, resp := postChat(t, handler, models.ChatRequest{Question: "anything"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, FallbackAnswer, resp.Answer)
	assert.Equal(t, 0, resp.UsedContextCount)
}

func TestChat_RetrievalDisabled(t *testing.T) {
	srv := ollamaStub(t, "General knowledge answer.")
	defer srv.Close()

	// A failing vector store must not matter when retrieval is off.
	vectorRepo := &stubVectorRepo{err: errors.New("chroma down")}
	handler := newChatHandler(t, vectorRepo, &stubEmbedder{err: errors.New("embedder down")}, srv.URL)

	off := false
	rec, resp := postChat(t, handler, models.ChatRequest{Question: "anything", UseRetrieval: &off})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "General knowledge answer.", resp.Answer)
	assert.Equal(t, 0, resp.UsedContextCount)
	assert.Equal(t, "success", resp.Status)
}

func TestChat_MissingQuestion(t *testing.T) {
	handler := newChatHandler(t, &stubVectorRepo{}, &stubEmbedder{}, "http://localhost:1")

	rec, _ := postChat(t, handler, models.ChatRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChat_MisconfiguredProvider(t *testing.T) {
	logger := log.New(io.Discard, "", 0)
	retrieval := services.NewRetrievalService(&stubEmbedder{}, &stubVectorRepo{}, 4, 12, logger)
	assembler := services.NewContextAssembler("persona", 8)
	router := llm.NewRouter(llm.RouterConfig{Provider: "openai"}) // no key

	handler := NewChatHandler(retrieval, assembler, router, logger)

	rec, _ := postChat(t, handler, models.ChatRequest{Question: "anything"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
