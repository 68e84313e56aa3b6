package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"bioconsult/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRequest() *GenerationRequest {
	return &GenerationRequest{
		SystemPrompt: "You are a study assistant.",
		ContextBlock: "[#1 doc_a.txt] The mitochondria is the powerhouse of the cell.",
		History: []models.ChatMessage{
			{Role: "user", Content: "Hi"},
			{Role: "assistant", Content: "Hello!"},
		},
		Question: "What does mitochondria do?",
	}
}

func TestRouter_UnknownProvider(t *testing.T) {
	router := NewRouter(RouterConfig{Provider: "bedrock"})

	_, err := router.Answer(context.Background(), testRequest())
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "bedrock", cfgErr.Provider)
}

func TestRouter_MissingCredentialFailsBeforeNetwork(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	// The endpoint is reachable but the key is absent: dispatch must fail
	// without ever touching the transport.
	router := NewRouter(RouterConfig{
		Provider:      "openai",
		OpenAIBaseURL: srv.URL,
		Model:         "gpt-4o-mini",
	})

	_, err := router.Answer(context.Background(), testRequest())
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "openai", cfgErr.Provider)
	assert.Contains(t, cfgErr.Missing, "OPENAI_API_KEY")
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestRouter_NoFallbackBetweenProviders(t *testing.T) {
	// Ollama endpoint configured, but openai selected without a key: the
	// router must error out instead of quietly using ollama.
	router := NewRouter(RouterConfig{
		Provider:      "openai",
		OllamaBaseURL: "http://localhost:11434",
		Model:         "llama3.1",
	})

	_, err := router.Answer(context.Background(), testRequest())
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "openai", cfgErr.Provider)
}

func TestRouter_DispatchesToOllama(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"response": "It produces ATP. [#1]"})
	}))
	defer srv.Close()

	router := NewRouter(RouterConfig{
		Provider:      "ollama",
		OllamaBaseURL: srv.URL,
		Model:         "llama3.1",
	})

	answer, err := router.Answer(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "It produces ATP. [#1]", answer)
}

func TestRouter_DispatchesToLMStudio(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)

		var req chatCompletionsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		// system + 2 history turns + user question.
		require.Len(t, req.Messages, 4)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[3].Role)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "ATP synthesis."}},
			},
		})
	}))
	defer srv.Close()

	router := NewRouter(RouterConfig{
		Provider:        "lmstudio",
		LMStudioBaseURL: srv.URL,
		Model:           "llama-3.2-3b-instruct",
	})

	answer, err := router.Answer(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "ATP synthesis.", answer)
}
