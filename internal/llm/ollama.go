package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Self-hosted backends answer slowly on CPU; give them more room than the
// hosted API gets.
const defaultOllamaTimeout = 120 * time.Second

// OllamaProvider calls a self-hosted Ollama /api/generate endpoint.
type OllamaProvider struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// OllamaConfig configures the Ollama generation backend
type OllamaConfig struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// NewOllamaProvider creates the self-hosted backend. The endpoint URL and
// model name are both required configuration.
func NewOllamaProvider(cfg OllamaConfig) (*OllamaProvider, error) {
	if cfg.BaseURL == "" {
		return nil, &ConfigError{Provider: "ollama", Missing: "OLLAMA_BASE_URL"}
	}
	if cfg.Model == "" {
		return nil, &ConfigError{Provider: "ollama", Missing: "LLM_MODEL"}
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultOllamaTimeout
	}

	return &OllamaProvider{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}, nil
}

// Name returns the provider identifier
func (p *OllamaProvider) Name() string { return "ollama" }

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

// Generate renders the request as one flat prompt and calls /api/generate.
func (p *OllamaProvider) Generate(ctx context.Context, req *GenerationRequest) (string, error) {
	var prompt strings.Builder
	prompt.WriteString(req.SystemPrompt)
	prompt.WriteString("\n\n")
	if req.ContextBlock != "" {
		prompt.WriteString("CONTEXT:\n")
		prompt.WriteString(req.ContextBlock)
		prompt.WriteString("\n\n")
	}
	for _, turn := range req.History {
		fmt.Fprintf(&prompt, "%s: %s\n", strings.ToUpper(turn.Role), turn.Content)
	}
	prompt.WriteString("USER QUESTION:\n")
	prompt.WriteString(req.Question)

	body, err := json.Marshal(ollamaRequest{Model: p.model, Prompt: prompt.String(), Stream: false})
	if err != nil {
		return "", &GenerationError{Provider: p.Name(), Message: "failed to marshal request", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", &GenerationError{Provider: p.Name(), Message: "failed to create request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", classifyTransportError(p.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		return "", &GenerationError{Provider: p.Name(), StatusCode: resp.StatusCode, Message: string(payload)}
	}

	var parsed ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &GenerationError{Provider: p.Name(), Message: "failed to decode response", Err: err}
	}

	return strings.TrimSpace(parsed.Response), nil
}
