package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"bioconsult/internal/models"
)

const defaultLMStudioTimeout = 120 * time.Second

// LMStudioProvider calls an LM Studio (OpenAI-compatible) chat completions
// endpoint, typically serving a locally loaded model.
type LMStudioProvider struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// LMStudioConfig configures the LM Studio generation backend
type LMStudioConfig struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// NewLMStudioProvider creates the alternate hosted backend. The endpoint
// URL and model name are required; there is no API key.
func NewLMStudioProvider(cfg LMStudioConfig) (*LMStudioProvider, error) {
	if cfg.BaseURL == "" {
		return nil, &ConfigError{Provider: "lmstudio", Missing: "LMSTUDIO_BASE_URL"}
	}
	if cfg.Model == "" {
		return nil, &ConfigError{Provider: "lmstudio", Missing: "LLM_MODEL"}
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultLMStudioTimeout
	}

	return &LMStudioProvider{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}, nil
}

// Name returns the provider identifier
func (p *LMStudioProvider) Name() string { return "lmstudio" }

type chatCompletionsRequest struct {
	Model       string               `json:"model"`
	Messages    []models.ChatMessage `json:"messages"`
	Temperature float64              `json:"temperature"`
	Stream      bool                 `json:"stream"`
}

type chatCompletionsResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate sends the request as a chat completion.
func (p *LMStudioProvider) Generate(ctx context.Context, req *GenerationRequest) (string, error) {
	messages := make([]models.ChatMessage, 0, len(req.History)+2)
	messages = append(messages, models.ChatMessage{Role: "system", Content: req.SystemPrompt})
	messages = append(messages, req.History...)
	messages = append(messages, models.ChatMessage{Role: "user", Content: userContent(req)})

	body, err := json.Marshal(chatCompletionsRequest{
		Model:       p.model,
		Messages:    messages,
		Temperature: 0.4,
		Stream:      false,
	})
	if err != nil {
		return "", &GenerationError{Provider: p.Name(), Message: "failed to marshal request", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
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

	var parsed chatCompletionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &GenerationError{Provider: p.Name(), Message: "failed to decode response", Err: err}
	}

	if len(parsed.Choices) == 0 {
		return "", nil
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
