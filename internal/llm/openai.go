package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

const defaultOpenAITimeout = 60 * time.Second

// OpenAIProvider calls the OpenAI Responses API with an API key.
type OpenAIProvider struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// OpenAIConfig configures the OpenAI generation backend
type OpenAIConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// NewOpenAIProvider creates the key-based chat backend. A missing API key
// is a configuration error; no request is ever attempted without one.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, &ConfigError{Provider: "openai", Missing: "OPENAI_API_KEY"}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultOpenAITimeout
	}

	return &OpenAIProvider{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}, nil
}

// Name returns the provider identifier
func (p *OpenAIProvider) Name() string { return "openai" }

type responsesInputItem struct {
	Role    string               `json:"role"`
	Content []responsesInputPart `json:"content"`
}

type responsesInputPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type responsesRequest struct {
	Model string               `json:"model"`
	Input []responsesInputItem `json:"input"`
}

type responsesResponse struct {
	OutputText string `json:"output_text"`
	Output     []struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
}

// Generate sends the request to the Responses API and extracts the output
// text. An answer the API left empty comes back as ("", nil).
func (p *OpenAIProvider) Generate(ctx context.Context, req *GenerationRequest) (string, error) {
	input := make([]responsesInputItem, 0, len(req.History)+2)
	input = append(input, responsesInputItem{
		Role:    "system",
		Content: []responsesInputPart{{Type: "text", Text: req.SystemPrompt}},
	})
	for _, turn := range req.History {
		input = append(input, responsesInputItem{
			Role:    turn.Role,
			Content: []responsesInputPart{{Type: "text", Text: turn.Content}},
		})
	}
	input = append(input, responsesInputItem{
		Role:    "user",
		Content: []responsesInputPart{{Type: "text", Text: userContent(req)}},
	})

	body, err := json.Marshal(responsesRequest{Model: p.model, Input: input})
	if err != nil {
		return "", &GenerationError{Provider: p.Name(), Message: "failed to marshal request", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/responses", bytes.NewReader(body))
	if err != nil {
		return "", &GenerationError{Provider: p.Name(), Message: "failed to create request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", classifyTransportError(p.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		return "", &GenerationError{Provider: p.Name(), StatusCode: resp.StatusCode, Message: string(payload)}
	}

	var parsed responsesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &GenerationError{Provider: p.Name(), Message: "failed to decode response", Err: err}
	}

	return extractOutputText(&parsed), nil
}

// extractOutputText prefers the flattened output_text field and falls back
// to walking the output items, matching the Responses API shape.
func extractOutputText(resp *responsesResponse) string {
	if resp.OutputText != "" {
		return resp.OutputText
	}
	for _, item := range resp.Output {
		for _, part := range item.Content {
			if (part.Type == "output_text" || part.Type == "text") && part.Text != "" {
				return part.Text
			}
		}
	}
	return ""
}

// classifyTransportError separates timeouts from other transport failures
// so callers never mistake a slow backend for an empty answer.
func classifyTransportError(provider string, err error) *GenerationError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &GenerationError{Provider: provider, Timeout: true, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &GenerationError{Provider: provider, Timeout: true, Err: err}
	}
	return &GenerationError{Provider: provider, Message: fmt.Sprintf("request failed: %v", err), Err: err}
}
