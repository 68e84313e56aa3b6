package llm

import (
	"context"
	"time"
)

// Router dispatches generation requests to a named provider. Providers are
// constructed lazily per call so a misconfigured backend fails with a
// ConfigError at dispatch time, before any network traffic.
type Router struct {
	config RouterConfig
}

// RouterConfig carries everything needed to build any of the supported
// backends. Only the selected provider's fields are validated.
type RouterConfig struct {
	Provider string // "openai", "ollama" or "lmstudio"
	Model    string

	OpenAIAPIKey  string
	OpenAIBaseURL string

	OllamaBaseURL string

	LMStudioBaseURL string

	// Timeout overrides the per-provider default when non-zero.
	Timeout time.Duration
}

// NewRouter creates a router for the configured provider set
func NewRouter(config RouterConfig) *Router {
	return &Router{config: config}
}

// provider builds the backend selected by the configuration. There is no
// fallback between providers: a missing credential is an explicit error,
// never a silent switch to another backend.
func (r *Router) provider() (Provider, error) {
	switch r.config.Provider {
	case "openai":
		return NewOpenAIProvider(OpenAIConfig{
			BaseURL: r.config.OpenAIBaseURL,
			APIKey:  r.config.OpenAIAPIKey,
			Model:   r.config.Model,
			Timeout: r.config.Timeout,
		})
	case "ollama":
		return NewOllamaProvider(OllamaConfig{
			BaseURL: r.config.OllamaBaseURL,
			Model:   r.config.Model,
			Timeout: r.config.Timeout,
		})
	case "lmstudio":
		return NewLMStudioProvider(LMStudioConfig{
			BaseURL: r.config.LMStudioBaseURL,
			Model:   r.config.Model,
			Timeout: r.config.Timeout,
		})
	default:
		return nil, &ConfigError{Provider: r.config.Provider, Missing: "a known LLM_PROVIDER (openai, ollama, lmstudio)"}
	}
}

// Answer dispatches the request and returns the normalized answer text.
// A backend that produced nothing usable yields the empty-string sentinel
// with a nil error; the caller substitutes the user-facing fallback.
func (r *Router) Answer(ctx context.Context, req *GenerationRequest) (string, error) {
	p, err := r.provider()
	if err != nil {
		return "", err
	}
	return p.Generate(ctx, req)
}
