// Package llm routes assembled generation requests to interchangeable
// model backends and normalizes their responses.
package llm

import (
	"context"
	"fmt"

	"bioconsult/internal/models"
)

// GenerationRequest is the provider-agnostic prompt assembled per query.
// It is built fresh for every question and never persisted.
type GenerationRequest struct {
	SystemPrompt string
	ContextBlock string
	History      []models.ChatMessage
	Question     string
}

// Provider produces a plain-text completion for a generation request.
// A backend that produced no usable text returns ("", nil); failures are
// reported as typed errors, never folded into the empty sentinel.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req *GenerationRequest) (string, error)
}

// ConfigError reports a provider that cannot run because a credential or
// endpoint is missing. It is raised at construction or dispatch time,
// always before any network call.
type ConfigError struct {
	Provider string
	Missing  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("provider %s is not configured: %s is required", e.Provider, e.Missing)
}

// GenerationError reports a failed backend call: timeout, non-2xx status
// or an unparseable payload.
type GenerationError struct {
	Provider   string
	StatusCode int
	Timeout    bool
	Message    string
	Err        error
}

func (e *GenerationError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("provider %s timed out", e.Provider)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider %s returned status %d: %s", e.Provider, e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("provider %s failed: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("provider %s failed: %s", e.Provider, e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// userContent renders the question plus the context block the way the
// chat-style backends expect it: the question first, then the labeled
// context so the model can cite [#n] markers.
func userContent(req *GenerationRequest) string {
	content := req.Question
	if req.ContextBlock != "" {
		content += "\n\nCONTEXT:\n" + req.ContextBlock
	}
	return content
}
