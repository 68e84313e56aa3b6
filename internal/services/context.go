package services

import (
	"fmt"
	"strings"

	"bioconsult/internal/llm"
	"bioconsult/internal/models"
)

// ContextAssembler composes the generation request from retrieved chunks
// and conversation history. Composition is read-only: caller-owned slices
// are never mutated.
type ContextAssembler struct {
	persona       string
	historyWindow int
}

// NewContextAssembler creates an assembler with the configured persona and
// history window.
func NewContextAssembler(persona string, historyWindow int) *ContextAssembler {
	return &ContextAssembler{
		persona:       persona,
		historyWindow: historyWindow,
	}
}

// Assemble builds the generation request. Retrieved chunks are rendered as
// numbered blocks in rank order; the numbering is 1-based and matches the
// source attributions returned to the client, so the model can cite [#n]
// markers the user can resolve. History is truncated to the most recent
// window of turns with order preserved. No retrieved context yields an
// empty context block; the persona instructs the model to say the
// knowledge base has no answer rather than fabricate one.
func (a *ContextAssembler) Assemble(question string, contexts []models.RetrievedContext, history []models.ChatMessage) *llm.GenerationRequest {
	blocks := make([]string, 0, len(contexts))
	for _, c := range contexts {
		blocks = append(blocks, fmt.Sprintf("[#%d %s] %s", c.Rank, c.Source, c.Text))
	}

	trimmed := history
	if a.historyWindow > 0 && len(history) > a.historyWindow {
		trimmed = history[len(history)-a.historyWindow:]
	}

	return &llm.GenerationRequest{
		SystemPrompt: a.persona,
		ContextBlock: strings.Join(blocks, "\n\n"),
		History:      trimmed,
		Question:     question,
	}
}

// Attributions maps retrieved chunks to the user-facing source list. The
// numbering matches the [#n] markers inside the context block.
func (a *ContextAssembler) Attributions(contexts []models.RetrievedContext) []models.SourceAttribution {
	sources := make([]models.SourceAttribution, 0, len(contexts))
	for _, c := range contexts {
		sources = append(sources, models.SourceAttribution{
			N:       c.Rank,
			Source:  c.Source,
			Snippet: c.Snippet(160),
		})
	}
	return sources
}
