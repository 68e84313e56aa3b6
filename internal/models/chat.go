package models

// ChatMessage represents a single turn in a conversation
type ChatMessage struct {
	Role    string `json:"role"`    // "user" or "assistant"
	Content string `json:"content"` // The message content
}

// ChatRequest represents the incoming chat request from the frontend
type ChatRequest struct {
	Question     string        `json:"question"`                // The current user question
	UseRetrieval *bool         `json:"use_retrieval,omitempty"` // Ground the answer in the corpus; omitted means true
	TopK         int           `json:"top_k,omitempty"`         // Number of context chunks to retrieve (clamped server-side)
	History      []ChatMessage `json:"history,omitempty"`       // Previous conversation turns
}

// SourceAttribution is one numbered citation surfaced to the user. N matches
// the [#n] markers inside the generated answer.
type SourceAttribution struct {
	N       int    `json:"n"`
	Source  string `json:"source"`
	Snippet string `json:"snippet"`
}

// ChatResponse represents the response sent back to the frontend
type ChatResponse struct {
	Answer           string              `json:"answer"`
	UsedContextCount int                 `json:"used_context_count"`
	Sources          []SourceAttribution `json:"sources,omitempty"`
	Status           string              `json:"status"` // "success" or "fallback"
}

// ReindexRequest triggers a corpus rebuild
type ReindexRequest struct {
	Clear bool `json:"clear"` // Wipe the collection before writing new records
}

// ReindexResponse reports the outcome of a rebuild
type ReindexResponse struct {
	Documents       int      `json:"documents"`
	Chunks          int      `json:"chunks"`
	FailedDocuments []string `json:"failed_documents,omitempty"`
	Collection      string   `json:"collection"`
	Status          string   `json:"status"`
}

// BasicResponse is the minimal status envelope used by health endpoints
type BasicResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}
