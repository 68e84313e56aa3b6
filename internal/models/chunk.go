package models

// RetrievedContext is one ranked retrieval hit, ordered nearest-first.
// Rank is 1-based and doubles as the citation number in the context block.
type RetrievedContext struct {
	Rank     int                    `json:"rank"`
	Source   string                 `json:"source"`
	Text     string                 `json:"text"`
	Distance float32                `json:"distance"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Snippet returns a bounded preview of the context text for attribution
// lists, mirroring what the UI shows under "Sources". maxLen counts runes,
// so truncation never splits a multi-byte character.
func (c *RetrievedContext) Snippet(maxLen int) string {
	if maxLen <= 0 {
		return c.Text
	}
	runes := []rune(c.Text)
	if len(runes) <= maxLen {
		return c.Text
	}
	return string(runes[:maxLen]) + "…"
}
