package models

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSnippet_TruncatesOnRuneBoundary(t *testing.T) {
	// Cyrillic runes are two bytes each; byte-based slicing would cut one
	// of them in half.
	ctx := &RetrievedContext{Text: strings.Repeat("клітина ", 50)}

	snippet := ctx.Snippet(160)

	assert.True(t, utf8.ValidString(snippet))
	assert.Equal(t, 161, utf8.RuneCountInString(snippet))
	assert.True(t, strings.HasSuffix(snippet, "…"))
}

func TestSnippet_ShortTextIsUntouched(t *testing.T) {
	ctx := &RetrievedContext{Text: "мітохондрія"}

	assert.Equal(t, "мітохондрія", ctx.Snippet(160))
	assert.Equal(t, "мітохондрія", ctx.Snippet(0))
}
