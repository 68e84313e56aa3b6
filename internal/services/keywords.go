package services

import (
	"sort"
	"strings"
	"unicode"

	"github.com/jdkato/prose/v2"
)

// KeywordExtractor derives topical keywords from chunk text. The keywords
// are stored as chunk metadata at index time so stored chunks can be
// inspected and filtered by topic.
type KeywordExtractor struct {
	stopWords  map[string]bool
	minLength  int
	maxResults int
}

// NewKeywordExtractor creates a new keyword extractor
func NewKeywordExtractor() *KeywordExtractor {
	stopWords := map[string]bool{
		"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
		"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
		"with": true, "by": true, "is": true, "are": true, "was": true, "were": true,
		"be": true, "been": true, "have": true, "has": true, "had": true, "do": true,
		"does": true, "did": true, "will": true, "would": true, "could": true, "should": true,
		"this": true, "that": true, "these": true, "those": true, "it": true, "its": true,
		"which": true, "when": true, "where": true, "while": true, "also": true,
	}

	return &KeywordExtractor{
		stopWords:  stopWords,
		minLength:  3,
		maxResults: 8,
	}
}

type keywordScore struct {
	word  string
	score float64
}

// Extract returns the top keywords of the text, most relevant first.
// Nouns outrank adjectives, proper nouns outrank both, and everything
// else is discarded. Extraction failures degrade to no keywords; chunk
// indexing never fails because of metadata enrichment.
func (ke *KeywordExtractor) Extract(text string) []string {
	doc, err := prose.NewDocument(text, prose.WithExtraction(false))
	if err != nil {
		return nil
	}

	scores := make(map[string]float64)
	for _, tok := range doc.Tokens() {
		word := strings.ToLower(tok.Text)
		if ke.shouldSkipWord(word) {
			continue
		}

		weight := tagWeight(tok.Tag)
		if weight == 0 {
			continue
		}
		scores[word] += weight
	}

	ranked := make([]keywordScore, 0, len(scores))
	for word, score := range scores {
		ranked = append(ranked, keywordScore{word: word, score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].word < ranked[j].word
	})

	if len(ranked) > ke.maxResults {
		ranked = ranked[:ke.maxResults]
	}

	keywords := make([]string, len(ranked))
	for i, r := range ranked {
		keywords[i] = r.word
	}
	return keywords
}

// shouldSkipWord filters stop words, short tokens and non-alphabetic noise
func (ke *KeywordExtractor) shouldSkipWord(word string) bool {
	if len(word) < ke.minLength {
		return true
	}
	if ke.stopWords[word] {
		return true
	}
	for _, r := range word {
		if !unicode.IsLetter(r) && r != '-' {
			return true
		}
	}
	return false
}

// tagWeight assigns importance by POS tag; zero means discard
func tagWeight(posTag string) float64 {
	switch posTag {
	case "NNP", "NNPS":
		return 2.0
	case "NN", "NNS":
		return 1.5
	case "JJ", "JJR", "JJS":
		return 1.0
	default:
		return 0
	}
}
