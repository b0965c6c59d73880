// Package library provides chapter text retrieval for question generation.
// Chapter text arrives pre-extracted (PDF extraction and vector indexing are
// external concerns); this package models the retrieved text and the stores
// it can be fetched from.
package library

import (
	"math"
	"strings"
)

// DefaultTokensPerWord is the word-count multiplier used to approximate
// backend token consumption when no exact tokenizer is available.
const DefaultTokensPerWord = 1.3

// TextBody is an ordered sequence of paragraph-level text units.
// It is immutable once constructed.
type TextBody struct {
	paragraphs    []string
	words         int
	tokensPerWord float64
}

// NewTextBody creates a TextBody from paragraphs.
// Blank paragraphs are dropped; tokensPerWord <= 0 uses the default.
func NewTextBody(paragraphs []string, tokensPerWord float64) *TextBody {
	if tokensPerWord <= 0 {
		tokensPerWord = DefaultTokensPerWord
	}

	kept := make([]string, 0, len(paragraphs))
	words := 0
	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		kept = append(kept, p)
		words += len(strings.Fields(p))
	}

	return &TextBody{
		paragraphs:    kept,
		words:         words,
		tokensPerWord: tokensPerWord,
	}
}

// ParseTextBody splits raw text into blank-line-separated paragraphs.
func ParseTextBody(text string, tokensPerWord float64) *TextBody {
	var paragraphs []string
	for _, block := range strings.Split(text, "\n\n") {
		block = strings.TrimSpace(block)
		if block != "" {
			paragraphs = append(paragraphs, block)
		}
	}
	return NewTextBody(paragraphs, tokensPerWord)
}

// Paragraphs returns the paragraph sequence.
// Callers must not modify the returned slice.
func (b *TextBody) Paragraphs() []string {
	return b.paragraphs
}

// Words returns the total word count across all paragraphs.
func (b *TextBody) Words() int {
	return b.words
}

// TokenEstimate approximates the backend token count as
// ceil(words * tokensPerWord).
func (b *TextBody) TokenEstimate() int {
	return int(math.Ceil(float64(b.words) * b.tokensPerWord))
}

// TokensPerWord returns the multiplier this body was built with.
func (b *TextBody) TokensPerWord() float64 {
	return b.tokensPerWord
}

// Text joins the paragraphs with blank lines.
func (b *TextBody) Text() string {
	return strings.Join(b.paragraphs, "\n\n")
}

// IsEmpty reports whether the body has no paragraphs.
func (b *TextBody) IsEmpty() bool {
	return len(b.paragraphs) == 0
}

// EstimateTokens approximates the token count of a plain string using the
// same heuristic as TextBody.
func EstimateTokens(text string, tokensPerWord float64) int {
	if tokensPerWord <= 0 {
		tokensPerWord = DefaultTokensPerWord
	}
	return int(math.Ceil(float64(len(strings.Fields(text))) * tokensPerWord))
}
