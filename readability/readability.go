// Package readability computes text complexity metrics used as the
// readability dimension of a paper review.
package readability

import (
	"math"
	"strings"
	"unicode"
)

// Metrics holds the raw measurements behind a readability score.
type Metrics struct {
	Words        int     `json:"words"`
	Sentences    int     `json:"sentences"`
	Syllables    int     `json:"syllables"`
	ComplexWords int     `json:"complex_words"`
	FleschEase   float64 `json:"flesch_reading_ease"`
	GunningFog   float64 `json:"gunning_fog"`
	Score        float64 `json:"score"`
}

// Analyze measures text and derives a composite [0,100] score where
// higher means easier to read.
//
// The score blends Flesch reading ease (clamped to [0,100]) at 60% with
// a fog-based complexity penalty at 40%, rounded to one decimal.
func Analyze(text string) Metrics {
	words := strings.Fields(text)
	m := Metrics{
		Words:     len(words),
		Sentences: countSentences(text),
	}
	if m.Words == 0 {
		return m
	}

	for _, w := range words {
		s := countSyllables(w)
		m.Syllables += s
		if s >= 3 {
			m.ComplexWords++
		}
	}

	wordsPerSentence := float64(m.Words) / float64(m.Sentences)
	syllablesPerWord := float64(m.Syllables) / float64(m.Words)

	m.FleschEase = round1(206.835 - 1.015*wordsPerSentence - 84.6*syllablesPerWord)
	m.GunningFog = round1(0.4 * (wordsPerSentence + 100*float64(m.ComplexWords)/float64(m.Words)))

	ease := math.Max(0, math.Min(100, m.FleschEase))
	complexity := 100 - math.Min(100, m.GunningFog*10)
	m.Score = round1(ease*0.6 + complexity*0.4)

	return m
}

// Score is a shorthand for Analyze(text).Score.
func Score(text string) float64 {
	return Analyze(text).Score
}

// countSentences counts terminator-delimited sentences. Text with words
// but no terminator counts as one sentence.
func countSentences(text string) int {
	count := 0
	inTerminator := false
	hasContent := false

	for _, r := range text {
		switch {
		case r == '.' || r == '!' || r == '?':
			if hasContent && !inTerminator {
				count++
			}
			inTerminator = true
			hasContent = false
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			hasContent = true
			inTerminator = false
		}
	}
	if hasContent {
		count++
	}
	if count == 0 && strings.TrimSpace(text) != "" {
		count = 1
	}
	return count
}

// countSyllables estimates syllables by counting vowel groups, with the
// usual silent-e adjustment. Every word counts as at least one syllable.
func countSyllables(word string) int {
	word = strings.ToLower(strings.TrimFunc(word, func(r rune) bool {
		return !unicode.IsLetter(r)
	}))
	if word == "" {
		return 0
	}

	groups := 0
	prevVowel := false
	for _, r := range word {
		isVowel := strings.ContainsRune("aeiouy", r)
		if isVowel && !prevVowel {
			groups++
		}
		prevVowel = isVowel
	}

	if groups > 1 && strings.HasSuffix(word, "e") && !strings.HasSuffix(word, "le") {
		groups--
	}
	if groups < 1 {
		groups = 1
	}
	return groups
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
