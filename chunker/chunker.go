// Package chunker plans how chapter text is split into batches for
// parallel question generation.
package chunker

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/learnbuddy/learnbuddy/library"
)

// ErrNoContent is returned when the text body has nothing to chunk.
var ErrNoContent = errors.New("no content to chunk")

// Config holds chunk planning configuration.
type Config struct {
	// MaxChunkTokens is the token budget per chunk.
	MaxChunkTokens int

	// MaxChunks caps how many chunks share the item quota.
	MaxChunks int

	// TokensPerWord converts word counts to token estimates.
	TokensPerWord float64
}

// DefaultConfig returns sensible planning defaults.
func DefaultConfig() Config {
	return Config{
		MaxChunkTokens: 3000,
		MaxChunks:      10,
		TokensPerWord:  library.DefaultTokensPerWord,
	}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.MaxChunkTokens <= 0 {
		return fmt.Errorf("MaxChunkTokens must be positive, got %d", c.MaxChunkTokens)
	}
	if c.MaxChunks <= 0 {
		return fmt.Errorf("MaxChunks must be positive, got %d", c.MaxChunks)
	}
	if c.TokensPerWord <= 0 {
		return fmt.Errorf("TokensPerWord must be positive, got %g", c.TokensPerWord)
	}
	return nil
}

// Chunk is one batch of chapter text.
type Chunk struct {
	// Index is the chunk's position in submission order.
	Index int

	// Text is the chunk content.
	Text string

	// TokenEstimate is the projected token count of Text.
	TokenEstimate int
}

// Plan describes how a chapter is batched.
type Plan struct {
	// Chunks holds all batches in source order.
	Chunks []Chunk

	// ItemsPerChunk is the question quota assigned to each chunk.
	ItemsPerChunk int
}

// Planner splits chapter text into token-bounded chunks.
type Planner struct {
	config Config
}

// New creates a Planner with the given configuration.
// Returns an error if the configuration is invalid.
func New(cfg Config) (*Planner, error) {
	if cfg == (Config{}) {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Planner{config: cfg}, nil
}

// MustNew creates a Planner, panicking on invalid config.
// Use for known-good configurations.
func MustNew(cfg Config) *Planner {
	p, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return p
}

// NewDefault creates a Planner with default configuration.
func NewDefault() *Planner {
	return MustNew(DefaultConfig())
}

// Plan splits a text body into chunks and divides totalItems across them.
//
// Paragraphs are packed greedily: each chunk takes paragraphs until adding
// the next would exceed the token budget. A paragraph that alone exceeds
// the budget is force-split on word boundaries so no chunk ever goes over.
// Every paragraph lands in exactly one chunk.
func (p *Planner) Plan(body *library.TextBody, totalItems int) (*Plan, error) {
	if body == nil || body.IsEmpty() {
		return nil, ErrNoContent
	}
	if totalItems <= 0 {
		return nil, fmt.Errorf("totalItems must be positive, got %d", totalItems)
	}

	var chunks []Chunk
	var current []string
	currentTokens := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		text := strings.Join(current, "\n\n")
		chunks = append(chunks, Chunk{
			Index:         len(chunks),
			Text:          text,
			TokenEstimate: library.EstimateTokens(text, p.config.TokensPerWord),
		})
		current = nil
		currentTokens = 0
	}

	for _, para := range body.Paragraphs() {
		paraTokens := library.EstimateTokens(para, p.config.TokensPerWord)

		// A paragraph over the budget gets split on word boundaries.
		if paraTokens > p.config.MaxChunkTokens {
			flush()
			for _, piece := range p.splitOversized(para) {
				current = append(current, piece)
				flush()
			}
			continue
		}

		if currentTokens > 0 && currentTokens+paraTokens > p.config.MaxChunkTokens {
			flush()
		}
		current = append(current, para)
		currentTokens += paraTokens
	}
	flush()

	return &Plan{
		Chunks:        chunks,
		ItemsPerChunk: p.quota(totalItems, len(chunks)),
	}, nil
}

// splitOversized breaks a single paragraph into budget-sized pieces,
// splitting only between words.
func (p *Planner) splitOversized(para string) []string {
	wordsPerChunk := int(float64(p.config.MaxChunkTokens) / p.config.TokensPerWord)
	if wordsPerChunk < 1 {
		wordsPerChunk = 1
	}

	words := strings.Fields(para)
	var pieces []string
	for start := 0; start < len(words); start += wordsPerChunk {
		end := start + wordsPerChunk
		if end > len(words) {
			end = len(words)
		}
		pieces = append(pieces, strings.Join(words[start:end], " "))
	}
	return pieces
}

// quota divides the requested item count across chunks. The divisor is
// capped at MaxChunks so long chapters still yield a meaningful per-chunk
// quota, and every chunk gets at least one item.
func (p *Planner) quota(totalItems, chunkCount int) int {
	divisor := chunkCount
	if divisor > p.config.MaxChunks {
		divisor = p.config.MaxChunks
	}
	if divisor < 1 {
		divisor = 1
	}
	q := int(math.Ceil(float64(totalItems) / float64(divisor)))
	if q < 1 {
		q = 1
	}
	return q
}
