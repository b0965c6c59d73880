// Package review evaluates papers and exam answers through weighted,
// parallel analysis dimensions.
package review

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/learnbuddy/learnbuddy/cache"
	"github.com/learnbuddy/learnbuddy/dispatch"
	"github.com/learnbuddy/learnbuddy/llm"
	"github.com/learnbuddy/learnbuddy/readability"
)

// reviewTemperature keeps grading responses factual.
var reviewTemperature = 0.3

// DefaultWeights is the dimension weight table used when none is configured.
// The aggregate divides by the actual weight sum, so tables that don't sum
// to 1 still produce a [0,100] score.
func DefaultWeights() map[string]float64 {
	return map[string]float64{
		"content":     0.4,
		"structure":   0.25,
		"grammar":     0.2,
		"readability": 0.15,
	}
}

// DefaultMaxReviewChars bounds how much paper text goes into each prompt.
const DefaultMaxReviewChars = 12000

// ContentAnalysis is the content-quality dimension of a paper review.
type ContentAnalysis struct {
	Score       float64  `json:"score"`
	Strengths   []string `json:"strengths"`
	Weaknesses  []string `json:"weaknesses"`
	Suggestions []string `json:"suggestions"`
}

// StructureAnalysis is the organization dimension of a paper review.
type StructureAnalysis struct {
	Score        float64  `json:"score"`
	Feedback     []string `json:"feedback"`
	Organization []string `json:"organization"`
	Flow         []string `json:"flow"`
}

// GrammarAnalysis is the grammar dimension of a paper review.
type GrammarAnalysis struct {
	Score       float64  `json:"score"`
	ErrorCount  int      `json:"error_count"`
	Errors      []string `json:"errors"`
	Corrections []string `json:"corrections"`
}

// PaperReview is the combined result of all analysis dimensions.
type PaperReview struct {
	RequestID string `json:"request_id"`
	PaperType string `json:"paper_type"`

	Content     ContentAnalysis     `json:"content_analysis"`
	Structure   StructureAnalysis   `json:"structure_analysis"`
	Grammar     GrammarAnalysis     `json:"grammar_analysis"`
	Readability readability.Metrics `json:"readability_metrics"`

	// DimensionErrors records analyses that failed and were scored zero.
	DimensionErrors map[string]string `json:"dimension_errors,omitempty"`

	OverallScore float64 `json:"overall_score"`
	Elapsed      float64 `json:"time_taken"`
}

// Reviewer runs paper and exam reviews against an LLM backend.
type Reviewer struct {
	completer llm.Completer
	cache     cache.Store
	logger    *slog.Logger

	weights  map[string]float64
	maxChars int
	workers  int
}

// ReviewerOption configures a Reviewer.
type ReviewerOption func(*Reviewer)

// WithCache sets the result cache for paper reviews.
func WithCache(store cache.Store) ReviewerOption {
	return func(r *Reviewer) {
		r.cache = store
	}
}

// WithWeights replaces the dimension weight table.
func WithWeights(weights map[string]float64) ReviewerOption {
	return func(r *Reviewer) {
		if len(weights) > 0 {
			r.weights = weights
		}
	}
}

// WithMaxReviewChars bounds per-prompt paper text.
func WithMaxReviewChars(n int) ReviewerOption {
	return func(r *Reviewer) {
		if n > 0 {
			r.maxChars = n
		}
	}
}

// WithMaxWorkers bounds dimension and per-question concurrency.
func WithMaxWorkers(n int) ReviewerOption {
	return func(r *Reviewer) {
		r.workers = n
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) ReviewerOption {
	return func(r *Reviewer) {
		r.logger = logger
	}
}

// NewReviewer creates a Reviewer.
func NewReviewer(completer llm.Completer, opts ...ReviewerOption) *Reviewer {
	r := &Reviewer{
		completer: completer,
		cache:     cache.Nop{},
		logger:    slog.Default(),
		weights:   DefaultWeights(),
		maxChars:  DefaultMaxReviewChars,
		workers:   dispatch.DefaultWorkers,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// dimension identifies one paper analysis. The slice order fixes result
// indices for the dispatch round.
type dimension int

const (
	dimContent dimension = iota
	dimStructure
	dimGrammar
	dimReadability
)

func (d dimension) String() string {
	switch d {
	case dimContent:
		return "content"
	case dimStructure:
		return "structure"
	case dimGrammar:
		return "grammar"
	case dimReadability:
		return "readability"
	}
	return "unknown"
}

// ReviewPaper analyzes one paper across all dimensions concurrently.
//
// A failed LLM dimension is isolated: it scores zero and is recorded in
// DimensionErrors while the other dimensions still contribute. Only empty
// input fails the call outright.
func (r *Reviewer) ReviewPaper(ctx context.Context, paperText, paperType string) (*PaperReview, error) {
	if strings.TrimSpace(paperText) == "" {
		return nil, fmt.Errorf("empty paper content provided")
	}
	if paperType == "" {
		paperType = "essay"
	}

	key := cache.Fingerprint("paper-review", paperText, paperType)
	if data, ok, err := r.cache.Get(ctx, key); err != nil {
		r.logger.Warn("cache read failed", "error", err)
	} else if ok {
		var cached PaperReview
		if err := json.Unmarshal(data, &cached); err == nil {
			r.logger.Debug("paper review cache hit", "key", key)
			return &cached, nil
		}
		r.logger.Warn("discarding corrupt cache entry", "key", key)
	}

	start := time.Now()
	review := &PaperReview{
		RequestID: uuid.New().String(),
		PaperType: paperType,
	}
	excerpt := truncate(paperText, r.maxChars)

	dims := []dimension{dimContent, dimStructure, dimGrammar, dimReadability}
	results := dispatch.Map(ctx, r.workers, dims,
		func(ctx context.Context, _ int, d dimension) (struct{}, error) {
			// Each dimension writes its own field; no two tasks share one.
			var err error
			switch d {
			case dimContent:
				review.Content, err = r.reviewContent(ctx, excerpt, paperType)
			case dimStructure:
				review.Structure, err = r.reviewStructure(ctx, excerpt)
			case dimGrammar:
				review.Grammar, err = r.reviewGrammar(ctx, excerpt)
			case dimReadability:
				review.Readability = readability.Analyze(paperText)
			}
			return struct{}{}, err
		})

	for _, res := range results {
		if res.Err != nil {
			d := dims[res.Index]
			r.logger.Warn("review dimension failed", "dimension", d.String(), "error", res.Err)
			if review.DimensionErrors == nil {
				review.DimensionErrors = make(map[string]string)
			}
			review.DimensionErrors[d.String()] = res.Err.Error()
		}
	}

	review.OverallScore = r.aggregate(map[string]float64{
		"content":     review.Content.Score,
		"structure":   review.Structure.Score,
		"grammar":     review.Grammar.Score,
		"readability": review.Readability.Score,
	})
	review.Elapsed = time.Since(start).Seconds()

	if data, err := json.Marshal(review); err == nil {
		if err := r.cache.Set(ctx, key, data); err != nil {
			r.logger.Warn("cache write failed", "error", err)
		}
	}

	r.logger.Info("paper review complete",
		"request_id", review.RequestID,
		"paper_type", paperType,
		"overall_score", review.OverallScore,
		"elapsed_seconds", review.Elapsed)

	return review, nil
}

// aggregate combines dimension scores using the configured weight table,
// dividing by the actual weight sum.
func (r *Reviewer) aggregate(scores map[string]float64) float64 {
	var weighted, total float64
	for name, w := range r.weights {
		score, ok := scores[name]
		if !ok {
			continue
		}
		weighted += score * w
		total += w
	}
	if total == 0 {
		return 0
	}
	return round1(weighted / total)
}

func (r *Reviewer) reviewContent(ctx context.Context, text, paperType string) (ContentAnalysis, error) {
	resp, err := r.complete(ctx, contentPrompt(paperType, text))
	if err != nil {
		return ContentAnalysis{}, err
	}
	return parseContent(resp), nil
}

func (r *Reviewer) reviewStructure(ctx context.Context, text string) (StructureAnalysis, error) {
	resp, err := r.complete(ctx, structurePrompt(text))
	if err != nil {
		return StructureAnalysis{}, err
	}
	return parseStructure(resp), nil
}

func (r *Reviewer) reviewGrammar(ctx context.Context, text string) (GrammarAnalysis, error) {
	resp, err := r.complete(ctx, grammarPrompt(text))
	if err != nil {
		return GrammarAnalysis{}, err
	}
	return parseGrammar(resp, len(strings.Fields(text))), nil
}

func (r *Reviewer) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := r.completer.Complete(ctx, llm.Request{
		Capability: "review",
		Messages: []llm.Message{
			{Role: "user", Content: prompt},
		},
		Temperature: &reviewTemperature,
		MaxTokens:   2000,
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// truncate cuts text to at most n bytes without splitting a UTF-8 rune.
func truncate(text string, n int) string {
	if len(text) <= n {
		return text
	}
	cut := text[:n]
	for len(cut) > 0 {
		if r, size := utf8.DecodeLastRuneInString(cut); r == utf8.RuneError && size == 1 {
			cut = cut[:len(cut)-1]
			continue
		}
		break
	}
	return cut
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
