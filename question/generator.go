package question

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/learnbuddy/learnbuddy/cache"
	"github.com/learnbuddy/learnbuddy/chunker"
	"github.com/learnbuddy/learnbuddy/dispatch"
	"github.com/learnbuddy/learnbuddy/library"
	"github.com/learnbuddy/learnbuddy/llm"
)

// generationTemperature matches the creative-but-grounded setting used for
// question prompts.
var generationTemperature = 0.7

// GenerateRequest describes one question generation call.
type GenerateRequest struct {
	Book    string
	Chapter string
	Mode    Mode
	Count   int
	Focus   Focus
}

// Result is the outcome of a generation call. Failures are reported in
// Success/Error rather than panicking the caller; Items may be shorter than
// the requested count when the backend under-produces.
type Result struct {
	RequestID string  `json:"request_id"`
	Book      string  `json:"book"`
	Chapter   string  `json:"chapter"`
	Mode      Mode    `json:"mode"`
	Items     []Item  `json:"questions"`
	Success   bool    `json:"success"`
	Error     string  `json:"error,omitempty"`
	Elapsed   float64 `json:"time_taken"`

	// OutputPath is set when the result was persisted by a Writer.
	OutputPath string `json:"output_path,omitempty"`
}

// Generator turns chapter text into question sets.
type Generator struct {
	store     library.ChapterStore
	completer llm.Completer
	cache     cache.Store
	planner   *chunker.Planner
	logger    *slog.Logger

	maxWorkers           int
	singleBatchThreshold int
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithCache sets the result cache. Defaults to no caching.
func WithCache(store cache.Store) GeneratorOption {
	return func(g *Generator) {
		g.cache = store
	}
}

// WithPlanner overrides the default chunk planner.
func WithPlanner(p *chunker.Planner) GeneratorOption {
	return func(g *Generator) {
		g.planner = p
	}
}

// WithMaxWorkers bounds batch concurrency.
func WithMaxWorkers(n int) GeneratorOption {
	return func(g *Generator) {
		g.maxWorkers = n
	}
}

// WithSingleBatchThreshold sets the token estimate below which a chapter is
// sent as one request instead of being chunked.
func WithSingleBatchThreshold(tokens int) GeneratorOption {
	return func(g *Generator) {
		g.singleBatchThreshold = tokens
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) GeneratorOption {
	return func(g *Generator) {
		g.logger = logger
	}
}

// NewGenerator creates a Generator backed by the given chapter store and
// completion client.
func NewGenerator(store library.ChapterStore, completer llm.Completer, opts ...GeneratorOption) *Generator {
	g := &Generator{
		store:                store,
		completer:            completer,
		cache:                cache.Nop{},
		planner:              chunker.NewDefault(),
		logger:               slog.Default(),
		maxWorkers:           dispatch.DefaultWorkers,
		singleBatchThreshold: 2000,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate produces a question set for one chapter.
//
// Validation and chapter-fetch failures, and backend failures on the
// single-batch path, come back as Success=false with a readable Error.
// On the multi-batch path an individual failed batch only shrinks the
// output; the call still succeeds with whatever the other batches produced.
func (g *Generator) Generate(ctx context.Context, req GenerateRequest) *Result {
	start := time.Now()
	result := &Result{
		RequestID: uuid.New().String(),
		Book:      req.Book,
		Chapter:   req.Chapter,
		Mode:      req.Mode,
	}
	fail := func(err error) *Result {
		result.Error = err.Error()
		result.Elapsed = time.Since(start).Seconds()
		return result
	}

	if !req.Mode.IsValid() {
		return fail(fmt.Errorf("invalid question type %q: choose %q or %q", req.Mode, ModeMCQ, ModeWritten))
	}
	if req.Count <= 0 {
		return fail(fmt.Errorf("number of questions must be positive, got %d", req.Count))
	}

	body, err := g.store.FetchChapter(ctx, req.Book, req.Chapter)
	if err != nil {
		return fail(fmt.Errorf("fetch chapter: %w", err))
	}
	if body.IsEmpty() {
		return fail(fmt.Errorf("no content found for book %q chapter %q", req.Book, req.Chapter))
	}

	g.logger.Info("generating questions",
		"request_id", result.RequestID,
		"book", req.Book,
		"chapter", req.Chapter,
		"type", req.Mode,
		"count", req.Count,
		"words", body.Words(),
		"token_estimate", body.TokenEstimate())

	var items []Item
	if body.TokenEstimate() <= g.singleBatchThreshold {
		items, err = g.generateBatch(ctx, body.Text(), req.Count, req.Mode, req.Focus)
		if err != nil {
			return fail(fmt.Errorf("generate questions: %w", err))
		}
		items = Merge([][]Item{items}, req.Count)
	} else {
		items, err = g.generateChunked(ctx, body, req)
		if err != nil {
			return fail(err)
		}
	}

	result.Items = items
	result.Success = true
	result.Elapsed = time.Since(start).Seconds()

	g.logger.Info("generation complete",
		"request_id", result.RequestID,
		"questions", len(items),
		"elapsed_seconds", result.Elapsed)

	return result
}

// generateChunked plans batches, runs them through the worker pool with a
// cache check per batch, and merges the per-batch lists down to the
// requested count.
func (g *Generator) generateChunked(ctx context.Context, body *library.TextBody, req GenerateRequest) ([]Item, error) {
	plan, err := g.planner.Plan(body, req.Count)
	if err != nil {
		return nil, fmt.Errorf("plan chunks: %w", err)
	}

	g.logger.Info("dispatching chunked generation",
		"chunks", len(plan.Chunks),
		"items_per_chunk", plan.ItemsPerChunk)

	results := dispatch.Map(ctx, g.maxWorkers, plan.Chunks,
		func(ctx context.Context, _ int, chunk chunker.Chunk) ([]Item, error) {
			return g.generateCached(ctx, chunk.Text, plan.ItemsPerChunk, req.Mode, req.Focus)
		})

	perChunk := make([][]Item, len(results))
	for _, r := range results {
		if r.Err != nil {
			// A failed chunk contributes nothing; siblings are unaffected.
			g.logger.Warn("chunk generation failed", "chunk", r.Index, "error", r.Err)
			continue
		}
		perChunk[r.Index] = r.Value
	}

	return Merge(perChunk, req.Count), nil
}

// generateCached serves one batch from the cache when possible.
func (g *Generator) generateCached(ctx context.Context, text string, count int, mode Mode, focus Focus) ([]Item, error) {
	key := batchFingerprint(text, mode, count, focus)

	if data, ok, err := g.cache.Get(ctx, key); err != nil {
		g.logger.Warn("cache read failed", "error", err)
	} else if ok {
		var items []Item
		if err := json.Unmarshal(data, &items); err == nil {
			g.logger.Debug("cache hit", "key", key)
			return items, nil
		}
		g.logger.Warn("discarding corrupt cache entry", "key", key)
	}

	items, err := g.generateBatch(ctx, text, count, mode, focus)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(items); err == nil {
		if err := g.cache.Set(ctx, key, data); err != nil {
			g.logger.Warn("cache write failed", "error", err)
		}
	}
	return items, nil
}

// generateBatch makes one completion call and parses its output.
func (g *Generator) generateBatch(ctx context.Context, text string, count int, mode Mode, focus Focus) ([]Item, error) {
	resp, err := g.completer.Complete(ctx, llm.Request{
		Capability: "generation",
		Messages: []llm.Message{
			{Role: "user", Content: BuildPrompt(mode, count, text, focus)},
		},
		Temperature: &generationTemperature,
	})
	if err != nil {
		return nil, err
	}
	return Parse(resp.Content, mode), nil
}

// batchFingerprint derives the cache key for one batch request.
func batchFingerprint(text string, mode Mode, count int, focus Focus) string {
	parts := []string{text, string(mode), strconv.Itoa(count)}
	parts = append(parts, focus.fingerprintParts()...)
	return cache.Fingerprint(parts...)
}
