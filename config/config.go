// Package config provides configuration loading and management for learnbuddy.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete learnbuddy configuration
type Config struct {
	Model     ModelConfig     `yaml:"model"`
	Generator GeneratorConfig `yaml:"generator"`
	Review    ReviewConfig    `yaml:"review"`
	Cache     CacheConfig     `yaml:"cache"`
	Library   LibraryConfig   `yaml:"library"`
	Events    EventsConfig    `yaml:"events"`
	Output    OutputConfig    `yaml:"output"`
}

// ModelConfig configures the LLM model settings
type ModelConfig struct {
	// Default is the default model to use (e.g., "qwen2.5:14b")
	Default string `yaml:"default"`
	// Endpoint is the OpenAI-compatible API endpoint
	Endpoint string `yaml:"endpoint"`
	// Provider selects the wire format ("openai" or "ollama")
	Provider string `yaml:"provider"`
	// Temperature controls randomness (0.0-1.0)
	Temperature float64 `yaml:"temperature"`
	// MaxTokens limits completion length (0 = endpoint default)
	MaxTokens int `yaml:"max_tokens"`
	// Timeout is the maximum time to wait for model responses
	Timeout time.Duration `yaml:"timeout"`
}

// GeneratorConfig configures question generation and the chunking engine
type GeneratorConfig struct {
	// MaxChunkTokens is the token budget for a single chunk
	MaxChunkTokens int `yaml:"max_chunk_tokens"`
	// MaxChunks bounds the denominator of the per-chunk item quota
	MaxChunks int `yaml:"max_chunks"`
	// MaxWorkers is the worker pool size for parallel chunk dispatch
	MaxWorkers int `yaml:"max_workers"`
	// SingleBatchThreshold is the token estimate below which the full
	// text goes to the backend in one call
	SingleBatchThreshold int `yaml:"single_batch_threshold"`
	// DefaultQuestions is the question count used when none is requested
	DefaultQuestions int `yaml:"default_questions"`
	// TokensPerWord is the word-count multiplier used to estimate tokens
	TokensPerWord float64 `yaml:"tokens_per_word"`
}

// ReviewConfig configures paper and exam review
type ReviewConfig struct {
	// Weights maps review dimensions to their contribution to the
	// overall score. The aggregate divides by the sum of these values,
	// so they do not have to sum to 1.
	Weights map[string]float64 `yaml:"weights"`
	// MaxReviewChars truncates paper text sent to the backend
	MaxReviewChars int `yaml:"max_review_chars"`
	// MaxWorkers is the worker pool size for review dimensions
	MaxWorkers int `yaml:"max_workers"`
}

// CacheConfig configures the generation result cache
type CacheConfig struct {
	// Backend selects the cache implementation: "disk", "nats" or "none"
	Backend string `yaml:"backend"`
	// Dir is the root directory for the disk backend
	Dir string `yaml:"dir"`
	// Bucket is the KV bucket name for the nats backend
	Bucket string `yaml:"bucket"`
	// MemoryEntries sizes the in-process LRU layer (0 disables it)
	MemoryEntries int `yaml:"memory_entries"`
}

// LibraryConfig configures chapter text retrieval
type LibraryConfig struct {
	// DataDir is the root folder of book texts
	DataDir string `yaml:"data_dir"`
}

// EventsConfig configures optional NATS result publishing
type EventsConfig struct {
	// URL is the NATS server URL (empty = publishing disabled)
	URL string `yaml:"url"`
	// SubjectPrefix is prepended to event subjects
	SubjectPrefix string `yaml:"subject_prefix"`
}

// OutputConfig configures where generated artifacts are written
type OutputConfig struct {
	// Dir is the folder for generated question and review JSON files
	Dir string `yaml:"dir"`
}

// Cache backend names accepted by CacheConfig.Backend.
const (
	CacheBackendDisk = "disk"
	CacheBackendNATS = "nats"
	CacheBackendNone = "none"
)

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Model: ModelConfig{
			Default:     "qwen2.5:14b",
			Endpoint:    "http://localhost:11434/v1",
			Provider:    "ollama",
			Temperature: 0.7,
			MaxTokens:   2000,
			Timeout:     3 * time.Minute,
		},
		Generator: GeneratorConfig{
			MaxChunkTokens:       3000,
			MaxChunks:            10,
			MaxWorkers:           4,
			SingleBatchThreshold: 2000,
			DefaultQuestions:     5,
			TokensPerWord:        1.3,
		},
		Review: ReviewConfig{
			Weights: map[string]float64{
				"content":     0.4,
				"structure":   0.25,
				"grammar":     0.2,
				"readability": 0.15,
			},
			MaxReviewChars: 12000,
			MaxWorkers:     4,
		},
		Cache: CacheConfig{
			Backend:       CacheBackendDisk,
			Dir:           ".learnbuddy/cache",
			Bucket:        "LEARNBUDDY_CACHE",
			MemoryEntries: 256,
		},
		Library: LibraryConfig{
			DataDir: "./data",
		},
		Events: EventsConfig{
			URL:           "",
			SubjectPrefix: "learnbuddy",
		},
		Output: OutputConfig{
			Dir: "./output",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Model.Default == "" {
		return fmt.Errorf("model.default is required")
	}
	if c.Model.Endpoint == "" {
		return fmt.Errorf("model.endpoint is required")
	}
	if c.Model.Temperature < 0 || c.Model.Temperature > 1 {
		return fmt.Errorf("model.temperature must be between 0 and 1")
	}
	if c.Generator.MaxChunkTokens <= 0 {
		return fmt.Errorf("generator.max_chunk_tokens must be positive")
	}
	if c.Generator.MaxChunks <= 0 {
		return fmt.Errorf("generator.max_chunks must be positive")
	}
	if c.Generator.MaxWorkers <= 0 {
		return fmt.Errorf("generator.max_workers must be positive")
	}
	if c.Generator.SingleBatchThreshold < 0 {
		return fmt.Errorf("generator.single_batch_threshold must not be negative")
	}
	if c.Generator.TokensPerWord <= 0 {
		return fmt.Errorf("generator.tokens_per_word must be positive")
	}
	switch c.Cache.Backend {
	case CacheBackendDisk, CacheBackendNATS, CacheBackendNone:
	default:
		return fmt.Errorf("cache.backend must be one of disk, nats, none; got %q", c.Cache.Backend)
	}
	if len(c.Review.Weights) == 0 {
		return fmt.Errorf("review.weights must not be empty")
	}
	var weightSum float64
	for dim, w := range c.Review.Weights {
		if w < 0 {
			return fmt.Errorf("review.weights[%s] must not be negative", dim)
		}
		weightSum += w
	}
	if weightSum == 0 {
		return fmt.Errorf("review.weights must have a positive sum")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge overlays non-zero fields from other onto c
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Model.Default != "" {
		c.Model.Default = other.Model.Default
	}
	if other.Model.Endpoint != "" {
		c.Model.Endpoint = other.Model.Endpoint
	}
	if other.Model.Provider != "" {
		c.Model.Provider = other.Model.Provider
	}
	if other.Model.Temperature != 0 {
		c.Model.Temperature = other.Model.Temperature
	}
	if other.Model.MaxTokens != 0 {
		c.Model.MaxTokens = other.Model.MaxTokens
	}
	if other.Model.Timeout != 0 {
		c.Model.Timeout = other.Model.Timeout
	}

	if other.Generator.MaxChunkTokens != 0 {
		c.Generator.MaxChunkTokens = other.Generator.MaxChunkTokens
	}
	if other.Generator.MaxChunks != 0 {
		c.Generator.MaxChunks = other.Generator.MaxChunks
	}
	if other.Generator.MaxWorkers != 0 {
		c.Generator.MaxWorkers = other.Generator.MaxWorkers
	}
	if other.Generator.SingleBatchThreshold != 0 {
		c.Generator.SingleBatchThreshold = other.Generator.SingleBatchThreshold
	}
	if other.Generator.DefaultQuestions != 0 {
		c.Generator.DefaultQuestions = other.Generator.DefaultQuestions
	}
	if other.Generator.TokensPerWord != 0 {
		c.Generator.TokensPerWord = other.Generator.TokensPerWord
	}

	if len(other.Review.Weights) != 0 {
		c.Review.Weights = other.Review.Weights
	}
	if other.Review.MaxReviewChars != 0 {
		c.Review.MaxReviewChars = other.Review.MaxReviewChars
	}
	if other.Review.MaxWorkers != 0 {
		c.Review.MaxWorkers = other.Review.MaxWorkers
	}

	if other.Cache.Backend != "" {
		c.Cache.Backend = other.Cache.Backend
	}
	if other.Cache.Dir != "" {
		c.Cache.Dir = other.Cache.Dir
	}
	if other.Cache.Bucket != "" {
		c.Cache.Bucket = other.Cache.Bucket
	}
	if other.Cache.MemoryEntries != 0 {
		c.Cache.MemoryEntries = other.Cache.MemoryEntries
	}

	if other.Library.DataDir != "" {
		c.Library.DataDir = other.Library.DataDir
	}

	if other.Events.URL != "" {
		c.Events.URL = other.Events.URL
	}
	if other.Events.SubjectPrefix != "" {
		c.Events.SubjectPrefix = other.Events.SubjectPrefix
	}

	if other.Output.Dir != "" {
		c.Output.Dir = other.Output.Dir
	}
}
