// Package events publishes completed results to NATS so downstream
// consumers (progress trackers, notification senders) can react to them.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/learnbuddy/learnbuddy/question"
)

// Subject suffixes for published events, appended to the configured prefix.
const (
	SubjectGenerationCompleted = "generation.completed"
	SubjectReviewCompleted     = "review.completed"
)

// DefaultSubjectPrefix is used when no prefix is configured.
const DefaultSubjectPrefix = "learnbuddy"

// Publisher emits result events. A nil Publisher is valid and publishes
// nothing, so callers don't need to branch on whether events are enabled.
type Publisher struct {
	nc     *nats.Conn
	prefix string
	logger *slog.Logger
}

// NewPublisher creates a Publisher over an established NATS connection.
// Events are published under "<prefix>.<suffix>" subjects.
func NewPublisher(nc *nats.Conn, prefix string, logger *slog.Logger) *Publisher {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{nc: nc, prefix: prefix, logger: logger}
}

// PublishGeneration emits a generation result.
func (p *Publisher) PublishGeneration(ctx context.Context, result *question.Result) error {
	return p.publish(ctx, SubjectGenerationCompleted, result)
}

// PublishReview emits a paper or exam review payload.
func (p *Publisher) PublishReview(ctx context.Context, payload any) error {
	return p.publish(ctx, SubjectReviewCompleted, payload)
}

func (p *Publisher) publish(ctx context.Context, suffix string, payload any) error {
	if p == nil || p.nc == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	subject := p.prefix + "." + suffix
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}

	p.logger.Debug("event published", "subject", subject, "bytes", len(data))
	return nil
}
