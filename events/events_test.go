package events

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/learnbuddy/learnbuddy/question"
)

func TestPublisher_NilSafe(t *testing.T) {
	var p *Publisher

	assert.NoError(t, p.PublishGeneration(t.Context(), &question.Result{Success: true}))
	assert.NoError(t, p.PublishReview(t.Context(), map[string]any{"overall_score": 67.5}))
}

func TestPublisher_NoConnection(t *testing.T) {
	p := NewPublisher(nil, "", nil)

	assert.Equal(t, DefaultSubjectPrefix, p.prefix)
	assert.NoError(t, p.PublishGeneration(t.Context(), &question.Result{}))
}

func TestPublisher_CustomPrefix(t *testing.T) {
	p := NewPublisher(nil, "classroom.alpha", nil)

	assert.Equal(t, "classroom.alpha", p.prefix)
}
