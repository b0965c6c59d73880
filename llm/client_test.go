package llm

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorClassification(t *testing.T) {
	transient := NewTransientError(errors.New("rate limited"))
	fatal := NewFatalError(errors.New("bad key"))

	assert.True(t, IsTransient(transient))
	assert.False(t, IsFatal(transient))
	assert.True(t, IsFatal(fatal))
	assert.False(t, IsTransient(fatal))
	assert.False(t, IsTransient(errors.New("plain")))

	// Unwrap preserves the cause
	assert.Equal(t, "rate limited", transient.Error())
}

func TestClassifyHTTPError(t *testing.T) {
	tests := []struct {
		status    int
		transient bool
	}{
		{http.StatusTooManyRequests, true},
		{http.StatusServiceUnavailable, true},
		{http.StatusBadGateway, true},
		{http.StatusGatewayTimeout, true},
		{http.StatusInternalServerError, true},
		{http.StatusUnauthorized, false},
		{http.StatusForbidden, false},
		{http.StatusBadRequest, false},
		{http.StatusTeapot, false},
	}

	for _, tt := range tests {
		err := classifyHTTPError(tt.status, []byte("body"))
		require.Error(t, err)
		if tt.transient {
			assert.True(t, IsTransient(err), "status %d should be transient", tt.status)
		} else {
			assert.True(t, IsFatal(err), "status %d should be fatal", tt.status)
		}
	}
}

func TestClassifyHTTPError_TruncatesBody(t *testing.T) {
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'x'
	}

	err := classifyHTTPError(http.StatusInternalServerError, long)
	assert.Less(t, len(err.Error()), 300)
}

func TestCalculateBackoff(t *testing.T) {
	c := &Client{retryConfig: RetryConfig{
		BackoffBase:       time.Second,
		BackoffMultiplier: 2.0,
		MaxBackoff:        4 * time.Second,
	}}

	// Jitter is +/- 25%, so check bounds rather than exact values
	b1 := c.calculateBackoff(1)
	assert.InDelta(t, float64(time.Second), float64(b1), float64(time.Second)*0.26)

	b3 := c.calculateBackoff(3)
	assert.LessOrEqual(t, b3, 4*time.Second+time.Second)

	// Capped at MaxBackoff (plus jitter)
	b10 := c.calculateBackoff(10)
	assert.LessOrEqual(t, b10, 5*time.Second)
}

func TestComplete_Validation(t *testing.T) {
	c := NewClient(nil)

	_, err := c.Complete(t.Context(), Request{Messages: []Message{{Role: "user", Content: "hi"}}})
	assert.ErrorContains(t, err, "capability")

	_, err = c.Complete(t.Context(), Request{Capability: "generation"})
	assert.ErrorContains(t, err, "message")
}
