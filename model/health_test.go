package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_MarkEndpointFailure_OpensCircuit(t *testing.T) {
	r := NewDefaultRegistry()
	r.SetHealthConfig(HealthConfig{FailureThreshold: 3, RecoveryTimeout: time.Minute})

	assert.True(t, r.IsEndpointAvailable("qwen"))

	r.MarkEndpointFailure("qwen")
	r.MarkEndpointFailure("qwen")
	assert.True(t, r.IsEndpointAvailable("qwen"), "below threshold, still available")

	r.MarkEndpointFailure("qwen")
	assert.False(t, r.IsEndpointAvailable("qwen"), "circuit should be open after threshold")

	health := r.GetEndpointHealth("qwen")
	require.NotNil(t, health)
	assert.True(t, health.CircuitOpen)
	assert.Equal(t, 3, health.FailureCount)
}

func TestRegistry_MarkEndpointSuccess_ResetsFailures(t *testing.T) {
	r := NewDefaultRegistry()
	r.SetHealthConfig(HealthConfig{FailureThreshold: 2, RecoveryTimeout: time.Minute})

	r.MarkEndpointFailure("qwen")
	r.MarkEndpointFailure("qwen")
	assert.False(t, r.IsEndpointAvailable("qwen"))

	r.MarkEndpointSuccess("qwen")
	assert.True(t, r.IsEndpointAvailable("qwen"))

	health := r.GetEndpointHealth("qwen")
	require.NotNil(t, health)
	assert.Equal(t, 0, health.FailureCount)
	assert.False(t, health.CircuitOpen)
}

func TestRegistry_HalfOpenAfterRecoveryTimeout(t *testing.T) {
	r := NewDefaultRegistry()
	r.SetHealthConfig(HealthConfig{FailureThreshold: 1, RecoveryTimeout: time.Millisecond})

	r.MarkEndpointFailure("qwen")
	assert.Eventually(t, func() bool {
		return r.IsEndpointAvailable("qwen")
	}, time.Second, 5*time.Millisecond, "endpoint should become available after recovery timeout")
}

func TestRegistry_GetAvailableFallbackChain(t *testing.T) {
	r := NewRegistry(
		map[Capability]*CapabilityConfig{
			CapabilityGeneration: {Preferred: []string{"a", "b"}},
		},
		map[string]*EndpointConfig{
			"a": {Provider: "ollama", Model: "a"},
			"b": {Provider: "ollama", Model: "b"},
		},
	)
	r.SetHealthConfig(HealthConfig{FailureThreshold: 1, RecoveryTimeout: time.Hour})

	r.MarkEndpointFailure("a")
	assert.Equal(t, []string{"b"}, r.GetAvailableFallbackChain(CapabilityGeneration))

	// All endpoints down: full chain returned rather than nothing
	r.MarkEndpointFailure("b")
	assert.Equal(t, []string{"a", "b"}, r.GetAvailableFallbackChain(CapabilityGeneration))
}

func TestRegistry_ResetEndpointHealth(t *testing.T) {
	r := NewDefaultRegistry()
	r.SetHealthConfig(HealthConfig{FailureThreshold: 1, RecoveryTimeout: time.Hour})

	r.MarkEndpointFailure("qwen")
	require.NotNil(t, r.GetEndpointHealth("qwen"))

	r.ResetEndpointHealth("qwen")
	assert.Nil(t, r.GetEndpointHealth("qwen"))
	assert.True(t, r.IsEndpointAvailable("qwen"))
}
