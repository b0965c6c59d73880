package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultRegistry(t *testing.T) {
	r := NewDefaultRegistry()

	// Every capability resolves to a configured endpoint
	for _, cap := range []Capability{CapabilityGeneration, CapabilityReview, CapabilityFast} {
		name := r.Resolve(cap)
		require.NotEmpty(t, name)
		assert.NotNil(t, r.GetEndpoint(name), "resolved model %s should have an endpoint", name)
	}
}

func TestRegistry_Resolve_UnknownCapability(t *testing.T) {
	r := NewDefaultRegistry()
	assert.Equal(t, "qwen", r.Resolve(Capability("unknown")))
}

func TestRegistry_GetFallbackChain(t *testing.T) {
	r := NewRegistry(
		map[Capability]*CapabilityConfig{
			CapabilityGeneration: {
				Preferred: []string{"primary"},
				Fallback:  []string{"backup-a", "backup-b"},
			},
		},
		map[string]*EndpointConfig{},
	)

	chain := r.GetFallbackChain(CapabilityGeneration)
	assert.Equal(t, []string{"primary", "backup-a", "backup-b"}, chain)

	// Unknown capability falls back to the default model
	chain = r.GetFallbackChain(CapabilityReview)
	assert.Equal(t, []string{"default"}, chain)
}

func TestNewSingleEndpointRegistry(t *testing.T) {
	ep := &EndpointConfig{Provider: "ollama", URL: "http://localhost:11434/v1", Model: "qwen2.5:14b"}
	r := NewSingleEndpointRegistry("local", ep)

	for _, cap := range []Capability{CapabilityGeneration, CapabilityReview, CapabilityFast} {
		assert.Equal(t, "local", r.Resolve(cap))
		assert.Equal(t, []string{"local"}, r.GetFallbackChain(cap))
	}
	assert.Same(t, ep, r.GetEndpoint("local"))
}

func TestRegistry_SetEndpoint(t *testing.T) {
	r := NewRegistry(nil, nil)
	r.SetEndpoint("custom", &EndpointConfig{Provider: "openai", Model: "gpt-4o-mini"})

	ep := r.GetEndpoint("custom")
	require.NotNil(t, ep)
	assert.Equal(t, "gpt-4o-mini", ep.Model)
	assert.Contains(t, r.ListEndpoints(), "custom")
}

func TestRegistry_JSONRoundTrip(t *testing.T) {
	r := NewDefaultRegistry()

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var decoded Registry
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.ElementsMatch(t, r.ListEndpoints(), decoded.ListEndpoints())
	assert.Equal(t, r.Resolve(CapabilityGeneration), decoded.Resolve(CapabilityGeneration))
}
