package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCapability_IsValid(t *testing.T) {
	valid := []Capability{CapabilityGeneration, CapabilityReview, CapabilityFast}
	for _, c := range valid {
		assert.True(t, c.IsValid(), "capability %s should be valid", c)
	}

	assert.False(t, Capability("planning").IsValid())
	assert.False(t, Capability("").IsValid())
}

func TestParseCapability(t *testing.T) {
	assert.Equal(t, CapabilityGeneration, ParseCapability("generation"))
	assert.Equal(t, CapabilityReview, ParseCapability("review"))
	assert.Equal(t, Capability(""), ParseCapability("nonsense"))
}

func TestCapability_String(t *testing.T) {
	assert.Equal(t, "generation", CapabilityGeneration.String())
	assert.Equal(t, "fast", CapabilityFast.String())
}
