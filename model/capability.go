// Package model provides capability-based model selection for generation tasks.
// Instead of hardcoding model names, callers specify capabilities (generation,
// review) and the registry resolves them to available models with fallback chains.
package model

// Capability represents a semantic capability for model selection.
// Instead of specifying "qwen2.5:14b", callers specify "generation" or "review".
type Capability string

const (
	// CapabilityGeneration is for question generation from chapter text.
	CapabilityGeneration Capability = "generation"

	// CapabilityReview is for paper and exam answer evaluation.
	CapabilityReview Capability = "review"

	// CapabilityFast is for quick responses, simple tasks.
	CapabilityFast Capability = "fast"
)

// IsValid checks if a capability string is a known capability.
func (c Capability) IsValid() bool {
	switch c {
	case CapabilityGeneration, CapabilityReview, CapabilityFast:
		return true
	}
	return false
}

// String returns the string representation of the capability.
func (c Capability) String() string {
	return string(c)
}

// ParseCapability converts a string to a Capability, returning empty for invalid values.
func ParseCapability(s string) Capability {
	cap := Capability(s)
	if cap.IsValid() {
		return cap
	}
	return ""
}
