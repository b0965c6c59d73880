// Package question generates assessment questions from chapter text.
//
// Long chapters are split into token-bounded batches that run in parallel
// against the LLM; results are cached by content fingerprint, deduplicated,
// and trimmed to the requested count.
package question

import (
	"fmt"
	"sort"
	"strings"
)

// Mode selects the kind of question to generate.
type Mode string

const (
	// ModeMCQ produces multiple-choice questions with four options.
	ModeMCQ Mode = "mcq"

	// ModeWritten produces open-ended written-answer questions.
	ModeWritten Mode = "written"
)

// IsValid reports whether the mode is recognized.
func (m Mode) IsValid() bool {
	switch m {
	case ModeMCQ, ModeWritten:
		return true
	}
	return false
}

func (m Mode) String() string {
	return string(m)
}

// ParseMode converts a string to a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !m.IsValid() {
		return "", fmt.Errorf("invalid question type %q: choose %q or %q", s, ModeMCQ, ModeWritten)
	}
	return m, nil
}

// Item is one generated question. Type decides which fields are populated:
// mcq items carry Options, Answer and an optional Explanation; written items
// carry an optional Solution. The backend does not always fill every field,
// so all fields beyond the question text are best-effort.
type Item struct {
	Type     Mode     `json:"type"`
	Question string   `json:"question"`
	Options  []string `json:"options,omitempty"`
	Answer   string   `json:"answer,omitempty"`

	Explanation string `json:"explanation,omitempty"`
	Solution    string `json:"solution,omitempty"`
}

// NormalizedQuestion returns the item's dedupe identity: the question text
// lowercased and whitespace-trimmed.
func (it Item) NormalizedQuestion() string {
	return strings.ToLower(strings.TrimSpace(it.Question))
}

// Focus biases generation toward a student's remediation topics.
type Focus struct {
	// TargetWeaknesses are topics the questions should probe.
	TargetWeaknesses []string `json:"target_weaknesses,omitempty"`

	// AvoidStrengths are topics the questions should steer away from.
	AvoidStrengths []string `json:"avoid_strengths,omitempty"`
}

// IsZero reports whether no focus hints are set.
func (f Focus) IsZero() bool {
	return len(f.TargetWeaknesses) == 0 && len(f.AvoidStrengths) == 0
}

// fingerprintParts returns the focus content in a deterministic order for
// cache keying.
func (f Focus) fingerprintParts() []string {
	weaknesses := append([]string(nil), f.TargetWeaknesses...)
	strengths := append([]string(nil), f.AvoidStrengths...)
	sort.Strings(weaknesses)
	sort.Strings(strengths)

	parts := make([]string, 0, len(weaknesses)+len(strengths)+2)
	parts = append(parts, "weaknesses")
	parts = append(parts, weaknesses...)
	parts = append(parts, "strengths")
	parts = append(parts, strengths...)
	return parts
}
