package question

import (
	"fmt"
	"strings"
)

const mcqTemplate = `Generate %d multiple-choice questions based on the context.
Each question should have 4 options with one correct answer.
Format each question as follows:
Q: [question text]
A) [option 1]
B) [option 2]
C) [option 3]
D) [option 4]
Answer: [correct option letter]
Explanation: [brief explanation]
%s
Context:
%s`

const writtenTemplate = `Generate %d written answer questions based on the context.
Format each question as follows:
Q: [question text]
Solution: [model answer]
%s
Context:
%s`

// BuildPrompt renders the generation prompt for one batch of context.
func BuildPrompt(mode Mode, count int, context string, focus Focus) string {
	tmpl := writtenTemplate
	if mode == ModeMCQ {
		tmpl = mcqTemplate
	}
	return fmt.Sprintf(tmpl, count, focusHints(focus), context)
}

// focusHints renders the personalization block, or nothing when no hints
// are set.
func focusHints(f Focus) string {
	if f.IsZero() {
		return ""
	}

	var b strings.Builder
	if len(f.TargetWeaknesses) > 0 {
		b.WriteString("\nFocus the questions on these areas the student struggles with:\n")
		for _, w := range f.TargetWeaknesses {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}
	if len(f.AvoidStrengths) > 0 {
		b.WriteString("\nAvoid topics the student has already mastered:\n")
		for _, s := range f.AvoidStrengths {
			fmt.Fprintf(&b, "- %s\n", s)
		}
	}
	return b.String()
}
