package question

import (
	"regexp"
	"strings"
)

var optionLine = regexp.MustCompile(`(?i)^[A-D]\)`)

// Parse extracts items from raw LLM output.
//
// Parsing is line-oriented and permissive: a "Q:" line opens a new item and
// flushes the previous one, option/answer/explanation/solution markers fill
// the current item, and anything unrecognized is skipped. Malformed items
// (missing options, empty answer) are kept with whatever fields they have.
// Parse never fails; garbled input yields an empty or partial list.
func Parse(text string, mode Mode) []Item {
	var items []Item
	var current *Item

	flush := func() {
		if current != nil {
			items = append(items, *current)
			current = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)

		switch {
		case strings.HasPrefix(lower, "q:"):
			flush()
			current = &Item{
				Type:     mode,
				Question: strings.TrimSpace(line[2:]),
			}
			if mode == ModeMCQ {
				current.Options = []string{}
			}

		case current == nil:
			// Preamble before the first question marker.

		case mode == ModeMCQ && optionLine.MatchString(line):
			current.Options = append(current.Options, strings.TrimSpace(line[2:]))

		case mode == ModeMCQ && strings.HasPrefix(lower, "answer:"):
			current.Answer = strings.ToUpper(markerValue(line))

		case mode == ModeMCQ && strings.HasPrefix(lower, "explanation:"):
			current.Explanation = markerValue(line)

		case mode == ModeWritten && strings.HasPrefix(lower, "solution:"):
			current.Solution = markerValue(line)
		}
	}
	flush()

	return items
}

// markerValue returns the text after the first colon, trimmed.
func markerValue(line string) string {
	_, value, _ := strings.Cut(line, ":")
	return strings.TrimSpace(value)
}
