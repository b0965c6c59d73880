package review

import (
	"regexp"
	"strconv"
	"strings"
)

// defaultDimensionScore is assumed when the response carries no usable
// Score section.
const defaultDimensionScore = 70

var (
	sectionHeader = regexp.MustCompile(`^([A-Za-z]+):`)
	firstNumber   = regexp.MustCompile(`\d+(\.\d+)?`)
)

// sections splits free-form response text into header→body pairs. Lines
// before the first recognized header are dropped; a repeated header keeps
// its first occurrence.
func sections(text string) map[string]string {
	out := make(map[string]string)
	var current string
	var body []string

	flush := func() {
		if current == "" {
			return
		}
		if _, seen := out[current]; !seen {
			out[current] = strings.Join(body, "\n")
		}
		body = nil
	}

	for _, line := range strings.Split(text, "\n") {
		if m := sectionHeader.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			flush()
			current = strings.ToLower(m[1])
			rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), m[0]))
			if rest != "" {
				body = append(body, rest)
			}
			continue
		}
		if current != "" {
			body = append(body, line)
		}
	}
	flush()

	return out
}

// feedbackList turns a section body into trimmed, bullet-stripped lines.
func feedbackList(body string) []string {
	var items []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "- ")
		line = strings.TrimPrefix(line, "* ")
		if line != "" {
			items = append(items, line)
		}
	}
	return items
}

// parseScore extracts the first number from a score section, clamped to
// [0,100]. Absent or unparseable scores fall back to the default.
func parseScore(body string) float64 {
	m := firstNumber.FindString(body)
	if m == "" {
		return defaultDimensionScore
	}
	score, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return defaultDimensionScore
	}
	return clamp(score, 0, 100)
}

// parseContent extracts the content dimension from response text. Missing
// sections default to empty lists, never an error.
func parseContent(text string) ContentAnalysis {
	secs := sections(text)
	a := ContentAnalysis{Score: defaultDimensionScore}
	if body, ok := secs["score"]; ok {
		a.Score = parseScore(body)
	}
	a.Strengths = feedbackList(secs["strengths"])
	a.Weaknesses = feedbackList(secs["weaknesses"])
	a.Suggestions = feedbackList(secs["suggestions"])
	return a
}

// parseStructure extracts the structure dimension from response text.
func parseStructure(text string) StructureAnalysis {
	secs := sections(text)
	a := StructureAnalysis{Score: defaultDimensionScore}
	if body, ok := secs["score"]; ok {
		a.Score = parseScore(body)
	}
	a.Feedback = feedbackList(secs["feedback"])
	a.Organization = feedbackList(secs["organization"])
	a.Flow = feedbackList(secs["flow"])
	return a
}

// parseGrammar extracts error→correction pairs and scores by error density:
// up to 50 points deducted as errors approach one per hundred words of the
// reviewed text.
func parseGrammar(text string, reviewedWords int) GrammarAnalysis {
	a := GrammarAnalysis{}
	for _, line := range strings.Split(text, "\n") {
		before, after, found := strings.Cut(line, "→")
		if !found {
			continue
		}
		a.Errors = append(a.Errors, strings.TrimSpace(before))
		a.Corrections = append(a.Corrections, strings.TrimSpace(after))
	}
	a.ErrorCount = len(a.Errors)

	if reviewedWords < 1 {
		reviewedWords = 1
	}
	errorRatio := min(1, float64(a.ErrorCount)/(float64(reviewedWords)/100))
	a.Score = round1(clamp(100-errorRatio*50, 0, 100))
	return a
}

// parseExamResult extracts a per-question grade. The score defaults to 0
// rather than 70: an unparseable grading response must not award marks.
func parseExamResult(text string) (score float64, strengths, weaknesses, suggestions []string) {
	secs := sections(text)
	if body, ok := secs["score"]; ok {
		if m := firstNumber.FindString(body); m != "" {
			if v, err := strconv.ParseFloat(m, 64); err == nil {
				score = clamp(v, 0, 100)
			}
		}
	}
	return score, feedbackList(secs["strengths"]), feedbackList(secs["weaknesses"]), feedbackList(secs["suggestions"])
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
