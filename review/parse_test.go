package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseContent(t *testing.T) {
	text := `Score: 85
Strengths:
- Clear thesis statement
- Good use of evidence
Weaknesses:
- Weak conclusion
Suggestions:
Expand the final section`

	a := parseContent(text)
	assert.Equal(t, 85.0, a.Score)
	assert.Equal(t, []string{"Clear thesis statement", "Good use of evidence"}, a.Strengths)
	assert.Equal(t, []string{"Weak conclusion"}, a.Weaknesses)
	assert.Equal(t, []string{"Expand the final section"}, a.Suggestions)
}

func TestParseContent_MissingSectionsDefault(t *testing.T) {
	a := parseContent("completely free-form response with no sections")
	assert.Equal(t, float64(defaultDimensionScore), a.Score)
	assert.Empty(t, a.Strengths)
	assert.Empty(t, a.Weaknesses)
	assert.Empty(t, a.Suggestions)
}

func TestParseContent_ScoreClamped(t *testing.T) {
	assert.Equal(t, 100.0, parseContent("Score: 150").Score)
	assert.Equal(t, float64(defaultDimensionScore), parseContent("Score: none given").Score)
}

func TestParseStructure(t *testing.T) {
	text := `Score: 72
Feedback:
Sections are uneven
Organization:
- Introduction, body, conclusion present
Flow:
Transitions need work`

	a := parseStructure(text)
	assert.Equal(t, 72.0, a.Score)
	assert.Equal(t, []string{"Sections are uneven"}, a.Feedback)
	assert.Equal(t, []string{"Introduction, body, conclusion present"}, a.Organization)
	assert.Equal(t, []string{"Transitions need work"}, a.Flow)
}

func TestParseGrammar(t *testing.T) {
	text := `their going → they're going
its a problem → it's a problem
This line has no arrow.`

	a := parseGrammar(text, 400)
	assert.Equal(t, 2, a.ErrorCount)
	assert.Equal(t, []string{"their going", "its a problem"}, a.Errors)
	assert.Equal(t, []string{"they're going", "it's a problem"}, a.Corrections)
	// 2 errors over 400 words: half an error per hundred words costs 25 points.
	assert.InDelta(t, 75.0, a.Score, 0.01)
}

func TestParseGrammar_DensityCapped(t *testing.T) {
	text := "a → b\nc → d"

	// 2 errors in 100 words maxes the ratio: floor of 50.
	a := parseGrammar(text, 100)
	assert.InDelta(t, 50.0, a.Score, 0.01)

	clean := parseGrammar("No corrections needed.", 100)
	assert.Zero(t, clean.ErrorCount)
	assert.InDelta(t, 100.0, clean.Score, 0.01)
}

func TestParseExamResult(t *testing.T) {
	text := `Score: 60
Strengths:
- Correct definition
Weaknesses:
- Missing the number of divisions
Suggestions:
- Name both daughter cells`

	score, strengths, weaknesses, suggestions := parseExamResult(text)
	assert.Equal(t, 60.0, score)
	assert.Equal(t, []string{"Correct definition"}, strengths)
	assert.Equal(t, []string{"Missing the number of divisions"}, weaknesses)
	assert.Equal(t, []string{"Name both daughter cells"}, suggestions)
}

func TestParseExamResult_UnparseableAwardsNothing(t *testing.T) {
	score, strengths, _, _ := parseExamResult("the model rambled with no sections")
	assert.Zero(t, score, "an ungradeable response must not award marks")
	assert.Empty(t, strengths)
}

func TestSections_KeepsFirstOccurrence(t *testing.T) {
	secs := sections("Score: 10\nScore: 90")
	assert.Equal(t, "10", secs["score"])
}

func TestSections_InlineAndBlockBodies(t *testing.T) {
	secs := sections("Strengths: concise writing\nmore detail\nWeaknesses:\n- none")
	assert.Equal(t, []string{"concise writing", "more detail"}, feedbackList(secs["strengths"]))
	assert.Equal(t, []string{"none"}, feedbackList(secs["weaknesses"]))
}
