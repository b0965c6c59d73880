package review_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnbuddy/learnbuddy/llm"
	"github.com/learnbuddy/learnbuddy/llm/testutil"
	"github.com/learnbuddy/learnbuddy/review"
)

// paperText scores 90.4 on the readability dimension, which keeps the
// aggregate arithmetic below hand-checkable.
const paperText = "The cat sat on the mat."

// dimensionMock answers each review prompt with a fixed response.
func dimensionMock(t *testing.T) *testutil.MockClient {
	t.Helper()
	return &testutil.MockClient{
		CompleteFunc: func(_ context.Context, req llm.Request) (*llm.Response, error) {
			prompt := req.Messages[0].Content
			switch {
			case strings.Contains(prompt, "content quality"):
				return &llm.Response{Content: "Score: 80\nStrengths:\n- solid thesis\nWeaknesses:\n- thin evidence\nSuggestions:\n- cite sources"}, nil
			case strings.Contains(prompt, "structure and organization"):
				return &llm.Response{Content: "Score: 60\nFeedback:\n- uneven sections"}, nil
			case strings.Contains(prompt, "grammatical errors"):
				return &llm.Response{Content: "No corrections needed."}, nil
			}
			return nil, errors.New("unexpected prompt")
		},
	}
}

// mapCache is a minimal concurrent-safe in-memory cache store.
type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMapCache() *mapCache { return &mapCache{data: map[string][]byte{}} }

func (c *mapCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func TestReviewPaper_WeightedAggregate(t *testing.T) {
	r := review.NewReviewer(dimensionMock(t))

	result, err := r.ReviewPaper(t.Context(), paperText, "essay")
	require.NoError(t, err)

	assert.Equal(t, 80.0, result.Content.Score)
	assert.Equal(t, []string{"solid thesis"}, result.Content.Strengths)
	assert.Equal(t, 60.0, result.Structure.Score)
	assert.Equal(t, 100.0, result.Grammar.Score)
	assert.InDelta(t, 90.4, result.Readability.Score, 0.01)

	// 80*0.4 + 60*0.25 + 100*0.2 + 90.4*0.15 = 80.56 -> 80.6
	assert.InDelta(t, 80.6, result.OverallScore, 0.01)
	assert.NotEmpty(t, result.RequestID)
	assert.Empty(t, result.DimensionErrors)
}

func TestReviewPaper_WeightSumNotOne(t *testing.T) {
	r := review.NewReviewer(dimensionMock(t),
		review.WithWeights(map[string]float64{"content": 2, "grammar": 2}))

	result, err := r.ReviewPaper(t.Context(), paperText, "essay")
	require.NoError(t, err)

	// (80*2 + 100*2) / 4: the divisor is the actual weight sum.
	assert.InDelta(t, 90.0, result.OverallScore, 0.01)
}

func TestReviewPaper_DimensionFailureIsolated(t *testing.T) {
	mock := dimensionMock(t)
	inner := mock.CompleteFunc
	mock.CompleteFunc = func(ctx context.Context, req llm.Request) (*llm.Response, error) {
		if strings.Contains(req.Messages[0].Content, "content quality") {
			return nil, errors.New("backend unavailable")
		}
		return inner(ctx, req)
	}

	r := review.NewReviewer(mock)

	result, err := r.ReviewPaper(t.Context(), paperText, "essay")
	require.NoError(t, err, "one failed dimension must not fail the review")

	assert.Zero(t, result.Content.Score)
	assert.Contains(t, result.DimensionErrors["content"], "backend unavailable")

	// 0*0.4 + 60*0.25 + 100*0.2 + 90.4*0.15 = 48.56 -> 48.6
	assert.InDelta(t, 48.6, result.OverallScore, 0.01)
}

func TestReviewPaper_EmptyInput(t *testing.T) {
	r := review.NewReviewer(dimensionMock(t))

	_, err := r.ReviewPaper(t.Context(), "   ", "essay")
	assert.ErrorContains(t, err, "empty paper content")
}

func TestReviewPaper_Cached(t *testing.T) {
	mock := dimensionMock(t)
	r := review.NewReviewer(mock, review.WithCache(newMapCache()))

	first, err := r.ReviewPaper(t.Context(), paperText, "essay")
	require.NoError(t, err)
	callsAfterFirst := mock.CallCount()

	second, err := r.ReviewPaper(t.Context(), paperText, "essay")
	require.NoError(t, err)
	assert.Equal(t, callsAfterFirst, mock.CallCount(), "second review is served from cache")
	assert.Equal(t, first.OverallScore, second.OverallScore)
	assert.Equal(t, first.RequestID, second.RequestID)

	// A different paper type is a different cache key.
	_, err = r.ReviewPaper(t.Context(), paperText, "thesis")
	require.NoError(t, err)
	assert.Greater(t, mock.CallCount(), callsAfterFirst)
}

func examMock(scores map[string]string) *testutil.MockClient {
	return &testutil.MockClient{
		CompleteFunc: func(_ context.Context, req llm.Request) (*llm.Response, error) {
			prompt := req.Messages[0].Content
			for marker, response := range scores {
				if strings.Contains(prompt, marker) {
					return &llm.Response{Content: response}, nil
				}
			}
			return nil, errors.New("unexpected prompt")
		},
	}
}

func TestReviewRecords_TimeTakenIsSeconds(t *testing.T) {
	paper, err := review.NewReviewer(dimensionMock(t)).ReviewPaper(t.Context(), paperText, "essay")
	require.NoError(t, err)

	exam, err := review.NewReviewer(examMock(map[string]string{
		"mitosis": "Score: 60",
	})).ReviewExam(t.Context(), []review.ExamQuestion{
		{Question: "Define mitosis.", ModelAnswer: "…", StudentAnswer: "…", MaxMarks: 5},
	})
	require.NoError(t, err)

	for name, record := range map[string]any{"paper": paper, "exam": exam} {
		data, err := json.Marshal(record)
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(data, &decoded))
		elapsed, ok := decoded["time_taken"].(float64)
		require.True(t, ok, "%s time_taken must serialize as a number", name)
		assert.Less(t, elapsed, 60.0, "%s time_taken is wall-clock seconds, not nanoseconds", name)
	}
}

func TestReviewExam_MarksWeightedOverall(t *testing.T) {
	mock := examMock(map[string]string{
		"mitosis": "Score: 60\nWeaknesses:\n- missing detail",
		"osmosis": "Score: 80\nStrengths:\n- correct definition",
	})
	r := review.NewReviewer(mock)

	result, err := r.ReviewExam(t.Context(), []review.ExamQuestion{
		{Question: "Define mitosis.", ModelAnswer: "…", StudentAnswer: "…", MaxMarks: 5},
		{Question: "Define osmosis.", ModelAnswer: "…", StudentAnswer: "…", MaxMarks: 3},
	})
	require.NoError(t, err)

	require.Len(t, result.Questions, 2)
	assert.InDelta(t, 3.0, result.Questions[0].MarksAwarded, 0.001) // 60% of 5
	assert.InDelta(t, 2.4, result.Questions[1].MarksAwarded, 0.001) // 80% of 3

	// (3.0+2.4)/8*100 = 67.5 — marks-weighted, not a mean of percentages
	// (which would give 70 here).
	assert.InDelta(t, 67.5, result.OverallScore, 0.001)
	assert.InDelta(t, 5.4, result.MarksAwarded, 0.001)
	assert.InDelta(t, 8.0, result.MarksTotal, 0.001)
}

func TestReviewExam_FeedbackInQuestionOrder(t *testing.T) {
	mock := examMock(map[string]string{
		"mitosis": "Score: 50\nSuggestions:\n- first question tip",
		"osmosis": "Score: 50\nSuggestions:\n- second question tip",
	})
	r := review.NewReviewer(mock)

	result, err := r.ReviewExam(t.Context(), []review.ExamQuestion{
		{Question: "Define mitosis.", MaxMarks: 2},
		{Question: "Define osmosis.", MaxMarks: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"first question tip", "second question tip"}, result.Feedback.Suggestions)
}

func TestReviewExam_QuestionFailureIsolated(t *testing.T) {
	mock := examMock(map[string]string{
		"osmosis": "Score: 100",
	})
	r := review.NewReviewer(mock)

	result, err := r.ReviewExam(t.Context(), []review.ExamQuestion{
		{Question: "Define mitosis.", MaxMarks: 5}, // no mock answer: fails
		{Question: "Define osmosis.", MaxMarks: 5},
	})
	require.NoError(t, err)

	assert.Zero(t, result.Questions[0].MarksAwarded)
	assert.NotEmpty(t, result.Questions[0].Error)
	assert.InDelta(t, 5.0, result.Questions[1].MarksAwarded, 0.001)
	assert.InDelta(t, 50.0, result.OverallScore, 0.001)
}

func TestReviewExam_Validation(t *testing.T) {
	r := review.NewReviewer(&testutil.MockClient{})

	_, err := r.ReviewExam(t.Context(), nil)
	assert.ErrorContains(t, err, "no exam questions")

	_, err = r.ReviewExam(t.Context(), []review.ExamQuestion{{Question: "q", MaxMarks: 0}})
	assert.ErrorContains(t, err, "max marks must be positive")
}
