package review

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/learnbuddy/learnbuddy/dispatch"
)

// ExamQuestion is one question to grade.
type ExamQuestion struct {
	Question      string  `json:"question" yaml:"question"`
	ModelAnswer   string  `json:"model_answer" yaml:"model_answer"`
	StudentAnswer string  `json:"student_answer" yaml:"student_answer"`
	MaxMarks      float64 `json:"max_marks" yaml:"max_marks"`
}

// ExamQuestionResult is the grade for one question.
type ExamQuestionResult struct {
	// Score is the [0,100] quality score for the answer.
	Score float64 `json:"score"`

	// MarksAwarded is Score applied to the question's mark allocation.
	MarksAwarded float64 `json:"marks_awarded"`
	MaxMarks     float64 `json:"max_marks"`

	Strengths   []string `json:"strengths"`
	Weaknesses  []string `json:"weaknesses"`
	Suggestions []string `json:"suggestions"`

	// Error records a failed grading call; the question scores zero.
	Error string `json:"error,omitempty"`
}

// FeedbackSummary aggregates per-question feedback in question order.
type FeedbackSummary struct {
	Strengths   []string `json:"strengths"`
	Weaknesses  []string `json:"weaknesses"`
	Suggestions []string `json:"suggestions"`
}

// ExamReview is the graded exam.
type ExamReview struct {
	RequestID string               `json:"request_id"`
	Questions []ExamQuestionResult `json:"questions"`

	// OverallScore is marks-weighted: total marks earned over total marks
	// possible, scaled to [0,100]. Averaging per-question percentages would
	// overweight low-mark questions and can exceed 100 when allocations
	// differ, so it is never used.
	OverallScore float64         `json:"overall_score"`
	MarksAwarded float64         `json:"marks_awarded"`
	MarksTotal   float64         `json:"marks_total"`
	Feedback     FeedbackSummary `json:"feedback_summary"`
	Elapsed      float64         `json:"time_taken"`
}

// ReviewExam grades every question concurrently and combines the marks.
//
// A failed grading call zeroes that question and records the error on its
// result; sibling questions are unaffected.
func (r *Reviewer) ReviewExam(ctx context.Context, questions []ExamQuestion) (*ExamReview, error) {
	if len(questions) == 0 {
		return nil, fmt.Errorf("no exam questions provided")
	}
	var totalMarks float64
	for i, q := range questions {
		if q.MaxMarks <= 0 {
			return nil, fmt.Errorf("question %d: max marks must be positive, got %g", i+1, q.MaxMarks)
		}
		totalMarks += q.MaxMarks
	}

	start := time.Now()
	review := &ExamReview{
		RequestID:  uuid.New().String(),
		MarksTotal: totalMarks,
	}

	results := dispatch.Map(ctx, r.workers, questions,
		func(ctx context.Context, _ int, q ExamQuestion) (ExamQuestionResult, error) {
			return r.gradeQuestion(ctx, q)
		})

	review.Questions = make([]ExamQuestionResult, len(results))
	for _, res := range results {
		qr := res.Value
		if res.Err != nil {
			r.logger.Warn("question grading failed", "question", res.Index, "error", res.Err)
			qr = ExamQuestionResult{
				MaxMarks: questions[res.Index].MaxMarks,
				Error:    res.Err.Error(),
			}
		}
		review.Questions[res.Index] = qr
		review.MarksAwarded += qr.MarksAwarded

		review.Feedback.Strengths = append(review.Feedback.Strengths, qr.Strengths...)
		review.Feedback.Weaknesses = append(review.Feedback.Weaknesses, qr.Weaknesses...)
		review.Feedback.Suggestions = append(review.Feedback.Suggestions, qr.Suggestions...)
	}

	review.OverallScore = round1(clamp(review.MarksAwarded/review.MarksTotal*100, 0, 100))
	review.Elapsed = time.Since(start).Seconds()

	r.logger.Info("exam review complete",
		"request_id", review.RequestID,
		"questions", len(questions),
		"overall_score", review.OverallScore,
		"elapsed_seconds", review.Elapsed)

	return review, nil
}

func (r *Reviewer) gradeQuestion(ctx context.Context, q ExamQuestion) (ExamQuestionResult, error) {
	resp, err := r.complete(ctx, examPrompt(q))
	if err != nil {
		return ExamQuestionResult{}, err
	}

	score, strengths, weaknesses, suggestions := parseExamResult(resp)
	return ExamQuestionResult{
		Score:        score,
		MarksAwarded: score / 100 * q.MaxMarks,
		MaxMarks:     q.MaxMarks,
		Strengths:    strengths,
		Weaknesses:   weaknesses,
		Suggestions:  suggestions,
	}, nil
}
