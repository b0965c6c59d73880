package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/learnbuddy/learnbuddy/review"
)

func examCmd(flags *rootFlags) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "exam",
		Short: "Grade exam answers against model answers",
		Long: `Grades each question independently and combines marks into an
overall score weighted by each question's mark allocation.

The input file is a YAML or JSON list of questions:

  - question: Define mitosis.
    model_answer: Cell division producing two identical daughter cells.
    student_answer: When a cell splits in two.
    max_marks: 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			questions, err := loadExamFile(file)
			if err != nil {
				return err
			}

			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.reviewer.ReviewExam(cmd.Context(), questions)
			if err != nil {
				return err
			}
			if err := a.publisher.PublishReview(cmd.Context(), result); err != nil {
				a.logger.Warn("publish review event failed", "error", err)
			}

			path, err := saveReviewJSON(a.cfg.Output.Dir, "exam_review.json", result)
			if err != nil {
				return err
			}

			printExamSummary(cmd, result)
			fmt.Fprintf(cmd.OutOrStdout(), "\nFull report saved to: %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Exam file, YAML or JSON (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

// loadExamFile parses a question list from YAML or JSON.
func loadExamFile(path string) ([]review.ExamQuestion, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read exam file: %w", err)
	}

	var questions []review.ExamQuestion
	if strings.HasSuffix(path, ".json") {
		err = json.Unmarshal(data, &questions)
	} else {
		err = yaml.Unmarshal(data, &questions)
	}
	if err != nil {
		return nil, fmt.Errorf("parse exam file: %w", err)
	}
	return questions, nil
}

func printExamSummary(cmd *cobra.Command, r *review.ExamReview) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "\n=== EXAM REVIEW ===")
	fmt.Fprintf(out, "Overall Score: %.1f/100 (%.1f of %.1f marks)\n",
		r.OverallScore, r.MarksAwarded, r.MarksTotal)

	for i, q := range r.Questions {
		fmt.Fprintf(out, "\nQuestion %d: %.1f/%.1f marks", i+1, q.MarksAwarded, q.MaxMarks)
		if q.Error != "" {
			fmt.Fprintf(out, " (grading failed: %s)", q.Error)
		}
		fmt.Fprintln(out)
		for _, w := range q.Weaknesses {
			fmt.Fprintf(out, "- %s\n", w)
		}
	}

	if len(r.Feedback.Suggestions) > 0 {
		fmt.Fprintln(out, "\nSuggestions:")
		for _, s := range r.Feedback.Suggestions {
			fmt.Fprintf(out, "- %s\n", s)
		}
	}
}
