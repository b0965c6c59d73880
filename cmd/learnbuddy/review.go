package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/learnbuddy/learnbuddy/review"
)

func reviewCmd(flags *rootFlags) *cobra.Command {
	var (
		file      string
		paperType string
	)

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review a paper across weighted quality dimensions",
		Example: `  learnbuddy review --file essay.txt --type essay
  learnbuddy review --file thesis_draft.md --type thesis`,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read paper: %w", err)
			}

			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.reviewer.ReviewPaper(cmd.Context(), string(data), paperType)
			if err != nil {
				return err
			}
			if err := a.publisher.PublishReview(cmd.Context(), result); err != nil {
				a.logger.Warn("publish review event failed", "error", err)
			}

			path, err := saveReviewJSON(a.cfg.Output.Dir, "paper_review.json", result)
			if err != nil {
				return err
			}

			printPaperSummary(cmd, result)
			fmt.Fprintf(cmd.OutOrStdout(), "\nFull report saved to: %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Paper text file (required)")
	cmd.Flags().StringVar(&paperType, "type", "essay", "Paper type (essay, research, report, thesis)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func printPaperSummary(cmd *cobra.Command, r *review.PaperReview) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "\n=== REVIEW SUMMARY ===")
	fmt.Fprintf(out, "Overall Score: %.1f/100\n", r.OverallScore)

	fmt.Fprintf(out, "\nCONTENT (Score: %.1f)\n", r.Content.Score)
	printTop(out, "Strengths:", r.Content.Strengths)
	printTop(out, "\nAreas for Improvement:", r.Content.Weaknesses)

	fmt.Fprintf(out, "\nSTRUCTURE (Score: %.1f)\n", r.Structure.Score)
	printTop(out, "Feedback:", r.Structure.Feedback)

	fmt.Fprintf(out, "\nGRAMMAR (Score: %.1f)\n", r.Grammar.Score)
	fmt.Fprintf(out, "Found %d errors\n", r.Grammar.ErrorCount)
	if len(r.Grammar.Errors) > 0 {
		fmt.Fprintln(out, "\nTop Corrections:")
		for i := 0; i < len(r.Grammar.Errors) && i < 3; i++ {
			fmt.Fprintf(out, "%s → %s\n", r.Grammar.Errors[i], r.Grammar.Corrections[i])
		}
	}

	fmt.Fprintf(out, "\nREADABILITY (Score: %.1f)\n", r.Readability.Score)
	fmt.Fprintf(out, "Flesch reading ease: %.1f, Gunning fog: %.1f\n",
		r.Readability.FleschEase, r.Readability.GunningFog)

	for dim, msg := range r.DimensionErrors {
		fmt.Fprintf(out, "\nWARNING: %s analysis failed: %s\n", dim, msg)
	}
}

func printTop(out io.Writer, heading string, lines []string) {
	fmt.Fprintln(out, heading)
	for i, line := range lines {
		if i == 3 {
			break
		}
		fmt.Fprintf(out, "- %s\n", line)
	}
}

// saveReviewJSON writes a review record under the output folder.
func saveReviewJSON(dir, name string, payload any) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output folder: %w", err)
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal review: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write review: %w", err)
	}
	return path, nil
}
