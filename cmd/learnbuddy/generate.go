package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/learnbuddy/learnbuddy/question"
)

func generateCmd(flags *rootFlags) *cobra.Command {
	var (
		book       string
		chapter    string
		qType      string
		count      int
		weaknesses []string
		strengths  []string
		noSave     bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate questions from a book chapter",
		Example: `  learnbuddy generate --book chemistry9_10 --chapter Eight --type mcq --count 5
  learnbuddy generate --book chemistry9_10 --chapter Eight --type written \
      --weakness "Missing specific terminology" --strength "Good at memorizing processes"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := question.ParseMode(qType)
			if err != nil {
				return err
			}

			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()

			if count <= 0 {
				count = a.cfg.Generator.DefaultQuestions
			}
			focus := question.Focus{
				TargetWeaknesses: weaknesses,
				AvoidStrengths:   strengths,
			}

			result := a.generator.Generate(cmd.Context(), question.GenerateRequest{
				Book:    book,
				Chapter: chapter,
				Mode:    mode,
				Count:   count,
				Focus:   focus,
			})
			if !result.Success {
				return fmt.Errorf("%s", result.Error)
			}

			if !noSave {
				if err := a.writer.Write(result, focus); err != nil {
					return err
				}
			}
			if err := a.publisher.PublishGeneration(cmd.Context(), result); err != nil {
				a.logger.Warn("publish generation event failed", "error", err)
			}

			printSampleQuestions(cmd, result.Items)
			fmt.Fprintf(cmd.OutOrStdout(), "\nGenerated %d questions in %.2f seconds\n",
				len(result.Items), result.Elapsed)
			if result.OutputPath != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Questions saved to: %s\n", result.OutputPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&book, "book", "", "Book title (required)")
	cmd.Flags().StringVar(&chapter, "chapter", "", "Chapter name or number (required)")
	cmd.Flags().StringVar(&qType, "type", "mcq", "Question type (mcq, written)")
	cmd.Flags().IntVar(&count, "count", 0, "Number of questions (default from config)")
	cmd.Flags().StringArrayVar(&weaknesses, "weakness", nil, "Student weakness to target (repeatable)")
	cmd.Flags().StringArrayVar(&strengths, "strength", nil, "Student strength to avoid (repeatable)")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Skip writing the output JSON file")
	_ = cmd.MarkFlagRequired("book")
	_ = cmd.MarkFlagRequired("chapter")

	return cmd
}

// printSampleQuestions echoes the generated set, mirroring the saved JSON.
func printSampleQuestions(cmd *cobra.Command, items []question.Item) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "\nSample questions:")
	for i, q := range items {
		fmt.Fprintf(out, "\n%d. %s\n", i+1, q.Question)
		if q.Type == question.ModeMCQ {
			for _, opt := range q.Options {
				fmt.Fprintf(out, "   - %s\n", opt)
			}
			fmt.Fprintf(out, "   Answer: %s\n", q.Answer)
			if q.Explanation != "" {
				fmt.Fprintf(out, "   Explanation: %s\n", q.Explanation)
			}
		} else if q.Solution != "" {
			fmt.Fprintf(out, "   Sample Solution: %s\n", q.Solution)
		}
	}
}
