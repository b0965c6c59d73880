package main

import (
	"github.com/spf13/cobra"
)

func rootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "learnbuddy",
		Short: "Textbook question generation and paper review",
		Long: `Learnbuddy turns textbook chapters into assessment questions and
reviews papers and exam answers against model solutions.

Long chapters are split into token-bounded batches, generated in
parallel, cached by content, and merged into the requested number of
questions. Reviews grade content, structure, grammar and readability
concurrently and combine them into one weighted score.`,
		SilenceUsage: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Config file path (YAML)")
	pf.StringVar(&flags.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	pf.StringVar(&flags.dataDir, "data-dir", "", "Override the book data folder")
	pf.StringVar(&flags.outputDir, "output-dir", "", "Override the output folder")
	pf.StringVar(&flags.cacheMode, "cache", "", "Cache backend (disk, nats, none)")

	cmd.AddCommand(
		generateCmd(flags),
		reviewCmd(flags),
		examCmd(flags),
		chaptersCmd(flags),
	)

	return cmd
}
