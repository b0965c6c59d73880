// Package main provides the learnbuddy binary entry point.
// Learnbuddy turns textbook chapters into assessment questions and
// reviews papers and exam answers with an LLM backend.
package main

import (
	"fmt"
	"os"

	// Register LLM providers via init()
	_ "github.com/learnbuddy/learnbuddy/llm/providers"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
