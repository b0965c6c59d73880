package question

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Writer persists generated question sets as JSON files.
type Writer struct {
	outputDir string
}

// NewWriter creates a Writer targeting outputDir.
func NewWriter(outputDir string) *Writer {
	return &Writer{outputDir: outputDir}
}

// Write saves the result's question list and records the path on the
// result. Personalized sets (any focus hints) are marked in the filename
// so they don't overwrite the generic set for the same chapter.
func (w *Writer) Write(result *Result, focus Focus) error {
	name := fmt.Sprintf("%s_chapter_%s_%s", result.Book, result.Chapter, result.Mode)
	if !focus.IsZero() {
		name += "_personalized"
	}
	name += ".json"

	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return fmt.Errorf("create output folder: %w", err)
	}

	data, err := json.MarshalIndent(result.Items, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}

	path := filepath.Join(w.outputDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write questions: %w", err)
	}

	result.OutputPath = path
	return nil
}
