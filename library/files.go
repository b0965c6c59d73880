package library

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// chapterHeading matches chapter headings like "Chapter 8" or "Chapter Eight".
var chapterHeading = regexp.MustCompile(`^Chapter\s+(\d+|[A-Za-z]+)\b`)

// FileStore serves chapter text from a folder of book files.
//
// Two layouts are supported:
//   - <data_dir>/<book>/<chapter>.txt (or .md): one file per chapter
//   - <data_dir>/<book>.txt: a whole book split on "Chapter N" headings
type FileStore struct {
	dataDir       string
	tokensPerWord float64
}

// NewFileStore creates a FileStore rooted at dataDir.
func NewFileStore(dataDir string, tokensPerWord float64) *FileStore {
	return &FileStore{
		dataDir:       dataDir,
		tokensPerWord: tokensPerWord,
	}
}

// FetchChapter returns the full text of a chapter.
func (s *FileStore) FetchChapter(ctx context.Context, book, chapter string) (*TextBody, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(book) == "" {
		return nil, fmt.Errorf("book title is required")
	}
	if strings.TrimSpace(chapter) == "" {
		return nil, fmt.Errorf("chapter is required")
	}

	bookDir := filepath.Join(s.dataDir, book)
	if info, err := os.Stat(bookDir); err == nil && info.IsDir() {
		return s.fetchFromChapterFiles(bookDir, book, chapter)
	}

	return s.fetchFromBookFile(book, chapter)
}

// fetchFromChapterFiles reads <book>/<chapter>.{txt,md}.
func (s *FileStore) fetchFromChapterFiles(bookDir, book, chapter string) (*TextBody, error) {
	matches, err := doublestar.FilepathGlob(filepath.Join(bookDir, chapter+".{txt,md}"))
	if err != nil {
		return nil, fmt.Errorf("glob chapter files: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("chapter %q of book %q: %w", chapter, book, ErrNotFound)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		return nil, fmt.Errorf("read chapter file: %w", err)
	}

	body := ParseTextBody(string(data), s.tokensPerWord)
	if body.IsEmpty() {
		return nil, fmt.Errorf("chapter %q of book %q is empty: %w", chapter, book, ErrNotFound)
	}
	return body, nil
}

// fetchFromBookFile reads <book>.txt and extracts the requested chapter
// by scanning for chapter headings.
func (s *FileStore) fetchFromBookFile(book, chapter string) (*TextBody, error) {
	path, err := s.bookFilePath(book)
	if err != nil {
		return nil, err
	}

	chapters, order, err := s.splitBookFile(path)
	if err != nil {
		return nil, err
	}

	want := normalizeChapter(chapter)
	for _, name := range order {
		if normalizeChapter(name) == want {
			return NewTextBody(chapters[name], s.tokensPerWord), nil
		}
	}

	return nil, fmt.Errorf("chapter %q of book %q: %w", chapter, book, ErrNotFound)
}

// ListChapters returns the chapter names available for a book, in source order.
func (s *FileStore) ListChapters(ctx context.Context, book string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bookDir := filepath.Join(s.dataDir, book)
	if info, err := os.Stat(bookDir); err == nil && info.IsDir() {
		matches, err := doublestar.FilepathGlob(filepath.Join(bookDir, "*.{txt,md}"))
		if err != nil {
			return nil, fmt.Errorf("glob chapter files: %w", err)
		}
		chapters := make([]string, 0, len(matches))
		for _, m := range matches {
			name := filepath.Base(m)
			chapters = append(chapters, strings.TrimSuffix(name, filepath.Ext(name)))
		}
		sort.Strings(chapters)
		return chapters, nil
	}

	path, err := s.bookFilePath(book)
	if err != nil {
		return nil, err
	}

	_, order, err := s.splitBookFile(path)
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ListBooks returns the book titles available under the data folder.
func (s *FileStore) ListBooks(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read data folder: %w", err)
	}

	var books []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			books = append(books, name)
			continue
		}
		ext := filepath.Ext(name)
		if ext == ".txt" || ext == ".md" {
			books = append(books, strings.TrimSuffix(name, ext))
		}
	}
	sort.Strings(books)
	return books, nil
}

// bookFilePath locates the single-file form of a book.
func (s *FileStore) bookFilePath(book string) (string, error) {
	matches, err := doublestar.FilepathGlob(filepath.Join(s.dataDir, book+".{txt,md}"))
	if err != nil {
		return "", fmt.Errorf("glob book file: %w", err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("book %q: %w", book, ErrNotFound)
	}
	return matches[0], nil
}

// splitBookFile splits a whole-book text on chapter headings.
// Returns paragraphs per chapter plus heading order.
func (s *FileStore) splitBookFile(path string) (map[string][]string, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read book file: %w", err)
	}

	chapters := make(map[string][]string)
	var order []string
	var current string

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if chapterHeading.MatchString(line) {
			current = line
			if _, seen := chapters[current]; !seen {
				order = append(order, current)
				chapters[current] = nil
			}
			continue
		}
		if current != "" {
			chapters[current] = append(chapters[current], line)
		}
	}

	return chapters, order, nil
}

// normalizeChapter reduces a chapter reference to its identifying token,
// so "Chapter Eight", "chapter eight" and "Eight" all match.
func normalizeChapter(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.TrimPrefix(name, "chapter")
	return strings.TrimSpace(name)
}
