package library

import (
	"context"
	"errors"
)

// ErrNotFound indicates the requested book or chapter does not exist.
var ErrNotFound = errors.New("not found")

// ChapterStore retrieves chapter text for a book.
// Implementations may be backed by files, a vector store, or anything else
// that can hand back full chapter text.
type ChapterStore interface {
	// FetchChapter returns the full text of a chapter.
	// Returns an error wrapping ErrNotFound when the book or chapter is absent.
	FetchChapter(ctx context.Context, book, chapter string) (*TextBody, error)

	// ListChapters returns the chapter names available for a book, in order.
	ListChapters(ctx context.Context, book string) ([]string, error)

	// ListBooks returns the book titles available in the store.
	ListBooks(ctx context.Context) ([]string, error)
}
