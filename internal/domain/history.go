package domain

import (
	"fmt"
	"time"
)

// PreviewLength is the number of characters of the analyzed text kept in an
// entry's preview before truncation.
const PreviewLength = 100

// Validation errors for HistoryEntry.
var (
	ErrEmptyHistoryText = fmt.Errorf("%w: history entry text cannot be empty", ErrValidation)
)

// AnalysisResult is the opaque scoring payload returned by the external
// analysis engine. It is stored and returned verbatim, never interpreted.
type AnalysisResult map[string]any

// HistoryEntry represents one recorded analysis in a user's history.
// Entries are kept in insertion order; an entry's position is its zero-based
// index in the owner's current sequence and shifts when earlier entries are
// deleted.
type HistoryEntry struct {
	Timestamp   time.Time      `json:"timestamp"`
	TextPreview string         `json:"text_preview"`
	FullText    string         `json:"full_text"`
	Results     AnalysisResult `json:"results"`
}

// NewHistoryEntry creates a HistoryEntry for the given text and engine
// results, deriving the preview and setting the creation timestamp.
// Returns an error if validation fails.
func NewHistoryEntry(text string, results AnalysisResult) (*HistoryEntry, error) {
	if text == "" {
		return nil, ErrEmptyHistoryText
	}

	return &HistoryEntry{
		Timestamp:   time.Now().UTC(),
		TextPreview: previewOf(text),
		FullText:    text,
		Results:     results,
	}, nil
}

// previewOf returns the first PreviewLength characters of text, suffixed with
// an ellipsis marker when truncated. Truncation counts runes rather than
// bytes so multi-byte text is never split mid-character.
func previewOf(text string) string {
	runes := []rune(text)
	if len(runes) <= PreviewLength {
		return text
	}
	return string(runes[:PreviewLength]) + "..."
}
