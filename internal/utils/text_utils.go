package utils

import (
	"regexp"
	"unicode/utf8"

	"go.uber.org/zap"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// TextProcessor provides utilities for preparing content text before it is
// sent to an external provider or embedded in an alert email.
type TextProcessor struct {
	logger *zap.Logger
}

// NewTextProcessor creates a new TextProcessor
func NewTextProcessor(logger *zap.Logger) *TextProcessor {
	return &TextProcessor{
		logger: logger,
	}
}

// TruncateText safely truncates text to the specified maximum size
// and ensures the result is valid UTF-8
func (tp *TextProcessor) TruncateText(text string, maxSize int) string {
	if maxSize <= 0 || len(text) <= maxSize {
		return text
	}

	truncated := text[:maxSize]

	// Trim any partial UTF-8 sequence left at the cut point
	for !utf8.ValidString(truncated) && len(truncated) > 0 {
		truncated = truncated[:len(truncated)-1]
	}

	tp.logger.Debug("Content truncated",
		zap.Int("original_size", len(text)),
		zap.Int("truncated_size", len(truncated)),
		zap.Int("max_size", maxSize))

	return truncated + "\n[... Content truncated due to size limits ...]"
}

// SanitizeUTF8 ensures the string contains only valid UTF-8 characters
func (tp *TextProcessor) SanitizeUTF8(text string) string {
	if utf8.ValidString(text) {
		return text
	}

	result := make([]rune, 0, len(text))
	for i, r := range text {
		if r == utf8.RuneError {
			_, size := utf8.DecodeRuneInString(text[i:])
			if size == 1 {
				// Skip invalid UTF-8 sequences
				continue
			}
		}
		result = append(result, r)
	}

	return string(result)
}

// ProcessText truncates and sanitizes text in one operation
func (tp *TextProcessor) ProcessText(text string, maxSize int) string {
	return tp.SanitizeUTF8(tp.TruncateText(text, maxSize))
}

// Excerpt collapses whitespace and cuts the text to at most maxLen runes,
// for embedding a content sample in alert emails. The second return reports
// whether the text was cut.
func (tp *TextProcessor) Excerpt(text string, maxLen int) (string, bool) {
	collapsed := whitespaceRun.ReplaceAllString(text, " ")
	runes := []rune(collapsed)
	if len(runes) <= maxLen {
		return collapsed, false
	}
	return string(runes[:maxLen]), true
}
