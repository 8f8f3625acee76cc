// Package extract converts PDF buffers and web pages into plain text for
// summarization.
package extract

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"ReadingScribe/internal/ports"
)

// Minimum viable content length after trimming; anything shorter is not worth
// a summarization call.
const minContentLength = 50

var (
	// ErrNoContent marks an empty fetch or a document with nothing extractable.
	ErrNoContent = errors.New("no extractable content")
	// ErrTooShort marks content below the minimum viable length.
	ErrTooShort = errors.New("content too short")
)

// Extractor implements ports.ContentExtractor for both extraction paths.
type Extractor struct {
	client *http.Client
	logger *slog.Logger
}

var _ ports.ContentExtractor = (*Extractor)(nil)

// New wires an HTTP client for link fetches; client defaults to a 30s-timeout one.
func New(client *http.Client, logger *slog.Logger) *Extractor {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Extractor{client: client, logger: logger}
}

// checkLength trims the extracted text and enforces the minimum length,
// distinguishing emptiness from too-short content.
func checkLength(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrNoContent
	}
	if len(text) < minContentLength {
		return "", fmt.Errorf("%w: %d characters", ErrTooShort, len(text))
	}
	return text, nil
}

func (e *Extractor) debug(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}
