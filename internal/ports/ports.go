package ports

import (
	"context"

	"ReadingScribe/internal/domain"
)

// ContentExtractor converts PDFs and fetched web pages into plain text.
type ContentExtractor interface {
	ExtractPDF(ctx context.Context, data []byte) (string, error)
	ExtractLink(ctx context.Context, rawURL string) (string, error)
}

// Summarizer turns plain text into a structured summary. Failures are folded
// into an error-shaped record, never returned, so callers always have a
// fully populated summary to present.
type Summarizer interface {
	Summarize(ctx context.Context, text string) domain.ContentSummary
}

// ArchiveStore reads and writes files in the remote knowledge-base repository.
type ArchiveStore interface {
	// ReadFile returns the decoded text of path. A missing file is reported
	// via the bool, not an error.
	ReadFile(ctx context.Context, path string) (string, bool, error)
	// WriteFile creates path or updates it in place, returning a short
	// description of which action occurred.
	WriteFile(ctx context.Context, path, message string, content []byte) (string, error)
	// FileURL returns a browsable URL for path.
	FileURL(path string) string
}

// ChatGateway is the outbound chat-platform boundary: threads, messages, and
// the two-button review controls tied to a sent message.
type ChatGateway interface {
	CreateThread(ctx context.Context, channelID, messageID, name string) (string, error)
	RenameThread(ctx context.Context, threadID, name string) error
	Send(ctx context.Context, channelID, content string) (string, error)
	PresentChoices(ctx context.Context, channelID, content string) (string, error)
	DisableChoices(ctx context.Context, channelID, messageID string) error
	DownloadAttachment(ctx context.Context, url string) ([]byte, error)
}
