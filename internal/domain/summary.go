package domain

import "fmt"

// ContentSummary is a core entity describing the structured result of one
// summarization call. Every field is always populated: failed extraction or
// LLM calls yield an error-shaped record instead of partial data.
type ContentSummary struct {
	Title     string   `json:"title"`
	Summary   string   `json:"summary"`
	Caveats   []string `json:"caveats"`
	Topics    []string `json:"topics"`
	Issues    []string `json:"issues"`
	Sentiment string   `json:"sentiment"`
	People    []string `json:"people"`
}

// ContentType enumerates the two extraction paths.
type ContentType string

const (
	ContentLink ContentType = "link"
	ContentPDF  ContentType = "pdf"
)

// PendingReview carries everything needed to publish one presented summary:
// the summary itself plus the exact content that will be archived alongside it.
type PendingReview struct {
	Summary    ContentSummary
	Original   []byte // extracted text (link) or raw bytes (pdf)
	Type       ContentType
	SourceName string // URL or original filename
}

// ReadingListEntry is one checkbox line in the persisted reading list.
type ReadingListEntry struct {
	Read  bool
	Date  string
	Title string
	Path  string
}

// Line renders the entry in the reading-list format.
func (e ReadingListEntry) Line() string {
	mark := " "
	if e.Read {
		mark = "x"
	}
	return fmt.Sprintf("- [%s] %s - [%s](%s)", mark, e.Date, e.Title, e.Path)
}
