package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"ReadingScribe/internal/domain"
	"ReadingScribe/internal/ports"
)

// ReviewManagerDeps wires the confirmation workflow's collaborators.
type ReviewManagerDeps struct {
	Gateway ports.ChatGateway
	Store   ports.ArchiveStore // nil when the archive is not configured
	Timeout time.Duration
	Now     func() time.Time
	Logger  *slog.Logger
}

// ReviewManager owns every presented-but-unresolved summary and guarantees
// exactly one publish per review, whether resolved by button press or by
// timeout expiry.
type ReviewManager struct {
	gateway ports.ChatGateway
	store   ports.ArchiveStore
	timeout time.Duration
	now     func() time.Time
	logger  *slog.Logger

	mu      sync.Mutex
	pending map[string]*pendingReview
}

// pendingReview tracks one presented summary message. The resolved flag is
// single-assignment: first transition wins, the loser observes it set and
// takes no action.
type pendingReview struct {
	mu        sync.Mutex
	resolved  bool
	timer     *time.Timer
	review    domain.PendingReview
	channelID string
	messageID string
}

// NewReviewManager constructs the workflow component.
func NewReviewManager(deps ReviewManagerDeps) *ReviewManager {
	timeout := deps.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &ReviewManager{
		gateway: deps.Gateway,
		store:   deps.Store,
		timeout: timeout,
		now:     now,
		logger:  deps.Logger,
		pending: map[string]*pendingReview{},
	}
}

// Present sends the summary message with its two action controls, registers
// the review under the message ID, and arms the timeout timer.
func (m *ReviewManager) Present(ctx context.Context, channelID, content string, review domain.PendingReview) (string, error) {
	messageID, err := m.gateway.PresentChoices(ctx, channelID, content)
	if err != nil {
		return "", fmt.Errorf("present choices: %w", err)
	}

	p := &pendingReview{
		review:    review,
		channelID: channelID,
		messageID: messageID,
	}

	m.mu.Lock()
	m.pending[messageID] = p
	m.mu.Unlock()

	p.mu.Lock()
	p.timer = time.AfterFunc(m.timeout, func() { m.expire(messageID) })
	p.mu.Unlock()

	return messageID, nil
}

// Choose handles an explicit button press on a presented message. Unknown or
// already-resolved messages are ignored.
func (m *ReviewManager) Choose(ctx context.Context, messageID string, isRead bool) {
	p := m.lookup(messageID)
	if p == nil {
		return
	}
	m.resolve(ctx, p, isRead, false)
}

func (m *ReviewManager) expire(messageID string) {
	p := m.lookup(messageID)
	if p == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	m.resolve(ctx, p, false, true)
}

func (m *ReviewManager) lookup(messageID string) *pendingReview {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending[messageID]
}

// resolve performs the single publish transition. The timeout firing
// concurrently with a button press is settled here: whichever caller flips
// the resolved flag first carries on, the other returns immediately.
func (m *ReviewManager) resolve(ctx context.Context, p *pendingReview, isRead, auto bool) {
	p.mu.Lock()
	if p.resolved {
		p.mu.Unlock()
		return
	}
	p.resolved = true
	timer := p.timer
	p.mu.Unlock()

	if timer != nil {
		timer.Stop()
	}

	if err := m.gateway.DisableChoices(ctx, p.channelID, p.messageID); err != nil {
		m.warn("disable choices", "message", p.messageID, "error", err)
	}

	report := m.publish(ctx, p.review, isRead)
	if auto {
		report += "\n*(Automatically uploaded due to timeout)*"
	}
	if _, err := m.gateway.Send(ctx, p.channelID, report); err != nil {
		m.warn("send publish report", "channel", p.channelID, "error", err)
	}

	m.mu.Lock()
	delete(m.pending, p.messageID)
	m.mu.Unlock()
}

// publish writes the summary document, the original PDF when applicable, and
// the reading-list update, reporting each outcome as text. Store failures are
// reported, never raised: the user needs a status line either way.
func (m *ReviewManager) publish(ctx context.Context, review domain.PendingReview, isRead bool) string {
	if m.store == nil {
		return "Archive is not configured; nothing was uploaded."
	}

	slug := Slugify(review.Summary.Title)
	date := m.now().Format("2006-01-02")

	sourceLink := review.SourceName
	if review.Type == domain.ContentPDF {
		// Relative link to the PDF stored in the same slug folder.
		sourceLink = slug + "/" + review.SourceName
	}

	doc := BuildDocument(review.Summary, sourceLink, date)
	mdPath := "articles/" + slug + ".md"
	if _, err := m.store.WriteFile(ctx, mdPath, "Add summary for "+review.Summary.Title, []byte(doc)); err != nil {
		return fmt.Sprintf("Error uploading summary: %v", err)
	}

	lines := []string{fmt.Sprintf("Summary uploaded: <%s>", m.store.FileURL(mdPath))}

	if review.Type == domain.ContentPDF {
		pdfPath := "articles/" + slug + "/" + review.SourceName
		if _, err := m.store.WriteFile(ctx, pdfPath, "Add PDF for "+review.Summary.Title, review.Original); err != nil {
			lines = append(lines, fmt.Sprintf("Error uploading PDF: %v", err))
		}
	}

	lines = append(lines, m.updateReadingList(ctx, review.Summary.Title, slug, date, isRead))

	return strings.Join(lines, "\n")
}

func (m *ReviewManager) updateReadingList(ctx context.Context, title, slug, date string, isRead bool) string {
	const listPath = "reading-list.md"

	raw, found, err := m.store.ReadFile(ctx, listPath)
	if err != nil {
		return fmt.Sprintf("Error reading reading list: %v", err)
	}
	if !found {
		raw = DefaultReadingList
	}

	list := ParseReadingList(raw)
	note := "Reading list updated."
	if list.Contains(title) {
		note = "Already in reading list."
	} else {
		entry := domain.ReadingListEntry{
			Read:  isRead,
			Date:  date,
			Title: title,
			Path:  "articles/" + slug + ".md",
		}
		list.Prepend(entry.Line())
	}

	if _, err := m.store.WriteFile(ctx, listPath, "Update reading list for "+title, []byte(list.Render())); err != nil {
		return fmt.Sprintf("Error updating reading list: %v", err)
	}

	return note
}

func (m *ReviewManager) warn(msg string, args ...any) {
	if m.logger != nil {
		m.logger.Warn(msg, args...)
	}
}
