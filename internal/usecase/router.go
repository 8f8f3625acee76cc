package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"ReadingScribe/internal/domain"
	"ReadingScribe/internal/ports"
)

// Thread names are truncated to this many runes on rename.
const titleDisplayLimit = 100

var urlExpr = regexp.MustCompile(`https?://[^\s<>]+`)

// Attachment is the platform-neutral view of a message attachment.
type Attachment struct {
	Filename string
	URL      string
}

// InboundMessage is the platform-neutral view of one incoming chat message.
type InboundMessage struct {
	ID          string
	ChannelID   string
	AuthorID    string
	Content     string
	FromBot     bool
	InThread    bool
	Attachments []Attachment
}

// RouterDeps wires the router's collaborators.
type RouterDeps struct {
	Gateway         ports.ChatGateway
	Extractor       ports.ContentExtractor
	Summarizer      ports.Summarizer
	Reviews         *ReviewManager
	TargetChannelID string
	Logger          *slog.Logger
}

// Router is the top-level event dispatcher: it decides per message whether to
// start an analysis thread and which extraction path to run.
type Router struct {
	gateway         ports.ChatGateway
	extractor       ports.ContentExtractor
	summarizer      ports.Summarizer
	reviews         *ReviewManager
	targetChannelID string
	logger          *slog.Logger
}

// NewRouter constructs the dispatch component.
func NewRouter(deps RouterDeps) *Router {
	return &Router{
		gateway:         deps.Gateway,
		extractor:       deps.Extractor,
		summarizer:      deps.Summarizer,
		reviews:         deps.Reviews,
		targetChannelID: deps.TargetChannelID,
		logger:          deps.Logger,
	}
}

// HandleMessage applies the inclusion filter and runs the PDF and link
// pipelines for everything the message carries. A failure in one item never
// aborts its siblings.
func (r *Router) HandleMessage(ctx context.Context, msg InboundMessage) {
	if msg.FromBot {
		return
	}
	if msg.InThread {
		// Follow-ups inside analysis threads are logged, not reprocessed.
		r.debug("follow-up in thread", "channel", msg.ChannelID, "author", msg.AuthorID)
		return
	}
	if r.targetChannelID != "" && msg.ChannelID != r.targetChannelID {
		return
	}

	for _, att := range msg.Attachments {
		if !strings.HasSuffix(strings.ToLower(att.Filename), ".pdf") {
			continue
		}
		r.processPDF(ctx, msg, att)
	}

	for _, link := range urlExpr.FindAllString(msg.Content, -1) {
		r.processLink(ctx, msg, link)
	}
}

// HandleChoice forwards a button press to the confirmation workflow.
func (r *Router) HandleChoice(ctx context.Context, messageID string, isRead bool) {
	r.reviews.Choose(ctx, messageID, isRead)
}

func (r *Router) processPDF(ctx context.Context, msg InboundMessage, att Attachment) {
	defer r.recoverItem("pdf", att.Filename)

	r.debug("processing pdf", "filename", att.Filename)
	thread := r.openThread(ctx, msg, "Analysis: "+att.Filename)

	if err := r.analyzePDF(ctx, thread, att); err != nil {
		r.report(ctx, thread.id, fmt.Sprintf("Failed to process PDF %s: %v", att.Filename, err))
	}
}

func (r *Router) analyzePDF(ctx context.Context, thread threadRef, att Attachment) error {
	data, err := r.gateway.DownloadAttachment(ctx, att.URL)
	if err != nil {
		return fmt.Errorf("download attachment: %w", err)
	}

	text, err := r.extractor.ExtractPDF(ctx, data)
	if err != nil {
		return err
	}

	summary := r.summarizer.Summarize(ctx, text)
	r.renameThread(ctx, thread, summary.Title)

	_, err = r.reviews.Present(ctx, thread.id, presentText("PDF Analysis", summary), domain.PendingReview{
		Summary:    summary,
		Original:   data,
		Type:       domain.ContentPDF,
		SourceName: att.Filename,
	})
	return err
}

func (r *Router) processLink(ctx context.Context, msg InboundMessage, link string) {
	defer r.recoverItem("link", link)

	r.debug("processing link", "url", link)
	thread := r.openThread(ctx, msg, "Analysis: Link")

	if err := r.analyzeLink(ctx, thread, link); err != nil {
		r.report(ctx, thread.id, fmt.Sprintf("Failed to process link %s: %v", link, err))
	}
}

func (r *Router) analyzeLink(ctx context.Context, thread threadRef, link string) error {
	text, err := r.extractor.ExtractLink(ctx, link)
	if err != nil {
		return err
	}

	summary := r.summarizer.Summarize(ctx, text)
	r.renameThread(ctx, thread, summary.Title)

	// For links the extracted text itself is what gets archived.
	_, err = r.reviews.Present(ctx, thread.id, presentText("Link Analysis", summary), domain.PendingReview{
		Summary:    summary,
		Original:   []byte(text),
		Type:       domain.ContentLink,
		SourceName: link,
	})
	return err
}

// threadRef points at where replies for one item go: the created analysis
// thread, or the original channel when thread creation failed.
type threadRef struct {
	id      string
	created bool
}

func (r *Router) openThread(ctx context.Context, msg InboundMessage, name string) threadRef {
	id, err := r.gateway.CreateThread(ctx, msg.ChannelID, msg.ID, name)
	if err != nil {
		r.warn("create thread failed, replying in channel", "error", err)
		return threadRef{id: msg.ChannelID}
	}
	return threadRef{id: id, created: true}
}

func (r *Router) renameThread(ctx context.Context, thread threadRef, title string) {
	if !thread.created {
		return
	}
	if err := r.gateway.RenameThread(ctx, thread.id, truncateTitle(title)); err != nil {
		r.warn("rename thread failed", "thread", thread.id, "error", err)
	}
}

func (r *Router) report(ctx context.Context, channelID, text string) {
	if _, err := r.gateway.Send(ctx, channelID, text); err != nil {
		r.warn("report failure message", "channel", channelID, "error", err)
	}
}

func (r *Router) recoverItem(kind, name string) {
	if rec := recover(); rec != nil {
		r.warn("panic while processing item", "kind", kind, "item", name, "panic", rec)
	}
}

func presentText(kind string, s domain.ContentSummary) string {
	caveats := "None"
	if len(s.Caveats) > 0 {
		caveats = strings.Join(s.Caveats, ", ")
	}
	return fmt.Sprintf("**%s: %s**\n\n%s\n\n*Caveats: %s*", kind, s.Title, s.Summary, caveats)
}

func truncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= titleDisplayLimit {
		return title
	}
	return string(runes[:titleDisplayLimit])
}

func (r *Router) debug(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}

func (r *Router) warn(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Warn(msg, args...)
	}
}
