package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"ReadingScribe/internal/domain"
)

type sentMessage struct {
	ChannelID string
	Content   string
}

// fakeGateway records every outbound chat action.
type fakeGateway struct {
	mu               sync.Mutex
	failCreateThread bool
	attachments      map[string][]byte
	nextID           int

	threads   []string
	renames   map[string]string
	sent      []sentMessage
	presented []sentMessage
	disabled  []string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		attachments: map[string][]byte{},
		renames:     map[string]string{},
	}
}

func (g *fakeGateway) CreateThread(_ context.Context, _, _, name string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failCreateThread {
		return "", fmt.Errorf("thread creation denied")
	}
	g.nextID++
	id := fmt.Sprintf("thread-%d", g.nextID)
	g.threads = append(g.threads, name)
	return id, nil
}

func (g *fakeGateway) RenameThread(_ context.Context, threadID, name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.renames[threadID] = name
	return nil
}

func (g *fakeGateway) Send(_ context.Context, channelID, content string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextID++
	g.sent = append(g.sent, sentMessage{ChannelID: channelID, Content: content})
	return fmt.Sprintf("msg-%d", g.nextID), nil
}

func (g *fakeGateway) PresentChoices(_ context.Context, channelID, content string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextID++
	g.presented = append(g.presented, sentMessage{ChannelID: channelID, Content: content})
	return fmt.Sprintf("msg-%d", g.nextID), nil
}

func (g *fakeGateway) DisableChoices(_ context.Context, _, messageID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.disabled = append(g.disabled, messageID)
	return nil
}

func (g *fakeGateway) DownloadAttachment(_ context.Context, url string) ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	data, ok := g.attachments[url]
	if !ok {
		return nil, fmt.Errorf("unknown attachment %s", url)
	}
	return data, nil
}

func (g *fakeGateway) sentContents() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.sent))
	for i, m := range g.sent {
		out[i] = m.Content
	}
	return out
}

func (g *fakeGateway) lastPresentedID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	// Present IDs interleave with sent IDs on the same counter; re-derive the
	// ID handed out for the most recent PresentChoices call.
	return fmt.Sprintf("msg-%d", g.nextID)
}

// fakeStore is an in-memory archive with per-path write counters.
type fakeStore struct {
	mu     sync.Mutex
	files  map[string][]byte
	writes map[string]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{files: map[string][]byte{}, writes: map[string]int{}}
}

func (s *fakeStore) ReadFile(_ context.Context, path string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[path]
	if !ok {
		return "", false, nil
	}
	return string(data), true, nil
}

func (s *fakeStore) WriteFile(_ context.Context, path, _ string, content []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	action := "Created"
	if _, ok := s.files[path]; ok {
		action = "Updated"
	}
	s.files[path] = append([]byte(nil), content...)
	s.writes[path]++
	return fmt.Sprintf("%s %s", action, path), nil
}

func (s *fakeStore) FileURL(path string) string {
	return "https://github.com/owner/repo/blob/main/" + path
}

func (s *fakeStore) content(path string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[path]
	return string(data), ok
}

func (s *fakeStore) writeCount(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes[path]
}

func (s *fakeStore) markdownWrites() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for path, count := range s.writes {
		if strings.HasPrefix(path, "articles/") && strings.HasSuffix(path, ".md") {
			n += count
		}
	}
	return n
}

// fakeExtractor serves canned text or errors per input.
type fakeExtractor struct {
	mu        sync.Mutex
	pdfText   string
	pdfErr    error
	linkText  map[string]string
	linkErr   map[string]error
	pdfCalls  int
	linkCalls []string
}

func newFakeExtractor() *fakeExtractor {
	return &fakeExtractor{linkText: map[string]string{}, linkErr: map[string]error{}}
}

func (e *fakeExtractor) ExtractPDF(_ context.Context, _ []byte) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pdfCalls++
	return e.pdfText, e.pdfErr
}

func (e *fakeExtractor) ExtractLink(_ context.Context, rawURL string) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.linkCalls = append(e.linkCalls, rawURL)
	if err := e.linkErr[rawURL]; err != nil {
		return "", err
	}
	return e.linkText[rawURL], nil
}

// fakeSummarizer returns a fixed summary and counts invocations.
type fakeSummarizer struct {
	mu      sync.Mutex
	summary domain.ContentSummary
	calls   int
	inputs  []string
}

func (f *fakeSummarizer) Summarize(_ context.Context, text string) domain.ContentSummary {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.inputs = append(f.inputs, text)
	return f.summary
}

func (f *fakeSummarizer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
