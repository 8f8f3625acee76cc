package extract

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRewriteVideoURL(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in        string
		want      string
		rewritten bool
	}{
		{
			in:        "https://www.youtube.com/watch?v=ABC123",
			want:      "https://youtubetotranscript.com/transcript?v=ABC123",
			rewritten: true,
		},
		{
			in:        "https://youtu.be/xy-z_9",
			want:      "https://youtubetotranscript.com/transcript?v=xy-z_9",
			rewritten: true,
		},
		{
			in:        "https://example.com/watch?v=nope",
			want:      "https://example.com/watch?v=nope",
			rewritten: false,
		},
	}

	for _, tc := range cases {
		got, rewritten := RewriteVideoURL(tc.in)
		if got != tc.want || rewritten != tc.rewritten {
			t.Fatalf("RewriteVideoURL(%q) = (%q, %v), want (%q, %v)", tc.in, got, rewritten, tc.want, tc.rewritten)
		}
	}
}

func TestExtractLinkArticle(t *testing.T) {
	t.Parallel()

	page := `<!DOCTYPE html><html><head><title>Sample</title></head><body>
	<article>
	  <h1>Sample Article</h1>
	  <p>This opening paragraph talks at length about something interesting enough to summarize.</p>
	  <p>A second paragraph keeps the article body comfortably above the minimum content length.</p>
	</article>
	</body></html>`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer server.Close()

	e := New(server.Client(), nil)
	text, err := e.ExtractLink(context.Background(), server.URL+"/post")
	if err != nil {
		t.Fatalf("ExtractLink error: %v", err)
	}

	if !strings.Contains(text, "opening paragraph") {
		t.Fatalf("extracted text missing article body: %q", text)
	}
	if strings.Contains(text, "<p>") {
		t.Fatalf("extracted text still contains markup: %q", text)
	}
}

func TestExtractLinkTooShort(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><article><p>tiny</p></article></body></html>`))
	}))
	defer server.Close()

	e := New(server.Client(), nil)
	_, err := e.ExtractLink(context.Background(), server.URL+"/post")
	if !errors.Is(err, ErrTooShort) {
		t.Fatalf("expected ErrTooShort, got %v", err)
	}
}

func TestExtractLinkEmptyResponse(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 200 with an empty body.
	}))
	defer server.Close()

	e := New(server.Client(), nil)
	_, err := e.ExtractLink(context.Background(), server.URL+"/post")
	if !errors.Is(err, ErrNoContent) {
		t.Fatalf("expected ErrNoContent, got %v", err)
	}
}

func TestExtractLinkBadStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer server.Close()

	e := New(server.Client(), nil)
	if _, err := e.ExtractLink(context.Background(), server.URL+"/post"); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestTranscriptText(t *testing.T) {
	t.Parallel()

	page := `<html><body>
	<div id="transcript">
	  <p>First transcript segment of the talk.</p>
	  <p>Second transcript segment, with more words.</p>
	</div>
	</body></html>`

	got := transcriptText([]byte(page))
	want := "First transcript segment of the talk. Second transcript segment, with more words."
	if got != want {
		t.Fatalf("transcriptText = %q, want %q", got, want)
	}
}

func TestTranscriptTextMissingSegments(t *testing.T) {
	t.Parallel()

	if got := transcriptText([]byte(`<html><body><p>not a transcript page</p></body></html>`)); got != "" {
		t.Fatalf("expected empty transcript, got %q", got)
	}
}
