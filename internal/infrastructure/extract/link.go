package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

const transcriptEndpoint = "https://youtubetotranscript.com/transcript"

var youtubeExpr = regexp.MustCompile(`(?:https?://)?(?:www\.)?(?:youtube\.com/watch\?v=|youtu\.be/)([\w-]+)`)

// RewriteVideoURL maps a YouTube watch URL to the transcript-service endpoint
// carrying the same video ID. Non-video URLs pass through unchanged.
func RewriteVideoURL(raw string) (string, bool) {
	m := youtubeExpr.FindStringSubmatch(raw)
	if m == nil {
		return raw, false
	}
	return transcriptEndpoint + "?v=" + m[1], true
}

// ExtractLink fetches the URL and pulls the main article text out of the
// document. Video URLs are rewritten to the transcript service first.
func (e *Extractor) ExtractLink(ctx context.Context, rawURL string) (string, error) {
	target, isTranscript := RewriteVideoURL(rawURL)
	if isTranscript {
		e.debug("video url rewritten", "original", rawURL, "target", target)
	}

	body, err := e.fetch(ctx, target)
	if err != nil {
		return "", err
	}

	if isTranscript {
		if text := transcriptText(body); text != "" {
			return checkLength(text)
		}
	}

	parsed, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("parse url %s: %w", target, err)
	}

	text := ""
	article, err := readability.FromReader(bytes.NewReader(body), parsed)
	if err == nil {
		text = strings.TrimSpace(article.TextContent)
	} else {
		e.debug("readability failed, falling back to paragraph scrape", "url", target, "error", err)
	}
	if text == "" {
		text = paragraphText(body)
	}
	if text == "" {
		return "", fmt.Errorf("%w: no article text in %s", ErrNoContent, target)
	}

	return checkLength(text)
}

func (e *Extractor) fetch(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "ReadingScribe/1.0")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", pageURL, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: empty response from %s", ErrNoContent, pageURL)
	}

	return body, nil
}

// transcriptText pulls the transcript segments out of the transcript-service
// page. Returns "" when the page carries no recognizable segments, in which
// case the caller falls back to the generic article path.
func transcriptText(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	var parts []string
	doc.Find(".transcript-segment, #transcript p, .transcript-text").Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, " ")
}

// paragraphText concatenates paragraph text as a last resort when readability
// finds no main article.
func paragraphText(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	var parts []string
	doc.Find("article p, main p, body p").Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, "\n")
}
