// Package llm talks to an OpenAI-compatible chat-completions API and maps its
// structured output onto domain.ContentSummary.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"ReadingScribe/internal/config"
	"ReadingScribe/internal/domain"
	"ReadingScribe/internal/ports"
)

const truncationMarker = "...(truncated)"

// Client implements ports.Summarizer backed by OpenRouter (or any
// OpenAI-compatible endpoint).
type Client struct {
	endpoint     string
	model        string
	apiKey       string
	maxChars     int
	systemPrompt string
	httpClient   *http.Client
	logger       *slog.Logger
}

var _ ports.Summarizer = (*Client)(nil)

// NewClient builds a client from configuration.
func NewClient(cfg config.LLMConfig, logger *slog.Logger) *Client {
	maxChars := cfg.MaxChars
	if maxChars <= 0 {
		maxChars = 100000
	}
	return &Client{
		endpoint:     cfg.Endpoint,
		model:        cfg.Model,
		apiKey:       cfg.APIKey,
		maxChars:     maxChars,
		systemPrompt: cfg.SystemPrompt,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		logger: logger,
	}
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type       string     `json:"type"`
	JSONSchema jsonSchema `json:"json_schema"`
}

type jsonSchema struct {
	Name   string          `json:"name"`
	Strict bool            `json:"strict"`
	Schema json.RawMessage `json:"schema"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
}

// summarySchema constrains the completion to the ContentSummary shape, with no
// extra fields permitted.
var summarySchema = json.RawMessage(`{
  "type": "object",
  "additionalProperties": false,
  "required": ["title", "summary", "caveats", "topics", "issues", "sentiment", "people"],
  "properties": {
    "title": {"type": "string", "description": "The title of the content"},
    "summary": {"type": "string", "description": "A short and concise summary, not longer than 2 paragraphs"},
    "caveats": {"type": "array", "items": {"type": "string"}, "description": "Things that stand out as wrong, misleading, or unfactual. Empty list if none."},
    "topics": {"type": "array", "items": {"type": "string"}, "description": "General topics in snake_case (e.g. politics, software_engineering)."},
    "issues": {"type": "array", "items": {"type": "string"}, "description": "Specific issues discussed in snake_case (e.g. covid_19). Empty list if none."},
    "sentiment": {"type": "string", "description": "Overall sentiment of the content (e.g. positive, negative, neutral)."},
    "people": {"type": "array", "items": {"type": "string"}, "description": "Key people mentioned, in snake_case. Empty list if none."}
  }
}`)

// Summarize requests a schema-constrained summary of text. It never returns an
// error: call or parse failures degrade to an error-shaped record so the
// caller always has something to present.
func (c *Client) Summarize(ctx context.Context, text string) domain.ContentSummary {
	if strings.TrimSpace(text) == "" {
		return domain.ContentSummary{
			Title:     "Error",
			Summary:   "No text provided to summarize.",
			Caveats:   []string{},
			Topics:    []string{},
			Issues:    []string{},
			Sentiment: "neutral",
			People:    []string{},
		}
	}

	if len(text) > c.maxChars {
		text = text[:c.maxChars] + truncationMarker
	}

	summary, err := c.complete(ctx, text)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("summarization failed", "error", err)
		}
		return errorSummary(err)
	}

	return normalize(summary)
}

func (c *Client) complete(ctx context.Context, text string) (domain.ContentSummary, error) {
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return domain.ContentSummary{}, fmt.Errorf("llm client misconfigured")
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: safePrompt(c.systemPrompt)},
			{Role: "user", Content: "Analyze the following text and provide a structured summary:\n\n" + text},
		},
		ResponseFormat: &responseFormat{
			Type: "json_schema",
			JSONSchema: jsonSchema{
				Name:   "content_summary",
				Strict: true,
				Schema: summarySchema,
			},
		},
	})
	if err != nil {
		return domain.ContentSummary{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.ContentSummary{}, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.ContentSummary{}, fmt.Errorf("request completion: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.ContentSummary{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return domain.ContentSummary{}, fmt.Errorf("llm error %s: %s", resp.Status, strings.TrimSpace(string(respBody)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return domain.ContentSummary{}, fmt.Errorf("parse response: %w", err)
	}
	if parsed.Error != nil {
		return domain.ContentSummary{}, fmt.Errorf("llm error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return domain.ContentSummary{}, fmt.Errorf("empty completion")
	}

	return parseSummary(parsed.Choices[0].Message.Content)
}

// parseSummary decodes the model output, tolerating markdown fences around
// the JSON object.
func parseSummary(content string) (domain.ContentSummary, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var summary domain.ContentSummary
	if err := json.Unmarshal([]byte(content), &summary); err != nil {
		return domain.ContentSummary{}, fmt.Errorf("parse summary JSON: %w", err)
	}
	if summary.Title == "" && summary.Summary == "" {
		return domain.ContentSummary{}, fmt.Errorf("summary JSON missing title and summary")
	}

	return summary, nil
}

// normalize guarantees the all-fields-populated invariant on records the
// model produced.
func normalize(s domain.ContentSummary) domain.ContentSummary {
	if s.Caveats == nil {
		s.Caveats = []string{}
	}
	if s.Topics == nil {
		s.Topics = []string{}
	}
	if s.Issues == nil {
		s.Issues = []string{}
	}
	if s.People == nil {
		s.People = []string{}
	}
	if s.Sentiment == "" {
		s.Sentiment = "neutral"
	}
	return s
}

func errorSummary(err error) domain.ContentSummary {
	return domain.ContentSummary{
		Title:     "Error generating summary",
		Summary:   fmt.Sprintf("An error occurred while communicating with the AI: %v", err),
		Caveats:   []string{},
		Topics:    []string{},
		Issues:    []string{},
		Sentiment: "neutral",
		People:    []string{},
	}
}

func safePrompt(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "You are a helpful assistant that summarizes text. You must output JSON."
	}
	return prompt
}
