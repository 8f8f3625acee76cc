package usecase

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"ReadingScribe/internal/domain"
)

var dashRuns = regexp.MustCompile(`-+`)

// Slugify derives a filesystem-safe slug from a title: lowercase, every
// non-alphanumeric rune becomes a hyphen, runs collapse, edges trim.
func Slugify(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('-')
		}
	}
	return strings.Trim(dashRuns.ReplaceAllString(b.String(), "-"), "-")
}

// toSnake normalizes a tag value: lowercase, trimmed, spaces to underscores.
func toSnake(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}

// buildTags renders the tag block: one line per non-empty group, values
// comma-joined within a group.
func buildTags(s domain.ContentSummary) string {
	var lines []string

	if group := tagGroup("#topic/", s.Topics); group != "" {
		lines = append(lines, group)
	}
	if group := tagGroup("#issue/", s.Issues); group != "" {
		lines = append(lines, group)
	}
	if s.Sentiment != "" {
		lines = append(lines, "#sentiment/"+toSnake(s.Sentiment))
	}
	if group := tagGroup("#people/", s.People); group != "" {
		lines = append(lines, group)
	}

	return strings.Join(lines, "\n")
}

func tagGroup(prefix string, values []string) string {
	if len(values) == 0 {
		return ""
	}
	tags := make([]string, 0, len(values))
	for _, v := range values {
		tags = append(tags, prefix+toSnake(v))
	}
	return strings.Join(tags, ", ")
}

// BuildDocument renders the archived Markdown document for a summary.
func BuildDocument(s domain.ContentSummary, sourceLink, date string) string {
	caveats := ""
	if len(s.Caveats) > 0 {
		quoted := make([]string, 0, len(s.Caveats))
		for _, c := range s.Caveats {
			quoted = append(quoted, "> "+c)
		}
		caveats = "\n" + strings.Join(quoted, "\n") + "\n"
	}

	return fmt.Sprintf(`# %s

> Source: %s
> Added: %s

%s

%s
%s---
`, s.Title, sourceLink, date, buildTags(s), s.Summary, caveats)
}
