// Package archive persists summaries and attachments into a remote GitHub
// repository through the contents API.
package archive

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/go-github/v66/github"

	"ReadingScribe/internal/config"
	"ReadingScribe/internal/ports"
)

// GitHubStore implements ports.ArchiveStore against one repository/branch,
// optionally scoped under a path prefix.
type GitHubStore struct {
	client *github.Client
	owner  string
	repo   string
	branch string
	prefix string
	logger *slog.Logger
}

var _ ports.ArchiveStore = (*GitHubStore)(nil)

// NewGitHubStore builds a token-authenticated store from configuration.
func NewGitHubStore(cfg config.ArchiveConfig, logger *slog.Logger) (*GitHubStore, error) {
	owner, repo, ok := strings.Cut(cfg.Repo, "/")
	if !ok || owner == "" || repo == "" {
		return nil, fmt.Errorf("invalid archive repo %q, want owner/name", cfg.Repo)
	}

	branch := cfg.Branch
	if branch == "" {
		branch = "main"
	}

	return &GitHubStore{
		client: github.NewClient(nil).WithAuthToken(cfg.Token),
		owner:  owner,
		repo:   repo,
		branch: branch,
		prefix: strings.Trim(cfg.PathPrefix, "/"),
		logger: logger,
	}, nil
}

// fullPath rewrites a relative path under the configured prefix.
func (s *GitHubStore) fullPath(path string) string {
	path = strings.TrimPrefix(path, "/")
	if s.prefix == "" {
		return path
	}
	return s.prefix + "/" + path
}

// ReadFile returns the decoded text content of path; a missing file is
// signaled via the bool, not an error.
func (s *GitHubStore) ReadFile(ctx context.Context, path string) (string, bool, error) {
	full := s.fullPath(path)

	file, _, resp, err := s.client.Repositories.GetContents(ctx, s.owner, s.repo, full,
		&github.RepositoryContentGetOptions{Ref: s.branch})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get contents %s: %w", full, err)
	}
	if file == nil {
		return "", false, fmt.Errorf("%s is a directory", full)
	}

	content, err := file.GetContent()
	if err != nil {
		return "", false, fmt.Errorf("decode %s: %w", full, err)
	}

	return content, true, nil
}

// WriteFile creates path or, when it already exists, updates it in place using
// its current blob SHA so an unrelated concurrent edit is not silently
// overwritten.
func (s *GitHubStore) WriteFile(ctx context.Context, path, message string, content []byte) (string, error) {
	full := s.fullPath(path)

	opts := &github.RepositoryContentFileOptions{
		Message: github.String(message),
		Content: content,
		Branch:  github.String(s.branch),
	}

	existing, _, resp, err := s.client.Repositories.GetContents(ctx, s.owner, s.repo, full,
		&github.RepositoryContentGetOptions{Ref: s.branch})
	switch {
	case err == nil && existing != nil:
		opts.SHA = existing.SHA
		if _, _, err := s.client.Repositories.UpdateFile(ctx, s.owner, s.repo, full, opts); err != nil {
			return "", fmt.Errorf("update %s: %w", full, err)
		}
		s.debug("file updated", "path", full)
		return fmt.Sprintf("Updated %s", full), nil
	case resp != nil && resp.StatusCode == http.StatusNotFound:
		if _, _, err := s.client.Repositories.CreateFile(ctx, s.owner, s.repo, full, opts); err != nil {
			return "", fmt.Errorf("create %s: %w", full, err)
		}
		s.debug("file created", "path", full)
		return fmt.Sprintf("Created %s", full), nil
	default:
		if err == nil {
			err = fmt.Errorf("not a file")
		}
		return "", fmt.Errorf("check %s: %w", full, err)
	}
}

// FileURL returns the browsable URL of path on the configured branch.
func (s *GitHubStore) FileURL(path string) string {
	return fmt.Sprintf("https://github.com/%s/%s/blob/%s/%s", s.owner, s.repo, s.branch, s.fullPath(path))
}

func (s *GitHubStore) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
