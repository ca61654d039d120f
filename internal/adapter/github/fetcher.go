// package github fetches student source files through the GitHub Contents API
package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/legennd48/backend-js-autograder/internal/core/ports/primary"
	"github.com/legennd48/backend-js-autograder/internal/core/ports/secondary"
)

const defaultBaseURL = "https://api.github.com"

var _ secondary.SourceFetcher = (*Fetcher)(nil)

// Fetcher implements the SourceFetcher interface against the GitHub REST API.
// A 404 from any endpoint is reported as absence, never as an error.
type Fetcher struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logger     primary.Logger
}

// NewFetcher creates a new GitHub source fetcher. An empty token makes
// unauthenticated requests, which is enough for public repositories.
func NewFetcher(token string, logger primary.Logger) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    defaultBaseURL,
		token:      token,
		logger:     logger,
	}
}

type contentsResponse struct {
	Type     string `json:"type"`
	Encoding string `json:"encoding"`
	Content  string `json:"content"`
}

// FetchFile returns the decoded content of a file, or found=false when the
// path does not exist in the repository
func (f *Fetcher) FetchFile(ctx context.Context, owner, repo, path string) (string, bool, error) {
	body, status, err := f.get(ctx, f.contentsURL(owner, repo, path))
	if err != nil {
		return "", false, err
	}
	if status == http.StatusNotFound {
		return "", false, nil
	}
	if status != http.StatusOK {
		return "", false, fmt.Errorf("github api returned status %d for %s/%s/%s", status, owner, repo, path)
	}

	var contents contentsResponse
	if err := json.Unmarshal(body, &contents); err != nil {
		return "", false, fmt.Errorf("failed to decode github response: %w", err)
	}
	if contents.Type != "" && contents.Type != "file" {
		return "", false, nil
	}

	// The API base64-encodes content with embedded newlines.
	raw := strings.ReplaceAll(contents.Content, "\n", "")
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", false, fmt.Errorf("failed to decode file content: %w", err)
	}

	return string(decoded), true, nil
}

// RepoExists reports whether the repository exists and is accessible
func (f *Fetcher) RepoExists(ctx context.Context, owner, repo string) (bool, error) {
	u := fmt.Sprintf("%s/repos/%s/%s", f.baseURL, url.PathEscape(owner), url.PathEscape(repo))
	_, status, err := f.get(ctx, u)
	if err != nil {
		return false, err
	}
	if status == http.StatusNotFound {
		return false, nil
	}
	if status != http.StatusOK {
		return false, fmt.Errorf("github api returned status %d for %s/%s", status, owner, repo)
	}
	return true, nil
}

// PathExists reports whether a file or directory exists in the repository
func (f *Fetcher) PathExists(ctx context.Context, owner, repo, path string) (bool, error) {
	_, status, err := f.get(ctx, f.contentsURL(owner, repo, path))
	if err != nil {
		return false, err
	}
	if status == http.StatusNotFound {
		return false, nil
	}
	if status != http.StatusOK {
		return false, fmt.Errorf("github api returned status %d for %s/%s/%s", status, owner, repo, path)
	}
	return true, nil
}

func (f *Fetcher) contentsURL(owner, repo, path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		f.baseURL, url.PathEscape(owner), url.PathEscape(repo), strings.Join(segments, "/"))
}

func (f *Fetcher) get(ctx context.Context, u string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build github request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		f.logger.Error("GitHub request failed", "url", u, "error", err)
		return nil, 0, fmt.Errorf("github request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read github response: %w", err)
	}

	return body, resp.StatusCode, nil
}
