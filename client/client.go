// Package client is a typed HTTP client for a running minigit server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bellarboulter/MiniGit/api"
)

// APIError is a non-2xx response decoded from the server's error payload
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

// Client talks to one minigit server
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a client for the server at baseURL
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL cannot be empty")
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid baseURL: %w", err)
	}

	c := &Client{
		baseURL:   baseURL,
		userAgent: "minigit-client/" + api.Version,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// CreateRepo creates a new empty repository on the server
func (c *Client) CreateRepo(ctx context.Context, name string) (*api.RepoResponse, error) {
	var resp api.RepoResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/repos", api.CreateRepoRequest{Name: name}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListRepos returns the names of all repositories on the server
func (c *Client) ListRepos(ctx context.Context) ([]string, error) {
	var resp api.RepoListResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/repos", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Repositories, nil
}

// GetRepo returns head, size, and description for one repository
func (c *Client) GetRepo(ctx context.Context, name string) (*api.RepoResponse, error) {
	var resp api.RepoResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/repos/"+url.PathEscape(name), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteRepo removes a repository from the server
func (c *Client) DeleteRepo(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/repos/"+url.PathEscape(name), nil, nil)
}

// Commit appends a commit and returns its identifier
func (c *Client) Commit(ctx context.Context, repo, message string) (string, error) {
	var resp api.CommitCreatedResponse
	path := "/api/v1/repos/" + url.PathEscape(repo) + "/commits"
	if err := c.do(ctx, http.MethodPost, path, api.CommitRequest{Message: message}, &resp); err != nil {
		return "", err
	}
	return resp.CommitID, nil
}

// History returns the descriptions of the n most recent commits
func (c *Client) History(ctx context.Context, repo string, n int) (string, error) {
	var resp api.HistoryResponse
	path := "/api/v1/repos/" + url.PathEscape(repo) + "/commits?limit=" + strconv.Itoa(n)
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return "", err
	}
	return resp.History, nil
}

// Contains reports whether the repository chain holds the given commit
func (c *Client) Contains(ctx context.Context, repo, commitID string) (bool, error) {
	path := "/api/v1/repos/" + url.PathEscape(repo) + "/commits/" + url.PathEscape(commitID)
	err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Code == "COMMIT_NOT_FOUND" {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Drop removes a commit from the repository chain
func (c *Client) Drop(ctx context.Context, repo, commitID string) (bool, error) {
	path := "/api/v1/repos/" + url.PathEscape(repo) + "/commits/" + url.PathEscape(commitID)
	err := c.do(ctx, http.MethodDelete, path, nil, nil)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Code == "COMMIT_NOT_FOUND" {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Synchronize moves every commit from source into target
func (c *Client) Synchronize(ctx context.Context, target, source string) (*api.SyncResponse, error) {
	var resp api.SyncResponse
	path := "/api/v1/repos/" + url.PathEscape(target) + "/sync"
	if err := c.do(ctx, http.MethodPost, path, api.SyncRequest{Source: source}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Health checks the server health endpoint
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	var resp api.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// do performs one request and decodes either the success payload into out or
// the error payload into an APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || resp.StatusCode == http.StatusNoContent {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode}
	var errResp api.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil {
		apiErr.Code = errResp.Code
		apiErr.Message = errResp.Error
	}
	return apiErr
}
