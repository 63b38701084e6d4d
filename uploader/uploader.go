// Package uploader publishes exported files to a GitHub repository through
// the contents API.
package uploader

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

const defaultAPI = "https://api.github.com"

type GitHubUploadRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	SHA     string `json:"sha,omitempty"`
}

type contentResponse struct {
	SHA string `json:"sha"`
}

// Publisher uploads files to one repository.
type Publisher struct {
	token  string
	repo   string
	api    string
	client *http.Client
}

type Option func(*Publisher)

// WithBaseURL points the publisher at another API root.
func WithBaseURL(u string) Option {
	return func(p *Publisher) { p.api = strings.TrimRight(u, "/") }
}

func WithHTTPClient(c *http.Client) Option {
	return func(p *Publisher) { p.client = c }
}

// New returns a publisher for repo ("owner/name") authenticating with token.
func New(token, repo string, opts ...Option) *Publisher {
	p := &Publisher{
		token:  token,
		repo:   repo,
		api:    defaultAPI,
		client: &http.Client{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Upload creates or replaces remotePath with the contents of localFile.
func (p *Publisher) Upload(ctx context.Context, remotePath, localFile, message string) error {
	fileContent, err := os.ReadFile(localFile)
	if err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}

	sha, err := p.existingSHA(ctx, remotePath)
	if err != nil {
		return err
	}

	body := GitHubUploadRequest{
		Message: message,
		Content: encodeBase64(fileContent),
		SHA:     sha,
	}
	bodyJSON, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("error marshalling JSON: %w", err)
	}

	req, err := p.newRequest(ctx, http.MethodPut, remotePath, bytes.NewBuffer(bodyJSON))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("error uploading to GitHub, status code: %d, response: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

// existingSHA returns the blob sha of remotePath, or "" when it does not exist yet.
func (p *Publisher) existingSHA(ctx context.Context, remotePath string) (string, error) {
	req, err := p.newRequest(ctx, http.MethodGet, remotePath, nil)
	if err != nil {
		return "", err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("error reading %s from GitHub, status code: %d, response: %s", remotePath, resp.StatusCode, string(respBody))
	}

	var content contentResponse
	if err := json.NewDecoder(resp.Body).Decode(&content); err != nil {
		return "", fmt.Errorf("error decoding GitHub response: %w", err)
	}
	return content.SHA, nil
}

func (p *Publisher) newRequest(ctx context.Context, method, remotePath string, body io.Reader) (*http.Request, error) {
	uploadURL := fmt.Sprintf("%s/repos/%s/contents/%s", p.api, p.repo, strings.TrimLeft(remotePath, "/"))
	req, err := http.NewRequestWithContext(ctx, method, uploadURL, body)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.token)
	req.Header.Set("Accept", "application/vnd.github+json")
	return req, nil
}

func encodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}
