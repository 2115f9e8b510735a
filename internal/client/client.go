// Package client is the HTTP client for the ModForge API, used by the CLI.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/modforge/modforge/internal/bundle"
	"github.com/modforge/modforge/internal/spec"
)

// Client talks to a running ModForge server.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the given server base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 5 * time.Minute},
	}
}

// GenerateResult is the server's answer to a generate call.
type GenerateResult struct {
	Used   string         `json:"used"`
	Reason string         `json:"reason,omitempty"`
	Bundle *bundle.Bundle `json:"bundle"`
}

// UpdateResult is the server's answer to an update call.
type UpdateResult struct {
	Used      string         `json:"used"`
	Reason    string         `json:"reason,omitempty"`
	PatchText string         `json:"patchText"`
	Bundle    *bundle.Bundle `json:"bundle"`
}

// PublishResult is the server's answer to a publish call.
type PublishResult struct {
	Branch string `json:"branch"`
	URL    string `json:"url"`
}

// Generate asks the server to produce a new component bundle.
func (c *Client) Generate(ctx context.Context, s spec.ComponentSpec) (*GenerateResult, error) {
	var out GenerateResult
	if err := c.postJSON(ctx, "/api/generate", s, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update asks the server to apply an instruction to an existing bundle.
func (c *Client) Update(ctx context.Context, bundleID, instruction string) (*UpdateResult, error) {
	body := map[string]string{"bundleId": bundleID, "instruction": instruction}
	var out UpdateResult
	if err := c.postJSON(ctx, "/api/update", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Publish asks the server to export a bundle to a GitHub repository.
func (c *Client) Publish(ctx context.Context, bundleID, repo string) (*PublishResult, error) {
	body := map[string]string{"bundleId": bundleID, "repo": repo}
	var out PublishResult
	if err := c.postJSON(ctx, "/api/publish", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Download fetches the zip archive of a bundle's files.
func (c *Client) Download(ctx context.Context, bundleID string) ([]byte, error) {
	u, err := url.JoinPath(c.baseURL, "/api/download", bundleID)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling server: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}
	return io.ReadAll(resp.Body)
}

// Health checks that the server is up.
func (c *Client) Health(ctx context.Context) error {
	u, err := url.JoinPath(c.baseURL, "/health")
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling server: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, route string, in, out any) error {
	u, err := url.JoinPath(c.baseURL, route)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling server: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func apiError(resp *http.Response) error {
	var e struct {
		Error string `json:"error"`
	}
	body, _ := io.ReadAll(resp.Body)
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, e.Error)
	}
	return fmt.Errorf("server returned %d", resp.StatusCode)
}
