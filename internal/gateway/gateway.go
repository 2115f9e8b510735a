// Package gateway wraps the external chat-completion call ModForge depends
// on. One contract: send a structured prompt, require a single-JSON-object
// response, parse it. Every failure mode (missing configuration, transport
// error, non-2xx status, unexpected shape, unparseable JSON) is folded into
// a Result rather than an error, so callers decide fallback policy in one
// place.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Config identifies the model endpoint. BaseURL and Token are required for
// the gateway to be considered configured at all.
type Config struct {
	BaseURL string
	Token   string
	Model   string
	Route   string
	Timeout time.Duration
}

// Configured reports whether the gateway has enough configuration to
// attempt a call.
func (c Config) Configured() bool {
	return c.BaseURL != "" && c.Token != ""
}

// Message is one chat turn sent to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Result is the uniform outcome of a gateway call. OK:true certifies only
// that the model's answer was a syntactically valid JSON value; semantic
// validation (expected keys present) is the caller's job.
type Result struct {
	OK      bool
	Data    json.RawMessage
	RawText string
	Reason  string
}

// Client calls an OpenAI-compatible chat-completions endpoint.
type Client struct {
	cfg  Config
	http *http.Client
}

// New creates a gateway client. Model defaults to "codestral-latest", route
// to "/v1/chat/completions", timeout to 60 seconds. The timeout is the
// bounded-suspension guarantee: a hung call comes back as a transport
// failure instead of suspending the orchestrator indefinitely.
func New(cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = "codestral-latest"
	}
	if cfg.Route == "" {
		cfg.Route = "/v1/chat/completions"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// CallJSON sends the messages and demands a single JSON object back.
// It never returns a Go error: inspect Result.OK and Result.Reason.
func (c *Client) CallJSON(ctx context.Context, messages []Message, temperature float64) Result {
	if !c.cfg.Configured() {
		return Result{Reason: "model gateway not configured"}
	}

	endpoint, err := url.JoinPath(c.cfg.BaseURL, c.cfg.Route)
	if err != nil {
		return Result{Reason: fmt.Sprintf("invalid endpoint: %v", err)}
	}

	reqBody := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     temperature,
		"messages":        messages,
		"response_format": map[string]string{"type": "json_object"},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return Result{Reason: fmt.Sprintf("encoding request: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(payload))
	if err != nil {
		return Result{Reason: fmt.Sprintf("building request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{Reason: fmt.Sprintf("calling model: %v", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{Reason: fmt.Sprintf("reading response: %v", err)}
	}
	if resp.StatusCode != http.StatusOK {
		return Result{Reason: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(body))}
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content json.RawMessage `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &completion); err != nil {
		return Result{Reason: fmt.Sprintf("parsing response: %v", err)}
	}
	if len(completion.Choices) == 0 {
		return Result{Reason: "unexpected response format"}
	}

	var content string
	if err := json.Unmarshal(completion.Choices[0].Message.Content, &content); err != nil {
		return Result{Reason: "unexpected response format"}
	}

	var obj json.RawMessage
	if err := json.Unmarshal([]byte(content), &obj); err != nil {
		return Result{RawText: content, Reason: "model did not return valid JSON"}
	}
	return Result{OK: true, Data: obj, RawText: content}
}
