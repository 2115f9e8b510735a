package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func completionBody(content string) string {
	body := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
	data, _ := json.Marshal(body)
	return string(data)
}

func testClient(serverURL string) *Client {
	return New(Config{BaseURL: serverURL, Token: "test-token"})
}

// ---------------------------------------------------------------------------
// Happy path
// ---------------------------------------------------------------------------

func TestCallJSON_ValidJSONObject(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(completionBody(`{"summary":"ok","files":{"a.jsx":"x"}}`)))
	}))
	defer srv.Close()

	res := testClient(srv.URL).CallJSON(context.Background(), []Message{
		{Role: "system", Content: "sys"},
		{Role: "user", Content: "usr"},
	}, 0.1)

	if !res.OK {
		t.Fatalf("expected OK, got reason %q", res.Reason)
	}

	var payload struct {
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal(res.Data, &payload); err != nil {
		t.Fatalf("Data is not decodable: %v", err)
	}
	if payload.Summary != "ok" {
		t.Errorf("summary = %q; want ok", payload.Summary)
	}

	if gotAuth != "Bearer test-token" {
		t.Errorf("Authorization = %q; want bearer token", gotAuth)
	}
	if gotBody["model"] != "codestral-latest" {
		t.Errorf("model = %v; want default codestral-latest", gotBody["model"])
	}
	rf, _ := gotBody["response_format"].(map[string]any)
	if rf["type"] != "json_object" {
		t.Errorf("response_format = %v; want json_object constraint", gotBody["response_format"])
	}
	if gotBody["temperature"] != 0.1 {
		t.Errorf("temperature = %v; want 0.1", gotBody["temperature"])
	}
}

// ---------------------------------------------------------------------------
// Failure modes: all captured as Result, never raised
// ---------------------------------------------------------------------------

func TestCallJSON_NotConfigured(t *testing.T) {
	c := New(Config{})

	res := c.CallJSON(context.Background(), nil, 0)
	if res.OK {
		t.Fatal("unconfigured gateway should not report OK")
	}
	if res.Reason != "model gateway not configured" {
		t.Errorf("reason = %q", res.Reason)
	}
}

func TestCallJSON_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	res := testClient(srv.URL).CallJSON(context.Background(), nil, 0)
	if res.OK {
		t.Fatal("HTTP 429 should not report OK")
	}
	if !strings.Contains(res.Reason, "HTTP 429") {
		t.Errorf("reason = %q; want HTTP status", res.Reason)
	}
}

func TestCallJSON_TransportError(t *testing.T) {
	// Nothing listens on this address.
	c := New(Config{BaseURL: "http://127.0.0.1:1", Token: "x", Timeout: time.Second})

	res := c.CallJSON(context.Background(), nil, 0)
	if res.OK {
		t.Fatal("transport failure should not report OK")
	}
	if res.Reason == "" {
		t.Error("transport failure should carry a reason")
	}
}

func TestCallJSON_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	res := testClient(srv.URL).CallJSON(context.Background(), nil, 0)
	if res.OK || res.Reason != "unexpected response format" {
		t.Errorf("got OK=%t reason=%q", res.OK, res.Reason)
	}
}

func TestCallJSON_NonStringContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"content":{"nested":"object"}}}]}`))
	}))
	defer srv.Close()

	res := testClient(srv.URL).CallJSON(context.Background(), nil, 0)
	if res.OK || res.Reason != "unexpected response format" {
		t.Errorf("got OK=%t reason=%q", res.OK, res.Reason)
	}
}

func TestCallJSON_ContentNotJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completionBody("here is your component: <jsx>")))
	}))
	defer srv.Close()

	res := testClient(srv.URL).CallJSON(context.Background(), nil, 0)
	if res.OK {
		t.Fatal("prose answer should not report OK")
	}
	if res.Reason != "model did not return valid JSON" {
		t.Errorf("reason = %q", res.Reason)
	}
	if res.RawText == "" {
		t.Error("raw text should be preserved for diagnostics")
	}
}
