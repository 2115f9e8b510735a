package server

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/modforge/modforge/internal/bundle"
	"github.com/modforge/modforge/internal/orchestrator"
)

// newTestServer builds a server with an unconfigured gateway, so every
// request takes the deterministic path.
func newTestServer() (*Server, bundle.Store) {
	store := bundle.NewMemoryStore(0, 0)
	orch := orchestrator.New(nil, store, nil)
	return New(":0", orch, store, nil), store
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshaling request: %v", err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// ---------------------------------------------------------------------------
// /health
// ---------------------------------------------------------------------------

func TestHealth(t *testing.T) {
	s, _ := newTestServer()

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; want 200", w.Code)
	}
	var body struct {
		OK   bool   `json:"ok"`
		Time string `json:"time"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if !body.OK || body.Time == "" {
		t.Errorf("health = %+v", body)
	}
}

// ---------------------------------------------------------------------------
// /api/generate
// ---------------------------------------------------------------------------

func TestGenerate_OK(t *testing.T) {
	s, store := newTestServer()

	w := postJSON(t, s.Handler(), "/api/generate", map[string]any{
		"componentName": "MfButton",
		"type":          "button",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body %s", w.Code, w.Body.String())
	}
	var body struct {
		OK     bool           `json:"ok"`
		Used   string         `json:"used"`
		Reason string         `json:"reason"`
		Bundle *bundle.Bundle `json:"bundle"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if !body.OK {
		t.Error("ok should be true")
	}
	if body.Used != "fallback" {
		t.Errorf("used = %q; want fallback (gateway unconfigured)", body.Used)
	}
	if body.Reason == "" {
		t.Error("fallback responses must carry a reason")
	}
	if len(body.Bundle.Files) != 4 {
		t.Errorf("bundle has %d files; want 4", len(body.Bundle.Files))
	}

	if _, err := store.Get(body.Bundle.ID); err != nil {
		t.Errorf("bundle not registered: %v", err)
	}
}

func TestGenerate_MissingFields(t *testing.T) {
	s, _ := newTestServer()

	w := postJSON(t, s.Handler(), "/api/generate", map[string]any{"type": "button"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d; want 400", w.Code)
	}
}

func TestGenerate_MalformedBody(t *testing.T) {
	s, _ := newTestServer()

	req := httptest.NewRequest("POST", "/api/generate", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d; want 400", w.Code)
	}
}

// ---------------------------------------------------------------------------
// /api/update
// ---------------------------------------------------------------------------

func TestUpdate_OK(t *testing.T) {
	s, _ := newTestServer()

	gen := postJSON(t, s.Handler(), "/api/generate", map[string]any{
		"componentName": "MfButton", "type": "button",
	})
	var genBody struct {
		Bundle *bundle.Bundle `json:"bundle"`
	}
	if err := json.Unmarshal(gen.Body.Bytes(), &genBody); err != nil {
		t.Fatalf("decoding generate: %v", err)
	}

	w := postJSON(t, s.Handler(), "/api/update", map[string]string{
		"bundleId":    genBody.Bundle.ID,
		"instruction": "Add size prop (sm/md/lg), default md",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body %s", w.Code, w.Body.String())
	}

	var body struct {
		OK        bool           `json:"ok"`
		Used      string         `json:"used"`
		PatchText string         `json:"patchText"`
		Bundle    *bundle.Bundle `json:"bundle"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if !body.OK || body.Used != "fallback" {
		t.Errorf("ok=%t used=%q", body.OK, body.Used)
	}
	if body.PatchText == "" {
		t.Error("update responses carry patch text")
	}
	if body.Bundle.ID == genBody.Bundle.ID {
		t.Error("update must return a new bundle id")
	}
}

func TestUpdate_MissingFields(t *testing.T) {
	s, _ := newTestServer()

	w := postJSON(t, s.Handler(), "/api/update", map[string]string{"bundleId": "x"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing instruction: status = %d; want 400", w.Code)
	}

	w = postJSON(t, s.Handler(), "/api/update", map[string]string{"instruction": "y"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing bundleId: status = %d; want 400", w.Code)
	}
}

func TestUpdate_UnknownBundle(t *testing.T) {
	s, _ := newTestServer()

	w := postJSON(t, s.Handler(), "/api/update", map[string]string{
		"bundleId": "does-not-exist", "instruction": "anything",
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d; want 404", w.Code)
	}
}

// ---------------------------------------------------------------------------
// /api/download
// ---------------------------------------------------------------------------

func TestDownload_ZipContents(t *testing.T) {
	s, store := newTestServer()

	b := &bundle.Bundle{
		ID:      "dl-test",
		Summary: "test",
		Files: map[string]string{
			"generated/MfButton/MfButton.jsx": "export default function(){}",
			"generated/MfButton/MfButton.css": ".mfRoot{}",
		},
	}
	if err := store.Put(b); err != nil {
		t.Fatalf("Put: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/download/dl-test", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "dl-test") {
		t.Errorf("Content-Disposition = %q; want the bundle id in the filename", cd)
	}

	zr, err := zip.NewReader(bytes.NewReader(w.Body.Bytes()), int64(w.Body.Len()))
	if err != nil {
		t.Fatalf("response is not a zip: %v", err)
	}
	if len(zr.File) != 2 {
		t.Fatalf("zip has %d entries; want 2", len(zr.File))
	}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("opening %s: %v", f.Name, err)
		}
		content, _ := io.ReadAll(rc)
		rc.Close()
		if string(content) != b.Files[f.Name] {
			t.Errorf("entry %s content = %q; want %q", f.Name, content, b.Files[f.Name])
		}
	}
}

func TestDownload_Unknown(t *testing.T) {
	s, _ := newTestServer()

	req := httptest.NewRequest("GET", "/api/download/nope", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d; want 404", w.Code)
	}
}

// ---------------------------------------------------------------------------
// /api/publish
// ---------------------------------------------------------------------------

func TestPublish_NotConfigured(t *testing.T) {
	s, store := newTestServer()

	if err := store.Put(&bundle.Bundle{ID: "pub-test", Files: map[string]string{"a": "b"}}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	w := postJSON(t, s.Handler(), "/api/publish", map[string]string{
		"bundleId": "pub-test", "repo": "owner/repo",
	})
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d; want 503 when publishing is not configured", w.Code)
	}
}
