package bundle

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func testBundle(id string) *Bundle {
	return &Bundle{
		ID:        id,
		CreatedAt: time.Now().UTC(),
		Summary:   "Generated button",
		Files: map[string]string{
			"generated/MfButton/MfButton.jsx": "export default function(){}",
			"generated/MfButton/MfButton.css": ".mfRoot{}",
		},
		ComponentPath:  "generated/MfButton/MfButton.jsx",
		StylesheetPath: "generated/MfButton/MfButton.css",
	}
}

// ---------------------------------------------------------------------------
// MemoryStore
// ---------------------------------------------------------------------------

func TestMemoryStore_PutGet(t *testing.T) {
	s := NewMemoryStore(0, 0)
	defer s.Close()

	b := testBundle("abc123")
	if err := s.Put(b); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := s.Get("abc123")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Summary != b.Summary {
		t.Errorf("summary = %q; want %q", got.Summary, b.Summary)
	}
	if got.ComponentPath != b.ComponentPath {
		t.Errorf("component path = %q; want %q", got.ComponentPath, b.ComponentPath)
	}
	if len(got.Files) != 2 {
		t.Errorf("got %d files; want 2", len(got.Files))
	}
}

func TestMemoryStore_GetUnknown(t *testing.T) {
	s := NewMemoryStore(0, 0)
	defer s.Close()

	_, err := s.Get("nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(unknown) error = %v; want ErrNotFound", err)
	}
}

func TestMemoryStore_StoredCopyIsIsolated(t *testing.T) {
	s := NewMemoryStore(0, 0)
	defer s.Close()

	b := testBundle("abc123")
	if err := s.Put(b); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// Mutating the caller's value after Put must not affect the store.
	b.Files["generated/MfButton/MfButton.jsx"] = "clobbered"

	got, err := s.Get("abc123")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Files["generated/MfButton/MfButton.jsx"] == "clobbered" {
		t.Error("store returned the caller's mutated map, not a copy")
	}

	// And mutating a returned value must not affect later reads.
	got.Files["generated/MfButton/MfButton.css"] = "clobbered"
	again, _ := s.Get("abc123")
	if again.Files["generated/MfButton/MfButton.css"] == "clobbered" {
		t.Error("store handed out shared state between Gets")
	}
}

func TestMemoryStore_EvictsBeyondCapacity(t *testing.T) {
	s := NewMemoryStore(3, 0)
	defer s.Close()

	for i := 0; i < 5; i++ {
		if err := s.Put(testBundle(fmt.Sprintf("id-%d", i))); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}

	if got := s.Len(); got != 3 {
		t.Errorf("Len() = %d; want 3 (bounded store)", got)
	}
	// Oldest entries are the evicted ones.
	if _, err := s.Get("id-0"); !errors.Is(err, ErrNotFound) {
		t.Errorf("id-0 should have been evicted, got err=%v", err)
	}
	if _, err := s.Get("id-4"); err != nil {
		t.Errorf("id-4 should still be present: %v", err)
	}
}

// ---------------------------------------------------------------------------
// SQLiteStore
// ---------------------------------------------------------------------------

func TestSQLiteStore_PutGet(t *testing.T) {
	s, err := NewSQLiteStore(t.TempDir() + "/bundles.db")
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer s.Close()

	b := testBundle("abc123")
	if err := s.Put(b); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := s.Get("abc123")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != "abc123" {
		t.Errorf("id = %q; want abc123", got.ID)
	}
	if got.Files["generated/MfButton/MfButton.css"] != ".mfRoot{}" {
		t.Errorf("files did not round-trip: %v", got.Files)
	}
	if got.StylesheetPath != b.StylesheetPath {
		t.Errorf("stylesheet path = %q; want %q", got.StylesheetPath, b.StylesheetPath)
	}
}

func TestSQLiteStore_GetUnknown(t *testing.T) {
	s, err := NewSQLiteStore(t.TempDir() + "/bundles.db")
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer s.Close()

	_, err = s.Get("nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(unknown) error = %v; want ErrNotFound", err)
	}
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	path := t.TempDir() + "/bundles.db"

	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	if err := s.Put(testBundle("abc123")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopening: %v", err)
	}
	defer s2.Close()

	got, err := s2.Get("abc123")
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if got.Summary != "Generated button" {
		t.Errorf("summary = %q after reopen", got.Summary)
	}
}

func TestClone_DeepCopiesFiles(t *testing.T) {
	b := testBundle("abc123")
	c := b.Clone()

	c.Files["generated/MfButton/MfButton.jsx"] = "changed"
	if b.Files["generated/MfButton/MfButton.jsx"] == "changed" {
		t.Error("Clone shares the Files map with the original")
	}
}

func TestPaths_Sorted(t *testing.T) {
	b := &Bundle{Files: map[string]string{"b.css": "", "a.jsx": "", "c.test.jsx": ""}}

	got := b.Paths()
	want := []string{"a.jsx", "b.css", "c.test.jsx"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Paths() = %v; want %v", got, want)
		}
	}
}
