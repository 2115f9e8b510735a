// Package timeline tracks the version history of one component session: an
// append-only sequence of bundles with a movable active cursor. The whole
// structure is JSON-serializable so the CLI can persist it between runs.
package timeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/modforge/modforge/internal/bundle"
)

var (
	// ErrIndexOutOfRange is returned by Select for an index with no entry.
	ErrIndexOutOfRange = errors.New("version index out of range")
	// ErrNoActiveVersion is returned when an operation needs an active
	// entry and the timeline is empty.
	ErrNoActiveVersion = errors.New("no active version")
)

const labelMax = 40

// Entry is a single version in the timeline.
type Entry struct {
	ID        string         `json:"id"`
	Label     string         `json:"label"`
	CreatedAt time.Time      `json:"createdAt"`
	PatchText string         `json:"patchText"`
	Bundle    *bundle.Bundle `json:"bundle"`
}

// Controls holds the transient preview toggles. They belong to the session,
// not to any version, and reset when the cursor moves.
type Controls struct {
	Label    string `json:"label"`
	Variant  string `json:"variant"`
	Size     string `json:"size"`
	Loading  bool   `json:"loading"`
	Disabled bool   `json:"disabled"`
}

// Caps reports which demo controls are available. Controls unlock as the
// session iterates: loading and disabled once version 1 has been reached,
// size once version 2 has been reached.
type Caps struct {
	Loading  bool `json:"loading"`
	Disabled bool `json:"disabled"`
	Size     bool `json:"size"`
}

func defaultControls() Controls {
	return Controls{Label: "Continue", Variant: "primary", Size: "md"}
}

// Timeline is the session state machine. Zero entries means no generation
// has happened yet; after that the active cursor always points at a valid
// entry.
type Timeline struct {
	Entries  []Entry  `json:"entries"`
	Active   int      `json:"active"`
	Deepest  int      `json:"deepest"`
	Controls Controls `json:"controls"`
}

// New returns an empty timeline.
func New() *Timeline {
	return &Timeline{Active: -1, Deepest: -1, Controls: defaultControls()}
}

// Empty reports whether no version has been generated yet.
func (t *Timeline) Empty() bool { return len(t.Entries) == 0 }

// ActiveEntry returns the entry under the cursor, or nil when empty.
func (t *Timeline) ActiveEntry() *Entry {
	if t.Active < 0 || t.Active >= len(t.Entries) {
		return nil
	}
	return &t.Entries[t.Active]
}

// ActiveBundle returns the bundle under the cursor, or nil when empty.
func (t *Timeline) ActiveBundle() *bundle.Bundle {
	e := t.ActiveEntry()
	if e == nil {
		return nil
	}
	return e.Bundle
}

// Begin records a fresh generation. Any prior history is discarded: a new
// base component starts a new timeline, it never appends to one started
// from a different spec.
func (t *Timeline) Begin(b *bundle.Bundle) {
	t.Entries = []Entry{{
		ID:        b.ID,
		Label:     "v0 · Base component",
		CreatedAt: time.Now().UTC(),
		Bundle:    b,
	}}
	t.Active = 0
	t.Deepest = 0
	t.Controls = defaultControls()
}

// Append records an update produced from the given instruction and moves
// the cursor to the new entry.
func (t *Timeline) Append(b *bundle.Bundle, instruction, patchText string) error {
	if t.Empty() {
		return ErrNoActiveVersion
	}
	idx := len(t.Entries)
	t.Entries = append(t.Entries, Entry{
		ID:        b.ID,
		Label:     fmt.Sprintf("v%d · %s", idx, truncate(instruction, labelMax)),
		CreatedAt: time.Now().UTC(),
		PatchText: patchText,
		Bundle:    b,
	})
	t.Active = idx
	if idx > t.Deepest {
		t.Deepest = idx
	}
	return nil
}

// Select moves the active cursor to a historical version. Only the cursor
// and the transient controls change: no entry's files are touched.
func (t *Timeline) Select(index int) error {
	if index < 0 || index >= len(t.Entries) {
		return ErrIndexOutOfRange
	}
	t.Active = index
	t.Controls = defaultControls()
	return nil
}

// FeatureCaps returns the demo controls unlocked so far. Gating follows the
// deepest index reached this session, so time-traveling back to v0 does not
// re-lock controls already earned.
func (t *Timeline) FeatureCaps() Caps {
	if t.Deepest < 0 {
		return Caps{}
	}
	return Caps{
		Loading:  t.Deepest >= 1,
		Disabled: t.Deepest >= 1,
		Size:     t.Deepest >= 2,
	}
}

// EditActiveFile overwrites one file of the active entry's bundle in place.
// This is the one sanctioned mutation of an existing bundle: user-initiated
// edits do not mint a new version.
func (t *Timeline) EditActiveFile(path, content string) error {
	e := t.ActiveEntry()
	if e == nil {
		return ErrNoActiveVersion
	}
	if _, ok := e.Bundle.Files[path]; !ok {
		return fmt.Errorf("no file %q in active bundle", path)
	}
	e.Bundle.Files[path] = content
	return nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
