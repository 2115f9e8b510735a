// Package bundle defines the Bundle value type and its storage ports.
package bundle

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Bundle is an immutable, identified set of generated source files plus
// metadata, produced by one generation or update operation. Identity changes
// with content: every update mints a new ID rather than mutating in place.
//
// ComponentPath and StylesheetPath form the manifest: the canonical paths of
// the component source and stylesheet inside Files, recorded at generation
// time so consumers never have to guess by path suffix.
type Bundle struct {
	ID             string            `json:"id"`
	CreatedAt      time.Time         `json:"createdAt"`
	Summary        string            `json:"summary"`
	Files          map[string]string `json:"files"`
	ComponentPath  string            `json:"componentPath,omitempty"`
	StylesheetPath string            `json:"stylesheetPath,omitempty"`
}

// NewID mints an opaque bundle identifier.
func NewID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// Clone returns a deep copy with the same identity and metadata. Derive-then-
// patch flows clone first so the stored original is never touched.
func (b *Bundle) Clone() *Bundle {
	files := make(map[string]string, len(b.Files))
	for k, v := range b.Files {
		files[k] = v
	}
	clone := *b
	clone.Files = files
	return &clone
}

// Paths returns the file paths in sorted order.
func (b *Bundle) Paths() []string {
	paths := make([]string, 0, len(b.Files))
	for p := range b.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
