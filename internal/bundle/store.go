package bundle

import "errors"

// ErrNotFound is returned by Store.Get for an unknown bundle ID.
var ErrNotFound = errors.New("bundle not found")

// Store is the bundle persistence port. Orchestrators receive a Store at
// construction time; the backing (bounded in-memory map, SQLite) is a
// deployment choice, not something the orchestration logic knows about.
//
// Stores are append-only from the caller's perspective: updates Put a new
// bundle under a new ID, they never rewrite an existing entry.
type Store interface {
	Put(b *Bundle) error
	Get(id string) (*Bundle, error)
	Close() error
}
