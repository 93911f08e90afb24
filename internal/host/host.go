// Package host provides in-process stand-ins for the per-object
// transactional key/value map the real storage-node host runtime exposes.
// The core (internal/zlog) only ever talks to the Map interface; it never
// assumes a particular backing implementation, exactly as the specification
// treats the host runtime as an opaque external collaborator.
package host

import "errors"

// ErrNotFound reports that a requested key has no value. Callers should use
// errors.Is(err, ErrNotFound).
var ErrNotFound = errors.New("not found")

// Header is the subset of per-object metadata Stat exposes. The real host
// runtime's header carries far more (size, mtime, xattrs); this core only
// ever needs the key count for diagnostics.
type Header struct {
	KeyCount int
}

// Map is the per-object transactional key/value map the core mutates. A
// single call into the core (one Dispatch) must appear as one atomic commit
// against a Map: either every Set it issues is visible afterward, or none
// are. Implementations provide that atomicity; the core never manages it
// itself.
type Map interface {
	// Get returns the stored value for key, or ErrNotFound if absent.
	Get(key string) ([]byte, error)
	// Set stores value under key, creating the key if it does not exist.
	Set(key string, value []byte) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(key string) error
	// Stat reports per-object metadata.
	Stat() (Header, error)
}
