package host

import (
	"maps"
	"sync"
)

// MemMap is an in-process reference implementation of Map: one mutex-guarded
// map per object. It commits every Set/Remove under the same lock a Get
// takes, so each individual call is atomic (see SPEC_FULL.md §5). There is no
// multi-statement transaction: a Dispatch that issues several Sets (a write
// stores the log entry and then max_position) commits them one by one, and
// MemMap does not roll back an earlier Set if a later one fails.
//
// MemMap has no durability of its own; it is the in-process stand-in for the
// host runtime, not a replacement for it. For a disk-backed Map, see FileMap.
type MemMap struct {
	mu     sync.Mutex
	values map[string][]byte
}

// NewMemMap returns an empty, ready-to-use MemMap.
func NewMemMap() *MemMap {
	return &MemMap{values: make(map[string][]byte)}
}

func (m *MemMap) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	// Return a copy: the caller must not be able to mutate our stored bytes
	// by mutating the slice it was handed back.
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *MemMap) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	m.values[key] = stored
	return nil
}

func (m *MemMap) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}

func (m *MemMap) Stat() (Header, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Header{KeyCount: len(m.values)}, nil
}

// Snapshot returns a shallow copy of the current key set, for tests and for
// FileMap's persistence path.
func (m *MemMap) Snapshot() map[string][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()

	return maps.Clone(m.values)
}

// LoadSnapshot replaces the current contents with the given key set.
func (m *MemMap) LoadSnapshot(values map[string][]byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values = maps.Clone(values)
	if m.values == nil {
		m.values = make(map[string][]byte)
	}
}
