package host

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/natefinch/atomic"
	"golang.org/x/sys/unix"
)

// FileMap is a disk-backed Map that snapshots an object's key/value set to a
// single file between CLI invocations. It exists for cmd/zlogctl, which has
// no long-running host process to hold a MemMap in memory across commands.
//
// FileMap is not a replacement for the real host runtime: it has none of the
// host's multi-object, multi-writer transaction machinery, only enough
// persistence for one object driven by one CLI process at a time (guarded
// by an advisory flock so two zlogctl invocations against the same snapshot
// don't race).
type FileMap struct {
	path string
	mem  *MemMap
	lock *os.File
}

// snapshotMagic identifies a FileMap snapshot file.
const snapshotMagic = "ZLOGSNAP1"

// OpenFileMap loads path into memory (or starts empty if path does not
// exist) and holds an advisory exclusive lock on it until Close, grounded on
// internal/fs/lock.go's flock(2)-based Locker.
func OpenFileMap(path string) (*FileMap, error) {
	lockPath := path + ".lock"

	lockFile, err := os.OpenFile(lockPath, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := unix.Flock(int(lockFile.Fd()), unix.LOCK_EX); err != nil {
		_ = lockFile.Close()
		return nil, fmt.Errorf("flock %s: %w", lockPath, err)
	}

	mem := NewMemMap()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// No snapshot yet; start from an empty object.
	case err != nil:
		_ = unix.Flock(int(lockFile.Fd()), unix.LOCK_UN)
		_ = lockFile.Close()
		return nil, fmt.Errorf("read snapshot: %w", err)
	default:
		values, decErr := decodeSnapshot(data)
		if decErr != nil {
			_ = unix.Flock(int(lockFile.Fd()), unix.LOCK_UN)
			_ = lockFile.Close()
			return nil, fmt.Errorf("decode snapshot: %w", decErr)
		}
		mem.LoadSnapshot(values)
	}

	return &FileMap{path: path, mem: mem, lock: lockFile}, nil
}

func (f *FileMap) Get(key string) ([]byte, error)       { return f.mem.Get(key) }
func (f *FileMap) Set(key string, value []byte) error   { return f.mem.Set(key, value) }
func (f *FileMap) Remove(key string) error              { return f.mem.Remove(key) }
func (f *FileMap) Stat() (Header, error)                { return f.mem.Stat() }

// Flush persists the current contents to disk atomically (write-to-temp,
// rename), the way the teacher writes every ticket file via
// github.com/natefinch/atomic (internal/fs/real.go, ticket.go).
func (f *FileMap) Flush() error {
	data := encodeSnapshot(f.mem.Snapshot())
	return atomic.WriteFile(f.path, bytes.NewReader(data))
}

// Close releases the advisory lock. It does not flush; callers must call
// Flush explicitly before Close if they want their changes persisted.
func (f *FileMap) Close() error {
	_ = unix.Flock(int(f.lock.Fd()), unix.LOCK_UN)
	return f.lock.Close()
}

func encodeSnapshot(values map[string][]byte) []byte {
	var buf bytes.Buffer
	buf.WriteString(snapshotMagic)

	var countBuf [8]byte
	binary.LittleEndian.PutUint64(countBuf[:], uint64(len(values)))
	buf.Write(countBuf[:])

	for k, v := range values {
		writeLenPrefixed(&buf, []byte(k))
		writeLenPrefixed(&buf, v)
	}

	return buf.Bytes()
}

func writeLenPrefixed(buf *bytes.Buffer, v []byte) {
	var lenBuf [8]byte
	binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(v)))
	buf.Write(lenBuf[:])
	buf.Write(v)
}

func decodeSnapshot(data []byte) (map[string][]byte, error) {
	if len(data) < len(snapshotMagic)+8 || string(data[:len(snapshotMagic)]) != snapshotMagic {
		return nil, fmt.Errorf("bad snapshot magic")
	}
	r := bytes.NewReader(data[len(snapshotMagic):])

	var count uint64
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("read count: %w", err)
	}

	values := make(map[string][]byte, count)
	for i := uint64(0); i < count; i++ {
		k, err := readLenPrefixed(r)
		if err != nil {
			return nil, fmt.Errorf("read key %d: %w", i, err)
		}
		v, err := readLenPrefixed(r)
		if err != nil {
			return nil, fmt.Errorf("read value %d: %w", i, err)
		}
		values[string(k)] = v
	}

	return values, nil
}

func readLenPrefixed(r io.Reader) ([]byte, error) {
	var n uint64
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}
