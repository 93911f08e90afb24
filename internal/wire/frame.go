// Package wire implements the versioned, length-prefixed encoding used for
// every request, reply, and on-disk log entry the core exchanges with the
// host. Every encodable type carries a (struct_version, compat_version,
// length) framing header so a reader built against an older compat_version
// can skip fields written by a newer writer instead of failing to decode.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrMalformed reports a framing or field decode failure. Callers should use
// errors.Is(err, ErrMalformed).
var ErrMalformed = errors.New("malformed")

// frameHeaderSize is the fixed width of (struct_version, compat_version,
// length), each a little-endian uint32.
const frameHeaderSize = 12

// frameHeader is the per-type versioning prefix written ahead of every
// encoded body.
type frameHeader struct {
	StructVersion uint32
	CompatVersion uint32
	Length        uint32 // length of the body that follows the header
}

func encodeFrameHeader(h frameHeader, body []byte) []byte {
	buf := make([]byte, frameHeaderSize+len(body))
	binary.LittleEndian.PutUint32(buf[0:4], h.StructVersion)
	binary.LittleEndian.PutUint32(buf[4:8], h.CompatVersion)
	binary.LittleEndian.PutUint32(buf[8:12], uint32(len(body)))
	copy(buf[frameHeaderSize:], body)
	return buf
}

// decodeFrameHeader reads the framing header and returns the declared body
// along with any bytes the writer appended beyond what this reader knows
// about (forward compatibility: readers must tolerate, not reject, a longer
// declared length than their own field set consumes).
func decodeFrameHeader(buf []byte) (frameHeader, []byte, error) {
	if len(buf) < frameHeaderSize {
		return frameHeader{}, nil, fmt.Errorf("%w: truncated frame header", ErrMalformed)
	}

	h := frameHeader{
		StructVersion: binary.LittleEndian.Uint32(buf[0:4]),
		CompatVersion: binary.LittleEndian.Uint32(buf[4:8]),
		Length:        binary.LittleEndian.Uint32(buf[8:12]),
	}

	rest := buf[frameHeaderSize:]
	if uint64(h.Length) > uint64(len(rest)) {
		return frameHeader{}, nil, fmt.Errorf("%w: declared length %d exceeds available %d bytes", ErrMalformed, h.Length, len(rest))
	}

	return h, rest[:h.Length], nil
}

// putU64 appends a little-endian uint64.
func putU64(buf []byte, v uint64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return append(buf, tmp[:]...)
}

// takeU64 consumes a little-endian uint64 from the front of buf.
func takeU64(buf []byte) (uint64, []byte, error) {
	if len(buf) < 8 {
		return 0, nil, fmt.Errorf("%w: truncated u64", ErrMalformed)
	}
	return binary.LittleEndian.Uint64(buf[:8]), buf[8:], nil
}

// putU32 appends a little-endian uint32.
func putU32(buf []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(buf, tmp[:]...)
}

// takeU32 consumes a little-endian uint32 from the front of buf.
func takeU32(buf []byte) (uint32, []byte, error) {
	if len(buf) < 4 {
		return 0, nil, fmt.Errorf("%w: truncated u32", ErrMalformed)
	}
	return binary.LittleEndian.Uint32(buf[:4]), buf[4:], nil
}

// putBytes appends a length-prefixed byte string.
func putBytes(buf []byte, v []byte) []byte {
	buf = putU32(buf, uint32(len(v)))
	return append(buf, v...)
}

// takeBytes consumes a length-prefixed byte string from the front of buf.
// The declared length must not exceed the bytes actually available.
func takeBytes(buf []byte) ([]byte, []byte, error) {
	n, rest, err := takeU32(buf)
	if err != nil {
		return nil, nil, err
	}
	if uint64(n) > uint64(len(rest)) {
		return nil, nil, fmt.Errorf("%w: byte string length %d exceeds available %d bytes", ErrMalformed, n, len(rest))
	}
	out := make([]byte, n)
	copy(out, rest[:n])
	return out, rest[n:], nil
}
