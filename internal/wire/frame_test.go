package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_DecodeFrameHeader_Returns_Malformed_When_Buffer_Shorter_Than_Header(t *testing.T) {
	t.Parallel()

	for n := 0; n < frameHeaderSize; n++ {
		_, _, err := decodeFrameHeader(make([]byte, n))
		require.ErrorIs(t, err, ErrMalformed)
	}
}

func Test_DecodeFrameHeader_Returns_Malformed_When_Declared_Length_Exceeds_Available(t *testing.T) {
	t.Parallel()

	buf := encodeFrameHeader(frameHeader{StructVersion: 1, CompatVersion: 1}, []byte("abc"))
	buf = buf[:len(buf)-1] // drop the last body byte without fixing up the length

	_, _, err := decodeFrameHeader(buf)
	require.ErrorIs(t, err, ErrMalformed)
}

func Test_DecodeFrameHeader_Returns_Exact_Body_When_Valid(t *testing.T) {
	t.Parallel()

	body := []byte("payload")
	buf := encodeFrameHeader(frameHeader{StructVersion: 3, CompatVersion: 2}, body)

	h, gotBody, err := decodeFrameHeader(buf)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), h.StructVersion)
	assert.Equal(t, uint32(2), h.CompatVersion)
	assert.Equal(t, body, gotBody)
}

func Test_TakeBytes_Returns_Malformed_When_Declared_Length_Exceeds_Available(t *testing.T) {
	t.Parallel()

	buf := putBytes(nil, []byte("hello"))
	buf = buf[:len(buf)-1]

	_, _, err := takeBytes(buf)
	require.ErrorIs(t, err, ErrMalformed)
}

func Test_TakeU64_And_TakeU32_Round_Trip_Through_Put(t *testing.T) {
	t.Parallel()

	u64, rest, err := takeU64(putU64(nil, 0xDEADBEEFCAFE))
	require.NoError(t, err)
	assert.Equal(t, uint64(0xDEADBEEFCAFE), u64)
	assert.Empty(t, rest)

	u32, rest, err := takeU32(putU32(nil, 0xABCD1234))
	require.NoError(t, err)
	assert.Equal(t, uint32(0xABCD1234), u32)
	assert.Empty(t, rest)
}
