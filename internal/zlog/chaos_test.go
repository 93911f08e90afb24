package zlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zlogcls/zlog/internal/host"
	"github.com/zlogcls/zlog/internal/wire"
)

// These tests wrap a MemMap in host.Chaos so Dispatch's io_error paths are
// driven by genuine host faults and on-disk corruption, not by hand-writing
// an inconsistent value through obj.Set as Test_MaxPosition_Inconsistency
// does. This is the purpose SPEC_FULL.md §4.H assigns host.Chaos.

func Test_Dispatch_Reports_IOError_When_Host_Set_Fails(t *testing.T) {
	t.Parallel()

	inner := host.NewMemMap()
	require.Equal(t, StatusOK, seal(t, inner, 1))

	chaotic := host.NewChaos(inner, 1, host.ChaosConfig{SetFailRate: 1})

	reply := Dispatch(chaotic, MethodWrite, wire.WriteReq{Epoch: 1, Position: 0, Data: []byte("x")}.Encode())
	assert.Equal(t, StatusIOError, reply.Status)
	assert.ErrorIs(t, reply.Cause, host.ErrChaosInjected)
}

func Test_Dispatch_Reports_IOError_When_Host_Get_Fails(t *testing.T) {
	t.Parallel()

	inner := host.NewMemMap()
	require.Equal(t, StatusOK, seal(t, inner, 1))
	require.Equal(t, StatusOK, write(t, inner, 1, 0, "hello"))

	chaotic := host.NewChaos(inner, 2, host.ChaosConfig{GetFailRate: 1})

	reply := Dispatch(chaotic, MethodRead, wire.ReadReq{Epoch: 1, Position: 0}.Encode())
	assert.Equal(t, StatusIOError, reply.Status)
	assert.ErrorIs(t, reply.Cause, host.ErrChaosInjected)
}

// A single scrambled byte in a log_entry's frame header reliably trips a
// decode error only when it lands on the length field; elsewhere it yields a
// well-formed but wrong value, which is itself a faithful simulation of
// silent corruption. This test drives many independently seeded positions
// through CorruptGetRate:1 and requires that at least one lands on a
// decode-breaking byte, rather than asserting it of any single draw.
func Test_Dispatch_Reports_IOError_When_Host_Returns_Corrupted_LogEntry(t *testing.T) {
	t.Parallel()

	sawIOError := false
	for seed := int64(0); seed < 40; seed++ {
		inner := host.NewMemMap()
		require.Equal(t, StatusOK, seal(t, inner, 1))
		require.Equal(t, StatusOK, write(t, inner, 1, 0, "hello"))

		chaotic := host.NewChaos(inner, seed, host.ChaosConfig{CorruptGetRate: 1})
		reply := Dispatch(chaotic, MethodRead, wire.ReadReq{Epoch: 1, Position: 0}.Encode())
		if reply.Status == StatusIOError {
			sawIOError = true
			break
		}
	}

	assert.True(t, sawIOError, "expected at least one corrupted read across %d seeds to surface as io_error", 40)
}
