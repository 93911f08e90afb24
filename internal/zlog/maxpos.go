package zlog

import (
	"errors"
	"fmt"

	"github.com/zlogcls/zlog/internal/host"
	"github.com/zlogcls/zlog/internal/wire"
)

// errMaxPositionInconsistent is the fatal assertion from spec.md §4.D.3 /
// SPEC_FULL.md §11.1: max_position already equals the position a write is
// about to claim, which can only happen if the position index and the
// max-position tracker have drifted out of sync. It is recovered by
// Dispatch's top-level recover and reported as StatusIOError; it never
// propagates past this package as a panic.
type errMaxPositionInconsistent struct {
	position uint64
}

func (e *errMaxPositionInconsistent) Error() string {
	return fmt.Sprintf("max_position tracker inconsistency: position %d already has a written entry", e.position)
}

// readMaxPosition returns the stored high-water mark, or (0, false, StatusOK)
// if none has ever been recorded (StatusNotFound territory for the public
// max_position method).
func readMaxPosition(obj host.Map) (value uint64, present bool, status Status) {
	raw, err := obj.Get(keyMaxPos)
	if err != nil {
		if errors.Is(err, host.ErrNotFound) {
			return 0, false, StatusOK
		}
		return 0, false, StatusIOError
	}

	v, err := wire.DecodeU64(raw)
	if err != nil {
		return 0, false, StatusIOError
	}

	return v, true, StatusOK
}

// bumpMaxPosition applies the max-position tracker's update rule after a
// successful write to position: initialize it if absent, raise it if
// position exceeds the current value, otherwise leave it untouched. It
// panics (see errMaxPositionInconsistent) if position already equals the
// current high-water mark, since a write to that position should never have
// reached the unset branch of the state machine in the first place.
func bumpMaxPosition(obj host.Map, position uint64) Status {
	current, present, status := readMaxPosition(obj)
	if status != StatusOK {
		return status
	}

	if present && position == current {
		panic(&errMaxPositionInconsistent{position: position})
	}

	if !present || position > current {
		if err := obj.Set(keyMaxPos, wire.EncodeU64(position)); err != nil {
			return StatusIOError
		}
	}

	return StatusOK
}
