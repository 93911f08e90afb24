package zlog

import (
	"errors"

	"github.com/zlogcls/zlog/internal/host"
	"github.com/zlogcls/zlog/internal/wire"
)

// getProjection reads the projection register. present is false if
// set_projection has never been called on this object.
func getProjection(obj host.Map) (value uint64, present bool, status Status) {
	raw, err := obj.Get(keyProjection)
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

// setProjection advances the coordination counter: initializes to 0 if
// absent, otherwise increments by 1. It takes no epoch argument and always
// succeeds once the host I/O does, unrelated to the sealing epoch.
func setProjection(obj host.Map) Status {
	current, present, status := getProjection(obj)
	if status != StatusOK {
		return status
	}

	next := current
	if present {
		next = current + 1
	}

	if err := obj.Set(keyProjection, wire.EncodeU64(next)); err != nil {
		return StatusIOError
	}

	return StatusOK
}
