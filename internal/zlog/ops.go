package zlog

import (
	"errors"

	"github.com/zlogcls/zlog/internal/host"
	"github.com/zlogcls/zlog/internal/wire"
)

// opResult is the uninterpreted result of one operation: a status plus an
// optional reply payload already encoded by the wire package. Dispatch is
// the only place that maps this back onto the method ABI.
type opResult struct {
	status Status
	reply  []byte
}

func statusOnly(s Status) opResult { return opResult{status: s} }

// doSeal implements spec.md §4.G's distinguished seal logic: it does not
// consult checkEpoch (it is the operation that advances the guarded value).
// If no epoch has ever been stored, the request epoch is accepted
// unconditionally; otherwise the request epoch must move strictly forward.
func doSeal(obj host.Map, req wire.SealReq) opResult {
	raw, err := obj.Get(keyEpoch)
	if err != nil && !errors.Is(err, host.ErrNotFound) {
		return statusOnly(StatusIOError)
	}

	if err == nil {
		current, decErr := wire.DecodeU64(raw)
		if decErr != nil {
			return statusOnly(StatusIOError)
		}
		if req.Epoch <= current {
			return statusOnly(StatusInvalidEpoch)
		}
	}

	if err := obj.Set(keyEpoch, wire.EncodeU64(req.Epoch)); err != nil {
		return statusOnly(StatusIOError)
	}

	return statusOnly(StatusOK)
}

// doWrite implements the write transition of the position state machine
// (spec.md §4.F): unset -> written on success, no-op with StatusReadOnly
// from the written/invalidated terminal states.
func doWrite(obj host.Map, req wire.WriteReq) opResult {
	if guard := checkEpoch(obj, req.Epoch); guard != StatusOK {
		return statusOnly(guard)
	}

	key := positionKey(req.Position)

	raw, err := obj.Get(key)
	if err != nil && !errors.Is(err, host.ErrNotFound) {
		return statusOnly(StatusIOError)
	}

	if err == nil {
		// A log_entry already exists at this position (written or
		// invalidated); both are terminal for write.
		if _, decErr := wire.DecodeLogEntry(raw); decErr != nil {
			return statusOnly(StatusIOError)
		}
		return statusOnly(StatusReadOnly)
	}

	entry := wire.LogEntry{Flags: 0, Data: req.Data}
	if err := obj.Set(key, entry.Encode()); err != nil {
		return statusOnly(StatusIOError)
	}

	if status := bumpMaxPosition(obj, req.Position); status != StatusOK {
		return statusOnly(status)
	}

	return statusOnly(StatusOK)
}

// doFill implements the fill transition: unset -> invalidated, idempotent
// against an already-invalidated position, StatusReadOnly against an
// already-written one. fill never touches max_position (spec.md §4.D.2).
func doFill(obj host.Map, req wire.FillReq) opResult {
	if guard := checkEpoch(obj, req.Epoch); guard != StatusOK {
		return statusOnly(guard)
	}

	key := positionKey(req.Position)

	raw, err := obj.Get(key)
	if err != nil {
		if !errors.Is(err, host.ErrNotFound) {
			return statusOnly(StatusIOError)
		}

		entry := wire.LogEntry{Flags: wire.FlagInvalidated}
		if err := obj.Set(key, entry.Encode()); err != nil {
			return statusOnly(StatusIOError)
		}
		return statusOnly(StatusOK)
	}

	entry, decErr := wire.DecodeLogEntry(raw)
	if decErr != nil {
		return statusOnly(StatusIOError)
	}

	if entry.Invalidated() {
		return statusOnly(StatusOK)
	}

	return statusOnly(StatusReadOnly)
}

// doRead implements the read-only branch of the state machine: not_written
// for unset, the stored data for written, invalidated for filled. It never
// mutates state and never creates a pos.P entry for an unset position
// (spec.md §8 universal property).
func doRead(obj host.Map, req wire.ReadReq) opResult {
	if guard := checkEpoch(obj, req.Epoch); guard != StatusOK {
		return statusOnly(guard)
	}

	key := positionKey(req.Position)

	raw, err := obj.Get(key)
	if err != nil {
		if errors.Is(err, host.ErrNotFound) {
			return statusOnly(StatusNotWritten)
		}
		return statusOnly(StatusIOError)
	}

	entry, decErr := wire.DecodeLogEntry(raw)
	if decErr != nil {
		return statusOnly(StatusIOError)
	}

	if entry.Invalidated() {
		return statusOnly(StatusInvalidated)
	}

	return opResult{status: StatusOK, reply: entry.Data}
}

// doMaxPosition implements the read-only max_position method: not_found if
// no write has ever completed on this object, otherwise the stored
// high-water mark.
func doMaxPosition(obj host.Map, req wire.MaxPositionReq) opResult {
	if guard := checkEpoch(obj, req.Epoch); guard != StatusOK {
		return statusOnly(guard)
	}

	value, present, status := readMaxPosition(obj)
	if status != StatusOK {
		return statusOnly(status)
	}
	if !present {
		return statusOnly(StatusNotFound)
	}

	return opResult{status: StatusOK, reply: wire.MaxPositionReply{Position: value}.Encode()}
}

// doGetProjection implements the read-only get_projection method.
func doGetProjection(obj host.Map) opResult {
	value, present, status := getProjection(obj)
	if status != StatusOK {
		return statusOnly(status)
	}
	if !present {
		return statusOnly(StatusNotFound)
	}

	return opResult{status: StatusOK, reply: wire.GetProjectionReply{Epoch: value}.Encode()}
}

// doSetProjection implements set_projection: initialize-or-increment,
// always ok. It takes no epoch argument (the projection register is
// unrelated to the sealing epoch) and ignores any reserved trailing bytes
// in the request, per the Open Questions decisions in DESIGN.md.
func doSetProjection(obj host.Map, _ wire.SetProjectionReq) opResult {
	return statusOnly(setProjection(obj))
}
