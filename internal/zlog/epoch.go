package zlog

import (
	"errors"

	"github.com/zlogcls/zlog/internal/host"
	"github.com/zlogcls/zlog/internal/wire"
)

// checkEpoch is the single point every non-seal method consults before
// touching any position state (spec.md §4.B). It deliberately does not
// reject a request epoch greater than the stored epoch: a client operating
// under a newer projection the storage node has not yet observed is allowed
// to proceed, on the understanding that the client is responsible for that
// epoch's legitimacy through an out-of-band seal path.
func checkEpoch(obj host.Map, requestEpoch uint64) Status {
	raw, err := obj.Get(keyEpoch)
	if err != nil {
		if errors.Is(err, host.ErrNotFound) {
			return StatusNotFound
		}
		return StatusIOError
	}

	stored, err := wire.DecodeU64(raw)
	if err != nil {
		return StatusIOError
	}

	if requestEpoch < stored {
		return StatusStaleEpoch
	}

	return StatusOK
}
