package zlog

import (
	"errors"
	"fmt"

	"github.com/zlogcls/zlog/internal/host"
	"github.com/zlogcls/zlog/internal/wire"
)

// Method names the host runtime registers the core against. These match the
// reference implementation's cls_register_cxx_method names exactly.
type Method string

const (
	MethodSeal           Method = "seal"
	MethodWrite          Method = "write"
	MethodFill           Method = "fill"
	MethodRead           Method = "read"
	MethodMaxPosition    Method = "max_position"
	MethodGetProjection  Method = "get_projection"
	MethodSetProjection  Method = "set_projection"
)

// Capability describes whether a method only reads the object's map or also
// writes to it (spec.md §4.G). The core itself does not enforce this split;
// that is the host runtime's job when it registers each method. Capability
// is exposed so a host adapter can register methods correctly.
type Capability int

const (
	CapabilityReadOnly Capability = iota
	CapabilityReadWrite
)

// Capabilities maps every method this core implements to its declared
// read/write capability, mirroring the registration table in spec.md §4.G.
var Capabilities = map[Method]Capability{
	MethodSeal:          CapabilityReadWrite,
	MethodWrite:         CapabilityReadWrite,
	MethodFill:          CapabilityReadWrite,
	MethodRead:          CapabilityReadOnly,
	MethodMaxPosition:   CapabilityReadOnly,
	MethodGetProjection: CapabilityReadOnly,
	MethodSetProjection: CapabilityReadWrite,
}

// ErrUnknownMethod reports a Dispatch call for a method this core does not
// implement.
var ErrUnknownMethod = errors.New("unknown method")

// Reply is what Dispatch returns: the stable status code plus an optional
// encoded payload, and (for StatusIOError, and for StatusMalformed on an
// unregistered method) the underlying Go error for callers that want to log
// or inspect it. The core itself never logs; see SPEC_FULL.md §2's ambient
// logging note.
type Reply struct {
	Status  Status
	Payload []byte
	Cause   error
}

// Dispatch decodes input per method, applies the epoch guard and state
// machine, and encodes a reply: the single entry point described in
// spec.md §4.G and §6. It never returns a Go error itself; all failure
// modes are represented in the returned Reply.
func Dispatch(obj host.Map, method Method, input []byte) Reply {
	result, cause := dispatchRecovered(obj, method, input)
	return Reply{Status: result.status, Payload: result.reply, Cause: cause}
}

// dispatchRecovered isolates the one documented fatal assertion (the
// max_position tracker inconsistency, SPEC_FULL.md §11.1) behind a recover
// so a single corrupted object can never take down the process hosting
// Dispatch. The condition still surfaces as loudly as the reference
// implementation's assert, just as a reply instead of a crash.
func dispatchRecovered(obj host.Map, method Method, input []byte) (result opResult, cause error) {
	defer func() {
		if r := recover(); r != nil {
			err, ok := r.(error)
			if !ok {
				err = fmt.Errorf("panic: %v", r)
			}
			result = statusOnly(StatusIOError)
			cause = err
		}
	}()

	return route(obj, method, input)
}

func route(obj host.Map, method Method, input []byte) (opResult, error) {
	switch method {
	case MethodSeal:
		req, err := wire.DecodeSealReq(input)
		if err != nil {
			return statusOnly(StatusMalformed), nil
		}
		return doSeal(obj, req), nil

	case MethodWrite:
		req, err := wire.DecodeWriteReq(input)
		if err != nil {
			return statusOnly(StatusMalformed), nil
		}
		return doWrite(obj, req), nil

	case MethodFill:
		req, err := wire.DecodeFillReq(input)
		if err != nil {
			return statusOnly(StatusMalformed), nil
		}
		return doFill(obj, req), nil

	case MethodRead:
		req, err := wire.DecodeReadReq(input)
		if err != nil {
			return statusOnly(StatusMalformed), nil
		}
		return doRead(obj, req), nil

	case MethodMaxPosition:
		req, err := wire.DecodeMaxPositionReq(input)
		if err != nil {
			return statusOnly(StatusMalformed), nil
		}
		return doMaxPosition(obj, req), nil

	case MethodGetProjection:
		return doGetProjection(obj), nil

	case MethodSetProjection:
		req, err := wire.DecodeSetProjectionReq(input)
		if err != nil {
			return statusOnly(StatusMalformed), nil
		}
		return doSetProjection(obj, req), nil

	default:
		return statusOnly(StatusMalformed), fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}
}
