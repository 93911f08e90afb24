// Package client provides a thin, typed wrapper around internal/zlog's
// Dispatch, grounded on how the teacher's CLI commands (cmd/tk/create.go,
// ls.go, ready.go) each package one call into the store package. It plays
// the role of the "client library" the specification treats as an external
// collaborator (spec.md §1): marshaling requests into opaque payloads and
// handing them to the host for execution against a named object. This
// repository's Dispatch call is in-process, not over a network: the wire
// protocol is shared, but transport is out of scope (spec.md §1's "thin
// client wrappers ... out of scope").
package client

import (
	"github.com/zlogcls/zlog/internal/host"
	"github.com/zlogcls/zlog/internal/wire"
	"github.com/zlogcls/zlog/internal/zlog"
)

// Client calls the seven log operations against one object's Map.
type Client struct {
	obj host.Map
}

// New returns a Client bound to obj.
func New(obj host.Map) *Client {
	return &Client{obj: obj}
}

// Seal advances the object's sealed epoch. It returns StatusOK on success
// and StatusInvalidEpoch if epoch did not move strictly forward.
func (c *Client) Seal(epoch uint64) zlog.Status {
	reply := zlog.Dispatch(c.obj, zlog.MethodSeal, wire.SealReq{Epoch: epoch}.Encode())
	return reply.Status
}

// Write stores data at position under epoch.
func (c *Client) Write(epoch, position uint64, data []byte) zlog.Status {
	req := wire.WriteReq{Epoch: epoch, Position: position, Data: data}
	reply := zlog.Dispatch(c.obj, zlog.MethodWrite, req.Encode())
	return reply.Status
}

// Fill invalidates position under epoch so a reader can skip it.
func (c *Client) Fill(epoch, position uint64) zlog.Status {
	req := wire.FillReq{Epoch: epoch, Position: position}
	reply := zlog.Dispatch(c.obj, zlog.MethodFill, req.Encode())
	return reply.Status
}

// Read returns the data stored at position, or a non-OK status describing
// why there is none (not_written, invalidated, stale_epoch, io_error).
func (c *Client) Read(epoch, position uint64) ([]byte, zlog.Status) {
	req := wire.ReadReq{Epoch: epoch, Position: position}
	reply := zlog.Dispatch(c.obj, zlog.MethodRead, req.Encode())
	if reply.Status != zlog.StatusOK {
		return nil, reply.Status
	}
	return reply.Payload, zlog.StatusOK
}

// MaxPosition returns the largest position with a written entry, or
// StatusNotFound if no write has ever completed.
func (c *Client) MaxPosition(epoch uint64) (uint64, zlog.Status) {
	req := wire.MaxPositionReq{Epoch: epoch}
	reply := zlog.Dispatch(c.obj, zlog.MethodMaxPosition, req.Encode())
	if reply.Status != zlog.StatusOK {
		return 0, reply.Status
	}

	decoded, err := wire.DecodeMaxPositionReply(reply.Payload)
	if err != nil {
		return 0, zlog.StatusIOError
	}
	return decoded.Position, zlog.StatusOK
}

// GetProjection returns the current projection counter, or StatusNotFound
// if set_projection has never been called.
func (c *Client) GetProjection() (uint64, zlog.Status) {
	reply := zlog.Dispatch(c.obj, zlog.MethodGetProjection, nil)
	if reply.Status != zlog.StatusOK {
		return 0, reply.Status
	}

	decoded, err := wire.DecodeGetProjectionReply(reply.Payload)
	if err != nil {
		return 0, zlog.StatusIOError
	}
	return decoded.Epoch, zlog.StatusOK
}

// SetProjection bumps the projection counter and always succeeds (barring
// host I/O failure).
func (c *Client) SetProjection() zlog.Status {
	reply := zlog.Dispatch(c.obj, zlog.MethodSetProjection, wire.SetProjectionReq{}.Encode())
	return reply.Status
}
