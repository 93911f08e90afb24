package wire

// currentVersion is the struct_version/compat_version every type in this
// package encodes at today. A future field addition bumps StructVersion and
// keeps CompatVersion at the oldest version that can still be decoded
// without the new field.
const currentVersion = 1

// SealReq is the payload for the seal method.
type SealReq struct {
	Epoch uint64
}

func (r SealReq) Encode() []byte {
	var body []byte
	body = putU64(body, r.Epoch)
	return encodeFrameHeader(frameHeader{currentVersion, currentVersion, 0}, body)
}

func DecodeSealReq(buf []byte) (SealReq, error) {
	_, body, err := decodeFrameHeader(buf)
	if err != nil {
		return SealReq{}, err
	}
	epoch, _, err := takeU64(body)
	if err != nil {
		return SealReq{}, err
	}
	return SealReq{Epoch: epoch}, nil
}

// WriteReq is the payload for the write method.
type WriteReq struct {
	Epoch    uint64
	Position uint64
	Data     []byte
}

func (r WriteReq) Encode() []byte {
	var body []byte
	body = putU64(body, r.Epoch)
	body = putU64(body, r.Position)
	body = putBytes(body, r.Data)
	return encodeFrameHeader(frameHeader{currentVersion, currentVersion, 0}, body)
}

func DecodeWriteReq(buf []byte) (WriteReq, error) {
	_, body, err := decodeFrameHeader(buf)
	if err != nil {
		return WriteReq{}, err
	}
	epoch, body, err := takeU64(body)
	if err != nil {
		return WriteReq{}, err
	}
	pos, body, err := takeU64(body)
	if err != nil {
		return WriteReq{}, err
	}
	data, _, err := takeBytes(body)
	if err != nil {
		return WriteReq{}, err
	}
	return WriteReq{Epoch: epoch, Position: pos, Data: data}, nil
}

// FillReq is the payload for the fill method.
type FillReq struct {
	Epoch    uint64
	Position uint64
}

func (r FillReq) Encode() []byte {
	var body []byte
	body = putU64(body, r.Epoch)
	body = putU64(body, r.Position)
	return encodeFrameHeader(frameHeader{currentVersion, currentVersion, 0}, body)
}

func DecodeFillReq(buf []byte) (FillReq, error) {
	_, body, err := decodeFrameHeader(buf)
	if err != nil {
		return FillReq{}, err
	}
	epoch, body, err := takeU64(body)
	if err != nil {
		return FillReq{}, err
	}
	pos, _, err := takeU64(body)
	if err != nil {
		return FillReq{}, err
	}
	return FillReq{Epoch: epoch, Position: pos}, nil
}

// ReadReq is the payload for the read method.
type ReadReq struct {
	Epoch    uint64
	Position uint64
}

func (r ReadReq) Encode() []byte {
	var body []byte
	body = putU64(body, r.Epoch)
	body = putU64(body, r.Position)
	return encodeFrameHeader(frameHeader{currentVersion, currentVersion, 0}, body)
}

func DecodeReadReq(buf []byte) (ReadReq, error) {
	_, body, err := decodeFrameHeader(buf)
	if err != nil {
		return ReadReq{}, err
	}
	epoch, body, err := takeU64(body)
	if err != nil {
		return ReadReq{}, err
	}
	pos, _, err := takeU64(body)
	if err != nil {
		return ReadReq{}, err
	}
	return ReadReq{Epoch: epoch, Position: pos}, nil
}

// MaxPositionReq is the payload for the max_position method.
type MaxPositionReq struct {
	Epoch uint64
}

func (r MaxPositionReq) Encode() []byte {
	var body []byte
	body = putU64(body, r.Epoch)
	return encodeFrameHeader(frameHeader{currentVersion, currentVersion, 0}, body)
}

func DecodeMaxPositionReq(buf []byte) (MaxPositionReq, error) {
	_, body, err := decodeFrameHeader(buf)
	if err != nil {
		return MaxPositionReq{}, err
	}
	epoch, _, err := takeU64(body)
	if err != nil {
		return MaxPositionReq{}, err
	}
	return MaxPositionReq{Epoch: epoch}, nil
}

// MaxPositionReply is the reply payload for the max_position method.
type MaxPositionReply struct {
	Position uint64
}

func (r MaxPositionReply) Encode() []byte {
	var body []byte
	body = putU64(body, r.Position)
	return encodeFrameHeader(frameHeader{currentVersion, currentVersion, 0}, body)
}

func DecodeMaxPositionReply(buf []byte) (MaxPositionReply, error) {
	_, body, err := decodeFrameHeader(buf)
	if err != nil {
		return MaxPositionReply{}, err
	}
	pos, _, err := takeU64(body)
	if err != nil {
		return MaxPositionReply{}, err
	}
	return MaxPositionReply{Position: pos}, nil
}

// GetProjectionReply is the reply payload for the get_projection method.
//
// Named epoch for parity with the reference implementation's field name
// (cls_zlog_get_projection_ret.epoch); it carries the projection counter,
// not the sealing epoch.
type GetProjectionReply struct {
	Epoch uint64
}

func (r GetProjectionReply) Encode() []byte {
	var body []byte
	body = putU64(body, r.Epoch)
	return encodeFrameHeader(frameHeader{currentVersion, currentVersion, 0}, body)
}

func DecodeGetProjectionReply(buf []byte) (GetProjectionReply, error) {
	_, body, err := decodeFrameHeader(buf)
	if err != nil {
		return GetProjectionReply{}, err
	}
	epoch, _, err := takeU64(body)
	if err != nil {
		return GetProjectionReply{}, err
	}
	return GetProjectionReply{Epoch: epoch}, nil
}

// SetProjectionReq is the payload for the set_projection method. The
// reference wire format reserves room for a future projection-descriptor
// argument that the current implementation does not interpret; Trailing
// carries any such bytes a caller supplies so a round-trip decode/encode
// does not silently drop them.
type SetProjectionReq struct {
	Trailing []byte
}

func (r SetProjectionReq) Encode() []byte {
	var body []byte
	body = putBytes(body, r.Trailing)
	return encodeFrameHeader(frameHeader{currentVersion, currentVersion, 0}, body)
}

func DecodeSetProjectionReq(buf []byte) (SetProjectionReq, error) {
	_, body, err := decodeFrameHeader(buf)
	if err != nil {
		return SetProjectionReq{}, err
	}
	if len(body) == 0 {
		return SetProjectionReq{}, nil
	}
	trailing, _, err := takeBytes(body)
	if err != nil {
		return SetProjectionReq{}, err
	}
	return SetProjectionReq{Trailing: trailing}, nil
}

// LogEntry is the on-disk record stored at each used position key.
type LogEntry struct {
	Flags uint32
	Data  []byte
}

// FlagInvalidated marks a position as filled rather than written.
const FlagInvalidated uint32 = 1 << 0

func (e LogEntry) Invalidated() bool {
	return e.Flags&FlagInvalidated != 0
}

func (e LogEntry) Encode() []byte {
	var body []byte
	body = putU32(body, e.Flags)
	body = putBytes(body, e.Data)
	return encodeFrameHeader(frameHeader{currentVersion, currentVersion, 0}, body)
}

func DecodeLogEntry(buf []byte) (LogEntry, error) {
	_, body, err := decodeFrameHeader(buf)
	if err != nil {
		return LogEntry{}, err
	}
	flags, body, err := takeU32(body)
	if err != nil {
		return LogEntry{}, err
	}
	data, _, err := takeBytes(body)
	if err != nil {
		return LogEntry{}, err
	}
	return LogEntry{Flags: flags, Data: data}, nil
}

// EncodeU64 / DecodeU64 encode the bare reserved-key values (epoch,
// projection, max_position) without a body beyond a single integer. These
// still carry the frame header so a future version could widen the stored
// value without breaking old readers.
func EncodeU64(v uint64) []byte {
	var body []byte
	body = putU64(body, v)
	return encodeFrameHeader(frameHeader{currentVersion, currentVersion, 0}, body)
}

func DecodeU64(buf []byte) (uint64, error) {
	_, body, err := decodeFrameHeader(buf)
	if err != nil {
		return 0, err
	}
	v, _, err := takeU64(body)
	if err != nil {
		return 0, err
	}
	return v, nil
}
