package zlog

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/zlogcls/zlog/internal/host"
	"github.com/zlogcls/zlog/internal/wire"
)

// byteStream reads bytes sequentially from a fixed slice, returning zero
// values once exhausted so the same input always drives the same sequence
// of generated operations. Grounded on the teacher's fuzz-driven operation
// generator (internal/testutil/bytestream.go, opgen.go), rewritten here
// against this core's seven operations instead of the ticket domain's.
type byteStream struct {
	bytes []byte
	pos   int
}

func (s *byteStream) next() byte {
	if s.pos >= len(s.bytes) {
		return 0
	}
	v := s.bytes[s.pos]
	s.pos++
	return v
}

func (s *byteStream) nextInt(maxVal int) int {
	if maxVal <= 0 {
		return 0
	}
	return int(s.next()) % maxVal
}

// positionState mirrors the tri-state lifecycle of spec.md §4.F. The model
// tracks it in plain Go state; the real Dispatch is expected to agree with
// it at every step.
type positionState int

const (
	posUnset positionState = iota
	posWritten
	posInvalidated
)

// model is the oracle: a minimal, obviously-correct re-derivation of
// spec.md §3-4's persisted state, kept entirely in memory and compared
// against the real Dispatch-driven object after every operation.
type model struct {
	epoch       uint64
	epochSet    bool
	projection  uint64
	projSet     bool
	maxPosition uint64
	maxSet      bool
	positions   map[uint64]positionState
	data        map[uint64]string
}

func newModel() *model {
	return &model{positions: make(map[uint64]positionState), data: make(map[uint64]string)}
}

func (m *model) seal(epoch uint64) Status {
	if !m.epochSet {
		m.epoch = epoch
		m.epochSet = true
		return StatusOK
	}
	if epoch <= m.epoch {
		return StatusInvalidEpoch
	}
	m.epoch = epoch
	return StatusOK
}

func (m *model) checkEpoch(epoch uint64) Status {
	if !m.epochSet {
		return StatusNotFound
	}
	if epoch < m.epoch {
		return StatusStaleEpoch
	}
	return StatusOK
}

func (m *model) write(epoch, position uint64, data string) Status {
	if s := m.checkEpoch(epoch); s != StatusOK {
		return s
	}
	if m.positions[position] != posUnset {
		return StatusReadOnly
	}
	m.positions[position] = posWritten
	m.data[position] = data
	if !m.maxSet || position > m.maxPosition {
		m.maxPosition = position
		m.maxSet = true
	}
	return StatusOK
}

func (m *model) fill(epoch, position uint64) Status {
	if s := m.checkEpoch(epoch); s != StatusOK {
		return s
	}
	switch m.positions[position] {
	case posUnset:
		m.positions[position] = posInvalidated
		return StatusOK
	case posInvalidated:
		return StatusOK
	default: // posWritten
		return StatusReadOnly
	}
}

func (m *model) read(epoch, position uint64) (Status, string) {
	if s := m.checkEpoch(epoch); s != StatusOK {
		return s, ""
	}
	switch m.positions[position] {
	case posUnset:
		return StatusNotWritten, ""
	case posInvalidated:
		return StatusInvalidated, ""
	default:
		return StatusOK, m.data[position]
	}
}

func (m *model) maxPos(epoch uint64) (Status, uint64) {
	if s := m.checkEpoch(epoch); s != StatusOK {
		return s, 0
	}
	if !m.maxSet {
		return StatusNotFound, 0
	}
	return StatusOK, m.maxPosition
}

func (m *model) getProjection() (Status, uint64) {
	if !m.projSet {
		return StatusNotFound, 0
	}
	return StatusOK, m.projection
}

func (m *model) setProjection() Status {
	if !m.projSet {
		m.projection = 0
		m.projSet = true
		return StatusOK
	}
	m.projection++
	return StatusOK
}

func Test_Dispatch_Agrees_With_Reference_Model_Across_Randomized_Operation_Sequences(t *testing.T) {
	t.Parallel()

	seeds := [][]byte{
		{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		{255, 0, 128, 64, 32, 16, 8, 4, 2, 1, 7, 7, 7},
		{9, 9, 1, 1, 2, 2, 3, 5, 8, 13, 21, 34, 55, 89, 255, 255, 0, 0},
		{42},
		{},
	}

	for _, seed := range seeds {
		stream := &byteStream{bytes: seed}
		obj := host.NewMemMap()
		m := newModel()

		const numOps = 200
		const numPositions = 6
		const numEpochs = 4

		for i := 0; i < numOps; i++ {
			epoch := uint64(stream.nextInt(numEpochs))
			position := uint64(stream.nextInt(numPositions))

			switch stream.nextInt(6) {
			case 0:
				got := seal(t, obj, epoch)
				want := m.seal(epoch)
				requireStatusEqual(t, want, got, "seal", i)

			case 1:
				data := "d" + string(rune('a'+stream.nextInt(26)))
				got := write(t, obj, epoch, position, data)
				want := m.write(epoch, position, data)
				requireStatusEqual(t, want, got, "write", i)

			case 2:
				got := fill(t, obj, epoch, position)
				want := m.fill(epoch, position)
				requireStatusEqual(t, want, got, "fill", i)

			case 3:
				gotStatus, gotData := read(t, obj, epoch, position)
				wantStatus, wantData := m.read(epoch, position)
				requireStatusEqual(t, wantStatus, gotStatus, "read", i)
				if wantStatus == StatusOK {
					if diff := cmp.Diff(wantData, string(gotData)); diff != "" {
						t.Fatalf("op %d read payload mismatch (-want +got):\n%s", i, diff)
					}
				}

			case 4:
				gotStatus, gotPos := maxPosition(t, obj, epoch)
				wantStatus, wantPos := m.maxPos(epoch)
				requireStatusEqual(t, wantStatus, gotStatus, "max_position", i)
				if wantStatus == StatusOK && wantPos != gotPos {
					t.Fatalf("op %d max_position value mismatch: want %d got %d", i, wantPos, gotPos)
				}

			case 5:
				got := setProjection(t, obj)
				want := m.setProjection()
				requireStatusEqual(t, want, got, "set_projection", i)
			}
		}

		gotStatus, gotProj := getProjection(t, obj)
		wantStatus, wantProj := m.getProjection()
		requireStatusEqual(t, wantStatus, gotStatus, "get_projection(final)", -1)
		if wantStatus == StatusOK && wantProj != gotProj {
			t.Fatalf("final get_projection mismatch: want %d got %d", wantProj, gotProj)
		}
	}
}

func requireStatusEqual(t *testing.T, want, got Status, op string, opIndex int) {
	t.Helper()
	if want != got {
		t.Fatalf("op %d (%s): model wanted status %v, Dispatch returned %v", opIndex, op, want, got)
	}
}
