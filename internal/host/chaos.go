package host

import (
	"errors"
	"fmt"
	"math/rand"
)

// ChaosConfig controls fault injection probabilities for Chaos. Each rate is
// a float64 from 0.0 (never) to 1.0 (always). The zero value disables all
// injection. Trimmed from the teacher's much larger filesystem ChaosConfig
// (internal/fs/chaos.go) down to the two fault classes this core's tests
// need to exercise StatusIOError deterministically: host I/O failure and
// on-disk corruption.
type ChaosConfig struct {
	// GetFailRate controls how often Get fails with a host I/O error instead
	// of returning the stored value.
	GetFailRate float64

	// SetFailRate controls how often Set fails with a host I/O error instead
	// of committing the value.
	SetFailRate float64

	// CorruptGetRate controls how often Get returns a value whose bytes have
	// been scrambled, simulating on-disk corruption. The value is still
	// returned successfully (no error). Decoding it is what should fail
	// downstream, mirroring how a real host can return bytes it never
	// validated as a well-formed log_entry.
	CorruptGetRate float64
}

// ChaosError wraps a fault Chaos injected so callers can distinguish it from
// a "real" Map error with errors.Is / errors.As.
type ChaosError struct {
	Op  string
	Key string
}

func (e *ChaosError) Error() string {
	return fmt.Sprintf("chaos: injected fault during %s(%q)", e.Op, e.Key)
}

// ErrChaosInjected is the sentinel all ChaosError values wrap.
var ErrChaosInjected = errors.New("chaos fault")

func (e *ChaosError) Unwrap() error { return ErrChaosInjected }

// Chaos decorates a Map with deterministic, seeded fault injection. It is
// used by internal/zlog's tests to exercise io_error paths without a mock
// framework, grounded directly on internal/fs/chaos.go's per-operation
// failure-rate design.
type Chaos struct {
	inner Map
	rng   *rand.Rand
	cfg   ChaosConfig
}

// NewChaos wraps inner with fault injection driven by a seeded RNG. The seed
// makes test failures reproducible.
func NewChaos(inner Map, seed int64, cfg ChaosConfig) *Chaos {
	return &Chaos{
		inner: inner,
		rng:   rand.New(rand.NewSource(seed)),
		cfg:   cfg,
	}
}

func (c *Chaos) should(rate float64) bool {
	if rate <= 0 {
		return false
	}
	return c.rng.Float64() < rate
}

func (c *Chaos) Get(key string) ([]byte, error) {
	if c.should(c.cfg.GetFailRate) {
		return nil, &ChaosError{Op: "get", Key: key}
	}

	v, err := c.inner.Get(key)
	if err != nil {
		return nil, err
	}

	if c.should(c.cfg.CorruptGetRate) && len(v) > 0 {
		corrupted := make([]byte, len(v))
		copy(corrupted, v)
		corrupted[c.rng.Intn(len(corrupted))] ^= 0xFF
		return corrupted, nil
	}

	return v, nil
}

func (c *Chaos) Set(key string, value []byte) error {
	if c.should(c.cfg.SetFailRate) {
		return &ChaosError{Op: "set", Key: key}
	}
	return c.inner.Set(key, value)
}

func (c *Chaos) Remove(key string) error {
	return c.inner.Remove(key)
}

func (c *Chaos) Stat() (Header, error) {
	return c.inner.Stat()
}
