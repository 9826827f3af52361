package naming

import (
	"sync"
	"time"
)

// Clock supplies the engine's monotonically increasing logical time.
type Clock interface {
	Height() BlockNumber
}

// ManualClock is a hand-advanced clock for tests and simulations.
type ManualClock struct {
	mu     sync.Mutex
	height BlockNumber
}

// NewManualClock starts a manual clock at the given height.
func NewManualClock(height BlockNumber) *ManualClock {
	return &ManualClock{height: height}
}

func (c *ManualClock) Height() BlockNumber {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.height
}

// Advance moves the clock forward by n blocks.
func (c *ManualClock) Advance(n BlockNumber) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.height += n
}

// Set jumps the clock to an absolute height. Heights never go backwards; a
// lower value is ignored.
func (c *ManualClock) Set(height BlockNumber) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if height > c.height {
		c.height = height
	}
}

// IntervalClock derives the block height from wall time: one block per fixed
// interval since a configured genesis instant.
type IntervalClock struct {
	genesis  time.Time
	interval time.Duration
	now      func() time.Time
}

// NewIntervalClock builds a wall-clock-driven block clock.
func NewIntervalClock(genesis time.Time, interval time.Duration) *IntervalClock {
	return &IntervalClock{genesis: genesis, interval: interval, now: time.Now}
}

func (c *IntervalClock) Height() BlockNumber {
	elapsed := c.now().Sub(c.genesis)
	if elapsed < 0 {
		return 0
	}
	return BlockNumber(elapsed / c.interval)
}
