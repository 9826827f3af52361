package naming

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualClock(t *testing.T) {
	clock := NewManualClock(5)
	assert.Equal(t, BlockNumber(5), clock.Height())

	clock.Advance(3)
	assert.Equal(t, BlockNumber(8), clock.Height())

	clock.Set(20)
	assert.Equal(t, BlockNumber(20), clock.Height())

	// Heights never go backwards.
	clock.Set(2)
	assert.Equal(t, BlockNumber(20), clock.Height())
}

func TestIntervalClock(t *testing.T) {
	genesis := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := NewIntervalClock(genesis, 6*time.Second)

	clock.now = func() time.Time { return genesis }
	assert.Equal(t, BlockNumber(0), clock.Height())

	clock.now = func() time.Time { return genesis.Add(5 * time.Second) }
	assert.Equal(t, BlockNumber(0), clock.Height())

	clock.now = func() time.Time { return genesis.Add(6 * time.Second) }
	assert.Equal(t, BlockNumber(1), clock.Height())

	clock.now = func() time.Time { return genesis.Add(61 * time.Second) }
	assert.Equal(t, BlockNumber(10), clock.Height())

	// Before genesis the chain has not started.
	clock.now = func() time.Time { return genesis.Add(-time.Hour) }
	assert.Equal(t, BlockNumber(0), clock.Height())
}
