// Package testutil provides shared helpers for deterministic tests.
package testutil

import (
	"sync"
	"time"
)

// Clock is a thread-safe deterministic time source for tests.
//
// Each call to Now advances the clock by a fixed step, so ledger entries
// written in sequence get strictly increasing timestamps regardless of wall
// time. Unlike the store's default clock, Clock can be reset for test reuse.
type Clock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration

	base time.Time
}

// NewClock creates a clock starting at base, advancing by step per Now call.
func NewClock(base time.Time, step time.Duration) *Clock {
	return &Clock{now: base, base: base, step: step}
}

// Now returns the current time and advances the clock.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

// Current returns the current time without advancing.
func (c *Clock) Current() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Reset rewinds the clock to its base time.
func (c *Clock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.base
}
