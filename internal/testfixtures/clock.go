package testfixtures

import (
	"sync"
	"time"
)

// Clock is a manually driven time source injected where production code takes
// a now func.
type Clock struct {
	mu sync.Mutex
	at time.Time
}

// NewClock builds a clock frozen at start, or at ReferenceTime when start is
// the zero value.
func NewClock(start time.Time) *Clock {
	if start.IsZero() {
		start = ReferenceTime()
	}
	return &Clock{at: start}
}

// Now reports the instant the clock is frozen at.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.at
}

// NowFunc adapts the clock to the now-func shape the services expect. A nil
// clock degrades to the real time source.
func (c *Clock) NowFunc() func() time.Time {
	if c == nil {
		return time.Now
	}
	return c.Now
}

// Set freezes the clock at t.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.at = t
	c.mu.Unlock()
}

// Advance moves the clock forward by d and reports the new instant. Negative
// durations move it backwards.
func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	c.at = c.at.Add(d)
	moved := c.at
	c.mu.Unlock()
	return moved
}
