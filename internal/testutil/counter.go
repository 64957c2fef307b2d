package testutil

import "sync/atomic"

// Counter hands out sequence numbers 1, 2, 3, ... for result logs and
// traces. Unlike a wall clock it gives identical numbers on every run of
// the same scenario.
//
// Safe for concurrent use.
type Counter struct {
	n atomic.Int64
}

// NewCounter returns a counter whose first Next is 1.
func NewCounter() *Counter {
	return &Counter{}
}

// Next increments and returns the counter.
func (c *Counter) Next() int64 {
	return c.n.Add(1)
}

// Current returns the last value handed out, 0 before the first Next.
func (c *Counter) Current() int64 {
	return c.n.Load()
}

// Reset starts the sequence over at 1.
func (c *Counter) Reset() {
	c.n.Store(0)
}
