// Package debounce coalesces rapid value changes into a single delayed emission.
package debounce

import (
	"sync"
	"time"
)

const (
	// DefaultDelay is the quiet period before a pushed value is emitted.
	DefaultDelay = 300 * time.Millisecond
)

// Gate holds at most one pending value. Each Push supersedes the pending
// value and restarts the quiet period; the emit callback receives only the
// value that survived a full delay without being superseded.
type Gate[T any] struct {
	delay time.Duration
	emit  func(T)

	mu      sync.Mutex
	timer   *time.Timer
	pending T
	armed   bool
	seq     uint64
	closed  bool
}

// New creates a gate. A non-positive delay falls back to DefaultDelay.
func New[T any](delay time.Duration, emit func(T)) *Gate[T] {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Gate[T]{delay: delay, emit: emit}
}

// Delay returns the configured quiet period.
func (g *Gate[T]) Delay() time.Duration {
	return g.delay
}

// Push replaces any pending value with v and restarts the timer.
func (g *Gate[T]) Push(v T) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return
	}
	if g.timer != nil {
		g.timer.Stop()
	}

	g.seq++
	seq := g.seq
	g.pending = v
	g.armed = true
	g.timer = time.AfterFunc(g.delay, func() {
		g.fire(seq)
	})
}

// fire emits the pending value if no later Push, Flush or Cancel happened.
// A timer that already started running when it was stopped lands here with
// a stale sequence number and is ignored.
func (g *Gate[T]) fire(seq uint64) {
	g.mu.Lock()
	if g.closed || !g.armed || seq != g.seq {
		g.mu.Unlock()
		return
	}
	v := g.take()
	g.mu.Unlock()

	g.emit(v)
}

// Flush emits the pending value immediately. Returns false when nothing
// was pending.
func (g *Gate[T]) Flush() bool {
	g.mu.Lock()
	if g.closed || !g.armed {
		g.mu.Unlock()
		return false
	}
	if g.timer != nil {
		g.timer.Stop()
	}
	v := g.take()
	g.mu.Unlock()

	g.emit(v)
	return true
}

// Cancel drops the pending value without emitting it.
func (g *Gate[T]) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.timer != nil {
		g.timer.Stop()
	}
	g.take()
}

// Pending returns the value waiting to be emitted, if any.
func (g *Gate[T]) Pending() (T, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending, g.armed
}

// Close stops the gate. Pending values are dropped and later pushes ignored.
func (g *Gate[T]) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.timer != nil {
		g.timer.Stop()
	}
	g.take()
	g.closed = true
}

// take clears the pending slot and returns its value. Caller holds mu.
func (g *Gate[T]) take() T {
	var zero T
	v := g.pending
	g.pending = zero
	g.armed = false
	g.timer = nil
	g.seq++
	return v
}
