// Package frame provides the cooperative scheduling primitives the
// interactive controllers run on: animation frames, timers and
// cancellation handles.
//
// Controllers never start goroutines. They request frames and timers from a
// [Scheduler], and every callback runs on the scheduler's host goroutine, so
// controller state needs no locking. A [Queue] is a deterministic
// Scheduler advanced explicitly by its host, either a test or the
// terminal preview's tick loop.
//
// Every scheduled callback returns a [Handle]. Cancelling a handle after
// the callback ran, or more than once, is a no-op. A [Group] collects
// handles so a multi-step schedule can be torn down as a unit.
package frame

import "time"

// DefaultInterval is the frame interval of a 60 Hz display.
const DefaultInterval = 16 * time.Millisecond

// Handle cancels a scheduled callback.
type Handle interface {
	Cancel()
}

// Scheduler schedules callbacks on a single host goroutine.
type Scheduler interface {
	// RequestFrame runs fn before the next frame is presented.
	RequestFrame(fn func(now time.Time)) Handle

	// AfterFunc runs fn once d has elapsed.
	AfterFunc(d time.Duration, fn func()) Handle

	// Now returns the scheduler's current time.
	Now() time.Time
}

// Group cancels a set of handles together. The zero value is ready to use.
type Group struct {
	handles []Handle
}

// Add records h and returns it.
func (g *Group) Add(h Handle) Handle {
	if h != nil {
		g.handles = append(g.handles, h)
	}
	return h
}

// Cancel cancels every recorded handle and empties the group.
func (g *Group) Cancel() {
	for _, h := range g.handles {
		h.Cancel()
	}
	g.handles = nil
}

// Len returns the number of recorded handles.
func (g *Group) Len() int { return len(g.handles) }

// HandleFunc adapts a function to Handle.
type HandleFunc func()

// Cancel calls f.
func (f HandleFunc) Cancel() { f() }
