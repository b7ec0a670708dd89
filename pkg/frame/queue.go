package frame

import (
	"cmp"
	"slices"
	"time"
)

// task is a scheduled frame or timer callback.
type task struct {
	seq       uint64
	due       time.Time
	frame     func(time.Time)
	timer     func()
	cancelled bool
}

func (t *task) Cancel() { t.cancelled = true }

// Queue is a deterministic Scheduler stepped by its host. Each Step advances
// the clock by one frame interval, fires the timers that came due, then
// runs the frames requested before the step. Frames requested while a step
// runs are deferred to the next step.
//
// A Queue is not safe for concurrent use; all calls must come from the host
// goroutine.
type Queue struct {
	now      time.Time
	interval time.Duration
	seq      uint64
	frames   []*task
	timers   []*task
}

// QueueOption configures a Queue.
type QueueOption func(*Queue)

// WithInterval sets the frame interval. Non-positive values are ignored.
func WithInterval(d time.Duration) QueueOption {
	return func(q *Queue) {
		if d > 0 {
			q.interval = d
		}
	}
}

// NewQueue creates a Queue whose clock starts at start.
func NewQueue(start time.Time, opts ...QueueOption) *Queue {
	q := &Queue{now: start, interval: DefaultInterval}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Now returns the queue's clock.
func (q *Queue) Now() time.Time { return q.now }

// Interval returns the frame interval.
func (q *Queue) Interval() time.Duration { return q.interval }

// RequestFrame schedules fn for the next Step.
func (q *Queue) RequestFrame(fn func(now time.Time)) Handle {
	q.seq++
	t := &task{seq: q.seq, frame: fn}
	q.frames = append(q.frames, t)
	return t
}

// AfterFunc schedules fn to run on the first Step at or after now+d.
func (q *Queue) AfterFunc(d time.Duration, fn func()) Handle {
	q.seq++
	t := &task{seq: q.seq, due: q.now.Add(d), timer: fn}
	q.timers = append(q.timers, t)
	return t
}

// Step advances one frame interval and returns the new time.
func (q *Queue) Step() time.Time {
	q.now = q.now.Add(q.interval)
	q.fireTimers()

	frames := q.frames
	q.frames = nil
	for _, t := range frames {
		if !t.cancelled {
			t.cancelled = true
			t.frame(q.now)
		}
	}
	return q.now
}

// fireTimers runs due timers in deadline order. Timers scheduled by a
// callback that are already due run in the same step.
func (q *Queue) fireTimers() {
	for {
		idx := -1
		for i, t := range q.timers {
			if t.cancelled || t.due.After(q.now) {
				continue
			}
			if idx < 0 || earlier(t, q.timers[idx]) {
				idx = i
			}
		}
		if idx < 0 {
			break
		}
		t := q.timers[idx]
		t.cancelled = true
		t.timer()
	}
	q.timers = slices.DeleteFunc(q.timers, func(t *task) bool { return t.cancelled })
}

func earlier(a, b *task) bool {
	if c := a.due.Compare(b.due); c != 0 {
		return c < 0
	}
	return cmp.Less(a.seq, b.seq)
}

// Advance steps until at least d has elapsed and returns the number of
// steps taken.
func (q *Queue) Advance(d time.Duration) int {
	target := q.now.Add(d)
	steps := 0
	for q.now.Before(target) {
		q.Step()
		steps++
	}
	return steps
}

// Flush steps until nothing is pending or maxSteps steps were taken, and returns
// the number of steps taken.
func (q *Queue) Flush(maxSteps int) int {
	steps := 0
	for steps < maxSteps && q.Pending() > 0 {
		q.Step()
		steps++
	}
	return steps
}

// Pending returns the number of frames and timers that will still run.
func (q *Queue) Pending() int {
	n := 0
	for _, t := range q.frames {
		if !t.cancelled {
			n++
		}
	}
	for _, t := range q.timers {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// PendingFrames returns the number of frames that will run on the next Step.
func (q *Queue) PendingFrames() int {
	n := 0
	for _, t := range q.frames {
		if !t.cancelled {
			n++
		}
	}
	return n
}

var _ Scheduler = (*Queue)(nil)
