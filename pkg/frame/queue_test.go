package frame

import (
	"testing"
	"time"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestQueueFramesRunOnNextStep(t *testing.T) {
	q := NewQueue(epoch)
	var got []time.Time
	q.RequestFrame(func(now time.Time) { got = append(got, now) })

	if q.PendingFrames() != 1 {
		t.Fatalf("PendingFrames() = %d, want 1", q.PendingFrames())
	}
	now := q.Step()
	if len(got) != 1 || !got[0].Equal(now) {
		t.Errorf("frame times = %v, want [%v]", got, now)
	}
	if want := epoch.Add(DefaultInterval); !now.Equal(want) {
		t.Errorf("Step() = %v, want %v", now, want)
	}
	q.Step()
	if len(got) != 1 {
		t.Errorf("frame ran %d times, want 1", len(got))
	}
}

func TestQueueNestedFrameDeferred(t *testing.T) {
	q := NewQueue(epoch)
	var order []string
	q.RequestFrame(func(time.Time) {
		order = append(order, "outer")
		q.RequestFrame(func(time.Time) { order = append(order, "inner") })
	})

	q.Step()
	if len(order) != 1 {
		t.Fatalf("after first step order = %v, want [outer]", order)
	}
	q.Step()
	if len(order) != 2 || order[1] != "inner" {
		t.Errorf("after second step order = %v, want [outer inner]", order)
	}
}

func TestQueueTimers(t *testing.T) {
	q := NewQueue(epoch, WithInterval(10*time.Millisecond))
	var fired []string
	q.AfterFunc(25*time.Millisecond, func() { fired = append(fired, "late") })
	q.AfterFunc(5*time.Millisecond, func() { fired = append(fired, "early") })
	q.AfterFunc(5*time.Millisecond, func() { fired = append(fired, "early-2") })

	q.Step() // 10ms
	if len(fired) != 2 || fired[0] != "early" || fired[1] != "early-2" {
		t.Fatalf("after 10ms fired = %v", fired)
	}
	q.Step() // 20ms
	if len(fired) != 2 {
		t.Fatalf("after 20ms fired = %v", fired)
	}
	q.Step() // 30ms
	if len(fired) != 3 || fired[2] != "late" {
		t.Errorf("after 30ms fired = %v", fired)
	}
}

func TestQueueTimersBeforeFrames(t *testing.T) {
	q := NewQueue(epoch)
	var order []string
	q.RequestFrame(func(time.Time) { order = append(order, "frame") })
	q.AfterFunc(0, func() { order = append(order, "timer") })
	q.Step()
	if len(order) != 2 || order[0] != "timer" || order[1] != "frame" {
		t.Errorf("order = %v, want [timer frame]", order)
	}
}

func TestQueueCancel(t *testing.T) {
	q := NewQueue(epoch)
	ran := false
	h1 := q.RequestFrame(func(time.Time) { ran = true })
	h2 := q.AfterFunc(time.Millisecond, func() { ran = true })

	if q.Pending() != 2 {
		t.Fatalf("Pending() = %d, want 2", q.Pending())
	}
	h1.Cancel()
	h2.Cancel()
	h2.Cancel()
	if q.Pending() != 0 {
		t.Errorf("Pending() = %d after cancel, want 0", q.Pending())
	}
	q.Advance(100 * time.Millisecond)
	if ran {
		t.Error("cancelled callback ran")
	}
}

func TestQueueAdvanceAndFlush(t *testing.T) {
	q := NewQueue(epoch, WithInterval(10*time.Millisecond))
	if steps := q.Advance(35 * time.Millisecond); steps != 4 {
		t.Errorf("Advance(35ms) steps = %d, want 4", steps)
	}

	count := 0
	var tick func(time.Time)
	tick = func(time.Time) {
		count++
		if count < 5 {
			q.RequestFrame(tick)
		}
	}
	q.RequestFrame(tick)
	if steps := q.Flush(100); steps != 5 {
		t.Errorf("Flush() steps = %d, want 5", steps)
	}
	if count != 5 {
		t.Errorf("count = %d, want 5", count)
	}
	if steps := q.Flush(100); steps != 0 {
		t.Errorf("Flush() on idle queue steps = %d, want 0", steps)
	}
}

func TestGroupCancel(t *testing.T) {
	q := NewQueue(epoch)
	var g Group
	ran := 0
	g.Add(q.RequestFrame(func(time.Time) { ran++ }))
	g.Add(q.AfterFunc(0, func() { ran++ }))
	g.Add(nil)

	if g.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", g.Len())
	}
	g.Cancel()
	if g.Len() != 0 {
		t.Errorf("Len() after Cancel = %d, want 0", g.Len())
	}
	q.Step()
	if ran != 0 {
		t.Errorf("ran = %d, want 0", ran)
	}
	if q.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", q.Pending())
	}
}

func TestHandleFunc(t *testing.T) {
	called := 0
	var h Handle = HandleFunc(func() { called++ })
	h.Cancel()
	if called != 1 {
		t.Errorf("called = %d, want 1", called)
	}
}
