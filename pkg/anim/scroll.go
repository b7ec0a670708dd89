package anim

import (
	"math"
	"time"

	"github.com/matzehuels/lightbox/pkg/frame"
	"github.com/matzehuels/lightbox/pkg/viewport"
)

// DefaultDuration is the length of a scroll animation.
const DefaultDuration = 500 * time.Millisecond

// minDistance is the smallest scroll distance worth animating.
const minDistance = 0.5

// Scroll animates a strip's scrollLeft towards a target.
//
// While an animation runs, scroll snapping and scroll anchoring are switched
// off and will-change is set, since native snapping or anchoring would fight
// the explicit interpolation. When an animation finishes, overflow-anchor and
// will-change get their original values back. Scroll snapping is restored
// only when the finishing animation asked for it; otherwise it stays off
// until a later animation restores it or RestoreSnap is called.
//
// Calling To while an animation runs retargets it from the current position;
// only the latest target is kept.
type Scroll struct {
	sched    frame.Scheduler
	strip    viewport.Strip
	duration time.Duration
	easing   Easing

	handle      frame.Handle
	from, to    float64
	start       time.Time
	restoreSnap bool
	done        func()

	// overridden is true while anchor/will-change overrides are applied.
	overridden bool
	anchor     string
	willChange string

	// snapOff is true while scroll snapping is suppressed.
	snapOff bool
	snap    string
}

// NewScroll creates a Scroll. A non-positive duration jumps straight to the
// target; a nil easing uses EaseInOutCubic.
func NewScroll(sched frame.Scheduler, strip viewport.Strip, duration time.Duration, easing Easing) *Scroll {
	if easing == nil {
		easing = EaseInOutCubic
	}
	return &Scroll{sched: sched, strip: strip, duration: duration, easing: easing}
}

// Active reports whether an animation is in flight.
func (s *Scroll) Active() bool { return s.handle != nil }

// SnapSuppressed reports whether scroll snapping is currently switched off.
func (s *Scroll) SnapSuppressed() bool { return s.snapOff }

// Target returns the target of the in-flight animation.
func (s *Scroll) Target() (float64, bool) {
	if !s.Active() {
		return 0, false
	}
	return s.to, true
}

// To animates towards target. done runs once the strip reaches the target;
// it does not run if the animation is cancelled or retargeted.
func (s *Scroll) To(target float64, restoreSnap bool, done func()) {
	if s.handle != nil {
		s.handle.Cancel()
		s.handle = nil
	}
	s.restoreSnap = restoreSnap
	s.done = done

	from := s.strip.ScrollLeft()
	if s.duration <= 0 || math.Abs(target-from) < minDistance {
		// Snapping stays off after a jump that does not restore it, the
		// same as after an interpolated scroll.
		if !restoreSnap {
			s.suppressSnap()
		}
		if s.duration <= 0 {
			s.strip.SetScrollLeft(target)
		}
		s.finish()
		return
	}

	s.override()
	s.from, s.to = from, target
	s.start = s.sched.Now()
	s.handle = s.sched.RequestFrame(s.tick)
}

func (s *Scroll) tick(now time.Time) {
	p := float64(now.Sub(s.start)) / float64(s.duration)
	if p >= 1 {
		s.strip.SetScrollLeft(s.to)
		s.handle = nil
		s.finish()
		return
	}
	s.strip.SetScrollLeft(s.from + (s.to-s.from)*s.easing(p))
	s.handle = s.sched.RequestFrame(s.tick)
}

func (s *Scroll) override() {
	if !s.overridden {
		s.anchor = s.strip.Style(viewport.StyleOverflowAnchor)
		s.willChange = s.strip.Style(viewport.StyleWillChange)
		s.overridden = true
	}
	s.suppressSnap()
	s.strip.SetStyle(viewport.StyleOverflowAnchor, "none")
	s.strip.SetStyle(viewport.StyleWillChange, "scroll-position")
}

func (s *Scroll) suppressSnap() {
	if !s.snapOff {
		s.snap = s.strip.Style(viewport.StyleScrollSnap)
		s.snapOff = true
	}
	s.strip.SetStyle(viewport.StyleScrollSnap, "none")
}

func (s *Scroll) finish() {
	s.restoreOverrides()
	if s.restoreSnap {
		s.RestoreSnap()
	}
	if done := s.done; done != nil {
		s.done = nil
		done()
	}
}

func (s *Scroll) restoreOverrides() {
	if !s.overridden {
		return
	}
	s.strip.SetStyle(viewport.StyleOverflowAnchor, s.anchor)
	s.strip.SetStyle(viewport.StyleWillChange, s.willChange)
	s.overridden = false
}

// RestoreSnap re-enables scroll snapping with its original value.
func (s *Scroll) RestoreSnap() {
	if !s.snapOff {
		return
	}
	s.strip.SetStyle(viewport.StyleScrollSnap, s.snap)
	s.snapOff = false
}

// Cancel stops the in-flight animation where it is and restores
// overflow-anchor and will-change. Scroll snapping is left as it is.
func (s *Scroll) Cancel() {
	if s.handle != nil {
		s.handle.Cancel()
		s.handle = nil
	}
	s.done = nil
	s.restoreOverrides()
}

// Release cancels the animation and restores every style it touched.
func (s *Scroll) Release() {
	s.Cancel()
	s.RestoreSnap()
}
