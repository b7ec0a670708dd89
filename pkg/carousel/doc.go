// Package carousel implements the expand/collapse controller for a
// horizontally scrolling media strip.
//
// A [Controller] has two states. Collapsed is the initial state: every item
// is rendered at Config.BaseHeight and the strip scroll-snaps natively.
// Clicking an item expands the strip to Config.ExpandedHeight and animates
// scrollLeft so the clicked item ends up centered. Any further click
// collapses the strip back to BaseHeight and re-centers the item that was
// expanded.
//
// The target offset is computed from the item aspects alone:
//
//	padding + Σ_{j<i}(height·ratio_j + gap) + height·ratio_i/2 − clientWidth/2
//
// so it is correct before the strip has visually finished resizing. The
// result is clamped to the scrollable range.
//
// Below Config.Breakpoint the controller is inert: clicks do nothing and an
// expanded strip collapses when the viewport shrinks past it.
//
// # Scheduling
//
// The controller never blocks and starts no goroutines. Animation frames
// come from a [frame.Scheduler]; all methods must be called from the
// scheduler's host goroutine. A new click always preempts the animation in
// flight.
//
// # Cleanup
//
// [Controller.SetItems] and [Controller.Close] cancel the running animation
// and restore every style it overrode. After Close the controller ignores
// all input.
package carousel
