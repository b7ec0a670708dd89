// Package rowgrid implements the row-grouped media grid with expand-in-place
// zoom.
//
// [Build] splits items into rows of [RowSize] cells. Each complete row
// nominates one expandable candidate at build time: its first landscape
// cell. Incomplete trailing rows and rows without a landscape cell nominate
// nothing. Candidates are never recomputed per click.
//
// A [Controller] holds a single active cell key for the whole grid, so
// activating a cell in one row deactivates any other row. While a cell is
// active the controller watches its rendered element for size changes and
// keeps it vertically centered in the page. Unlike the carousel, which can
// compute its offsets from aspects alone, the expanded height here depends
// on media that may still be loading, so centering measures the live
// bounding box and corrects:
//
//  1. Activation (or a resize of the active element) cancels any pending
//     pass and schedules a new one two frames out, plus a fallback timer.
//  2. A pass scrolls the page by the distance between the element's center
//     and the viewport's center, unless that distance is below the
//     tolerance.
//  3. A pass that moved the page schedules another, up to MaxPasses.
//
// All methods must be called from the scheduler's host goroutine.
package rowgrid
