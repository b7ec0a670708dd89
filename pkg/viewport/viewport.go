// Package viewport defines the measurement and scrolling capabilities the
// interactive controllers need from a rendering layer.
//
// Controllers do their math on plain numbers and talk to the rendered page
// only through these interfaces: read a scroll position, measure an
// element's bounding box, observe its size, scroll. This keeps packing and
// centering logic testable without a real DOM. The Mem* types are
// in-memory implementations used by tests and by the terminal preview.
package viewport

// Style properties the carousel overrides while animating.
const (
	StyleScrollSnap     = "scroll-snap-type"
	StyleOverflowAnchor = "overflow-anchor"
	StyleWillChange     = "will-change"
)

// Strip is a horizontally scrollable container.
type Strip interface {
	ScrollLeft() float64
	SetScrollLeft(x float64)
	ClientWidth() float64
	Style(prop string) string
	SetStyle(prop, value string)
}

// WidthSource reports the viewport width and notifies on changes.
type WidthSource interface {
	Width() float64
	// Subscribe registers fn for width changes and returns a function that
	// removes the subscription.
	Subscribe(fn func(width float64)) (unsubscribe func())
}

// Rect is a bounding box relative to the viewport's top-left corner.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// CenterY returns the vertical center of r.
func (r Rect) CenterY() float64 { return r.Y + r.Height/2 }

// Element is a rendered node that can be measured.
type Element interface {
	Measure() Rect
}

// Page is the vertically scrolling document.
type Page interface {
	ViewportHeight() float64
	ScrollY() float64
	ScrollTo(y float64)
}

// ResizeObserver reports size changes of observed elements.
type ResizeObserver interface {
	// Observe calls fn with the element's new box whenever it changes size,
	// until stop is called.
	Observe(el Element, fn func(Rect)) (stop func())
}
