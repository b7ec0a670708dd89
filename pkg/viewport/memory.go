package viewport

import "math"

// MemStrip is an in-memory Strip. ScrollLeft is clamped to
// [0, ContentWidth-ClientWidth] when ContentWidth is set.
type MemStrip struct {
	Left         float64
	Client       float64
	ContentWidth float64
	Styles       map[string]string

	// ScrollCalls counts SetScrollLeft invocations.
	ScrollCalls int
}

// NewMemStrip creates a strip with the given visible width.
func NewMemStrip(clientWidth float64) *MemStrip {
	return &MemStrip{Client: clientWidth, Styles: map[string]string{}}
}

func (s *MemStrip) ScrollLeft() float64  { return s.Left }
func (s *MemStrip) ClientWidth() float64 { return s.Client }

func (s *MemStrip) SetScrollLeft(x float64) {
	s.ScrollCalls++
	if s.ContentWidth > 0 {
		x = math.Min(x, math.Max(0, s.ContentWidth-s.Client))
	}
	s.Left = math.Max(0, x)
}

func (s *MemStrip) Style(prop string) string { return s.Styles[prop] }

func (s *MemStrip) SetStyle(prop, value string) {
	if s.Styles == nil {
		s.Styles = map[string]string{}
	}
	if value == "" {
		delete(s.Styles, prop)
		return
	}
	s.Styles[prop] = value
}

// MemWidth is an in-memory WidthSource.
type MemWidth struct {
	width float64
	next  int
	subs  map[int]func(float64)
}

// NewMemWidth creates a width source reporting w.
func NewMemWidth(w float64) *MemWidth {
	return &MemWidth{width: w, subs: map[int]func(float64){}}
}

func (m *MemWidth) Width() float64 { return m.width }

func (m *MemWidth) Subscribe(fn func(float64)) func() {
	id := m.next
	m.next++
	m.subs[id] = fn
	return func() { delete(m.subs, id) }
}

// Resize changes the width and notifies subscribers.
func (m *MemWidth) Resize(w float64) {
	if w == m.width {
		return
	}
	m.width = w
	for _, fn := range m.subs {
		fn(w)
	}
}

// Subscribers returns the number of live subscriptions.
func (m *MemWidth) Subscribers() int { return len(m.subs) }

// MemPage is an in-memory Page. ScrollY is clamped to
// [0, DocumentHeight-Viewport] when DocumentHeight is set.
type MemPage struct {
	Viewport       float64
	Y              float64
	DocumentHeight float64

	// Scrolls records every ScrollTo target after clamping.
	Scrolls []float64
}

func (p *MemPage) ViewportHeight() float64 { return p.Viewport }
func (p *MemPage) ScrollY() float64        { return p.Y }

func (p *MemPage) ScrollTo(y float64) {
	if p.DocumentHeight > 0 {
		y = math.Min(y, math.Max(0, p.DocumentHeight-p.Viewport))
	}
	p.Y = math.Max(0, y)
	p.Scrolls = append(p.Scrolls, p.Y)
}

// MemElement is an element laid out at a fixed document offset on a MemPage.
type MemElement struct {
	Page   *MemPage
	Top    float64
	Left   float64
	Width  float64
	Height float64

	observer *MemObserver
}

// Measure returns the element's box relative to the page's scroll position.
func (e *MemElement) Measure() Rect {
	var scroll float64
	if e.Page != nil {
		scroll = e.Page.Y
	}
	return Rect{X: e.Left, Y: e.Top - scroll, Width: e.Width, Height: e.Height}
}

// Resize changes the element's height and notifies observers watching it.
func (e *MemElement) Resize(height float64) {
	if height == e.Height {
		return
	}
	e.Height = height
	if e.observer != nil {
		e.observer.notify(e)
	}
}

type memSub struct {
	el *MemElement
	fn func(Rect)
}

// MemObserver is an in-memory ResizeObserver for MemElements.
type MemObserver struct {
	next int
	subs map[int]memSub
}

// NewMemObserver creates an observer.
func NewMemObserver() *MemObserver {
	return &MemObserver{subs: map[int]memSub{}}
}

// Observe watches el, which must be a *MemElement; other elements are never
// reported.
func (o *MemObserver) Observe(el Element, fn func(Rect)) func() {
	me, ok := el.(*MemElement)
	if !ok {
		return func() {}
	}
	me.observer = o
	id := o.next
	o.next++
	o.subs[id] = memSub{el: me, fn: fn}
	return func() { delete(o.subs, id) }
}

// Active returns the number of live observations.
func (o *MemObserver) Active() int { return len(o.subs) }

func (o *MemObserver) notify(el *MemElement) {
	for _, s := range o.subs {
		if s.el == el {
			s.fn(el.Measure())
		}
	}
}

var (
	_ Strip          = (*MemStrip)(nil)
	_ WidthSource    = (*MemWidth)(nil)
	_ Page           = (*MemPage)(nil)
	_ Element        = (*MemElement)(nil)
	_ ResizeObserver = (*MemObserver)(nil)
)
