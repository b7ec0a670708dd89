package carousel

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/lightbox/pkg/anim"
	"github.com/matzehuels/lightbox/pkg/aspect"
	"github.com/matzehuels/lightbox/pkg/frame"
	"github.com/matzehuels/lightbox/pkg/media"
	"github.com/matzehuels/lightbox/pkg/viewport"
)

// Controller owns the expand/collapse state of one strip.
//
// A Controller is not safe for concurrent use; see the package
// documentation.
type Controller struct {
	id     string
	cfg    Config
	model  *aspect.Model
	logger *log.Logger

	items   []media.Item
	aspects []aspect.Aspect

	strip  viewport.Strip
	width  viewport.WidthSource
	scroll *anim.Scroll
	unsub  func()

	expanded bool
	index    int
	zoom     bool
	closed   bool
	onChange func(State)
}

// State is a snapshot of the controller's state.
type State struct {
	Expanded  bool
	Index     int // -1 while collapsed
	Height    float64
	Animating bool
	Zoom      bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for debug tracing of transitions.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithModel sets the aspect model used to normalize item descriptors.
func WithModel(m *aspect.Model) Option {
	return func(c *Controller) {
		if m != nil {
			c.model = m
		}
	}
}

// WithOnChange registers fn to run after every state transition.
func WithOnChange(fn func(State)) Option {
	return func(c *Controller) { c.onChange = fn }
}

// New creates a controller for items rendered into strip. width reports the
// viewport width that gates zoom; the controller subscribes to it once and
// keeps the subscription until Close.
func New(items []media.Item, strip viewport.Strip, width viewport.WidthSource, sched frame.Scheduler, cfg Config, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Controller{
		id:     uuid.NewString(),
		cfg:    cfg,
		model:  aspect.DefaultModel(),
		logger: log.New(io.Discard),
		strip:  strip,
		width:  width,
		index:  -1,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("carousel", c.id[:8])
	c.scroll = anim.NewScroll(sched, strip, cfg.Duration, cfg.Easing)
	c.setItems(items)
	c.zoom = width.Width() >= cfg.Breakpoint
	c.unsub = width.Subscribe(c.onResize)
	return c, nil
}

// ID returns the controller's instance ID.
func (c *Controller) ID() string { return c.id }

// Config returns the controller's configuration.
func (c *Controller) Config() Config { return c.cfg }

// Items returns the current item list.
func (c *Controller) Items() []media.Item { return c.items }

// Aspects returns the normalized aspect of every item.
func (c *Controller) Aspects() []aspect.Aspect { return c.aspects }

// IsExpanded reports whether the strip is expanded.
func (c *Controller) IsExpanded() bool { return c.expanded }

// ExpandedIndex returns the index of the expanded item.
func (c *Controller) ExpandedIndex() (int, bool) {
	if !c.expanded {
		return 0, false
	}
	return c.index, true
}

// Animating reports whether a scroll animation is in flight.
func (c *Controller) Animating() bool { return c.scroll.Active() }

// ZoomEnabled reports whether the viewport is wide enough for zoom.
func (c *Controller) ZoomEnabled() bool { return c.zoom }

// Height returns the item height for the current state.
func (c *Controller) Height() float64 {
	if c.expanded {
		return c.cfg.ExpandedHeight
	}
	return c.cfg.BaseHeight
}

// State returns a snapshot of the controller's state.
func (c *Controller) State() State {
	idx := -1
	if c.expanded {
		idx = c.index
	}
	return State{
		Expanded:  c.expanded,
		Index:     idx,
		Height:    c.Height(),
		Animating: c.Animating(),
		Zoom:      c.zoom,
	}
}

// ContentWidth returns the strip's scrollable width at the given item
// height.
func (c *Controller) ContentWidth(height float64) float64 {
	return ContentWidth(c.aspects, height, c.cfg.Gap, c.cfg.Padding)
}

// TargetOffset returns the scrollLeft that centers item i at the given item
// height, clamped to the scrollable range. It returns false for an index
// out of range.
func (c *Controller) TargetOffset(i int, height float64) (float64, bool) {
	return ScrollTarget(c.aspects, i, height, c.cfg.Gap, c.cfg.Padding, c.strip.ClientWidth())
}

// OnItemClick handles a click on item i. While collapsed it expands at i;
// while expanded any item click collapses. Clicks are ignored when zoom is
// disabled or i is out of range.
func (c *Controller) OnItemClick(i int) {
	if c.closed || !c.zoom {
		return
	}
	if c.expanded {
		c.collapse()
		return
	}
	if i < 0 || i >= len(c.items) {
		c.logger.Debug("ignoring click", "index", i, "items", len(c.items))
		return
	}
	c.expand(i)
}

// OnContainerClick handles a click anywhere on the strip outside an item.
func (c *Controller) OnContainerClick() {
	if c.closed || !c.expanded {
		return
	}
	c.collapse()
}

func (c *Controller) expand(i int) {
	c.expanded, c.index = true, i
	target, _ := c.TargetOffset(i, c.cfg.ExpandedHeight)
	c.logger.Debug("expand", "index", i, "id", c.items[i].ID, "target", target)
	c.scroll.To(target, false, nil)
	c.changed()
}

func (c *Controller) collapse() {
	prev := c.index
	c.expanded, c.index = false, -1
	target, ok := c.TargetOffset(prev, c.cfg.BaseHeight)
	c.logger.Debug("collapse", "index", prev, "target", target)
	if ok {
		c.scroll.To(target, true, nil)
	} else {
		c.scroll.Cancel()
		c.scroll.RestoreSnap()
	}
	c.changed()
}

func (c *Controller) onResize(w float64) {
	if c.closed {
		return
	}
	zoom := w >= c.cfg.Breakpoint
	if zoom != c.zoom {
		c.logger.Debug("zoom toggled", "enabled", zoom, "width", w)
	}
	c.zoom = zoom
	switch {
	case c.expanded && !zoom:
		c.collapse()
		return
	case c.expanded:
		target, _ := c.TargetOffset(c.index, c.cfg.ExpandedHeight)
		c.scroll.To(target, false, nil)
	}
	c.changed()
}

// SetItems replaces the item list. The running animation is cancelled and
// its overrides reverted. An expanded index that no longer exists collapses
// the strip. Scroll snapping is restored whenever the strip ends up
// collapsed.
func (c *Controller) SetItems(items []media.Item) {
	if c.closed {
		return
	}
	c.scroll.Cancel()
	c.setItems(items)
	if c.expanded && c.index >= len(items) {
		c.logger.Debug("clearing stale index", "index", c.index, "items", len(items))
		c.expanded, c.index = false, -1
	}
	// A cancelled collapse never reaches its snap restore.
	if !c.expanded {
		c.scroll.RestoreSnap()
	}
	c.changed()
}

func (c *Controller) setItems(items []media.Item) {
	c.items = items
	c.aspects = make([]aspect.Aspect, len(items))
	for i, it := range items {
		c.aspects[i] = it.Normalized(c.model)
	}
}

// Close cancels all scheduled work, drops the width subscription and
// restores every style the controller changed. Close is idempotent.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.scroll.Release()
	if c.unsub != nil {
		c.unsub()
		c.unsub = nil
	}
	c.logger.Debug("closed")
}

func (c *Controller) changed() {
	if c.onChange != nil {
		c.onChange(c.State())
	}
}
