package rowgrid

import (
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/lightbox/pkg/aspect"
	"github.com/matzehuels/lightbox/pkg/frame"
	"github.com/matzehuels/lightbox/pkg/media"
	"github.com/matzehuels/lightbox/pkg/viewport"
)

// Centering defaults.
const (
	DefaultTolerance     = 1.0
	DefaultMaxPasses     = 6
	DefaultFallbackDelay = 150 * time.Millisecond
)

// Controller owns the active cell of one grid and keeps it centered.
//
// A Controller is not safe for concurrent use; see the package
// documentation.
type Controller struct {
	id     string
	model  *aspect.Model
	logger *log.Logger

	page     viewport.Page
	observer viewport.ResizeObserver
	sched    frame.Scheduler

	tolerance float64
	maxPasses int
	fallback  time.Duration

	layout   Layout
	active   string
	elements map[string]binding
	bindings uint64

	stopObserve func()
	pending     frame.Group
	passes      int
	closed      bool
	onChange    func(key string)
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for debug tracing.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithModel sets the aspect model used to build the layout.
func WithModel(m *aspect.Model) Option {
	return func(c *Controller) {
		if m != nil {
			c.model = m
		}
	}
}

// WithTolerance sets the distance in pixels below which centering does not
// scroll. Negative values are ignored.
func WithTolerance(px float64) Option {
	return func(c *Controller) {
		if px >= 0 {
			c.tolerance = px
		}
	}
}

// WithMaxPasses bounds the number of consecutive centering passes after a
// single trigger. Values below 1 are ignored.
func WithMaxPasses(n int) Option {
	return func(c *Controller) {
		if n >= 1 {
			c.maxPasses = n
		}
	}
}

// WithFallbackDelay sets the delay of the fallback centering pass.
func WithFallbackDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.fallback = d
		}
	}
}

// WithOnChange registers fn to run whenever the active key changes. fn
// receives the empty string on deactivation.
func WithOnChange(fn func(key string)) Option {
	return func(c *Controller) { c.onChange = fn }
}

// New creates a controller over items.
func New(items []media.Item, page viewport.Page, observer viewport.ResizeObserver, sched frame.Scheduler, opts ...Option) *Controller {
	c := &Controller{
		id:        uuid.NewString(),
		model:     aspect.DefaultModel(),
		logger:    log.New(io.Discard),
		page:      page,
		observer:  observer,
		sched:     sched,
		tolerance: DefaultTolerance,
		maxPasses: DefaultMaxPasses,
		fallback:  DefaultFallbackDelay,
		elements:  make(map[string]binding),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("rowgrid", c.id[:8])
	c.layout = Build(items, c.model)
	return c
}

// ID returns the controller's instance ID.
func (c *Controller) ID() string { return c.id }

// Layout returns the current row layout.
func (c *Controller) Layout() Layout { return c.layout }

// ActiveKey returns the active cell key.
func (c *Controller) ActiveKey() (string, bool) {
	return c.active, c.active != ""
}

// IsActive reports whether key is the active cell.
func (c *Controller) IsActive(key string) bool {
	return key != "" && key == c.active
}

// ActiveRow returns the row containing the active cell.
func (c *Controller) ActiveRow() (Row, bool) {
	if c.active == "" {
		return Row{}, false
	}
	_, row, ok := c.layout.Cell(c.active)
	if !ok {
		return Row{}, false
	}
	return c.layout.Rows[row], true
}

// Register binds the rendered element of a cell. If the cell is active the
// controller starts observing and centering it. The returned function
// unbinds the element.
func (c *Controller) Register(key string, el viewport.Element) (release func()) {
	if c.closed || el == nil {
		return func() {}
	}
	c.bindings++
	id := c.bindings
	c.elements[key] = binding{el: el, id: id}
	if c.IsActive(key) {
		c.attach(el)
		c.scheduleCentering()
	}
	return func() {
		if c.closed || c.elements[key].id != id {
			return
		}
		delete(c.elements, key)
		if c.IsActive(key) {
			c.detach()
		}
	}
}

// binding is a registered element. id tells a stale release apart from the
// current registration without comparing elements.
type binding struct {
	el viewport.Element
	id uint64
}

// OnItemClick toggles the cell named by key. Activating a cell deactivates
// any other. Unknown keys are ignored.
func (c *Controller) OnItemClick(key string) {
	if c.closed || !c.layout.Has(key) {
		return
	}
	if c.IsActive(key) {
		c.deactivate()
		return
	}
	c.activate(key)
}

// OnBackdropClick deactivates the active cell.
func (c *Controller) OnBackdropClick() {
	if c.closed || c.active == "" {
		return
	}
	c.deactivate()
}

func (c *Controller) activate(key string) {
	if c.active != "" {
		c.detach()
	}
	c.active = key
	c.logger.Debug("activate", "key", key)
	if b, ok := c.elements[key]; ok {
		c.attach(b.el)
		c.scheduleCentering()
	}
	c.changed()
}

func (c *Controller) deactivate() {
	c.logger.Debug("deactivate", "key", c.active)
	c.detach()
	c.active = ""
	c.changed()
}

func (c *Controller) attach(el viewport.Element) {
	c.detach()
	c.stopObserve = c.observer.Observe(el, func(viewport.Rect) {
		c.scheduleCentering()
	})
}

// detach stops observing and cancels any pending centering.
func (c *Controller) detach() {
	c.pending.Cancel()
	if c.stopObserve != nil {
		c.stopObserve()
		c.stopObserve = nil
	}
}

// scheduleCentering replaces any pending centering with a fresh schedule:
// a pass two frames out and a fallback pass after the fallback delay.
func (c *Controller) scheduleCentering() {
	if c.closed {
		return
	}
	c.pending.Cancel()
	c.passes = 0
	c.queuePass()
	c.pending.Add(c.sched.AfterFunc(c.fallback, c.pass))
}

func (c *Controller) queuePass() {
	c.pending.Add(c.sched.RequestFrame(func(time.Time) {
		c.pending.Add(c.sched.RequestFrame(func(time.Time) { c.pass() }))
	}))
}

func (c *Controller) pass() {
	if c.passes >= c.maxPasses {
		return
	}
	c.passes++
	if c.Center() && c.passes < c.maxPasses {
		c.queuePass()
	}
}

// Center scrolls the page so the active element is vertically centered and
// reports whether the page moved. It does nothing when no element is bound
// to the active key or the element is already within tolerance of the
// viewport center.
func (c *Controller) Center() bool {
	if c.closed || c.active == "" {
		return false
	}
	b, ok := c.elements[c.active]
	if !ok {
		return false
	}
	delta := b.el.Measure().CenterY() - c.page.ViewportHeight()/2
	if math.Abs(delta) < c.tolerance {
		return false
	}
	before := c.page.ScrollY()
	c.page.ScrollTo(before + delta)
	moved := c.page.ScrollY() != before
	c.logger.Debug("center", "key", c.active, "delta", delta, "moved", moved)
	return moved
}

// SetItems rebuilds the layout. An active key that no longer names a cell
// is cleared.
func (c *Controller) SetItems(items []media.Item) {
	if c.closed {
		return
	}
	c.layout = Build(items, c.model)
	if c.active != "" && !c.layout.Has(c.active) {
		c.logger.Debug("clearing stale key", "key", c.active)
		c.deactivate()
	}
}

// Close cancels all scheduled work and stops observing. Close is
// idempotent; later calls on the controller are no-ops.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.detach()
	c.closed = true
	c.active = ""
	c.elements = nil
	c.logger.Debug("closed")
}

func (c *Controller) changed() {
	if c.onChange != nil {
		c.onChange(c.active)
	}
}
