package carousel

import (
	"math"
	"testing"
	"time"

	"github.com/matzehuels/lightbox/pkg/errors"
	"github.com/matzehuels/lightbox/pkg/frame"
	"github.com/matzehuels/lightbox/pkg/media"
	"github.com/matzehuels/lightbox/pkg/viewport"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type harness struct {
	q     *frame.Queue
	strip *viewport.MemStrip
	width *viewport.MemWidth
	c     *Controller
}

func threeItems() []media.Item {
	return []media.Item{
		{ID: "wide", Aspect: "1500-1000"},
		{ID: "square", Aspect: "1000-1000"},
		{ID: "pano", Aspect: "2000-1000"},
	}
}

func newHarness(t *testing.T, items []media.Item, viewportWidth float64) *harness {
	t.Helper()
	h := &harness{
		q:     frame.NewQueue(epoch),
		strip: viewport.NewMemStrip(800),
		width: viewport.NewMemWidth(viewportWidth),
	}
	h.strip.SetStyle(viewport.StyleScrollSnap, "x mandatory")
	h.strip.SetStyle(viewport.StyleOverflowAnchor, "auto")
	c, err := New(items, h.strip, h.width, h.q, DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h.c = c
	return h
}

func (h *harness) settle() { h.q.Flush(1000) }

func TestTargetOffsetFormula(t *testing.T) {
	h := newHarness(t, threeItems(), 1280)

	// (480*1.5 + 12) + (480*1.0 + 12) + (480*2.0)/2 - 800/2
	want := (480*1.5 + 12) + (480*1.0 + 12) + (480*2.0)/2 - 800.0/2
	got, ok := h.c.TargetOffset(2, 480)
	if !ok {
		t.Fatal("TargetOffset reported out of range")
	}
	if got != want || got != 1304 {
		t.Errorf("TargetOffset(2, 480) = %v, want %v", got, want)
	}

	h.c.OnItemClick(2)
	h.settle()
	if h.strip.Left != 1304 {
		t.Errorf("scrollLeft after expand = %v, want 1304", h.strip.Left)
	}
}

func TestTargetOffsetClamped(t *testing.T) {
	h := newHarness(t, threeItems(), 1280)
	tests := []struct {
		index  int
		height float64
		want   float64
	}{
		{0, 480, 0},   // 360 - 400 < 0
		{2, 320, 664}, // content 1464 - client 800
		{1, 480, 572}, // 732 + 240 - 400
	}
	for _, tt := range tests {
		got, _ := h.c.TargetOffset(tt.index, tt.height)
		if got != tt.want {
			t.Errorf("TargetOffset(%d, %v) = %v, want %v", tt.index, tt.height, got, tt.want)
		}
	}
	if _, ok := h.c.TargetOffset(3, 480); ok {
		t.Error("TargetOffset(3) should be out of range")
	}
	if _, ok := h.c.TargetOffset(-1, 480); ok {
		t.Error("TargetOffset(-1) should be out of range")
	}
}

func TestCenterOffsetWithPadding(t *testing.T) {
	h := newHarness(t, threeItems(), 1280)
	got := CenterOffset(h.c.Aspects(), 1, 100, 10, 20, 200)
	// 20 + 150 + 10 + 50 - 100
	if got != 130 {
		t.Errorf("CenterOffset = %v, want 130", got)
	}
	// 150 + 100 + 200 + 2*10 + 2*20
	if w := ContentWidth(h.c.Aspects(), 100, 10, 20); w != 510 {
		t.Errorf("ContentWidth = %v, want 510", w)
	}
	if w := ContentWidth(nil, 100, 10, 20); w != 40 {
		t.Errorf("ContentWidth(nil) = %v, want 40", w)
	}
}

func TestExpandCollapse(t *testing.T) {
	h := newHarness(t, threeItems(), 1280)

	h.c.OnItemClick(2)
	if !h.c.IsExpanded() {
		t.Fatal("not expanded after click")
	}
	if idx, ok := h.c.ExpandedIndex(); !ok || idx != 2 {
		t.Errorf("ExpandedIndex = %d, %v; want 2, true", idx, ok)
	}
	if h.c.Height() != 480 {
		t.Errorf("Height = %v, want 480", h.c.Height())
	}
	if !h.c.Animating() {
		t.Error("expected animation in flight")
	}
	h.settle()
	if h.c.Animating() {
		t.Error("animation still running after settle")
	}
	// Snap stays off after an expand; anchor and will-change come back.
	if got := h.strip.Style(viewport.StyleScrollSnap); got != "none" {
		t.Errorf("snap after expand = %q, want none", got)
	}
	if got := h.strip.Style(viewport.StyleOverflowAnchor); got != "auto" {
		t.Errorf("anchor after expand = %q, want auto", got)
	}
	if got := h.strip.Style(viewport.StyleWillChange); got != "" {
		t.Errorf("will-change after expand = %q, want unset", got)
	}

	h.c.OnContainerClick()
	if h.c.IsExpanded() {
		t.Fatal("still expanded after container click")
	}
	if _, ok := h.c.ExpandedIndex(); ok {
		t.Error("ExpandedIndex should be cleared")
	}
	h.settle()
	if h.strip.Left != 664 {
		t.Errorf("scrollLeft after collapse = %v, want 664", h.strip.Left)
	}
	if got := h.strip.Style(viewport.StyleScrollSnap); got != "x mandatory" {
		t.Errorf("snap after collapse = %q, want x mandatory", got)
	}
}

func TestItemClickWhileExpandedCollapses(t *testing.T) {
	h := newHarness(t, threeItems(), 1280)
	h.c.OnItemClick(1)
	h.settle()
	h.c.OnItemClick(0)
	if h.c.IsExpanded() {
		t.Error("item click while expanded should collapse")
	}
}

func TestCollapseIdempotent(t *testing.T) {
	h := newHarness(t, threeItems(), 1280)
	h.c.OnItemClick(2)
	h.settle()
	h.c.OnContainerClick()
	h.settle()

	calls := h.strip.ScrollCalls
	h.c.OnContainerClick()
	h.c.OnContainerClick()
	if h.strip.ScrollCalls != calls {
		t.Errorf("ScrollCalls = %d, want %d", h.strip.ScrollCalls, calls)
	}
	if h.q.Pending() != 0 {
		t.Errorf("Pending = %d, want 0", h.q.Pending())
	}
}

func TestClickPreemptsAnimation(t *testing.T) {
	h := newHarness(t, threeItems(), 1280)
	h.c.OnItemClick(2)
	h.q.Advance(100 * time.Millisecond)
	mid := h.strip.Left
	if mid <= 0 || mid >= 1304 {
		t.Fatalf("mid-animation scrollLeft = %v", mid)
	}

	h.c.OnContainerClick()
	if h.q.PendingFrames() != 1 {
		t.Errorf("PendingFrames = %d, want exactly one animation", h.q.PendingFrames())
	}
	h.settle()
	if h.strip.Left != 664 {
		t.Errorf("scrollLeft = %v, want 664", h.strip.Left)
	}
	if got := h.strip.Style(viewport.StyleScrollSnap); got != "x mandatory" {
		t.Errorf("snap = %q, want restored", got)
	}
}

func TestZoomBreakpoint(t *testing.T) {
	h := newHarness(t, threeItems(), 600)
	if h.c.ZoomEnabled() {
		t.Fatal("zoom enabled below breakpoint")
	}
	h.c.OnItemClick(1)
	if h.c.IsExpanded() || h.q.Pending() != 0 || h.strip.ScrollCalls != 0 {
		t.Error("click below breakpoint should be a no-op")
	}

	h.width.Resize(1024)
	if !h.c.ZoomEnabled() {
		t.Fatal("zoom not enabled after widening")
	}
	h.c.OnItemClick(1)
	if !h.c.IsExpanded() {
		t.Error("click above breakpoint should expand")
	}

	h.width.Resize(500)
	if h.c.IsExpanded() {
		t.Error("narrowing below breakpoint should collapse")
	}
	h.settle()
	if got := h.strip.Style(viewport.StyleScrollSnap); got != "x mandatory" {
		t.Errorf("snap = %q, want restored", got)
	}
}

func TestResizeRecenters(t *testing.T) {
	h := newHarness(t, threeItems(), 1280)
	h.c.OnItemClick(1)
	h.settle()
	h.strip.Client = 600
	h.width.Resize(1000)
	h.settle()
	want, _ := h.c.TargetOffset(1, 480)
	if h.strip.Left != want {
		t.Errorf("scrollLeft = %v, want %v", h.strip.Left, want)
	}
}

func TestOutOfRangeClick(t *testing.T) {
	h := newHarness(t, threeItems(), 1280)
	h.c.OnItemClick(3)
	h.c.OnItemClick(-1)
	if h.c.IsExpanded() || h.q.Pending() != 0 {
		t.Error("out-of-range click should be a no-op")
	}
}

func TestSetItemsClearsStaleIndex(t *testing.T) {
	h := newHarness(t, threeItems(), 1280)
	h.c.OnItemClick(2)
	h.q.Step()

	h.c.SetItems(threeItems()[:2])
	if h.c.IsExpanded() {
		t.Error("stale index not cleared")
	}
	if h.q.Pending() != 0 {
		t.Errorf("Pending = %d, want 0", h.q.Pending())
	}
	if got := h.strip.Style(viewport.StyleOverflowAnchor); got != "auto" {
		t.Errorf("anchor = %q, want restored", got)
	}
	if got := h.strip.Style(viewport.StyleWillChange); got != "" {
		t.Errorf("will-change = %q, want unset", got)
	}
	if got := h.strip.Style(viewport.StyleScrollSnap); got != "x mandatory" {
		t.Errorf("snap = %q, want restored", got)
	}
}

func TestSetItemsDuringCollapseRestoresSnap(t *testing.T) {
	h := newHarness(t, threeItems(), 1280)
	h.c.OnItemClick(2)
	h.settle()

	h.c.OnContainerClick()
	h.q.Step()
	h.c.SetItems(threeItems())
	h.settle()

	if h.c.IsExpanded() {
		t.Fatal("expanded after collapse")
	}
	if got := h.strip.Style(viewport.StyleScrollSnap); got != "x mandatory" {
		t.Errorf("snap = %q, want restored", got)
	}
}

func TestExpandWithoutAnimationSuppressesSnap(t *testing.T) {
	h := newHarness(t, threeItems(), 1280)

	// Item 0 is already centered at scrollLeft 0, so nothing interpolates.
	h.c.OnItemClick(0)
	if h.c.Animating() {
		t.Fatal("expected no animation")
	}
	if got := h.strip.Style(viewport.StyleScrollSnap); got != "none" {
		t.Errorf("snap while expanded = %q, want none", got)
	}

	h.c.OnContainerClick()
	h.settle()
	if got := h.strip.Style(viewport.StyleScrollSnap); got != "x mandatory" {
		t.Errorf("snap after collapse = %q, want restored", got)
	}
}

func TestSetItemsKeepsValidIndex(t *testing.T) {
	h := newHarness(t, threeItems(), 1280)
	h.c.OnItemClick(0)
	h.settle()
	h.c.SetItems(append(threeItems(), media.Item{ID: "extra", Aspect: "bogus"}))
	if idx, ok := h.c.ExpandedIndex(); !ok || idx != 0 {
		t.Errorf("ExpandedIndex = %d, %v; want 0, true", idx, ok)
	}
	if r := h.c.Aspects()[3].Ratio; r != 1.6 {
		t.Errorf("malformed aspect ratio = %v, want fallback 1.6", r)
	}
}

func TestCloseMidAnimation(t *testing.T) {
	h := newHarness(t, threeItems(), 1280)
	h.c.OnItemClick(2)
	h.q.Advance(50 * time.Millisecond)

	h.c.Close()
	if h.q.Pending() != 0 {
		t.Errorf("Pending after Close = %d, want 0", h.q.Pending())
	}
	if h.width.Subscribers() != 0 {
		t.Errorf("width subscribers = %d, want 0", h.width.Subscribers())
	}
	for prop, want := range map[string]string{
		viewport.StyleScrollSnap:     "x mandatory",
		viewport.StyleOverflowAnchor: "auto",
		viewport.StyleWillChange:     "",
	} {
		if got := h.strip.Style(prop); got != want {
			t.Errorf("%s = %q, want %q", prop, got, want)
		}
	}

	left, calls := h.strip.Left, h.strip.ScrollCalls
	h.q.Advance(time.Second)
	h.c.OnContainerClick()
	h.c.OnItemClick(0)
	h.width.Resize(2000)
	h.c.Close()
	if h.strip.Left != left || h.strip.ScrollCalls != calls {
		t.Error("controller mutated the strip after Close")
	}
}

func TestSingleWidthSubscription(t *testing.T) {
	h := newHarness(t, threeItems(), 1280)
	for i := 0; i < 3; i++ {
		h.c.OnItemClick(i)
		h.c.OnContainerClick()
		h.width.Resize(float64(900 + i))
	}
	if h.width.Subscribers() != 1 {
		t.Errorf("width subscribers = %d, want 1", h.width.Subscribers())
	}
}

func TestOnChange(t *testing.T) {
	q := frame.NewQueue(epoch)
	var states []State
	c, err := New(threeItems(), viewport.NewMemStrip(800), viewport.NewMemWidth(1280), q, DefaultConfig(),
		WithOnChange(func(s State) { states = append(states, s) }))
	if err != nil {
		t.Fatal(err)
	}
	c.OnItemClick(1)
	c.OnContainerClick()
	if len(states) != 2 {
		t.Fatalf("got %d state changes, want 2", len(states))
	}
	if !states[0].Expanded || states[0].Index != 1 || states[0].Height != 480 {
		t.Errorf("first state = %+v", states[0])
	}
	if states[1].Expanded || states[1].Index != -1 || states[1].Height != 320 {
		t.Errorf("second state = %+v", states[1])
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*Config)
	}{
		{"zero base", func(c *Config) { c.BaseHeight = 0 }},
		{"negative expanded", func(c *Config) { c.ExpandedHeight = -1 }},
		{"negative gap", func(c *Config) { c.Gap = -1 }},
		{"negative duration", func(c *Config) { c.Duration = -time.Second }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mut(&cfg)
			_, err := New(nil, viewport.NewMemStrip(800), viewport.NewMemWidth(1280), frame.NewQueue(epoch), cfg)
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("err = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestItemWidths(t *testing.T) {
	h := newHarness(t, threeItems(), 1280)
	got := ItemWidths(h.c.Aspects(), 100)
	want := []float64{150, 100, 200}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("width[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
