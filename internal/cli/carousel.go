package cli

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lightbox/pkg/carousel"
	"github.com/matzehuels/lightbox/pkg/frame"
	"github.com/matzehuels/lightbox/pkg/media"
	"github.com/matzehuels/lightbox/pkg/viewport"
)

// Terminal cell geometry used to project the strip's CSS pixels.
const (
	pxPerColumn = 8.0
	pxPerLine   = 40.0
)

// carouselCommand creates the interactive carousel preview.
func (c *CLI) carouselCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "carousel [manifest]",
		Short: "Preview the zoomable carousel in the terminal",
		Long: `Preview the zoomable carousel in the terminal.

The strip is drawn at one terminal column per 8 CSS pixels. Selecting an
item expands the strip and scrolls the item to the center; selecting again
(or esc) collapses it. Zoom is disabled while the terminal is narrower than
the configured breakpoint.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := media.LoadFile(args[0])
			if err != nil {
				return err
			}
			model, err := newCarouselModel(m, c.Config.Carousel.ControllerConfig(), loggerFromContext(cmd.Context()), 100)
			if err != nil {
				return err
			}
			defer model.ctrl.Close()

			_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}

// =============================================================================
// Key Bindings
// =============================================================================

type carouselKeys struct {
	Prev   key.Binding
	Next   key.Binding
	Toggle key.Binding
	Close  key.Binding
	Wider  key.Binding
	Narrow key.Binding
	Quit   key.Binding
}

func (k carouselKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Toggle, k.Close, k.Wider, k.Narrow, k.Quit}
}

func (k carouselKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var defaultCarouselKeys = carouselKeys{
	Prev:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev")),
	Next:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),
	Toggle: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("⏎", "zoom")),
	Close:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "collapse")),
	Wider:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "wider")),
	Narrow: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "narrower")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// =============================================================================
// Model
// =============================================================================

// frameMsg advances the scheduler by one frame.
type frameMsg time.Time

// carouselModel drives a carousel.Controller from bubbletea. The frame
// queue is stepped by tick messages, so every controller callback runs on
// the bubbletea goroutine.
type carouselModel struct {
	title  string
	items  []media.Item
	ctrl   *carousel.Controller
	queue  *frame.Queue
	strip  *viewport.MemStrip
	width  *viewport.MemWidth
	cursor int
	cols   int
	keys   carouselKeys
	help   help.Model
}

func newCarouselModel(m *media.Manifest, cfg carousel.Config, logger *log.Logger, cols int) (*carouselModel, error) {
	client := float64(cols) * pxPerColumn
	cm := &carouselModel{
		title: m.Title,
		items: m.Items,
		queue: frame.NewQueue(time.Now()),
		strip: viewport.NewMemStrip(client),
		width: viewport.NewMemWidth(client),
		cols:  cols,
		keys:  defaultCarouselKeys,
		help:  help.New(),
	}
	ctrl, err := carousel.New(m.Items, cm.strip, cm.width, cm.queue, cfg,
		carousel.WithOnChange(func(s carousel.State) {
			logger.Debug("carousel state", "expanded", s.Expanded, "index", s.Index, "height", s.Height)
			cm.syncContentWidth(s.Height)
		}))
	if err != nil {
		return nil, err
	}
	cm.ctrl = ctrl
	cm.syncContentWidth(ctrl.Height())
	return cm, nil
}

func (m *carouselModel) syncContentWidth(height float64) {
	if m.ctrl != nil {
		m.strip.ContentWidth = m.ctrl.ContentWidth(height)
	}
}

func (m *carouselModel) Init() tea.Cmd { return nil }

func (m *carouselModel) tick() tea.Cmd {
	if m.queue.Pending() == 0 {
		return nil
	}
	return tea.Tick(m.queue.Interval(), func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m *carouselModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.queue.Step()
		return m, m.tick()

	case tea.WindowSizeMsg:
		m.resize(msg.Width)
		m.help.Width = msg.Width
		return m, m.tick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Prev):
			m.moveCursor(-1)
		case key.Matches(msg, m.keys.Next):
			m.moveCursor(1)
		case key.Matches(msg, m.keys.Toggle):
			m.ctrl.OnItemClick(m.cursor)
		case key.Matches(msg, m.keys.Close):
			m.ctrl.OnContainerClick()
		case key.Matches(msg, m.keys.Wider):
			m.resize(m.cols + 10)
		case key.Matches(msg, m.keys.Narrow):
			m.resize(m.cols - 10)
		}
		return m, m.tick()
	}
	return m, nil
}

// resize changes the simulated viewport to cols terminal columns.
func (m *carouselModel) resize(cols int) {
	cols = max(cols, 20)
	m.cols = cols
	client := float64(cols) * pxPerColumn
	m.strip.Client = client
	m.width.Resize(client)
	m.strip.SetScrollLeft(m.strip.Left)
}

// moveCursor moves focus. While collapsed the strip follows the cursor the
// way a user scroll would.
func (m *carouselModel) moveCursor(delta int) {
	if len(m.items) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.items)-1)
	if m.ctrl.IsExpanded() || m.ctrl.Animating() {
		return
	}
	cfg := m.ctrl.Config()
	h := m.ctrl.Height()
	left := cfg.Padding
	for _, a := range m.ctrl.Aspects()[:m.cursor] {
		left += a.WidthAt(h) + cfg.Gap
	}
	right := left + m.ctrl.Aspects()[m.cursor].WidthAt(h)
	switch {
	case left < m.strip.Left:
		m.strip.SetScrollLeft(left - cfg.Gap)
	case right > m.strip.Left+m.strip.Client:
		m.strip.SetScrollLeft(right - m.strip.Client + cfg.Gap)
	}
}

// =============================================================================
// View
// =============================================================================

var (
	carouselTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	carouselStatusStyle = lipgloss.NewStyle().Foreground(colorGray)
)

func (m *carouselModel) View() string {
	var b strings.Builder
	title := m.title
	if title == "" {
		title = "carousel"
	}
	b.WriteString(carouselTitleStyle.Render(title))
	b.WriteString("\n\n")
	for _, line := range m.renderStrip() {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(carouselStatusStyle.Render(m.status()))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *carouselModel) status() string {
	s := m.ctrl.State()
	parts := []string{fmt.Sprintf("item %d/%d", m.cursor+1, len(m.items))}
	if s.Expanded {
		parts = append(parts, fmt.Sprintf("expanded #%d", s.Index+1))
	} else {
		parts = append(parts, "collapsed")
	}
	parts = append(parts, fmt.Sprintf("scrollLeft %.0f", m.strip.Left))
	if s.Animating {
		parts = append(parts, "animating")
	}
	if !s.Zoom {
		parts = append(parts, "zoom off")
	}
	return strings.Join(parts, " · ")
}

// renderStrip draws the whole strip at the current height into a cell
// grid and returns the visible window.
func (m *carouselModel) renderStrip() []string {
	cfg := m.ctrl.Config()
	h := m.ctrl.Height()
	lines := max(int(math.Round(h/pxPerLine)), 3)
	total := int(math.Ceil(m.ctrl.ContentWidth(h)/pxPerColumn)) + 1
	grid := newCellGrid(lines, total)

	x := cfg.Padding
	expanded, _ := m.ctrl.ExpandedIndex()
	for i, a := range m.ctrl.Aspects() {
		w := a.WidthAt(h)
		col := int(math.Round(x / pxPerColumn))
		width := max(int(math.Round(w/pxPerColumn)), 3)
		grid.box(col, width, m.items[i], i == m.cursor, m.ctrl.IsExpanded() && i == expanded)
		x += w + cfg.Gap
	}

	start := int(math.Round(m.strip.Left / pxPerColumn))
	return grid.window(start, m.cols)
}

// cellGrid is a fixed grid of terminal cells. A wide rune occupies its cell
// and leaves an empty placeholder in the next one.
type cellGrid [][]string

func newCellGrid(lines, cols int) cellGrid {
	g := make(cellGrid, lines)
	for i := range g {
		g[i] = make([]string, cols)
		for j := range g[i] {
			g[i][j] = " "
		}
	}
	return g
}

func (g cellGrid) set(line, col int, s string) {
	if line < 0 || line >= len(g) || col < 0 || col >= len(g[line]) {
		return
	}
	g[line][col] = s
}

// text writes s starting at col, clipped to width cells.
func (g cellGrid) text(line, col, width int, s string) {
	if runewidth.StringWidth(s) > width {
		s = truncate.StringWithTail(s, uint(width), "…")
	}
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if width < rw {
			return
		}
		g.set(line, col, string(r))
		if rw == 2 {
			g.set(line, col+1, "")
		}
		col += rw
		width -= rw
	}
}

// box draws one item. Focused items get a heavy border, the expanded item
// a double one.
func (g cellGrid) box(col, width int, it media.Item, focused, expanded bool) {
	tl, tr, bl, br, hz, vt := "┌", "┐", "└", "┘", "─", "│"
	switch {
	case expanded:
		tl, tr, bl, br, hz, vt = "╔", "╗", "╚", "╝", "═", "║"
	case focused:
		tl, tr, bl, br, hz, vt = "┏", "┓", "┗", "┛", "━", "┃"
	}
	last := len(g) - 1
	g.set(0, col, tl)
	g.set(0, col+width-1, tr)
	g.set(last, col, bl)
	g.set(last, col+width-1, br)
	for c := col + 1; c < col+width-1; c++ {
		g.set(0, c, hz)
		g.set(last, c, hz)
	}
	for l := 1; l < last; l++ {
		g.set(l, col, vt)
		g.set(l, col+width-1, vt)
	}

	inner := width - 4
	if inner <= 0 {
		return
	}
	label := it.ID
	if it.Caption != "" {
		label = it.Caption
	}
	mid := len(g) / 2
	g.text(mid, col+2, inner, label)
	if it.Video && mid+1 < last {
		g.text(mid+1, col+2, inner, "▶ video")
	}
	if mid-1 > 0 {
		g.text(mid-1, col+2, inner, it.Aspect)
	}
}

// window returns cols cells of every line starting at start. Wide runes cut
// by either edge are replaced with spaces.
func (g cellGrid) window(start, cols int) []string {
	out := make([]string, len(g))
	for i, line := range g {
		var b strings.Builder
		for c := start; c < start+cols; c++ {
			if c < 0 || c >= len(line) {
				b.WriteString(" ")
				continue
			}
			cell := line[c]
			switch {
			case cell == "" && c == start:
				b.WriteString(" ")
			case cell == "":
			case c == start+cols-1 && runewidth.StringWidth(cell) == 2:
				b.WriteString(" ")
			default:
				b.WriteString(cell)
			}
		}
		out[i] = strings.TrimRight(b.String(), " ")
	}
	return out
}
