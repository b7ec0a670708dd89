package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"

	"github.com/matzehuels/lightbox/pkg/grid"
)

const (
	titleHeight   = 48.0
	captionSize   = 12.0
	captionPad    = 6.0
	captionCharEm = 0.6
	tileRadius    = 4.0
)

const tileCSS = `
    .tile { fill: #d8d8d8; stroke: none; }
    .tile-link:hover .tile { fill: #c4c4c4; }
    .caption { font: 12px sans-serif; fill: #fff; paint-order: stroke; stroke: rgba(0,0,0,0.55); stroke-width: 3px; }
    .title { font: bold 20px sans-serif; fill: #222; }
    .play { fill: rgba(255,255,255,0.85); }`

// SVGOption configures RenderSVG.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	title      bool
	captions   bool
	images     bool
	background string
}

// WithTitle draws the layout title above the grid.
func WithTitle() SVGOption { return func(r *svgRenderer) { r.title = true } }

// WithCaptions draws each tile's caption, truncated to the tile width.
func WithCaptions() SVGOption { return func(r *svgRenderer) { r.captions = true } }

// WithImages fills tiles that have a Src with the image.
func WithImages() SVGOption { return func(r *svgRenderer) { r.images = true } }

// WithBackground sets the canvas color.
func WithBackground(color string) SVGOption {
	return func(r *svgRenderer) { r.background = color }
}

// RenderSVG draws the layout.
func RenderSVG(l grid.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	top := 0.0
	if r.title && l.Title != "" {
		top = titleHeight
	}
	height := l.Height + top

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		l.Width, height, l.Width, height)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", tileCSS)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", escapeXML(r.background))
	}
	if top > 0 {
		fmt.Fprintf(&buf, `  <text class="title" x="0" y="%.1f">%s</text>`+"\n", top*0.65, escapeXML(l.Title))
	}

	for _, col := range l.Columns {
		fmt.Fprintf(&buf, `  <g class="column" id="column-%d" transform="translate(0 %.1f)">`+"\n", col.Index, top)
		for _, t := range col.Tiles {
			r.renderTile(&buf, t)
		}
		buf.WriteString("  </g>\n")
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderTile(buf *bytes.Buffer, t grid.Tile) {
	if t.Href != "" {
		fmt.Fprintf(buf, `    <a class="tile-link" href="%s">`+"\n", escapeXML(t.Href))
	}
	fmt.Fprintf(buf, `    <rect class="tile" id="tile-%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.0f">`,
		escapeXML(t.ID), t.X, t.Y, t.W, t.H, tileRadius)
	if t.Caption != "" {
		fmt.Fprintf(buf, "<title>%s</title>", escapeXML(t.Caption))
	}
	buf.WriteString("</rect>\n")

	if r.images && t.Src != "" {
		fmt.Fprintf(buf, `    <image href="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" preserveAspectRatio="xMidYMid slice"/>`+"\n",
			escapeXML(t.Src), t.X, t.Y, t.W, t.H)
	}
	if t.Video {
		renderPlayMarker(buf, t)
	}
	if r.captions && t.Caption != "" {
		if text := fitCaption(t.Caption, t.W-2*captionPad); text != "" {
			fmt.Fprintf(buf, `    <text class="caption" x="%.1f" y="%.1f">%s</text>`+"\n",
				t.X+captionPad, t.Y+t.H-captionPad, escapeXML(text))
		}
	}
	if t.Href != "" {
		buf.WriteString("    </a>\n")
	}
}

func renderPlayMarker(buf *bytes.Buffer, t grid.Tile) {
	size := min(t.W, t.H) * 0.18
	cx, cy := t.X+t.W/2, t.Y+t.H/2
	fmt.Fprintf(buf, `    <polygon class="play" points="%.1f,%.1f %.1f,%.1f %.1f,%.1f"/>`+"\n",
		cx-size/2, cy-size/2, cx-size/2, cy+size/2, cx+size/2, cy)
}

// fitCaption truncates s to the number of terminal cells that fit in width
// at the caption font size. Wide runes count as two cells.
func fitCaption(s string, width float64) string {
	cells := int(width / (captionSize * captionCharEm))
	if cells < 2 {
		return ""
	}
	s = strings.TrimSpace(s)
	if runewidth.StringWidth(s) <= cells {
		return s
	}
	return truncate.StringWithTail(s, uint(cells), "…")
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
