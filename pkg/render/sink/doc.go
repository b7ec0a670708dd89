// Package sink renders a grid.Layout.
//
// [RenderSVG] draws the masonry grid: one group per column, one rounded
// rectangle per tile, with optional image fills, captions and a title bar.
// Tiles with an Href are wrapped in links and video tiles carry a play
// marker. [RenderJSON] emits the layout itself. [RenderPNG] and
// [RenderPDF] convert the SVG through package render.
package sink
