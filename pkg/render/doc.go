// Package render converts SVG output to raster and print formats.
//
// The [sink] subpackage draws a grid.Layout as SVG or JSON. [ToPNG] and
// [ToPDF] convert that SVG with the external rsvg-convert tool (librsvg):
//
//	svg := sink.RenderSVG(layout)
//	png, err := render.ToPNG(svg, 2.0)
//	pdf, err := render.ToPDF(svg)
package render
