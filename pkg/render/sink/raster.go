package sink

import (
	"github.com/matzehuels/lightbox/pkg/grid"
	"github.com/matzehuels/lightbox/pkg/render"
)

// RenderPNG renders the layout as PNG at the given scale.
func RenderPNG(l grid.Layout, scale float64, opts ...SVGOption) ([]byte, error) {
	return render.ToPNG(RenderSVG(l, opts...), scale)
}

// RenderPDF renders the layout as PDF.
func RenderPDF(l grid.Layout, opts ...SVGOption) ([]byte, error) {
	return render.ToPDF(RenderSVG(l, opts...))
}
