package pipeline

import (
	"fmt"

	"github.com/matzehuels/lightbox/pkg/errors"
	"github.com/matzehuels/lightbox/pkg/grid"
	"github.com/matzehuels/lightbox/pkg/render/sink"
)

// Render draws a layout in every requested format.
func Render(l grid.Layout, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	svgOpts := buildSVGOptions(l, opts)

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(l, svgOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(l, opts.Scale, svgOpts...)
		case FormatPDF:
			data, err = sink.RenderPDF(l, svgOpts...)
		case FormatJSON:
			data, err = sink.RenderJSON(l)
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func buildSVGOptions(l grid.Layout, opts Options) []sink.SVGOption {
	var svgOpts []sink.SVGOption
	if l.Title != "" {
		svgOpts = append(svgOpts, sink.WithTitle())
	}
	if opts.Captions {
		svgOpts = append(svgOpts, sink.WithCaptions())
	}
	if opts.Images {
		svgOpts = append(svgOpts, sink.WithImages())
	}
	return svgOpts
}
