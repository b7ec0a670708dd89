// Package pipeline provides the manifest → pack → render pipeline shared by
// the CLI and the HTTP server.
//
// # Stages
//
//  1. Parse: decode a manifest (or take items directly) and validate them
//  2. Pack: balance items into columns and place them in a frame
//  3. Render: draw the layout as SVG, PNG, PDF or JSON
//
// Pack and Render results are cached through a cache.Cache, keyed by the
// content hash of their input, so repeated runs over an unchanged manifest
// are free.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Manifest:       string(data),
//	    ManifestFormat: "toml",
//	    Columns:        3,
//	    Formats:        []string{"svg"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lightbox/pkg/aspect"
	"github.com/matzehuels/lightbox/pkg/cache"
	"github.com/matzehuels/lightbox/pkg/errors"
	"github.com/matzehuels/lightbox/pkg/grid"
	"github.com/matzehuels/lightbox/pkg/media"
	"github.com/matzehuels/lightbox/pkg/packer"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default frame width in pixels.
	DefaultWidth = 960.0

	// DefaultGutter is the default space between columns and tiles.
	DefaultGutter = 12.0

	// DefaultScale is the default PNG scale factor.
	DefaultScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures a pipeline run. It doubles as the JSON body of the
// HTTP pack endpoint.
type Options struct {
	// Input: either Items or Manifest (with ManifestFormat).
	Items          []media.Item `json:"items,omitempty"`
	Manifest       string       `json:"manifest,omitempty"`
	ManifestFormat string       `json:"manifest_format,omitempty"`
	Title          string       `json:"title,omitempty"`

	// Pack options. Columns of zero picks a count from Responsive and Width.
	Columns    int               `json:"columns,omitempty"`
	Width      float64           `json:"width,omitempty"`
	Gutter     float64           `json:"gutter,omitempty"`
	Tolerance  float64           `json:"tolerance,omitempty"`
	Responsive packer.Responsive `json:"responsive,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Captions bool     `json:"captions,omitempty"`
	Images   bool     `json:"images,omitempty"`
	Scale    float64  `json:"scale,omitempty"`

	// Refresh bypasses cached results.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Items is the validated item list.
	Items []media.Item

	// ItemsHash is the content hash of Items.
	ItemsHash string

	// Layout is the placed grid.
	Layout grid.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ItemCount  int
	Columns    int
	ParseTime  time.Duration
	PackTime   time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	PackHit   bool
	RenderHit bool
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the input and applies defaults for the full
// pipeline. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	if err := o.ValidateForPack(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForParse checks that exactly one input is given.
func (o *Options) ValidateForParse() error {
	if len(o.Items) == 0 && o.Manifest == "" {
		return errors.New(errors.ErrCodeInvalidInput, "items or manifest is required")
	}
	if len(o.Items) > 0 && o.Manifest != "" {
		return errors.New(errors.ErrCodeInvalidInput, "items and manifest are mutually exclusive")
	}
	if o.Manifest != "" && o.ManifestFormat == "" {
		return errors.New(errors.ErrCodeInvalidInput, "manifest_format is required")
	}
	o.setLogger()
	return nil
}

// SetPackDefaults sets default values for packing.
func (o *Options) SetPackDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Gutter == 0 {
		o.Gutter = DefaultGutter
	}
	if o.Tolerance == 0 {
		o.Tolerance = aspect.DefaultTolerance
	}
	if len(o.Responsive) == 0 {
		o.Responsive = packer.DefaultResponsive
	}
	if o.Columns == 0 {
		o.Columns = o.Responsive.ColumnsFor(o.Width)
	}
	o.setLogger()
}

// ValidateForPack validates and sets defaults for packing.
func (o *Options) ValidateForPack() error {
	o.SetPackDefaults()
	if o.Columns < 0 {
		return errors.New(errors.ErrCodeInvalidColumns, "columns must be positive, got %d", o.Columns)
	}
	if o.Width < 0 || o.Gutter < 0 || o.Tolerance < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "width, gutter and tolerance must not be negative")
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// Model returns the aspect model for the options' tolerance.
func (o *Options) Model() *aspect.Model {
	return aspect.New(aspect.WithTolerance(o.Tolerance))
}

// LayoutKeyOpts returns cache key options for packing.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Columns:   o.Columns,
		Width:     o.Width,
		Gutter:    o.Gutter,
		Tolerance: o.Tolerance,
	}
}

// ArtifactKeyOpts returns cache key options for rendering one format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   fmt.Sprintf("%s@%g", format, o.Scale),
		Title:    o.Title,
		Captions: o.Captions,
		Images:   o.Images,
	}
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}
