package aspect

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/lightbox/pkg/errors"
	"github.com/matzehuels/lightbox/pkg/observability"
)

// DefaultTolerance is the relative band around a 1:1 ratio that still
// classifies as square.
const DefaultTolerance = 0.175

// Default is substituted for any descriptor that cannot be parsed.
var Default = Aspect{Width: 1600, Height: 1000, Ratio: 1.6}

// Aspect is a normalized width/height pair. Ratio is always Width/Height.
type Aspect struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Ratio  float64 `json:"ratio"`
}

// WidthAt returns the rendered width at the given height.
func (a Aspect) WidthAt(height float64) float64 { return height * a.Ratio }

// HeightAt returns the rendered height at the given width.
func (a Aspect) HeightAt(width float64) float64 { return width / a.Ratio }

// Contribution is the item's height at unit width (height/width). Column
// balancing sums these values.
func (a Aspect) Contribution() float64 { return a.Height / a.Width }

// String formats the aspect back into descriptor form.
func (a Aspect) String() string {
	return strconv.FormatFloat(a.Width, 'f', -1, 64) + "-" + strconv.FormatFloat(a.Height, 'f', -1, 64)
}

// CSSRatio formats the aspect as a CSS aspect-ratio value, "W / H".
func (a Aspect) CSSRatio() string {
	return fmt.Sprintf("%s / %s",
		strconv.FormatFloat(a.Width, 'f', -1, 64),
		strconv.FormatFloat(a.Height, 'f', -1, 64))
}

// Orientation classifies an aspect.
type Orientation struct {
	Portrait bool `json:"portrait"`
	Square   bool `json:"square"`
}

// Landscape reports whether the aspect is neither portrait nor square.
func (o Orientation) Landscape() bool { return !o.Portrait && !o.Square }

// String returns "portrait", "square" or "landscape".
func (o Orientation) String() string {
	switch {
	case o.Square:
		return "square"
	case o.Portrait:
		return "portrait"
	default:
		return "landscape"
	}
}

// Parse strictly parses a "width-height" descriptor. Both components must be
// positive integers.
func Parse(desc string) (Aspect, error) {
	s := strings.TrimSpace(desc)
	if s == "" {
		return Aspect{}, errors.New(errors.ErrCodeInvalidAspect, "empty aspect descriptor")
	}
	w, h, ok := strings.Cut(s, "-")
	if !ok {
		return Aspect{}, errors.New(errors.ErrCodeInvalidAspect, "aspect %q: missing '-' separator", desc)
	}
	width, err := parseComponent(desc, "width", w)
	if err != nil {
		return Aspect{}, err
	}
	height, err := parseComponent(desc, "height", h)
	if err != nil {
		return Aspect{}, err
	}
	return FromDimensions(width, height), nil
}

func parseComponent(desc, name, s string) (float64, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidAspect, err, "aspect %q: %s is not a number", desc, name)
	}
	if n <= 0 {
		return 0, errors.New(errors.ErrCodeInvalidAspect, "aspect %q: %s must be positive, got %d", desc, name, n)
	}
	return float64(n), nil
}

// FromDimensions builds an Aspect from pixel dimensions. Non-positive or
// non-finite dimensions yield Default.
func FromDimensions(width, height float64) Aspect {
	if !(width > 0) || !(height > 0) || math.IsInf(width, 0) || math.IsInf(height, 0) {
		return Default
	}
	return Aspect{Width: width, Height: height, Ratio: width / height}
}

// Warner receives descriptors that fell back to Default.
type Warner func(desc string, err error)

// Model normalizes descriptors with a fixed tolerance and fallback reporter.
// A Model is immutable and safe for concurrent use.
type Model struct {
	tolerance float64
	warn      Warner
}

// Option configures a Model.
type Option func(*Model)

// WithTolerance sets the square tolerance band. Negative values are ignored.
func WithTolerance(t float64) Option {
	return func(m *Model) {
		if t >= 0 {
			m.tolerance = t
		}
	}
}

// WithWarner sets the fallback reporter. By default fallbacks go to
// observability.Aspect().
func WithWarner(w Warner) Option {
	return func(m *Model) {
		if w != nil {
			m.warn = w
		}
	}
}

// New creates a Model.
func New(opts ...Option) *Model {
	m := &Model{
		tolerance: DefaultTolerance,
		warn:      func(desc string, err error) { observability.Aspect().OnFallback(desc, err) },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Tolerance returns the square tolerance band.
func (m *Model) Tolerance() float64 { return m.tolerance }

// Normalize parses desc, returning Default and reporting the error when it
// is malformed.
func (m *Model) Normalize(desc string) Aspect {
	a, err := Parse(desc)
	if err != nil {
		m.warn(desc, err)
		return Default
	}
	return a
}

// Classify reports the orientation of a.
func (m *Model) Classify(a Aspect) Orientation {
	r := a.Ratio
	if !(r > 0) {
		r = Default.Ratio
	}
	square := r >= 1/(1+m.tolerance) && r <= 1+m.tolerance
	return Orientation{
		Square:   square,
		Portrait: !square && a.Height > a.Width,
	}
}

// CSSRatio formats desc for a CSS aspect-ratio property ("1600 / 1000").
func (m *Model) CSSRatio(desc string) string {
	return m.Normalize(desc).CSSRatio()
}

var defaultModel = New()

// DefaultModel returns the package-level model used by Normalize, Classify
// and CSSRatio.
func DefaultModel() *Model { return defaultModel }

// Normalize is shorthand for DefaultModel().Normalize.
func Normalize(desc string) Aspect { return defaultModel.Normalize(desc) }

// Classify is shorthand for DefaultModel().Classify.
func Classify(a Aspect) Orientation { return defaultModel.Classify(a) }

// CSSRatio is shorthand for DefaultModel().CSSRatio.
func CSSRatio(desc string) string { return defaultModel.CSSRatio(desc) }
