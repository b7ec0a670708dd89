package carousel

import (
	"time"

	"github.com/matzehuels/lightbox/pkg/anim"
	"github.com/matzehuels/lightbox/pkg/errors"
)

// Default geometry, in CSS pixels.
const (
	DefaultBaseHeight     = 320
	DefaultExpandedHeight = 480
	DefaultGap            = 12
	DefaultBreakpoint     = 768
)

// Config holds the strip geometry and animation parameters.
type Config struct {
	// BaseHeight is the item height while collapsed.
	BaseHeight float64

	// ExpandedHeight is the item height while expanded.
	ExpandedHeight float64

	// Gap is the horizontal space between adjacent items.
	Gap float64

	// Padding is the leading (and trailing) inset of the strip.
	Padding float64

	// Breakpoint is the minimum viewport width at which zoom is enabled.
	Breakpoint float64

	// Duration is the length of the scroll animation.
	Duration time.Duration

	// Easing shapes the scroll animation. Nil means anim.EaseInOutCubic.
	Easing anim.Easing
}

// DefaultConfig returns the default strip configuration.
func DefaultConfig() Config {
	return Config{
		BaseHeight:     DefaultBaseHeight,
		ExpandedHeight: DefaultExpandedHeight,
		Gap:            DefaultGap,
		Breakpoint:     DefaultBreakpoint,
		Duration:       anim.DefaultDuration,
		Easing:         anim.EaseInOutCubic,
	}
}

// Validate checks the geometry.
func (c Config) Validate() error {
	if c.BaseHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "base height must be positive, got %g", c.BaseHeight)
	}
	if c.ExpandedHeight <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "expanded height must be positive, got %g", c.ExpandedHeight)
	}
	if c.Gap < 0 || c.Padding < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "gap and padding must not be negative")
	}
	if c.Breakpoint < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "breakpoint must not be negative, got %g", c.Breakpoint)
	}
	if c.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "duration must not be negative, got %s", c.Duration)
	}
	return nil
}
