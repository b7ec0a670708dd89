// Package anim implements the time-boxed scroll interpolation used by the
// carousel.
package anim

import "math"

// Easing maps linear progress in [0, 1] to eased progress in [0, 1].
type Easing func(t float64) float64

// Linear is the identity easing.
func Linear(t float64) float64 { return clamp01(t) }

// EaseInOutCubic accelerates through the first half and decelerates through
// the second.
func EaseInOutCubic(t float64) float64 {
	t = clamp01(t)
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// EaseOutCubic decelerates towards the end.
func EaseOutCubic(t float64) float64 {
	t = clamp01(t)
	return 1 - math.Pow(1-t, 3)
}

// EasingByName resolves "linear", "ease-out" or "ease-in-out". Unknown
// names resolve to EaseInOutCubic.
func EasingByName(name string) Easing {
	switch name {
	case "linear":
		return Linear
	case "ease-out":
		return EaseOutCubic
	default:
		return EaseInOutCubic
	}
}

func clamp01(t float64) float64 {
	switch {
	case t < 0:
		return 0
	case t > 1:
		return 1
	default:
		return t
	}
}
