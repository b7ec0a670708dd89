package anim

import (
	"math"
	"testing"
)

func TestEasingEndpoints(t *testing.T) {
	tests := []struct {
		name string
		fn   Easing
	}{
		{"linear", Linear},
		{"ease-in-out", EaseInOutCubic},
		{"ease-out", EaseOutCubic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(0); got != 0 {
				t.Errorf("f(0) = %v, want 0", got)
			}
			if got := tt.fn(1); got != 1 {
				t.Errorf("f(1) = %v, want 1", got)
			}
			if got := tt.fn(-1); got != 0 {
				t.Errorf("f(-1) = %v, want 0", got)
			}
			if got := tt.fn(2); got != 1 {
				t.Errorf("f(2) = %v, want 1", got)
			}
			prev := 0.0
			for i := 1; i <= 100; i++ {
				v := tt.fn(float64(i) / 100)
				if v < prev {
					t.Fatalf("not monotonic at %d: %v < %v", i, v, prev)
				}
				prev = v
			}
		})
	}
}

func TestEaseInOutCubicSymmetric(t *testing.T) {
	if got := EaseInOutCubic(0.5); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("f(0.5) = %v, want 0.5", got)
	}
	for _, x := range []float64{0.1, 0.25, 0.4} {
		if d := EaseInOutCubic(x) + EaseInOutCubic(1-x) - 1; math.Abs(d) > 1e-12 {
			t.Errorf("f(%v)+f(1-%v) off by %v", x, x, d)
		}
	}
}

func TestEasingByName(t *testing.T) {
	if EasingByName("linear")(0.3) != 0.3 {
		t.Error("linear not resolved")
	}
	if EasingByName("ease-out")(0.5) != EaseOutCubic(0.5) {
		t.Error("ease-out not resolved")
	}
	if EasingByName("bogus")(0.25) != EaseInOutCubic(0.25) {
		t.Error("unknown name should fall back to ease-in-out")
	}
}
