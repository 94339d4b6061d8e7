package numeric

import (
	"math"
	"testing"
)

func TestFloat16RoundTrip(t *testing.T) {
	cases := []float32{
		0, -0, 1, -1, 0.5, -0.5, 2.0, 3.14159, 65504, -65504,
		0.0000610352, // smallest normal half
		100000,       // overflow -> inf
	}
	for _, c := range cases {
		h := Float32ToFloat16(c)
		got := Float16ToFloat32(h)
		if math.Abs(float64(c)) > 65504 {
			if !math.IsInf(float64(got), 0) {
				t.Errorf("Float32ToFloat16(%v): expected overflow to inf, got %v", c, got)
			}
			continue
		}
		diff := math.Abs(float64(got) - float64(c))
		tol := math.Abs(float64(c)) * 0.001
		if tol < 1e-6 {
			tol = 1e-6
		}
		if diff > tol {
			t.Errorf("round trip %v: got %v, diff %v exceeds tol %v", c, got, diff, tol)
		}
	}
}

func TestFloat16SpecialValues(t *testing.T) {
	if got := Float16ToFloat32(0x7c00); !math.IsInf(float64(got), 1) {
		t.Errorf("expected +Inf, got %v", got)
	}
	if got := Float16ToFloat32(0xfc00); !math.IsInf(float64(got), -1) {
		t.Errorf("expected -Inf, got %v", got)
	}
	if got := Float16ToFloat32(0x7e00); !math.IsNaN(float64(got)) {
		t.Errorf("expected NaN, got %v", got)
	}
	if got := Float32ToFloat16(float32(math.Inf(1))); got != 0x7c00 {
		t.Errorf("expected +Inf pattern, got %#04x", got)
	}
	if got := Float32ToFloat16(float32(math.NaN())); Float16ToFloat32(got) == 0 || !math.IsNaN(float64(Float16ToFloat32(got))) {
		t.Errorf("expected NaN to survive encode/decode, got pattern %#04x", got)
	}
}

func TestFloat16Subnormal(t *testing.T) {
	// Smallest positive subnormal half: 2^-24.
	h := uint16(0x0001)
	f := Float16ToFloat32(h)
	want := float32(math.Pow(2, -24))
	if math.Abs(float64(f-want)) > 1e-10 {
		t.Errorf("subnormal decode: got %v, want %v", f, want)
	}
}
