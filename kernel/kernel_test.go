package kernel

import (
	"encoding/binary"
	"math"
	"testing"
)

func f32Bytes(vs ...float32) []byte {
	buf := make([]byte, 4*len(vs))
	for i, v := range vs {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func TestScalarIdentity(t *testing.T) {
	a := f32Bytes(1, 2, 3, 4, 5)
	b := f32Bytes(1, 2, 3, 4, 5)
	if got := scalarF32L2(a, b, 5); got != 0 {
		t.Errorf("L2 of identical vectors: got %v, want 0", got)
	}
	if got := scalarF32SquaredL2(a, b, 5); got != 0 {
		t.Errorf("SquaredL2 of identical vectors: got %v, want 0", got)
	}
	if got := scalarF32Cosine(a, b, 5); math.Abs(float64(got)) > 1e-5 {
		t.Errorf("Cosine distance of identical vectors: got %v, want ~0", got)
	}
}

func TestScalarL2IsSqrtOfSquaredL2(t *testing.T) {
	a := f32Bytes(1, 2, 3)
	b := f32Bytes(4, 6, 3)
	sq := scalarF32SquaredL2(a, b, 3)
	l2 := scalarF32L2(a, b, 3)
	if math.Abs(float64(l2*l2-sq)) > 1e-3 {
		t.Errorf("L2^2 (%v) should equal SquaredL2 (%v)", l2*l2, sq)
	}
}

func TestDotIsNegated(t *testing.T) {
	a := f32Bytes(1, 2, 3)
	b := f32Bytes(4, 5, 6)
	want := -(1*4 + 2*5 + 3*6)
	if got := scalarF32Dot(a, b, 3); got != float32(want) {
		t.Errorf("Dot: got %v, want %v", got, want)
	}
}

func TestCosineZeroVectorReturnsMaxDistance(t *testing.T) {
	a := f32Bytes(0, 0, 0)
	b := f32Bytes(1, 2, 3)
	if got := scalarF32Cosine(a, b, 3); got != 1.0 {
		t.Errorf("Cosine with zero vector: got %v, want 1.0", got)
	}
}

// TestBackendEquivalenceF32 checks every metric for float32 vectors agrees across
// scalar, lane128 and lane256 within a tight float32 tolerance, for vector
// lengths that exercise both the unrolled and tail-loop paths.
func TestBackendEquivalenceF32(t *testing.T) {
	lens := []int{1, 3, 4, 5, 7, 8, 9, 15, 16, 17}
	for _, n := range lens {
		av := make([]float32, n)
		bv := make([]float32, n)
		for i := 0; i < n; i++ {
			av[i] = float32(i) - 2.5
			bv[i] = float32(n-i) * 0.75
		}
		a, b := f32Bytes(av...), f32Bytes(bv...)

		scalarTable := NewDispatchTable(BackendScalar)
		lane128Table := NewDispatchTable(BackendLane128)
		lane256Table := NewDispatchTable(BackendLane256)

		for _, m := range []Metric{L2, SquaredL2, Cosine, Dot, L1} {
			want := scalarTable.Lookup(m, F32)(a, b, n)
			got128 := lane128Table.Lookup(m, F32)(a, b, n)
			got256 := lane256Table.Lookup(m, F32)(a, b, n)

			if math.Abs(float64(want-got128)) > 1e-2 {
				t.Errorf("n=%d metric=%v: scalar=%v lane128=%v diverge", n, m, want, got128)
			}
			if math.Abs(float64(want-got256)) > 1e-2 {
				t.Errorf("n=%d metric=%v: scalar=%v lane256=%v diverge", n, m, want, got256)
			}
		}
	}
}

func TestDispatchTableMissingElementType(t *testing.T) {
	d := NewDispatchTable(BackendScalar)
	if fn := d.Lookup(L2, F16); fn != nil {
		t.Errorf("expected nil kernel for F16, got non-nil")
	}
	if fn := d.Lookup(L2, BF16); fn != nil {
		t.Errorf("expected nil kernel for BF16, got non-nil")
	}
}

func TestDetectBackendReturnsValid(t *testing.T) {
	b := DetectBackend()
	switch b {
	case BackendScalar, BackendLane128, BackendLane256:
	default:
		t.Errorf("DetectBackend returned unexpected value %v", b)
	}
}
