package quantize

import "testing"

func TestResolveAutoPicksU8WhenNonNegative(t *testing.T) {
	s := NewStats()
	for _, v := range []float32{0, 0.5, 1.0, 2.5} {
		s.Observe(v)
	}
	p := s.Resolve(Auto)
	if p.Type != U8 {
		t.Fatalf("expected U8, got %v", p.Type)
	}
	if p.Offset != 0 {
		t.Errorf("expected offset=min=0, got %v", p.Offset)
	}
}

func TestResolveAutoPicksI8WhenNegativeSeen(t *testing.T) {
	s := NewStats()
	for _, v := range []float32{-1.0, 0.5, 1.0, 2.5} {
		s.Observe(v)
	}
	p := s.Resolve(Auto)
	if p.Type != I8 {
		t.Fatalf("expected I8, got %v", p.Type)
	}
	if p.Offset != 0 {
		t.Errorf("I8 is symmetric, expected offset=0, got %v", p.Offset)
	}
}

func TestEncodeDecodeU8Bounds(t *testing.T) {
	v := []float32{-2, -1, 0, 1, 2}
	s := NewStats()
	for _, f := range v {
		s.Observe(f)
	}
	p := s.Resolve(U8)

	q := make([]uint8, len(v))
	EncodeU8(v, q, p.Offset, p.Scale)
	for _, b := range q {
		if b > 255 {
			t.Fatalf("U8 code out of range: %d", b)
		}
	}
	if q[0] != 0 {
		t.Errorf("min value should encode to 0, got %d", q[0])
	}
	if q[len(q)-1] != 255 {
		t.Errorf("max value should encode to 255, got %d", q[len(q)-1])
	}

	out := make([]float32, len(v))
	DecodeU8(q, out, p.Offset, p.Scale)
	for i, orig := range v {
		if diff := out[i] - orig; diff > 0.05 || diff < -0.05 {
			t.Errorf("decode[%d]: got %v, want ~%v", i, out[i], orig)
		}
	}
}

func TestEncodeDecodeI8Symmetric(t *testing.T) {
	v := []float32{-3, -1.5, 0, 1.5, 3}
	s := NewStats()
	for _, f := range v {
		s.Observe(f)
	}
	p := s.Resolve(I8)

	q := make([]int8, len(v))
	EncodeI8(v, q, p.Offset, p.Scale)
	if q[2] != 0 {
		t.Errorf("zero should encode to 0, got %d", q[2])
	}
	if q[len(q)-1] != 127 && q[len(q)-1] != 126 {
		t.Errorf("max magnitude should encode near 127, got %d", q[len(q)-1])
	}

	out := make([]float32, len(v))
	DecodeI8(q, out, p.Offset, p.Scale)
	for i, orig := range v {
		if diff := out[i] - orig; diff > 0.05 || diff < -0.05 {
			t.Errorf("decode[%d]: got %v, want ~%v", i, out[i], orig)
		}
	}
}

func TestRoundHalfAwayFromZero(t *testing.T) {
	cases := map[float32]int32{
		0.5:  1,
		-0.5: -1,
		1.4:  1,
		1.5:  2,
		-1.5: -2,
		0.0:  0,
	}
	for in, want := range cases {
		if got := RoundHalfAwayFromZero(in); got != want {
			t.Errorf("RoundHalfAwayFromZero(%v): got %d, want %d", in, got, want)
		}
	}
}

func TestParseQType(t *testing.T) {
	if t1, ok := ParseQType("UINT8"); !ok || t1 != U8 {
		t.Errorf("expected UINT8 -> U8, got %v ok=%v", t1, ok)
	}
	if t2, ok := ParseQType("int8"); !ok || t2 != I8 {
		t.Errorf("expected int8 -> I8, got %v ok=%v", t2, ok)
	}
	if _, ok := ParseQType("garbage"); ok {
		t.Errorf("expected garbage to be rejected")
	}
}
