package quantize

import (
	"math"
	"strings"
)

// QType selects which 8-bit linear encoding a column uses.
type QType int

const (
	// Auto picks U8 unless any scanned value is negative, in which case
	// it picks I8 -- mirrors VECTOR_QUANT_AUTO in the reference.
	Auto QType = iota
	U8
	I8
)

func (t QType) String() string {
	switch t {
	case U8:
		return "UINT8"
	case I8:
		return "INT8"
	default:
		return "AUTO"
	}
}

// ParseQType maps an options-string value to a QType, case-insensitively,
// returning (Auto, false) for anything it doesn't recognize.
func ParseQType(name string) (QType, bool) {
	switch strings.ToLower(name) {
	case "auto":
		return Auto, true
	case "u8", "uint8":
		return U8, true
	case "i8", "int8":
		return I8, true
	default:
		return Auto, false
	}
}

// Params holds the resolved quantization parameters for a column: which
// 8-bit encoding was chosen and the scale/offset mapping float32 values
// into that encoding's range.
type Params struct {
	Type   QType
	Scale  float32
	Offset float32
}

// Stats accumulates the two-pass scan described in vector_rebuild_quantization:
// global min, max and whether any negative value was observed.
type Stats struct {
	Min              float32
	Max              float32
	ContainsNegative bool
	seen             bool
}

// NewStats returns a Stats accumulator ready to Observe values into.
func NewStats() *Stats {
	return &Stats{Min: float32(math.MaxFloat32), Max: -float32(math.MaxFloat32)}
}

// Observe folds one vector component into the running min/max/sign stats.
func (s *Stats) Observe(v float32) {
	s.seen = true
	if v < s.Min {
		s.Min = v
	}
	if v > s.Max {
		s.Max = v
	}
	if v < 0 {
		s.ContainsNegative = true
	}
}

// Resolve turns the accumulated stats plus a requested QType (possibly
// Auto) into concrete encoding Params, matching the reference's STEP 2:
// U8 is asymmetric (offset = min, scale = 255/(max-min)); I8 is symmetric
// around zero (offset = 0, scale = 127/max(|min|,|max|)).
func (s *Stats) Resolve(requested QType) Params {
	qtype := requested
	if qtype == Auto {
		if s.ContainsNegative {
			qtype = I8
		} else {
			qtype = U8
		}
	}

	absMax := absF32(s.Min)
	if absF32(s.Max) > absMax {
		absMax = absF32(s.Max)
	}

	if qtype == U8 {
		scale := float32(255.0) / (s.Max - s.Min)
		return Params{Type: U8, Scale: scale, Offset: s.Min}
	}
	scale := float32(127.0) / absMax
	return Params{Type: I8, Scale: scale, Offset: 0}
}

func absF32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
