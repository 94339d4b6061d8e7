// Package registry holds per-column vector configuration (VectorOptions),
// the bounded table of registered (table, column) pairs (Registry,
// TableContext), and the shadow/metadata table SQL layout.
package registry

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sqliteai/go-vector/kernel"
	"github.com/sqliteai/go-vector/quantize"
)

// VectorOptions is the parsed form of a column's options string, e.g.
// "type=FLOAT32,dimension=384,distance=cosine,max_memory=64MB".
type VectorOptions struct {
	Type       kernel.ElementType
	Dimension  int
	Normalized bool
	Distance   kernel.Metric
	QType      quantize.QType
	MaxMemory  uint64
}

// DefaultMaxMemory mirrors DEFAULT_MAX_MEMORY: the 30MB quantization batch
// budget used when a column doesn't specify a usable max_memory.
const DefaultMaxMemory = 30 * 1024 * 1024

// DefaultOptions returns the zero-value baseline a column starts from
// before its options string is applied: FLOAT32, distance L2, qtype Auto.
func DefaultOptions() VectorOptions {
	return VectorOptions{
		Type:      kernel.F32,
		Distance:  kernel.L2,
		QType:     quantize.Auto,
		MaxMemory: DefaultMaxMemory,
	}
}

// ParseOptions parses a comma-separated key=value options string into o,
// mutating in place so unspecified fields keep their current value. It
// follows the reference grammar exactly: a key with no '=' is skipped to
// the next comma, unknown keys are silently ignored, and values longer
// than 255 bytes are truncated rather than rejected.
func ParseOptions(s string, o *VectorOptions) error {
	if s == "" {
		return nil
	}
	for _, pair := range splitPairs(s) {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue // malformed pair: no '=', skip per reference grammar
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		if len(value) > 255 {
			value = value[:255]
		}
		if err := applyOption(o, key, value); err != nil {
			return err
		}
	}
	return nil
}

// splitPairs splits on ',' the way the reference's char-scanning parser
// does: a literal split, no quoting support (the reference has none either).
func splitPairs(s string) []string {
	return strings.Split(s, ",")
}

func applyOption(o *VectorOptions, key, value string) error {
	switch strings.ToLower(key) {
	case "type":
		t, ok := parseElementType(value)
		if !ok {
			return fmt.Errorf("invalid vector type: %q is not a recognized type", value)
		}
		o.Type = t
	case "dimension":
		dim, err := strconv.Atoi(value)
		if err != nil || dim <= 0 {
			return fmt.Errorf("invalid vector dimension: expected a positive integer, got %q", value)
		}
		o.Dimension = dim
	case "normalized":
		n, err := strconv.Atoi(value)
		o.Normalized = err == nil && n != 0
	case "max_memory":
		o.MaxMemory = humanToNumber(value)
	case "qtype":
		qt, ok := quantize.ParseQType(value)
		if !ok {
			return fmt.Errorf("invalid quantization type: %q is not a recognized or supported quantization type", value)
		}
		o.QType = qt
	case "distance":
		d, ok := parseMetric(value)
		if !ok {
			return fmt.Errorf("invalid distance name: %q is not a recognized or supported distance", value)
		}
		o.Distance = d
	default:
		// unknown keys are silently ignored
	}
	return nil
}

func parseElementType(s string) (kernel.ElementType, bool) {
	switch strings.ToUpper(s) {
	case "FLOAT32":
		return kernel.F32, true
	case "FLOAT16":
		return kernel.F16, true
	case "FLOATB16":
		return kernel.BF16, true
	case "UINT8":
		return kernel.U8, true
	case "INT8":
		return kernel.I8, true
	default:
		return 0, false
	}
}

func parseMetric(s string) (kernel.Metric, bool) {
	switch strings.ToLower(s) {
	case "l2", "euclidean":
		return kernel.L2, true
	case "squared_l2", "l2_squared":
		return kernel.SquaredL2, true
	case "cosine":
		return kernel.Cosine, true
	case "dot", "inner":
		return kernel.Dot, true
	case "l1", "manhattan":
		return kernel.L1, true
	default:
		return 0, false
	}
}

// humanToNumber parses a bare number with an optional KB/MB/GB suffix
// (case-insensitive), returning 0 for anything it can't parse -- matching
// human_to_number's "invalid suffix returns 0" behavior, which the caller
// treats as "don't override the default".
func humanToNumber(s string) uint64 {
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) && (s[i] == '.' || s[i] == '-' || s[i] == '+' || (s[i] >= '0' && s[i] <= '9')) {
		i++
	}
	numPart, suffix := s[:i], strings.TrimSpace(s[i:])
	d, err := strconv.ParseFloat(numPart, 64)
	if err != nil || d <= 0 {
		return 0
	}
	switch strings.ToUpper(suffix) {
	case "":
		// no suffix: bare byte count
	case "KB":
		d *= 1024
	case "MB":
		d *= 1024 * 1024
	case "GB":
		d *= 1024 * 1024 * 1024
	default:
		return 0 // invalid suffix
	}
	if d < 0 {
		return 0
	}
	return uint64(d)
}
