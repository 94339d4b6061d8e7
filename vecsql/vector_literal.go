package vecsql

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseJSONVector parses a JSON-array vector literal like "[0.1, 0.2, 0.3]"
// into a float32 slice. It tolerates a trailing comma before the closing
// bracket ("[0.1, 0.2,]"), matching vector_from_json in the reference,
// which the original extension's own callers rely on.
func ParseJSONVector(s string) ([]float32, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil, fmt.Errorf("vector literal must be a JSON array, got %q", s)
	}
	inner := strings.TrimSpace(s[1 : len(s)-1])
	if inner == "" {
		return []float32{}, nil
	}
	inner = strings.TrimRight(inner, ", \t\n")

	parts := strings.Split(inner, ",")
	out := make([]float32, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		f, err := strconv.ParseFloat(p, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid numeric component %q in vector literal: %w", p, err)
		}
		out = append(out, float32(f))
	}
	return out, nil
}

// FormatJSONVector renders a float32 vector back to its JSON-array form,
// the inverse of ParseJSONVector.
func FormatJSONVector(v []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(f), 'g', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}
