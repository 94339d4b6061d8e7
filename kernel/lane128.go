package kernel

import "github.com/chewxy/math32"

// Lane128 kernels process four elements per iteration, the same grouping a
// 128-bit SIMD register (four float32 lanes, or four int32-widened uint8/
// int8 lanes) would use. The math is identical to the scalar kernels; only
// the accumulation grouping differs, matching the reference's own 4-wide
// unrolled loops.

func lane128F32SquaredL2(a, b []byte, n int) float32 {
	var sum float32
	i := 0
	for ; i <= n-4; i += 4 {
		d0 := readF32(a, i) - readF32(b, i)
		d1 := readF32(a, i+1) - readF32(b, i+1)
		d2 := readF32(a, i+2) - readF32(b, i+2)
		d3 := readF32(a, i+3) - readF32(b, i+3)
		sum += d0*d0 + d1*d1 + d2*d2 + d3*d3
	}
	for ; i < n; i++ {
		d := readF32(a, i) - readF32(b, i)
		sum += d * d
	}
	return sum
}

func lane128F32L2(a, b []byte, n int) float32 {
	return math32.Sqrt(lane128F32SquaredL2(a, b, n))
}

func lane128F32Cosine(a, b []byte, n int) float32 {
	var dot, normA, normB float32
	i := 0
	for ; i <= n-4; i += 4 {
		x0, y0 := readF32(a, i), readF32(b, i)
		x1, y1 := readF32(a, i+1), readF32(b, i+1)
		x2, y2 := readF32(a, i+2), readF32(b, i+2)
		x3, y3 := readF32(a, i+3), readF32(b, i+3)
		dot += x0*y0 + x1*y1 + x2*y2 + x3*y3
		normA += x0*x0 + x1*x1 + x2*x2 + x3*x3
		normB += y0*y0 + y1*y1 + y2*y2 + y3*y3
	}
	for ; i < n; i++ {
		x, y := readF32(a, i), readF32(b, i)
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 1.0
	}
	return 1.0 - dot/(math32.Sqrt(normA)*math32.Sqrt(normB))
}

func lane128F32Dot(a, b []byte, n int) float32 {
	var dot float32
	i := 0
	for ; i <= n-4; i += 4 {
		dot += readF32(a, i)*readF32(b, i) + readF32(a, i+1)*readF32(b, i+1) +
			readF32(a, i+2)*readF32(b, i+2) + readF32(a, i+3)*readF32(b, i+3)
	}
	for ; i < n; i++ {
		dot += readF32(a, i) * readF32(b, i)
	}
	return -dot
}

func lane128F32L1(a, b []byte, n int) float32 {
	var sum float32
	i := 0
	for ; i <= n-4; i += 4 {
		sum += math32.Abs(readF32(a, i) - readF32(b, i))
		sum += math32.Abs(readF32(a, i+1) - readF32(b, i+1))
		sum += math32.Abs(readF32(a, i+2) - readF32(b, i+2))
		sum += math32.Abs(readF32(a, i+3) - readF32(b, i+3))
	}
	for ; i < n; i++ {
		sum += math32.Abs(readF32(a, i) - readF32(b, i))
	}
	return sum
}

func lane128U8SquaredL2(a, b []byte, n int) float32 {
	var sum float32
	i := 0
	for ; i <= n-4; i += 4 {
		d0 := int(readU8(a, i)) - int(readU8(b, i))
		d1 := int(readU8(a, i+1)) - int(readU8(b, i+1))
		d2 := int(readU8(a, i+2)) - int(readU8(b, i+2))
		d3 := int(readU8(a, i+3)) - int(readU8(b, i+3))
		sum += float32(d0*d0 + d1*d1 + d2*d2 + d3*d3)
	}
	for ; i < n; i++ {
		d := int(readU8(a, i)) - int(readU8(b, i))
		sum += float32(d * d)
	}
	return sum
}

func lane128U8L2(a, b []byte, n int) float32 {
	return math32.Sqrt(lane128U8SquaredL2(a, b, n))
}

func lane128U8Cosine(a, b []byte, n int) float32 {
	var dot, normA, normB uint32
	i := 0
	for ; i <= n-4; i += 4 {
		a0, b0 := uint32(readU8(a, i)), uint32(readU8(b, i))
		a1, b1 := uint32(readU8(a, i+1)), uint32(readU8(b, i+1))
		a2, b2 := uint32(readU8(a, i+2)), uint32(readU8(b, i+2))
		a3, b3 := uint32(readU8(a, i+3)), uint32(readU8(b, i+3))
		dot += a0*b0 + a1*b1 + a2*b2 + a3*b3
		normA += a0*a0 + a1*a1 + a2*a2 + a3*a3
		normB += b0*b0 + b1*b1 + b2*b2 + b3*b3
	}
	for ; i < n; i++ {
		ai, bi := uint32(readU8(a, i)), uint32(readU8(b, i))
		dot += ai * bi
		normA += ai * ai
		normB += bi * bi
	}
	if normA == 0 || normB == 0 {
		return 1.0
	}
	return 1.0 - float32(dot)/(math32.Sqrt(float32(normA))*math32.Sqrt(float32(normB)))
}

func lane128U8Dot(a, b []byte, n int) float32 {
	var dot float32
	i := 0
	for ; i <= n-4; i += 4 {
		dot += float32(readU8(a, i)) * float32(readU8(b, i))
		dot += float32(readU8(a, i+1)) * float32(readU8(b, i+1))
		dot += float32(readU8(a, i+2)) * float32(readU8(b, i+2))
		dot += float32(readU8(a, i+3)) * float32(readU8(b, i+3))
	}
	for ; i < n; i++ {
		dot += float32(readU8(a, i)) * float32(readU8(b, i))
	}
	return -dot
}

func lane128U8L1(a, b []byte, n int) float32 {
	var sum float32
	i := 0
	for ; i <= n-4; i += 4 {
		sum += math32.Abs(float32(readU8(a, i)) - float32(readU8(b, i)))
		sum += math32.Abs(float32(readU8(a, i+1)) - float32(readU8(b, i+1)))
		sum += math32.Abs(float32(readU8(a, i+2)) - float32(readU8(b, i+2)))
		sum += math32.Abs(float32(readU8(a, i+3)) - float32(readU8(b, i+3)))
	}
	for ; i < n; i++ {
		sum += math32.Abs(float32(readU8(a, i)) - float32(readU8(b, i)))
	}
	return sum
}

func lane128I8SquaredL2(a, b []byte, n int) float32 {
	var sum float32
	i := 0
	for ; i <= n-4; i += 4 {
		d0 := int(readI8(a, i)) - int(readI8(b, i))
		d1 := int(readI8(a, i+1)) - int(readI8(b, i+1))
		d2 := int(readI8(a, i+2)) - int(readI8(b, i+2))
		d3 := int(readI8(a, i+3)) - int(readI8(b, i+3))
		sum += float32(d0*d0 + d1*d1 + d2*d2 + d3*d3)
	}
	for ; i < n; i++ {
		d := int(readI8(a, i)) - int(readI8(b, i))
		sum += float32(d * d)
	}
	return sum
}

func lane128I8L2(a, b []byte, n int) float32 {
	return math32.Sqrt(lane128I8SquaredL2(a, b, n))
}

func lane128I8Cosine(a, b []byte, n int) float32 {
	var dot, normA, normB float32
	i := 0
	for ; i <= n-4; i += 4 {
		a0, b0 := float32(readI8(a, i)), float32(readI8(b, i))
		a1, b1 := float32(readI8(a, i+1)), float32(readI8(b, i+1))
		a2, b2 := float32(readI8(a, i+2)), float32(readI8(b, i+2))
		a3, b3 := float32(readI8(a, i+3)), float32(readI8(b, i+3))
		dot += a0*b0 + a1*b1 + a2*b2 + a3*b3
		normA += a0*a0 + a1*a1 + a2*a2 + a3*a3
		normB += b0*b0 + b1*b1 + b2*b2 + b3*b3
	}
	for ; i < n; i++ {
		ai, bi := float32(readI8(a, i)), float32(readI8(b, i))
		dot += ai * bi
		normA += ai * ai
		normB += bi * bi
	}
	if normA == 0 || normB == 0 {
		return 1.0
	}
	return 1.0 - dot/(math32.Sqrt(normA)*math32.Sqrt(normB))
}

func lane128I8Dot(a, b []byte, n int) float32 {
	var dot float32
	i := 0
	for ; i <= n-4; i += 4 {
		dot += float32(readI8(a, i)) * float32(readI8(b, i))
		dot += float32(readI8(a, i+1)) * float32(readI8(b, i+1))
		dot += float32(readI8(a, i+2)) * float32(readI8(b, i+2))
		dot += float32(readI8(a, i+3)) * float32(readI8(b, i+3))
	}
	for ; i < n; i++ {
		dot += float32(readI8(a, i)) * float32(readI8(b, i))
	}
	return -dot
}

func lane128I8L1(a, b []byte, n int) float32 {
	var sum float32
	i := 0
	for ; i <= n-4; i += 4 {
		sum += math32.Abs(float32(readI8(a, i)) - float32(readI8(b, i)))
		sum += math32.Abs(float32(readI8(a, i+1)) - float32(readI8(b, i+1)))
		sum += math32.Abs(float32(readI8(a, i+2)) - float32(readI8(b, i+2)))
		sum += math32.Abs(float32(readI8(a, i+3)) - float32(readI8(b, i+3)))
	}
	for ; i < n; i++ {
		sum += math32.Abs(float32(readI8(a, i)) - float32(readI8(b, i)))
	}
	return sum
}
