package kernel

import "github.com/chewxy/math32"

// Lane256 kernels process eight elements per iteration, the grouping an
// AVX2 256-bit register would use for float32 (eight lanes) or for
// int32-widened uint8/int8 lanes. Same math, wider grouping than Lane128.

func lane256F32SquaredL2(a, b []byte, n int) float32 {
	var sum float32
	i := 0
	for ; i <= n-8; i += 8 {
		for j := 0; j < 8; j++ {
			d := readF32(a, i+j) - readF32(b, i+j)
			sum += d * d
		}
	}
	for ; i < n; i++ {
		d := readF32(a, i) - readF32(b, i)
		sum += d * d
	}
	return sum
}

func lane256F32L2(a, b []byte, n int) float32 {
	return math32.Sqrt(lane256F32SquaredL2(a, b, n))
}

func lane256F32Cosine(a, b []byte, n int) float32 {
	var dot, normA, normB float32
	i := 0
	for ; i <= n-8; i += 8 {
		for j := 0; j < 8; j++ {
			x, y := readF32(a, i+j), readF32(b, i+j)
			dot += x * y
			normA += x * x
			normB += y * y
		}
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

func lane256F32Dot(a, b []byte, n int) float32 {
	var dot float32
	i := 0
	for ; i <= n-8; i += 8 {
		for j := 0; j < 8; j++ {
			dot += readF32(a, i+j) * readF32(b, i+j)
		}
	}
	for ; i < n; i++ {
		dot += readF32(a, i) * readF32(b, i)
	}
	return -dot
}

func lane256F32L1(a, b []byte, n int) float32 {
	var sum float32
	i := 0
	for ; i <= n-8; i += 8 {
		for j := 0; j < 8; j++ {
			sum += math32.Abs(readF32(a, i+j) - readF32(b, i+j))
		}
	}
	for ; i < n; i++ {
		sum += math32.Abs(readF32(a, i) - readF32(b, i))
	}
	return sum
}

func lane256U8SquaredL2(a, b []byte, n int) float32 {
	var sum float32
	i := 0
	for ; i <= n-8; i += 8 {
		for j := 0; j < 8; j++ {
			d := int(readU8(a, i+j)) - int(readU8(b, i+j))
			sum += float32(d * d)
		}
	}
	for ; i < n; i++ {
		d := int(readU8(a, i)) - int(readU8(b, i))
		sum += float32(d * d)
	}
	return sum
}

func lane256U8L2(a, b []byte, n int) float32 {
	return math32.Sqrt(lane256U8SquaredL2(a, b, n))
}

func lane256U8Cosine(a, b []byte, n int) float32 {
	var dot, normA, normB uint32
	i := 0
	for ; i <= n-8; i += 8 {
		for j := 0; j < 8; j++ {
			ai, bi := uint32(readU8(a, i+j)), uint32(readU8(b, i+j))
			dot += ai * bi
			normA += ai * ai
			normB += bi * bi
		}
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

func lane256U8Dot(a, b []byte, n int) float32 {
	var dot float32
	i := 0
	for ; i <= n-8; i += 8 {
		for j := 0; j < 8; j++ {
			dot += float32(readU8(a, i+j)) * float32(readU8(b, i+j))
		}
	}
	for ; i < n; i++ {
		dot += float32(readU8(a, i)) * float32(readU8(b, i))
	}
	return -dot
}

func lane256U8L1(a, b []byte, n int) float32 {
	var sum float32
	i := 0
	for ; i <= n-8; i += 8 {
		for j := 0; j < 8; j++ {
			sum += math32.Abs(float32(readU8(a, i+j)) - float32(readU8(b, i+j)))
		}
	}
	for ; i < n; i++ {
		sum += math32.Abs(float32(readU8(a, i)) - float32(readU8(b, i)))
	}
	return sum
}

func lane256I8SquaredL2(a, b []byte, n int) float32 {
	var sum float32
	i := 0
	for ; i <= n-8; i += 8 {
		for j := 0; j < 8; j++ {
			d := int(readI8(a, i+j)) - int(readI8(b, i+j))
			sum += float32(d * d)
		}
	}
	for ; i < n; i++ {
		d := int(readI8(a, i)) - int(readI8(b, i))
		sum += float32(d * d)
	}
	return sum
}

func lane256I8L2(a, b []byte, n int) float32 {
	return math32.Sqrt(lane256I8SquaredL2(a, b, n))
}

func lane256I8Cosine(a, b []byte, n int) float32 {
	var dot, normA, normB float32
	i := 0
	for ; i <= n-8; i += 8 {
		for j := 0; j < 8; j++ {
			ai, bi := float32(readI8(a, i+j)), float32(readI8(b, i+j))
			dot += ai * bi
			normA += ai * ai
			normB += bi * bi
		}
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

func lane256I8Dot(a, b []byte, n int) float32 {
	var dot float32
	i := 0
	for ; i <= n-8; i += 8 {
		for j := 0; j < 8; j++ {
			dot += float32(readI8(a, i+j)) * float32(readI8(b, i+j))
		}
	}
	for ; i < n; i++ {
		dot += float32(readI8(a, i)) * float32(readI8(b, i))
	}
	return -dot
}

func lane256I8L1(a, b []byte, n int) float32 {
	var sum float32
	i := 0
	for ; i <= n-8; i += 8 {
		for j := 0; j < 8; j++ {
			sum += math32.Abs(float32(readI8(a, i+j)) - float32(readI8(b, i+j)))
		}
	}
	for ; i < n; i++ {
		sum += math32.Abs(float32(readI8(a, i)) - float32(readI8(b, i)))
	}
	return sum
}
