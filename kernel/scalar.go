package kernel

import (
	"encoding/binary"
	"math"

	"github.com/chewxy/math32"
)

func readF32(buf []byte, i int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
}

func readU8(buf []byte, i int) uint8 {
	return buf[i]
}

func readI8(buf []byte, i int) int8 {
	return int8(buf[i])
}

// Scalar kernels are the non-vectorized baseline: one element per loop
// iteration, float32 accumulation except in the U8 cosine kernel, which
// accumulates in uint32. They are what BackendScalar selects.

func scalarF32L2(a, b []byte, n int) float32 {
	return math32.Sqrt(scalarF32SquaredL2(a, b, n))
}

func scalarF32SquaredL2(a, b []byte, n int) float32 {
	var sum float32
	for i := 0; i < n; i++ {
		d := readF32(a, i) - readF32(b, i)
		sum += d * d
	}
	return sum
}

func scalarF32Cosine(a, b []byte, n int) float32 {
	var dot, normA, normB float32
	for i := 0; i < n; i++ {
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

func scalarF32Dot(a, b []byte, n int) float32 {
	var dot float32
	for i := 0; i < n; i++ {
		dot += readF32(a, i) * readF32(b, i)
	}
	return -dot
}

func scalarF32L1(a, b []byte, n int) float32 {
	var sum float32
	for i := 0; i < n; i++ {
		sum += math32.Abs(readF32(a, i) - readF32(b, i))
	}
	return sum
}

func scalarU8L2(a, b []byte, n int) float32 {
	return math32.Sqrt(scalarU8SquaredL2(a, b, n))
}

func scalarU8SquaredL2(a, b []byte, n int) float32 {
	var sum float32
	for i := 0; i < n; i++ {
		d := int(readU8(a, i)) - int(readU8(b, i))
		sum += float32(d * d)
	}
	return sum
}

func scalarU8Cosine(a, b []byte, n int) float32 {
	var dot, normA, normB uint32
	for i := 0; i < n; i++ {
		x, y := uint32(readU8(a, i)), uint32(readU8(b, i))
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 1.0
	}
	return 1.0 - float32(dot)/(math32.Sqrt(float32(normA))*math32.Sqrt(float32(normB)))
}

func scalarU8Dot(a, b []byte, n int) float32 {
	var dot float32
	for i := 0; i < n; i++ {
		dot += float32(readU8(a, i)) * float32(readU8(b, i))
	}
	return -dot
}

func scalarU8L1(a, b []byte, n int) float32 {
	var sum float32
	for i := 0; i < n; i++ {
		sum += math32.Abs(float32(readU8(a, i)) - float32(readU8(b, i)))
	}
	return sum
}

func scalarI8L2(a, b []byte, n int) float32 {
	return math32.Sqrt(scalarI8SquaredL2(a, b, n))
}

func scalarI8SquaredL2(a, b []byte, n int) float32 {
	var sum float32
	for i := 0; i < n; i++ {
		d := int(readI8(a, i)) - int(readI8(b, i))
		sum += float32(d * d)
	}
	return sum
}

func scalarI8Cosine(a, b []byte, n int) float32 {
	var dot, normA, normB float32
	for i := 0; i < n; i++ {
		x, y := float32(readI8(a, i)), float32(readI8(b, i))
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 1.0
	}
	return 1.0 - dot/(math32.Sqrt(normA)*math32.Sqrt(normB))
}

func scalarI8Dot(a, b []byte, n int) float32 {
	var dot float32
	for i := 0; i < n; i++ {
		dot += float32(readI8(a, i)) * float32(readI8(b, i))
	}
	return -dot
}

func scalarI8L1(a, b []byte, n int) float32 {
	var sum float32
	for i := 0; i < n; i++ {
		sum += math32.Abs(float32(readI8(a, i)) - float32(readI8(b, i)))
	}
	return sum
}
