package numeric

import "math"

// BFloat16ToFloat32 widens a bfloat16 value (top 16 bits of a float32) to
// float32 by placing it in the high half and zeroing the mantissa tail.
func BFloat16ToFloat32(b uint16) float32 {
	return math.Float32frombits(uint32(b) << 16)
}

// Float32ToBFloat16 truncates a float32 to bfloat16 using
// round-to-nearest-even on the discarded 16 low bits. NaNs always keep at
// least one mantissa bit so they don't collapse into infinity.
func Float32ToBFloat16(f float32) uint16 {
	bits := math.Float32bits(f)
	if isNaN32Bits(bits) {
		upper := uint16(bits >> 16)
		return upper | 0x0040 // force the quiet bit so truncation can't lose NaN-ness
	}
	// Rounding may carry out of the mantissa into the exponent (the largest
	// finite values round up to infinity); a uint32 addition handles that
	// correctly, we just need the high half.
	full := bits
	roundBit := uint32(1) << 15
	lowMask := roundBit | (roundBit - 1)
	if bits&lowMask > roundBit || (bits&lowMask == roundBit && (bits>>16)&1 == 1) {
		full = bits + (1 << 16)
	}
	return uint16(full >> 16)
}

func isNaN32Bits(bits uint32) bool {
	return (bits&0x7f800000) == 0x7f800000 && (bits&0x007fffff) != 0
}
