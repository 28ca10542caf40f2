package numeric

import "math/bits"

// CLZ returns the number of leading zero bits in x, matching the hardware
// clz instruction the original fixed-point routines were built around.
// CLZ(0) == 32.
func CLZ(x uint32) int {
	return bits.LeadingZeros32(x)
}

// MulUU returns the upper 32 bits of the 64-bit unsigned product x*y, i.e.
// 2^-32 * x * y. This is the workhorse of every fixed-point multiply below.
func MulUU(x, y uint32) uint32 {
	return uint32((uint64(x) * uint64(y)) >> 32)
}

// MulSS is the signed equivalent of MulUU.
func MulSS(x, y int32) int32 {
	return int32((int64(x) * int64(y)) >> 32)
}

// MulUS multiplies an unsigned x by a signed y, returning the upper 32 bits
// of the signed 64-bit product. It avoids promoting y to unsigned (which
// would corrupt the sign) and x to signed (which would lose its top bit).
func MulUS(x uint32, y int32) int32 {
	y0 := uint32(y) & 0x7FFFFFFF
	result := int32(MulUU(x, y0))
	if y < 0 {
		result -= int32(x >> 1)
	}
	return result
}

// MulUUshift returns 2^s*x*y for some accumulated shift s, choosing s so
// that as few significant bits as possible are lost normalising x and y
// first. shift is updated in place so expressions can be chained.
func MulUUshift(x, y uint32, shift *int) uint32 {
	sx := CLZ(x)
	sy := CLZ(y)
	*shift += sx + sy - 32
	return MulUU(x<<uint(sx), y<<uint(sy))
}

// Denormalise returns 2^-shift * x, saturating instead of overflowing.
// Negative shift left-shifts x; if that would lose set bits the result
// saturates to MaxUint32. Shift values of 32 or more denormalise to zero.
func Denormalise(x uint32, shift int) uint32 {
	switch {
	case shift < 0:
		s := uint(-shift)
		if s >= 32 {
			if x == 0 {
				return 0
			}
			return 0xFFFFFFFF
		}
		if CLZ(x) < int(s) {
			return 0xFFFFFFFF
		}
		return x << s
	case shift >= 32:
		return 0
	default:
		return x >> uint(shift)
	}
}

// Reciprocal returns invD and shift such that invD*D/2^shift is
// approximately 1, for any non-zero D. invD lies in [2^31, 2^32). The
// algorithm normalises D via CLZ, seeds an 8-bit estimate from the
// divideLookup table and refines it with three Newton-Raphson iterations,
// each of which doubles the number of correct bits.
func Reciprocal(d uint32) (uint32, int) {
	if d == 0 {
		// Division by zero saturates rather than panicking: callers treat
		// this as "infinitely large", matching the saturating-everywhere
		// error policy of this package.
		return 0xFFFFFFFF, 0
	}
	n := CLZ(d)
	dn := d << uint(n)
	if dn == 0x80000000 {
		// A single set bit has an exact reciprocal: 2^31 * D / 2^(62-n) == 1.
		return 0x80000000, 62 - n
	}
	shift := 63 - n
	a := (dn >> 23) & 0xFF
	x := 0x80000000 | (divideLookup[a] << 23)
	for i := 0; i < 3; i++ {
		m := MulUU(dn, x)
		x = MulUU(x, 0-m) << 1
	}
	return x, shift
}

// clamp32 saturates a wider integer to the int32 range.
func clamp32(v int64) int32 {
	if v > 0x7FFFFFFF {
		return 0x7FFFFFFF
	}
	if v < -0x80000000 {
		return -0x80000000
	}
	return int32(v)
}

// Log2 computes a fixed-point base-2 logarithm: given X = 2^16 * x it
// returns approximately 2^27 * log2(x), saturating for extreme inputs.
func Log2(x uint32) int32 {
	switch {
	case x == 0:
		return -0x80000000
	case x >= 0xFFFFFF80:
		return 0x7FFFFFFF
	}
	n := CLZ(x)
	m := x << uint(n)
	a := (m >> 23) & 0xFF
	b := int64(m & 0x7FFFFF)
	base := int64(log2Lookup[a])
	next := int64(log2LookupNext[a])
	interp := base + ((next-base)*b)>>23
	exponent := int64(15-n) << 27
	return clamp32(interp + exponent)
}

// Exp2 computes 2^v: given x = 2^27 * v it returns a mantissa in
// [2^31, 2^32) and a shift such that Denormalise(mantissa, shift), i.e.
// mantissa*2^-shift, approximates 2^v. The shift convention matches
// Reciprocal and Denormalise: it is the amount the mantissa must be shifted
// right (negative meaning left) to recover the real value. Because Log2
// reads its input as X = 2^16 * x, Exp2(Log2(X)) approximates X / 2^16.
func Exp2(x int32) (uint32, int) {
	n := int(x >> 27)
	frac := uint32(x) & 0x7FFFFFF
	a := frac >> 19
	b := uint64(frac & 0x7FFFF)
	base := uint64(exp2Lookup[a])
	next := uint64(exp2LookupNext[a])
	mantissa16 := base + (((next-base)*b)>>19) // 2^16 * 2^frac, frac in [0,1)
	mantissa := uint32(mantissa16) << 15        // rescale Q16 -> Q31
	return mantissa, 31 - n
}

// Fixed-point constants relating natural dB units (1e-6 dB, i.e. to_dB
// returns 2e7*log10(x) = 1e6 * 20*log10(x)) to the 2^27-scaled output of
// Log2. toDBFactor is round(2^32 * 2e7 / (2^27 * log2(10))); toDBOffset is
// 16 * 2e7/log2(10), adding back the 16 fractional bits of Log2's input.
const (
	toDBFactor  int32 = 192659197
	toDBOffset  int32 = 96329599
	fromDBScale int64 = 23375991 // round(log2(10)/2e7 * 2^27 * 2^20), Q20
)

// ToDB returns 2e7*log10(x), saturating at the int32 range.
func ToDB(x uint32) int32 {
	raw := Log2(x)
	return clamp32(int64(toDBOffset) + int64(MulSS(raw, toDBFactor)))
}

// FromDB is the inverse of ToDB: it returns a mantissa and shift, in the
// same Denormalise convention as Exp2, such that the denormalised value
// approximates 10^(x/2e7). The integer part of the base-2 exponent is
// carried in the shift rather than in Exp2's Q27 argument, so ratios of
// any size in the int32 dB range are represented without clipping.
func FromDB(x int32) (uint32, int) {
	arg := (int64(x) * fromDBScale) >> 20
	n := arg >> 27
	m, s := Exp2(int32(arg - n<<27))
	return m, s - int(n)
}
