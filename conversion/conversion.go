// Package conversion implements the IQ->ABCD->XYQS pipeline of spec §4.4:
// button amplitudes via fixed-point CORDIC magnitude, then position via a
// reciprocal-based divider with calibration offsets.
package conversion

import (
	"github.com/nasa-jpl/bpmd/numeric"
	"github.com/nasa-jpl/bpmd/waveform"
)

// Geometry selects which linear combination of button amplitudes maps
// to X/Y, matching the two BPM button layouts described informally by
// the original source's diagonal-vs-vertical button geometry split.
type Geometry int

const (
	// Diagonal buttons sit at 45 degrees to the horizontal/vertical axes.
	Diagonal Geometry = iota
	// Vertical buttons sit directly above/below/left/right of the beam.
	Vertical
)

// Calibration holds the per-BPM gain and offset corrections applied
// during ABCD->XYQS conversion. Kx/Ky/Q0Scale are PMFP-style scaled
// gains in the same convention numeric.PMFP uses; X0/Y0/Q0 are offsets
// in the same units as the resulting X/Y/Q.
type Calibration struct {
	Geometry     Geometry
	Kx, Ky       uint32 // gain mantissas, Q30 (see delta)
	X0, Y0, Q0   int32
	ChannelGains [4]int32 // per-RF-channel gain correction, <= 1<<30, applied pre-permutation
}

// IQToABCD converts one row of in-phase/quadrature samples into button
// intensities via the CORDIC magnitude of each (I, Q) pair, after
// applying the per-channel gain correction to I and Q (spec §4.4:
// "gain correction ... applied per RF channel before permutation").
// A zero gain in channelGains is treated as unity so callers that don't
// have a calibration yet get the uncorrected magnitude.
func IQToABCD(row waveform.IQRow, channelGains [4]int32) waveform.ABCDRow {
	gain := func(i int) int32 {
		if channelGains[i] == 0 {
			return 1 << 30
		}
		return channelGains[i]
	}
	ai, aq := ApplyChannelGain(gain(0), row.AI), ApplyChannelGain(gain(0), row.AQ)
	bi, bq := ApplyChannelGain(gain(1), row.BI), ApplyChannelGain(gain(1), row.BQ)
	ci, cq := ApplyChannelGain(gain(2), row.CI), ApplyChannelGain(gain(2), row.CQ)
	di, dq := ApplyChannelGain(gain(3), row.DI), ApplyChannelGain(gain(3), row.DQ)
	return waveform.ABCDRow{
		A: int32(numeric.CordicMagnitude(ai, aq)),
		B: int32(numeric.CordicMagnitude(bi, bq)),
		C: int32(numeric.CordicMagnitude(ci, cq)),
		D: int32(numeric.CordicMagnitude(di, dq)),
	}
}

// ApplyChannelGain scales a raw signed amplitude by a gain in [0, 2^30],
// per spec §4.4's "out = (gain*x) >> 30".
func ApplyChannelGain(gain, x int32) int32 {
	return int32((int64(gain) * int64(x)) >> 30)
}

// delta implements spec §4.4's delta_to_position helper:
// delta(K, M, invS, shift) = mul_us(mul_uu(K*4, invS), M << (62-shift)).
// It realises K*M/S without precision loss given reciprocal's output
// range (2^31 <= invS < 2^32).
func delta(k uint32, m int32, invS uint32, shift int) int32 {
	kk := k << 2
	prod := numeric.MulUU(kk, invS)
	s := uint(62 - shift)
	var shifted int32
	switch {
	case s >= 32:
		// m << (62-shift) would overflow a 32-bit shift amount; this
		// only happens for pathologically small S, in which case the
		// position is meaningless anyway and zero is as good a
		// saturated answer as any.
		shifted = 0
	default:
		shifted = m << s
	}
	return numeric.MulUS(prod, shifted)
}

// ABCDToXYQS converts one row of button intensities into a position,
// applying the calibration's gain and offset corrections.
func ABCDToXYQS(row waveform.ABCDRow, cal Calibration) waveform.XYQSRow {
	s := (row.A + row.B + row.C + row.D) >> 2
	invS, shift := numeric.Reciprocal(uint32(s))

	var x, y int32
	switch cal.Geometry {
	case Diagonal:
		x = delta(cal.Kx, row.A-row.B-row.C+row.D, invS, shift) - cal.X0
		y = delta(cal.Ky, row.A+row.B-row.C-row.D, invS, shift) - cal.Y0
	case Vertical:
		x = (delta(cal.Kx, row.D-row.B, invS, shift) << 1) - cal.X0
		y = (delta(cal.Ky, row.A-row.C, invS, shift) << 1) - cal.Y0
	}
	q := delta(1e8, row.A-row.B+row.C-row.D, invS, shift) - cal.Q0

	return waveform.XYQSRow{X: x, Y: y, Q: q, S: s}
}
