package conversion

import (
	"math"
	"testing"

	"github.com/nasa-jpl/bpmd/numeric"
	"github.com/nasa-jpl/bpmd/waveform"
)

func TestCentredBeamDiagonalZero(t *testing.T) {
	row := waveform.ABCDRow{A: 1000, B: 1000, C: 1000, D: 1000}
	cal := Calibration{Geometry: Diagonal, Kx: 1 << 28, Ky: 1 << 28}
	out := ABCDToXYQS(row, cal)
	if out.X != 0 || out.Y != 0 {
		t.Fatalf("centred beam should give X=Y=0, got X=%d Y=%d", out.X, out.Y)
	}
	if out.S != 1000 {
		t.Fatalf("S = %d, want 1000", out.S)
	}
}

func TestCentredBeamVerticalZero(t *testing.T) {
	row := waveform.ABCDRow{A: 500, B: 500, C: 500, D: 500}
	cal := Calibration{Geometry: Vertical, Kx: 1 << 28, Ky: 1 << 28}
	out := ABCDToXYQS(row, cal)
	if out.X != 0 || out.Y != 0 {
		t.Fatalf("centred beam should give X=Y=0, got X=%d Y=%d", out.X, out.Y)
	}
}

func TestOffsetAppliedToZeroDisplacement(t *testing.T) {
	row := waveform.ABCDRow{A: 500, B: 500, C: 500, D: 500}
	cal := Calibration{Geometry: Diagonal, Kx: 1 << 28, Ky: 1 << 28, X0: 42, Y0: -7}
	out := ABCDToXYQS(row, cal)
	if out.X != -42 || out.Y != 7 {
		t.Fatalf("offset should shift a zero-displacement beam, got X=%d Y=%d", out.X, out.Y)
	}
}

func TestIQToABCDMagnitude(t *testing.T) {
	row := waveform.IQRow{AI: 1000, AQ: 0, BI: 0, BQ: 1000, CI: -1000, CQ: 0, DI: 0, DQ: -1000}
	out := IQToABCD(row, [4]int32{})
	want := int32(math.Round(numeric.CordicGain * 1000 / 2))
	for _, got := range []int32{out.A, out.B, out.C, out.D} {
		diff := got - want
		if diff < 0 {
			diff = -diff
		}
		if diff > 2 {
			t.Fatalf("button magnitude = %d, want ~%d", got, want)
		}
	}
}

func TestIQToABCDAppliesChannelGain(t *testing.T) {
	row := waveform.IQRow{AI: 1000, AQ: 0, BI: 0, BQ: 1000, CI: -1000, CQ: 0, DI: 0, DQ: -1000}
	gains := [4]int32{1 << 29, 1 << 30, 1 << 30, 1 << 30} // channel A at half gain
	out := IQToABCD(row, gains)
	wantA := int32(math.Round(numeric.CordicGain * 500 / 2))
	diff := out.A - wantA
	if diff < 0 {
		diff = -diff
	}
	if diff > 2 {
		t.Fatalf("channel A magnitude = %d, want ~%d with half gain applied", out.A, wantA)
	}
	if out.B == out.A {
		t.Fatal("channel B should be unaffected by channel A's gain")
	}
}

func TestApplyChannelGainUnity(t *testing.T) {
	if got := ApplyChannelGain(1<<30, 12345); got != 12345 {
		t.Fatalf("unity gain should be a no-op, got %d", got)
	}
}

func TestApplyChannelGainHalf(t *testing.T) {
	if got := ApplyChannelGain(1<<29, 1000); got != 500 {
		t.Fatalf("half gain of 1000 = %d, want 500", got)
	}
}
