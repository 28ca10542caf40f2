package dsc

import (
	"context"
	"math"
	"math/cmplx"
	"math/rand"
	"testing"
	"time"

	"github.com/nasa-jpl/bpmd/conversion"
	"github.com/nasa-jpl/bpmd/hwfacade"
	"github.com/nasa-jpl/bpmd/waveform"
)

// fakeGate is a manually-armed InterlockGate for exercising Iterate's
// step 2 wait without pulling in the interlock package.
type fakeGate struct {
	ch chan struct{}
}

func newFakeGate(ready bool) *fakeGate {
	g := &fakeGate{ch: make(chan struct{})}
	if ready {
		close(g.ch)
	}
	return g
}

func (g *fakeGate) Ready() <-chan struct{} { return g.ch }

type fakeDevice struct {
	phaseWrites []int
	attenWrites []int
	commits     int
	iqRows      []waveform.IQRow
}

func (d *fakeDevice) ReadIQ(n, offset, decimation int) ([]waveform.IQRow, waveform.Timestamp, error) {
	return d.iqRows, waveform.Timestamp{}, nil
}
func (d *fakeDevice) ReadADC() ([4096]int16, error) { return [4096]int16{}, nil }
func (d *fakeDevice) ReadSA() (waveform.ABCDRow, waveform.XYQSRow, waveform.Timestamp, error) {
	return waveform.ABCDRow{}, waveform.XYQSRow{}, waveform.Timestamp{}, nil
}
func (d *fakeDevice) Lock()   {}
func (d *fakeDevice) Unlock() {}
func (d *fakeDevice) WriteAttenuation(valueDB int) error {
	d.attenWrites = append(d.attenWrites, valueDB)
	return nil
}
func (d *fakeDevice) WriteSwitchSequence(seq []int) error         { return nil }
func (d *fakeDevice) WriteDemux(sw int, m hwfacade.DemuxMatrix) error { return nil }
func (d *fakeDevice) WritePhaseArray(sw int, entries [4]hwfacade.PhaseEntry) error {
	d.phaseWrites = append(d.phaseWrites, sw)
	return nil
}
func (d *fakeDevice) CommitDSC() error {
	d.commits++
	return nil
}

func newTestLoop(dev *fakeDevice) *Loop {
	return NewLoop(Config{Device: dev, IQReader: dev, Variant: Electron, IFAngle: 0.3})
}

func TestComplexToTwoPoleRoundTrip(t *testing.T) {
	const omega = 0.3
	rng := rand.New(rand.NewSource(4))
	for i := 0; i < 500; i++ {
		mag := rng.Float64() * 1.5
		phase := rng.Float64() * 2 * math.Pi
		k := cmplx.Rect(mag, phase)
		e, ok := complexToTwoPole(k, omega)
		if !ok {
			continue
		}
		back := twoPoleToComplex(e, omega)
		if cmplx.Abs(back-k) > 0.01 {
			t.Fatalf("round trip for k=%v: got %v", k, back)
		}
	}
}

func TestUnityModeWritesAllSixteenPositions(t *testing.T) {
	dev := &fakeDevice{}
	l := newTestLoop(dev)
	if err := l.SetMode(ModeUnity); err != nil {
		t.Fatal(err)
	}
	if len(dev.phaseWrites) != 16 {
		t.Fatalf("phase writes = %d, want 16", len(dev.phaseWrites))
	}
	if dev.commits == 0 {
		t.Fatal("expected at least one commit")
	}
	if l.enabled {
		t.Fatal("unity mode should disable the loop")
	}
}

func TestWriteAttenuationSetsResetIIR(t *testing.T) {
	dev := &fakeDevice{}
	l := newTestLoop(dev)
	l.resetIIR = false
	if err := l.WriteAttenuation(5); err != nil {
		t.Fatal(err)
	}
	if !l.resetIIR {
		t.Fatal("WriteAttenuation should set resetIIR")
	}
	if len(dev.attenWrites) != 1 || dev.attenWrites[0] != 5 {
		t.Fatalf("attenWrites = %v, want [5]", dev.attenWrites)
	}
}

func TestIterateNoDataOnEmptyRead(t *testing.T) {
	dev := &fakeDevice{}
	l := newTestLoop(dev)
	l.enabled = true
	status := l.Iterate(nil)
	if status != NoData {
		t.Fatalf("status = %v, want NoData", status)
	}
}

func TestSamplePositionAppliesCalibration(t *testing.T) {
	dev := &fakeDevice{iqRows: []waveform.IQRow{{AI: 1000, AQ: 0, BI: 0, BQ: 1000, CI: -1000, CQ: 0, DI: 0, DQ: -1000}}}
	l := NewLoop(Config{
		Device: dev, IQReader: dev, Variant: Electron, IFAngle: 0.3,
		Calibration: conversion.Calibration{Geometry: conversion.Diagonal, Kx: 1 << 28, Ky: 1 << 28},
	})
	xyqs, err := l.SamplePosition()
	if err != nil {
		t.Fatal(err)
	}
	if xyqs.S <= 0 {
		t.Fatalf("S = %d, want positive intensity", xyqs.S)
	}
}

func TestSamplePositionErrorsOnEmptyRead(t *testing.T) {
	dev := &fakeDevice{}
	l := newTestLoop(dev)
	if _, err := l.SamplePosition(); err == nil {
		t.Fatal("expected error sampling position with no IQ data")
	}
}

func TestIterateOffWhenDisabled(t *testing.T) {
	dev := &fakeDevice{}
	l := newTestLoop(dev)
	status := l.Iterate(nil)
	if status != Off {
		t.Fatalf("status = %v, want Off", status)
	}
}

func TestIterateProceedsWhenGateReady(t *testing.T) {
	dev := &fakeDevice{}
	l := NewLoop(Config{Device: dev, IQReader: dev, Variant: Electron, IFAngle: 0.3, InterlockReady: newFakeGate(true)})
	l.enabled = true
	status := l.Iterate(context.Background())
	if status != NoData {
		t.Fatalf("status = %v, want NoData (empty IQ read, gate should not have blocked)", status)
	}
}

func TestIterateBlocksOnGateUntilCancelled(t *testing.T) {
	dev := &fakeDevice{}
	l := NewLoop(Config{Device: dev, IQReader: dev, Variant: Electron, IFAngle: 0.3, InterlockReady: newFakeGate(false)})
	l.enabled = true
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	status := l.Iterate(ctx)
	if status != Off {
		t.Fatalf("status = %v, want Off once ctx is cancelled while waiting on the gate", status)
	}
}

// quietRows builds a window with a switch marker at offset 0 and
// identical, noiseless samples at every position/button.
func quietRows(period, seqLen int) []waveform.IQRow {
	rows := make([]waveform.IQRow, period*seqLen*2)
	for i := range rows {
		rows[i] = waveform.IQRow{AI: 1000, AQ: 0, BI: 1000, BQ: 0, CI: 1000, CQ: 0, DI: 1000, DQ: 0}
	}
	rows[0].AI |= 1
	return rows
}

func TestDigestZeroDeviationOnNoiselessData(t *testing.T) {
	d := digest(quietRows(SwitchPeriod, 4), 0, SwitchPeriod, 4)
	if d.deviation != 0 {
		t.Fatalf("deviation = %v, want 0 for noiseless data", d.deviation)
	}
}

func TestDigestAveragesNoiseAcrossButtonsNotMax(t *testing.T) {
	rows := quietRows(SwitchPeriod, 4)
	// Inject noise into only one button (D) at one sequence position, by
	// alternating its value between cycles.
	cycles := (len(rows)) / (SwitchPeriod * 4)
	for cyc := 0; cyc < cycles; cyc++ {
		if cyc%2 == 1 {
			continue
		}
		base := cyc * SwitchPeriod * 4
		for s0 := SwitchHoldoff; s0 < SwitchPeriod; s0++ {
			rows[base+s0].DI = 1000 + 5000
		}
	}
	d := digest(rows, 0, SwitchPeriod, 4)
	if d.deviation <= 0 {
		t.Fatal("expected nonzero deviation from the injected noise")
	}
	// A single noisy button pooled across 4 buttons and 4 positions is
	// diluted to a variance of 6.25e6/16, i.e. a deviation of
	// 625/1000*100 = 62.5%; a max-of-buttons statistic would report 250%
	// for the same raw noise.
	if math.Abs(d.deviation-62.5) > 1e-9 {
		t.Fatalf("deviation = %v, noise from one button should be averaged down, not dominate", d.deviation)
	}
}
