// Package simulated is a deterministic in-memory implementation of
// hwfacade.Device; bpmd's run command always uses it. It never touches
// real hardware; IQ rows are synthesised from a configurable per-button
// amplitude/phase, with a marker bit set at each switch-period boundary,
// so the DSC loop's marker search and digest have something realistic to
// chew on. The switch sequence sets how many positions a period cycles
// through but does not permute the buttons.
package simulated

import (
	"math"
	"sync"

	"github.com/nasa-jpl/bpmd/bpmerr"
	"github.com/nasa-jpl/bpmd/hwfacade"
	"github.com/nasa-jpl/bpmd/waveform"
)

// Device is a simulated hwfacade.Device.
type Device struct {
	mu sync.Mutex

	// Amplitude/Phase per button, used to synthesise IQ rows.
	Amplitude [4]int32
	Phase     [4]float64

	seq          []int
	switchPeriod int // samples per switch position before advancing
	demux        [16]hwfacade.DemuxMatrix
	phaseArray   [16][4]hwfacade.PhaseEntry
	attenDB      int

	// The fields above hold the last CommitDSC'd state; pending writes
	// are staged separately below so CommitDSC applies them together.
	pendingAtten  *int
	pendingSeq    []int
	pendingDemux  map[int]hwfacade.DemuxMatrix
	pendingPhase  map[int][4]hwfacade.PhaseEntry
	commitHeld    bool
	nextSATick    int
}

// New returns a simulated device with a unity switch sequence of length
// 4 and 40-sample switch periods, matching spec scenario 3's marker
// cadence.
func New() *Device {
	d := &Device{
		Amplitude:    [4]int32{100000, 100000, 100000, 100000},
		seq:          []int{0, 1, 2, 3},
		switchPeriod: 40,
		pendingDemux: make(map[int]hwfacade.DemuxMatrix),
		pendingPhase: make(map[int][4]hwfacade.PhaseEntry),
	}
	for sw := range d.demux {
		for c := 0; c < 4; c++ {
			d.demux[sw][c][c] = 1 << 30
			d.phaseArray[sw][c] = hwfacade.PhaseEntry{A0: 1 << 16, A1: 0}
		}
	}
	return d
}

func (d *Device) ReadIQ(n, offset, decimation int) ([]waveform.IQRow, waveform.Timestamp, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if decimation != 1 && decimation != 64 {
		return nil, waveform.Timestamp{}, bpmerr.New(bpmerr.InvalidParameter, "decimation must be 1 or 64")
	}
	rows := make([]waveform.IQRow, n)
	period := d.switchPeriod
	if period <= 0 {
		period = 1
	}
	for i := 0; i < n; i++ {
		sampleIdx := offset + i*decimation
		swPos := (sampleIdx / period) % len(d.seq)
		inTransition := sampleIdx%period == 0
		row := waveform.IQRow{}
		vals := [4]*int32{&row.AI, &row.BI, &row.CI, &row.DI}
		qvals := [4]*int32{&row.AQ, &row.BQ, &row.CQ, &row.DQ}
		for b := 0; b < 4; b++ {
			ch := d.seq[swPos] // placeholder permutation: identity
			_ = ch
			amp := float64(d.Amplitude[b])
			ph := d.Phase[b]
			*vals[b] = int32(amp * math.Cos(ph))
			*qvals[b] = int32(amp * math.Sin(ph))
		}
		if inTransition {
			row.AI |= 1
		}
		rows[i] = row
	}
	return rows, waveform.Now(), nil
}

func (d *Device) ReadADC() ([4096]int16, error) {
	var out [4096]int16
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range out {
		out[i] = int16(d.Amplitude[i%4] >> 16)
	}
	return out, nil
}

func (d *Device) ReadSA() (waveform.ABCDRow, waveform.XYQSRow, waveform.Timestamp, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	abcd := waveform.ABCDRow{
		A: d.Amplitude[0], B: d.Amplitude[1], C: d.Amplitude[2], D: d.Amplitude[3],
	}
	s := (abcd.A + abcd.B + abcd.C + abcd.D) >> 2
	xyqs := waveform.XYQSRow{S: s}
	return abcd, xyqs, waveform.Now(), nil
}

func (d *Device) Lock() {
	d.mu.Lock()
	d.commitHeld = true
}

func (d *Device) Unlock() {
	d.commitHeld = false
	d.mu.Unlock()
}

func (d *Device) requireLock() error {
	if !d.commitHeld {
		return bpmerr.New(bpmerr.SequenceError, "mutating call made without holding the commit lock")
	}
	return nil
}

func (d *Device) WriteAttenuation(valueDB int) error {
	if err := d.requireLock(); err != nil {
		return err
	}
	if valueDB < 0 {
		valueDB = 0
	}
	if valueDB > hwfacade.MaxAttenuation {
		valueDB = hwfacade.MaxAttenuation
	}
	d.pendingAtten = &valueDB
	return nil
}

func (d *Device) WriteSwitchSequence(seq []int) error {
	if err := d.requireLock(); err != nil {
		return err
	}
	if len(seq) == 0 || len(seq) > hwfacade.MaxSwitchSequence {
		return bpmerr.New(bpmerr.InvalidParameter, "switch sequence length out of range")
	}
	d.pendingSeq = append([]int(nil), seq...)
	return nil
}

func (d *Device) WriteDemux(sw int, m hwfacade.DemuxMatrix) error {
	if err := d.requireLock(); err != nil {
		return err
	}
	if sw < 0 || sw >= 16 {
		return bpmerr.New(bpmerr.InvalidParameter, "switch position out of range")
	}
	d.pendingDemux[sw] = m
	return nil
}

func (d *Device) WritePhaseArray(sw int, entries [4]hwfacade.PhaseEntry) error {
	if err := d.requireLock(); err != nil {
		return err
	}
	if sw < 0 || sw >= 16 {
		return bpmerr.New(bpmerr.InvalidParameter, "switch position out of range")
	}
	d.pendingPhase[sw] = entries
	return nil
}

func (d *Device) CommitDSC() error {
	if err := d.requireLock(); err != nil {
		return err
	}
	if d.pendingAtten != nil {
		d.attenDB = *d.pendingAtten
		d.pendingAtten = nil
	}
	if d.pendingSeq != nil {
		d.seq = d.pendingSeq
		d.pendingSeq = nil
	}
	for sw, m := range d.pendingDemux {
		d.demux[sw] = m
		delete(d.pendingDemux, sw)
	}
	for sw, p := range d.pendingPhase {
		d.phaseArray[sw] = p
		delete(d.pendingPhase, sw)
	}
	return nil
}

// AttenuationDB returns the last committed attenuator setting, for
// tests.
func (d *Device) AttenuationDB() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.attenDB
}

// PhaseArrayAt returns the last committed phase array for a switch
// position, for tests.
func (d *Device) PhaseArrayAt(sw int) [4]hwfacade.PhaseEntry {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.phaseArray[sw]
}
