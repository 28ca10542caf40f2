// Package dsc implements the Digital Signal Conditioning compensation
// loop of spec §4.3: it reads a raw IQ waveform, estimates per-channel
// gain/phase compensation by inverting the crossbar permutation, IIR-
// filters the estimate, synthesises two-tap FIR coefficients for the
// FPGA, and commits them while coordinating with the interlock.
package dsc

import (
	"context"
	"math"
	"math/cmplx"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/nasa-jpl/bpmd/bpmerr"
	"github.com/nasa-jpl/bpmd/conversion"
	"github.com/nasa-jpl/bpmd/hwfacade"
	"github.com/nasa-jpl/bpmd/waveform"
)

// Status is the DSC loop's observational state machine, per spec §4.3.
type Status int

const (
	Off Status = iota
	NoData
	NoSwitchMarker
	VarianceTooHigh
	Overflow
	Ok
)

func (s Status) String() string {
	switch s {
	case Off:
		return "Off"
	case NoData:
		return "NoData"
	case NoSwitchMarker:
		return "NoSwitchMarker"
	case VarianceTooHigh:
		return "VarianceTooHigh"
	case Overflow:
		return "Overflow"
	case Ok:
		return "Ok"
	default:
		return "Unknown"
	}
}

// Mode selects how the compensation matrix is driven, per spec §4.3's
// set_mode command.
type Mode int

const (
	ModeFixed Mode = iota
	ModeUnity
	ModeAuto
)

// PhaseUnity is the fixed-point scale representing a gain of 1.0 in a
// two-tap FIR coefficient; F[0]=PhaseUnity, F[1]=0 is the unity filter.
// 1<<16 leaves one bit of headroom below the 18-bit signed limit so a
// gain slightly above unity does not immediately overflow.
const PhaseUnity = 1 << 16

// fir18Max is the largest magnitude a signed 18-bit coefficient can
// hold.
const fir18Max = 1<<17 - 1

// IQReader reads a raw IQ waveform independent of the main façade
// handle, per spec §4.3 step 3 ("an independent device handle").
type IQReader interface {
	ReadIQ(n, offset, decimation int) ([]waveform.IQRow, waveform.Timestamp, error)
}

// InterlockGate is the downstream interlock subsystem's readiness
// signal, waited on at spec §4.3 step 2 before a new compensation cycle
// starts: Ready returns a channel that is closed while the interlock is
// not tripped, and blocks for the duration of a trip.
type InterlockGate interface {
	Ready() <-chan struct{}
}

// Loop is the DSC compensation loop.
type Loop struct {
	mu sync.Mutex

	device   hwfacade.Device
	iqReader IQReader
	variant  Variant
	table    [16]Permutation
	sequence []int
	ifAngle  float64 // omega, rad/sample

	enabled       bool
	mode          Mode
	intervalMs    int
	maxDeviation  float64 // percent
	iirFactor     float64
	resetIIR      bool

	currentK    [][4]complex128
	lastGoodK   [][4]complex128
	status      Status
	overflowCnt [4]uint32
	calibration conversion.Calibration

	interlockReady  InterlockGate
	holdoffInterlock func()

	cancel context.CancelFunc
	done   chan struct{}
}

// Config bundles the construction-time parameters for a Loop.
type Config struct {
	Device           hwfacade.Device
	IQReader         IQReader
	Variant          Variant
	IFAngle          float64
	IntervalMs       int
	MaxDeviation     float64
	IIRFactor        float64
	InterlockReady   InterlockGate
	HoldoffInterlock func()
	Calibration      conversion.Calibration
}

// NewLoop constructs a Loop with an identity compensation matrix and
// the default permutation/sequence for the given hardware variant.
func NewLoop(cfg Config) *Loop {
	table, seq := LookupFor(cfg.Variant)
	l := &Loop{
		device:           cfg.Device,
		iqReader:         cfg.IQReader,
		variant:          cfg.Variant,
		table:            table,
		sequence:         seq,
		ifAngle:          cfg.IFAngle,
		intervalMs:       cfg.IntervalMs,
		maxDeviation:     cfg.MaxDeviation,
		iirFactor:        cfg.IIRFactor,
		resetIIR:         true,
		status:           Off,
		interlockReady:   cfg.InterlockReady,
		holdoffInterlock: cfg.HoldoffInterlock,
		calibration:      cfg.Calibration,
	}
	l.resetToUnity()
	return l
}

func (l *Loop) resetToUnity() {
	k := make([][4]complex128, len(l.sequence))
	for ix := range k {
		for c := 0; c < 4; c++ {
			k[ix][c] = 1
		}
	}
	l.currentK = k
	l.lastGoodK = k
}

// Status returns the loop's current observational status.
func (l *Loop) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status
}

// OverflowCounts returns the per-channel clipped-sample counter
// (supplemented from original_source; see SPEC_FULL.md §4). No code path
// in the loop increments the counter, so every channel reads zero.
func (l *Loop) OverflowCounts() [4]uint32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.overflowCnt
}

// SamplePosition reads one fresh row from the loop's independent IQ
// handle and runs it through the gain-corrected conversion pipeline
// (conversion.IQToABCD / conversion.ABCDToXYQS), entirely independent
// of the compensation algorithm above it. It exists as a cross-check
// against the FPGA's own fast SA readout, surfaced read-only over
// httpapi.
func (l *Loop) SamplePosition() (waveform.XYQSRow, error) {
	rows, _, err := l.iqReader.ReadIQ(1, 0, 1)
	if err != nil || len(rows) == 0 {
		return waveform.XYQSRow{}, bpmerr.New(bpmerr.DeviceUnavailable, "no IQ data available")
	}
	l.mu.Lock()
	cal := l.calibration
	l.mu.Unlock()
	abcd := conversion.IQToABCD(rows[0], cal.ChannelGains)
	return conversion.ABCDToXYQS(abcd, cal), nil
}

// SetMode implements spec §4.3's set_mode command.
func (l *Loop) SetMode(m Mode) error {
	l.device.Lock()
	defer l.device.Unlock()
	l.mu.Lock()
	defer l.mu.Unlock()

	l.mode = m
	switch m {
	case ModeAuto:
		l.enabled = true
	case ModeUnity:
		l.enabled = false
		l.resetToUnity()
		if err := l.writeUnityLocked(); err != nil {
			return err
		}
	case ModeFixed:
		l.enabled = false
		l.currentK = l.lastGoodK
		if err := l.writeCurrentLocked(); err != nil {
			return err
		}
	}
	return nil
}

// WriteAttenuation implements the DSCWriter interface the attenuator
// manager depends on: hold off the interlock, write the attenuator, set
// the IIR reset flag, commit, matching spec §4.3's write_attenuation
// command exactly.
func (l *Loop) WriteAttenuation(valueDB int) error {
	l.device.Lock()
	defer l.device.Unlock()
	if l.holdoffInterlock != nil {
		l.holdoffInterlock()
	}
	if err := l.device.WriteAttenuation(valueDB); err != nil {
		return err
	}
	l.mu.Lock()
	l.resetIIR = true
	l.mu.Unlock()
	return l.device.CommitDSC()
}

// WriteSwitches installs a new switch sequence (auto mode) or forces a
// single manual switch value, per spec §4.3's write_switches command.
func (l *Loop) WriteSwitches(seq []int, manual bool) error {
	l.device.Lock()
	defer l.device.Unlock()
	if manual {
		if len(seq) != 1 {
			return bpmerr.New(bpmerr.InvalidParameter, "manual switch write requires exactly one value")
		}
		if err := l.device.WriteSwitchSequence(seq); err != nil {
			return err
		}
		return l.device.CommitDSC()
	}
	if err := l.device.WriteSwitchSequence(seq); err != nil {
		return err
	}
	l.mu.Lock()
	l.sequence = append([]int(nil), seq...)
	l.mu.Unlock()
	return l.device.CommitDSC()
}

func (l *Loop) writeUnityLocked() error {
	for sw := 0; sw < 16; sw++ {
		entries := [4]hwfacade.PhaseEntry{}
		for c := 0; c < 4; c++ {
			entries[c] = hwfacade.PhaseEntry{A0: PhaseUnity, A1: 0}
		}
		if err := l.device.WritePhaseArray(sw, entries); err != nil {
			return err
		}
	}
	return l.device.CommitDSC()
}

func (l *Loop) writeCurrentLocked() error {
	arrays := make(map[int][4]hwfacade.PhaseEntry)
	for ix, k := range l.currentK {
		var entries [4]hwfacade.PhaseEntry
		for c := 0; c < 4; c++ {
			e, ok := complexToTwoPole(k[c], l.ifAngle)
			if !ok {
				return bpmerr.New(bpmerr.Overflow, "compensation synthesis does not fit in 18 bits")
			}
			entries[c] = e
		}
		arrays[l.sequence[ix]] = entries
	}
	for sw, entries := range arrays {
		if err := l.device.WritePhaseArray(sw, entries); err != nil {
			return err
		}
	}
	return l.device.CommitDSC()
}

// complexToTwoPole implements ComplexToTwoPole from the original
// conditioning loop: F0 = x + y*cot(w), F1 = -y*csc(w), scaled by
// PhaseUnity and checked against the 18-bit signed range.
func complexToTwoPole(k complex128, omega float64) (hwfacade.PhaseEntry, bool) {
	x, y := real(k), imag(k)
	cot := math.Cos(omega) / math.Sin(omega)
	csc := 1 / math.Sin(omega)
	f0 := int64(math.Round(PhaseUnity * (x + y*cot)))
	f1 := int64(math.Round(PhaseUnity * (-y * csc)))
	ok := f0 >= -fir18Max-1 && f0 <= fir18Max && f1 >= -fir18Max-1 && f1 <= fir18Max
	return hwfacade.PhaseEntry{A0: int32(f0), A1: int32(f1)}, ok
}

// twoPoleToComplex reverses complexToTwoPole, per spec §8's round-trip
// invariant "two_pole_to_complex(complex_to_two_pole(K)) ~= K".
func twoPoleToComplex(f hwfacade.PhaseEntry, omega float64) complex128 {
	cis := cmplx.Exp(complex(0, -omega))
	return (complex(float64(f.A0), 0) + cis*complex(float64(f.A1), 0)) / complex(PhaseUnity, 0)
}

// digestResult holds the per-position, per-button complex mean and the
// relative standard deviation computed from one window of IQ data.
type digestResult struct {
	Z         [][4]complex128
	deviation float64
}

// findSwitchMarkers locates the first complete period*len(sequence)
// window of switch-transition boundaries in rows, identified by the LSB
// of the I column (spec §4.3 step 4). It returns the sample offset of
// the first transition and ok=false if no complete window exists.
func findSwitchMarkers(rows []waveform.IQRow, period, seqLen int) (offset int, ok bool) {
	windowLen := period * seqLen
	if len(rows) < windowLen {
		return 0, false
	}
	for i, r := range rows {
		if r.AI&1 != 0 {
			if i+windowLen <= len(rows) {
				return i, true
			}
			return 0, false
		}
	}
	return 0, false
}

// digest implements spec §4.3 step 5: accumulate per-button complex
// sums and sums-of-squares per sequence position across all complete
// cycles in the window, skipping SwitchHoldoff samples after each
// transition, then compute the complex mean and deviation.
//
// The deviation statistic follows conditioning.cpp's DigestWaveform: a
// per-component (I and Q separately) variance is computed for every
// (position, button) pair pooled across the full window, then averaged
// across all of them (`Variance /= SwitchSequenceLength * BUTTON_COUNT`)
// rather than taking the worst button's variance — one noisy button
// should be diluted into the average, not dominate the trip decision.
func digest(rows []waveform.IQRow, offset, period, seqLen int) digestResult {
	cycles := (len(rows) - offset) / (period * seqLen)
	Z := make([][4]complex128, seqLen)
	sumI := make([][4]float64, seqLen)
	sumQ := make([][4]float64, seqLen)
	sqI := make([][4]float64, seqLen)
	sqQ := make([][4]float64, seqLen)
	minSignal := math.MaxFloat64

	samplesPerCycle := period - SwitchHoldoff
	for cyc := 0; cyc < cycles; cyc++ {
		for ix := 0; ix < seqLen; ix++ {
			base := offset + cyc*period*seqLen + ix*period
			var s [4]complex128
			for s0 := SwitchHoldoff; s0 < period; s0++ {
				row := rows[base+s0]
				vals := [4]complex128{
					complex(float64(row.AI), float64(row.AQ)),
					complex(float64(row.BI), float64(row.BQ)),
					complex(float64(row.CI), float64(row.CQ)),
					complex(float64(row.DI), float64(row.DQ)),
				}
				for b := 0; b < 4; b++ {
					s[b] += vals[b]
					sumI[ix][b] += real(vals[b])
					sumQ[ix][b] += imag(vals[b])
					sqI[ix][b] += real(vals[b]) * real(vals[b])
					sqQ[ix][b] += imag(vals[b]) * imag(vals[b])
				}
			}
			for b := 0; b < 4; b++ {
				mean := s[b] / complex(float64(samplesPerCycle), 0)
				Z[ix][b] += mean
				mag := cmplx.Abs(mean)
				if mag < minSignal && mag > 0 {
					minSignal = mag
				}
			}
		}
	}
	for ix := 0; ix < seqLen; ix++ {
		for b := 0; b < 4; b++ {
			if cycles > 0 {
				Z[ix][b] /= complex(float64(cycles), 0)
			}
		}
	}

	var totalVariance float64
	totalSamples := cycles * samplesPerCycle
	if totalSamples > 0 && seqLen > 0 {
		componentVariance := func(sum, sumSq float64) float64 {
			mean := sum / float64(totalSamples)
			return sumSq/float64(totalSamples) - mean*mean
		}
		for ix := 0; ix < seqLen; ix++ {
			for b := 0; b < 4; b++ {
				totalVariance += componentVariance(sumI[ix][b], sqI[ix][b])
				totalVariance += componentVariance(sumQ[ix][b], sqQ[ix][b])
			}
		}
		totalVariance /= float64(seqLen * 4)
	}

	deviation := 0.0
	if minSignal > 0 && minSignal < math.MaxFloat64 {
		deviation = math.Sqrt(totalVariance) / minSignal * 100
	}
	return digestResult{Z: Z, deviation: deviation}
}

// Iterate runs one DSC loop body (spec §4.3 steps 1-13) and returns the
// resulting status. It is exported so tests can drive individual
// iterations deterministically without the Run goroutine's sleeps.
func (l *Loop) Iterate(ctx context.Context) Status {
	l.device.Lock()
	defer l.device.Unlock()

	l.mu.Lock()
	enabled := l.enabled
	l.mu.Unlock()
	if !enabled {
		l.setStatus(Off)
		return Off
	}

	// Step 2: wait for the downstream interlock to report ready before
	// reading new data. Cancellable so a latched trip can't wedge
	// shutdown; a disabled or untripped interlock never blocks here.
	if l.interlockReady != nil {
		select {
		case <-l.interlockReady.Ready():
		case <-ctx.Done():
			l.setStatus(Off)
			return Off
		}
	}

	rows, _, err := l.iqReader.ReadIQ(SampleSize, 0, 1)
	if err != nil || len(rows) == 0 {
		l.setStatus(NoData)
		return NoData
	}

	l.mu.Lock()
	seqLen := len(l.sequence)
	l.mu.Unlock()

	offset, ok := findSwitchMarkers(rows, SwitchPeriod, seqLen)
	if !ok {
		l.setStatus(NoSwitchMarker)
		return NoSwitchMarker
	}

	d := digest(rows, offset, SwitchPeriod, seqLen)

	l.mu.Lock()
	maxDev := l.maxDeviation
	l.mu.Unlock()
	if d.deviation > maxDev {
		l.setStatus(VarianceTooHigh)
		return VarianceTooHigh
	}

	l.mu.Lock()
	table := l.table
	sequence := l.sequence
	currentK := l.currentK
	l.mu.Unlock()

	// Decompensate: Z_raw[ix][b] = Z[ix][b] / K[ix][p[b]].
	zRaw := make([][4]complex128, seqLen)
	for ix := 0; ix < seqLen; ix++ {
		p := table[sequence[ix]]
		for b := 0; b < 4; b++ {
			zRaw[ix][b] = d.Z[ix][b] / currentK[ix][p[b]]
		}
	}

	// Estimate input per button: magnitude = geometric mean of
	// |Z_raw[ix][b]| over ix; phase = angle of the arithmetic sum.
	var x [4]complex128
	for b := 0; b < 4; b++ {
		logSum := 0.0
		var angleSum complex128
		for ix := 0; ix < seqLen; ix++ {
			mag := cmplx.Abs(zRaw[ix][b])
			if mag > 0 {
				logSum += math.Log(mag)
			}
			angleSum += zRaw[ix][b]
		}
		mag := math.Exp(logSum / float64(seqLen))
		phase := cmplx.Phase(angleSum)
		x[b] = cmplx.Rect(mag, phase)
	}

	// New compensation: K_new[ix][p[b]] = X[b] / Z_raw[ix][b].
	kNew := make([][4]complex128, seqLen)
	for ix := 0; ix < seqLen; ix++ {
		p := table[sequence[ix]]
		for b := 0; b < 4; b++ {
			if zRaw[ix][b] != 0 {
				kNew[ix][p[b]] = x[b] / zRaw[ix][b]
			} else {
				kNew[ix][p[b]] = currentK[ix][p[b]]
			}
		}
	}

	l.mu.Lock()
	reset := l.resetIIR
	alpha := l.iirFactor
	l.mu.Unlock()

	kMerged := make([][4]complex128, seqLen)
	if reset {
		kMerged = kNew
		if l.holdoffInterlock != nil {
			l.holdoffInterlock()
		}
	} else {
		for ix := 0; ix < seqLen; ix++ {
			for c := 0; c < 4; c++ {
				kMerged[ix][c] = currentK[ix][c]*complex(1-alpha, 0) + kNew[ix][c]*complex(alpha, 0)
			}
		}
	}

	l.mu.Lock()
	omega := l.ifAngle
	l.mu.Unlock()

	arrays := make(map[int][4]hwfacade.PhaseEntry)
	allOk := true
outer:
	for ix := 0; ix < seqLen; ix++ {
		var entries [4]hwfacade.PhaseEntry
		for c := 0; c < 4; c++ {
			e, ok := complexToTwoPole(kMerged[ix][c], omega)
			if !ok {
				allOk = false
				break outer
			}
			entries[c] = e
		}
		arrays[sequence[ix]] = entries
	}

	if !allOk {
		l.mu.Lock()
		l.resetToUnity()
		l.resetIIR = true
		l.mu.Unlock()
		if l.holdoffInterlock != nil {
			l.holdoffInterlock()
		}
		l.setStatus(Overflow)
		return Overflow
	}

	for sw, entries := range arrays {
		if err := l.device.WritePhaseArray(sw, entries); err != nil {
			l.setStatus(NoData)
			return NoData
		}
	}
	if err := l.device.CommitDSC(); err != nil {
		l.setStatus(NoData)
		return NoData
	}

	l.mu.Lock()
	l.currentK = kMerged
	l.lastGoodK = kMerged
	l.resetIIR = false
	l.mu.Unlock()

	l.setStatus(Ok)
	return Ok
}

func (l *Loop) setStatus(s Status) {
	l.mu.Lock()
	l.status = s
	l.mu.Unlock()
}

// Run starts the loop's own goroutine, paced at one iteration per
// intervalMs by a rate.Limiter (see saloop.Loop.Run for why this is a
// limiter rather than a bare ticker), until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	l.done = make(chan struct{})
	defer close(l.done)
	interval := time.Duration(l.intervalMs) * time.Millisecond
	lim := rate.NewLimiter(rate.Every(interval), 1)
	for {
		if err := lim.Wait(ctx); err != nil {
			return
		}
		l.Iterate(ctx)
	}
}
