// Package saloop implements the slow-acquisition loop of spec §2.7: a
// 10 Hz reader of FPGA-processed positions that computes power (dB) from
// intensity S, then drives the interlock and AGC from each sample. The
// published current is the raw intensity S, not scaled by attenuation,
// and ABCD is published as read, not normalised.
package saloop

import (
	"context"
	"time"

	"github.com/cenkalti/backoff"
	"golang.org/x/time/rate"

	"github.com/nasa-jpl/bpmd/bpmerr"
	"github.com/nasa-jpl/bpmd/numeric"
	"github.com/nasa-jpl/bpmd/waveform"
)

// Reader is the façade subset the SA loop depends on.
type Reader interface {
	ReadSA() (waveform.ABCDRow, waveform.XYQSRow, waveform.Timestamp, error)
}

// Interlock is the interlock subset the SA loop drives once per sample.
type Interlock interface {
	OnCurrentTick(x, y, current int32)
}

// AGC is the attenuator-manager subset the SA loop drives from ADC
// peak; saloop itself only has access to processed SA atoms, so it
// always reports intensity S as a proxy for the ADC peak.
type AGC interface {
	OnMaxADC(peak int32) error
}

// Sample is the published result of one SA iteration.
type Sample struct {
	ABCD      waveform.ABCDRow
	XYQS      waveform.XYQSRow
	PowerDB   int32
	Current   uint32
	Timestamp waveform.Timestamp
}

// Loop is the slow-acquisition loop.
type Loop struct {
	reader    Reader
	interlock Interlock
	agc       AGC

	// IntensityScale is stored for callers; Iterate does not read it, and
	// Sample.Current is the raw intensity S with no scale applied.
	IntensityScale numeric.PMFP

	onSample func(Sample)
}

// New constructs a Loop.
func New(reader Reader, il Interlock, agc AGC) *Loop {
	return &Loop{reader: reader, interlock: il, agc: agc}
}

// OnSample registers a callback invoked with each published sample.
func (l *Loop) OnSample(f func(Sample)) {
	l.onSample = f
}

// Iterate runs one SA loop body: blocking read, power/current
// computation, interlock tick, AGC update. Retries on
// bpmerr.DeviceUnavailable with a short constant backoff (~one sample
// period) per spec §7, without stalling other loops (the retry loop
// lives entirely inside this call, off the caller's own goroutine only
// in the sense that Run calls it from its own dedicated goroutine).
func (l *Loop) Iterate(ctx context.Context, samplePeriod time.Duration) (Sample, error) {
	b := backoff.NewConstantBackOff(samplePeriod)
	var sample Sample
	op := func() error {
		abcd, xyqs, ts, err := l.reader.ReadSA()
		if err != nil {
			if bpmerr.Is(err, bpmerr.DeviceUnavailable) {
				return err // retried by backoff.Retry
			}
			return backoff.Permanent(err)
		}
		powerDB := numeric.ToDB(uint32(xyqs.S))
		sample = Sample{
			ABCD:      abcd,
			XYQS:      xyqs,
			PowerDB:   powerDB,
			Current:   uint32(xyqs.S), // raw intensity S; no attenuation scale is applied
			Timestamp: ts,
		}
		return nil
	}
	err := backoff.Retry(op, b)
	if err != nil {
		return Sample{}, err
	}

	if l.interlock != nil {
		l.interlock.OnCurrentTick(sample.XYQS.X, sample.XYQS.Y, int32(sample.Current))
	}
	if l.agc != nil {
		l.agc.OnMaxADC(sample.XYQS.S)
	}
	if l.onSample != nil {
		l.onSample(sample)
	}
	return sample, nil
}

// Run drives Iterate at a rate of one per period until ctx is
// cancelled, paced by a golang.org/x/time/rate.Limiter rather than a
// bare time.Ticker so a slow iteration (a long backoff retry) doesn't
// build up a burst of queued ticks once it catches up. Cancellation is
// observed only between iterations: the blocking ReadSA call inside
// Iterate is not interruptible, and Iterate's DeviceUnavailable retry
// does not watch ctx, so while the device keeps reporting unavailable
// Run does not return.
func (l *Loop) Run(ctx context.Context, period time.Duration) {
	lim := rate.NewLimiter(rate.Every(period), 1)
	for {
		if err := lim.Wait(ctx); err != nil {
			return
		}
		l.Iterate(ctx, period)
	}
}
