// Package hwfacade defines the narrow typed interface to the FPGA and
// driver described in spec §4.2. The one concrete implementation in this
// tree is hwfacade/simulated, a deterministic in-memory stand-in that
// bpmd's run command uses; there is no ioctl-backed implementation.
package hwfacade

import (
	"github.com/nasa-jpl/bpmd/waveform"
)

// DemuxMatrix is a 4x4 demultiplexing matrix for one switch position.
type DemuxMatrix [4][4]int32

// PhaseEntry is a two-tap FIR coefficient pair, the on-FPGA
// representation of one complex compensation gain.
type PhaseEntry struct {
	A0, A1 int32
}

// MaxAttenuation bounds the whole-dB attenuator setting.
const MaxAttenuation = 62

// MaxSwitchSequence bounds the length of an installable switch
// rotation sequence.
const MaxSwitchSequence = 16

// Device is the hardware façade. All mutating methods must be called
// only while the caller holds the commit lock returned by Lock/Unlock;
// CommitDSC must be the last call in any mutating sequence.
type Device interface {
	// ReadIQ returns at most n IQ rows from the decimated turn-by-turn
	// stream starting at offset, decimated by the given factor (1 or
	// 64 per spec §6).
	ReadIQ(n, offset, decimation int) ([]waveform.IQRow, waveform.Timestamp, error)

	// ReadADC returns one fixed-size block of raw 4-channel ADC
	// samples.
	ReadADC() ([4096]int16, error)

	// ReadSA blocks until one slow-acquisition atom is available,
	// paced by the device at roughly 10 Hz.
	ReadSA() (waveform.ABCDRow, waveform.XYQSRow, waveform.Timestamp, error)

	// Lock acquires the commit lock. Mutating operations below are
	// only valid while held.
	Lock()
	// Unlock releases the commit lock acquired by Lock.
	Unlock()

	// WriteAttenuation writes the analog attenuator setting, clipped
	// to [0, MaxAttenuation].
	WriteAttenuation(valueDB int) error
	// WriteSwitchSequence installs a switch rotation sequence of
	// length 1..MaxSwitchSequence.
	WriteSwitchSequence(seq []int) error
	// WriteDemux installs a demultiplexing matrix for switch position
	// sw.
	WriteDemux(sw int, m DemuxMatrix) error
	// WritePhaseArray installs per-channel two-tap FIR coefficients
	// for switch position sw.
	WritePhaseArray(sw int, entries [4]PhaseEntry) error
	// CommitDSC atomically commits pending attenuator/switch/demux/
	// phase writes to the FPGA. Must be the last call of a mutating
	// sequence; all writes it commits are visible to hardware before
	// it returns.
	CommitDSC() error
}
