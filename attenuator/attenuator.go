// Package attenuator implements the attenuator/AGC manager of spec §4.5:
// selected/corrected/effective attenuation tracking, a per-setting
// offset table, and AGC hysteresis driven by observed ADC peak.
package attenuator

import (
	"sync"

	"github.com/nasa-jpl/bpmd/hwfacade"
	"github.com/nasa-jpl/bpmd/numeric"
)

// DSCWriter is the subset of the DSC loop's command surface the
// attenuator manager needs: a coordinated attenuation write that holds
// off the interlock, writes the attenuator, resets the DSC IIR, and
// commits, all while holding the commit lock.
type DSCWriter interface {
	WriteAttenuation(valueDB int) error
}

// Store is the persistent-config subset the manager needs to load and
// save its state across restarts.
type Store interface {
	GetInt(key string, def int) int
	PutInt(key string, v int)
	GetIntSlice(key string) []int
	PutIntSlice(key string, v []int)
}

// Manager tracks selected/delta/corrected/effective attenuation and
// runs the AGC hysteresis loop.
type Manager struct {
	mu sync.Mutex

	selected int
	delta    int
	offsets  []int64 // dB*1e6, one per possible selected+delta value
	current  int64   // corrected dB*1e6, after offset lookup

	AGCEnabled                bool
	UpThresholdPercent        int
	DownThresholdPercent      int
	A0 int64 // reference attenuation, dB*1e6, used by compute_scaled_current

	dsc   DSCWriter
	store Store

	onChange func(selected int)
}

// New constructs a Manager with offsets sized for hwfacade.MaxAttenuation+1
// settings, all zero until loaded from the store or set explicitly.
func New(dsc DSCWriter, store Store) *Manager {
	m := &Manager{
		dsc:                  dsc,
		store:                store,
		offsets:              make([]int64, hwfacade.MaxAttenuation+1),
		UpThresholdPercent:   70,
		DownThresholdPercent: 20,
	}
	if store != nil {
		m.selected = store.GetInt("atten.selected", 0)
		m.delta = store.GetInt("atten.delta", 0)
		offs := store.GetIntSlice("atten.offsets")
		for i := 0; i < len(offs) && i < len(m.offsets); i++ {
			m.offsets[i] = int64(offs[i])
		}
	}
	m.recompute()
	return m
}

// OnChange registers a callback invoked with the new effective attenuation
// (selected+delta, clipped to [0, MaxAttenuation]) whenever it changes (spec's AttenuationChanged
// event).
func (m *Manager) OnChange(f func(selected int)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = f
}

func clip(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// recompute updates m.current from selected/delta/offsets. Caller must
// hold m.mu.
func (m *Manager) recompute() int {
	a := clip(m.selected+m.delta, 0, hwfacade.MaxAttenuation)
	m.current = int64(a)*1_000_000 + m.offsets[a]
	return a
}

// SetSelected clips a+delta to [0, MaxAttenuation]; a no-op if the
// resulting setting is unchanged, otherwise it recomputes corrected
// attenuation and issues a coordinated write through the DSC loop.
func (m *Manager) SetSelected(a int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	before := clip(m.selected+m.delta, 0, hwfacade.MaxAttenuation)
	m.selected = a
	after := m.recompute()
	if before == after {
		return nil
	}
	if m.store != nil {
		m.store.PutInt("atten.selected", m.selected)
	}
	if err := m.dsc.WriteAttenuation(after); err != nil {
		return err
	}
	if m.onChange != nil {
		m.onChange(after)
	}
	return nil
}

// SetDelta behaves like SetSelected but adjusts the delta term.
func (m *Manager) SetDelta(d int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	before := clip(m.selected+m.delta, 0, hwfacade.MaxAttenuation)
	m.delta = d
	after := m.recompute()
	if before == after {
		return nil
	}
	if m.store != nil {
		m.store.PutInt("atten.delta", m.delta)
	}
	if err := m.dsc.WriteAttenuation(after); err != nil {
		return err
	}
	if m.onChange != nil {
		m.onChange(after)
	}
	return nil
}

// SetOffsets replaces the per-setting offset table (dB*1e6) and
// recomputes corrected attenuation.
func (m *Manager) SetOffsets(offsetsDBe6 []int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := copy(m.offsets, offsetsDBe6)
	for i := n; i < len(m.offsets); i++ {
		m.offsets[i] = 0
	}
	m.recompute()
	if m.store != nil {
		ints := make([]int, len(m.offsets))
		for i, v := range m.offsets {
			ints[i] = int(v)
		}
		m.store.PutIntSlice("atten.offsets", ints)
	}
}

// Corrected returns the current corrected attenuation in dB*1e6.
func (m *Manager) Corrected() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Selected returns the current selected (pre-delta) attenuation in
// whole dB.
func (m *Manager) Selected() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selected
}

// OnMaxADC implements the AGC hysteresis: given the observed ADC peak
// (out of a 15-bit full scale of 32768), bump the selected attenuation
// up or down by one step when the percentage of full scale crosses the
// configured thresholds.
func (m *Manager) OnMaxADC(peak int32) error {
	m.mu.Lock()
	if !m.AGCEnabled {
		m.mu.Unlock()
		return nil
	}
	percent := int(100 * int64(peak) / 32768)
	step := 0
	switch {
	case percent >= m.UpThresholdPercent:
		step = 1
	case percent <= m.DownThresholdPercent:
		step = -1
	}
	m.mu.Unlock()
	if step == 0 {
		return nil
	}
	return m.SetSelected(m.Selected() + step)
}

// ComputeScaledCurrent implements spec §4.5's
// compute_scaled_current(intensity_scale, S) = denormalise(
// intensity_scale * 10^((corrected-A0)/20) * S).
func (m *Manager) ComputeScaledCurrent(intensityScale numeric.PMFP, s int32) uint32 {
	m.mu.Lock()
	// (corrected-A0) is dB*1e6; from_dB's argument convention is
	// 2e7*log10(ratio), and 10^((corrected-A0)/(20e6)) requires
	// exactly that argument to equal (corrected-A0) -- see DESIGN.md.
	dbArg := int32(m.current - m.A0)
	m.mu.Unlock()
	mant, shift := numeric.FromDB(dbArg)
	gain := numeric.PMFP{Value: mant, Shift: shift}
	scaled := intensityScale.Mul(gain).Mul(numeric.NewPMFP(uint32(s)))
	return scaled.Denormalise()
}
