package attenuator

import (
	"testing"

	"github.com/nasa-jpl/bpmd/numeric"
)

type fakeDSC struct {
	writes []int
}

func (f *fakeDSC) WriteAttenuation(valueDB int) error {
	f.writes = append(f.writes, valueDB)
	return nil
}

func TestSetSelectedClips(t *testing.T) {
	dsc := &fakeDSC{}
	m := New(dsc, nil)
	if err := m.SetSelected(1000); err != nil {
		t.Fatal(err)
	}
	if m.Selected() != 1000 {
		t.Fatalf("Selected() = %d, want 1000 (raw value, clip applies to effective)", m.Selected())
	}
	if len(dsc.writes) != 1 || dsc.writes[0] != 62 {
		t.Fatalf("writes = %v, want a single write of 62 (MaxAttenuation)", dsc.writes)
	}
}

func TestSetSelectedNoopWhenUnchanged(t *testing.T) {
	dsc := &fakeDSC{}
	m := New(dsc, nil)
	m.SetSelected(10)
	dsc.writes = nil
	m.SetSelected(10)
	if len(dsc.writes) != 0 {
		t.Fatalf("writes = %v, want none for an unchanged effective attenuation", dsc.writes)
	}
}

func TestAGCHysteresisStepsUp(t *testing.T) {
	dsc := &fakeDSC{}
	m := New(dsc, nil)
	m.AGCEnabled = true
	if err := m.OnMaxADC(int32(32768 * 9 / 10)); err != nil {
		t.Fatal(err)
	}
	if m.Selected() != 1 {
		t.Fatalf("Selected() = %d, want 1 after an above-threshold peak", m.Selected())
	}
}

func TestAGCHysteresisStepsDown(t *testing.T) {
	dsc := &fakeDSC{}
	m := New(dsc, nil)
	m.AGCEnabled = true
	m.SetSelected(10)
	if err := m.OnMaxADC(int32(32768 * 5 / 100)); err != nil {
		t.Fatal(err)
	}
	if m.Selected() != 9 {
		t.Fatalf("Selected() = %d, want 9 after a below-threshold peak", m.Selected())
	}
}

func TestAGCDeadbandNoChange(t *testing.T) {
	dsc := &fakeDSC{}
	m := New(dsc, nil)
	m.AGCEnabled = true
	m.SetSelected(10)
	dsc.writes = nil
	if err := m.OnMaxADC(int32(0.5 * 32768)); err != nil {
		t.Fatal(err)
	}
	if m.Selected() != 10 || len(dsc.writes) != 0 {
		t.Fatalf("deadband peak should not change attenuation, Selected()=%d writes=%v", m.Selected(), dsc.writes)
	}
}

func TestAGCDisabledNoOp(t *testing.T) {
	dsc := &fakeDSC{}
	m := New(dsc, nil)
	m.AGCEnabled = false
	if err := m.OnMaxADC(int32(32768 * 99 / 100)); err != nil {
		t.Fatal(err)
	}
	if m.Selected() != 0 {
		t.Fatalf("Selected() = %d, want 0 while AGC disabled", m.Selected())
	}
}

func TestComputeScaledCurrentUnityAtReference(t *testing.T) {
	dsc := &fakeDSC{}
	m := New(dsc, nil)
	m.SetSelected(20)
	m.A0 = m.Corrected() // corrected == A0 => 0dB gain => unity
	got := m.ComputeScaledCurrent(numeric.NewPMFP(1), 1000)
	if got < 990 || got > 1010 {
		t.Fatalf("ComputeScaledCurrent at reference attenuation = %d, want ~1000", got)
	}
}
