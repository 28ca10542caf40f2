package interlock

import "testing"

func TestHoldoffRequiresDurationAndInWindow(t *testing.T) {
	m := New()
	m.SetWindow(Window{XLo: -10, XHi: 10, YLo: -10, YHi: 10})
	m.Enable()
	m.HoldoffInterlock()
	if m.State() != HoldingOff {
		t.Fatalf("state = %v, want HoldingOff", m.State())
	}

	// Outside the window: holdoff ticks down but never re-arms.
	for i := 0; i < DefaultHoldoffTicks+5; i++ {
		m.OnCurrentTick(100, 100, 0)
	}
	if m.State() != HoldingOff {
		t.Fatalf("state = %v, want still HoldingOff while never in window", m.State())
	}

	// Re-arm: enters the window once the duration has elapsed.
	m.OnCurrentTick(0, 0, 0)
	if m.State() != Enabled {
		t.Fatalf("state = %v, want Enabled after duration elapsed and in window", m.State())
	}
}

func TestTripsOutsideWindowAboveThreshold(t *testing.T) {
	m := New()
	m.SetWindow(Window{XLo: -10, XHi: 10, YLo: -10, YHi: 10})
	m.SetCurrentThreshold(50)
	m.Enable()

	m.OnCurrentTick(0, 0, 100)
	if m.State() != Enabled {
		t.Fatalf("state = %v, want Enabled while inside window", m.State())
	}

	m.OnCurrentTick(1000, 1000, 100)
	if m.State() != Tripped {
		t.Fatalf("state = %v, want Tripped outside window above threshold", m.State())
	}
}

func TestNoTripBelowThreshold(t *testing.T) {
	m := New()
	m.SetWindow(Window{XLo: -10, XHi: 10, YLo: -10, YHi: 10})
	m.SetCurrentThreshold(50)
	m.Enable()

	m.OnCurrentTick(1000, 1000, 10)
	if m.State() != Enabled {
		t.Fatalf("state = %v, want Enabled: current below threshold never trips", m.State())
	}
}

func TestCentreShiftsWindow(t *testing.T) {
	m := New()
	m.SetWindow(Window{XLo: -5, XHi: 5, YLo: -5, YHi: 5})
	m.SetCurrentThreshold(0)
	m.SetCentre(100, 100, 0, 0)
	m.Enable()

	m.OnCurrentTick(100, 100, 10)
	if m.State() != Enabled {
		t.Fatalf("state = %v, want Enabled at shifted centre", m.State())
	}

	m.OnCurrentTick(0, 0, 10)
	if m.State() != Tripped {
		t.Fatalf("state = %v, want Tripped away from shifted centre", m.State())
	}
}

func TestResetOnlyFromTripped(t *testing.T) {
	m := New()
	m.Enable()
	m.Reset()
	if m.State() != Enabled {
		t.Fatalf("Reset from Enabled should be a no-op, got %v", m.State())
	}
}

func TestReadyBlocksWhileTrippedAndClearsOnReset(t *testing.T) {
	m := New()
	m.SetWindow(Window{XLo: -10, XHi: 10, YLo: -10, YHi: 10})
	m.SetCurrentThreshold(50)
	m.Enable()

	select {
	case <-m.Ready():
	default:
		t.Fatal("Ready should not block before any trip")
	}

	m.OnCurrentTick(1000, 1000, 100)
	if m.State() != Tripped {
		t.Fatalf("state = %v, want Tripped", m.State())
	}
	select {
	case <-m.Ready():
		t.Fatal("Ready should block while Tripped")
	default:
	}

	m.Reset()
	select {
	case <-m.Ready():
	default:
		t.Fatal("Ready should unblock once Reset from Tripped")
	}
}

func TestReadyClearsOnDisable(t *testing.T) {
	m := New()
	m.SetWindow(Window{XLo: -10, XHi: 10, YLo: -10, YHi: 10})
	m.SetCurrentThreshold(50)
	m.Enable()
	m.OnCurrentTick(1000, 1000, 100)
	if m.State() != Tripped {
		t.Fatalf("state = %v, want Tripped", m.State())
	}
	m.Disable()
	select {
	case <-m.Ready():
	default:
		t.Fatal("Ready should unblock once Disabled")
	}
}
