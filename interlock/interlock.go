// Package interlock implements the position-window safety state machine
// of spec §4.6: holdoff timer, current threshold, window evaluation and
// trip latch.
package interlock

import "sync"

// State is one of the four interlock states.
type State int

const (
	Disabled State = iota
	Enabled
	HoldingOff
	Tripped
)

func (s State) String() string {
	switch s {
	case Disabled:
		return "Disabled"
	case Enabled:
		return "Enabled"
	case HoldingOff:
		return "HoldingOff"
	case Tripped:
		return "Tripped"
	default:
		return "Unknown"
	}
}

// DefaultHoldoffTicks is the default holdoff duration, 1 s at the 10 Hz
// SA tick rate.
const DefaultHoldoffTicks = 10

// Window is the position window the beam must stay inside, expressed as
// offsets from the window centre's own offset pair (bcd + golden) per
// spec §4.6.
type Window struct {
	XLo, XHi, YLo, YHi int32
}

// Machine is the interlock state machine. OnCurrentTick is called by
// the SA worker once per SA sample.
type Machine struct {
	mu sync.Mutex

	state   State
	window  Window
	currentThreshold int32

	holdoffTicksRemaining int
	holdoffDuration       int
	inWindowTicks         int

	bcdX, bcdY     int32
	goldenX, goldenY int32

	// readyCh is closed whenever the machine is not Tripped, and swapped
	// for a fresh, open channel for the duration of a trip. The DSC loop
	// waits on Ready() at spec §4.3 step 2 before starting a new
	// compensation cycle: there is no point computing and committing a
	// new compensation matrix while the interlock has already latched a
	// trip against the last one.
	readyCh chan struct{}
}

// New constructs a disabled Machine with the default holdoff duration.
func New() *Machine {
	return &Machine{
		state:           Disabled,
		holdoffDuration: DefaultHoldoffTicks,
		readyCh:         closedChan(),
	}
}

func closedChan() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

// call with m.mu held
func (m *Machine) blockReady() {
	select {
	case <-m.readyCh:
		m.readyCh = make(chan struct{})
	default:
	}
}

// call with m.mu held
func (m *Machine) unblockReady() {
	select {
	case <-m.readyCh:
	default:
		close(m.readyCh)
	}
}

// Ready returns a channel that is closed except while the machine is
// Tripped, satisfying dsc.InterlockGate.
func (m *Machine) Ready() <-chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.readyCh
}

// SetWindow sets the position window evaluated against X-centre, Y-centre.
func (m *Machine) SetWindow(w Window) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.window = w
}

// SetCurrentThreshold sets the beam-current threshold above which the
// position window is enforced.
func (m *Machine) SetCurrentThreshold(t int32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentThreshold = t
}

// SetCentre sets the BCD (beam-current-dependent) offset and golden
// orbit offset that together define the window centre, per spec §4.6:
// "window centre is (bcd_x+golden_x, bcd_y+golden_y)".
func (m *Machine) SetCentre(bcdX, bcdY, goldenX, goldenY int32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bcdX, m.bcdY = bcdX, bcdY
	m.goldenX, m.goldenY = goldenX, goldenY
}

// Enable transitions Disabled -> Enabled.
func (m *Machine) Enable() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Disabled {
		m.state = Enabled
	}
}

// Disable forces the machine back to Disabled from any state, clearing
// any latched trip's readiness gate so the DSC loop is never left
// blocked on a disabled interlock.
func (m *Machine) Disable() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = Disabled
	m.unblockReady()
}

// Reset transitions Tripped -> Enabled on an explicit reset command.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Tripped {
		m.state = Enabled
		m.unblockReady()
	}
}

// HoldoffInterlock arms the holdoff timer from any state, per spec
// §4.6: "Any -> HoldingOff". While holding off, no trip can be latched.
func (m *Machine) HoldoffInterlock() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = HoldingOff
	m.holdoffTicksRemaining = m.holdoffDuration
	m.inWindowTicks = 0
	m.unblockReady()
}

func (m *Machine) inWindow(x, y int32) bool {
	cx := m.bcdX + m.goldenX
	cy := m.bcdY + m.goldenY
	dx, dy := x-cx, y-cy
	return dx >= m.window.XLo && dx <= m.window.XHi && dy >= m.window.YLo && dy <= m.window.YHi
}

// OnCurrentTick is called once per SA sample with the latest position
// and beam current. It advances the holdoff timer and evaluates the
// trip condition.
func (m *Machine) OnCurrentTick(x, y, current int32) {
	m.mu.Lock()
	defer m.mu.Unlock()

	inWin := m.inWindow(x, y)

	switch m.state {
	case HoldingOff:
		if inWin {
			m.inWindowTicks++
		} else {
			m.inWindowTicks = 0
		}
		if m.holdoffTicksRemaining > 0 {
			m.holdoffTicksRemaining--
		}
		if m.holdoffTicksRemaining == 0 && m.inWindowTicks >= 1 {
			m.state = Enabled
		}
	case Enabled:
		if current > m.currentThreshold && !inWin {
			m.state = Tripped
			m.blockReady()
		}
	}
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}
