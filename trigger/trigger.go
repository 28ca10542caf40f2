// Package trigger implements the event fan-out of spec §4.7: handlers
// registered with a priority run in order on a single dispatch thread;
// long-running work is pushed onto a coalescing "latest value" slot so a
// slow consumer never backs up the dispatcher.
package trigger

import (
	"sort"
	"sync"
)

// Event is a hardware event identifier, matching the bitmask values of
// spec §6 (INTERLOCK, POSTMORTEM, TRIGGER_GET, TRIGGER_SET, ...).
type Event uint32

const (
	EventInterlock  Event = 1 << 3
	EventPostmortem Event = 1 << 4
	EventTriggerGet Event = 1 << 6
	EventTriggerSet Event = 1 << 7
)

// Handler is invoked on the dispatch thread; it must not block longer
// than the inter-event interval.
type Handler func(Event)

type registration struct {
	priority int
	handler  Handler
}

// Dispatcher serialises delivery of hardware events to registered
// handlers in priority order (lower first).
type Dispatcher struct {
	mu       sync.Mutex
	handlers map[Event][]registration
}

// NewDispatcher returns an empty Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[Event][]registration)}
}

// Register adds a handler for the given event at the given priority
// (lower runs first). Registration order breaks ties.
func (d *Dispatcher) Register(ev Event, priority int, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[ev] = append(d.handlers[ev], registration{priority: priority, handler: h})
	sort.SliceStable(d.handlers[ev], func(i, j int) bool {
		return d.handlers[ev][i].priority < d.handlers[ev][j].priority
	})
}

// Dispatch invokes every handler registered for ev, in priority order,
// on the calling goroutine. Callers run this from the single dispatch
// thread described in spec §5.
func (d *Dispatcher) Dispatch(ev Event) {
	d.mu.Lock()
	regs := append([]registration(nil), d.handlers[ev]...)
	d.mu.Unlock()
	for _, r := range regs {
		r.handler(ev)
	}
}

// LatestSlot is a single-entry coalescing handoff: Put overwrites
// whatever value is pending, and a slow worker that calls Take only
// ever sees the most recently Put value, never a queue. This is the
// "single-entry latest value slot" spec §4.7 and §5 describe for
// off-loading slow handler work from the dispatch thread.
type LatestSlot[T any] struct {
	mu      sync.Mutex
	cond    *sync.Cond
	hasItem bool
	item    T
}

// NewLatestSlot returns an empty LatestSlot.
func NewLatestSlot[T any]() *LatestSlot[T] {
	s := &LatestSlot[T]{}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Put stores v, overwriting any value not yet Taken, and wakes a
// blocked Take.
func (s *LatestSlot[T]) Put(v T) {
	s.mu.Lock()
	s.item = v
	s.hasItem = true
	s.mu.Unlock()
	s.cond.Signal()
}

// Take blocks until a value has been Put since the last Take, then
// returns it.
func (s *LatestSlot[T]) Take() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	for !s.hasItem {
		s.cond.Wait()
	}
	v := s.item
	s.hasItem = false
	return v
}
