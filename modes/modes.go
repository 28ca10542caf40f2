// Package modes provides the shared "arm, wait for trigger, capture N
// rows, publish" skeleton the out-of-scope mode consumers (first-turn,
// turn-by-turn, free-run) would each build on top of, without
// reimplementing any of the three modes themselves. It is grounded on
// firstTurn.cpp's FIRST_TURN::OnEvent: an I_EVENT handler that, on each
// trigger event, reads and converts a waveform and then tells
// downstream consumers there's stuff to read.
package modes

import (
	"sync"

	"github.com/nasa-jpl/bpmd/trigger"
	"github.com/nasa-jpl/bpmd/waveform"
)

// Reader captures up to n rows of the underlying source waveform,
// matching the read signatures dsc.IQReader and hwfacade.Device already
// use elsewhere.
type Reader[T any] func(n int) ([]T, waveform.Timestamp, error)

// Skeleton implements the capture half of a triggered mode: on each
// trigger event it reads a fixed-length window via Read, captures it
// into Buffer, and hands the buffer to Publish. A mode built on top of
// Skeleton supplies Read (how to get rows from the device) and Publish
// (what a fresh capture means to that mode); Skeleton itself never
// interprets the rows.
type Skeleton[T any] struct {
	Buffer  *waveform.Buffer[T]
	Length  int
	Read    Reader[T]
	Publish func(*waveform.Buffer[T])

	mu      sync.Mutex
	enabled bool
}

// NewSkeleton constructs a Skeleton with a fresh buffer of the given
// capacity and the given row reader.
func NewSkeleton[T any](capacity int, read Reader[T]) *Skeleton[T] {
	return &Skeleton[T]{
		Buffer: waveform.NewBuffer[T](capacity),
		Length: capacity,
		Read:   read,
	}
}

// Enable and Disable gate OnTrigger the way firstTurn.cpp's "Enable" PV
// gates OnEvent ("Ignore events if not enabled").
func (s *Skeleton[T]) Enable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = true
}

// Disable suppresses OnTrigger until the next Enable.
func (s *Skeleton[T]) Disable() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = false
}

// Enabled reports whether OnTrigger currently acts on events.
func (s *Skeleton[T]) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// OnTrigger is a trigger.Handler: read Length rows, capture them into
// Buffer, then hand the buffer to Publish if set. Register it against a
// trigger.Dispatcher at whatever priority the owning mode needs
// relative to the system's other triggered consumers.
func (s *Skeleton[T]) OnTrigger(trigger.Event) {
	if !s.Enabled() {
		return
	}
	rows, ts, err := s.Read(s.Length)
	if err != nil {
		return
	}
	if err := s.Buffer.Capture(rows, ts); err != nil {
		return
	}
	if s.Publish != nil {
		s.Publish(s.Buffer)
	}
}
