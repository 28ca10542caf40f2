// Package waveform provides the typed row-oriented buffers shared by the
// conversion pipeline and the DSC loop: IQ, ABCD and XYQS rows, each
// backed by a fixed-capacity, reused allocation with active-length
// tracking so a capture never needs to allocate on the hot path.
package waveform

import (
	"sync"
	"time"

	"github.com/nasa-jpl/bpmd/bpmerr"
)

// Timestamp carries the machine-time tick count alongside wall-clock
// time, matching the dual timestamp the hardware façade returns with
// every read.
type Timestamp struct {
	SystemTimeNS    int64
	MachineTimeTick uint64
}

// Now stamps the current wall-clock time with a zero machine tick. The
// simulated façade returns Now() from its reads as is, so its
// timestamps carry a zero MachineTimeTick.
func Now() Timestamp {
	return Timestamp{SystemTimeNS: time.Now().UnixNano()}
}

// IQRow is one in-phase/quadrature sample across all four buttons.
type IQRow struct {
	AI, AQ, BI, BQ, CI, CQ, DI, DQ int32
}

// ABCDRow is one button-intensity sample.
type ABCDRow struct {
	A, B, C, D int32
}

// XYQSRow is one computed position sample.
type XYQSRow struct {
	X, Y, Q, S int32
}

// Buffer is a generic fixed-capacity, reusable row buffer. It is not
// safe for concurrent use without external synchronisation beyond the
// Locked flag, which only protects against a concurrent Capture, not
// concurrent reads of Active.
type Buffer[T any] struct {
	mu           sync.Mutex
	data         []T
	activeLength int
	locked       bool
	timestamp    Timestamp
}

// NewBuffer allocates a buffer with the given maximum size.
func NewBuffer[T any](maxSize int) *Buffer[T] {
	return &Buffer[T]{data: make([]T, maxSize)}
}

// MaxSize returns the buffer's fixed capacity.
func (b *Buffer[T]) MaxSize() int {
	return len(b.data)
}

// ActiveLength returns the number of rows written by the most recent
// capture.
func (b *Buffer[T]) ActiveLength() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.activeLength
}

// Timestamp returns the timestamp recorded by the most recent capture.
func (b *Buffer[T]) Timestamp() Timestamp {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.timestamp
}

// Locked reports whether a consumer currently holds the buffer for
// reading, refusing new captures until Unlock is called.
func (b *Buffer[T]) Locked() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.locked
}

// Lock marks the buffer as being read by a mode consumer so a
// concurrent Capture is refused.
func (b *Buffer[T]) Lock() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.locked = true
}

// Unlock clears the read lock set by Lock.
func (b *Buffer[T]) Unlock() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.locked = false
}

// Active returns a view over the rows written by the most recent
// capture. The slice aliases the buffer's backing array and is only
// valid until the next Capture.
func (b *Buffer[T]) Active() []T {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.data[:b.activeLength]
}

// Capture copies rows into the buffer's backing array and resets the
// active length, refusing to do so if the buffer is locked for reading.
// len(rows) must not exceed MaxSize(); a longer slice is truncated and
// reported via bpmerr.Incomplete.
func (b *Buffer[T]) Capture(rows []T, ts Timestamp) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.locked {
		return bpmerr.New(bpmerr.SequenceError, "capture attempted on locked waveform buffer")
	}
	n := copy(b.data, rows)
	b.activeLength = n
	b.timestamp = ts
	if n < len(rows) {
		return bpmerr.New(bpmerr.Incomplete, "capture truncated to buffer capacity")
	}
	return nil
}

// IColumn returns the in-phase samples of one button (0-3 for AI-DI) in
// row order. The DSC loop does not call it: its digest reads both I and
// Q of every button directly from the rows.
func IColumn(rows []IQRow, button int) []int32 {
	out := make([]int32, len(rows))
	for i, r := range rows {
		switch button {
		case 0:
			out[i] = r.AI
		case 1:
			out[i] = r.BI
		case 2:
			out[i] = r.CI
		case 3:
			out[i] = r.DI
		}
	}
	return out
}
