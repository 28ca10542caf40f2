package modes

import (
	"testing"

	"github.com/nasa-jpl/bpmd/bpmerr"
	"github.com/nasa-jpl/bpmd/trigger"
	"github.com/nasa-jpl/bpmd/waveform"
)

func TestOnTriggerIgnoredWhenDisabled(t *testing.T) {
	calls := 0
	s := NewSkeleton[waveform.IQRow](4, func(n int) ([]waveform.IQRow, waveform.Timestamp, error) {
		calls++
		return make([]waveform.IQRow, n), waveform.Now(), nil
	})
	s.OnTrigger(trigger.EventTriggerGet)
	if calls != 0 {
		t.Fatal("OnTrigger should not read while disabled")
	}
}

func TestOnTriggerCapturesAndPublishes(t *testing.T) {
	published := false
	s := NewSkeleton[waveform.IQRow](4, func(n int) ([]waveform.IQRow, waveform.Timestamp, error) {
		return make([]waveform.IQRow, n), waveform.Now(), nil
	})
	s.Publish = func(b *waveform.Buffer[waveform.IQRow]) {
		published = true
		if b.ActiveLength() != 4 {
			t.Fatalf("ActiveLength = %d, want 4", b.ActiveLength())
		}
	}
	s.Enable()
	s.OnTrigger(trigger.EventTriggerGet)
	if !published {
		t.Fatal("expected Publish to be called after a successful capture")
	}
}

func TestOnTriggerSkipsPublishOnReadError(t *testing.T) {
	published := false
	s := NewSkeleton[waveform.IQRow](4, func(n int) ([]waveform.IQRow, waveform.Timestamp, error) {
		return nil, waveform.Timestamp{}, bpmerr.New(bpmerr.DeviceUnavailable, "no data")
	})
	s.Publish = func(*waveform.Buffer[waveform.IQRow]) { published = true }
	s.Enable()
	s.OnTrigger(trigger.EventTriggerGet)
	if published {
		t.Fatal("Publish should not run after a failed read")
	}
}

func TestOnTriggerSkipsPublishWhenBufferLocked(t *testing.T) {
	published := false
	s := NewSkeleton[waveform.IQRow](4, func(n int) ([]waveform.IQRow, waveform.Timestamp, error) {
		return make([]waveform.IQRow, n), waveform.Now(), nil
	})
	s.Publish = func(*waveform.Buffer[waveform.IQRow]) { published = true }
	s.Buffer.Lock()
	s.Enable()
	s.OnTrigger(trigger.EventTriggerGet)
	if published {
		t.Fatal("Publish should not run when the buffer is locked")
	}
}
