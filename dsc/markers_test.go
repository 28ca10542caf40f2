package dsc

import (
	"testing"

	"github.com/nasa-jpl/bpmd/waveform"
)

func TestFindSwitchMarkersCompleteWindow(t *testing.T) {
	const period, seqLen = 10, 4
	windowLen := period * seqLen
	rows := make([]waveform.IQRow, windowLen+5)
	rows[3].AI = 1 // first odd-I row marks a switch transition
	offset, ok := findSwitchMarkers(rows, period, seqLen)
	if !ok {
		t.Fatal("expected a complete window to be found")
	}
	if offset != 3 {
		t.Fatalf("offset = %d, want 3", offset)
	}
}

func TestFindSwitchMarkersIncompleteWindow(t *testing.T) {
	const period, seqLen = 10, 4
	windowLen := period * seqLen
	rows := make([]waveform.IQRow, windowLen-1)
	rows[0].AI = 1
	_, ok := findSwitchMarkers(rows, period, seqLen)
	if ok {
		t.Fatal("expected no complete window when rows is shorter than one cycle")
	}
}

func TestFindSwitchMarkersNoMarker(t *testing.T) {
	const period, seqLen = 10, 4
	rows := make([]waveform.IQRow, period*seqLen*3)
	_, ok := findSwitchMarkers(rows, period, seqLen)
	if ok {
		t.Fatal("expected no marker found when every AI is even")
	}
}
