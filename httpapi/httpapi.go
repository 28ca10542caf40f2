// Package httpapi is the read-only diagnostics HTTP surface (spec
// SPEC_FULL.md §2.13): BPM status, DSC state and interlock state, for
// operators and monitoring — never the PV export layer itself, which
// spec §1 places out of scope. Built the way generichttp wires its
// capability-pattern adapters, with goji.io and goji.io/pat.
package httpapi

import (
	"encoding/json"
	"net/http"

	"goji.io"
	"goji.io/pat"

	"github.com/nasa-jpl/bpmd/dsc"
	"github.com/nasa-jpl/bpmd/interlock"
	"github.com/nasa-jpl/bpmd/waveform"
)

// DSCState is the subset of the DSC loop exposed over HTTP.
type DSCState interface {
	Status() dsc.Status
	OverflowCounts() [4]uint32
	SamplePosition() (waveform.XYQSRow, error)
}

// InterlockState is the subset of the interlock machine exposed over
// HTTP.
type InterlockState interface {
	State() interlock.State
}

// Handler bundles the loops' read-only accessors behind a goji mux.
type Handler struct {
	DSC       DSCState
	Interlock InterlockState
}

// Mux builds a *goji.Mux serving /status, /dsc/state and
// /interlock/state under the handler's registered patterns.
func (h *Handler) Mux() *goji.Mux {
	mux := goji.NewMux()
	mux.HandleFunc(pat.Get("/status"), h.status)
	mux.HandleFunc(pat.Get("/dsc/state"), h.dscState)
	mux.HandleFunc(pat.Get("/interlock/state"), h.interlockState)
	mux.HandleFunc(pat.Get("/position/raw"), h.positionRaw)
	return mux
}

type statusPayload struct {
	DSCStatus      string    `json:"dscStatus"`
	InterlockState string    `json:"interlockState"`
	Overflow       [4]uint32 `json:"overflowCounts"`
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	p := statusPayload{}
	if h.DSC != nil {
		p.DSCStatus = h.DSC.Status().String()
		p.Overflow = h.DSC.OverflowCounts()
	}
	if h.Interlock != nil {
		p.InterlockState = h.Interlock.State().String()
	}
	writeJSON(w, p)
}

func (h *Handler) dscState(w http.ResponseWriter, r *http.Request) {
	if h.DSC == nil {
		http.Error(w, "dsc loop not wired", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, struct {
		Status   string    `json:"status"`
		Overflow [4]uint32 `json:"overflowCounts"`
	}{h.DSC.Status().String(), h.DSC.OverflowCounts()})
}

func (h *Handler) interlockState(w http.ResponseWriter, r *http.Request) {
	if h.Interlock == nil {
		http.Error(w, "interlock not wired", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, struct {
		State string `json:"state"`
	}{h.Interlock.State().String()})
}

// positionRaw serves a position derived straight from a fresh raw IQ
// sample, as a cross-check against the FPGA's own SA readout (which the
// fast DSC/SA paths use and never goes through this HTTP surface).
func (h *Handler) positionRaw(w http.ResponseWriter, r *http.Request) {
	if h.DSC == nil {
		http.Error(w, "dsc loop not wired", http.StatusServiceUnavailable)
		return
	}
	xyqs, err := h.DSC.SamplePosition()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, xyqs)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}
