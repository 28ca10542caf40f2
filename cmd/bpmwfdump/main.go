// Command bpmwfdump exports a captured waveform buffer to a FITS file,
// the same way generichttp/camera writes detector frames: build a
// fitsio.Image, append header cards, write the pixel data, close.
// Here the "image" is a 1-D or 2-D array of channel values with rows
// indexed by sample number rather than detector pixels.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/astrogo/fitsio"

	"github.com/nasa-jpl/bpmd/waveform"
)

func root() {
	str := `bpmwfdump exports a captured waveform buffer to FITS.

Usage:
	bpmwfdump <output.fits>

This build dumps a synthetic IQ buffer; wire a real buffer source
(shared memory segment, HTTP capture-get, etc.) by replacing
sampleBuffer below.`
	fmt.Println(str)
}

// sampleBuffer stands in for whatever buffer bpmd has most recently
// captured; a real deployment would read this from a shared memory
// segment or the diagnostics HTTP surface rather than synthesizing it.
func sampleBuffer() *waveform.Buffer[waveform.IQRow] {
	buf := waveform.NewBuffer[waveform.IQRow](2048)
	rows := make([]waveform.IQRow, 2048)
	for i := range rows {
		v := int32(i % 256)
		rows[i] = waveform.IQRow{AI: v, AQ: v, BI: v, BQ: v, CI: v, CQ: v, DI: v, DQ: v}
	}
	buf.Capture(rows, waveform.Now())
	return buf
}

func writeIQFits(w *os.File, buf *waveform.Buffer[waveform.IQRow]) error {
	rows := buf.Active()
	n := len(rows)
	if n == 0 {
		return fmt.Errorf("buffer is empty, nothing to dump")
	}

	cards := []fitsio.Card{
		{Name: "TELESCOP", Value: "BPM", Comment: "beam position monitor"},
		{Name: "NSAMPLE", Value: n, Comment: "samples in this capture"},
		{Name: "MACHTICK", Value: int64(buf.Timestamp().MachineTimeTick), Comment: "machine time tick at capture"},
	}

	fits, err := fitsio.Create(w)
	if err != nil {
		return err
	}
	defer fits.Close()

	// 8 columns (AI,AQ,BI,BQ,CI,CQ,DI,DQ) by n rows, one frame.
	dims := []int{8, n}
	im := fitsio.NewImage(32, dims)
	defer im.Close()
	if err := im.Header().Append(cards...); err != nil {
		return err
	}

	flat := make([]int32, 8*n)
	for i, r := range rows {
		flat[8*i+0] = r.AI
		flat[8*i+1] = r.AQ
		flat[8*i+2] = r.BI
		flat[8*i+3] = r.BQ
		flat[8*i+4] = r.CI
		flat[8*i+5] = r.CQ
		flat[8*i+6] = r.DI
		flat[8*i+7] = r.DQ
	}
	if err := im.Write(flat); err != nil {
		return err
	}
	return fits.Write(im)
}

func main() {
	args := os.Args
	if len(args) != 2 {
		root()
		return
	}
	f, err := os.Create(args[1])
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	buf := sampleBuffer()
	if err := writeIQFits(f, buf); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("wrote %s\n", args[1])
}
