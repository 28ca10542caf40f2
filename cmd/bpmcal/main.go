// Command bpmcal drives a bench calibration sweep against a reference
// attenuator (hwfacade/calref) and writes the sweep's mean attenuation
// error to the persistent store, the way a factory test fixture
// would be run interactively from a terminal. Progress is reported with
// a spinner from github.com/theckman/yacspin, the pack's terminal
// progress-indicator dependency.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/google/gousb"
	"github.com/theckman/yacspin"

	"github.com/nasa-jpl/bpmd/hwfacade/calref"
	"github.com/nasa-jpl/bpmd/store"
)

func root() {
	str := `bpmcal runs a bench calibration sweep against a reference
attenuator and records the result to the BPM's persistent store.

Usage:
	bpmcal serial <device> <baud> <storepath>
	bpmcal usb <vid> <pid> <storepath>

Both forms step the reference attenuator from 0dB to hwfacade.MaxAttenuation
(62dB) in 1dB steps, reading back the reported attenuation at each step and
recording the mean error, in thousandths of a dB, to the store under
"cal.meanerrordb.x1000".`
	fmt.Println(str)
}

func newSpinner() *yacspin.Spinner {
	cfg := yacspin.Config{
		Frequency:       100 * time.Millisecond,
		CharSet:         yacspin.CharSets[9],
		Suffix:          " calibration sweep",
		SuffixAutoColon: true,
		StopCharacter:   "✓",
		StopColors:      []string{"fgGreen"},
	}
	s, err := yacspin.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	return s
}

// sweep steps ref from 0 to maxDB inclusive in 1dB steps, returning the
// mean absolute error in dB between commanded and reported attenuation.
func sweep(ref calref.Reference, maxDB int, spin *yacspin.Spinner) (float64, error) {
	var sumAbsErr float64
	steps := 0
	for db := 0; db <= maxDB; db++ {
		spin.Message(fmt.Sprintf("step %d/%d dB", db, maxDB))
		if err := ref.SetAttenuationDB(float64(db)); err != nil {
			return 0, fmt.Errorf("setting reference to %ddB: %w", db, err)
		}
		time.Sleep(50 * time.Millisecond) // settle time
		got, err := ref.AttenuationDB()
		if err != nil {
			return 0, fmt.Errorf("reading reference at %ddB: %w", db, err)
		}
		errdb := got - float64(db)
		if errdb < 0 {
			errdb = -errdb
		}
		sumAbsErr += errdb
		steps++
	}
	if steps == 0 {
		return 0, fmt.Errorf("sweep range was empty")
	}
	return sumAbsErr / float64(steps), nil
}

func runSweep(ref calref.Reference, storepath string) {
	spin := newSpinner()
	if err := spin.Start(); err != nil {
		log.Fatal(err)
	}
	defer ref.Close()

	const maxAttenuationDB = 62 // hwfacade.MaxAttenuation
	meanErr, err := sweep(ref, maxAttenuationDB, spin)
	if err != nil {
		spin.StopFailMessage(err.Error())
		spin.StopFail()
		log.Fatal(err)
	}
	spin.StopMessage(fmt.Sprintf("mean abs error %.3f dB", meanErr))
	spin.Stop()

	st, err := store.Open(storepath)
	if err != nil {
		log.Fatal(err)
	}
	st.PutInt("cal.meanerrordb.x1000", int(meanErr*1000))
	fmt.Printf("recorded mean error %.3f dB to %s\n", meanErr, storepath)
}

func main() {
	args := os.Args
	if len(args) < 2 {
		root()
		return
	}
	switch args[1] {
	case "serial":
		if len(args) != 5 {
			root()
			return
		}
		baud, err := strconv.Atoi(args[3])
		if err != nil {
			log.Fatal(err)
		}
		ref, err := calref.OpenSerial(args[2], baud)
		if err != nil {
			log.Fatal(err)
		}
		runSweep(ref, args[4])
	case "usb":
		if len(args) != 5 {
			root()
			return
		}
		vid, err := strconv.ParseUint(args[2], 16, 16)
		if err != nil {
			log.Fatal(err)
		}
		pid, err := strconv.ParseUint(args[3], 16, 16)
		if err != nil {
			log.Fatal(err)
		}
		ref, err := calref.OpenUSB(gousb.ID(vid), gousb.ID(pid))
		if err != nil {
			log.Fatal(err)
		}
		runSweep(ref, args[4])
	default:
		root()
	}
}
