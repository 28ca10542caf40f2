// Command gentables regenerates numeric/tables.go, the lookup tables that
// seed Reciprocal, Log2 and Exp2. It is not part of the runtime build; run
// it by hand (or via numeric's go:generate directive) after changing the
// table sizes or the formulas below, and commit the result.
package main

import (
	"fmt"
	"log"
	"math"
	"os"
)

func divideTable() [256]uint32 {
	var t [256]uint32
	for i := range t {
		// 8-bit offset of 2/d above 1, with d at the centre of bucket i.
		d := 1 + (float64(i)+0.5)/256
		t[i] = uint32(math.Round(512/d - 256))
	}
	return t
}

func log2Tables() (lut, lutNext [256]int32) {
	var full [257]int32
	for i := range full {
		v := 1 + float64(i)/256
		full[i] = int32(math.Round(math.Log2(v) * (1 << 27)))
	}
	for i := 0; i < 256; i++ {
		lut[i] = full[i]
		lutNext[i] = full[i+1]
	}
	return
}

func exp2Tables() (lut, lutNext [256]uint32) {
	var full [257]uint32
	for i := range full {
		f := float64(i) / 256
		full[i] = uint32(math.Round(math.Exp2(f) * (1 << 16)))
	}
	for i := 0; i < 256; i++ {
		lut[i] = full[i]
		lutNext[i] = full[i+1]
	}
	return
}

func writeU32(f *os.File, name string, t [256]uint32) {
	fmt.Fprintf(f, "var %s = [256]uint32{\n", name)
	for i, v := range t {
		if i%8 == 0 {
			fmt.Fprint(f, "\t")
		}
		fmt.Fprintf(f, "0x%08X, ", v)
		if i%8 == 7 {
			fmt.Fprint(f, "\n")
		}
	}
	fmt.Fprint(f, "}\n\n")
}

func writeI32(f *os.File, name string, t [256]int32) {
	fmt.Fprintf(f, "var %s = [256]int32{\n", name)
	for i, v := range t {
		if i%8 == 0 {
			fmt.Fprint(f, "\t")
		}
		fmt.Fprintf(f, "%d, ", v)
		if i%8 == 7 {
			fmt.Fprint(f, "\n")
		}
	}
	fmt.Fprint(f, "}\n\n")
}

func main() {
	f, err := os.Create("tables.go")
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	fmt.Fprint(f, "// Code generated by cmd/gentables from the formulas in cmd/gentables/main.go. DO NOT EDIT.\n\n")
	fmt.Fprint(f, "package numeric\n\n")

	writeU32(f, "divideLookup", divideTable())
	l, ln := log2Tables()
	writeI32(f, "log2Lookup", l)
	writeI32(f, "log2LookupNext", ln)
	e, en := exp2Tables()
	writeU32(f, "exp2Lookup", e)
	writeU32(f, "exp2LookupNext", en)
}
