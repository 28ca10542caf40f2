package dsc

// Permutation gives, for one switch setting, which RF channel currently
// carries button b, for b in {0=A,1=B,2=C,3=D}.
type Permutation [4]int

// Variant selects which hardware's switch topology is in effect.
type Variant int

const (
	Electron Variant = iota
	Brilliance
)

// ElectronSwitchSequence is the default 8-position switch rotation used
// by the Electron hardware variant.
var ElectronSwitchSequence = []int{3, 7, 15, 11, 0, 4, 12, 8}

// BrillianceSwitchSequence is the default 4-position switch rotation
// used by the Brilliance hardware variant.
var BrillianceSwitchSequence = []int{15, 0, 9, 6}

// ElectronPermutationLookup maps each of the 16 switch positions to the
// button->channel permutation it produces on Electron hardware.
var ElectronPermutationLookup = [16]Permutation{
	{3, 2, 1, 0}, {3, 1, 2, 0}, {0, 2, 1, 3}, {0, 1, 2, 3},
	{3, 2, 0, 1}, {3, 1, 0, 2}, {0, 2, 3, 1}, {0, 1, 3, 2},
	{2, 3, 1, 0}, {1, 3, 2, 0}, {2, 0, 1, 3}, {1, 0, 2, 3},
	{2, 3, 0, 1}, {1, 3, 0, 2}, {2, 0, 3, 1}, {1, 0, 3, 2},
}

// BrillancePermutationLookup is the Brilliance-hardware equivalent of
// ElectronPermutationLookup; the two variants wire their crossbar
// switches differently and so need entirely different tables.
var BrillancePermutationLookup = [16]Permutation{
	{2, 3, 0, 1}, {2, 0, 3, 1}, {3, 2, 0, 1}, {3, 0, 2, 1},
	{2, 3, 1, 0}, {2, 1, 3, 0}, {3, 2, 1, 0}, {3, 1, 2, 0},
	{1, 3, 0, 2}, {1, 0, 3, 2}, {1, 2, 0, 3}, {1, 0, 2, 3},
	{0, 3, 1, 2}, {0, 1, 3, 2}, {0, 2, 1, 3}, {0, 1, 2, 3},
}

// LookupFor returns the permutation table and default sequence for a
// hardware variant.
func LookupFor(v Variant) (table [16]Permutation, sequence []int) {
	if v == Brilliance {
		return BrillancePermutationLookup, append([]int(nil), BrillianceSwitchSequence...)
	}
	return ElectronPermutationLookup, append([]int(nil), ElectronSwitchSequence...)
}

// SwitchPeriod is the number of IQ samples the crossbar holds each
// switch position before advancing, matching the original hardware's
// fixed 40-sample dwell.
const SwitchPeriod = 40

// SwitchHoldoff is the number of samples immediately following a switch
// transition that are excluded from the digest, since the RF path has
// not settled yet.
const SwitchHoldoff = 6

// SampleSize is the default IQ waveform length read each DSC iteration.
const SampleSize = 2048
