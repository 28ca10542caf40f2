package numeric

import (
	"math"
	"math/rand"
	"testing"
)

func TestReciprocalPrecision(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 2000; i++ {
		d := rng.Uint32()
		if d == 0 {
			continue
		}
		inv, shift := Reciprocal(d)
		got := float64(inv) * math.Pow(2, float64(-shift))
		want := 1.0 / float64(d)
		if relErr(got, want) > 1e-8 {
			t.Fatalf("Reciprocal(%d) = %d,%d => %g, want %g", d, inv, shift, got, want)
		}
	}
}

func TestReciprocalZero(t *testing.T) {
	inv, shift := Reciprocal(0)
	if inv != 0xFFFFFFFF || shift != 0 {
		t.Fatalf("Reciprocal(0) = %d,%d, want saturated", inv, shift)
	}
}

func TestCordicMagnitudeProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	var worst float64
	for i := 0; i < 20000; i++ {
		x := int32(rng.Intn(1<<30) - 1<<29)
		y := int32(rng.Intn(1<<30) - 1<<29)
		if x == 0 && y == 0 {
			continue
		}
		got := CordicMagnitude(x, y)
		want := CordicGain * math.Hypot(float64(x), float64(y)) / 2
		e := relErr(float64(got), want)
		if e > worst {
			worst = e
		}
	}
	if worst > 1e-5 {
		t.Fatalf("worst relative error %g exceeds tolerance", worst)
	}
}

func TestCordicMagnitudeAxisAligned(t *testing.T) {
	// A regression check for the sign-handling bug fixed during
	// development: negative x with y=0 must not blow up.
	for _, x := range []int32{-1000000, 1000000, -1, 1} {
		got := CordicMagnitude(x, 0)
		want := CordicGain * math.Abs(float64(x)) / 2
		if math.Abs(float64(got)*2/CordicGain-math.Abs(float64(x))) > 2 {
			t.Fatalf("CordicMagnitude(%d,0) = %d, want ~%g", x, got, want)
		}
	}
}

func TestLog2Exp2RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 2000; i++ {
		x := rng.Uint32()>>1 + 1
		l := Log2(x)
		mantissa, shift := Exp2(l)
		// Log2 reads x as 16.16 and Exp2 returns 2^v, so undo the 2^16.
		got := Denormalise(mantissa, shift-16)
		if relErr(float64(got), float64(x)) > 1e-3 {
			t.Fatalf("round trip for x=%d: Log2=%d Exp2=(%d,%d) Denormalise=%d", x, l, mantissa, shift, got)
		}
	}
}

func TestToDBFromDBRoundTrip(t *testing.T) {
	for _, x := range []uint32{1, 2, 10, 1000, 1 << 16, 1 << 24} {
		db := ToDB(x)
		mantissa, shift := FromDB(db)
		got := float64(mantissa) * math.Pow(2, float64(-shift))
		if relErr(got, float64(x)) > 1e-3 {
			t.Fatalf("ToDB/FromDB round trip for x=%d: db=%d got=%g", x, db, got)
		}
	}
}

func TestPMFPMul(t *testing.T) {
	p := NewPMFP(2)
	q := NewPMFP(3)
	r := p.Mul(q)
	if r.Denormalise() != 6 {
		t.Fatalf("PMFP{2}.Mul(PMFP{3}) = %d, want 6", r.Denormalise())
	}
}

func TestPMFPDiv(t *testing.T) {
	p := NewPMFP(100)
	q := NewPMFP(4)
	r := p.Div(q)
	got := r.Denormalise()
	if relErr(float64(got), 25) > 1e-6 {
		t.Fatalf("PMFP{100}.Div(PMFP{4}) = %d, want ~25", got)
	}
}

func relErr(got, want float64) float64 {
	if want == 0 {
		return math.Abs(got)
	}
	return math.Abs(got-want) / math.Abs(want)
}
