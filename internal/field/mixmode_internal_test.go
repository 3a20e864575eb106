package field

import (
	"math"
	"testing"
)

func TestGenRandIsPure(t *testing.T) {
	for _, seed := range []float64{0, 0.5, 1, 2.75, 100, 1e6} {
		a, b := genRand(seed), genRand(seed)
		if a != b {
			t.Errorf("genRand(%v) not repeatable: %v != %v", seed, a, b)
		}
		if a <= 0 || a >= 1 {
			t.Errorf("genRand(%v) = %v, want in (0, 1)", seed, a)
		}
		if neg := genRand(-seed); neg != a {
			t.Errorf("genRand(-%v) = %v, want %v", seed, neg, a)
		}
	}
}

func TestMixmodePhasesThreadSeed(t *testing.T) {
	phase := mixmodePhases(0.5)
	s := genRand(0.5)
	if want := math.Pi * (2*s - 1); phase[0] != want {
		t.Errorf("phase[0] = %v, want %v", phase[0], want)
	}
	s = genRand(s)
	if want := math.Pi * (2*s - 1); phase[1] != want {
		t.Errorf("phase[1] = %v, want %v", phase[1], want)
	}
}
