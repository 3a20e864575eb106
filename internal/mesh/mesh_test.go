package mesh

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"nickandperla.net/fieldgen/internal/config"
)

func TestSlabUniformShift(t *testing.T) {
	s := NewSlab(0.4)
	shift, ok := s.PeriodicShift(0.25)
	assert.True(t, ok)
	assert.InDelta(t, 0.4, shift, 1e-15)
}

func TestSlabShear(t *testing.T) {
	s := &Slab{Shift: 1, Shear: 2, XCentre: 0.5, PeriodicXMax: 1, ZLength: math.Pi}
	shift, ok := s.PeriodicShift(0.75)
	assert.True(t, ok)
	// ts = 1 + 2*0.25 = 1.5, scaled by 2π/π.
	assert.InDelta(t, 3.0, shift, 1e-12)
	assert.InDelta(t, 0.0, s.ShiftAngle(0), 1e-15)
}

func TestSlabOpenSurfaces(t *testing.T) {
	s := &Slab{PeriodicXMin: 0.2, PeriodicXMax: 0.6, ZLength: 2 * math.Pi}
	for _, x := range []float64{0.1, 0.61, 1} {
		_, ok := s.PeriodicShift(x)
		assert.False(t, ok, "x=%v", x)
	}
	for _, x := range []float64{0.2, 0.4, 0.6} {
		_, ok := s.PeriodicShift(x)
		assert.True(t, ok, "x=%v", x)
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default().Mesh
	cfg.Shift = 0.9
	s := FromConfig(cfg)
	shift, ok := s.PeriodicShift(0.5)
	assert.True(t, ok)
	assert.InDelta(t, 0.9, shift, 1e-15)
}
