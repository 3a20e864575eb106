// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package mesh provides geometric metadata for the ballooning transform.
package mesh

import (
	"math"

	"nickandperla.net/fieldgen/internal/config"
	"nickandperla.net/fieldgen/internal/field"
)

// Slab is a sheared slab whose field lines twist by
//
//	ts(x) = Shift + Shear*(x - XCentre)
//
// radians of toroidal angle per poloidal turn. Flux surfaces inside
// [PeriodicXMin, PeriodicXMax] are closed; the rest are open.
type Slab struct {
	Shift        float64
	Shear        float64
	XCentre      float64
	PeriodicXMin float64
	PeriodicXMax float64
	// ZLength is the toroidal length that z in [0, 2π) spans.
	ZLength float64
}

var _ field.Metadata = (*Slab)(nil)

// NewSlab returns a slab with a uniform twist over the closed region
// 0 <= x <= 1 and a full 2π toroidal domain.
func NewSlab(shift float64) *Slab {
	return &Slab{
		Shift:        shift,
		XCentre:      0.5,
		PeriodicXMax: 1,
		ZLength:      2 * math.Pi,
	}
}

// FromConfig builds a Slab from the mesh section of a config file.
func FromConfig(c config.Mesh) *Slab {
	return &Slab{
		Shift:        c.Shift,
		Shear:        c.Shear,
		XCentre:      c.XCentre,
		PeriodicXMin: c.PeriodicXMin,
		PeriodicXMax: c.PeriodicXMax,
		ZLength:      c.ZLength,
	}
}

// ShiftAngle returns ts(x) in radians.
func (s *Slab) ShiftAngle(x float64) float64 {
	return s.Shift + s.Shear*(x-s.XCentre)
}

// PeriodicShift returns the twist-shift in normalized z units.
func (s *Slab) PeriodicShift(x float64) (float64, bool) {
	if x < s.PeriodicXMin || x > s.PeriodicXMax {
		return 0, false
	}
	zlength := s.ZLength
	if zlength <= 0 {
		zlength = 2 * math.Pi
	}
	return s.ShiftAngle(x) * 2 * math.Pi / zlength, true
}
