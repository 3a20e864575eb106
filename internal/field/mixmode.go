// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package field

import "math"

const (
	// MixmodeModes is the number of superposed modes.
	MixmodeModes = 14
	// DefaultMixmodeSeed seeds the phase table when none is given.
	DefaultMixmodeSeed = 0.5
)

// Mixmode superposes MixmodeModes cosines of its argument with phases
// drawn from a seed:
//
//	(1/14) * sum over i in [1, 14] of cos(i*arg + phase[i-1])
//
// The phase table is fixed when the node is bound.
type Mixmode struct {
	seed  float64
	arg   Generator
	phase [MixmodeModes]float64
}

// NewMixmode returns an unbound prototype with the given seed.
func NewMixmode(seed float64) *Mixmode {
	return &Mixmode{seed: seed}
}

// Seed returns the seed the phases derive from.
func (m *Mixmode) Seed() float64 { return m.seed }

// Phases returns the phase table, each entry in (-π, π).
func (m *Mixmode) Phases() [MixmodeModes]float64 { return m.phase }

func (m *Mixmode) Generate(ctx Context) float64 {
	v := m.arg.Generate(ctx)
	var result float64
	for i := 1; i <= MixmodeModes; i++ {
		result += math.Cos(float64(i)*v + m.phase[i-1])
	}
	return result / MixmodeModes
}

func (m *Mixmode) Bind(args []Generator) (Generator, error) {
	if err := checkArity("mixmode", args, 1, 1); err != nil {
		return nil, err
	}
	return &Mixmode{seed: m.seed, arg: args[0], phase: mixmodePhases(m.seed)}, nil
}

func (m *Mixmode) String() string {
	if m.arg == nil {
		return "mixmode()"
	}
	return "mixmode(" + m.arg.String() + ")"
}

func (m *Mixmode) Kind() Kind { return KindMixmode }
func (m *Mixmode) generator() {}

// mixmodePhases threads the seed through genRand, one draw per mode.
func mixmodePhases(seed float64) [MixmodeModes]float64 {
	var phase [MixmodeModes]float64
	s := seed
	for i := range phase {
		s = genRand(s)
		phase[i] = math.Pi * (2*s - 1)
	}
	return phase
}

// genRand maps seed to a value in (0, 1) by iterating the logistic map.
// It keeps no state: the same seed always gives the same value.
func genRand(seed float64) float64 {
	if seed < 0 {
		seed = -seed
	}
	niter := 11 + (23+int(math.Round(seed)))%79

	const a, b = 0.01, 1.23456789
	x := (a + math.Mod(seed, b)) / (b + 2*a)
	for i := 0; i < niter; i++ {
		x = 3.99 * x * (1 - x)
	}
	return x
}
