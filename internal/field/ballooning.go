// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package field

import "math"

// DefaultBallooningTerms is the number of copies summed on each side.
const DefaultBallooningTerms = 3

// Ballooning folds an expression given in an unrolled poloidal angle back
// into a doubly periodic domain with a truncated ballooning sum:
//
//	sum over k in [-n, n] of f(x, y + 2πk, z - k*shift(x), t)
//
// Open flux surfaces evaluate to 0. Without metadata the result is NaN.
type Ballooning struct {
	meta Metadata
	arg  Generator
	n    int
}

// NewBallooning returns an unbound prototype summing 2n+1 copies.
// meta may be nil, in which case the evaluation Context's Mesh is used.
// n below zero is treated as zero.
func NewBallooning(meta Metadata, n int) *Ballooning {
	if n < 0 {
		n = 0
	}
	return &Ballooning{meta: meta, n: n}
}

// Terms returns n.
func (b *Ballooning) Terms() int { return b.n }

func (b *Ballooning) Generate(ctx Context) float64 {
	meta := b.meta
	if meta == nil {
		meta = ctx.Mesh
	}
	if meta == nil {
		return math.NaN()
	}
	shift, periodic := meta.PeriodicShift(ctx.X)
	if !periodic {
		return 0
	}
	var value float64
	for k := -b.n; k <= b.n; k++ {
		fk := float64(k)
		value += b.arg.Generate(ctx.Shifted(fk*2*math.Pi, -fk*shift))
	}
	return value
}

func (b *Ballooning) Bind(args []Generator) (Generator, error) {
	if err := checkArity("ballooning", args, 1, 1); err != nil {
		return nil, err
	}
	return &Ballooning{meta: b.meta, arg: args[0], n: b.n}, nil
}

func (b *Ballooning) String() string {
	if b.arg == nil {
		return "ballooning()"
	}
	return "ballooning(" + b.arg.String() + ")"
}

func (b *Ballooning) Kind() Kind { return KindBallooning }
func (b *Ballooning) generator() {}
