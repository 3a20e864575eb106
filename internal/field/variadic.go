// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package field

import (
	"math"
	"strings"
)

func renderCall(name string, args []Generator) string {
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(a.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// Atan is the one-argument arctangent, or atan2(a, b) with two.
type Atan struct {
	args []Generator
}

// NewAtan returns an unbound atan prototype.
func NewAtan() *Atan { return &Atan{} }

func (a *Atan) Generate(ctx Context) float64 {
	y := a.args[0].Generate(ctx)
	if len(a.args) == 1 {
		return math.Atan(y)
	}
	return math.Atan2(y, a.args[1].Generate(ctx))
}

func (a *Atan) Bind(args []Generator) (Generator, error) {
	if err := checkArity("atan", args, 1, 2); err != nil {
		return nil, err
	}
	return &Atan{args: copyArgs(args)}, nil
}

func (a *Atan) String() string { return renderCall("atan", a.args) }
func (a *Atan) Kind() Kind     { return KindAtan }
func (a *Atan) generator()     {}

// Min returns the smallest of its children.
//
// Children are compared left to right with <, so a NaN in first position
// is returned and a NaN anywhere else is skipped.
type Min struct {
	args []Generator
}

// NewMin returns an unbound min prototype.
func NewMin() *Min { return &Min{} }

func (m *Min) Generate(ctx Context) float64 {
	result := m.args[0].Generate(ctx)
	for _, arg := range m.args[1:] {
		if v := arg.Generate(ctx); v < result {
			result = v
		}
	}
	return result
}

func (m *Min) Bind(args []Generator) (Generator, error) {
	if err := checkArity("min", args, 1, -1); err != nil {
		return nil, err
	}
	return &Min{args: copyArgs(args)}, nil
}

func (m *Min) String() string { return renderCall("min", m.args) }
func (m *Min) Kind() Kind     { return KindMin }
func (m *Min) generator()     {}

// Max returns the largest of its children. NaN handling matches Min.
type Max struct {
	args []Generator
}

// NewMax returns an unbound max prototype.
func NewMax() *Max { return &Max{} }

func (m *Max) Generate(ctx Context) float64 {
	result := m.args[0].Generate(ctx)
	for _, arg := range m.args[1:] {
		if v := arg.Generate(ctx); v > result {
			result = v
		}
	}
	return result
}

func (m *Max) Bind(args []Generator) (Generator, error) {
	if err := checkArity("max", args, 1, -1); err != nil {
		return nil, err
	}
	return &Max{args: copyArgs(args)}, nil
}

func (m *Max) String() string { return renderCall("max", m.args) }
func (m *Max) Kind() Kind     { return KindMax }
func (m *Max) generator()     {}

// Round rounds half away from zero: round(2.5) = 3, round(-2.5) = -3.
type Round struct {
	arg Generator
}

// NewRound returns an unbound round prototype.
func NewRound() *Round { return &Round{} }

func (r *Round) Generate(ctx Context) float64 {
	v := r.arg.Generate(ctx)
	if v >= 0 {
		return math.Trunc(v + 0.5)
	}
	return math.Trunc(v - 0.5)
}

func (r *Round) Bind(args []Generator) (Generator, error) {
	if err := checkArity("round", args, 1, 1); err != nil {
		return nil, err
	}
	return &Round{arg: args[0]}, nil
}

func (r *Round) String() string {
	if r.arg == nil {
		return "round()"
	}
	return "round(" + r.arg.String() + ")"
}

func (r *Round) Kind() Kind { return KindRound }
func (r *Round) generator() {}

// TanhHat is a smoothed top hat
//
//	0.5*(tanh(s*(x-(c-w/2))) - tanh(s*(x-(c+w/2))))
//
// with children (x, w, c, s) in that order.
type TanhHat struct {
	x, width, center, steepness Generator
}

// NewTanhHat returns an unbound tanhhat prototype.
func NewTanhHat() *TanhHat { return &TanhHat{} }

func (h *TanhHat) Generate(ctx Context) float64 {
	x := h.x.Generate(ctx)
	w := h.width.Generate(ctx)
	c := h.center.Generate(ctx)
	s := h.steepness.Generate(ctx)
	return 0.5 * (math.Tanh(s*(x-(c-0.5*w))) - math.Tanh(s*(x-(c+0.5*w))))
}

func (h *TanhHat) Bind(args []Generator) (Generator, error) {
	if err := checkArity("tanhhat", args, 4, 4); err != nil {
		return nil, err
	}
	return &TanhHat{x: args[0], width: args[1], center: args[2], steepness: args[3]}, nil
}

func (h *TanhHat) String() string {
	if h.x == nil {
		return "tanhhat()"
	}
	return renderCall("tanhhat", []Generator{h.x, h.width, h.center, h.steepness})
}

func (h *TanhHat) Kind() Kind { return KindTanhHat }
func (h *TanhHat) generator() {}

// Gaussian is the normal density of x with width s (default 1).
type Gaussian struct {
	x, s Generator
}

// NewGaussian returns an unbound gauss prototype.
func NewGaussian() *Gaussian { return &Gaussian{} }

func (g *Gaussian) Generate(ctx Context) float64 {
	x := g.x.Generate(ctx)
	s := 1.0
	if g.s != nil {
		s = g.s.Generate(ctx)
	}
	return math.Exp(-x*x/(2*s*s)) / (math.Sqrt(2*math.Pi) * s)
}

func (g *Gaussian) Bind(args []Generator) (Generator, error) {
	if err := checkArity("gauss", args, 1, 2); err != nil {
		return nil, err
	}
	out := &Gaussian{x: args[0]}
	if len(args) == 2 {
		out.s = args[1]
	}
	return out, nil
}

func (g *Gaussian) String() string {
	switch {
	case g.x == nil:
		return "gauss()"
	case g.s == nil:
		return renderCall("gauss", []Generator{g.x})
	}
	return renderCall("gauss", []Generator{g.x, g.s})
}

func (g *Gaussian) Kind() Kind { return KindGaussian }
func (g *Gaussian) generator() {}
