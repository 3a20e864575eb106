// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package field defines the generator nodes that evaluate analytic
// functions of position and time.
//
// A tree is built bottom-up by binding prototypes to their children, and
// is immutable once bound. Evaluation is a pure function of the tree and
// the Context, so a single tree may be evaluated from many goroutines.
package field

import "fmt"

// Metadata supplies domain topology to nodes that need it.
type Metadata interface {
	// PeriodicShift returns the twist-shift applied to z when y wraps once
	// around the flux surface at x. The boolean is false for open surfaces.
	PeriodicShift(x float64) (shift float64, periodic bool)
}

// Context is the point at which a tree is evaluated.
type Context struct {
	X, Y, Z float64
	T       float64
	// Mesh is consulted only by nodes that need topology (ballooning).
	Mesh Metadata
}

// At returns a Context at the given coordinates.
func At(x, y, z, t float64) Context {
	return Context{X: x, Y: y, Z: z, T: t}
}

// WithMesh returns a copy of c carrying m.
func (c Context) WithMesh(m Metadata) Context {
	c.Mesh = m
	return c
}

// Shifted returns a copy of c moved by dy and dz.
func (c Context) Shifted(dy, dz float64) Context {
	c.Y += dy
	c.Z += dz
	return c
}

// Generator is one node of an expression tree.
type Generator interface {
	// Generate evaluates the node at ctx.
	Generate(ctx Context) float64
	// Bind returns a new node of the same kind holding args as children.
	// It fails with *ArityError when len(args) is not accepted.
	Bind(args []Generator) (Generator, error)
	// String renders the node as a call expression.
	String() string
	// Kind reports which node kind this is.
	Kind() Kind

	generator()
}

// Kind tags each node kind.
type Kind int

const (
	KindValue Kind = iota
	KindConstant
	KindCoordinate
	KindUnary
	KindBinary
	KindAtan
	KindMin
	KindMax
	KindRound
	KindTanhHat
	KindGaussian
	KindBallooning
	KindMixmode
)

// String returns the string representation of a Kind.
func (k Kind) String() string {
	switch k {
	case KindValue:
		return "VALUE"
	case KindConstant:
		return "CONSTANT"
	case KindCoordinate:
		return "COORDINATE"
	case KindUnary:
		return "UNARY"
	case KindBinary:
		return "BINARY"
	case KindAtan:
		return "ATAN"
	case KindMin:
		return "MIN"
	case KindMax:
		return "MAX"
	case KindRound:
		return "ROUND"
	case KindTanhHat:
		return "TANHHAT"
	case KindGaussian:
		return "GAUSSIAN"
	case KindBallooning:
		return "BALLOONING"
	case KindMixmode:
		return "MIXMODE"
	}
	return "UNKNOWN"
}

// ArityError reports a bind with an unacceptable number of children.
type ArityError struct {
	Func string
	Min  int
	Max  int // -1 when unbounded
	Got  int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("incorrect number of arguments to %s: expecting %s, got %d", e.Func, e.Expected(), e.Got)
}

// Expected renders the accepted range.
func (e *ArityError) Expected() string {
	switch {
	case e.Max < 0:
		return fmt.Sprintf("at least %d", e.Min)
	case e.Min == e.Max:
		return fmt.Sprintf("%d", e.Min)
	case e.Max == e.Min+1:
		return fmt.Sprintf("%d or %d", e.Min, e.Max)
	}
	return fmt.Sprintf("%d to %d", e.Min, e.Max)
}

func checkArity(name string, args []Generator, min, max int) error {
	n := len(args)
	if n < min || (max >= 0 && n > max) {
		return &ArityError{Func: name, Min: min, Max: max, Got: n}
	}
	return nil
}

// copyArgs detaches the child list from the caller's slice.
func copyArgs(args []Generator) []Generator {
	out := make([]Generator, len(args))
	copy(out, args)
	return out
}
