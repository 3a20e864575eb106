// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package field

import "strconv"

// Value reads an externally owned scalar on every evaluation.
//
// The referenced float64 must stay valid for as long as the node is in use,
// and must not be written while another goroutine evaluates the tree.
type Value struct {
	name string
	ptr  *float64
}

// NewValue returns a leaf that dereferences ptr. name is used by String.
func NewValue(name string, ptr *float64) *Value {
	return &Value{name: name, ptr: ptr}
}

func (v *Value) Generate(Context) float64 { return *v.ptr }

// Bind ignores args and returns a leaf over the same scalar.
func (v *Value) Bind([]Generator) (Generator, error) {
	return &Value{name: v.name, ptr: v.ptr}, nil
}

func (v *Value) String() string {
	if v.name != "" {
		return v.name
	}
	return formatFloat(*v.ptr)
}

func (v *Value) Kind() Kind { return KindValue }
func (v *Value) generator() {}

// Constant is a literal number.
type Constant struct {
	name  string
	value float64
}

// NewConstant returns a literal leaf.
func NewConstant(value float64) *Constant {
	return &Constant{value: value}
}

// NewNamedConstant returns a literal leaf rendered by name, such as pi.
func NewNamedConstant(name string, value float64) *Constant {
	return &Constant{name: name, value: value}
}

func (c *Constant) Generate(Context) float64 { return c.value }

func (c *Constant) Bind(args []Generator) (Generator, error) {
	if err := checkArity(c.String(), args, 0, 0); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Constant) String() string {
	if c.name != "" {
		return c.name
	}
	return formatFloat(c.value)
}

func (c *Constant) Kind() Kind { return KindConstant }
func (c *Constant) generator() {}

// Axis selects one coordinate of the Context.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
	AxisT
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	case AxisT:
		return "t"
	}
	return "?"
}

// Coordinate returns one coordinate of the evaluation point.
type Coordinate struct {
	axis Axis
}

// NewCoordinate returns the leaf for axis.
func NewCoordinate(axis Axis) *Coordinate {
	return &Coordinate{axis: axis}
}

func (c *Coordinate) Generate(ctx Context) float64 {
	switch c.axis {
	case AxisX:
		return ctx.X
	case AxisY:
		return ctx.Y
	case AxisZ:
		return ctx.Z
	}
	return ctx.T
}

func (c *Coordinate) Bind(args []Generator) (Generator, error) {
	if err := checkArity(c.axis.String(), args, 0, 0); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Coordinate) String() string { return c.axis.String() }
func (c *Coordinate) Kind() Kind     { return KindCoordinate }
func (c *Coordinate) generator()     {}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
