// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package field

import (
	"math"
	"sort"
)

// UnaryFunc is a native one-argument function.
type UnaryFunc func(float64) float64

// BinaryFunc is a native two-argument function.
type BinaryFunc func(a, b float64) float64

// Domain errors are not checked: sqrt(-1) is NaN, log(0) is -Inf.
var unaryFuncs = map[string]UnaryFunc{
	"sin":       math.Sin,
	"cos":       math.Cos,
	"tan":       math.Tan,
	"sinh":      math.Sinh,
	"cosh":      math.Cosh,
	"tanh":      math.Tanh,
	"asin":      math.Asin,
	"acos":      math.Acos,
	"exp":       math.Exp,
	"log":       math.Log,
	"sqrt":      math.Sqrt,
	"abs":       math.Abs,
	"erf":       math.Erf,
	"floor":     math.Floor,
	"ceil":      math.Ceil,
	"heaviside": heaviside,
}

var binaryFuncs = map[string]BinaryFunc{
	"pow":   math.Pow,
	"fmod":  math.Mod,
	"hypot": math.Hypot,
}

// Operators are binary nodes rendered infix.
var operators = map[string]BinaryFunc{
	"+": func(a, b float64) float64 { return a + b },
	"-": func(a, b float64) float64 { return a - b },
	"*": func(a, b float64) float64 { return a * b },
	"/": func(a, b float64) float64 { return a / b },
	"^": math.Pow,
}

func heaviside(v float64) float64 {
	if v > 0 {
		return 1
	}
	return 0
}

func negate(v float64) float64 { return -v }

// LookupUnary returns the native function registered under name.
func LookupUnary(name string) (UnaryFunc, bool) {
	fn, ok := unaryFuncs[name]
	return fn, ok
}

// LookupBinary returns the native function registered under name.
func LookupBinary(name string) (BinaryFunc, bool) {
	fn, ok := binaryFuncs[name]
	return fn, ok
}

// UnaryNames lists the native one-argument functions, sorted.
func UnaryNames() []string { return sortedKeys(unaryFuncs) }

// BinaryNames lists the native two-argument functions, sorted.
func BinaryNames() []string { return sortedKeys(binaryFuncs) }

func sortedKeys[F any](m map[string]F) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Unary applies a native function to one child.
type Unary struct {
	name string
	fn   UnaryFunc
	arg  Generator
}

// NewUnary returns an unbound prototype applying fn.
func NewUnary(name string, fn UnaryFunc) *Unary {
	return &Unary{name: name, fn: fn}
}

// Neg returns the bound unary minus of arg.
func Neg(arg Generator) Generator {
	return &Unary{name: "-", fn: negate, arg: arg}
}

func (u *Unary) Generate(ctx Context) float64 {
	return u.fn(u.arg.Generate(ctx))
}

func (u *Unary) Bind(args []Generator) (Generator, error) {
	if err := checkArity(u.name, args, 1, 1); err != nil {
		return nil, err
	}
	return &Unary{name: u.name, fn: u.fn, arg: args[0]}, nil
}

func (u *Unary) String() string {
	if u.arg == nil {
		return u.name + "()"
	}
	if u.name == "-" {
		return "(-" + u.arg.String() + ")"
	}
	return u.name + "(" + u.arg.String() + ")"
}

func (u *Unary) Kind() Kind { return KindUnary }
func (u *Unary) generator() {}

// Binary applies a native function to two children, left then right.
type Binary struct {
	name  string
	fn    BinaryFunc
	infix bool
	a, b  Generator
}

// NewBinary returns an unbound prototype applying fn.
func NewBinary(name string, fn BinaryFunc) *Binary {
	return &Binary{name: name, fn: fn}
}

// NewOperator returns an unbound prototype for one of + - * / ^.
func NewOperator(op string) (*Binary, bool) {
	fn, ok := operators[op]
	if !ok {
		return nil, false
	}
	return &Binary{name: op, fn: fn, infix: true}, true
}

func (b *Binary) Generate(ctx Context) float64 {
	left := b.a.Generate(ctx)
	right := b.b.Generate(ctx)
	return b.fn(left, right)
}

func (b *Binary) Bind(args []Generator) (Generator, error) {
	if err := checkArity(b.name, args, 2, 2); err != nil {
		return nil, err
	}
	return &Binary{name: b.name, fn: b.fn, infix: b.infix, a: args[0], b: args[1]}, nil
}

func (b *Binary) String() string {
	if b.a == nil {
		return b.name + "()"
	}
	if b.infix {
		return "(" + b.a.String() + b.name + b.b.String() + ")"
	}
	return b.name + "(" + b.a.String() + "," + b.b.String() + ")"
}

func (b *Binary) Kind() Kind { return KindBinary }
func (b *Binary) generator() {}
