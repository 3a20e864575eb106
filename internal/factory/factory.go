// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package factory owns the name to prototype mapping and turns formula
// text into bound generator trees.
package factory

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"sort"
	"sync"

	"nickandperla.net/fieldgen/internal/field"
)

// Factory is a thread-safe registry of prototypes plus a parse cache.
type Factory struct {
	mu     sync.RWMutex
	protos map[string]field.Generator
	cache  map[string]field.Generator
	gen    uint64 // bumped by every Register

	meta   field.Metadata
	ballN  int
	seed   float64
	logger *slog.Logger
}

// Option configures a Factory.
type Option func(*Factory)

// WithMetadata sets the metadata handed to the ballooning prototype.
func WithMetadata(m field.Metadata) Option {
	return func(f *Factory) { f.meta = m }
}

// WithBallooningTerms sets how many copies ballooning sums on each side.
func WithBallooningTerms(n int) Option {
	return func(f *Factory) { f.ballN = n }
}

// WithMixmodeSeed sets the seed of the mixmode prototype.
func WithMixmodeSeed(seed float64) Option {
	return func(f *Factory) { f.seed = seed }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Factory) { f.logger = l }
}

// New creates a factory with every builtin registered.
func New(opts ...Option) *Factory {
	f := &Factory{
		protos: make(map[string]field.Generator),
		cache:  make(map[string]field.Generator),
		ballN:  field.DefaultBallooningTerms,
		seed:   field.DefaultMixmodeSeed,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.registerBuiltins()
	return f
}

func (f *Factory) registerBuiltins() {
	f.protos["x"] = field.NewCoordinate(field.AxisX)
	f.protos["y"] = field.NewCoordinate(field.AxisY)
	f.protos["z"] = field.NewCoordinate(field.AxisZ)
	f.protos["t"] = field.NewCoordinate(field.AxisT)
	f.protos["pi"] = field.NewNamedConstant("pi", math.Pi)
	f.protos["π"] = field.NewNamedConstant("π", math.Pi)

	for _, name := range field.UnaryNames() {
		fn, _ := field.LookupUnary(name)
		f.protos[name] = field.NewUnary(name, fn)
	}
	for _, name := range field.BinaryNames() {
		fn, _ := field.LookupBinary(name)
		f.protos[name] = field.NewBinary(name, fn)
	}

	f.protos["atan"] = field.NewAtan()
	f.protos["min"] = field.NewMin()
	f.protos["max"] = field.NewMax()
	f.protos["round"] = field.NewRound()
	f.protos["tanhhat"] = field.NewTanhHat()
	f.protos["gauss"] = field.NewGaussian()
	f.protos["ballooning"] = field.NewBallooning(f.meta, f.ballN)
	f.protos["mixmode"] = field.NewMixmode(f.seed)

	f.logger.Debug("registered builtins", "count", len(f.protos))
}

// Register adds or replaces the prototype for name.
func (f *Factory) Register(name string, proto field.Generator) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.protos[name] = proto
	f.gen++
	clear(f.cache)
	f.logger.Debug("registered prototype", "name", name, "kind", proto.Kind())
}

// Define registers name as a leaf reading *ptr. The caller keeps ptr alive
// and must not write it while trees referencing it are being evaluated.
func (f *Factory) Define(name string, ptr *float64) {
	f.Register(name, field.NewValue(name, ptr))
}

// Lookup returns the prototype registered under name.
func (f *Factory) Lookup(name string) (field.Generator, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	proto, ok := f.protos[name]
	return proto, ok
}

// Has returns true if name is registered.
func (f *Factory) Has(name string) bool {
	_, ok := f.Lookup(name)
	return ok
}

// Names returns every registered name, sorted.
func (f *Factory) Names() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := make([]string, 0, len(f.protos))
	for name := range f.protos {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Bind binds the prototype registered under name to args.
func (f *Factory) Bind(name string, args []field.Generator) (field.Generator, error) {
	proto, ok := f.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown function %q", name)
	}
	return proto.Bind(args)
}

// Parse turns formula into a bound tree. Trees are immutable, so the same
// formula returns the same tree until the registry changes.
func (f *Factory) Parse(formula string) (field.Generator, error) {
	f.mu.RLock()
	cached, ok := f.cache[formula]
	gen := f.gen
	f.mu.RUnlock()
	if ok {
		f.logger.Debug("parse cache hit", "formula", formula)
		return cached, nil
	}

	p := newParser(f, formula)
	g, err := p.parse()
	if err != nil {
		return nil, err
	}

	// A Register during the parse may have replaced a prototype g was
	// built from.
	f.mu.Lock()
	if f.gen == gen {
		f.cache[formula] = g
	}
	f.mu.Unlock()
	return g, nil
}
