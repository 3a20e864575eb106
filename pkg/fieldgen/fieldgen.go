package fieldgen

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"nickandperla.net/fieldgen/internal/factory"
	"nickandperla.net/fieldgen/internal/field"
	"nickandperla.net/fieldgen/internal/store"
)

// ErrNotFound is returned when no formula is saved under a name.
var ErrNotFound = store.ErrNotFound

// ErrNoHistory is returned by History when the store keeps no versions.
var ErrNoHistory = errors.New("store does not keep history")

// ParseError reports a malformed formula.
type ParseError = factory.ParseError

// Runtime parses, evaluates and catalogs field formulas.
type Runtime struct {
	factory *factory.Factory
	store   Store
	dbPath  string
	meta    Metadata
	ballN   int
	seed    float64
	workers int
	values  map[string]*float64

	noStdlib bool
	logger   *slog.Logger
}

// New creates a new runtime with the given options.
func New(opts ...Option) (*Runtime, error) {
	r := &Runtime{
		ballN:   field.DefaultBallooningTerms,
		seed:    field.DefaultMixmodeSeed,
		workers: 4,
		values:  make(map[string]*float64),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.workers < 1 {
		r.workers = 1
	}

	if r.store == nil {
		if r.dbPath != "" {
			s, err := store.NewSQLite(r.dbPath)
			if err != nil {
				return nil, fmt.Errorf("open catalog: %w", err)
			}
			r.store = s
		} else {
			r.store = store.NewMemory()
		}
	}

	r.factory = factory.New(
		factory.WithMetadata(r.meta),
		factory.WithBallooningTerms(r.ballN),
		factory.WithMixmodeSeed(r.seed),
		factory.WithLogger(r.logger),
	)
	for name, ptr := range r.values {
		r.factory.Define(name, ptr)
	}

	// Seed presets unless disabled
	if !r.noStdlib {
		if err := r.seedPresets(); err != nil {
			r.store.Close()
			return nil, err
		}
	}

	return r, nil
}

// Parse turns formula into a bound tree.
func (r *Runtime) Parse(formula string) (Generator, error) {
	g, err := r.factory.Parse(formula)
	if err != nil {
		parseTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	parseTotal.WithLabelValues("ok").Inc()
	return g, nil
}

// Eval parses formula and evaluates it at ctx. The runtime mesh is used
// when ctx carries none.
func (r *Runtime) Eval(formula string, ctx Context) (float64, error) {
	g, err := r.Parse(formula)
	if err != nil {
		return 0, err
	}
	return g.Generate(r.withMesh(ctx)), nil
}

func (r *Runtime) withMesh(ctx Context) Context {
	if ctx.Mesh == nil && r.meta != nil {
		return ctx.WithMesh(r.meta)
	}
	return ctx
}

// Save stores formula under name once it parses.
func (r *Runtime) Save(name, formula string) error {
	if name == "" {
		return errors.New("save: empty name")
	}
	if _, err := r.Parse(formula); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	if err := r.store.Put(name, formula); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	r.logger.Info("saved formula", "name", name, "formula", formula)
	return nil
}

// Load parses the formula saved under name.
func (r *Runtime) Load(name string) (Generator, error) {
	source, err := r.Source(name)
	if err != nil {
		return nil, err
	}
	return r.Parse(source)
}

// Source returns the formula text saved under name.
func (r *Runtime) Source(name string) (string, error) {
	source, err := r.store.Get(name)
	if err != nil {
		return "", fmt.Errorf("load %s: %w", name, err)
	}
	return source, nil
}

// Delete removes the formula saved under name.
func (r *Runtime) Delete(name string) error {
	if err := r.store.Delete(name); err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	r.logger.Info("deleted formula", "name", name)
	return nil
}

// List returns every saved name, sorted.
func (r *Runtime) List() ([]string, error) {
	return r.store.List()
}

// History returns up to limit saved versions of name, newest first.
func (r *Runtime) History(name string, limit int) ([]VersionEntry, error) {
	hs, ok := r.store.(store.HistoryStore)
	if !ok {
		return nil, ErrNoHistory
	}
	return hs.GetHistory(name, limit)
}

// Functions returns every name a formula may reference, sorted.
func (r *Runtime) Functions() []string {
	return r.factory.Names()
}

// Close releases resources.
func (r *Runtime) Close() error {
	return r.store.Close()
}
