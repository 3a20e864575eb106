// Package fieldgen provides the public API for building and evaluating
// analytic field formulas.
package fieldgen

import (
	"log/slog"

	"nickandperla.net/fieldgen/internal/config"
	"nickandperla.net/fieldgen/internal/field"
	"nickandperla.net/fieldgen/internal/mesh"
	"nickandperla.net/fieldgen/internal/store"
)

// Option configures a Runtime.
type Option func(*Runtime)

// WithSQLiteStore configures SQLite persistence at the given path.
func WithSQLiteStore(path string) Option {
	return func(r *Runtime) {
		r.dbPath = path
		r.store = nil
	}
}

// WithMemoryStore configures an in-memory store (for testing).
func WithMemoryStore() Option {
	return func(r *Runtime) {
		r.dbPath = ""
		r.store = store.NewMemory()
	}
}

// WithStore configures a custom store.
func WithStore(s Store) Option {
	return func(r *Runtime) {
		r.dbPath = ""
		r.store = s
	}
}

// WithMesh sets the metadata used by ballooning and attached to sampled points.
func WithMesh(m Metadata) Option {
	return func(r *Runtime) {
		r.meta = m
	}
}

// WithBallooningTerms sets how many copies ballooning sums on each side.
func WithBallooningTerms(n int) Option {
	return func(r *Runtime) {
		r.ballN = n
	}
}

// WithMixmodeSeed sets the seed of the mixmode phases.
func WithMixmodeSeed(seed float64) Option {
	return func(r *Runtime) {
		r.seed = seed
	}
}

// WithWorkers sets how many x-planes Sample evaluates concurrently.
func WithWorkers(n int) Option {
	return func(r *Runtime) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = l
	}
}

// WithValue makes name a leaf reading *ptr. The caller keeps ptr alive and
// must not write it while a formula using it is being evaluated.
func WithValue(name string, ptr *float64) Option {
	return func(r *Runtime) {
		r.values[name] = ptr
	}
}

// WithNoStdlib disables seeding the catalog with the preset formulas.
func WithNoStdlib() Option {
	return func(r *Runtime) {
		r.noStdlib = true
	}
}

// WithConfig applies a loaded configuration. Options after it override it.
func WithConfig(cfg Config) Option {
	return func(r *Runtime) {
		r.meta = mesh.FromConfig(cfg.Mesh)
		r.ballN = cfg.Ballooning.Terms
		r.seed = cfg.Mixmode.Seed
		if cfg.Sampling.Workers > 0 {
			r.workers = cfg.Sampling.Workers
		}
		switch cfg.Store.Driver {
		case "memory":
			r.dbPath = ""
			r.store = store.NewMemory()
		case "sqlite":
			r.dbPath = cfg.Store.Path
			r.store = nil
		}
	}
}

// Config is the file configuration accepted by WithConfig.
type Config = config.Config

// Store interface for custom stores.
type Store = store.Store

// VersionEntry is one saved version of a formula.
type VersionEntry = store.VersionEntry

// Context is the evaluation point.
type Context = field.Context

// Generator is a bound formula tree.
type Generator = field.Generator

// Metadata supplies the twist-shift used by ballooning.
type Metadata = field.Metadata

// ArityError reports a function bound with the wrong number of arguments.
type ArityError = field.ArityError

// At returns the evaluation point (x, y, z, t).
func At(x, y, z, t float64) Context {
	return field.At(x, y, z, t)
}

// LoadConfig reads and validates a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	return config.Load(path)
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return config.Default()
}
