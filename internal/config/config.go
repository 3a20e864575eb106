// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package config loads fieldgen configuration files.
package config

import (
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration.
type Config struct {
	Mesh       Mesh       `yaml:"mesh"`
	Ballooning Ballooning `yaml:"ballooning"`
	Mixmode    Mixmode    `yaml:"mixmode"`
	Store      Store      `yaml:"store"`
	Sampling   Sampling   `yaml:"sampling"`
	Log        Log        `yaml:"log"`
}

// Mesh describes a sheared slab. Surfaces with PeriodicXMin <= x <= PeriodicXMax
// are closed; others are open field lines.
type Mesh struct {
	Shift        float64 `yaml:"shift"`
	Shear        float64 `yaml:"shear"`
	XCentre      float64 `yaml:"x_centre"`
	PeriodicXMin float64 `yaml:"periodic_x_min"`
	PeriodicXMax float64 `yaml:"periodic_x_max" validate:"gtefield=PeriodicXMin"`
	ZLength      float64 `yaml:"z_length" validate:"gt=0"`
}

// Ballooning configures the ballooning prototype.
type Ballooning struct {
	Terms int `yaml:"terms" validate:"gte=0"`
}

// Mixmode configures the mixmode prototype.
type Mixmode struct {
	Seed float64 `yaml:"seed"`
}

// Store selects the formula catalog backend.
type Store struct {
	Driver string `yaml:"driver" validate:"oneof=sqlite memory"`
	Path   string `yaml:"path" validate:"required_if=Driver sqlite"`
}

// Sampling configures grid evaluation.
type Sampling struct {
	Workers int `yaml:"workers" validate:"gte=1"`
}

// Log configures the slog handler.
type Log struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

var validate = validator.New()

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Mesh: Mesh{
			PeriodicXMin: 0,
			PeriodicXMax: 1,
			XCentre:      0.5,
			ZLength:      2 * math.Pi,
		},
		Ballooning: Ballooning{Terms: 3},
		Mixmode:    Mixmode{Seed: 0.5},
		Store:      Store{Driver: "sqlite", Path: "fieldgen.db"},
		Sampling:   Sampling{Workers: 4},
		Log:        Log{Level: "info", Format: "text"},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	return validate.Struct(c)
}

// SlogLevel maps Log.Level onto slog.
func (l Log) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
