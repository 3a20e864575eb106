// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"nickandperla.net/fieldgen/internal/config"
	"nickandperla.net/fieldgen/pkg/fieldgen"
)

// app holds state shared by every subcommand.
type app struct {
	configPath string
	dbPath     string
	logLevel   string
	noStdlib   bool

	runtime *fieldgen.Runtime
	logger  *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "fieldgen",
		Short: "Evaluate and sample analytic field formulas",
		Long: `fieldgen parses formulas such as "gauss(x-0.5, 0.1)*sin(3*y - z)" into
expression trees, evaluates them at points or over grids, and keeps a
versioned catalog of named formulas.`,
		SilenceUsage:       true,
		PersistentPreRunE:  a.open,
		PersistentPostRunE: a.close,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "YAML configuration file")
	flags.StringVar(&a.dbPath, "db", "", "SQLite catalog path (overrides the config file)")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.BoolVar(&a.noStdlib, "no-stdlib", false, "Do not seed the catalog with preset formulas")

	root.AddCommand(
		a.evalCmd(),
		a.sampleCmd(),
		a.saveCmd(),
		a.showCmd(),
		a.deleteCmd(),
		a.listCmd(),
		a.historyCmd(),
		a.funcsCmd(),
		a.replCmd(),
	)
	return root
}

// open loads configuration, applies flag overrides and starts the runtime.
func (a *app) open(cmd *cobra.Command, _ []string) error {
	cfg := config.Default()
	if a.configPath != "" {
		loaded, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if a.dbPath != "" {
		cfg.Store.Driver = "sqlite"
		cfg.Store.Path = a.dbPath
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.logger = newLogger(cfg.Log, cmd.ErrOrStderr())

	opts := []fieldgen.Option{
		fieldgen.WithConfig(cfg),
		fieldgen.WithLogger(a.logger),
	}
	if a.noStdlib {
		opts = append(opts, fieldgen.WithNoStdlib())
	}
	rt, err := fieldgen.New(opts...)
	if err != nil {
		return err
	}
	a.runtime = rt
	a.logger.Debug("runtime ready", "store", cfg.Store.Driver, "path", cfg.Store.Path)
	return nil
}

func (a *app) close(*cobra.Command, []string) error {
	if a.runtime == nil {
		return nil
	}
	err := a.runtime.Close()
	a.runtime = nil
	if err != nil {
		return fmt.Errorf("close catalog: %w", err)
	}
	return nil
}

func newLogger(c config.Log, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
