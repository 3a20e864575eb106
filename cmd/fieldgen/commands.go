package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"nickandperla.net/fieldgen/pkg/fieldgen"
)

// point is the x, y, z, t flag set shared by eval and repl.
type point struct {
	x, y, z, t float64
}

func (p *point) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&p.x, "x", 0, "radial coordinate")
	cmd.Flags().Float64Var(&p.y, "y", 0, "poloidal angle")
	cmd.Flags().Float64Var(&p.z, "z", 0, "toroidal angle")
	cmd.Flags().Float64Var(&p.t, "t", 0, "time")
}

func (p *point) context() fieldgen.Context {
	return fieldgen.At(p.x, p.y, p.z, p.t)
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (a *app) evalCmd() *cobra.Command {
	var p point
	cmd := &cobra.Command{
		Use:   "eval [formula]",
		Short: "Evaluate a formula at one point (reads the formula from stdin when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formula, err := formulaArg(cmd, args)
			if err != nil {
				return err
			}
			v, err := a.runtime.Eval(formula, p.context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatValue(v))
			return nil
		},
	}
	p.register(cmd)
	return cmd
}

// formulaArg returns args[0], or everything on stdin when it is piped.
func formulaArg(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return "", errors.New("no formula given and stdin is a terminal")
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	formula := strings.TrimSpace(string(data))
	if formula == "" {
		return "", errors.New("empty formula on stdin")
	}
	return formula, nil
}

func (a *app) sampleCmd() *cobra.Command {
	var (
		grid   fieldgen.Grid
		format string
	)
	cmd := &cobra.Command{
		Use:   "sample formula",
		Short: "Evaluate a formula over a grid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "csv" && format != "json" {
				return fmt.Errorf("unknown format %q (use csv or json)", format)
			}
			gen, err := a.runtime.Parse(args[0])
			if err != nil {
				return err
			}
			start := time.Now()
			values, err := a.runtime.Sample(cmd.Context(), gen, grid)
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			out := bufio.NewWriter(cmd.OutOrStdout())
			if format == "json" {
				err = writeJSON(out, grid, values)
			} else {
				err = writeCSV(out, grid, values)
			}
			if err != nil {
				return err
			}
			if err := out.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "sampled %s points in %s\n",
				humanize.Comma(int64(len(values))), elapsed.Round(time.Microsecond))
			return nil
		},
	}
	cmd.Flags().IntVar(&grid.NX, "nx", 8, "points in x")
	cmd.Flags().IntVar(&grid.NY, "ny", 8, "points in y")
	cmd.Flags().IntVar(&grid.NZ, "nz", 1, "points in z")
	cmd.Flags().Float64Var(&grid.T, "t", 0, "time")
	cmd.Flags().StringVar(&format, "format", "csv", "output format: csv or json")
	return cmd
}

func writeCSV(w io.Writer, grid fieldgen.Grid, values []float64) error {
	if _, err := fmt.Fprintln(w, "x,y,z,value"); err != nil {
		return err
	}
	for i := 0; i < grid.NX; i++ {
		for j := 0; j < grid.NY; j++ {
			for k := 0; k < grid.NZ; k++ {
				p := grid.Point(i, j, k)
				_, err := fmt.Fprintf(w, "%s,%s,%s,%s\n",
					formatValue(p.X), formatValue(p.Y), formatValue(p.Z),
					formatValue(values[grid.Index(i, j, k)]))
				if err != nil {
					return err
				}
			}
		}
	}
	return nil
}

type sampleJSON struct {
	NX     int       `json:"nx"`
	NY     int       `json:"ny"`
	NZ     int       `json:"nz"`
	T      float64   `json:"t"`
	Values []float64 `json:"values"`
}

func writeJSON(w io.Writer, grid fieldgen.Grid, values []float64) error {
	return json.NewEncoder(w).Encode(sampleJSON{
		NX: grid.NX, NY: grid.NY, NZ: grid.NZ, T: grid.T,
		Values: values,
	})
}

func (a *app) saveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save name formula",
		Short: "Save a formula to the catalog",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runtime.Save(args[0], args[1])
		},
	}
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show name",
		Short: "Print a saved formula and its parsed form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := a.runtime.Source(args[0])
			if err != nil {
				return err
			}
			gen, err := a.runtime.Parse(source)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), source)
			fmt.Fprintln(cmd.OutOrStdout(), gen.String())
			return nil
		},
	}
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete name",
		Short: "Remove a formula and its history from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runtime.Delete(args[0])
		},
	}
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved formulas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			names, err := a.runtime.List()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func (a *app) historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history name",
		Short: "Show saved versions of a formula, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := a.runtime.History(args[0], limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				return fmt.Errorf("no history for %s: %w", args[0], fieldgen.ErrNotFound)
			}
			for _, e := range entries {
				when := e.Ts
				if ts, err := time.Parse(time.RFC3339Nano, e.Ts); err == nil {
					when = humanize.Time(ts)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "v%d\t%s\t%s\t%s\n", e.Version, e.ID.String()[:8], when, e.Value)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum versions to show (0 for all)")
	return cmd
}

func (a *app) funcsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "funcs",
		Short: "List the names a formula may use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range a.runtime.Functions() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
