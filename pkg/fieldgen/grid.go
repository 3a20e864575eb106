// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package fieldgen

import (
	"context"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/errgroup"
)

// Grid is a cell-centred sampling grid over x in [0, 1) and y in [0, 2π),
// node-centred in z over [0, 2π).
type Grid struct {
	NX, NY, NZ int
	T          float64
}

// Validate returns an error unless every dimension is positive.
func (g Grid) Validate() error {
	if g.NX <= 0 || g.NY <= 0 || g.NZ <= 0 {
		return fmt.Errorf("invalid grid %dx%dx%d: dimensions must be positive", g.NX, g.NY, g.NZ)
	}
	return nil
}

// Len returns the number of points.
func (g Grid) Len() int { return g.NX * g.NY * g.NZ }

// Index returns the row-major offset of point (i, j, k).
func (g Grid) Index(i, j, k int) int { return (i*g.NY+j)*g.NZ + k }

// Point returns the coordinates of (i, j, k).
func (g Grid) Point(i, j, k int) Context {
	return At(
		(float64(i)+0.5)/float64(g.NX),
		2*math.Pi*(float64(j)+0.5)/float64(g.NY),
		2*math.Pi*float64(k)/float64(g.NZ),
		g.T,
	)
}

// Sample evaluates gen at every grid point, one x-plane per task.
func (r *Runtime) Sample(ctx context.Context, gen Generator, grid Grid) ([]float64, error) {
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	out := make([]float64, grid.Len())

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i := 0; i < grid.NX; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			for j := 0; j < grid.NY; j++ {
				for k := 0; k < grid.NZ; k++ {
					out[grid.Index(i, j, k)] = gen.Generate(r.withMesh(grid.Point(i, j, k)))
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	samplePoints.Add(float64(len(out)))
	sampleDuration.Observe(time.Since(start).Seconds())
	r.logger.Debug("sampled grid", "nx", grid.NX, "ny", grid.NY, "nz", grid.NZ, "elapsed", time.Since(start))
	return out, nil
}
