package scf

import (
	"fmt"
	"log/slog"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/alexruiz95/turbustat/cube"
	"github.com/alexruiz95/turbustat/radial"
)

// DefaultSize is the default extent of the lag grid.
const DefaultSize = 11

// SCF computes the spectral correlation function surface of a cube over a
// size-by-size grid of spatial lags.
type SCF struct {
	data    *cube.Field3D
	size    int
	workers int

	surface  []float64 // size*size, nil until computed
	spectrum radial.Profile
	hasSpec  bool
}

// RunOptions configure a full SCF computation.
type RunOptions struct {
	LogSpacing   bool
	ReturnStddev bool
}

// New validates and ingests the cube. size must be odd; an even size is
// corrected to size-1 with a warning, never rejected. The cube is copied
// and NaN values are replaced with the cube's minimum finite value.
func New(c *cube.Field3D, size int) (*SCF, error) {
	if c == nil {
		return nil, fmt.Errorf("scf: cube is required")
	}
	if size%2 == 0 {
		slog.Warn("scf: size must be odd, reducing to next lowest odd number",
			"size", size, "corrected", size-1)
		size--
	}
	if size < 3 {
		return nil, fmt.Errorf("scf: lag grid size must be at least 3: %d", size)
	}

	s := &SCF{
		data: c.Clone(),
		size: size,
	}
	s.data.SanitizeMin()
	return s, nil
}

// SetWorkers bounds the parallelism of the surface computation. Values
// below 1 restore the default of GOMAXPROCS.
func (s *SCF) SetWorkers(n int) { s.workers = n }

// Size returns the (possibly corrected) lag grid extent.
func (s *SCF) Size() int { return s.size }

// ComputeSurface fills the SCF surface. Each lag pair is independent and
// reads the cube without mutating it, so lags are computed in parallel
// with each goroutine writing its own surface cell.
func (s *SCF) ComputeSurface() error {
	half := s.size / 2
	s.surface = make([]float64, s.size*s.size)
	s.hasSpec = false

	// Per-pixel spectral power, reused by every lag through index rolls.
	sumSq := make([]float64, s.data.NX*s.data.NY)
	for v := 0; v < s.data.NV; v++ {
		ch := s.data.Channel(v)
		for i, val := range ch {
			sumSq[i] += val * val
		}
	}

	workers := s.workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for di := -half; di <= half; di++ {
		for dj := -half; dj <= half; dj++ {
			di, dj := di, dj
			g.Go(func() error {
				s.surface[(di+half)*s.size+(dj+half)] = s.lagValue(sumSq, di, dj)
				return nil
			})
		}
	}
	return g.Wait()
}

// lagValue evaluates the SCF at a single lag: one minus the root mean of
// the per-pixel normalized squared spectral difference between the cube
// and its periodically rolled copy.
func (s *SCF) lagValue(sumSq []float64, di, dj int) float64 {
	nv, nx, ny := s.data.NV, s.data.NX, s.data.NY
	di = ((di % nx) + nx) % nx
	dj = ((dj % ny) + ny) % ny

	total := 0.0
	count := 0
	for x := 0; x < nx; x++ {
		sx := x - di
		if sx < 0 {
			sx += nx
		}
		for y := 0; y < ny; y++ {
			sy := y - dj
			if sy < 0 {
				sy += ny
			}
			num := 0.0
			for v := 0; v < nv; v++ {
				d := s.data.At(v, x, y) - s.data.At(v, sx, sy)
				num += d * d
			}
			den := sumSq[x*ny+y] + sumSq[sx*ny+sy]
			ratio := num / den
			if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
				continue
			}
			total += ratio
			count++
		}
	}
	if count == 0 {
		return math.NaN()
	}
	return 1 - math.Sqrt(total/float64(count))
}

// ComputeSpectrum reduces the surface to a 1-D correlation spectrum as a
// function of lag, computing the surface first if it has not been done.
func (s *SCF) ComputeSpectrum(opts radial.Options) error {
	if s.surface == nil {
		if err := s.ComputeSurface(); err != nil {
			return err
		}
	}
	p, err := radial.Bin(s.surface, s.size, s.size, opts)
	if err != nil {
		return fmt.Errorf("scf: radial reduction: %w", err)
	}
	s.spectrum = p
	s.hasSpec = true
	return nil
}

// Run computes the surface and then the lag spectrum. Re-running
// overwrites prior results.
func (s *SCF) Run(opts RunOptions) error {
	if err := s.ComputeSurface(); err != nil {
		return err
	}
	return s.ComputeSpectrum(radial.Options{
		LogSpacing:   opts.LogSpacing,
		ReturnStddev: opts.ReturnStddev,
	})
}

// Surface returns the SCF surface, or nil before ComputeSurface has run.
// The cell at (size/2, size/2) is the zero-lag value 1.
func (s *SCF) Surface() []float64 { return s.surface }

// Lags returns the radial lag axis of the spectrum.
func (s *SCF) Lags() []float64 { return s.spectrum.Freqs }

// Spectrum returns the radially averaged correlation spectrum.
func (s *SCF) Spectrum() []float64 { return s.spectrum.Values }

// Stddev returns the per-shell standard deviation, or nil with a warning
// when the spectrum was computed without ReturnStddev.
func (s *SCF) Stddev() []float64 {
	if s.hasSpec && s.spectrum.Stddev == nil {
		slog.Warn("scf: stddev requested but spectrum was computed without ReturnStddev")
	}
	return s.spectrum.Stddev
}
