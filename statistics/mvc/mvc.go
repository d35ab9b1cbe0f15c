package mvc

import (
	"fmt"
	"log/slog"

	"github.com/cwbudde/algo-vecmath"

	"github.com/alexruiz95/turbustat/cube"
	"github.com/alexruiz95/turbustat/radial"
	"github.com/alexruiz95/turbustat/spectral"
)

// MVC computes the modified-velocity-centroid power spectrum of a set of
// moment maps. Construct with New, then Run (or the individual compute
// steps); derived state is overwritten on each run.
type MVC struct {
	centroid  *cube.Field2D
	moment0   *cube.Field2D
	linewidth *cube.Field2D

	pixelScale float64

	surface []float64 // centered 2-D power spectrum, nil until computed
	profile radial.Profile
	hasProf bool
}

// RunOptions configure a full MVC computation.
type RunOptions struct {
	// PhysUnits converts the frequency axis from pixel^-1 to degree^-1
	// using the pixel scale.
	PhysUnits    bool
	LogSpacing   bool
	ReturnStddev bool
}

// New validates and ingests the three moment maps. The maps must share one
// shape; pixelScale is the angular pixel size in degrees. Inputs are copied
// and NaN-sanitized to each map's minimum finite value, so caller arrays
// are never mutated.
func New(centroid, moment0, linewidth *cube.Field2D, pixelScale float64) (*MVC, error) {
	if centroid == nil || moment0 == nil || linewidth == nil {
		return nil, fmt.Errorf("mvc: all three moment maps are required")
	}
	if !centroid.SameShape(moment0) || !centroid.SameShape(linewidth) {
		return nil, fmt.Errorf("mvc: moment map shapes differ: centroid %dx%d, moment0 %dx%d, linewidth %dx%d",
			centroid.NX, centroid.NY, moment0.NX, moment0.NY, linewidth.NX, linewidth.NY)
	}
	if pixelScale <= 0 {
		return nil, fmt.Errorf("mvc: pixel scale must be positive: %g", pixelScale)
	}

	m := &MVC{
		centroid:   centroid.Clone(),
		moment0:    moment0.Clone(),
		linewidth:  linewidth.Clone(),
		pixelScale: pixelScale,
	}
	m.centroid.SanitizeMin()
	m.moment0.SanitizeMin()
	m.linewidth.SanitizeMin()
	return m, nil
}

// ComputeSurface builds the centered 2-D MVC power spectrum:
//
//	|FFT2(centroid*moment0) - (linewidth^2 + centroid^2) * FFT2(moment0)|^2
func (m *MVC) ComputeSurface() error {
	nx, ny := m.centroid.NX, m.centroid.NY
	n := nx * ny

	prod := make([]float64, n)
	vecmath.MulBlock(prod, m.centroid.Data, m.moment0.Data)
	term1, err := spectral.FFT2(prod, nx, ny)
	if err != nil {
		return fmt.Errorf("mvc: centroid term transform: %w", err)
	}

	term2 := make([]float64, n)
	vecmath.MulBlock(term2, m.linewidth.Data, m.linewidth.Data)
	centSq := make([]float64, n)
	vecmath.MulBlock(centSq, m.centroid.Data, m.centroid.Data)
	vecmath.AddBlockInPlace(term2, centSq)

	fm0, err := spectral.FFT2(m.moment0.Data, nx, ny)
	if err != nil {
		return fmt.Errorf("mvc: moment0 transform: %w", err)
	}

	for i := range term1 {
		term1[i] -= complex(term2[i], 0) * fm0[i]
	}

	shifted := spectral.FFTShift2DComplex(term1, nx, ny)
	m.surface = spectral.PowerSurface(shifted)
	m.hasProf = false
	return nil
}

// ComputeProfile reduces the power spectrum to a radial profile, computing
// the surface first if it has not been done yet.
func (m *MVC) ComputeProfile(opts radial.Options) error {
	if m.surface == nil {
		if err := m.ComputeSurface(); err != nil {
			return err
		}
	}
	p, err := radial.Bin(m.surface, m.centroid.NX, m.centroid.NY, opts)
	if err != nil {
		return fmt.Errorf("mvc: radial reduction: %w", err)
	}
	m.profile = p
	m.hasProf = true
	return nil
}

// Run performs the full computation: 2-D spectrum, then radial profile,
// then optional unit conversion. Re-running overwrites prior results.
func (m *MVC) Run(opts RunOptions) error {
	if err := m.ComputeSurface(); err != nil {
		return err
	}
	if err := m.ComputeProfile(radial.Options{
		LogSpacing:   opts.LogSpacing,
		ReturnStddev: opts.ReturnStddev,
	}); err != nil {
		return err
	}
	if opts.PhysUnits {
		for i := range m.profile.Freqs {
			m.profile.Freqs[i] /= m.pixelScale
		}
	}
	return nil
}

// Surface returns the centered 2-D power spectrum, or nil before
// ComputeSurface has run.
func (m *MVC) Surface() []float64 { return m.surface }

// Shape returns the spatial dimensions of the statistic.
func (m *MVC) Shape() (nx, ny int) { return m.centroid.NX, m.centroid.NY }

// Freqs returns the radial frequency axis.
func (m *MVC) Freqs() []float64 { return m.profile.Freqs }

// Profile returns the radially averaged power spectrum.
func (m *MVC) Profile() []float64 { return m.profile.Values }

// Stddev returns the per-shell standard deviation, or nil with a warning
// when the profile was computed without ReturnStddev.
func (m *MVC) Stddev() []float64 {
	if m.hasProf && m.profile.Stddev == nil {
		slog.Warn("mvc: stddev requested but profile was computed without ReturnStddev")
	}
	return m.profile.Stddev
}
