package vca

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/alexruiz95/turbustat/cube"
	"github.com/alexruiz95/turbustat/powerlaw"
	"github.com/alexruiz95/turbustat/radial"
	"github.com/alexruiz95/turbustat/spectral"
)

// VCA computes the velocity channel analysis power spectrum of a cube and
// fits it with a power law.
type VCA struct {
	data       *cube.Field3D
	pixelScale float64
	thickness  float64

	surface []float64 // centered 2-D power spectrum, nil until computed
	profile radial.Profile
	hasProf bool
	fit     powerlaw.Fit
	hasFit  bool
}

// RunOptions configure a full VCA computation.
type RunOptions struct {
	// Break selects the power-law model: zero fits a single power law, a
	// positive value fixes the break frequency, and a negative value asks
	// the fit to locate the break itself.
	Break        float64
	PhysUnits    bool
	LogSpacing   bool
	ReturnStddev bool
}

// New validates and ingests the cube. NaN values are zero-filled. A
// sliceThickness above 1 degrades the spectral axis before any further
// computation; the spatial shape is never altered. pixelScale is the
// angular pixel size in degrees.
func New(c *cube.Field3D, pixelScale, sliceThickness float64) (*VCA, error) {
	if c == nil {
		return nil, fmt.Errorf("vca: cube is required")
	}
	if pixelScale <= 0 {
		return nil, fmt.Errorf("vca: pixel scale must be positive: %g", pixelScale)
	}

	data := c.Clone()
	data.SanitizeZero()

	if sliceThickness > 1 {
		var err error
		data, err = DegradeVelocityResolution(data, sliceThickness)
		if err != nil {
			return nil, fmt.Errorf("vca: %w", err)
		}
	} else {
		sliceThickness = 1
	}

	return &VCA{
		data:       data,
		pixelScale: pixelScale,
		thickness:  sliceThickness,
	}, nil
}

// DegradeVelocityResolution averages blocks of round(thickness) adjacent
// spectral channels, producing a cube with a coarser spectral axis and the
// same spatial shape. A trailing partial block is averaged over the
// channels it actually contains.
func DegradeVelocityResolution(c *cube.Field3D, thickness float64) (*cube.Field3D, error) {
	if thickness < 1 {
		return nil, fmt.Errorf("vca: slice thickness must be at least 1: %g", thickness)
	}
	block := int(math.Round(thickness))
	if block <= 1 {
		return c.Clone(), nil
	}

	newNV := (c.NV + block - 1) / block
	plane := c.NX * c.NY
	out := make([]float64, newNV*plane)
	for nv := 0; nv < newNV; nv++ {
		start := nv * block
		end := start + block
		if end > c.NV {
			end = c.NV
		}
		dst := out[nv*plane : (nv+1)*plane]
		for v := start; v < end; v++ {
			vecmath.AddBlockInPlace(dst, c.Channel(v))
		}
		scale := 1 / float64(end-start)
		for i := range dst {
			dst[i] *= scale
		}
	}
	return &cube.Field3D{Data: out, NV: newNV, NX: c.NX, NY: c.NY}, nil
}

// ComputeSurface builds the centered 2-D power spectrum: the cube is
// transformed along the spectral axis (real to full spectrum by conjugate
// symmetry), then spatially per spectral-frequency plane, squared, and
// summed over the spectral-frequency axis.
func (v *VCA) ComputeSurface() error {
	nv, nx, ny := v.data.NV, v.data.NX, v.data.NY
	plane := nx * ny

	work := make([]complex128, nv*plane)
	line := make([]float64, nv)
	for x := 0; x < nx; x++ {
		for y := 0; y < ny; y++ {
			for c := 0; c < nv; c++ {
				line[c] = v.data.At(c, x, y)
			}
			full := spectral.RealToFullFFT(line)
			for c := 0; c < nv; c++ {
				work[(c*nx+x)*ny+y] = full[c]
			}
		}
	}

	ps := make([]float64, plane)
	for c := 0; c < nv; c++ {
		if _, err := spectral.FFT2Complex(work[c*plane:(c+1)*plane], nx, ny); err != nil {
			return fmt.Errorf("vca: spatial transform: %w", err)
		}
		vecmath.AddBlockInPlace(ps, spectral.PowerSurface(work[c*plane:(c+1)*plane]))
	}

	v.surface = spectral.FFTShift2D(ps, nx, ny)
	v.hasProf = false
	v.hasFit = false
	return nil
}

// ComputeProfile reduces the power spectrum to a radial profile, computing
// the surface first if it has not been done yet.
func (v *VCA) ComputeProfile(opts radial.Options) error {
	if v.surface == nil {
		if err := v.ComputeSurface(); err != nil {
			return err
		}
	}
	p, err := radial.Bin(v.surface, v.data.NX, v.data.NY, opts)
	if err != nil {
		return fmt.Errorf("vca: radial reduction: %w", err)
	}
	v.profile = p
	v.hasProf = true
	return nil
}

// Run performs the full computation: 2-D spectrum, radial profile, and the
// power-law fit whose slope feeds the distance metric. Re-running
// overwrites prior results.
func (v *VCA) Run(opts RunOptions) error {
	if err := v.ComputeSurface(); err != nil {
		return err
	}
	if err := v.ComputeProfile(radial.Options{
		LogSpacing:   opts.LogSpacing,
		ReturnStddev: opts.ReturnStddev,
	}); err != nil {
		return err
	}
	if opts.PhysUnits {
		for i := range v.profile.Freqs {
			v.profile.Freqs[i] /= v.pixelScale
		}
	}

	var fit powerlaw.Fit
	var err error
	if opts.Break == 0 {
		fit, err = powerlaw.FitPowerLaw(v.profile.Freqs, v.profile.Values)
	} else {
		fit, err = powerlaw.FitBroken(v.profile.Freqs, v.profile.Values, opts.Break)
	}
	if err != nil {
		return fmt.Errorf("vca: power-law fit: %w", err)
	}
	v.fit = fit
	v.hasFit = true
	return nil
}

// Surface returns the centered 2-D power spectrum, or nil before
// ComputeSurface has run.
func (v *VCA) Surface() []float64 { return v.surface }

// Shape returns the spatial dimensions of the statistic.
func (v *VCA) Shape() (nx, ny int) { return v.data.NX, v.data.NY }

// Channels returns the spectral-axis length after any degrading.
func (v *VCA) Channels() int { return v.data.NV }

// Freqs returns the radial frequency axis.
func (v *VCA) Freqs() []float64 { return v.profile.Freqs }

// Profile returns the radially averaged power spectrum.
func (v *VCA) Profile() []float64 { return v.profile.Values }

// Stddev returns the per-shell standard deviation, or nil with a warning
// when the profile was computed without ReturnStddev.
func (v *VCA) Stddev() []float64 {
	if v.hasProf && v.profile.Stddev == nil {
		slog.Warn("vca: stddev requested but profile was computed without ReturnStddev")
	}
	return v.profile.Stddev
}

// Fit returns the power-law fit and whether Run has produced one.
func (v *VCA) Fit() (powerlaw.Fit, bool) { return v.fit, v.hasFit }

// Slope returns the fitted low-frequency power-law slope.
func (v *VCA) Slope() float64 { return v.fit.Slope }

// SlopeErr returns the standard error of the fitted slope.
func (v *VCA) SlopeErr() float64 { return v.fit.SlopeErr }
