package vca

import (
	"fmt"
	"math"

	"github.com/alexruiz95/turbustat/cube"
)

// DistanceOptions configure how the two cubes are analyzed before their
// slopes are compared. Both cubes are degraded to the same channel
// thickness; the breaks may differ per cube since their spectra may turn
// over at different scales.
type DistanceOptions struct {
	SliceThickness float64
	PixelScale     float64 // defaults to 1 pixel scale when zero
	Break1         float64
	Break2         float64
}

// Distance compares the fitted power-law slopes of two VCA statistics.
// Construction fully computes (and fits) both; DistanceMetric derives the
// scalar separately.
type Distance struct {
	VCA1 *VCA
	VCA2 *VCA

	distance float64
	done     bool
}

// NewDistance runs VCA on both cubes. A pre-computed fiducial replaces the
// first statistic verbatim, so reusing one across comparisons yields
// results identical to recomputing it.
func NewDistance(cube1, cube2 *cube.Field3D, opts DistanceOptions, fiducial *VCA) (*Distance, error) {
	if opts.PixelScale <= 0 {
		opts.PixelScale = 1
	}

	d := &Distance{}
	runOpts := RunOptions{LogSpacing: true, ReturnStddev: true}

	if fiducial != nil {
		if _, ok := fiducial.Fit(); !ok {
			return nil, fmt.Errorf("vca: fiducial statistic has not been run")
		}
		d.VCA1 = fiducial
	} else {
		v1, err := New(cube1, opts.PixelScale, opts.SliceThickness)
		if err != nil {
			return nil, fmt.Errorf("vca: cube 1: %w", err)
		}
		runOpts.Break = opts.Break1
		if err := v1.Run(runOpts); err != nil {
			return nil, fmt.Errorf("vca: cube 1: %w", err)
		}
		d.VCA1 = v1
	}

	v2, err := New(cube2, opts.PixelScale, opts.SliceThickness)
	if err != nil {
		return nil, fmt.Errorf("vca: cube 2: %w", err)
	}
	runOpts.Break = opts.Break2
	if err := v2.Run(runOpts); err != nil {
		return nil, fmt.Errorf("vca: cube 2: %w", err)
	}
	d.VCA2 = v2
	return d, nil
}

// DistanceMetric returns the two-sample t-statistic of the slope
// difference:
//
//	|slope1 - slope2| / sqrt(err1^2 + err2^2)
//
// It is symmetric under swapping the cubes.
func (d *Distance) DistanceMetric() (float64, error) {
	if _, ok := d.VCA1.Fit(); !ok {
		return 0, fmt.Errorf("vca: statistic 1 has no fitted slope")
	}
	if _, ok := d.VCA2.Fit(); !ok {
		return 0, fmt.Errorf("vca: statistic 2 has no fitted slope")
	}
	denom := math.Hypot(d.VCA1.SlopeErr(), d.VCA2.SlopeErr())
	if denom == 0 {
		return 0, fmt.Errorf("vca: both slope errors are zero")
	}
	d.distance = math.Abs(d.VCA1.Slope()-d.VCA2.Slope()) / denom
	d.done = true
	return d.distance, nil
}

// DistanceValue returns the most recently computed distance and whether
// DistanceMetric has been called.
func (d *Distance) DistanceValue() (float64, bool) { return d.distance, d.done }
