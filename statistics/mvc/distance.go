package mvc

import (
	"fmt"
	"math"

	"github.com/alexruiz95/turbustat/cube"
	"github.com/alexruiz95/turbustat/powerlaw"
)

// Default frequency cuts for the distance metric. Below ~2 the spectrum
// deviates from the power law; beyond the root-grid scale the bins carry no
// meaningful contribution.
const (
	DefaultLowCut  = 2.0
	DefaultHighCut = 64.0
)

// Inputs bundles the raw maps needed to build one MVC statistic. The error
// maps are optional; when present, each moment map is weighted by the
// inverse variance of its error map before the statistic is computed.
type Inputs struct {
	Centroid  *cube.Field2D
	Moment0   *cube.Field2D
	Linewidth *cube.Field2D

	CentroidErr  *cube.Field2D
	Moment0Err   *cube.Field2D
	LinewidthErr *cube.Field2D

	PixelScale float64
}

// Distance compares two MVC power spectra. Construction fully computes
// both statistics; DistanceMetric derives the scalar separately.
type Distance struct {
	MVC1 *MVC
	MVC2 *MVC

	// Result holds the joint fit behind the most recent DistanceMetric
	// call.
	Result powerlaw.SlopeDiffResult

	distance float64
	done     bool
}

// NewDistance computes the MVC statistic for both input bundles. A
// pre-computed fiducial replaces the first statistic verbatim, so reusing
// one across comparisons yields results identical to recomputing it.
func NewDistance(d1, d2 Inputs, fiducial *MVC) (*Distance, error) {
	dist := &Distance{}

	if fiducial != nil {
		dist.MVC1 = fiducial
	} else {
		m1, err := engineFor(d1)
		if err != nil {
			return nil, fmt.Errorf("mvc: dataset 1: %w", err)
		}
		if err := m1.Run(RunOptions{LogSpacing: true}); err != nil {
			return nil, fmt.Errorf("mvc: dataset 1: %w", err)
		}
		dist.MVC1 = m1
	}

	m2, err := engineFor(d2)
	if err != nil {
		return nil, fmt.Errorf("mvc: dataset 2: %w", err)
	}
	if err := m2.Run(RunOptions{LogSpacing: true}); err != nil {
		return nil, fmt.Errorf("mvc: dataset 2: %w", err)
	}
	dist.MVC2 = m2
	return dist, nil
}

func engineFor(in Inputs) (*MVC, error) {
	cent, err := weightByError(in.Centroid, in.CentroidErr)
	if err != nil {
		return nil, fmt.Errorf("centroid weighting: %w", err)
	}
	m0, err := weightByError(in.Moment0, in.Moment0Err)
	if err != nil {
		return nil, fmt.Errorf("moment0 weighting: %w", err)
	}
	lw, err := weightByError(in.Linewidth, in.LinewidthErr)
	if err != nil {
		return nil, fmt.Errorf("linewidth weighting: %w", err)
	}
	return New(cent, m0, lw, in.PixelScale)
}

// weightByError scales a map by the inverse variance of its error map.
// A nil error map leaves the field untouched.
func weightByError(field, errMap *cube.Field2D) (*cube.Field2D, error) {
	if errMap == nil {
		return field, nil
	}
	if field == nil || !field.SameShape(errMap) {
		return nil, fmt.Errorf("error map shape does not match field")
	}
	out := field.Clone()
	for i, e := range errMap.Data {
		out.Data[i] /= e * e
	}
	return out, nil
}

// DistanceMetric fits both clipped profiles jointly with a slope
// interaction term and returns the absolute t-statistic of that term. The
// open window (lowCut, highCut) selects the power-law portion of each
// spectrum; a window that empties either profile is an error.
func (d *Distance) DistanceMetric(lowCut, highCut float64) (float64, error) {
	res, err := powerlaw.SlopeDifference(
		d.MVC1.Freqs(), d.MVC1.Profile(),
		d.MVC2.Freqs(), d.MVC2.Profile(),
		lowCut, highCut,
	)
	if err != nil {
		return 0, fmt.Errorf("mvc: distance metric: %w", err)
	}
	d.Result = res
	d.distance = math.Abs(res.TValue)
	d.done = true
	return d.distance, nil
}

// DistanceValue returns the most recently computed distance and whether
// DistanceMetric has been called.
func (d *Distance) DistanceValue() (float64, bool) { return d.distance, d.done }
