package cube

import (
	"fmt"
	"math"
)

// Moments holds the velocity-moment maps derived from a spectral-line cube:
// integrated intensity (moment 0), intensity-weighted mean velocity
// (centroid) and intensity-weighted velocity dispersion (linewidth).
//
// Sightlines with non-positive integrated intensity have NaN centroid and
// linewidth; the statistics sanitize those on ingestion.
type Moments struct {
	Moment0   *Field2D
	Centroid  *Field2D
	Linewidth *Field2D
}

// ComputeMoments derives the three velocity-moment maps from a cube. vel
// gives the velocity of each spectral channel; pass nil to use channel
// indices.
func ComputeMoments(c *Field3D, vel []float64) (*Moments, error) {
	if vel == nil {
		vel = make([]float64, c.NV)
		for i := range vel {
			vel[i] = float64(i)
		}
	}
	if len(vel) != c.NV {
		return nil, fmt.Errorf("cube: velocity axis length %d does not match %d channels", len(vel), c.NV)
	}

	plane := c.NX * c.NY
	m0 := make([]float64, plane)
	cent := make([]float64, plane)
	lw := make([]float64, plane)

	for x := 0; x < c.NX; x++ {
		for y := 0; y < c.NY; y++ {
			idx := x*c.NY + y

			sum := 0.0
			weighted := 0.0
			for v := 0; v < c.NV; v++ {
				i := c.At(v, x, y)
				if math.IsNaN(i) {
					continue
				}
				sum += i
				weighted += vel[v] * i
			}
			m0[idx] = sum

			if sum <= 0 {
				cent[idx] = math.NaN()
				lw[idx] = math.NaN()
				continue
			}
			mean := weighted / sum
			cent[idx] = mean

			disp := 0.0
			for v := 0; v < c.NV; v++ {
				i := c.At(v, x, y)
				if math.IsNaN(i) || i <= 0 {
					continue
				}
				d := vel[v] - mean
				disp += i * d * d
			}
			lw[idx] = math.Sqrt(disp / sum)
		}
	}

	mom0 := &Field2D{Data: m0, NX: c.NX, NY: c.NY}
	centroid := &Field2D{Data: cent, NX: c.NX, NY: c.NY}
	linewidth := &Field2D{Data: lw, NX: c.NX, NY: c.NY}
	return &Moments{Moment0: mom0, Centroid: centroid, Linewidth: linewidth}, nil
}
