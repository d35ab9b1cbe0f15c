package scf

import (
	"fmt"
	"math"

	"github.com/alexruiz95/turbustat/cube"
)

// Distance compares two SCF surfaces. Construction fully computes both
// statistics; DistanceMetric derives the scalar separately.
type Distance struct {
	SCF1 *SCF
	SCF2 *SCF

	distance float64
	done     bool
}

// NewDistance computes the SCF for both cubes over the same lag grid. A
// pre-computed fiducial replaces the first statistic verbatim; its grid
// size must match.
func NewDistance(cube1, cube2 *cube.Field3D, size int, fiducial *SCF) (*Distance, error) {
	d := &Distance{}

	if fiducial != nil {
		d.SCF1 = fiducial
	} else {
		s1, err := New(cube1, size)
		if err != nil {
			return nil, fmt.Errorf("scf: cube 1: %w", err)
		}
		if err := s1.Run(RunOptions{}); err != nil {
			return nil, fmt.Errorf("scf: cube 1: %w", err)
		}
		d.SCF1 = s1
	}

	s2, err := New(cube2, size)
	if err != nil {
		return nil, fmt.Errorf("scf: cube 2: %w", err)
	}
	if err := s2.Run(RunOptions{}); err != nil {
		return nil, fmt.Errorf("scf: cube 2: %w", err)
	}
	d.SCF2 = s2

	if d.SCF1.Size() != d.SCF2.Size() {
		return nil, fmt.Errorf("scf: surface sizes differ: %d vs %d", d.SCF1.Size(), d.SCF2.Size())
	}
	if d.SCF1.Surface() == nil {
		return nil, fmt.Errorf("scf: fiducial statistic has not been run")
	}
	return d, nil
}

// DistanceMetric returns the root mean squared difference between the two
// surfaces over their finite cells. With weighted set, each squared
// difference is scaled by 1/r^2 in lag space to de-emphasize large lags,
// which sample fewer independent sightlines under periodic wrap; the
// zero-lag center is weighted as if r were 1.
func (d *Distance) DistanceMetric(weighted bool) (float64, error) {
	size := d.SCF1.Size()
	half := size / 2
	s1 := d.SCF1.Surface()
	s2 := d.SCF2.Surface()

	total := 0.0
	count := 0
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			a := s1[i*size+j]
			b := s2[i*size+j]
			if math.IsNaN(a) || math.IsNaN(b) {
				continue
			}
			diff := a - b
			if weighted {
				r := math.Hypot(float64(i-half), float64(j-half))
				if r == 0 {
					r = 1
				}
				diff /= r
			}
			total += diff * diff
			count++
		}
	}
	if count == 0 {
		return 0, fmt.Errorf("scf: no finite surface cells to compare")
	}
	d.distance = math.Sqrt(total / float64(count))
	d.done = true
	return d.distance, nil
}

// DistanceValue returns the most recently computed distance and whether
// DistanceMetric has been called.
func (d *Distance) DistanceValue() (float64, bool) { return d.distance, d.done }
