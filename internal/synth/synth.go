// Package synth generates deterministic synthetic fields and cubes with
// known power-law spectra, for tests and the demo command.
package synth

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/alexruiz95/turbustat/cube"
	"github.com/alexruiz95/turbustat/spectral"
)

// PowerLawField2D returns an nx-by-ny Gaussian random field whose 2-D
// power spectrum follows |k|^-index. The field is built in the Fourier
// domain: complex white noise shaped by a k^(-index/2) amplitude envelope,
// inverse transformed, real part taken. Zero frequency is suppressed, so
// the field has (near) zero mean.
func PowerLawField2D(nx, ny int, index float64, rng *rand.Rand) (*cube.Field2D, error) {
	spec := make([]complex128, nx*ny)
	for x := 0; x < nx; x++ {
		fx := freqIndex(x, nx)
		for y := 0; y < ny; y++ {
			fy := freqIndex(y, ny)
			k := math.Hypot(fx, fy)
			if k == 0 {
				continue
			}
			amp := math.Pow(k, -index/2)
			spec[x*ny+y] = complex(amp*rng.NormFloat64(), amp*rng.NormFloat64())
		}
	}
	if _, err := spectral.IFFT2Complex(spec, nx, ny); err != nil {
		return nil, fmt.Errorf("synth: inverse transform: %w", err)
	}
	data := make([]float64, nx*ny)
	for i, c := range spec {
		data[i] = real(c)
	}
	return &cube.Field2D{Data: data, NX: nx, NY: ny}, nil
}

// PowerLawCube returns a cube whose channels are independent power-law
// fields sharing one spectral index, offset so every channel is strictly
// positive. The spatial power spectrum of each channel (and of the summed
// cube) follows |k|^-index.
func PowerLawCube(nv, nx, ny int, index float64, rng *rand.Rand) (*cube.Field3D, error) {
	data := make([]float64, nv*nx*ny)
	for v := 0; v < nv; v++ {
		f, err := PowerLawField2D(nx, ny, index, rng)
		if err != nil {
			return nil, err
		}
		// Lift above zero so moment maps are well defined.
		min := cube.MinFinite(f.Data)
		for i, val := range f.Data {
			data[v*nx*ny+i] = val - min + 1e-3
		}
	}
	return &cube.Field3D{Data: data, NV: nv, NX: nx, NY: ny}, nil
}

// freqIndex maps an FFT bin to its signed integer frequency.
func freqIndex(i, n int) float64 {
	if i <= n/2 {
		return float64(i)
	}
	return float64(i - n)
}
