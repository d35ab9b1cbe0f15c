package spectral

import (
	"fmt"
	"sync"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/dsp/fourier"
)

// scratchBuf holds pooled scratch memory for complex-to-real unpacking.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

func getScratch(n int) (re, im []float64, buf *scratchBuf) {
	buf = scratchPool.Get().(*scratchBuf)
	need := 2 * n
	if cap(buf.data) < need {
		buf.data = make([]float64, need)
	} else {
		buf.data = buf.data[:need]
	}
	return buf.data[:n], buf.data[n:need], buf
}

func putScratch(buf *scratchBuf) {
	scratchPool.Put(buf)
}

// PowerSurface returns |X|^2 for each complex bin. Scratch buffers are
// pooled internally, so in steady state this allocates only the output.
func PowerSurface(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}
	out := make([]float64, len(in))
	re, im, buf := getScratch(len(in))
	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}
	vecmath.Power(out, re, im)
	putScratch(buf)
	return out
}

// MagnitudeSurface returns |X| for each complex bin.
func MagnitudeSurface(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}
	out := make([]float64, len(in))
	re, im, buf := getScratch(len(in))
	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}
	vecmath.Magnitude(out, re, im)
	putScratch(buf)
	return out
}

// FFT2 computes the full complex 2-D forward transform of a real row-major
// nx-by-ny map.
func FFT2(data []float64, nx, ny int) ([]complex128, error) {
	if len(data) != nx*ny {
		return nil, fmt.Errorf("spectral: data length %d does not match %dx%d", len(data), nx, ny)
	}
	in := make([]complex128, len(data))
	for i, v := range data {
		in[i] = complex(v, 0)
	}
	if err := fft2InPlace(in, nx, ny); err != nil {
		return nil, err
	}
	return in, nil
}

// FFT2Complex computes the 2-D forward transform of a complex row-major
// nx-by-ny map in place and also returns it.
func FFT2Complex(data []complex128, nx, ny int) ([]complex128, error) {
	if len(data) != nx*ny {
		return nil, fmt.Errorf("spectral: data length %d does not match %dx%d", len(data), nx, ny)
	}
	if err := fft2InPlace(data, nx, ny); err != nil {
		return nil, err
	}
	return data, nil
}

// IFFT2Complex computes the normalized 2-D inverse transform of a complex
// row-major nx-by-ny map in place and also returns it.
func IFFT2Complex(data []complex128, nx, ny int) ([]complex128, error) {
	if len(data) != nx*ny {
		return nil, fmt.Errorf("spectral: data length %d does not match %dx%d", len(data), nx, ny)
	}
	rowPlan, err := algofft.NewPlan64(ny)
	if err != nil {
		return nil, fmt.Errorf("spectral: row plan: %w", err)
	}
	colPlan, err := algofft.NewPlan64(nx)
	if err != nil {
		return nil, fmt.Errorf("spectral: column plan: %w", err)
	}

	for x := 0; x < nx; x++ {
		row := data[x*ny : (x+1)*ny]
		if err := rowPlan.Inverse(row, row); err != nil {
			return nil, fmt.Errorf("spectral: row inverse transform: %w", err)
		}
	}
	col := make([]complex128, nx)
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			col[x] = data[x*ny+y]
		}
		if err := colPlan.Inverse(col, col); err != nil {
			return nil, fmt.Errorf("spectral: column inverse transform: %w", err)
		}
		for x := 0; x < nx; x++ {
			data[x*ny+y] = col[x]
		}
	}
	return data, nil
}

// fft2InPlace transforms rows then columns with algo-fft plans.
func fft2InPlace(data []complex128, nx, ny int) error {
	rowPlan, err := algofft.NewPlan64(ny)
	if err != nil {
		return fmt.Errorf("spectral: row plan: %w", err)
	}
	colPlan, err := algofft.NewPlan64(nx)
	if err != nil {
		return fmt.Errorf("spectral: column plan: %w", err)
	}

	for x := 0; x < nx; x++ {
		row := data[x*ny : (x+1)*ny]
		if err := rowPlan.Forward(row, row); err != nil {
			return fmt.Errorf("spectral: row transform: %w", err)
		}
	}
	col := make([]complex128, nx)
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			col[x] = data[x*ny+y]
		}
		if err := colPlan.Forward(col, col); err != nil {
			return fmt.Errorf("spectral: column transform: %w", err)
		}
		for x := 0; x < nx; x++ {
			data[x*ny+y] = col[x]
		}
	}
	return nil
}

// RealToFullFFT computes the forward transform of a real-valued line and
// expands the half spectrum to the full length-n complex spectrum using
// conjugate symmetry: X[n-k] = conj(X[k]).
func RealToFullFFT(line []float64) []complex128 {
	n := len(line)
	out := make([]complex128, n)
	if n == 0 {
		return out
	}
	fft := fourier.NewFFT(n)
	half := fft.Coefficients(nil, line)
	copy(out, half)
	for k := len(half); k < n; k++ {
		c := out[n-k]
		out[k] = complex(real(c), -imag(c))
	}
	return out
}

// FFTShift2D returns a copy of the real surface with the zero-frequency
// component moved to the geometric center (nx/2, ny/2).
func FFTShift2D(data []float64, nx, ny int) []float64 {
	out := make([]float64, len(data))
	sx := (nx + 1) / 2
	sy := (ny + 1) / 2
	for x := 0; x < nx; x++ {
		srcX := (x + sx) % nx
		for y := 0; y < ny; y++ {
			srcY := (y + sy) % ny
			out[x*ny+y] = data[srcX*ny+srcY]
		}
	}
	return out
}

// FFTShift2DComplex returns a copy of the complex surface with the
// zero-frequency component moved to the geometric center.
func FFTShift2DComplex(data []complex128, nx, ny int) []complex128 {
	out := make([]complex128, len(data))
	sx := (nx + 1) / 2
	sy := (ny + 1) / 2
	for x := 0; x < nx; x++ {
		srcX := (x + sx) % nx
		for y := 0; y < ny; y++ {
			srcY := (y + sy) % ny
			out[x*ny+y] = data[srcX*ny+srcY]
		}
	}
	return out
}
