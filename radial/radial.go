package radial

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Options control how a surface is reduced to a profile.
type Options struct {
	// LogSpacing selects logarithmically spaced shells instead of unit-width
	// linear shells.
	LogSpacing bool
	// ReturnStddev populates Profile.Stddev with the per-shell standard
	// deviation.
	ReturnStddev bool
	// NBins overrides the shell count. Zero picks one shell per pixel of
	// radius.
	NBins int
}

// Profile is a radially averaged 1-D profile. Freqs is strictly ascending,
// in units of pixels (wavenumber for power spectra, lag for correlation
// surfaces). Stddev is nil unless Options.ReturnStddev was set; nil is the
// checkable "not computed" state.
type Profile struct {
	Freqs  []float64
	Values []float64
	Stddev []float64
}

// HasStddev reports whether per-shell standard deviations were computed.
func (p Profile) HasStddev() bool { return p.Stddev != nil }

// Bin reduces a center-shifted row-major nx-by-ny surface to a radial
// profile around the center (nx/2, ny/2). Shells start at radius 0.5, so
// the center pixel itself is excluded. Shells with no finite samples are
// dropped.
func Bin(surface []float64, nx, ny int, opts Options) (Profile, error) {
	if len(surface) != nx*ny {
		return Profile{}, fmt.Errorf("radial: surface length %d does not match %dx%d", len(surface), nx, ny)
	}
	if nx < 2 || ny < 2 {
		return Profile{}, fmt.Errorf("radial: surface too small to bin: %dx%d", nx, ny)
	}

	rmax := float64(min(nx, ny) / 2)
	if rmax < 1 {
		return Profile{}, fmt.Errorf("radial: no shells inside a %dx%d surface", nx, ny)
	}
	nbins := opts.NBins
	if nbins <= 0 {
		nbins = int(rmax)
	}

	edges := shellEdges(0.5, rmax+0.5, nbins, opts.LogSpacing)

	cx := float64(nx / 2)
	cy := float64(ny / 2)
	samples := make([][]float64, nbins)
	for x := 0; x < nx; x++ {
		dx := float64(x) - cx
		for y := 0; y < ny; y++ {
			dy := float64(y) - cy
			r := math.Hypot(dx, dy)
			v := surface[x*ny+y]
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			b := locateShell(edges, r)
			if b < 0 {
				continue
			}
			samples[b] = append(samples[b], v)
		}
	}

	p := Profile{}
	if opts.ReturnStddev {
		p.Stddev = []float64{}
	}
	for b := 0; b < nbins; b++ {
		if len(samples[b]) == 0 {
			continue
		}
		p.Freqs = append(p.Freqs, shellCenter(edges[b], edges[b+1], opts.LogSpacing))
		p.Values = append(p.Values, stat.Mean(samples[b], nil))
		if opts.ReturnStddev {
			p.Stddev = append(p.Stddev, stat.PopStdDev(samples[b], nil))
		}
	}
	if len(p.Freqs) == 0 {
		return Profile{}, fmt.Errorf("radial: all %d shells empty", nbins)
	}
	return p, nil
}

// shellEdges returns nbins+1 shell boundaries between lo and hi, linear or
// logarithmic.
func shellEdges(lo, hi float64, nbins int, logSpacing bool) []float64 {
	edges := make([]float64, nbins+1)
	if logSpacing {
		llo := math.Log10(lo)
		lhi := math.Log10(hi)
		for i := range edges {
			edges[i] = math.Pow(10, llo+(lhi-llo)*float64(i)/float64(nbins))
		}
		return edges
	}
	for i := range edges {
		edges[i] = lo + (hi-lo)*float64(i)/float64(nbins)
	}
	return edges
}

// shellCenter is the representative frequency of a shell: arithmetic center
// for linear shells, geometric for logarithmic ones (so consecutive
// frequencies keep a constant ratio).
func shellCenter(lo, hi float64, logSpacing bool) float64 {
	if logSpacing {
		return math.Sqrt(lo * hi)
	}
	return (lo + hi) / 2
}

// locateShell returns the shell index containing radius r, or -1 when r is
// outside all shells.
func locateShell(edges []float64, r float64) int {
	if r < edges[0] || r >= edges[len(edges)-1] {
		return -1
	}
	// Shell counts are small; a linear scan beats the bookkeeping of a
	// bisection here.
	for i := 0; i < len(edges)-1; i++ {
		if r < edges[i+1] {
			return i
		}
	}
	return -1
}
