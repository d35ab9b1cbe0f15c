// Package spectral provides the Fourier-domain primitives the turbulence
// statistics are built on: 2-D transforms of real maps, spectral-axis
// real-to-full-spectrum conversion, center shifting, and squared-magnitude
// power surfaces.
//
// The package does not implement FFT kernels itself. Complex transforms run
// on algo-fft plans; real transforms use gonum's real FFT and are expanded
// to the full spectrum by conjugate symmetry.
package spectral
