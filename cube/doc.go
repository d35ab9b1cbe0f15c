// Package cube provides the real-valued field types the turbulence
// statistics operate on: 2-D maps and 3-D spectral-line cubes.
//
// The package intentionally does no file I/O. Fields are constructed from
// raw row-major slices; FITS (or any other) loading is the caller's concern.
// Constructors copy their input, so a field never aliases caller memory, and
// NaN sanitization mutates only the owned copy.
package cube
