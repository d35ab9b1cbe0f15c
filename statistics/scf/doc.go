// Package scf implements the Spectral Correlation Function statistic
// (Rosolowsky et al. 1999) and its distance metric.
//
// The SCF surface measures how similar a cube's spectra are to themselves
// under spatial offsets: each cell holds the normalized correlation at one
// (dx, dy) lag, with the zero-lag center equal to 1 by construction. Lags
// wrap periodically, so every offset compares the full cube.
//
// The lag loop dominates the cost at O(size^2 * cube volume). Lags are
// independent and read the cube without mutating it, so the surface is
// computed as a bounded parallel map over the lag grid.
package scf
