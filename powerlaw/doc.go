// Package powerlaw fits power-law models to radial spectra and derives
// slope statistics from them.
//
// All fits regress log10(value) on log10(frequency) by ordinary least
// squares, with coefficient standard errors from the residual variance. The
// broken model is a continuous two-segment power law; the break can be
// supplied or located by a residual grid search.
package powerlaw
