// Package radial reduces center-shifted 2-D surfaces to 1-D profiles by
// averaging over shells of constant distance from the surface center.
//
// For a power spectrum the shells are isophotes of spatial frequency; for a
// correlation surface they are isophotes of lag. Either way the result is an
// ordered sequence of (frequency, value) pairs with optional per-shell
// scatter.
package radial
