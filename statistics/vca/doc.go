// Package vca implements the Velocity Channel Analysis statistic
// (Lazarian & Pogosyan 2004) and its distance metric.
//
// VCA measures how the spatial power spectrum of a spectral-line cube
// responds to the thickness of its velocity channels. The cube can be
// degraded to thicker slices before the transform; the 2-D statistic is the
// full cube power spectrum summed over the spectral-frequency axis, and the
// 1-D profile is fit by a (possibly broken) power law.
//
// NaN values are zero-filled on ingestion, unlike the MVC/SCF minimum-fill
// policy: a blanked channel carries no emission and therefore no power.
package vca
