// Package mvc implements the Modified Velocity Centroids statistic
// (Lazarian & Esquivel 2003) and its distance metric.
//
// The 2-D MVC power spectrum is built from three same-shape moment maps.
// With normalized centroids the true velocity-centroid transform decomposes
// into a moment0-weighted centroid term minus a velocity-dispersion
// correction, which is what ComputeSurface evaluates in closed form.
//
// NaN values in the input maps are replaced with each map's own minimum
// finite value, unlike the VCA zero-fill policy: blank centroid sightlines
// sit at the noise floor, they do not carry zero velocity.
package mvc
