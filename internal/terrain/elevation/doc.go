// Package elevation decodes terrain-RGB raster tiles into elevation grids.
//
// Responsibilities: pixel buffer validation, the terrain-RGB height formula,
// and read-only access to the resulting Grid.
// Key types: Grid, DecodeError, Stats.
//
// Dependency rule: elevation is a leaf of the terrain stack. It must not
// import isoline, geo or contour.
package elevation
