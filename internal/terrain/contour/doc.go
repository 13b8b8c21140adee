// Package contour runs the terrain contour pipeline: decode a terrain-RGB
// tile, extract iso-elevation lines and project them onto the tile's
// bounding box.
//
// Responsibilities: level selection (explicit, interval-derived or default),
// unit conversion of configured levels, noise filtering, and the export
// shapes consumed downstream (snapshot lines, GeoJSON, encoded polylines).
// Key types: Pipeline, Set, Contour.
//
// Dependency rule: contour composes elevation, isoline and geo. Nothing in
// internal/terrain imports contour.
package contour
