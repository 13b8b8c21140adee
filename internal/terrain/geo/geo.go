// Package geo maps grid-space positions onto geographic coordinates.
package geo

import (
	"encoding/json"
	"fmt"

	"github.com/banshee-data/terrain.planner/internal/terrain/isoline"
)

// LatLng is a geographic position in degrees. It encodes as the
// two-element array [lat, lng] used by the map editor.
type LatLng struct {
	Lat float64
	Lng float64
}

// MarshalJSON encodes the position as [lat, lng].
func (p LatLng) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.Lat, p.Lng})
}

// UnmarshalJSON decodes a [lat, lng] array.
func (p *LatLng) UnmarshalJSON(data []byte) error {
	var a []float64
	if err := json.Unmarshal(data, &a); err != nil {
		return fmt.Errorf("position must be [lat, lng]: %w", err)
	}
	if len(a) != 2 {
		return fmt.Errorf("position must have 2 elements, got %d", len(a))
	}
	p.Lat, p.Lng = a[0], a[1]
	return nil
}

// Lerp returns the point a fraction e of the way from p to q.
func (p LatLng) Lerp(q LatLng, e float64) LatLng {
	return LatLng{
		Lat: p.Lat + (q.Lat-p.Lat)*e,
		Lng: p.Lng + (q.Lng-p.Lng)*e,
	}
}

// BoundingBox is a geographic rectangle in degrees. Callers guarantee
// MinLon < MaxLon and MinLat < MaxLat.
type BoundingBox struct {
	MinLon float64
	MinLat float64
	MaxLon float64
	MaxLat float64
}

// Valid reports whether the box is non-empty on both axes.
func (b BoundingBox) Valid() bool {
	return b.MinLon < b.MaxLon && b.MinLat < b.MaxLat
}

// Center returns the midpoint of the box.
func (b BoundingBox) Center() LatLng {
	return LatLng{Lat: (b.MinLat + b.MaxLat) / 2, Lng: (b.MinLon + b.MaxLon) / 2}
}

// Contains reports whether p lies inside the box, edges included.
func (b BoundingBox) Contains(p LatLng) bool {
	return p.Lng >= b.MinLon && p.Lng <= b.MaxLon && p.Lat >= b.MinLat && p.Lat <= b.MaxLat
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("[%g,%g,%g,%g]", b.MinLon, b.MinLat, b.MaxLon, b.MaxLat)
}

// Projector maps points of a Cols×Rows grid onto BBox. Column 0 is the
// western edge and row 0 the northern edge.
type Projector struct {
	Cols int
	Rows int
	BBox BoundingBox
}

// Project converts one grid point. An axis with a single sample maps to the
// western or northern edge.
func (pr Projector) Project(pt isoline.Point) LatLng {
	var fx, fy float64
	if pr.Cols > 1 {
		fx = pt.X / float64(pr.Cols-1)
	}
	if pr.Rows > 1 {
		fy = pt.Y / float64(pr.Rows-1)
	}
	return LatLng{
		Lat: pr.BBox.MaxLat - fy*(pr.BBox.MaxLat-pr.BBox.MinLat),
		Lng: pr.BBox.MinLon + fx*(pr.BBox.MaxLon-pr.BBox.MinLon),
	}
}

// ProjectLine converts every point of a line, preserving order.
func (pr Projector) ProjectLine(pts []isoline.Point) []LatLng {
	out := make([]LatLng, len(pts))
	for i, p := range pts {
		out[i] = pr.Project(p)
	}
	return out
}

// Project converts a point of a square gridSize×gridSize grid.
func Project(pt isoline.Point, gridSize int, bbox BoundingBox) LatLng {
	return Projector{Cols: gridSize, Rows: gridSize, BBox: bbox}.Project(pt)
}
