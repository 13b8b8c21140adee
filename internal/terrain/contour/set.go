package contour

import (
	"encoding/json"

	polyline "github.com/twpayne/go-polyline"

	"github.com/banshee-data/terrain.planner/internal/terrain/geo"
)

// Contour is one projected line tagged with the level it was extracted at.
type Contour struct {
	Level  float64      `json:"level"`
	Closed bool         `json:"closed"`
	Points []geo.LatLng `json:"points"`
}

// Set is the pipeline output, grouped by level in the order levels were
// requested.
type Set []Contour

// Lines returns the untagged [lat, lng] shape stored on snapshots.
func (s Set) Lines() [][][2]float64 {
	out := make([][][2]float64, len(s))
	for i, c := range s {
		line := make([][2]float64, len(c.Points))
		for j, p := range c.Points {
			line[j] = [2]float64{p.Lat, p.Lng}
		}
		out[i] = line
	}
	return out
}

// Levels returns the distinct levels present, in output order.
func (s Set) Levels() []float64 {
	var out []float64
	seen := make(map[float64]bool)
	for _, c := range s {
		if !seen[c.Level] {
			seen[c.Level] = true
			out = append(out, c.Level)
		}
	}
	return out
}

func (s Set) countLevel(level float64) int {
	n := 0
	for _, c := range s {
		if c.Level == level {
			n++
		}
	}
	return n
}

// FeatureCollection is a GeoJSON FeatureCollection of contour LineStrings.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a single GeoJSON feature.
type Feature struct {
	Type       string         `json:"type"`
	Geometry   LineString     `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// LineString coordinates are [lon, lat] as GeoJSON requires.
type LineString struct {
	Type        string       `json:"type"`
	Coordinates [][2]float64 `json:"coordinates"`
}

// GeoJSON converts the set to a FeatureCollection with level and closed
// properties on every feature.
func (s Set) GeoJSON() FeatureCollection {
	fc := FeatureCollection{Type: "FeatureCollection", Features: make([]Feature, 0, len(s))}
	for _, c := range s {
		coords := make([][2]float64, len(c.Points))
		for i, p := range c.Points {
			coords[i] = [2]float64{p.Lng, p.Lat}
		}
		fc.Features = append(fc.Features, Feature{
			Type:     "Feature",
			Geometry: LineString{Type: "LineString", Coordinates: coords},
			Properties: map[string]any{
				"level":  c.Level,
				"closed": c.Closed,
			},
		})
	}
	return fc
}

// MarshalGeoJSON is a convenience wrapper around json.Marshal(s.GeoJSON()).
func (s Set) MarshalGeoJSON() ([]byte, error) {
	return json.Marshal(s.GeoJSON())
}

// EncodePolylines encodes each contour with the Google polyline algorithm
// (precision 1e-5, lat before lng).
func (s Set) EncodePolylines() []string {
	out := make([]string, len(s))
	for i, c := range s {
		coords := make([][]float64, len(c.Points))
		for j, p := range c.Points {
			coords[j] = []float64{p.Lat, p.Lng}
		}
		out[i] = string(polyline.EncodeCoords(coords))
	}
	return out
}

// DecodePolyline reverses EncodePolylines for a single line.
func DecodePolyline(s string) ([]geo.LatLng, error) {
	coords, _, err := polyline.DecodeCoords([]byte(s))
	if err != nil {
		return nil, err
	}
	out := make([]geo.LatLng, len(coords))
	for i, c := range coords {
		out[i] = geo.LatLng{Lat: c[0], Lng: c[1]}
	}
	return out, nil
}
