// Package testutil provides shared test utilities and fixtures.
//
// Fixtures are plain data (pixel buffers, row-major elevation values, raw
// snapshot JSON) so that any package, including the ones they describe, can
// use them from internal tests without import cycles.
package testutil

import (
	"math"
	"testing"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertInDelta fails the test if got and want differ by more than delta.
func AssertInDelta(t *testing.T, name string, got, want, delta float64) {
	t.Helper()
	if math.Abs(got-want) > delta {
		t.Errorf("%s = %v, want %v (±%v)", name, got, want, delta)
	}
}

// EncodeHeight is the inverse of the terrain-RGB formula, rounded to the
// nearest 0.1 m step.
func EncodeHeight(meters float64) (r, g, b uint8) {
	v := int(math.Round((meters + 10000) * 10))
	if v < 0 {
		v = 0
	}
	if v > 0xFFFFFF {
		v = 0xFFFFFF
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v)
}

// TerrainPixels renders a height function into a terrain-RGB buffer.
// channels is 3 (RGB) or 4 (RGBA with opaque alpha).
func TerrainPixels(width, height, channels int, heightAt func(x, y int) float64) []byte {
	buf := make([]byte, width*height*channels)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := (y*width + x) * channels
			buf[i], buf[i+1], buf[i+2] = EncodeHeight(heightAt(x, y))
			if channels > 3 {
				buf[i+3] = 0xFF
			}
		}
	}
	return buf
}

// ConstantValues returns a rows×cols grid filled with v.
func ConstantValues(rows, cols int, v float64) []float64 {
	out := make([]float64, rows*cols)
	for i := range out {
		out[i] = v
	}
	return out
}

// RampValues returns a grid that rises linearly from west (from) to east (to).
func RampValues(rows, cols int, from, to float64) []float64 {
	out := make([]float64, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			out[r*cols+c] = from + (to-from)*float64(c)/float64(cols-1)
		}
	}
	return out
}

// ConeValues returns a grid at base elevation with a cone of the given peak
// height and radius (in cells) centred at (cx, cy).
func ConeValues(rows, cols int, cx, cy, radius, base, peak float64) []float64 {
	out := make([]float64, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			d := math.Hypot(float64(c)-cx, float64(r)-cy)
			v := base
			if d < radius {
				v = base + (peak-base)*(1-d/radius)
			}
			out[r*cols+c] = v
		}
	}
	return out
}

// SpikeValues returns a flat grid with one raised sample at (row, col).
func SpikeValues(rows, cols, row, col int, base, spike float64) []float64 {
	out := ConstantValues(rows, cols, base)
	out[row*cols+col] = spike
	return out
}

// SnapshotJSON is a persisted plan in the shape the map editor exchanges:
// string and numeric ids, a zone, and a pass-through contour.
const SnapshotJSON = `{
  "name": "Phase 1",
  "mgrsCoord": "15RYP81881486",
  "units": [
    {"id": "1718900000001", "position": [29.95, -90.07], "type": "infantry"},
    {"id": 1718900000002, "position": [29.96, -90.08], "type": "tank"}
  ],
  "zones": [
    {"id": 1718900000003, "type": "enemyZone", "center": [29.97, -90.06], "radiusMeters": 150}
  ],
  "contours": [[[29.9, -90.1], [29.91, -90.11]]],
  "createdAt": "2025-06-20T14:00:00.000Z",
  "imageId": 42
}`
