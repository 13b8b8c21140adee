// Package tile addresses slippy-map terrain tiles and resolves MGRS grid
// references to the tile that covers them.
package tile

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/banshee-data/terrain.planner/internal/terrain/geo"
)

// DefaultZoom is the zoom used when none is configured. At zoom 14 a
// 256-pixel tile spans roughly 2.4 km at the equator.
const DefaultZoom = 14

// MaxZoom bounds ParseTile and PointToTile.
const MaxZoom = 24

// ErrInvalidTile is returned by ParseTile for malformed or out-of-range
// tile addresses.
var ErrInvalidTile = errors.New("invalid tile address")

// Tile is a Web Mercator tile address.
type Tile struct {
	X int
	Y int
	Z int
}

// String formats the tile as z/x/y.
func (t Tile) String() string {
	return fmt.Sprintf("%d/%d/%d", t.Z, t.X, t.Y)
}

// ParseTile parses a z/x/y tile address.
func ParseTile(s string) (Tile, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return Tile{}, fmt.Errorf("%w: %q: want z/x/y", ErrInvalidTile, s)
	}
	var n [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return Tile{}, fmt.Errorf("%w: %q: %v", ErrInvalidTile, s, err)
		}
		n[i] = v
	}
	t := Tile{Z: n[0], X: n[1], Y: n[2]}
	if err := t.validate(); err != nil {
		return Tile{}, fmt.Errorf("%w: %q: %v", ErrInvalidTile, s, err)
	}
	return t, nil
}

func (t Tile) validate() error {
	if t.Z < 0 || t.Z > MaxZoom {
		return fmt.Errorf("zoom %d out of range [0,%d]", t.Z, MaxZoom)
	}
	n := 1 << t.Z
	if t.X < 0 || t.X >= n || t.Y < 0 || t.Y >= n {
		return fmt.Errorf("x/y must be in [0,%d) at zoom %d", n, t.Z)
	}
	return nil
}

// PointToTile returns the tile containing lon/lat at zoom z. Longitudes wrap
// around the antimeridian; latitudes beyond the Mercator limit clamp to the
// first or last row.
func PointToTile(lon, lat float64, z int) Tile {
	z2 := math.Exp2(float64(z))
	sin := math.Sin(lat * math.Pi / 180)
	x := z2 * (lon/360 + 0.5)
	y := z2 * (0.5 - 0.25*math.Log((1+sin)/(1-sin))/math.Pi)

	x = math.Mod(x, z2)
	if x < 0 {
		x += z2
	}
	switch {
	case math.IsNaN(y) || y < 0:
		y = 0
	case y >= z2:
		y = z2 - 1
	}
	return Tile{X: int(math.Floor(x)), Y: int(math.Floor(y)), Z: z}
}

// BBox returns the geographic extent of the tile.
func (t Tile) BBox() geo.BoundingBox {
	return geo.BoundingBox{
		MinLon: tileLon(t.X, t.Z),
		MinLat: tileLat(t.Y+1, t.Z),
		MaxLon: tileLon(t.X+1, t.Z),
		MaxLat: tileLat(t.Y, t.Z),
	}
}

func tileLon(x, z int) float64 {
	return float64(x)/math.Exp2(float64(z))*360 - 180
}

func tileLat(y, z int) float64 {
	n := math.Pi - 2*math.Pi*float64(y)/math.Exp2(float64(z))
	return 180 / math.Pi * math.Atan(math.Sinh(n))
}
