package tile

import (
	"errors"
	"math"
	"testing"

	"github.com/banshee-data/terrain.planner/internal/terrain/geo"
	"github.com/banshee-data/terrain.planner/internal/testutil"
)

func TestPointToTile_Known(t *testing.T) {
	tests := []struct {
		lon, lat float64
		z        int
		want     Tile
	}{
		{0, 0, 0, Tile{X: 0, Y: 0, Z: 0}},
		{0.001, -0.001, 1, Tile{X: 1, Y: 1, Z: 1}},
		{-0.001, 0.001, 1, Tile{X: 0, Y: 0, Z: 1}},
		{-180, 0, 2, Tile{X: 0, Y: 2, Z: 2}},
		{190, 0, 1, Tile{X: 0, Y: 1, Z: 1}}, // wraps to -170
		{0, 89.9, 3, Tile{X: 4, Y: 0, Z: 3}},
	}
	for _, tt := range tests {
		if got := PointToTile(tt.lon, tt.lat, tt.z); got != tt.want {
			t.Errorf("PointToTile(%v, %v, %d) = %v, want %v", tt.lon, tt.lat, tt.z, got, tt.want)
		}
	}
}

func TestPointToTile_PoleClamps(t *testing.T) {
	if got := PointToTile(10, 90, 4); got.Y != 0 {
		t.Errorf("north pole row = %d, want 0", got.Y)
	}
	if got := PointToTile(10, -90, 4); got.Y != 15 {
		t.Errorf("south pole row = %d, want 15", got.Y)
	}
}

func TestTile_BBoxContainsPoint(t *testing.T) {
	points := []geo.LatLng{
		{Lat: 29.9511, Lng: -90.0715},
		{Lat: 48.2495, Lng: 16.4145},
		{Lat: -33.8688, Lng: 151.2093},
		{Lat: 64.1466, Lng: -21.9426},
	}
	for _, z := range []int{0, 5, DefaultZoom, 16} {
		for _, p := range points {
			tl := PointToTile(p.Lng, p.Lat, z)
			b := tl.BBox()
			if !b.Valid() {
				t.Errorf("tile %v has invalid bbox %v", tl, b)
			}
			if !b.Contains(p) {
				t.Errorf("tile %v bbox %v does not contain %+v", tl, b, p)
			}
		}
	}
}

func TestTile_BBoxWorld(t *testing.T) {
	b := Tile{}.BBox()
	testutil.AssertInDelta(t, "MinLon", b.MinLon, -180, 1e-9)
	testutil.AssertInDelta(t, "MaxLon", b.MaxLon, 180, 1e-9)
	testutil.AssertInDelta(t, "MaxLat", b.MaxLat, 85.0511287798, 1e-9)
	testutil.AssertInDelta(t, "MinLat", b.MinLat, -85.0511287798, 1e-9)
}

func TestTile_AdjacentTilesShareEdges(t *testing.T) {
	a := Tile{X: 100, Y: 200, Z: 10}
	east := Tile{X: 101, Y: 200, Z: 10}
	south := Tile{X: 100, Y: 201, Z: 10}
	if a.BBox().MaxLon != east.BBox().MinLon {
		t.Error("east neighbour does not share the meridian")
	}
	if a.BBox().MinLat != south.BBox().MaxLat {
		t.Error("south neighbour does not share the parallel")
	}
}

func TestParseTile(t *testing.T) {
	got, err := ParseTile("14/4205/6784")
	testutil.AssertNoError(t, err)
	want := Tile{X: 4205, Y: 6784, Z: 14}
	if got != want {
		t.Errorf("ParseTile = %v, want %v", got, want)
	}
	if got.String() != "14/4205/6784" {
		t.Errorf("String() = %q", got.String())
	}

	for _, s := range []string{"", "14/1", "a/b/c", "2/4/0", "2/0/-1", "99/0/0", "1/0/0/0"} {
		if _, err := ParseTile(s); !errors.Is(err, ErrInvalidTile) {
			t.Errorf("ParseTile(%q) error = %v, want ErrInvalidTile", s, err)
		}
	}
}

func TestParseMGRS(t *testing.T) {
	sq, err := ParseMGRS("33UXP0500444998")
	testutil.AssertNoError(t, err)
	if sq.Zone != 33 || sq.Band != 'U' {
		t.Errorf("zone/band = %d%c, want 33U", sq.Zone, sq.Band)
	}
	testutil.AssertInDelta(t, "Easting", sq.Easting, 605004, 1e-9)
	testutil.AssertInDelta(t, "Northing", sq.Northing, 5344998, 1e-9)
	testutil.AssertInDelta(t, "Precision", sq.Precision, 1, 1e-12)
}

func TestParseMGRS_PrecisionFromDigits(t *testing.T) {
	tests := []struct {
		ref  string
		want float64
	}{
		{"33UXP", 100000},
		{"33UXP04", 10000},
		{"33UXP0544", 1000},
		{"33UXP050449", 100},
		{"33UXP05004499", 10},
		{"33UXP0500444998", 1},
	}
	for _, tt := range tests {
		sq, err := ParseMGRS(tt.ref)
		if err != nil {
			t.Errorf("ParseMGRS(%q): %v", tt.ref, err)
			continue
		}
		if sq.Precision != tt.want {
			t.Errorf("ParseMGRS(%q).Precision = %v, want %v", tt.ref, sq.Precision, tt.want)
		}
	}
}

func TestParseMGRS_LenientInput(t *testing.T) {
	a, err := ParseMGRS("33U XP 05004 44998")
	testutil.AssertNoError(t, err)
	b, err := ParseMGRS("33uxp0500444998")
	testutil.AssertNoError(t, err)
	if a != b {
		t.Errorf("spaced %+v != lower-case %+v", a, b)
	}
}

func TestParseMGRS_Invalid(t *testing.T) {
	for _, s := range []string{
		"",
		"XP0500444998",    // no zone
		"333UXP05004",     // three-digit zone
		"61UXP05004",      // zone out of range
		"33IXP05004",      // I is not a band
		"33UXP050044499",  // odd digit count
		"33UXW0500444998", // row letters stop at V
		"33UXP05A0444998", // non-numeric
		"33U",
	} {
		if _, err := ParseMGRS(s); !errors.Is(err, ErrInvalidMGRS) {
			t.Errorf("ParseMGRS(%q) error = %v, want ErrInvalidMGRS", s, err)
		}
	}
}

func TestMGRSToPoint(t *testing.T) {
	lon, lat, err := MGRSToPoint("33UXP0500444998")
	testutil.AssertNoError(t, err)
	testutil.AssertInDelta(t, "lon", lon, 16.4145, 1e-4)
	testutil.AssertInDelta(t, "lat", lat, 48.24949, 1e-4)
}

func TestMGRSToPoint_SouthernHemisphere(t *testing.T) {
	// Sydney Opera House area.
	lon, lat, err := MGRSToPoint("56HLH3432451502")
	testutil.AssertNoError(t, err)
	if lat > -33 || lat < -35 {
		t.Errorf("lat = %v, want about -33.86", lat)
	}
	if lon < 150.5 || lon > 152 {
		t.Errorf("lon = %v, want about 151.2", lon)
	}
}

func TestMGRSToPoint_CenterOfSquare(t *testing.T) {
	coarse, err := ParseMGRS("33UXP0544")
	testutil.AssertNoError(t, err)
	lon, lat, err := MGRSToPoint("33UXP0544")
	testutil.AssertNoError(t, err)
	b := coarse.Bounds()
	if !b.Contains(geo.LatLng{Lat: lat, Lng: lon}) {
		t.Errorf("center (%v, %v) outside square %v", lon, lat, b)
	}
	if math.Abs(lon-b.MinLon) < 1e-6 || math.Abs(lat-b.MinLat) < 1e-6 {
		t.Error("point sits on the south-west corner, want the center")
	}
}

func TestTileForMGRS(t *testing.T) {
	tl, err := TileForMGRS("33UXP0500444998", DefaultZoom)
	testutil.AssertNoError(t, err)
	lon, lat, err := MGRSToPoint("33UXP0500444998")
	testutil.AssertNoError(t, err)
	if want := PointToTile(lon, lat, DefaultZoom); tl != want {
		t.Errorf("TileForMGRS = %v, want %v", tl, want)
	}

	if _, err := TileForMGRS("garbage", DefaultZoom); !errors.Is(err, ErrInvalidMGRS) {
		t.Errorf("TileForMGRS(garbage) error = %v", err)
	}
}
