package tile

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/banshee-data/terrain.planner/internal/terrain/geo"
)

// ErrInvalidMGRS is returned for grid references that cannot be decoded.
var ErrInvalidMGRS = errors.New("invalid MGRS reference")

// Square is a decoded MGRS reference: the UTM position of the south-west
// corner of the referenced square and the square's side length in meters.
type Square struct {
	Zone      int
	Band      byte
	Easting   float64
	Northing  float64
	Precision float64
}

const (
	setOriginColumns = "AJSAJS"
	setOriginRows    = "AFAFAF"
	hundredKM        = 100000.0
)

// ParseMGRS decodes a reference such as "33UXP0500444998". Spaces are
// ignored and letters may be lower case.
func ParseMGRS(s string) (Square, error) {
	ref := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	bad := func(format string, args ...any) (Square, error) {
		return Square{}, fmt.Errorf("%w: %q: %s", ErrInvalidMGRS, s, fmt.Sprintf(format, args...))
	}

	i := 0
	for i < len(ref) && ref[i] >= '0' && ref[i] <= '9' {
		i++
	}
	if i == 0 || i > 2 {
		return bad("zone must be 1 or 2 digits")
	}
	zone, _ := strconv.Atoi(ref[:i])
	if zone < 1 || zone > 60 {
		return bad("zone %d out of range", zone)
	}
	if i+3 > len(ref) {
		return bad("too short")
	}

	band := ref[i]
	minNorthing, ok := bandMinNorthing[band]
	if !ok {
		return bad("band letter %q", band)
	}
	i++

	set := zone % 6
	if set == 0 {
		set = 6
	}
	east100k, err := eastingFromLetter(ref[i], set)
	if err != nil {
		return bad("%v", err)
	}
	north100k, err := northingFromLetter(ref[i+1], set)
	if err != nil {
		return bad("%v", err)
	}
	i += 2
	for north100k < minNorthing {
		north100k += 2000000
	}

	digits := ref[i:]
	if len(digits)%2 != 0 || len(digits) > 10 {
		return bad("easting and northing must have equal length")
	}
	sq := Square{Zone: zone, Band: band, Easting: east100k, Northing: north100k, Precision: hundredKM}
	if sep := len(digits) / 2; sep > 0 {
		e, errE := strconv.Atoi(digits[:sep])
		n, errN := strconv.Atoi(digits[sep:])
		if errE != nil || errN != nil {
			return bad("non-numeric easting or northing")
		}
		sq.Precision = hundredKM / math.Pow10(sep)
		sq.Easting += float64(e) * sq.Precision
		sq.Northing += float64(n) * sq.Precision
	}
	return sq, nil
}

// MGRSToPoint returns the center of the referenced square as lon, lat.
func MGRSToPoint(s string) (lon, lat float64, err error) {
	sq, err := ParseMGRS(s)
	if err != nil {
		return 0, 0, err
	}
	c := sq.Bounds().Center()
	return c.Lng, c.Lat, nil
}

// TileForMGRS returns the tile at zoom z containing the center of the
// referenced square.
func TileForMGRS(s string, z int) (Tile, error) {
	lon, lat, err := MGRSToPoint(s)
	if err != nil {
		return Tile{}, err
	}
	return PointToTile(lon, lat, z), nil
}

// Bounds returns the geographic extent of the square, taking its south-west
// and north-east corners through the UTM inverse.
func (sq Square) Bounds() geo.BoundingBox {
	sw := utmToLatLng(sq.Easting, sq.Northing, sq.Zone, sq.Band)
	ne := utmToLatLng(sq.Easting+sq.Precision, sq.Northing+sq.Precision, sq.Zone, sq.Band)
	return geo.BoundingBox{MinLon: sw.Lng, MinLat: sw.Lat, MaxLon: ne.Lng, MaxLat: ne.Lat}
}

// bandMinNorthing is the lowest northing inside each latitude band, used to
// lift the 100 km row letter (which repeats every 2000 km) into the band.
var bandMinNorthing = map[byte]float64{
	'C': 1100000, 'D': 2000000, 'E': 2800000, 'F': 3700000,
	'G': 4600000, 'H': 5500000, 'J': 6400000, 'K': 7300000,
	'L': 8200000, 'M': 9100000, 'N': 0, 'P': 800000,
	'Q': 1700000, 'R': 2600000, 'S': 3500000, 'T': 4400000,
	'U': 5300000, 'V': 6200000, 'W': 7000000, 'X': 7900000,
}

// nextLetter steps through the MGRS alphabet, which omits I and O.
func nextLetter(c byte) byte {
	c++
	if c == 'I' || c == 'O' {
		c++
	}
	return c
}

func eastingFromLetter(e byte, set int) (float64, error) {
	if e < 'A' || e > 'Z' || e == 'I' || e == 'O' {
		return 0, fmt.Errorf("column letter %q", e)
	}
	cur := setOriginColumns[set-1]
	v := hundredKM
	wrapped := false
	for cur != e {
		cur = nextLetter(cur)
		if cur > 'Z' {
			if wrapped {
				return 0, fmt.Errorf("column letter %q", e)
			}
			cur = 'A'
			wrapped = true
		}
		v += hundredKM
	}
	return v, nil
}

func northingFromLetter(n byte, set int) (float64, error) {
	if n < 'A' || n > 'V' || n == 'I' || n == 'O' {
		return 0, fmt.Errorf("row letter %q", n)
	}
	cur := setOriginRows[set-1]
	v := 0.0
	wrapped := false
	for cur != n {
		cur = nextLetter(cur)
		if cur > 'V' {
			if wrapped {
				return 0, fmt.Errorf("row letter %q", n)
			}
			cur = 'A'
			wrapped = true
		}
		v += hundredKM
	}
	return v, nil
}

// WGS84 parameters for the UTM inverse.
const (
	utmK0      = 0.9996
	wgs84A     = 6378137.0
	wgs84EccSq = 0.00669438
)

func utmToLatLng(easting, northing float64, zone int, band byte) geo.LatLng {
	e1 := (1 - math.Sqrt(1-wgs84EccSq)) / (1 + math.Sqrt(1-wgs84EccSq))
	eccPrimeSq := wgs84EccSq / (1 - wgs84EccSq)

	x := easting - 500000
	y := northing
	if band < 'N' {
		y -= 10000000
	}
	lonOrigin := float64((zone-1)*6 - 180 + 3)

	m := y / utmK0
	mu := m / (wgs84A * (1 - wgs84EccSq/4 - 3*wgs84EccSq*wgs84EccSq/64 - 5*wgs84EccSq*wgs84EccSq*wgs84EccSq/256))
	phi1 := mu +
		(3*e1/2-27*e1*e1*e1/32)*math.Sin(2*mu) +
		(21*e1*e1/16-55*e1*e1*e1*e1/32)*math.Sin(4*mu) +
		(151*e1*e1*e1/96)*math.Sin(6*mu)

	sinPhi := math.Sin(phi1)
	cosPhi := math.Cos(phi1)
	tanPhi := math.Tan(phi1)
	n1 := wgs84A / math.Sqrt(1-wgs84EccSq*sinPhi*sinPhi)
	t1 := tanPhi * tanPhi
	c1 := eccPrimeSq * cosPhi * cosPhi
	r1 := wgs84A * (1 - wgs84EccSq) / math.Pow(1-wgs84EccSq*sinPhi*sinPhi, 1.5)
	d := x / (n1 * utmK0)

	lat := phi1 - (n1*tanPhi/r1)*(d*d/2-
		(5+3*t1+10*c1-4*c1*c1-9*eccPrimeSq)*math.Pow(d, 4)/24+
		(61+90*t1+298*c1+45*t1*t1-252*eccPrimeSq-3*c1*c1)*math.Pow(d, 6)/720)
	lon := (d - (1+2*t1+c1)*math.Pow(d, 3)/6 +
		(5-2*c1+28*t1-3*c1*c1+8*eccPrimeSq+24*t1*t1)*math.Pow(d, 5)/120) / cosPhi

	return geo.LatLng{
		Lat: lat * 180 / math.Pi,
		Lng: lonOrigin + lon*180/math.Pi,
	}
}
