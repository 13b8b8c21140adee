// Package isoline extracts iso-value lines from a regular scalar grid with
// marching squares.
//
// Classification rule: a sample is "above" a level when value >= level.
// Saddle cells are resolved by the mean of their four corners under the same
// rule. An edge whose two samples are equal never straddles a level under
// this rule, so degenerate edges are skipped rather than interpolated.
//
// Segments are chained by the identity of the grid edge they cross, not by
// comparing floating-point coordinates, so every output line is a connected
// walk. Lines that reach the grid border are open; lines that do not are
// closed and repeat their first point at the end.
package isoline

// Field is a read-only scalar grid. *elevation.Grid satisfies it.
type Field interface {
	Rows() int
	Cols() int
	At(row, col int) float64
}

// Point is a position in grid space: X is the column, Y is the row.
// Crossings are sub-sample, so both are fractional.
type Point struct {
	X float64
	Y float64
}

// Line is one connected contour at Level.
type Line struct {
	Level  float64
	Points []Point
	Closed bool
}

// Extract runs marching squares for every level in order. The result holds
// the lines for levels[0] first, then levels[1], and so on. Duplicate levels
// produce duplicate lines. An empty level list yields no lines.
func Extract(f Field, levels []float64) []Line {
	var out []Line
	for _, level := range levels {
		out = append(out, ExtractLevel(f, level)...)
	}
	return out
}

// ExtractLevel runs marching squares for a single level.
func ExtractLevel(f Field, level float64) []Line {
	rows, cols := f.Rows(), f.Cols()
	if rows < 2 || cols < 2 {
		return nil
	}

	tr := newTracer(cols)
	for r := 0; r < rows-1; r++ {
		for c := 0; c < cols-1; c++ {
			tr.cell(f, r, c, level)
		}
	}
	return tr.lines(level)
}

// Cell edges, named by their side of the cell.
const (
	edgeTop = iota
	edgeRight
	edgeBottom
	edgeLeft
)

// segments maps a corner case to the edge pairs it joins. Bits are
// tl=8, tr=4, br=2, bl=1 with a set bit meaning "above". Cases 5 and 10 are
// saddles and are resolved in cell.
var segments = [16][][2]int{
	0:  nil,
	1:  {{edgeLeft, edgeBottom}},
	2:  {{edgeBottom, edgeRight}},
	3:  {{edgeLeft, edgeRight}},
	4:  {{edgeTop, edgeRight}},
	6:  {{edgeTop, edgeBottom}},
	7:  {{edgeTop, edgeLeft}},
	8:  {{edgeTop, edgeLeft}},
	9:  {{edgeTop, edgeBottom}},
	11: {{edgeTop, edgeRight}},
	12: {{edgeLeft, edgeRight}},
	13: {{edgeRight, edgeBottom}},
	14: {{edgeLeft, edgeBottom}},
	15: nil,
}

var (
	saddleCutCorners  = [][2]int{{edgeTop, edgeLeft}, {edgeRight, edgeBottom}} // tl and br isolated
	saddleCutOpposite = [][2]int{{edgeTop, edgeRight}, {edgeLeft, edgeBottom}} // tr and bl isolated
)

type corners struct {
	tl, tr, br, bl float64
}

func above(v, level float64) int {
	if v >= level {
		return 1
	}
	return 0
}

// cell classifies the cell whose top-left sample is (r, c) and feeds its
// segments to the tracer.
func (t *tracer) cell(f Field, r, c int, level float64) {
	k := corners{
		tl: f.At(r, c),
		tr: f.At(r, c+1),
		br: f.At(r+1, c+1),
		bl: f.At(r+1, c),
	}
	idx := above(k.tl, level)<<3 | above(k.tr, level)<<2 | above(k.br, level)<<1 | above(k.bl, level)

	pairs := segments[idx]
	switch idx {
	case 5, 10:
		centerAbove := (k.tl+k.tr+k.br+k.bl)/4 >= level
		// In case 5 tr and bl are above; a high center joins them and cuts
		// off tl and br. Case 10 is the mirror image.
		if (idx == 5) == centerAbove {
			pairs = saddleCutCorners
		} else {
			pairs = saddleCutOpposite
		}
	}

	for _, p := range pairs {
		ka, pa := t.crossing(r, c, p[0], k, level)
		kb, pb := t.crossing(r, c, p[1], k, level)
		t.segment(ka, pa, kb, pb)
	}
}

// crossing returns the edge identity and interpolated point where level
// crosses the given side of cell (r, c). Horizontal edges interpolate left
// to right and vertical edges top to bottom, so the two cells sharing an
// edge compute the same point.
func (t *tracer) crossing(r, c, edge int, k corners, level float64) (int, Point) {
	x, y := float64(c), float64(r)
	switch edge {
	case edgeTop:
		return t.hkey(r, c), Point{X: x + lerpT(k.tl, k.tr, level), Y: y}
	case edgeBottom:
		return t.hkey(r+1, c), Point{X: x + lerpT(k.bl, k.br, level), Y: y + 1}
	case edgeLeft:
		return t.vkey(r, c), Point{X: x, Y: y + lerpT(k.tl, k.bl, level)}
	default:
		return t.vkey(r, c+1), Point{X: x + 1, Y: y + lerpT(k.tr, k.br, level)}
	}
}

// lerpT is the fraction of the way from v0 to v1 at which level lies.
// Callers only ask for edges that straddle level, so v0 != v1.
func lerpT(v0, v1, level float64) float64 {
	return (level - v0) / (v1 - v0)
}
