package elevation

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Grid is a row-major elevation grid in meters. Row 0 is the top scanline of
// the source image. A Grid has no mutators; it is safe to share once built.
type Grid struct {
	rows   int
	cols   int
	values []float64
}

// NewGrid builds a Grid from row-major values. The slice is copied.
func NewGrid(rows, cols int, values []float64) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("grid dimensions must be positive, got %dx%d", rows, cols)
	}
	if len(values) != rows*cols {
		return nil, fmt.Errorf("grid needs %d values for %dx%d, got %d", rows*cols, rows, cols, len(values))
	}
	v := make([]float64, len(values))
	copy(v, values)
	return &Grid{rows: rows, cols: cols, values: v}, nil
}

// FromRows builds a Grid from a slice of equal-length rows.
func FromRows(rows [][]float64) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("grid needs at least one row")
	}
	cols := len(rows[0])
	values := make([]float64, 0, len(rows)*cols)
	for i, r := range rows {
		if len(r) != cols {
			return nil, fmt.Errorf("row %d has %d values, want %d", i, len(r), cols)
		}
		values = append(values, r...)
	}
	return NewGrid(len(rows), cols, values)
}

// Rows returns the number of rows (image height).
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns (image width).
func (g *Grid) Cols() int { return g.cols }

// At returns the elevation at (row, col). It panics when out of range, like
// slice indexing.
func (g *Grid) At(row, col int) float64 {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		panic(fmt.Sprintf("elevation: index (%d,%d) out of range %dx%d", row, col, g.rows, g.cols))
	}
	return g.values[row*g.cols+col]
}

// Row returns a copy of one row.
func (g *Grid) Row(row int) []float64 {
	out := make([]float64, g.cols)
	copy(out, g.values[row*g.cols:(row+1)*g.cols])
	return out
}

// Values returns a row-major copy of every elevation.
func (g *Grid) Values() []float64 {
	out := make([]float64, len(g.values))
	copy(out, g.values)
	return out
}

// Equal reports whether two grids have the same shape and bit-identical values.
func (g *Grid) Equal(o *Grid) bool {
	if g == nil || o == nil {
		return g == o
	}
	if g.rows != o.rows || g.cols != o.cols {
		return false
	}
	for i, v := range g.values {
		if v != o.values[i] {
			return false
		}
	}
	return true
}

// Stats summarises a grid's elevation distribution.
type Stats struct {
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}

// Stats computes min, max, mean and standard deviation over every cell.
func (g *Grid) Stats() Stats {
	return Stats{
		Min:    floats.Min(g.values),
		Max:    floats.Max(g.values),
		Mean:   stat.Mean(g.values, nil),
		StdDev: stat.StdDev(g.values, nil),
	}
}
