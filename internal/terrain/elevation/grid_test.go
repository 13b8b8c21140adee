package elevation

import (
	"math"
	"testing"

	"github.com/banshee-data/terrain.planner/internal/testutil"
)

func TestNewGrid_CopiesInput(t *testing.T) {
	values := []float64{1, 2, 3, 4}
	g, err := NewGrid(2, 2, values)
	testutil.AssertNoError(t, err)

	values[0] = 99
	if g.At(0, 0) != 1 {
		t.Errorf("grid aliased caller slice: At(0,0) = %v", g.At(0, 0))
	}

	row := g.Row(1)
	row[0] = 99
	if g.At(1, 0) != 3 {
		t.Errorf("Row returned aliased storage: At(1,0) = %v", g.At(1, 0))
	}
}

func TestNewGrid_Errors(t *testing.T) {
	if _, err := NewGrid(0, 2, nil); err == nil {
		t.Error("expected error for zero rows")
	}
	if _, err := NewGrid(2, 2, []float64{1, 2, 3}); err == nil {
		t.Error("expected error for short values")
	}
}

func TestFromRows(t *testing.T) {
	g, err := FromRows([][]float64{{1, 2, 3}, {4, 5, 6}})
	testutil.AssertNoError(t, err)
	if g.Rows() != 2 || g.Cols() != 3 {
		t.Fatalf("shape = %dx%d, want 2x3", g.Rows(), g.Cols())
	}
	if g.At(1, 2) != 6 {
		t.Errorf("At(1,2) = %v, want 6", g.At(1, 2))
	}

	if _, err := FromRows([][]float64{{1, 2}, {3}}); err == nil {
		t.Error("expected error for ragged rows")
	}
	if _, err := FromRows(nil); err == nil {
		t.Error("expected error for no rows")
	}
}

func TestGrid_AtPanicsOutOfRange(t *testing.T) {
	g, _ := NewGrid(1, 1, []float64{0})
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	g.At(1, 0)
}

func TestGrid_Stats(t *testing.T) {
	g, err := NewGrid(2, 2, []float64{100, 200, 300, 400})
	testutil.AssertNoError(t, err)

	s := g.Stats()
	if s.Min != 100 || s.Max != 400 {
		t.Errorf("Min/Max = %v/%v, want 100/400", s.Min, s.Max)
	}
	testutil.AssertInDelta(t, "Mean", s.Mean, 250, 1e-9)
	// Sample standard deviation of 100,200,300,400.
	testutil.AssertInDelta(t, "StdDev", s.StdDev, math.Sqrt(50000.0/3), 1e-9)
}

func TestGrid_Equal(t *testing.T) {
	a, _ := NewGrid(1, 2, []float64{1, 2})
	b, _ := NewGrid(2, 1, []float64{1, 2})
	c, _ := NewGrid(1, 2, []float64{1, 2})
	if a.Equal(b) {
		t.Error("different shapes compared equal")
	}
	if !a.Equal(c) {
		t.Error("identical grids compared unequal")
	}
	var nilGrid *Grid
	if a.Equal(nilGrid) {
		t.Error("grid compared equal to nil")
	}
}
