package isoline

import (
	"math"
	"testing"

	"github.com/banshee-data/terrain.planner/internal/terrain/elevation"
	"github.com/banshee-data/terrain.planner/internal/testutil"
)

func mustGrid(t *testing.T, rows, cols int, values []float64) *elevation.Grid {
	t.Helper()
	g, err := elevation.NewGrid(rows, cols, values)
	testutil.AssertNoError(t, err)
	return g
}

func mustRows(t *testing.T, rows [][]float64) *elevation.Grid {
	t.Helper()
	g, err := elevation.FromRows(rows)
	testutil.AssertNoError(t, err)
	return g
}

// assertWalk checks that consecutive points never jump more than one cell and
// that every point lies inside the grid.
func assertWalk(t *testing.T, f Field, l Line) {
	t.Helper()
	maxX, maxY := float64(f.Cols()-1), float64(f.Rows()-1)
	for i, p := range l.Points {
		if p.X < 0 || p.X > maxX || p.Y < 0 || p.Y > maxY {
			t.Errorf("point %d %+v outside [0,%v]x[0,%v]", i, p, maxX, maxY)
		}
		if i == 0 {
			continue
		}
		q := l.Points[i-1]
		if math.Abs(p.X-q.X) > 1 || math.Abs(p.Y-q.Y) > 1 {
			t.Errorf("points %d and %d are not in one cell: %+v -> %+v", i-1, i, q, p)
		}
	}
	if l.Closed && l.Points[0] != l.Points[len(l.Points)-1] {
		t.Errorf("closed line does not end at its start: %+v vs %+v", l.Points[0], l.Points[len(l.Points)-1])
	}
}

func touchesBorder(f Field, l Line) bool {
	maxX, maxY := float64(f.Cols()-1), float64(f.Rows()-1)
	for _, p := range l.Points {
		if p.X == 0 || p.Y == 0 || p.X == maxX || p.Y == maxY {
			return true
		}
	}
	return false
}

func TestExtract_NoLevels(t *testing.T) {
	g := mustGrid(t, 4, 4, testutil.RampValues(4, 4, 0, 300))
	if lines := Extract(g, nil); len(lines) != 0 {
		t.Errorf("Extract with no levels returned %d lines", len(lines))
	}
}

func TestExtract_ConstantGrid(t *testing.T) {
	g := mustGrid(t, 16, 16, testutil.ConstantValues(16, 16, 300))
	for _, level := range []float64{100, 200, 300, 400, 500} {
		if lines := ExtractLevel(g, level); len(lines) != 0 {
			t.Errorf("level %v: got %d lines on a constant grid, want 0", level, len(lines))
		}
	}
}

func TestExtract_TooSmall(t *testing.T) {
	g := mustGrid(t, 1, 5, []float64{0, 100, 200, 300, 400})
	if lines := ExtractLevel(g, 150); len(lines) != 0 {
		t.Errorf("single-row grid produced %d lines", len(lines))
	}
}

func TestExtract_InteriorSpikeClosesLoop(t *testing.T) {
	g := mustGrid(t, 5, 5, testutil.SpikeValues(5, 5, 2, 2, 0, 1000))

	lines := ExtractLevel(g, 500)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	l := lines[0]
	if !l.Closed {
		t.Fatal("loop around an interior spike should be closed")
	}
	if touchesBorder(g, l) {
		t.Error("loop around an interior spike touches the border")
	}
	// Diamond: four crossings plus the repeated start.
	if len(l.Points) != 5 {
		t.Errorf("got %d points, want 5: %+v", len(l.Points), l.Points)
	}
	for _, p := range l.Points {
		if d := math.Abs(p.X-2) + math.Abs(p.Y-2); math.Abs(d-0.5) > 1e-12 {
			t.Errorf("point %+v is %v from the spike, want 0.5", p, d)
		}
	}
	assertWalk(t, g, l)
}

func TestExtract_LevelEqualToSpikeCollapses(t *testing.T) {
	g := mustGrid(t, 5, 5, testutil.SpikeValues(5, 5, 2, 2, 0, 1000))
	// The spike counts as above, and every crossing lands on the spike
	// itself, so the loop has zero extent and is dropped.
	if lines := ExtractLevel(g, 1000); len(lines) != 0 {
		t.Errorf("got %d lines, want 0: %+v", len(lines), lines)
	}
}

func TestExtract_RampGivesOpenLine(t *testing.T) {
	g := mustGrid(t, 4, 5, testutil.RampValues(4, 5, 0, 400))

	lines := ExtractLevel(g, 150)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	l := lines[0]
	if l.Closed {
		t.Error("ramp contour should be open")
	}
	if len(l.Points) != 4 {
		t.Fatalf("got %d points, want one per row (4)", len(l.Points))
	}
	for _, p := range l.Points {
		testutil.AssertInDelta(t, "X", p.X, 1.5, 1e-12)
	}
	ys := []float64{l.Points[0].Y, l.Points[len(l.Points)-1].Y}
	if !(ys[0] == 0 && ys[1] == 3 || ys[0] == 3 && ys[1] == 0) {
		t.Errorf("open line should run border to border, got ends at y=%v", ys)
	}
	assertWalk(t, g, l)
}

func TestExtract_LevelOnSampleIsAbove(t *testing.T) {
	// Column 1 sits exactly on the level and therefore classifies as above,
	// so the line hugs column 1 rather than column 2.
	g := mustRows(t, [][]float64{
		{0, 100, 200},
		{0, 100, 200},
	})
	lines := ExtractLevel(g, 100)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	for _, p := range lines[0].Points {
		testutil.AssertInDelta(t, "X", p.X, 1, 1e-12)
	}
}

func TestExtract_Saddle(t *testing.T) {
	tests := []struct {
		name   string
		rows   [][]float64
		level  float64
		wantXY [][2]Point // unordered segment endpoints, per line
	}{
		{
			name:  "case 10, high center joins tl and br",
			rows:  [][]float64{{10, 0}, {0, 10}},
			level: 5,
			wantXY: [][2]Point{
				{{X: 0.5, Y: 0}, {X: 1, Y: 0.5}},
				{{X: 0, Y: 0.5}, {X: 0.5, Y: 1}},
			},
		},
		{
			name:  "case 10, low center separates tl and br",
			rows:  [][]float64{{10, 0}, {0, 10}},
			level: 6,
			wantXY: [][2]Point{
				{{X: 0.4, Y: 0}, {X: 0, Y: 0.4}},
				{{X: 1, Y: 0.6}, {X: 0.6, Y: 1}},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustRows(t, tt.rows)
			lines := ExtractLevel(g, tt.level)
			if len(lines) != len(tt.wantXY) {
				t.Fatalf("got %d lines, want %d", len(lines), len(tt.wantXY))
			}
			for i, l := range lines {
				if len(l.Points) != 2 {
					t.Fatalf("line %d has %d points, want 2", i, len(l.Points))
				}
				want := tt.wantXY[i]
				a, b := l.Points[0], l.Points[1]
				if !(near(a, want[0]) && near(b, want[1]) || near(a, want[1]) && near(b, want[0])) {
					t.Errorf("line %d = %+v, want endpoints %+v", i, l.Points, want)
				}
			}
		})
	}
}

func near(a, b Point) bool {
	return math.Abs(a.X-b.X) < 1e-12 && math.Abs(a.Y-b.Y) < 1e-12
}

func TestExtract_UShapeJoinsChains(t *testing.T) {
	// The two arms start separate chains on the first row; the inner
	// contour along the bar has to splice them together.
	g := mustRows(t, [][]float64{
		{0, 0, 0, 0, 0, 0, 0},
		{0, 9, 0, 0, 0, 9, 0},
		{0, 9, 0, 0, 0, 9, 0},
		{0, 9, 9, 9, 9, 9, 0},
		{0, 0, 0, 0, 0, 0, 0},
	})
	lines := ExtractLevel(g, 5)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if !lines[0].Closed {
		t.Error("U-shaped region should give one closed loop")
	}
	if touchesBorder(g, lines[0]) {
		t.Error("loop touches the border")
	}
	assertWalk(t, g, lines[0])
}

func TestExtract_ConeLevels(t *testing.T) {
	const n = 64
	g := mustGrid(t, n, n, testutil.ConeValues(n, n, 31.5, 31.5, 25, 0, 600))
	levels := []float64{100, 200, 300, 400, 500}

	lines := Extract(g, levels)
	if len(lines) != len(levels) {
		t.Fatalf("got %d lines, want one ring per level (%d)", len(lines), len(levels))
	}
	for i, l := range lines {
		if l.Level != levels[i] {
			t.Errorf("line %d level = %v, want %v (levels must come out in order)", i, l.Level, levels[i])
		}
		if !l.Closed {
			t.Errorf("ring at level %v is open", l.Level)
		}
		if touchesBorder(g, l) {
			t.Errorf("ring at level %v touches the border", l.Level)
		}
		assertWalk(t, g, l)
	}
}

func TestExtract_DuplicateLevels(t *testing.T) {
	g := mustGrid(t, 4, 5, testutil.RampValues(4, 5, 0, 400))
	lines := Extract(g, []float64{150, 150})
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
}

func TestExtract_Containment(t *testing.T) {
	const rows, cols = 20, 30
	values := make([]float64, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			values[r*cols+c] = 250 + 200*math.Sin(float64(c)/3)*math.Cos(float64(r)/4)
		}
	}
	g := mustGrid(t, rows, cols, values)
	lines := Extract(g, []float64{100, 200, 250, 300, 400})
	if len(lines) == 0 {
		t.Fatal("expected contours on a wavy surface")
	}
	for _, l := range lines {
		assertWalk(t, g, l)
		if !l.Closed && !touchesBorder(g, l) {
			t.Errorf("open line at level %v ends inside the grid", l.Level)
		}
	}
}
