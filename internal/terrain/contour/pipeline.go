package contour

import (
	"github.com/banshee-data/terrain.planner/internal/terrain/elevation"
	"github.com/banshee-data/terrain.planner/internal/terrain/geo"
	"github.com/banshee-data/terrain.planner/internal/terrain/isoline"
	"github.com/banshee-data/terrain.planner/internal/units"
)

// Pipeline holds the options for turning a tile into a contour Set.
// The zero value extracts DefaultLevels in meters with no filtering.
type Pipeline struct {
	// Levels are explicit thresholds in Units. They take precedence over
	// Interval.
	Levels []float64
	// Interval derives levels from the grid's elevation range when Levels
	// is empty. Expressed in Units.
	Interval float64
	// Units is units.Meters or units.Feet. Empty means meters.
	Units string
	// MinPoints drops contours with fewer points. Zero keeps everything.
	MinPoints int
}

// Run decodes, extracts and projects with explicit levels in meters.
// Decode failures are returned unchanged as *elevation.DecodeError. An empty
// level list yields an empty Set once the buffer has been validated.
func Run(pixels []byte, width, height int, bbox geo.BoundingBox, levels []float64) (Set, error) {
	g, err := elevation.Decode(pixels, width, height)
	if err != nil {
		opsf("decode %dx%d tile (%d bytes): %v", width, height, len(pixels), err)
		return nil, err
	}
	if len(levels) == 0 {
		return Set{}, nil
	}
	return Pipeline{Levels: levels}.RunGrid(g, bbox), nil
}

// Run decodes the pixel buffer and extracts contours projected onto bbox.
func (p Pipeline) Run(pixels []byte, width, height int, bbox geo.BoundingBox) (Set, error) {
	g, err := elevation.Decode(pixels, width, height)
	if err != nil {
		opsf("decode %dx%d tile (%d bytes): %v", width, height, len(pixels), err)
		return nil, err
	}
	return p.RunGrid(g, bbox), nil
}

// RunGrid extracts contours from an already decoded grid.
func (p Pipeline) RunGrid(g *elevation.Grid, bbox geo.BoundingBox) Set {
	levels := p.LevelsFor(g)
	if len(levels) == 0 {
		diagf("no levels for %dx%d grid", g.Rows(), g.Cols())
		return Set{}
	}

	pr := geo.Projector{Cols: g.Cols(), Rows: g.Rows(), BBox: bbox}
	lines := isoline.Extract(g, levels)

	set := make(Set, 0, len(lines))
	dropped := 0
	for _, l := range lines {
		if p.MinPoints > 0 && len(l.Points) < p.MinPoints {
			dropped++
			continue
		}
		set = append(set, Contour{
			Level:  l.Level,
			Closed: l.Closed,
			Points: pr.ProjectLine(l.Points),
		})
	}
	if traceLogger != nil {
		for _, lv := range levels {
			tracef("level %.1fm: %d contours", lv, set.countLevel(lv))
		}
	}
	diagf("extracted %d contours over %d levels (%d dropped below %d points) bbox=%s",
		len(set), len(levels), dropped, p.MinPoints, bbox)
	return set
}

// LevelsFor returns the thresholds in meters that RunGrid will extract for g.
func (p Pipeline) LevelsFor(g *elevation.Grid) []float64 {
	switch {
	case len(p.Levels) > 0:
		return units.LevelsToMeters(p.Levels, p.Units)
	case p.Interval > 0:
		s := g.Stats()
		lv := LevelsForInterval(
			units.FromMeters(s.Min, p.Units),
			units.FromMeters(s.Max, p.Units),
			p.Interval,
		)
		return units.LevelsToMeters(lv, p.Units)
	default:
		return units.LevelsToMeters(DefaultLevels, units.Meters)
	}
}
