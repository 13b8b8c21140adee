// Command gen-tile writes a synthetic terrain-RGB PNG tile for exercising
// the contour tools without network access.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/banshee-data/terrain.planner/internal/terrain/elevation"
)

// shapes maps a name to a height function over normalised x, y in [0,1].
var shapes = map[string]func(x, y, base, peak float64) float64{
	"cone": func(x, y, base, peak float64) float64 {
		d := math.Hypot(x-0.5, y-0.5) / 0.5
		return base + (peak-base)*math.Max(0, 1-d)
	},
	"dome": func(x, y, base, peak float64) float64 {
		d2 := (x-0.5)*(x-0.5) + (y-0.5)*(y-0.5)
		return base + (peak-base)*math.Exp(-d2/0.05)
	},
	"ridge": func(x, y, base, peak float64) float64 {
		return base + (peak-base)*math.Max(0, 1-math.Abs(x-y)*3)
	},
	"ramp": func(x, _, base, peak float64) float64 {
		return base + (peak-base)*x
	},
	"saddle": func(x, y, base, peak float64) float64 {
		return base + (peak-base)*(0.5+2*(x-0.5)*(x-0.5)-2*(y-0.5)*(y-0.5))
	},
}

func shapeNames() string {
	names := make([]string, 0, len(shapes))
	for n := range shapes {
		names = append(names, n)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// synthesize samples shape on a size×size grid.
func synthesize(shape string, size int, base, peak float64) (*elevation.Grid, error) {
	f, ok := shapes[shape]
	if !ok {
		return nil, fmt.Errorf("unknown shape %q (want %s)", shape, shapeNames())
	}
	if size < 2 {
		return nil, fmt.Errorf("size must be at least 2, got %d", size)
	}
	vals := make([]float64, size*size)
	span := float64(size - 1)
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			vals[r*size+c] = f(float64(c)/span, float64(r)/span, base, peak)
		}
	}
	return elevation.NewGrid(size, size, vals)
}

func main() {
	output := flag.String("o", "tile.png", "output path")
	shape := flag.String("shape", "cone", "terrain shape: "+shapeNames())
	size := flag.Int("size", 256, "tile size in pixels")
	base := flag.Float64("base", 0, "base elevation in meters")
	peak := flag.Float64("peak", 600, "peak elevation in meters")
	flag.Parse()

	g, err := synthesize(*shape, *size, *base, *peak)
	if err != nil {
		log.Fatalf("Failed to generate tile: %v", err)
	}

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", *output, err)
	}
	if err := png.Encode(f, g.TerrainImage()); err != nil {
		f.Close()
		log.Fatalf("Failed to encode %s: %v", *output, err)
	}
	if err := f.Close(); err != nil {
		log.Fatalf("Failed to close %s: %v", *output, err)
	}

	st := g.Stats()
	log.Printf("✓ Created: %s (%s, %dpx, %.1f..%.1fm)", *output, *shape, *size, st.Min, st.Max)
}
