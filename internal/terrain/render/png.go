package render

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/terrain.planner/internal/terrain/contour"
	"github.com/banshee-data/terrain.planner/internal/terrain/geo"
	"github.com/banshee-data/terrain.planner/internal/units"
)

// Options control the plot title, size and level labelling.
type Options struct {
	Title string
	// Units selects how levels are labelled ("m" or "ft"). Levels are
	// always stored in meters.
	Units string
	// Width and Height default to 8 inches.
	Width  vg.Length
	Height vg.Length
}

func (o Options) size() (vg.Length, vg.Length) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = 8 * vg.Inch
	}
	if h <= 0 {
		h = 8 * vg.Inch
	}
	return w, h
}

func (o Options) unit() string {
	if units.IsValid(o.Units) {
		return o.Units
	}
	return units.Meters
}

// levelLabel formats a meter level in the configured units.
func levelLabel(level float64, unit string) string {
	return units.FormatElevation(level, unit)
}

// NewPlot builds a lon/lat plot with one colored line per contour and one
// legend entry per level. When bbox is valid the axes are pinned to it.
func NewPlot(set contour.Set, bbox geo.BoundingBox, opt Options) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = opt.Title
	if p.Title.Text == "" {
		p.Title.Text = fmt.Sprintf("Contours %s", bbox)
	}
	p.X.Label.Text = "Longitude"
	p.Y.Label.Text = "Latitude"
	p.Add(plotter.NewGrid())
	if bbox.Valid() {
		p.X.Min, p.X.Max = bbox.MinLon, bbox.MaxLon
		p.Y.Min, p.Y.Max = bbox.MinLat, bbox.MaxLat
	}

	levels := set.Levels()
	colors := levelColors(len(levels))
	colorOf := make(map[float64]color.Color, len(levels))
	for i, l := range levels {
		colorOf[l] = colors[i]
	}

	labelled := make(map[float64]bool, len(levels))
	unit := opt.unit()
	for _, c := range set {
		if len(c.Points) < 2 {
			continue
		}
		pts := make(plotter.XYs, len(c.Points))
		for i, pt := range c.Points {
			pts[i] = plotter.XY{X: pt.Lng, Y: pt.Lat}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("contour at %.1fm: %w", c.Level, err)
		}
		line.Color = colorOf[c.Level]
		line.Width = vg.Points(1)
		p.Add(line)
		if !labelled[c.Level] {
			labelled[c.Level] = true
			p.Legend.Add(levelLabel(c.Level, unit), line)
		}
	}
	return p, nil
}

// WritePNG renders the set as a PNG image to w.
func WritePNG(w io.Writer, set contour.Set, bbox geo.BoundingBox, opt Options) error {
	p, err := NewPlot(set, bbox, opt)
	if err != nil {
		return err
	}
	width, height := opt.size()
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return fmt.Errorf("failed to create png writer: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write png: %w", err)
	}
	return nil
}

// SavePNG renders the set to path, creating parent directories.
func SavePNG(path string, set contour.Set, bbox geo.BoundingBox, opt Options) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	p, err := NewPlot(set, bbox, opt)
	if err != nil {
		return err
	}
	width, height := opt.size()
	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// viridis runs from low (purple) to high (yellow) ground.
var viridis = []string{"#440154", "#482777", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}

// levelColors spreads n colors evenly over the viridis ramp.
func levelColors(n int) []color.Color {
	if n <= 0 {
		return nil
	}
	out := make([]color.Color, n)
	for i := range out {
		idx := 0
		if n > 1 {
			idx = i * (len(viridis) - 1) / (n - 1)
		}
		out[i] = hexColor(viridis[idx])
	}
	return out
}

func hexColor(s string) color.RGBA {
	var r, g, b uint8
	fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b)
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
