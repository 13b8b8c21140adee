package render

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/terrain.planner/internal/terrain/contour"
	"github.com/banshee-data/terrain.planner/internal/terrain/geo"
)

// WriteHTML renders the set as a self-contained go-echarts page with one
// scatter series per level, so levels can be toggled from the legend.
func WriteHTML(w io.Writer, set contour.Set, bbox geo.BoundingBox, opt Options) error {
	title := opt.Title
	if title == "" {
		title = "Contours"
	}

	scatter := charts.NewScatter()
	xAxis := opts.XAxis{Name: "Longitude", NameLocation: "middle", NameGap: 25, Scale: opts.Bool(true)}
	yAxis := opts.YAxis{Name: "Latitude", NameLocation: "middle", NameGap: 40, Scale: opts.Bool(true)}
	if bbox.Valid() {
		xAxis.Min, xAxis.Max = bbox.MinLon, bbox.MaxLon
		yAxis.Min, yAxis.Max = bbox.MinLat, bbox.MaxLat
	}
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("bbox=%s contours=%d", bbox, len(set))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
		charts.WithXAxisOpts(xAxis),
		charts.WithYAxisOpts(yAxis),
	)

	unit := opt.unit()
	levels := set.Levels()
	for i, level := range levels {
		var data []opts.ScatterData
		for _, c := range set {
			if c.Level != level {
				continue
			}
			for _, p := range c.Points {
				data = append(data, opts.ScatterData{Value: []interface{}{p.Lng, p.Lat}})
			}
		}
		idx := 0
		if len(levels) > 1 {
			idx = i * (len(viridis) - 1) / (len(levels) - 1)
		}
		scatter.AddSeries(levelLabel(level, unit), data,
			charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 3}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: viridis[idx]}),
		)
	}

	if err := scatter.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
