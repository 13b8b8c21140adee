// Command contours extracts elevation contours from a terrain-RGB tile.
//
// Usage:
//
//	go run ./cmd/contours [flags] tile.png
//
// The tile's geographic extent comes from exactly one of -bbox, -tile or
// -mgrs. With -mgrs the covering tile at -zoom is computed and its extent
// used; the tile image itself must already be on disk.
//
// Flags:
//
//	-config     Planner config JSON (default: built-in defaults)
//	-bbox       Extent as minLon,minLat,maxLon,maxLat
//	-tile       Extent of a z/x/y tile address
//	-mgrs       Extent of the tile covering an MGRS reference
//	-zoom       Zoom used with -mgrs (default: from config)
//	-levels     Comma-separated levels, overriding config
//	-interval   Level spacing, used when no levels are given
//	-units      Units for levels and labels: m or ft
//	-format     json, geojson, polyline, png or html (default: geojson)
//	-out        Output path (default: stdout)
//	-log-level  off, ops, diag or trace (default: ops)
//	-log-file   Rotated log file (default: stderr)
//	-version    Print version and exit
package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/banshee-data/terrain.planner/internal/config"
	"github.com/banshee-data/terrain.planner/internal/fsutil"
	"github.com/banshee-data/terrain.planner/internal/monitoring"
	"github.com/banshee-data/terrain.planner/internal/terrain/contour"
	"github.com/banshee-data/terrain.planner/internal/terrain/elevation"
	"github.com/banshee-data/terrain.planner/internal/terrain/geo"
	"github.com/banshee-data/terrain.planner/internal/terrain/render"
	"github.com/banshee-data/terrain.planner/internal/terrain/tile"
	"github.com/banshee-data/terrain.planner/internal/units"
	"github.com/banshee-data/terrain.planner/internal/version"
)

// maxTileSize bounds tile files; a 512px RGBA PNG is well under 1MB.
const maxTileSize = 8 * 1024 * 1024

var validFormats = []string{"json", "geojson", "polyline", "png", "html"}

type options struct {
	configPath string
	bbox       string
	tileAddr   string
	mgrs       string
	zoom       int
	levels     string
	interval   float64
	units      string
	format     string
	out        string
	logLevel   string
	logFile    string
	tilePath   string
	version    bool
}

func parseFlags(fs *flag.FlagSet, args []string) (options, error) {
	var o options
	fs.StringVar(&o.configPath, "config", "", "Planner config JSON")
	fs.StringVar(&o.bbox, "bbox", "", "Extent as minLon,minLat,maxLon,maxLat")
	fs.StringVar(&o.tileAddr, "tile", "", "Extent of a z/x/y tile address")
	fs.StringVar(&o.mgrs, "mgrs", "", "Extent of the tile covering an MGRS reference")
	fs.IntVar(&o.zoom, "zoom", -1, "Zoom used with -mgrs (default: from config)")
	fs.StringVar(&o.levels, "levels", "", "Comma-separated contour levels")
	fs.Float64Var(&o.interval, "interval", 0, "Level spacing when no levels are given")
	fs.StringVar(&o.units, "units", "", "Units for levels and labels: "+units.GetValidUnitsString())
	fs.StringVar(&o.format, "format", "geojson", "Output format: "+strings.Join(validFormats, ", "))
	fs.StringVar(&o.out, "out", "", "Output path (default: stdout)")
	fs.StringVar(&o.logLevel, "log-level", monitoring.LevelOps, "off, ops, diag or trace")
	fs.StringVar(&o.logFile, "log-file", "", "Rotated log file (default: stderr)")
	fs.BoolVar(&o.version, "version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.version {
		return o, nil
	}

	if fs.NArg() != 1 {
		return o, errors.New("expected exactly one tile image argument")
	}
	o.tilePath = fs.Arg(0)

	n := 0
	for _, s := range []string{o.bbox, o.tileAddr, o.mgrs} {
		if s != "" {
			n++
		}
	}
	if n != 1 {
		return o, errors.New("exactly one of -bbox, -tile or -mgrs is required")
	}
	if !validFormat(o.format) {
		return o, fmt.Errorf("invalid -format %q (want %s)", o.format, strings.Join(validFormats, ", "))
	}
	if o.units != "" && !units.IsValid(o.units) {
		return o, fmt.Errorf("invalid -units %q (want %s)", o.units, units.GetValidUnitsString())
	}
	return o, nil
}

func validFormat(f string) bool {
	for _, v := range validFormats {
		if f == v {
			return true
		}
	}
	return false
}

// parseBBox parses "minLon,minLat,maxLon,maxLat".
func parseBBox(s string) (geo.BoundingBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return geo.BoundingBox{}, fmt.Errorf("bbox %q: want minLon,minLat,maxLon,maxLat", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return geo.BoundingBox{}, fmt.Errorf("bbox %q: %w", s, err)
		}
		v[i] = f
	}
	b := geo.BoundingBox{MinLon: v[0], MinLat: v[1], MaxLon: v[2], MaxLat: v[3]}
	if !b.Valid() {
		return geo.BoundingBox{}, fmt.Errorf("bbox %q: min must be below max on both axes", s)
	}
	return b, nil
}

func parseLevels(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []float64
	for _, p := range strings.Split(s, ",") {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("level %q: %w", p, err)
		}
		out = append(out, f)
	}
	return out, nil
}

func loadConfig(fsys fsutil.FileSystem, path string) (*config.PlannerConfig, error) {
	if path == "" {
		return config.DefaultPlannerConfig(), nil
	}
	return config.LoadPlannerConfigFS(fsys, path)
}

// resolveBBox turns whichever extent flag was given into a bounding box.
func resolveBBox(o options, cfg *config.PlannerConfig) (geo.BoundingBox, error) {
	switch {
	case o.bbox != "":
		return parseBBox(o.bbox)
	case o.tileAddr != "":
		t, err := tile.ParseTile(o.tileAddr)
		if err != nil {
			return geo.BoundingBox{}, err
		}
		return t.BBox(), nil
	default:
		z := o.zoom
		if z < 0 {
			z = cfg.GetTileZoom()
		}
		t, err := tile.TileForMGRS(o.mgrs, z)
		if err != nil {
			return geo.BoundingBox{}, err
		}
		monitoring.Logf("%s is in tile %s", o.mgrs, t)
		return t.BBox(), nil
	}
}

func pipelineFor(o options, cfg *config.PlannerConfig) (contour.Pipeline, error) {
	p := contour.Pipeline{
		Levels:    cfg.GetContourLevels(),
		Interval:  cfg.GetContourInterval(),
		Units:     cfg.GetLevelUnits(),
		MinPoints: cfg.GetMinContourPoints(),
	}
	if o.units != "" {
		p.Units = o.units
	}
	levels, err := parseLevels(o.levels)
	if err != nil {
		return p, err
	}
	if levels != nil {
		p.Levels = levels
	}
	if o.interval > 0 {
		p.Interval = o.interval
		if levels == nil {
			p.Levels = nil
		}
	}
	return p, nil
}

func run(o options, fsys fsutil.FileSystem, stdout io.Writer) error {
	cfg, err := loadConfig(fsys, o.configPath)
	if err != nil {
		return err
	}
	bbox, err := resolveBBox(o, cfg)
	if err != nil {
		return err
	}
	p, err := pipelineFor(o, cfg)
	if err != nil {
		return err
	}

	f, err := fsys.Open(o.tilePath)
	if err != nil {
		return fmt.Errorf("failed to open tile: %w", err)
	}
	defer f.Close()
	g, err := elevation.DecodeTile(io.LimitReader(f, maxTileSize))
	if err != nil {
		return err
	}

	set := p.RunGrid(g, bbox)
	st := g.Stats()
	monitoring.Logf("%s: %dx%d tile, elevation %.1f..%.1fm, %d contours over %d levels",
		o.tilePath, g.Cols(), g.Rows(), st.Min, st.Max, len(set), len(set.Levels()))

	ro := render.Options{Title: o.tilePath, Units: p.Units}
	if o.out == "" {
		return writeBuffered(stdout, o.format, ro, set, bbox)
	}
	if err := fsys.MkdirAll(dirOf(o.out), 0755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	fw, err := fsys.Create(o.out)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	if err := writeBuffered(fw, o.format, ro, set, bbox); err != nil {
		fw.Close()
		return err
	}
	if err := fw.Close(); err != nil {
		return fmt.Errorf("failed to close output: %w", err)
	}
	return nil
}

func writeBuffered(w io.Writer, format string, ro render.Options, set contour.Set, bbox geo.BoundingBox) error {
	bw := bufio.NewWriter(w)
	if err := write(bw, format, ro, set, bbox); err != nil {
		return err
	}
	return bw.Flush()
}

func dirOf(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i > 0 {
		return path[:i]
	}
	return "."
}

func write(w io.Writer, format string, ro render.Options, set contour.Set, bbox geo.BoundingBox) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(set)
	case "geojson":
		b, err := set.MarshalGeoJSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", b)
		return err
	case "polyline":
		for i, line := range set.EncodePolylines() {
			if _, err := fmt.Fprintf(w, "%g\t%s\n", set[i].Level, line); err != nil {
				return err
			}
		}
		return nil
	case "png":
		return render.WritePNG(w, set, bbox, ro)
	case "html":
		return render.WriteHTML(w, set, bbox, ro)
	}
	return fmt.Errorf("unknown format %q", format)
}

func setupLogging(o options) (io.Closer, error) {
	var w io.Writer = os.Stderr
	var closer io.Closer
	if o.logFile != "" {
		rw := monitoring.NewRotatingWriter(monitoring.RotatingFile{Path: o.logFile})
		w, closer = rw, rw
	}
	streams, err := monitoring.StreamsFor(o.logLevel, w)
	if err != nil {
		return nil, err
	}
	monitoring.Install(streams)
	if strings.EqualFold(o.logLevel, monitoring.LevelOff) {
		w = nil
	}
	monitoring.SetOutput(w, "[contours] ")
	return closer, nil
}

func main() {
	fs := flag.NewFlagSet("contours", flag.ExitOnError)
	o, err := parseFlags(fs, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "contours %s: %v\n", version.Version, err)
		fs.Usage()
		os.Exit(2)
	}
	if o.version {
		fmt.Println(version.String("contours"))
		return
	}

	closer, err := setupLogging(o)
	if err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}
	if closer != nil {
		defer closer.Close()
	}

	if err := run(o, fsutil.OSFileSystem{}, os.Stdout); err != nil {
		monitoring.Logf("error: %v", err)
		if closer != nil {
			closer.Close()
		}
		os.Exit(1)
	}
}
