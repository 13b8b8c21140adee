// Package config loads planner settings from a JSON file. Every field is
// optional: a nil field falls back to the default returned by its getter,
// so partial files are safe.
package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/banshee-data/terrain.planner/internal/fsutil"
	"github.com/banshee-data/terrain.planner/internal/units"
)

// DefaultConfigPath is the path to the canonical planner defaults file.
const DefaultConfigPath = "config/planner.defaults.json"

const maxConfigSize = 1 * 1024 * 1024 // 1MB

// DefaultContourLevels are the levels, in meters, used when neither
// levels nor an interval are configured.
var DefaultContourLevels = []float64{100, 200, 300, 400, 500}

// Defaults applied by the getters when a field is unset.
const (
	DefaultLevelUnits         = units.Meters
	DefaultTileZoom           = 14
	DefaultTransitionDuration = time.Second
	DefaultFrameInterval      = 16 * time.Millisecond
	DefaultZoneRadiusMeters   = 150.0
	maxTileZoom               = 24
)

// PlannerConfig is the root configuration for the contour and transition
// tools.
type PlannerConfig struct {
	// Contour params
	ContourLevels    []float64 `json:"contour_levels,omitempty"`
	ContourInterval  *float64  `json:"contour_interval,omitempty"` // in LevelUnits; ignored when ContourLevels is set
	LevelUnits       *string   `json:"level_units,omitempty"`
	MinContourPoints *int      `json:"min_contour_points,omitempty"`
	TileZoom         *int      `json:"tile_zoom,omitempty"`

	// Transition params
	TransitionDuration *string `json:"transition_duration,omitempty"` // duration string like "1s"
	FrameInterval      *string `json:"frame_interval,omitempty"`

	// Scenario params
	ZoneRadiusMeters *float64 `json:"zone_radius_meters,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// DefaultPlannerConfig returns a config with every field populated from
// the built-in defaults.
func DefaultPlannerConfig() *PlannerConfig {
	return &PlannerConfig{
		ContourLevels:      append([]float64(nil), DefaultContourLevels...),
		ContourInterval:    ptrFloat64(0),
		LevelUnits:         ptrString(DefaultLevelUnits),
		MinContourPoints:   ptrInt(0),
		TileZoom:           ptrInt(DefaultTileZoom),
		TransitionDuration: ptrString(DefaultTransitionDuration.String()),
		FrameInterval:      ptrString(DefaultFrameInterval.String()),
		ZoneRadiusMeters:   ptrFloat64(DefaultZoneRadiusMeters),
	}
}

// LoadPlannerConfig loads a PlannerConfig from a JSON file on disk.
func LoadPlannerConfig(path string) (*PlannerConfig, error) {
	return LoadPlannerConfigFS(fsutil.OSFileSystem{}, path)
}

// LoadPlannerConfigFS loads a PlannerConfig through fsys. The file must
// have a .json extension and be under 1MB.
func LoadPlannerConfigFS(fsys fsutil.FileSystem, path string) (*PlannerConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	data, err := fsutil.ReadFileLimited(fsys, cleanPath, maxConfigSize)
	if err != nil {
		return nil, fmt.Errorf("config file: %w", err)
	}

	cfg := &PlannerConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath, searching from the
// current directory up towards the repository root. Panics if the file
// cannot be loaded; intended for test setup.
func MustLoadDefaultConfig() *PlannerConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,       // from internal/config/
		"../../../" + DefaultConfigPath,    // from internal/terrain/contour/
		"../../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadPlannerConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are usable.
func (c *PlannerConfig) Validate() error {
	if c.LevelUnits != nil && !units.IsValid(*c.LevelUnits) {
		return fmt.Errorf("level_units must be one of %s, got %q", units.GetValidUnitsString(), *c.LevelUnits)
	}
	if c.ContourInterval != nil && *c.ContourInterval < 0 {
		return fmt.Errorf("contour_interval must be non-negative, got %f", *c.ContourInterval)
	}
	if c.MinContourPoints != nil && *c.MinContourPoints < 0 {
		return fmt.Errorf("min_contour_points must be non-negative, got %d", *c.MinContourPoints)
	}
	if c.TileZoom != nil && (*c.TileZoom < 0 || *c.TileZoom > maxTileZoom) {
		return fmt.Errorf("tile_zoom must be between 0 and %d, got %d", maxTileZoom, *c.TileZoom)
	}
	if c.ZoneRadiusMeters != nil && *c.ZoneRadiusMeters <= 0 {
		return fmt.Errorf("zone_radius_meters must be positive, got %f", *c.ZoneRadiusMeters)
	}

	for name, v := range map[string]*string{
		"transition_duration": c.TransitionDuration,
		"frame_interval":      c.FrameInterval,
	} {
		if v == nil || *v == "" {
			continue
		}
		d, err := time.ParseDuration(*v)
		if err != nil {
			return fmt.Errorf("invalid %s '%s': %w", name, *v, err)
		}
		if d < 0 {
			return fmt.Errorf("%s must be non-negative, got %s", name, d)
		}
	}
	return nil
}

// GetContourLevels returns a copy of the explicit levels, or nil when
// none are configured. Callers fall back to the interval and then to
// DefaultContourLevels.
func (c *PlannerConfig) GetContourLevels() []float64 {
	if len(c.ContourLevels) == 0 {
		return nil
	}
	return append([]float64(nil), c.ContourLevels...)
}

// GetContourInterval returns the contour spacing in LevelUnits, or 0.
func (c *PlannerConfig) GetContourInterval() float64 {
	if c.ContourInterval == nil {
		return 0
	}
	return *c.ContourInterval
}

func (c *PlannerConfig) GetLevelUnits() string {
	if c.LevelUnits == nil || *c.LevelUnits == "" {
		return DefaultLevelUnits
	}
	return *c.LevelUnits
}

func (c *PlannerConfig) GetMinContourPoints() int {
	if c.MinContourPoints == nil {
		return 0
	}
	return *c.MinContourPoints
}

func (c *PlannerConfig) GetTileZoom() int {
	if c.TileZoom == nil {
		return DefaultTileZoom
	}
	return *c.TileZoom
}

// GetTransitionDuration parses TransitionDuration, falling back to the
// default when unset or unparseable.
func (c *PlannerConfig) GetTransitionDuration() time.Duration {
	return parseDurationOr(c.TransitionDuration, DefaultTransitionDuration)
}

// GetFrameInterval parses FrameInterval, falling back to the default.
// A zero interval also falls back, since frames cannot be paced by it.
func (c *PlannerConfig) GetFrameInterval() time.Duration {
	d := parseDurationOr(c.FrameInterval, DefaultFrameInterval)
	if d <= 0 {
		return DefaultFrameInterval
	}
	return d
}

func (c *PlannerConfig) GetZoneRadiusMeters() float64 {
	if c.ZoneRadiusMeters == nil {
		return DefaultZoneRadiusMeters
	}
	return *c.ZoneRadiusMeters
}

func parseDurationOr(s *string, def time.Duration) time.Duration {
	if s == nil || *s == "" {
		return def
	}
	d, err := time.ParseDuration(*s)
	if err != nil {
		return def
	}
	return d
}
