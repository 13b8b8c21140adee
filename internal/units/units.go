// Package units provides shared constants and conversion for elevation units.
// Grids and contour levels are always held in meters; feet only appear at the
// configuration and output edges.
package units

import (
	"fmt"
	"strings"
)

// Unit constants
const (
	Meters = "m"
	Feet   = "ft"
)

// MetersPerFoot is the international foot.
const MetersPerFoot = 0.3048

// ValidUnits contains all valid unit values
var ValidUnits = []string{Meters, Feet}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return strings.Join(ValidUnits, ", ")
}

// ToMeters converts an elevation in the given units to meters.
// Unknown units are treated as meters.
func ToMeters(v float64, unit string) float64 {
	if unit == Feet {
		return v * MetersPerFoot
	}
	return v
}

// FromMeters converts an elevation in meters to the target units.
func FromMeters(m float64, unit string) float64 {
	if unit == Feet {
		return m / MetersPerFoot
	}
	return m
}

// LevelsToMeters returns a converted copy of levels.
func LevelsToMeters(levels []float64, unit string) []float64 {
	out := make([]float64, len(levels))
	for i, l := range levels {
		out[i] = ToMeters(l, unit)
	}
	return out
}

// FormatElevation renders an elevation in meters using the target units,
// e.g. "300 m" or "984 ft".
func FormatElevation(m float64, unit string) string {
	if !IsValid(unit) {
		unit = Meters
	}
	return fmt.Sprintf("%.0f %s", FromMeters(m, unit), unit)
}
