package units

import (
	"math"
	"testing"
)

func TestToMeters(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		units    string
		expected float64
	}{
		{"meters unchanged", 300, Meters, 300},
		{"1000 ft", 1000, Feet, 304.8},
		{"negative feet", -100, Feet, -30.48},
		{"unknown units default to meters", 42, "furlong", 42},
		{"zero", 0, Feet, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ToMeters(tt.value, tt.units)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("ToMeters(%f, %s) = %f, want %f", tt.value, tt.units, result, tt.expected)
			}
		})
	}
}

func TestFromMetersRoundTrip(t *testing.T) {
	for _, v := range []float64{-10000, 0, 152.4, 8848.86} {
		for _, u := range ValidUnits {
			if got := ToMeters(FromMeters(v, u), u); math.Abs(got-v) > 1e-9 {
				t.Errorf("round trip of %v through %s = %v", v, u, got)
			}
		}
	}
}

func TestLevelsToMeters(t *testing.T) {
	in := []float64{100, 200}
	out := LevelsToMeters(in, Feet)
	if in[0] != 100 || in[1] != 200 {
		t.Errorf("input modified: %v", in)
	}
	if math.Abs(out[0]-30.48) > 1e-9 || math.Abs(out[1]-60.96) > 1e-9 {
		t.Errorf("LevelsToMeters = %v", out)
	}
}

func TestFormatElevation(t *testing.T) {
	tests := []struct {
		m    float64
		unit string
		want string
	}{
		{300, Meters, "300 m"},
		{304.8, Feet, "1000 ft"},
		{12, "", "12 m"},
	}
	for _, tt := range tests {
		if got := FormatElevation(tt.m, tt.unit); got != tt.want {
			t.Errorf("FormatElevation(%v, %q) = %q, want %q", tt.m, tt.unit, got, tt.want)
		}
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name     string
		unit     string
		expected bool
	}{
		{"valid meters", Meters, true},
		{"valid feet", Feet, true},
		{"invalid unit", "invalid", false},
		{"empty string", "", false},
		{"case sensitive", "FT", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValid(tt.unit)
			if result != tt.expected {
				t.Errorf("IsValid(%s) = %v, want %v", tt.unit, result, tt.expected)
			}
		})
	}

	if GetValidUnitsString() != "m, ft" {
		t.Errorf("GetValidUnitsString() = %q", GetValidUnitsString())
	}
}
