package contour

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// DefaultLevels are used when neither explicit levels nor an interval are
// configured.
var DefaultLevels = []float64{100, 200, 300, 400, 500}

// maxIntervalLevels caps LevelsForInterval so a tiny interval over a tall
// range cannot explode the extraction cost.
const maxIntervalLevels = 1000

// LevelsForInterval returns every multiple of interval in (min, max]. A level
// equal to min would classify every sample as above and produce nothing.
// It returns nil when interval is not positive or the range is empty.
func LevelsForInterval(min, max, interval float64) []float64 {
	if !(interval > 0) || !(max > min) || math.IsInf(min, 0) || math.IsInf(max, 0) {
		return nil
	}
	first := (math.Floor(min/interval) + 1) * interval
	last := math.Floor(max/interval) * interval
	if last < first {
		return nil
	}
	n := int(math.Round((last-first)/interval)) + 1
	if n > maxIntervalLevels {
		n = maxIntervalLevels
		last = first + float64(n-1)*interval
	}
	if n == 1 {
		return []float64{first}
	}
	return floats.Span(make([]float64, n), first, last)
}
