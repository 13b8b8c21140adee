package elevation

import (
	"image"
	"math"
)

const stepsPerMeter = 1 / heightStep

// Encode is the inverse of Height, rounded to the nearest 0.1m step and
// clamped to the representable range.
func Encode(meters float64) (r, g, b uint8) {
	v := math.Round((meters - baseHeight) * stepsPerMeter)
	switch {
	case !(v > 0):
		v = 0
	case v > 0xFFFFFF:
		v = 0xFFFFFF
	}
	n := int(v)
	return uint8(n >> 16), uint8(n >> 8), uint8(n)
}

// TerrainImage renders the grid as an opaque terrain-RGB image, one pixel
// per sample.
func (g *Grid) TerrainImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, g.cols, g.rows))
	for i, v := range g.values {
		p := img.Pix[i*4 : i*4+4 : i*4+4]
		p[0], p[1], p[2] = Encode(v)
		p[3] = 0xFF
	}
	return img
}
