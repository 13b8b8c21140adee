package elevation

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/png" // terrain-RGB tiles are served as PNG
	"io"
	"math"

	_ "golang.org/x/image/webp" // and as lossless WebP
)

// ErrDecode is matched by every *DecodeError via errors.Is.
var ErrDecode = errors.New("elevation decode failed")

// DecodeError reports a pixel buffer that does not match its declared shape.
type DecodeError struct {
	Width    int
	Height   int
	Channels int
	Length   int
	Reason   string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("elevation: cannot decode %dx%d buffer of %d bytes: %s",
		e.Width, e.Height, e.Length, e.Reason)
}

// Is makes errors.Is(err, ErrDecode) true for any DecodeError.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

const (
	// MinChannels is the number of leading channels read per pixel (R, G, B).
	MinChannels = 3

	baseHeight = -10000.0
	heightStep = 0.1
)

// Height applies the terrain-RGB formula to one pixel.
func Height(r, g, b uint8) float64 {
	return baseHeight + float64(int(r)*65536+int(g)*256+int(b))*heightStep
}

// Decode converts an RGB or RGBA pixel buffer into a Grid of height rows and
// width columns. The channel count is inferred from the buffer length and
// must be at least three; channels past the third are ignored.
func Decode(pixels []byte, width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, &DecodeError{Width: width, Height: height, Length: len(pixels), Reason: "dimensions must be positive"}
	}
	if width > math.MaxInt/height {
		return nil, &DecodeError{Width: width, Height: height, Length: len(pixels), Reason: "dimensions overflow"}
	}
	n := width * height
	if len(pixels)%n != 0 {
		return nil, &DecodeError{Width: width, Height: height, Length: len(pixels),
			Reason: fmt.Sprintf("length is not a multiple of %d pixels", n)}
	}
	return DecodeChannels(pixels, width, height, len(pixels)/n)
}

// DecodeChannels is Decode with an explicit per-pixel stride.
func DecodeChannels(pixels []byte, width, height, channels int) (*Grid, error) {
	derr := &DecodeError{Width: width, Height: height, Channels: channels, Length: len(pixels)}
	switch {
	case width <= 0 || height <= 0:
		derr.Reason = "dimensions must be positive"
		return nil, derr
	case channels < MinChannels:
		derr.Reason = fmt.Sprintf("need at least %d channels, got %d", MinChannels, channels)
		return nil, derr
	case width > math.MaxInt/height || width*height > math.MaxInt/channels:
		derr.Reason = "dimensions overflow"
		return nil, derr
	case len(pixels) != width*height*channels:
		derr.Reason = fmt.Sprintf("want %d bytes for %d channels", width*height*channels, channels)
		return nil, derr
	}

	values := make([]float64, width*height)
	for i := range values {
		p := pixels[i*channels : i*channels+MinChannels]
		values[i] = Height(p[0], p[1], p[2])
	}
	return &Grid{rows: height, cols: width, values: values}, nil
}

// DecodeImage decodes an already-rasterised tile. Non-NRGBA images are
// converted first; terrain tiles are opaque, so no alpha correction applies.
func DecodeImage(img image.Image) (*Grid, error) {
	b := img.Bounds()
	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Stride != 4*b.Dx() || b.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
	}
	return DecodeChannels(nrgba.Pix, b.Dx(), b.Dy(), 4)
}

// DecodeTile reads a PNG or WebP terrain-RGB tile.
func DecodeTile(r io.Reader) (*Grid, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode tile image: %w", err)
	}
	g, err := DecodeImage(img)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s tile: %w", format, err)
	}
	return g, nil
}
