package output

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Raster is a grid of linear colors addressed with (0, 0) at the top-left
type Raster interface {
	Size() (width, height int)
	At(x, y int) core.Vec3
}

// GammaByte gamma-encodes one linear channel (gamma 2) into [0, 255]
func GammaByte(linear float64) uint8 {
	if math.IsNaN(linear) || linear < 0 {
		linear = 0
	}
	if linear > 1 {
		linear = 1
	}
	return uint8(255 * math.Sqrt(linear))
}

// ToRGBA converts a linear color to a gamma-corrected 8-bit RGBA color
func ToRGBA(c core.Vec3) color.RGBA {
	return color.RGBA{
		R: GammaByte(c.X),
		G: GammaByte(c.Y),
		B: GammaByte(c.Z),
		A: 255,
	}
}

// ToImage converts a raster to an 8-bit image
func ToImage(r Raster) *image.RGBA {
	width, height := r.Size()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, ToRGBA(r.At(x, y)))
		}
	}
	return img
}
