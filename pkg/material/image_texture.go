package material

import (
	"fmt"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/loaders"
)

// ImageTexture provides color from a 2D image
type ImageTexture struct {
	Width  int
	Height int
	Pixels []core.Vec3 // Row-major from the top row: Pixels[y*Width + x]
}

// NewImageTexture creates a new image texture
func NewImageTexture(width, height int, pixels []core.Vec3) *ImageTexture {
	return &ImageTexture{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}

// LoadImageTexture decodes an image file into a texture
func LoadImageTexture(filename string) (*ImageTexture, error) {
	data, err := loaders.LoadImage(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to load texture %q: %w", filename, err)
	}
	if data.Width == 0 || data.Height == 0 {
		return nil, fmt.Errorf("texture %q has no pixels", filename)
	}
	return NewImageTexture(data.Width, data.Height, data.Pixels), nil
}

// Evaluate samples the texture at given UV coordinates using nearest-neighbor
// filtering. UV wraps around; V=0 is the bottom row of the image.
func (t *ImageTexture) Evaluate(uv core.Vec2, point core.Vec3) core.Vec3 {
	if len(t.Pixels) == 0 {
		return core.NewVec3(0, 1, 1) // Cyan makes a missing texture obvious
	}

	u := uv.X - math.Floor(uv.X)
	v := uv.Y - math.Floor(uv.Y)

	x := clampIndex(int(u*float64(t.Width)), t.Width)
	y := clampIndex(int((1.0-v)*float64(t.Height)), t.Height)

	return t.Pixels[y*t.Width+x]
}

func clampIndex(i, n int) int {
	if i >= n {
		return n - 1
	}
	if i < 0 {
		return 0
	}
	return i
}
