package material

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// CheckerTexture alternates between two color sources in a 3D pattern driven
// by the sign of sin(f·x)·sin(f·y)·sin(f·z) at the hit point
type CheckerTexture struct {
	Odd       ColorSource
	Even      ColorSource
	Frequency float64
}

// DefaultCheckerFrequency gives checks roughly 0.31 units across
const DefaultCheckerFrequency = 10.0

// NewCheckerTexture creates a checker alternating between two solid colors
func NewCheckerTexture(odd, even core.Vec3) *CheckerTexture {
	return NewCheckerTextureFrom(NewSolidColor(odd), NewSolidColor(even))
}

// NewCheckerTextureFrom creates a checker alternating between two color sources
func NewCheckerTextureFrom(odd, even ColorSource) *CheckerTexture {
	return &CheckerTexture{Odd: odd, Even: even, Frequency: DefaultCheckerFrequency}
}

// Evaluate picks the odd source where the sine product is negative
func (c *CheckerTexture) Evaluate(uv core.Vec2, point core.Vec3) core.Vec3 {
	f := c.Frequency
	sines := math.Sin(f*point.X) * math.Sin(f*point.Y) * math.Sin(f*point.Z)
	if sines < 0 {
		return c.Odd.Evaluate(uv, point)
	}
	return c.Even.Evaluate(uv, point)
}

// NewUVDebugTexture creates a texture showing UV coordinates as colors
// U maps to red channel, V maps to green channel
func NewUVDebugTexture(width, height int) *ImageTexture {
	pixels := make([]core.Vec3, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			u := float64(x) / float64(max(width-1, 1))
			v := 1.0 - float64(y)/float64(max(height-1, 1))
			pixels[y*width+x] = core.NewVec3(u, v, 0.0)
		}
	}

	return NewImageTexture(width, height, pixels)
}
