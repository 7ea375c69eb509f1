package renderer

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// Canvas holds the averaged linear color of every pixel, row 0 at the top.
// Each cell is owned by exactly one worker during a render, so writes need
// no lock; readers must wait until the render has joined.
type Canvas struct {
	Width  int
	Height int
	pixels []core.Vec3
	writes []uint32
}

// NewCanvas allocates a black canvas
func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		Width:  width,
		Height: height,
		pixels: make([]core.Vec3, width*height),
		writes: make([]uint32, width*height),
	}
}

// Size returns the canvas dimensions
func (c *Canvas) Size() (int, int) {
	return c.Width, c.Height
}

// At returns the color at (x, y)
func (c *Canvas) At(x, y int) core.Vec3 {
	return c.pixels[y*c.Width+x]
}

// Set stores the color at (x, y)
func (c *Canvas) Set(x, y int, color core.Vec3) {
	i := y*c.Width + x
	c.pixels[i] = color
	c.writes[i]++
}

// WriteCount returns how many times (x, y) was written
func (c *Canvas) WriteCount(x, y int) int {
	return int(c.writes[y*c.Width+x])
}

// Unwritten returns the number of cells that were never written
func (c *Canvas) Unwritten() int {
	missing := 0
	for _, n := range c.writes {
		if n == 0 {
			missing++
		}
	}
	return missing
}
