package output

import (
	"bufio"
	"fmt"
	"io"
)

// WritePPM writes the raster as a plain-text P3 image: a "P3" line, a
// "<width> <height>" line, a "255" line, then one "R G B" line per pixel
// from the top row down, left to right.
func WritePPM(w io.Writer, r Raster) error {
	width, height := r.Size()
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", width, height); err != nil {
		return fmt.Errorf("failed to write PPM header: %w", err)
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := ToRGBA(r.At(x, y))
			if _, err := fmt.Fprintf(bw, "%d %d %d\n", c.R, c.G, c.B); err != nil {
				return fmt.Errorf("failed to write PPM pixel (%d, %d): %w", x, y, err)
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush PPM output: %w", err)
	}
	return nil
}
