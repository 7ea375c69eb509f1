package renderer

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/df07/go-pathtracer/pkg/core"
)

// pixelTask is one pixel for a worker to render; Y counts rows from the top
type pixelTask struct {
	X, Y int
}

// Worker renders pixels pulled from a shared queue with its own sampler
type Worker struct {
	ID       int
	sampler  core.Sampler
	renderer *Renderer
	pixels   int
}

// newWorker creates a worker whose sampler is seeded from the render seed
func newWorker(id int, r *Renderer) *Worker {
	return &Worker{
		ID:       id,
		sampler:  core.NewSeededSampler(r.config.Seed + int64(id)),
		renderer: r,
	}
}

// run is the main worker loop. It stops when the queue is drained, when ctx
// is cancelled, or on a panic, which is returned as an error.
func (w *Worker) run(ctx context.Context, tasks <-chan pixelTask, canvas *Canvas, progress *rowProgress) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("worker %d panicked: %v\n%s", w.ID, r, debug.Stack())
		}
	}()

	for task := range tasks {
		if err := ctx.Err(); err != nil {
			return err
		}

		canvas.Set(task.X, task.Y, w.renderPixel(task.X, task.Y))
		w.pixels++
		progress.pixelDone(task.Y)
	}
	return nil
}

// renderPixel averages SamplesPerPixel jittered samples for pixel (x, y)
func (w *Worker) renderPixel(x, y int) core.Vec3 {
	r := w.renderer
	width, height := r.config.Width, r.config.Height

	// Camera coordinates count rows from the bottom of the image
	j := height - 1 - y
	sDenom := float64(max(width-1, 1))
	tDenom := float64(max(height-1, 1))

	var stats PixelStats
	for sample := 0; sample < r.config.SamplesPerPixel; sample++ {
		s := (float64(x) + w.sampler.Get1D()) / sDenom
		t := (float64(j) + w.sampler.Get1D()) / tDenom

		ray := r.camera.GetRay(s, t, w.sampler)
		stats.AddSample(r.integrator.RayColor(ray, r.world, w.sampler))
	}
	return stats.GetColor()
}
