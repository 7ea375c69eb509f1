package renderer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/log"
)

// ErrIncompleteCanvas is returned if a render finished without writing every pixel
var ErrIncompleteCanvas = errors.New("render left pixels unwritten")

var logger = log.New("renderer")

// Renderer draws an image of a world with a fixed pool of workers. The world,
// camera and integrator are shared read-only by every worker.
type Renderer struct {
	world      core.Hittable
	camera     *Camera
	integrator integrator.Integrator
	config     Config

	// OnProgress, if set, is called as rows complete
	OnProgress ProgressFunc
}

// New creates a renderer after validating its configuration
func New(world core.Hittable, camera *Camera, integ integrator.Integrator, config Config) (*Renderer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if world == nil || camera == nil || integ == nil {
		return nil, fmt.Errorf("%w: world, camera and integrator are required", ErrInvalidConfig)
	}

	return &Renderer{
		world:      world,
		camera:     camera,
		integrator: integ,
		config:     config.withDefaults(),
	}, nil
}

// Config returns the effective configuration
func (r *Renderer) Config() Config {
	return r.config
}

// Render draws every pixel exactly once. It returns the first worker failure
// or ctx's error, and never returns a partially drawn canvas.
func (r *Renderer) Render(ctx context.Context) (*Canvas, RenderStats, error) {
	width, height := r.config.Width, r.config.Height
	numWorkers := r.config.NumWorkers
	start := time.Now()

	logger.Infof(
		"Rendering %dx%d, %d samples/pixel, max depth %d, %d workers",
		width, height, r.config.SamplesPerPixel, r.config.MaxDepth, numWorkers,
	)

	// Queue every pixel up front; workers only ever block on this channel
	tasks := make(chan pixelTask, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			tasks <- pixelTask{X: x, Y: y}
		}
	}
	close(tasks)

	canvas := NewCanvas(width, height)
	progress := newRowProgress(width, height, r.OnProgress)

	workers := make([]*Worker, numWorkers)
	g, gctx := errgroup.WithContext(ctx)
	for i := range workers {
		worker := newWorker(i, r)
		workers[i] = worker
		g.Go(func() error {
			return worker.run(gctx, tasks, canvas, progress)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, RenderStats{}, fmt.Errorf("render failed: %w", err)
	}

	if missing := canvas.Unwritten(); missing > 0 {
		return nil, RenderStats{}, fmt.Errorf("%w: %d of %d", ErrIncompleteCanvas, missing, width*height)
	}

	stats := RenderStats{
		Width:           width,
		Height:          height,
		TotalPixels:     width * height,
		TotalSamples:    width * height * r.config.SamplesPerPixel,
		SamplesPerPixel: r.config.SamplesPerPixel,
		NumWorkers:      numWorkers,
		WorkerPixels:    make([]int, numWorkers),
		Duration:        time.Since(start),
	}
	for i, worker := range workers {
		stats.WorkerPixels[i] = worker.pixels
	}

	logger.Noticef("Rendered %d pixels in %s", stats.TotalPixels, stats.Duration)
	return canvas, stats, nil
}
