package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/output"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// renderOptions holds the render command flags. Zero values defer to the scene.
type renderOptions struct {
	Scene   string
	Width   int
	SPP     int
	Depth   int
	Workers int
	Seed    int64
	Out     string
}

func renderOptionsFrom(ctx *cli.Context) renderOptions {
	return renderOptions{
		Scene:   ctx.String("scene"),
		Width:   ctx.Int("width"),
		SPP:     ctx.Int("spp"),
		Depth:   ctx.Int("depth"),
		Workers: ctx.Int("workers"),
		Seed:    ctx.Int64("seed"),
		Out:     ctx.String("out"),
	}
}

// RenderScene renders a scene and writes the image to a file or stdout.
func RenderScene(ctx *cli.Context) error {
	setupLogging(ctx)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	stats, err := renderToOutput(runCtx, renderOptionsFrom(ctx), os.Stdout)
	if err != nil {
		return err
	}

	displayRenderStats(stats)
	return nil
}

// prepareScene resolves the scene and builds its BVH. Scene layout and the
// BVH draw from samplers derived from seed so a render is reproducible.
func prepareScene(ref string, seed int64) (*scene.Scene, error) {
	s, err := scene.Open(ref, core.NewSeededSampler(seed))
	if err != nil {
		return nil, err
	}
	if err := s.Preprocess(core.NewSeededSampler(seed)); err != nil {
		return nil, err
	}
	return s, nil
}

// renderConfig merges the command options over the scene's recommendations
func renderConfig(s *scene.Scene, opts renderOptions) renderer.Config {
	config := s.RenderConfig()
	if opts.Width > 0 {
		config = s.WithWidth(config, opts.Width)
	}
	if opts.SPP > 0 {
		config.SamplesPerPixel = opts.SPP
	}
	if opts.Depth > 0 {
		config.MaxDepth = opts.Depth
	}
	config.NumWorkers = opts.Workers
	if config.NumWorkers == 0 {
		config.NumWorkers = defaultWorkers()
	}
	config.Seed = opts.Seed
	return config
}

func renderToOutput(ctx context.Context, opts renderOptions, stdout io.Writer) (renderer.RenderStats, error) {
	s, err := prepareScene(opts.Scene, opts.Seed)
	if err != nil {
		return renderer.RenderStats{}, err
	}

	config := renderConfig(s, opts)
	r, err := s.NewRenderer(config)
	if err != nil {
		return renderer.RenderStats{}, err
	}

	logger.Noticef("rendering scene %q (%d objects) on %s", s.Name, s.PrimitiveCount(), hostInfo())
	canvas, stats, err := r.Render(ctx)
	if err != nil {
		return stats, err
	}

	if opts.Out == "" || opts.Out == "-" {
		if err := output.WritePPM(stdout, canvas); err != nil {
			return stats, fmt.Errorf("write image: %w", err)
		}
		return stats, nil
	}

	if err := output.SaveFile(opts.Out, canvas); err != nil {
		return stats, err
	}
	logger.Noticef("saved image to %s", opts.Out)
	return stats, nil
}

func displayRenderStats(stats renderer.RenderStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Worker", "Pixels", "% of frame"})
	for id, pixels := range stats.WorkerPixels {
		table.Append([]string{
			fmt.Sprintf("%d", id),
			fmt.Sprintf("%d", pixels),
			fmt.Sprintf("%02.1f %%", 100*float64(pixels)/float64(max(stats.TotalPixels, 1))),
		})
	}
	table.SetFooter([]string{
		fmt.Sprintf("%dx%d @ %d spp", stats.Width, stats.Height, stats.SamplesPerPixel),
		fmt.Sprintf("%.0f samples/s", stats.SamplesPerSecond()),
		stats.Duration.String(),
	})

	table.Render()
	logger.Noticef("render statistics\n%s", buf.String())
}
