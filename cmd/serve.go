package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/df07/go-pathtracer/web/server"
	"github.com/urfave/cli"
)

// Serve starts the HTTP render server and blocks until interrupted.
func Serve(ctx *cli.Context) error {
	setupLogging(ctx)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	srv := server.NewServer(ctx.Int("port"), ctx.String("dir"))
	srv.MaxWorkers = defaultWorkers()
	logger.Noticef("visit http://localhost:%d/api/scenes to list scenes", ctx.Int("port"))
	return srv.Start(runCtx)
}
