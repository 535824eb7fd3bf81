package main

import (
	"context"
	"fmt"
	"os"

	"github.com/AlibekovAA/blog-api/internal/common/bootstrap"
	srv "github.com/AlibekovAA/blog-api/internal/common/server"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := bootstrap.NewApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start %s: %v\n", bootstrap.ServiceName, err)
		os.Exit(1)
	}
	defer app.Log.Close()
	defer app.Pool.Close()

	app.Limiter.RunCleanup(ctx)

	server := srv.New(app.Config.HTTPPort, app.Handler)

	shutdownHooks := []srv.ShutdownHook{
		func(ctx context.Context) error {
			app.Log.Infof("%s: stopping background workers", bootstrap.ServiceName)
			cancel()
			return nil
		},
	}

	srv.StartWithGracefulShutdown(server, app.Log, bootstrap.ServiceName, shutdownHooks)
}
