package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/AlibekovAA/blog-api/internal/common/constants"
	"github.com/AlibekovAA/blog-api/internal/common/logger"
)

type ShutdownHook func(ctx context.Context) error

func New(port string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: constants.ServerReadHeaderTimeout,
		ReadTimeout:       constants.ServerReadTimeout,
		WriteTimeout:      constants.ServerWriteTimeout,
		IdleTimeout:       constants.ServerIdleTimeout,
	}
}

// StartWithGracefulShutdown serves until SIGINT or SIGTERM arrives.
func StartWithGracefulShutdown(server *http.Server, log *logger.Logger, serviceName string, hooks []ShutdownHook) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := Serve(ctx, server, log, serviceName, hooks); err != nil {
		log.Fatalf("%v", err)
	}
}

// Serve listens until ctx is done, then runs hooks and shuts the server down.
// It returns early with an error when the listener cannot start.
func Serve(ctx context.Context, server *http.Server, log *logger.Logger, serviceName string, hooks []ShutdownHook) error {
	listenErr := make(chan error, 1)
	go func() {
		log.Infof("%s service listening on %s", serviceName, server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	select {
	case err := <-listenErr:
		return fmt.Errorf("failed to start %s service: %w", serviceName, err)
	case <-ctx.Done():
	}

	log.Infof("shutting down %s service...", serviceName)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer shutdownCancel()

	drainCtx, drainCancel := context.WithTimeout(shutdownCtx, constants.DrainTimeout)
	defer drainCancel()

	log.Infof("%s service: stopping accepting new connections (drain period: %v)", serviceName, constants.DrainTimeout)
	server.SetKeepAlivesEnabled(false)

	for i, hook := range hooks {
		if err := hook(drainCtx); err != nil {
			log.Errorf("%s service: shutdown hook %d failed: %v", serviceName, i, err)
		}
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("%s service forced to shutdown: %v", serviceName, err)
		return nil
	}

	log.Infof("%s service stopped gracefully", serviceName)
	return nil
}
