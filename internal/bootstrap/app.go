package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yanqian/slidegen/internal/infra/config"
	"github.com/yanqian/slidegen/pkg/tracer"
)

const shutdownTimeout = 10 * time.Second

// App encapsulates the HTTP server lifecycle.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	server         *http.Server
	tracerShutdown tracer.ShutdownFunc
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, tracerShutdown tracer.ShutdownFunc) *App {
	return &App{
		cfg:            cfg,
		logger:         logger.With("component", "bootstrap"),
		server:         server,
		tracerShutdown: tracerShutdown,
	}
}

// Run starts the HTTP server and blocks until ctx is cancelled or the server fails.
func (a *App) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		return err
	}
	return a.Serve(ctx, listener)
}

// Serve runs the server on listener until ctx is cancelled, then drains in-flight requests.
func (a *App) Serve(ctx context.Context, listener net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("http server starting",
			"address", listener.Addr().String(),
			"mode", string(a.cfg.Mode),
			"static_dir", a.cfg.Paths.StaticDir,
			"output_dir", a.cfg.Paths.OutputDir,
		)
		if err := a.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := a.server.Shutdown(shutdownCtx)
		if a.tracerShutdown != nil {
			err = errors.Join(err, a.tracerShutdown(shutdownCtx))
		}
		return err
	})

	return g.Wait()
}
