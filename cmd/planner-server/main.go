package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"planner/internal/backend"
	"planner/internal/cache"
	"planner/internal/cli"
	"planner/internal/config"
	apphttp "planner/internal/http"
	"planner/internal/log"
	"planner/internal/watch"
)

const (
	shutdownTimeout = 30 * time.Second
	cacheSweep      = time.Minute
)

func main() {
	cfg, logger, err := cli.Bootstrap(os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := cli.GracefulShutdown(context.Background(), logger)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Server error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	res, err := backend.NewFactory(logger.Logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return fmt.Errorf("create backend: %w", err)
	}
	defer func() {
		if err := res.Cleanup(); err != nil {
			logger.Error("Cleanup failed", log.FieldError, err)
		}
	}()

	srv := apphttp.NewServer(":"+cfg.Port, res.Service, logger)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting planner server", "port", cfg.Port, log.FieldBackend, cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if res.Cached != nil {
		g.Go(func() error {
			return cache.NewManager(res.Cache).Run(gctx, cacheSweep)
		})

		if cfg.WatchStore && res.WatchPath != "" {
			w := watch.New(res.WatchPath, func() {
				logger.WithComponent(log.ComponentWatch).Debug("Event file changed, dropping cached snapshot")
				res.Cached.Invalidate()
			})
			g.Go(func() error {
				return w.Run(gctx)
			})
		}
	}

	return g.Wait()
}
