package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	apihttp "github.com/example/homeboard/internal/api/http"
	"github.com/example/homeboard/internal/config"
	"github.com/example/homeboard/internal/logger"
	"github.com/example/homeboard/internal/notify"
	"github.com/example/homeboard/internal/repository/alarms"
	"github.com/example/homeboard/internal/scheduler"
)

// Options controls the homeboard-server process and configuration.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// ListenAddress provides an optional listen address override for the
	// dashboard API.
	ListenAddress string
}

// shutdownTimeout bounds the graceful HTTP shutdown at process teardown.
const shutdownTimeout = 5 * time.Second

// Run wires the persistence client, the scheduler and the dashboard API
// together and blocks until the context is cancelled or a component fails.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "homeboard-server")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if cfg.LogLevel != "" {
		if level, ok := logger.ParseLogLevel(cfg.LogLevel); ok {
			logger.SetLevel(level)
		} else {
			logger.WarnKV(ctx, "Unknown log level, keeping default", "log_level", cfg.LogLevel)
		}
	}

	// Command line argument overrides config.
	listenAddress := cfg.ListenAddress
	if opts.ListenAddress != "" {
		listenAddress = opts.ListenAddress
	}

	client, err := alarms.NewClient(cfg.APIBaseURL, alarms.WithCallTimeout(cfg.Timeout))
	if err != nil {
		return fmt.Errorf("create persistence client: %w", err)
	}

	svc := scheduler.New(client, notify.NewConsole(),
		scheduler.WithRefreshInterval(cfg.RefreshInterval))

	httpServer := &http.Server{
		Addr:              listenAddress,
		Handler:           apihttp.NewServer(svc).Router(),
		ReadHeaderTimeout: cfg.Timeout,
	}

	logger.InfoKV(ctx, "Starting homeboard server",
		"listen_address", listenAddress,
		"api_base_url", cfg.APIBaseURL,
		"refresh_interval", cfg.RefreshInterval.String(),
	)

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return svc.Run(ctx)
	})

	group.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve dashboard API: %w", err)
		}

		return nil
	})

	group.Go(func() error {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down dashboard API")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown dashboard API: %w", err)
		}

		return nil
	})

	if err := group.Wait(); err != nil {
		return err
	}

	logger.Info(ctx, "Homeboard server stopped")

	return nil
}
