package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/voltfleet/cpconsole/internal/bootstrap"
	"github.com/voltfleet/cpconsole/internal/poller"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "starting cpconsole",
		"addr", cfg.HTTP.Addr,
		"backend", cfg.Backend.URL,
		"dev", cfg.IsDev)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	services, err := bootstrap.BuildServices(ctx, &cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := services.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close services failed", "error", cerr)
		}
	}()

	// Start the boot gate: splash timer plus a backend probe, pages are
	// held on the splash screen until both have run their course.
	services.Gate.Start(ctx)
	go services.ResolveGate(ctx, logger)

	// Keep the dashboard snapshot warm in the background.
	dashPoller, err := poller.NewRunner(poller.Options{
		Name:     "dashboard",
		Interval: cfg.Polling.DashboardInterval,
		Tick:     services.Overview.Refresh,
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	go func() {
		if perr := dashPoller.Run(ctx); perr != nil {
			logger.ErrorContext(ctx, "dashboard poller stopped", "error", perr)
		}
	}()

	server, err := bootstrap.StartHTTPServer(&bootstrap.HTTPServerConfig{
		Config:   &cfg,
		Services: services,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	<-ctx.Done()
	return bootstrap.ShutdownHTTPServer(bootstrap.ShutdownConfig{
		Context: context.Background(),
		Server:  server,
		Timeout: cfg.HTTP.ShutdownTimeout,
		Logger:  logger,
	})
}
