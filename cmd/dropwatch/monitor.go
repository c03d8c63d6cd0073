package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/tinytelemetry/dropwatch/internal/console"
	"github.com/tinytelemetry/dropwatch/internal/counters"
	"github.com/tinytelemetry/dropwatch/internal/droplog"
	"github.com/tinytelemetry/dropwatch/internal/httpserver"
	"github.com/tinytelemetry/dropwatch/internal/model"
	"github.com/tinytelemetry/dropwatch/internal/monitor"
)

// runMonitor starts the sampling loop and runs it until interrupted.
func runMonitor(cfg appConfig) error {
	// Validate the interface before touching the log file, so a typo leaves
	// no artifacts behind.
	if !counters.InterfaceExists(cfg.Interface) {
		return fmt.Errorf("interface %q does not exist", cfg.Interface)
	}

	source, err := counters.NewProcSource(cfg.Interface)
	if err != nil {
		return fmt.Errorf("failed to initialize counter source: %w", err)
	}

	writer, err := droplog.NewWriter(cfg.LogPath)
	if err != nil {
		return fmt.Errorf("failed to open drop log: %w", err)
	}
	defer writer.Close()

	reporter := console.NewReporter(os.Stdout)
	reporter.Banner(cfg.Interface, cfg.Interval, cfg.LogPath, counters.BondInfo(cfg.Interface))

	mon := monitor.New(source, cfg.Interface, cfg.CritThreshold)

	if cfg.HTTPEnabled {
		api := httpserver.NewServer(cfg.HTTPAddr, mon)
		if err := api.Start(); err != nil {
			return fmt.Errorf("failed to start status API: %w", err)
		}
		defer api.Stop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
		return nil
	})
	g.Go(func() error {
		return mon.Run(ctx, cfg.Interval,
			func(rec *model.IntervalRecord) error { reporter.Interval(rec); return nil },
			writer.Append,
		)
	})

	err = g.Wait()
	reporter.Shutdown()
	return err
}
