package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vyrodovalexey/routem/internal/config"
	"github.com/vyrodovalexey/routem/internal/observability"
	"github.com/vyrodovalexey/routem/internal/router"
	"github.com/vyrodovalexey/routem/internal/util"
)

// watchCommand creates the watch command.
func (c *cli) watchCommand() *cobra.Command {
	var (
		debounce    time.Duration
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the route table loaded and reload it on change",
		Long: `Load the route table and watch it for changes. Every change is validated
before it replaces the live route set; a broken table is reported and the
previous routes stay in effect.

With --metrics-addr, router metrics are served in Prometheus format.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return c.runWatch(ctx, debounce, metricsAddr)
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce",
		getEnvDuration("ROUTEM_DEBOUNCE", 0), "Delay before reloading after a change (default from the route table)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr",
		getEnvOrDefault("ROUTEM_METRICS_ADDR", ""), "Address to serve metrics on (disabled when empty)")

	return cmd
}

func (c *cli) runWatch(ctx context.Context, debounce time.Duration, metricsAddr string) error {
	logger := c.logger.With(observability.String("session", uuid.NewString()))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := router.NewMetrics(reg)
	metrics.Init()

	table, path, err := c.loadTable()
	if err != nil {
		return err
	}

	r := router.New(router.WithLogger(logger), router.WithMetrics(metrics))
	if err := r.LoadConfig(table); err != nil {
		return err
	}

	if debounce <= 0 {
		debounce = table.DebounceDelay().Duration()
	}
	opts := []config.WatcherOption{
		config.WithLogger(logger),
		config.WithErrorCallback(func(err error) {
			metrics.RecordReload(err)
		}),
	}
	if debounce > 0 {
		opts = append(opts, config.WithDebounceDelay(debounce))
	}

	watcher, err := config.NewWatcher(path,
		func(t *config.RouteTable) {
			if err := r.LoadConfig(t); err != nil {
				return
			}
			fmt.Fprintf(c.out, "reloaded %s (%d routes)\n", path, r.Len())
		},
		opts...,
	)
	if err != nil {
		return util.WrapError(err, "failed to create watcher")
	}
	if err := watcher.Start(ctx); err != nil {
		_ = watcher.Stop()
		return err
	}
	defer func() { _ = watcher.Stop() }()

	metricsErrCh := make(chan error, 1)
	if metricsAddr != "" {
		cfg := observability.DefaultMetricsServerConfig()
		cfg.Addr = metricsAddr
		server := observability.NewMetricsServer(cfg, reg, logger)
		go func() {
			metricsErrCh <- server.Start(ctx)
		}()
	}

	fmt.Fprintf(c.out, "watching %s (%d routes)\n", path, r.Len())

	select {
	case <-ctx.Done():
	case err := <-metricsErrCh:
		if err != nil {
			return err
		}
	}

	logger.Info("shutting down")
	return nil
}
