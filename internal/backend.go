package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fancontrol/fancontrol/internal/api"
	"github.com/fancontrol/fancontrol/internal/configuration"
	"github.com/fancontrol/fancontrol/internal/hwmon"
	"github.com/fancontrol/fancontrol/internal/service"
	"github.com/fancontrol/fancontrol/internal/statistics"
	"github.com/fancontrol/fancontrol/internal/ui"
	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

// RunDaemon starts fan control using the given configuration and blocks
// until the process receives SIGINT or SIGTERM
func RunDaemon(config configuration.Configuration) {
	if os.Geteuid() != 0 {
		ui.Warning("Fan control requires root permissions to be able to modify fan speeds, writes will most likely fail")
	}

	basePath, err := hwmon.ResolveBasePath(config.HwMon)
	if err != nil {
		basePath = config.HwMon.Path
		ui.Error("%v, falling back to %s", err, basePath)
	}
	ui.Info("Using hwmon device %s", basePath)

	s, err := service.New(config, basePath)
	if err != nil {
		ui.Fatal("Unable to initialize fan control: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = Run(ctx, s, config, prometheus.NewRegistry()); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	ui.Info("Done.")
}

// Run executes the control loop, the profile scheduler and the enabled
// servers until ctx is cancelled or one of them fails
func Run(ctx context.Context, s *service.Service, config configuration.Configuration, registry *prometheus.Registry) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := statistics.Register(registry, s); err != nil {
		return err
	}

	var g run.Group
	{
		g.Add(func() error {
			<-ctx.Done()
			ui.Info("Received shutdown request, exiting...")
			return nil
		}, func(err error) {
			cancel()
		})
	}
	{
		// === control loop
		g.Add(func() error {
			return s.Loop().Run(ctx)
		}, func(err error) {
			cancel()
			if err := s.Loop().Stop(shutdownTimeout); err != nil {
				ui.Warning("Error stopping control loop: %v", err)
			}
		})
	}
	{
		// === profile scheduler
		g.Add(func() error {
			return s.RunProfileScheduler(ctx, service.DefaultProfileCheckInterval)
		}, func(err error) {
			cancel()
		})
	}
	if config.Statistics.Enabled {
		// === Prometheus Exporter
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		server := &http.Server{
			Addr:              fmt.Sprintf(":%d", config.Statistics.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}

		g.Add(func() error {
			ui.Info("Starting statistics server on %s", server.Addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("cannot start prometheus metrics endpoint: %w", err)
			}
			return nil
		}, func(err error) {
			ui.Info("Stopping statistics server...")
			timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer timeoutCancel()
			if err := server.Shutdown(timeoutCtx); err != nil {
				ui.Warning("Error stopping statistics server: %v", err)
			}
		})
	}
	if config.Api.Enabled {
		// === REST api
		rest, err := api.CreateRestService(s, config.Api, registry)
		if err != nil {
			return err
		}
		address := fmt.Sprintf("%s:%d", config.Api.Host, config.Api.Port)

		g.Add(func() error {
			ui.Info("Starting REST api on %s", address)
			if err := rest.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("cannot start REST api: %w", err)
			}
			return nil
		}, func(err error) {
			ui.Info("Stopping REST api...")
			timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer timeoutCancel()
			if err := rest.Shutdown(timeoutCtx); err != nil {
				ui.Warning("Error stopping REST api: %v", err)
			}
		})
	}

	return g.Run()
}
