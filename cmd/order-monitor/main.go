package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bhadmusolaide/modern-ecom-with-admin-panel-sub003/internal/api"
	"github.com/bhadmusolaide/modern-ecom-with-admin-panel-sub003/internal/bus"
	"github.com/bhadmusolaide/modern-ecom-with-admin-panel-sub003/internal/cache"
	"github.com/bhadmusolaide/modern-ecom-with-admin-panel-sub003/internal/collector"
	"github.com/bhadmusolaide/modern-ecom-with-admin-panel-sub003/internal/config"
	"github.com/bhadmusolaide/modern-ecom-with-admin-panel-sub003/internal/evaluator"
	"github.com/bhadmusolaide/modern-ecom-with-admin-panel-sub003/internal/metrics"
	"github.com/bhadmusolaide/modern-ecom-with-admin-panel-sub003/internal/notify"
	"github.com/bhadmusolaide/modern-ecom-with-admin-panel-sub003/internal/runner"
	"github.com/bhadmusolaide/modern-ecom-with-admin-panel-sub003/internal/store"
	"github.com/bhadmusolaide/modern-ecom-with-admin-panel-sub003/internal/utils"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("path", configPath), slog.Any("error", err))
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Logging.Level, cfg.Logging.JSON)
	logger.Info("starting order monitor",
		slog.String("address", cfg.Server.Address),
		slog.Duration("interval", cfg.Monitor.Interval))

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		logger.Error("failed to register metrics", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := store.Connect(ctx, cfg.Database.URL, cfg.Database.MaxConns, cfg.Database.ConnectTimeout)
	if err != nil {
		logger.Error("database unavailable", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	alertBus, err := bus.New(bus.Config{
		Addr:     cfg.Redis.Addr,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Topic:    cfg.Redis.Topic,
	}, logger)
	if err != nil {
		logger.Error("alert topic unavailable", slog.Any("error", err))
		os.Exit(1)
	}
	defer alertBus.Close()

	var cacheProvider cache.Provider = cache.NoopProvider{}
	if cfg.Cache.Enabled {
		cacheProvider = cache.NewRedisProvider(alertBus.Client())
	}

	repository := store.New(pool, cacheProvider, cfg.Cache.AlertsTTL, cfg.Cache.AggregatesTTL)

	coll := collector.New(logger, repository, cfg.Monitor.Window, cfg.Monitor.SampleErrorLimit)
	eval := evaluator.New(evaluator.Thresholds{
		ErrorRates:           cfg.Monitor.ErrorRateThresholds,
		PerformanceMs:        cfg.Monitor.PerformanceThresholdsMs,
		DefaultPerformanceMs: cfg.Monitor.DefaultPerformanceMs,
	})
	dispatcher := notify.NewDispatcher(logger, cfg.Notify, repository)
	jobs := runner.New(logger, cfg.Monitor.Interval, coll, eval, alertBus)

	server := api.NewServer(cfg.Server, repository, logger)

	var metricsServer *http.Server
	if cfg.Server.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{
			Addr:         cfg.Server.MetricsAddress,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 15 * time.Second,
		}
		go func() {
			logger.Info("metrics server listening", slog.String("address", cfg.Server.MetricsAddress))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server exited", slog.Any("error", err))
				stop()
			}
		}()
	}

	go func() {
		if err := alertBus.Subscribe(ctx, dispatcher.HandleMessage); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("alert subscriber exited", slog.Any("error", err))
			stop()
		}
	}()

	go func() {
		if err := server.Start(); err != nil {
			logger.Error("admin API exited", slog.Any("error", err))
			stop()
		}
	}()

	go jobs.Start(ctx)

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()
	server.Shutdown(shutdownCtx)

	if metricsServer != nil {
		metricsCtx, cancelMetrics := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(metricsCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server shutdown", slog.Any("error", err))
		}
		cancelMetrics()
	}

	// Give remaining goroutines time to finish logging
	time.Sleep(100 * time.Millisecond)
	logger.Info("order monitor stopped")
}
