package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Plant-GO/biodex/internal/adapter"
	"github.com/Plant-GO/biodex/internal/app"
	"github.com/Plant-GO/biodex/internal/config"
	"github.com/Plant-GO/biodex/internal/logger"
	"github.com/Plant-GO/biodex/internal/metrics"
	"github.com/Plant-GO/biodex/internal/providers/jetstream"
	"github.com/Plant-GO/biodex/internal/store"
	"github.com/Plant-GO/biodex/internal/worker"
)

var (
	configFile  = flag.String("config", "", "Path to configuration file")
	envPath     = flag.String("env", "config/", "Path to environment files")
	metricsAddr = flag.String("metrics-addr", ":9090", "Address serving /metrics, empty to disable")
)

func main() {
	flag.Parse()

	// Load configuration
	config.ChdirRepoRoot()
	cfg, err := config.LoadWorkerConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "biodex-worker",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)
	logger.InfoCtx(ctx, "Starting biodex worker")

	db, err := app.OpenDatabase(ctx, cfg.Database)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to open database", zap.Error(err))
	}

	m, err := metrics.New(prometheus.NewRegistry())
	if err != nil {
		logger.FatalCtx(ctx, "Failed to register metrics", zap.Error(err))
	}

	natsCfg := app.NATSConfig(cfg.NATS, "biodex-worker")

	publisher, err := jetstream.NewPublisher(ctx, natsCfg, adapter.NewNatsJetStream(), adapter.NewJSON())
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create event publisher", zap.Error(err))
	}
	defer publisher.Close()

	stack, err := app.Build(ctx, store.NewPGStore(db), app.Options{
		Program:   cfg.Program,
		Rent:      cfg.Rent,
		Publisher: publisher,
		Metrics:   m,
	})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to build issuance stack", zap.Error(err))
	}
	defer stack.Close()

	subscriber, err := jetstream.NewSubscriber(natsCfg, adapter.NewNatsJetStream(), adapter.NewJSON())
	if err != nil {
		logger.FatalCtx(ctx, "Failed to create command subscriber", zap.Error(err))
	}

	w := worker.New(worker.Config{
		WorkerPoolSize:     cfg.Worker.WorkerPoolSize,
		WorkerQueueSize:    cfg.Worker.WorkerQueueSize,
		MaxConflictRetries: cfg.Worker.MaxConflictRetries,
	}, subscriber, stack.Service)
	defer w.Close()

	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())
		metricsServer := &http.Server{Addr: *metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.ErrorCtx(ctx, err, zap.String("component", "metrics"))
			}
		}()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			_ = metricsServer.Shutdown(shutdownCtx)
		}()
	}

	// Run worker in a goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- w.Run(ctx)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-sigCh:
		logger.InfoCtx(ctx, "Received shutdown signal", zap.String("signal", sig.String()))
		cancel()
		if err := <-errCh; err != nil {
			logger.ErrorCtx(context.Background(), err, zap.String("component", "worker"))
		}
	case err := <-errCh:
		if err != nil {
			logger.ErrorCtx(ctx, err, zap.String("component", "worker"))
		}
		cancel()
	}

	logger.Info("Worker stopped")
}
