package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"calcsvc/internal/calculator"
	"calcsvc/internal/config"
	"calcsvc/internal/observability"
	"calcsvc/internal/server"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {

	ctx := context.Background()

	if err := loadDotEnv(); err != nil {
		panic(err)
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// Logger
	err = observability.InitLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer observability.SyncLogger()

	// Tracing
	traceShutdown, err := observability.InitTracing(ctx)
	if err != nil {
		panic(err)
	}

	// Metrics
	metricShutdown, err := initMetrics(ctx)
	if err != nil {
		panic(err)
	}

	// Logs export
	logShutdown, err := observability.InitLogging(ctx)
	if err != nil {
		panic(err)
	}

	// Sessions
	store := calculator.NewSessionStore(cfg.SessionTTL, cfg.MaxSessions)
	prometheus.MustRegister(calculator.SessionsCollector(store))

	sweepCtx, stopSweep := context.WithCancel(ctx)
	go store.Run(sweepCtx, cfg.SweepInterval)

	// Router
	router := server.NewRouter(
		calculator.NewHandler(store, cfg.MaxKeysPerRequest),
		prometheus.DefaultGatherer,
	)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	go func() {
		observability.Logger.Info("server started",
			zap.String("addr", cfg.Addr),
			zap.Duration("session_ttl", cfg.SessionTTL),
			zap.Int("max_sessions", cfg.MaxSessions),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			panic(err)
		}
	}()

	wait := gfshutdown.GracefulShutdown(ctx, cfg.ShutdownTimeout, map[string]gfshutdown.Operation{
		"http-server": func(ctx context.Context) error {
			observability.Logger.Info("shutting down server")
			stopSweep()
			return srv.Shutdown(ctx)
		},
		"otel-traces":  traceShutdown,
		"otel-metrics": metricShutdown,
		"otel-logs":    logShutdown,
	})

	exitCode := <-wait
	observability.Logger.Info("server stopped", zap.Int("exit_code", exitCode))
	observability.SyncLogger()
	os.Exit(exitCode)
}
