package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/opskit/sretest/internal/config"
	"github.com/opskit/sretest/internal/monitor"
	"github.com/opskit/sretest/pkg/adapters/metrics/prometheus"
	"github.com/opskit/sretest/pkg/api/http"
	"github.com/opskit/sretest/pkg/api/metrics"
)

var (
	// Version is set by build flags
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Load the optional .env file before anything reads the environment.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("starting SRE test service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime))

	// Initialize metrics
	metricsCollector := prometheus.NewCollector()
	metricsCollector.SetBuildInfo(Version)

	// Initialize runtime monitor
	runtimeMonitor := monitor.New(cfg.MonitorInterval, metricsCollector, logger)

	// Initialize API servers
	httpServer := http.NewServer(&http.Config{
		Addr:     cfg.GetHTTPAddr(),
		Logger:   logger,
		Metrics:  metricsCollector,
		Fault:    cfg.Fault,
		Timeouts: cfg.Timeouts,
	})

	var metricsServer *metrics.Server
	if cfg.Metrics.Enabled {
		metricsServer, err = metrics.NewServer(&metrics.Config{
			Addr:     cfg.GetMetricsAddr(),
			Gatherer: metricsCollector.Registry(),
			Logger:   logger,
		})
		if err != nil {
			logger.Fatal("failed to create metrics server", zap.Error(err))
		}
	}

	// Start components
	runtimeMonitor.Start()

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	if metricsServer != nil {
		go func() {
			if err := metricsServer.Start(); err != nil {
				logger.Fatal("metrics server failed", zap.Error(err))
			}
		}()
	}

	logger.Info("SRE test service started",
		zap.String("addr", cfg.GetHTTPAddr()),
		zap.Bool("metrics_enabled", cfg.Metrics.Enabled),
		zap.Bool("fault_injection", cfg.Fault.Enabled()))

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("received shutdown signal")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeouts.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown error", zap.Error(err))
		}
	}

	runtimeMonitor.Stop()

	logger.Info("SRE test service shut down complete")
}

// initLogger initializes the logger based on log level
func initLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	return logger
}
