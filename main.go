package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"herbalif/config"
	"herbalif/db"
	qhttp "herbalif/http"
	"herbalif/logging"
	"herbalif/ml"
	"herbalif/monitoring"
)

func main() {
	defaultConfig := os.Getenv("HERBALIF_CONFIG")
	if defaultConfig == "" {
		defaultConfig = "config.yaml"
	}
	configPath := flag.String("config", defaultConfig, "path to YAML config file")
	flag.Parse()

	// 1. Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, level := logging.New(logging.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err := os.Stat(*configPath); err == nil {
		err := config.Watch(ctx, *configPath, logger, func(updated *config.Config) {
			level.SetLevel(logging.ParseLevel(updated.Log.Level))
		})
		if err != nil {
			logger.Warn("config watch disabled", zap.Error(err))
		}
	}

	// 2. Load model once; a failure leaves the service in degraded mode
	model := loadModel(cfg, logger)

	// 3. Wire handlers
	policy := qhttp.CORSPolicy{
		Paths:            cfg.CORS.Paths,
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		FallbackAllowAll: cfg.CORS.FallbackAllowAll,
	}
	hub := monitoring.NewHub(logger, policy.AllowsOrigin)
	go hub.Run(ctx)

	opts := []qhttp.APIOption{
		qhttp.WithMetrics(qhttp.NewMetrics()),
		qhttp.WithFeed(hub),
	}
	if cfg.History.Enabled {
		store, err := db.Open(cfg.History.Path, cfg.History.CacheSize)
		if err != nil {
			logger.Fatal("failed to open history database", zap.String("path", cfg.History.Path), zap.Error(err))
		}
		defer store.Close()
		logger.Info("history database initialized", zap.String("path", cfg.History.Path))
		opts = append(opts, qhttp.WithHistory(store))
	}

	predictor := qhttp.NewPredictor(model, ml.NewRandomFeatures(ml.FeatureColumns))
	api := qhttp.NewAPI(predictor, logger, opts...)

	// 4. Start HTTP server
	server := qhttp.NewServer(qhttp.ServerConfig{
		Addr:    cfg.Addr(),
		Timeout: cfg.Http.Timeout,
		CORS:    policy,
	}, api)
	go func() {
		if err := server.Start(); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// 5. Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Stop(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	cancel()

	logger.Info("exiting")
}

func loadModel(cfg *config.Config, logger *zap.Logger) ml.ModelProvider {
	model, err := ml.LoadModel(cfg.ML.ModelType, cfg.ML.ModelPath)
	if err != nil {
		fields := []zap.Field{zap.String("path", cfg.ML.ModelPath), zap.Error(err)}
		if errors.Is(err, os.ErrNotExist) {
			fields = append(fields, zap.String("hint", "train one with cmd/train_model"))
		}
		logger.Error("failed to load model, /predict will be unavailable", fields...)
		return nil
	}
	logger.Info("model loaded", zap.String("path", cfg.ML.ModelPath), zap.String("type", cfg.ML.ModelType))
	return model
}
