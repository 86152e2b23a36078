package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/sounding-qc-service/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/sounding-qc-service/internal/adapter/kafka"
	"github.com/couchcryptid/sounding-qc-service/internal/config"
	"github.com/couchcryptid/sounding-qc-service/internal/observability"
	"github.com/couchcryptid/sounding-qc-service/internal/pipeline"
	"github.com/couchcryptid/sounding-qc-service/internal/qc"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	runner, err := qc.NewRunner(qc.NewDefaultRegistry(), cfg.QC.Checks, cfg.QC.CheckOptions(logger))
	if err != nil {
		logger.Error("failed to build qc runner", "error", err)
		os.Exit(1)
	}
	logger.Info("qc checks configured",
		"checks", runner.Names(),
		"spdt_t_thresh", cfg.QC.SPDTCheckTThresh,
		"max_levels", cfg.QC.MaxLevels,
		"min_pressure", cfg.QC.MinPressure,
	)

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewTransformer(runner, cfg.QC.IndicesOptions(), logger, metrics)

	p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize, cfg.Workers)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, runner, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	select {
	case <-done:
	case <-shutdownCtx.Done():
		logger.Warn("pipeline did not stop before shutdown timeout")
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
