// Command worker is the long-running daemon: it retrains the ensemble
// on a fixed interval, runs the feedback ingestion loop on a cron
// schedule, and exposes Prometheus metrics over HTTP.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/whiteref/soccer-guardian-v10/internal/calibration"
	"github.com/whiteref/soccer-guardian-v10/internal/config"
	"github.com/whiteref/soccer-guardian-v10/internal/elo"
	"github.com/whiteref/soccer-guardian-v10/internal/feedback"
	"github.com/whiteref/soccer-guardian-v10/internal/features"
	"github.com/whiteref/soccer-guardian-v10/internal/kalman"
	"github.com/whiteref/soccer-guardian-v10/internal/liveapi"
	"github.com/whiteref/soccer-guardian-v10/internal/matchstore"
	"github.com/whiteref/soccer-guardian-v10/internal/objectstore"
	"github.com/whiteref/soccer-guardian-v10/internal/predictor"
	"github.com/whiteref/soccer-guardian-v10/internal/teamnames"
	"github.com/whiteref/soccer-guardian-v10/internal/training"
)

func main() {
	setupLogger()

	log.Info().Msg("starting soccer-guardian worker")

	cfg := config.MustLoad()
	log.Info().Str("env", cfg.AppEnv).Str("log_level", cfg.LogLevel).Msg("configuration loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info().Msg("received shutdown signal, gracefully shutting down...")
		cancel()
	}()

	mirror, err := objectstore.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize object storage mirror")
	}

	ratings, err := elo.New(filepath.Join(cfg.StateDir, "elo.json"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize ELO engine")
	}

	filters, err := kalman.New(filepath.Join(cfg.StateDir, "kalman.json"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Kalman filter bank")
	}

	calib, err := calibration.New(filepath.Join(cfg.StateDir, "calibration.json"), mirror)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize calibration tracker")
	}

	matches := matchstore.New(cfg, mirror)

	var live *liveapi.Client
	if cfg.LiveAPIConfigured() {
		live = liveapi.New(cfg.LiveAPIBaseURL, cfg.LiveAPIKey, cfg.LiveAPITimeout, cfg.HTTPMaxRetries)
	}

	names := teamnames.NewStatic()

	loop, err := feedback.New(matches, live, ratings, calib, names, filepath.Join(cfg.StateDir, "ingested.json"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize feedback loop")
	}

	builder := features.NewBuilder(ratings)
	ensemble := predictor.New(predictor.NewStaticFavorites())

	if cfg.EnableMetrics {
		go startMetricsServer(cfg.MetricsPort)
	}

	c := cron.New()
	if cfg.EnableScheduler {
		if _, err := c.AddFunc(cfg.FeedbackCron, func() {
			runFeedback(ctx, loop)
		}); err != nil {
			log.Fatal().Err(err).Str("cron", cfg.FeedbackCron).Msg("failed to schedule feedback loop")
		}
		c.Start()
		log.Info().Str("cron", cfg.FeedbackCron).Msg("feedback loop scheduled")
	}

	runTraining(ctx, matches, builder, ensemble, calib, ratings, filters)

	ticker := time.NewTicker(cfg.WorkerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			runTraining(ctx, matches, builder, ensemble, calib, ratings, filters)
		case <-ctx.Done():
			log.Info().Msg("stopping scheduler...")
			stopCtx := c.Stop()
			<-stopCtx.Done()
			log.Info().Msg("worker shutdown complete")
			return
		}
	}
}

func runFeedback(ctx context.Context, loop *feedback.Loop) {
	n, err := loop.Run(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("feedback loop pass failed")
		return
	}
	log.Info().Int("ingested", n).Msg("feedback loop pass complete")
}

func runTraining(ctx context.Context, matches *matchstore.Store, builder *features.Builder, ensemble *predictor.Ensemble, calib *calibration.Tracker, ratings *elo.Engine, filters *kalman.Bank) {
	report, err := training.Run(ctx, matches, builder, ensemble, calib, ratings, filters)
	if err != nil {
		log.Warn().Err(err).Msg("training pass failed")
		return
	}
	log.Info().
		Int("train_rows", report.TrainRows).
		Int("held_out_rows", report.HeldOutRows).
		Float64("accuracy", report.Accuracy).
		Float64("mean_brier", report.MeanBrier).
		Msg("training pass complete")
}

func startMetricsServer(port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	addr := fmt.Sprintf(":%d", port)
	log.Info().Str("addr", addr).Msg("starting metrics server")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error().Err(err).Msg("metrics server failed")
	}
}

func setupLogger() {
	if os.Getenv("APP_ENV") == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}
	level := zerolog.InfoLevel
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		if parsed, err := zerolog.ParseLevel(lvl); err == nil {
			level = parsed
		}
	}
	zerolog.SetGlobalLevel(level)
	log.Info().Str("level", level.String()).Msg("logger initialized")
}
