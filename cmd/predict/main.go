// Command predict is the one-shot fixture-list CLI: it trains the
// ensemble on historical results, ingests any newly completed matches,
// and prints a newline-delimited JSON prediction record per fixture
// read from stdin or a single text argument.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

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
	"github.com/whiteref/soccer-guardian-v10/internal/orchestrator"
	"github.com/whiteref/soccer-guardian-v10/internal/predictor"
	"github.com/whiteref/soccer-guardian-v10/internal/teamnames"
	"github.com/whiteref/soccer-guardian-v10/internal/training"
)

func main() {
	setupLogger()

	cfg := config.MustLoad()
	log.Info().Str("env", cfg.AppEnv).Msg("soccer-guardian predict starting")

	ctx := context.Background()

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
	if n, err := loop.Run(ctx); err != nil {
		log.Warn().Err(err).Msg("feedback loop pass failed")
	} else {
		log.Info().Int("ingested", n).Msg("feedback loop pass complete")
	}

	builder := features.NewBuilder(ratings)
	ensemble := predictor.New(predictor.NewStaticFavorites())

	report, err := training.Run(ctx, matches, builder, ensemble, calib, ratings, filters)
	if err != nil {
		log.Fatal().Err(err).Msg("training pass failed")
	}
	log.Info().
		Int("train_rows", report.TrainRows).
		Int("held_out_rows", report.HeldOutRows).
		Float64("accuracy", report.Accuracy).
		Float64("mean_brier", report.MeanBrier).
		Msg("training complete")

	orch := orchestrator.New(ensemble, filters, ratings, calib, names)

	input, err := readFixtures()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read fixture input")
	}

	lines := orchestrator.ParseFixtures(input)
	predictions := orch.Predict(lines, builder)

	encoder := json.NewEncoder(os.Stdout)
	for _, p := range predictions {
		if err := encoder.Encode(p); err != nil {
			log.Error().Err(err).Msg("failed to encode prediction")
		}
	}
}

// readFixtures reads the fixture list from a single text argument if
// given, otherwise from stdin, per spec §6's CLI contract.
func readFixtures() (string, error) {
	if len(os.Args) > 1 {
		return os.Args[1], nil
	}
	reader := bufio.NewReader(os.Stdin)
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

func setupLogger() {
	if os.Getenv("APP_ENV") == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
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
}
