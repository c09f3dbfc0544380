// Package training runs the one-time walk-forward pass over historical
// matches that both builds the feature/label training matrix and
// advances the ELO engine, then fits the ensemble predictor on it.
package training

import (
	"context"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/whiteref/soccer-guardian-v10/internal/calibration"
	"github.com/whiteref/soccer-guardian-v10/internal/elo"
	"github.com/whiteref/soccer-guardian-v10/internal/features"
	"github.com/whiteref/soccer-guardian-v10/internal/kalman"
	"github.com/whiteref/soccer-guardian-v10/internal/matchstore"
	"github.com/whiteref/soccer-guardian-v10/internal/models"
	"github.com/whiteref/soccer-guardian-v10/internal/predictor"
)

// heldOutFraction is the chronological tail reserved for evaluation.
const heldOutFraction = 0.2

// Report summarizes the held-out evaluation of the freshly trained
// ensemble, exported as observability per spec §4.5 point 4.
type Report struct {
	TrainRows   int
	HeldOutRows int
	Accuracy    float64
	MeanBrier   float64
}

// bootstrapXGHome and bootstrapXGAway seed a team's first xG reading
// when the Kalman bank has never observed it, matching the priors
// orchestrator.go bootstraps inference with.
const (
	bootstrapXGHome = 1.3
	bootstrapXGAway = 1.1
)

// Run loads historical matches, walks them forward through builder to
// produce the training matrix (folding outcomes into builder and the
// shared ELO engine along the way), blends in the calibration
// tracker's reflection set at weight 3.0, fits ensemble, and evaluates
// it on the chronological tail using each held-out match's actual ELO,
// persistence, and xG context, the same way orchestrator.go assembles
// Inputs at inference time.
func Run(ctx context.Context, store *matchstore.Store, builder *features.Builder, ensemble *predictor.Ensemble, calib *calibration.Tracker, ratings *elo.Engine, filters *kalman.Bank) (Report, error) {
	matches, err := store.Load(ctx)
	if err != nil {
		return Report{}, err
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Date.Before(matches[j].Date) })

	var rows []features.Row
	var labels []models.Result
	var fixtures []models.Match
	for _, m := range matches {
		row, label, ok := builder.Observe(m)
		if !ok {
			continue
		}
		rows = append(rows, row)
		labels = append(labels, label)
		fixtures = append(fixtures, m)
	}

	if len(rows) == 0 {
		log.Warn().Msg("training: no feature rows produced from historical matches")
		return Report{}, nil
	}

	split := int(float64(len(rows)) * (1 - heldOutFraction))
	if split < 1 {
		split = len(rows)
	}

	var trainRows []predictor.TrainingRow
	for i := 0; i < split; i++ {
		trainRows = append(trainRows, predictor.TrainingRow{Row: rows[i], Label: labels[i], Weight: 1.0})
	}
	for _, r := range calib.Reflection() {
		trainRows = append(trainRows, predictor.TrainingRow{
			Row:    features.Row(r.Features),
			Label:  r.Label,
			Weight: 3.0,
		})
	}

	ensemble.Fit(trainRows)

	report := Report{TrainRows: split, HeldOutRows: len(rows) - split}
	if report.HeldOutRows > 0 {
		correct := 0
		var brierSum float64
		for i := split; i < len(rows); i++ {
			outcome := ensemble.Predict(heldOutInputs(fixtures[i], rows[i], ratings, filters))
			if pickMatchesLabel(outcome.Pick, labels[i]) {
				correct++
			}
			brierSum += brierOf(outcome.PHome, outcome.PDraw, outcome.PAway, labels[i])
		}
		report.Accuracy = float64(correct) / float64(report.HeldOutRows)
		report.MeanBrier = brierSum / float64(report.HeldOutRows)
	}

	return report, nil
}

// heldOutInputs assembles a held-out match's real ELO, persistence, and
// xG context, mirroring orchestrator.predictOne.
func heldOutInputs(m models.Match, row features.Row, ratings *elo.Engine, filters *kalman.Bank) predictor.Inputs {
	xgHome := filters.Estimate(m.Home)
	xgAway := filters.Estimate(m.Away)
	if xgHome == 0 {
		xgHome = filters.Observe(m.Home, bootstrapXGHome)
	}
	if xgAway == 0 {
		xgAway = filters.Observe(m.Away, bootstrapXGAway)
	}

	return predictor.Inputs{
		Home:      m.Home,
		Away:      m.Away,
		Row:       row,
		XGHome:    xgHome,
		XGAway:    xgAway,
		TierDiff:  ratings.TierDiff(m.Home, m.Away),
		EloGap:    ratings.Rating(m.Home) - ratings.Rating(m.Away),
		HurstHome: predictor.PersistenceFor(m.Home).Hurst,
		HurstAway: predictor.PersistenceFor(m.Away).Hurst,
	}
}

func pickMatchesLabel(pick models.Pick, label models.Result) bool {
	switch pick {
	case models.PickHome:
		return label == models.ResultHome
	case models.PickDraw:
		return label == models.ResultDraw
	case models.PickAway:
		return label == models.ResultAway
	}
	return false
}

func brierOf(pHome, pDraw, pAway float64, label models.Result) float64 {
	oneHot := func(r models.Result) float64 {
		if r == label {
			return 1
		}
		return 0
	}
	dH := pHome - oneHot(models.ResultHome)
	dD := pDraw - oneHot(models.ResultDraw)
	dA := pAway - oneHot(models.ResultAway)
	return (dH*dH + dD*dD + dA*dA) / 3.0
}
