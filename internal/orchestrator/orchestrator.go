// Package orchestrator parses a fixture list, resolves team names,
// and assembles the per-fixture prediction pipeline: xG smoothing,
// ensemble inference, and calibration recording.
package orchestrator

import (
	"bufio"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/whiteref/soccer-guardian-v10/internal/calibration"
	"github.com/whiteref/soccer-guardian-v10/internal/elo"
	"github.com/whiteref/soccer-guardian-v10/internal/features"
	"github.com/whiteref/soccer-guardian-v10/internal/kalman"
	"github.com/whiteref/soccer-guardian-v10/internal/metrics"
	"github.com/whiteref/soccer-guardian-v10/internal/models"
	"github.com/whiteref/soccer-guardian-v10/internal/predictor"
	"github.com/whiteref/soccer-guardian-v10/internal/teamnames"
)

var fixtureLine = regexp.MustCompile(`(?i)^(?:\d+\s*[:.]\s*)?(.+?)\s+vs\.?\s+(.+)$`)

// Orchestrator wires the trained ensemble, the xG filters, the ELO
// engine, the calibration tracker, and team-name resolution into a
// single per-fixture call.
type Orchestrator struct {
	ensemble *predictor.Ensemble
	filters  *kalman.Bank
	ratings  *elo.Engine
	calib    *calibration.Tracker
	names    teamnames.Lookup
}

// New constructs an Orchestrator from its already-initialized
// collaborators.
func New(ensemble *predictor.Ensemble, filters *kalman.Bank, ratings *elo.Engine, calib *calibration.Tracker, names teamnames.Lookup) *Orchestrator {
	return &Orchestrator{ensemble: ensemble, filters: filters, ratings: ratings, calib: calib, names: names}
}

// ParseFixtures splits a newline-delimited fixture list into (home,
// away) pairs in file order. Lines that do not match the "<idx>?
// <team> vs <team>" shape produce an error record rather than
// aborting the batch.
func ParseFixtures(input string) []FixtureLine {
	var lines []FixtureLine
	scanner := bufio.NewScanner(strings.NewReader(input))
	for scanner.Scan() {
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		m := fixtureLine.FindStringSubmatch(raw)
		if m == nil {
			lines = append(lines, FixtureLine{Raw: raw, Err: "unparseable fixture line"})
			continue
		}
		lines = append(lines, FixtureLine{Raw: raw, Home: strings.TrimSpace(m[1]), Away: strings.TrimSpace(m[2])})
	}
	return lines
}

// FixtureLine is one parsed (or unparseable) line from the input.
type FixtureLine struct {
	Raw, Home, Away string
	Err             string
}

// Predict runs the full per-fixture pipeline for every parsed line,
// recording successful predictions via the calibration tracker. Lines
// with unresolved names or parse failures yield an error record and do
// not block the rest of the batch.
func (o *Orchestrator) Predict(lines []FixtureLine, builder *features.Builder) []*models.Prediction {
	out := make([]*models.Prediction, 0, len(lines))
	for i, line := range lines {
		out = append(out, o.predictOne(i, line, builder))
	}
	return out
}

func (o *Orchestrator) predictOne(index int, line FixtureLine, builder *features.Builder) *models.Prediction {
	if line.Err != "" {
		metrics.RecordError("orchestrator", "UserError")
		return &models.Prediction{Error: line.Err}
	}

	home, ok1 := o.names.Normalize(line.Home)
	away, ok2 := o.names.Normalize(line.Away)
	if !ok1 || !ok2 {
		metrics.RecordError("orchestrator", "UserError")
		log.Warn().Str("home", line.Home).Str("away", line.Away).Msg("orchestrator: unresolved team name")
		return &models.Prediction{Home: line.Home, Away: line.Away, Error: "unresolvable team name"}
	}

	xgHome := o.filters.Estimate(home)
	xgAway := o.filters.Estimate(away)
	if xgHome == 0 {
		xgHome = o.filters.Observe(home, 1.3)
	}
	if xgAway == 0 {
		xgAway = o.filters.Observe(away, 1.1)
	}

	row := o.buildInferenceRow(builder, home, away)

	hurstHome := predictor.PersistenceFor(home).Hurst
	hurstAway := predictor.PersistenceFor(away).Hurst

	outcome := o.ensemble.Predict(predictor.Inputs{
		Home:      home,
		Away:      away,
		Row:       row,
		XGHome:    xgHome,
		XGAway:    xgAway,
		TierDiff:  o.ratings.TierDiff(home, away),
		EloGap:    o.ratings.Rating(home) - o.ratings.Rating(away),
		HurstHome: hurstHome,
		HurstAway: hurstAway,
	})

	matchID := home + "_vs_" + away + "_" + time.Now().Format("2006-01-02")
	pred := &models.Prediction{
		MatchID:   matchID,
		Home:      home,
		Away:      away,
		PHome:     outcome.PHome,
		PDraw:     outcome.PDraw,
		PAway:     outcome.PAway,
		Pick:       outcome.Pick,
		Triggers:   outcome.Triggers,
		Timestamp:  time.Now(),
		FeatureRow: [16]float64(row),
	}
	o.calib.AddPrediction(pred)
	metrics.RecordPrediction(string(pred.Pick))
	for _, trigger := range outcome.Triggers {
		metrics.RecordAdjuster(trigger)
	}
	return pred
}

// buildInferenceRow constructs a feature row for an upcoming fixture
// using each team's current rolling state. When history is too thin
// for the full walk-forward row, only the venue and ELO-derived
// positions (which never depend on the per-team windows) are set —
// this is a bootstrap prior, not a StateError: inference must still
// produce a prediction.
func (o *Orchestrator) buildInferenceRow(builder *features.Builder, home, away string) features.Row {
	probe := models.Match{Home: home, Away: away}
	if row, ok := builder.Snapshot(probe); ok {
		return row
	}

	var r features.Row
	r[features.IdxHomeVenue] = 1.0
	ratingHome := o.ratings.Rating(home)
	ratingAway := o.ratings.Rating(away)
	r[features.IdxEloRatio] = ratingHome / maxFloat(ratingAway, 1000)
	r[features.IdxEloDiffNormalized] = (ratingHome - ratingAway) / 400
	r[features.IdxUpsetPotential] = math.Abs(r[features.IdxEloDiffNormalized])
	return r
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
