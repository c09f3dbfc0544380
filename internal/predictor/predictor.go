// Package predictor fuses a gradient-boosted classifier, a multinomial
// linear classifier, an independent-Poisson goal model, and an
// isolation-forest anomaly flag into a single calibrated three-way
// outcome distribution, then applies a small ordered set of bounded
// adjusters before picking a final outcome.
package predictor

import (
	"math"

	"github.com/whiteref/soccer-guardian-v10/internal/features"
	"github.com/whiteref/soccer-guardian-v10/internal/models"
	"github.com/whiteref/soccer-guardian-v10/internal/persistence"
	"github.com/whiteref/soccer-guardian-v10/internal/predictor/anomaly"
	"github.com/whiteref/soccer-guardian-v10/internal/predictor/gbm"
	"github.com/whiteref/soccer-guardian-v10/internal/predictor/linear"
	"github.com/whiteref/soccer-guardian-v10/internal/predictor/poisson"
)

const (
	weightGBM     = 0.50
	weightPoisson = 0.35
	weightLinear  = 0.15
)

// Inputs bundles everything a single inference call needs beyond the
// feature row: raw xG readings, ELO context, and team identity for the
// adjusters that consult rosters or persistence scalars.
type Inputs struct {
	Home, Away       string
	Row              features.Row
	XGHome, XGAway   float64
	TierDiff         float64
	EloGap           float64 // rating[home] - rating[away]
	HurstHome        float64
	HurstAway        float64
}

// Outcome is the final blended distribution, pick, and the adjusters
// that fired, for explanatory rendering.
type Outcome struct {
	PHome, PDraw, PAway float64
	Pick                models.Pick
	Triggers            []string
}

// Ensemble owns the three trained sub-models and the roster lookup the
// adjusters consult.
type Ensemble struct {
	gbmModel    *gbm.Model
	linearModel *linear.Model
	anomalyDet  *anomaly.Detector
	favorites   FavoriteLookup
}

// New constructs an untrained Ensemble with the default roster lookup.
func New(favorites FavoriteLookup) *Ensemble {
	if favorites == nil {
		favorites = NewStaticFavorites()
	}
	return &Ensemble{
		gbmModel:    gbm.New(gbm.DefaultConfig()),
		linearModel: linear.New(),
		anomalyDet:  anomaly.New(42),
		favorites:   favorites,
	}
}

// TrainingRow pairs a feature row with its realized label and an
// optional sample weight (1.0 for ordinary rows, 3.0 for reflection
// rows per spec §4.5 point 4).
type TrainingRow struct {
	Row    features.Row
	Label  models.Result
	Weight float64
}

// Fit trains all three learned sub-models once, reproducibly. Weight
// is carried through as a per-row (X, y, w) triple rather than by row
// duplication, so the loss each sub-model minimizes sees the weight
// directly instead of an inflated, resampled pool.
func (e *Ensemble) Fit(rows []TrainingRow) {
	var matrix [][]float64
	var labels []int
	var weights []float64
	var homeWinRows [][]float64

	for _, tr := range rows {
		w := tr.Weight
		if w <= 0 {
			w = 1.0
		}
		matrix = append(matrix, append([]float64(nil), tr.Row[:]...))
		labels = append(labels, int(tr.Label))
		weights = append(weights, w)
		if tr.Label == models.ResultHome {
			homeWinRows = append(homeWinRows, append([]float64(nil), tr.Row[:]...))
		}
	}

	if len(matrix) == 0 {
		return
	}

	e.gbmModel.Fit(matrix, labels, weights)
	e.linearModel.Fit(matrix, labels, weights, 3)
	if len(homeWinRows) > 0 {
		e.anomalyDet.Fit(homeWinRows)
	}
}

// Predict runs inference for one fixture: blends the three models,
// applies the bounded adjusters in spec order, renormalizes once, and
// applies the pick rule.
func (e *Ensemble) Predict(in Inputs) Outcome {
	row := in.Row[:]

	xgbA, xgbD, xgbH := e.gbmModel.PredictProba(row)
	lrA, lrD, lrH := e.linearModel.PredictProba(row)

	pois := poisson.Predict(in.XGHome, in.XGAway, in.HurstHome, in.TierDiff)

	pHome := weightGBM*xgbH + weightPoisson*pois.PHome + weightLinear*lrH
	pDraw := weightGBM*xgbD + weightPoisson*pois.PDraw + weightLinear*lrD
	pAway := weightGBM*xgbA + weightPoisson*pois.PAway + weightLinear*lrA

	var triggers []string

	if in.HurstHome < 0.45 || in.HurstAway < 0.45 {
		pDraw *= 1.08
		pAway *= 1.05
		triggers = append(triggers, "low_persistence")
	}

	switch {
	case in.EloGap < -100:
		shift := math.Min(0.08, math.Abs(in.EloGap)/50/100)
		pHome -= shift
		pAway += shift
		triggers = append(triggers, "elo_gap_away")
	case in.EloGap > 200:
		shift := math.Min(0.05, in.EloGap/100/100)
		pAway -= shift
		pHome += shift
		triggers = append(triggers, "elo_gap_home")
	}

	if e.anomalyDet.Flag(row) && e.favorites.IsPublicFavorite(in.Home) {
		adj := 0.08 * pHome
		pHome -= adj
		pDraw += adj * 0.6
		pAway += adj * 0.4
		triggers = append(triggers, "anomaly_public_favorite")
	}

	pHome, pDraw, pAway = renormalize(pHome, pDraw, pAway)
	pick, pHome, pDraw, pAway, ghostFired := choosePick(pHome, pDraw, pAway)
	if ghostFired {
		triggers = append(triggers, "ghost_stagnation")
	}

	return Outcome{
		PHome:    pHome,
		PDraw:    pDraw,
		PAway:    pAway,
		Pick:     pick,
		Triggers: triggers,
	}
}

func renormalize(h, d, a float64) (float64, float64, float64) {
	h = math.Max(h, 0)
	d = math.Max(d, 0)
	a = math.Max(a, 0)
	total := h + d + a
	if total == 0 {
		return 1.0 / 3, 1.0 / 3, 1.0 / 3
	}
	return h / total, d / total, a / total
}

// choosePick applies the non-argmax pick rule: a gap-and-entropy-gated
// draw buffer, then a ghost-stagnation override that suppresses a draw
// call when raw entropy is too low to trust it. Inputs are renormalized
// first, so the returned distribution always sums to 1.
func choosePick(h, d, a float64) (pick models.Pick, outH, outD, outA float64, ghostFired bool) {
	h, d, a = renormalize(h, d, a)
	gap := math.Abs(h - a)
	ent := entropy(h, d, a)
	normalizedEnt := ent / math.Log2(3)
	drawBuffer := math.Max(0.05, 0.20*normalizedEnt)

	if gap <= drawBuffer && d >= 0.25 {
		if ent <= 1.45 {
			min := math.Min(h, a)
			d = min - 0.01
			h, d, a = renormalize(h, d, a)
			return argmaxPick(h, d, a), h, d, a, true
		}
		return models.PickDraw, h, d, a, false
	}

	return argmaxPick(h, d, a), h, d, a, false
}

func argmaxPick(h, d, a float64) models.Pick {
	switch {
	case h >= d && h >= a:
		return models.PickHome
	case a >= d && a >= h:
		return models.PickAway
	default:
		return models.PickDraw
	}
}

func entropy(h, d, a float64) float64 {
	var sum float64
	for _, p := range []float64{h, d, a} {
		if p > 0 {
			sum -= p * math.Log2(p)
		}
	}
	return sum
}

// PersistenceFor is a thin convenience wrapper so callers building
// Inputs do not need to import internal/persistence directly.
func PersistenceFor(team string) persistence.Indicators {
	return persistence.Compute(team)
}
