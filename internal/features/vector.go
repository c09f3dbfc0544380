// Package features builds the walk-forward feature vectors consumed by
// the ensemble predictor from the time-ordered match stream and the
// ELO engine. Construction is strictly causal: a row for match m is a
// function only of matches strictly earlier than m.
package features

// Row is the fixed-length, fixed-order feature vector emitted for one
// match. Positions are a persistence contract — never reorder them.
type Row [Dimension]float64

// Dimension is the number of positions in a Row.
const Dimension = 16

// Named positions within Row. Index values are part of the on-disk
// contract for reflection entries and must never change.
const (
	IdxHomeAvgGoalsFor      = 0
	IdxHomeAvgGoalsAgainst  = 1
	IdxHomeAvgShotsRatio    = 2
	IdxAwayAvgGoalsFor      = 3
	IdxAwayAvgGoalsAgainst  = 4
	IdxAwayAvgShotsRatio    = 5
	IdxHomeVenue            = 6
	IdxImpliedOddsGap       = 7
	IdxEloRatio             = 8
	IdxHomeRecentForm       = 9
	IdxAwayRecentForm       = 10
	IdxHomeScoringConsist   = 11
	IdxEloDiffNormalized    = 12
	IdxHomeGoalDiffTrend    = 13
	IdxDrawTendency         = 14
	IdxUpsetPotential       = 15
)
