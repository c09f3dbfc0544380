package features

import (
	"math"

	"github.com/whiteref/soccer-guardian-v10/internal/elo"
	"github.com/whiteref/soccer-guardian-v10/internal/metrics"
	"github.com/whiteref/soccer-guardian-v10/internal/models"
)

// Builder walks a match stream in strict date order, emitting a Row
// for each match whose two teams both have at least three prior
// matches, then folding the match's own outcome into both the rolling
// windows and the ELO engine. Matches must be fed in increasing date
// order; the builder itself never reorders or parallelizes, per the
// no-leakage contract this package exists to enforce.
type Builder struct {
	windows map[string]*window
	elo     *elo.Engine
}

// NewBuilder constructs a Builder backed by elo for ELO-derived
// features and updates.
func NewBuilder(e *elo.Engine) *Builder {
	return &Builder{windows: make(map[string]*window), elo: e}
}

// Observe processes one match: if both teams already have sufficient
// history, it returns the feature row and label for this match before
// updating state with the match's own outcome. ok is false when
// history is insufficient (spec's StateError case) — no row is
// returned and the caller must not emit one.
func (b *Builder) Observe(m models.Match) (row Row, label models.Result, ok bool) {
	home := b.windowFor(m.Home)
	away := b.windowFor(m.Away)

	if home.ready() && away.ready() {
		row = b.build(m, home, away)
		label = m.Result
		ok = true
		metrics.FeatureRowsEmitted.Inc()
	} else {
		metrics.FeatureRowsSkippedInsufficientHistory.Inc()
	}

	b.fold(m)
	return row, label, ok
}

// Snapshot returns the feature row for a hypothetical (home, away)
// fixture using current rolling state, without folding any outcome
// back into it — used at inference time, where there is no result yet
// to fold. ok is false when either side lacks sufficient history.
func (b *Builder) Snapshot(m models.Match) (row Row, ok bool) {
	home := b.windowFor(m.Home)
	away := b.windowFor(m.Away)
	if !home.ready() || !away.ready() {
		return Row{}, false
	}
	return b.build(m, home, away), true
}

func (b *Builder) windowFor(team string) *window {
	w, exists := b.windows[team]
	if !exists {
		w = &window{}
		b.windows[team] = w
	}
	return w
}

func (b *Builder) build(m models.Match, home, away *window) Row {
	var r Row

	r[IdxHomeAvgGoalsFor] = home.avgGoalsFor()
	r[IdxHomeAvgGoalsAgainst] = home.avgGoalsAgainst()
	r[IdxHomeAvgShotsRatio] = home.avgShotsRatio()
	r[IdxAwayAvgGoalsFor] = away.avgGoalsFor()
	r[IdxAwayAvgGoalsAgainst] = away.avgGoalsAgainst()
	r[IdxAwayAvgShotsRatio] = away.avgShotsRatio()
	r[IdxHomeVenue] = 1.0

	if m.HasOdds() {
		r[IdxImpliedOddsGap] = 1/m.OddsA - 1/m.OddsH
	}

	ratingHome := b.elo.Rating(m.Home)
	ratingAway := b.elo.Rating(m.Away)
	r[IdxEloRatio] = ratingHome / max(ratingAway, 1000)
	r[IdxEloDiffNormalized] = (ratingHome - ratingAway) / 400

	r[IdxHomeRecentForm] = home.recentForm()
	r[IdxAwayRecentForm] = away.recentForm()
	r[IdxHomeScoringConsist] = home.scoringConsistency()
	r[IdxHomeGoalDiffTrend] = home.goalDiffTrend(3)
	r[IdxDrawTendency] = (home.drawShare() + away.drawShare()) / 2
	r[IdxUpsetPotential] = math.Abs(r[IdxEloDiffNormalized])

	return r
}

// fold updates rolling windows and the ELO engine with a match's own
// outcome. Must run after build, never before, for either team.
func (b *Builder) fold(m models.Match) {
	homeShotsRatio := 0.5
	if m.HShots+m.AShots > 0 {
		homeShotsRatio = m.HShots / (m.HShots + m.AShots)
	}

	var homePoints, awayPoints float64
	switch m.Result {
	case models.ResultHome:
		homePoints, awayPoints = 3, 0
	case models.ResultDraw:
		homePoints, awayPoints = 1, 1
	case models.ResultAway:
		homePoints, awayPoints = 0, 3
	}

	b.windowFor(m.Home).push(matchStat{
		goalsFor:     float64(m.HGoals),
		goalsAgainst: float64(m.AGoals),
		shotsRatio:   homeShotsRatio,
		points:       homePoints,
	})
	b.windowFor(m.Away).push(matchStat{
		goalsFor:     float64(m.AGoals),
		goalsAgainst: float64(m.HGoals),
		shotsRatio:   1 - homeShotsRatio,
		points:       awayPoints,
	})

	b.elo.Update(m.Home, m.Away, m.Result)
	metrics.EloUpdatesTotal.Inc()
}

