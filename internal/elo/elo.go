// Package elo implements the zero-sum rating state machine that tracks
// relative team strength across leagues and seasons. It is deliberately
// the simplest stateful component in the pipeline: one map, one update
// rule, persisted atomically after every change.
package elo

import (
	"math"
	"sync"

	"github.com/whiteref/soccer-guardian-v10/internal/models"
	"github.com/whiteref/soccer-guardian-v10/internal/store"
)

const (
	initialRating  = 1500.0
	kFactor        = 32.0
	homeAdvantage  = 65.0
	drawBase       = 0.28
	tierDiffScale  = 500.0
	tierDiffClamp  = 0.4
	eloDiffScale   = 400.0
)

// Engine holds the current rating of every team seen so far. Zero value
// is unusable; construct with New.
type Engine struct {
	mu      sync.RWMutex
	ratings map[string]float64
	file    *store.JSONFile
}

// New constructs an Engine persisted at path, loading any prior state.
func New(path string) (*Engine, error) {
	f, err := store.New(path)
	if err != nil {
		return nil, err
	}
	e := &Engine{ratings: make(map[string]float64), file: f}
	if err := f.Load(&e.ratings); err != nil {
		return nil, err
	}
	return e, nil
}

// Rating returns a team's current rating, defaulting unseen teams to
// the initial rating without mutating state.
func (e *Engine) Rating(team string) float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if r, ok := e.ratings[team]; ok {
		return r
	}
	return initialRating
}

// ExpectedHome returns the home team's win-expectation against away,
// including the fixed home-advantage offset.
func ExpectedHome(ratingHome, ratingAway float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (ratingAway-(ratingHome+homeAdvantage))/eloDiffScale))
}

// Update applies the zero-sum rating change for a completed match and
// persists the new ratings best-effort.
func (e *Engine) Update(home, away string, result models.Result) {
	e.mu.Lock()
	rh := e.ratingLocked(home)
	ra := e.ratingLocked(away)

	expectedHome := ExpectedHome(rh, ra)
	var actualHome float64
	switch result {
	case models.ResultHome:
		actualHome = 1.0
	case models.ResultDraw:
		actualHome = 0.5
	case models.ResultAway:
		actualHome = 0.0
	}

	delta := kFactor * (actualHome - expectedHome)
	e.ratings[home] = rh + delta
	e.ratings[away] = ra - delta
	snapshot := make(map[string]float64, len(e.ratings))
	for k, v := range e.ratings {
		snapshot[k] = v
	}
	e.mu.Unlock()

	store.SaveBestEffort(e.file, snapshot)
}

func (e *Engine) ratingLocked(team string) float64 {
	if r, ok := e.ratings[team]; ok {
		return r
	}
	e.ratings[team] = initialRating
	return initialRating
}

// TierDiff returns a bounded strength-gap feature for the pair (h, a).
func (e *Engine) TierDiff(h, a string) float64 {
	diff := (e.Rating(h) - e.Rating(a)) / tierDiffScale
	return clamp(diff, -tierDiffClamp, tierDiffClamp)
}

// ExpectedScore returns a normalized three-way outcome distribution for
// the pairing (h, a), derived from the same expectation used by Update.
func (e *Engine) ExpectedScore(h, a string) (pHome, pDraw, pAway float64) {
	expH := ExpectedHome(e.Rating(h), e.Rating(a))
	draw := drawBase * (1 - 2*math.Abs(expH-0.5))
	remaining := 1 - draw
	pHome = remaining * expH
	pAway = remaining * (1 - expH)
	total := pHome + draw + pAway
	return pHome / total, draw / total, pAway / total
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
