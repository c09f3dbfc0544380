// Package kalman smooths each team's raw per-match expected-goals
// reading into a slower-moving attacking-strength estimate, so a single
// noisy match cannot move the modeled strength by a full unit. One
// scalar filter runs per team; Bank.Observe holds the update equations.
package kalman

import (
	"sync"

	"github.com/whiteref/soccer-guardian-v10/internal/metrics"
	"github.com/whiteref/soccer-guardian-v10/internal/store"
)

const (
	processNoise      = 0.02
	measurementNoise  = 0.15
	initialCovariance = 1.0
)

// state is one team's scalar filter: a running estimate and its error
// covariance.
type state struct {
	Estimate   float64 `json:"estimate"`
	Covariance float64 `json:"covariance"`
}

// Bank owns one scalar Kalman filter per team, keyed by team name.
type Bank struct {
	mu     sync.Mutex
	states map[string]*state
	file   *store.JSONFile
}

// New constructs a Bank. If path is empty the bank runs purely
// in-memory, per the filter's documented fallback when its destination
// is unwritable.
func New(path string) (*Bank, error) {
	b := &Bank{states: make(map[string]*state)}
	if path == "" {
		return b, nil
	}
	f, err := store.New(path)
	if err != nil {
		return nil, err
	}
	b.file = f
	if err := f.Load(&b.states); err != nil {
		return nil, err
	}
	return b, nil
}

// Observe feeds a raw observation z for team into its filter and
// returns the smoothed estimate. The first observation of a team seeds
// state = (z, 1.0) and returns z unchanged.
func (b *Bank) Observe(team string, z float64) float64 {
	b.mu.Lock()
	s, ok := b.states[team]
	if !ok {
		s = &state{Estimate: z, Covariance: initialCovariance}
		b.states[team] = s
		b.saveLocked()
		b.mu.Unlock()
		metrics.KalmanObservationsTotal.Inc()
		return z
	}

	pPrior := s.Covariance + processNoise
	k := pPrior / (pPrior + measurementNoise)
	s.Estimate = s.Estimate + k*(z-s.Estimate)
	s.Covariance = (1 - k) * pPrior
	estimate := s.Estimate
	b.saveLocked()
	b.mu.Unlock()
	metrics.KalmanObservationsTotal.Inc()
	return estimate
}

// Estimate returns a team's current smoothed estimate without feeding
// an observation, defaulting to zero for teams never observed.
func (b *Bank) Estimate(team string) float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s, ok := b.states[team]; ok {
		return s.Estimate
	}
	return 0
}

// saveLocked persists the bank best-effort; caller must hold mu.
func (b *Bank) saveLocked() {
	if b.file == nil {
		return
	}
	snapshot := make(map[string]*state, len(b.states))
	for k, v := range b.states {
		cp := *v
		snapshot[k] = &cp
	}
	store.SaveBestEffort(b.file, snapshot)
}
