// Package calibration tracks prediction calibration: an append-only
// ledger of predictions, closed out with realized results, from which
// rolling Brier score and argmax accuracy are derived.
package calibration

import (
	"strings"
	"sync"
	"time"

	"github.com/whiteref/soccer-guardian-v10/internal/metrics"
	"github.com/whiteref/soccer-guardian-v10/internal/models"
	"github.com/whiteref/soccer-guardian-v10/internal/objectstore"
	"github.com/whiteref/soccer-guardian-v10/internal/store"
)

// Tracker holds every prediction ever recorded, open or closed, plus
// the reflection set harvested from closed predictions for reuse in
// the next training run.
type Tracker struct {
	mu         sync.Mutex
	records    []*models.Prediction
	byID       map[string]*models.Prediction
	file       *store.JSONFile
	reflection []models.ReflectionEntry
	reflectFile *store.JSONFile
}

// New constructs a Tracker persisted at path, loading any prior ledger
// and its reflection set (stored alongside at path with a
// "_reflection" suffix).
func New(path string, mirror *objectstore.Mirror) (*Tracker, error) {
	f, err := store.New(path)
	if err != nil {
		return nil, err
	}
	if mirror != nil {
		f = f.WithMirror(mirror, "calibration/ledger.json")
	}

	rf, err := store.New(reflectionPath(path))
	if err != nil {
		return nil, err
	}
	if mirror != nil {
		rf = rf.WithMirror(mirror, "calibration/reflection.json")
	}

	t := &Tracker{byID: make(map[string]*models.Prediction), file: f, reflectFile: rf}
	if err := f.Load(&t.records); err != nil {
		return nil, err
	}
	if err := rf.Load(&t.reflection); err != nil {
		return nil, err
	}
	for _, r := range t.records {
		t.byID[r.MatchID] = r
	}
	t.refreshGauges()
	return t, nil
}

func reflectionPath(path string) string {
	if strings.HasSuffix(path, ".json") {
		return strings.TrimSuffix(path, ".json") + "_reflection.json"
	}
	return path + "_reflection"
}

// Reflection returns the persisted reflection set: past feature rows
// with their realized labels, reused with elevated sample weight on
// the next training run.
func (t *Tracker) Reflection() []models.ReflectionEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]models.ReflectionEntry(nil), t.reflection...)
}

// AddPrediction appends an open prediction. Idempotent on MatchID: a
// repeat call with the same ID is a no-op.
func (t *Tracker) AddPrediction(p *models.Prediction) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.byID[p.MatchID]; exists {
		return
	}
	if p.Timestamp.IsZero() {
		p.Timestamp = time.Now()
	}
	t.records = append(t.records, p)
	t.byID[p.MatchID] = p
	store.SaveBestEffort(t.file, t.records)
	t.refreshGauges()
}

// RecordResult closes an open prediction with the realized outcome,
// computing its Brier score. Closing an already-closed or unknown
// match ID is a no-op.
func (t *Tracker) RecordResult(matchID string, actual models.Result) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, ok := t.byID[matchID]
	if !ok || p.Closed() {
		return false
	}

	result := actual
	p.ActualResult = &result
	brier := brierScore(p.PHome, p.PDraw, p.PAway, actual)
	p.BrierScore = &brier

	t.reflection = append(t.reflection, models.ReflectionEntry{
		MatchID:  p.MatchID,
		Features: p.FeatureRow,
		Label:    actual,
	})

	store.SaveBestEffort(t.file, t.records)
	store.SaveBestEffort(t.reflectFile, t.reflection)
	t.refreshGauges()
	return true
}

// brierScore is the mean squared error of the predicted distribution
// against the one-hot realized outcome, over the three classes.
func brierScore(pHome, pDraw, pAway float64, actual models.Result) float64 {
	oneHot := func(class models.Result) float64 {
		if class == actual {
			return 1
		}
		return 0
	}
	dH := pHome - oneHot(models.ResultHome)
	dD := pDraw - oneHot(models.ResultDraw)
	dA := pAway - oneHot(models.ResultAway)
	return (dH*dH + dD*dD + dA*dA) / 3.0
}

// AverageBrier returns the mean Brier score over the last n closed
// predictions (0 or negative n means all closed predictions).
func (t *Tracker) AverageBrier(n int) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	closed := t.closedLocked(n)
	if len(closed) == 0 {
		return 0
	}
	var sum float64
	for _, p := range closed {
		sum += *p.BrierScore
	}
	return sum / float64(len(closed))
}

// Accuracy returns the argmax pick accuracy over the last n closed
// predictions.
func (t *Tracker) Accuracy(n int) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	closed := t.closedLocked(n)
	if len(closed) == 0 {
		return 0
	}
	correct := 0
	for _, p := range closed {
		if pickMatchesResult(p.Pick, *p.ActualResult) {
			correct++
		}
	}
	return float64(correct) / float64(len(closed))
}

// Pending returns the count of predictions not yet closed.
func (t *Tracker) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for _, p := range t.records {
		if !p.Closed() {
			n++
		}
	}
	return n
}

// FindPending returns every open prediction whose Home/Away team names
// exactly match home/away (case-insensitive), for the feedback loop's
// result-matching pass.
func (t *Tracker) FindPending(home, away string) []*models.Prediction {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []*models.Prediction
	for _, p := range t.records {
		if p.Closed() {
			continue
		}
		if strings.EqualFold(p.Home, home) && strings.EqualFold(p.Away, away) {
			out = append(out, p)
		}
	}
	return out
}

// AllPending returns every open prediction, for the feedback loop's
// near-miss diagnostic pass.
func (t *Tracker) AllPending() []*models.Prediction {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []*models.Prediction
	for _, p := range t.records {
		if !p.Closed() {
			out = append(out, p)
		}
	}
	return out
}

func (t *Tracker) closedLocked(n int) []*models.Prediction {
	var closed []*models.Prediction
	for _, p := range t.records {
		if p.Closed() {
			closed = append(closed, p)
		}
	}
	if n > 0 && n < len(closed) {
		closed = closed[len(closed)-n:]
	}
	return closed
}

func (t *Tracker) refreshGauges() {
	brier := 0.0
	accuracy := 0.0
	closed := t.closedLocked(0)
	if len(closed) > 0 {
		var sum float64
		correct := 0
		for _, p := range closed {
			sum += *p.BrierScore
			if pickMatchesResult(p.Pick, *p.ActualResult) {
				correct++
			}
		}
		brier = sum / float64(len(closed))
		accuracy = float64(correct) / float64(len(closed))
	}
	pending := 0
	for _, p := range t.records {
		if !p.Closed() {
			pending++
		}
	}
	metrics.UpdateCalibration(brier, accuracy, pending)
}

func pickMatchesResult(pick models.Pick, result models.Result) bool {
	switch pick {
	case models.PickHome:
		return result == models.ResultHome
	case models.PickDraw:
		return result == models.ResultDraw
	case models.PickAway:
		return result == models.ResultAway
	}
	return false
}
