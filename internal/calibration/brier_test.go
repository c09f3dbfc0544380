package calibration

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whiteref/soccer-guardian-v10/internal/models"
)

func newTestTracker(t *testing.T) *Tracker {
	t.Helper()
	tr, err := New(filepath.Join(t.TempDir(), "ledger.json"), nil)
	require.NoError(t, err)
	return tr
}

func samplePrediction(id string) *models.Prediction {
	return &models.Prediction{
		MatchID: id,
		Home:    "Arsenal",
		Away:    "Chelsea",
		PHome:   0.5,
		PDraw:   0.3,
		PAway:   0.2,
		Pick:    models.PickHome,
	}
}

func TestAddPredictionIsIdempotent(t *testing.T) {
	tr := newTestTracker(t)
	tr.AddPrediction(samplePrediction("m1"))
	tr.AddPrediction(samplePrediction("m1"))
	assert.Equal(t, 1, tr.Pending())
}

func TestRecordResultClosesAndComputesBrier(t *testing.T) {
	tr := newTestTracker(t)
	tr.AddPrediction(samplePrediction("m1"))
	ok := tr.RecordResult("m1", models.ResultHome)
	assert.True(t, ok)
	assert.Equal(t, 0, tr.Pending())
	expected := (0.5*0.5 + 0.3*0.3 + 0.2*0.2) / 3.0
	assert.InDelta(t, expected, tr.AverageBrier(0), 1e-9)
}

func TestRecordResultOnUnknownMatchIsNoop(t *testing.T) {
	tr := newTestTracker(t)
	assert.False(t, tr.RecordResult("missing", models.ResultHome))
}

func TestRecordResultTwiceIsNoop(t *testing.T) {
	tr := newTestTracker(t)
	tr.AddPrediction(samplePrediction("m1"))
	assert.True(t, tr.RecordResult("m1", models.ResultHome))
	assert.False(t, tr.RecordResult("m1", models.ResultAway))
}

func TestBrierScoreBounds(t *testing.T) {
	b := brierScore(1, 0, 0, models.ResultHome)
	assert.InDelta(t, 0, b, 1e-9)

	worst := brierScore(0, 0, 1, models.ResultHome)
	assert.InDelta(t, 2.0/3.0, worst, 1e-9)
}

func TestFindPendingMatchesExactCanonicalNames(t *testing.T) {
	tr := newTestTracker(t)
	tr.AddPrediction(samplePrediction("m1"))

	exact := tr.FindPending("Arsenal", "Chelsea")
	assert.Len(t, exact, 1)

	substring := tr.FindPending("Arsenal B", "Chelsea")
	assert.Len(t, substring, 0)
}

func TestRecordResultAppendsReflectionEntry(t *testing.T) {
	tr := newTestTracker(t)
	p := samplePrediction("m1")
	p.FeatureRow = [16]float64{1, 2, 3}
	tr.AddPrediction(p)
	tr.RecordResult("m1", models.ResultHome)

	reflection := tr.Reflection()
	require.Len(t, reflection, 1)
	assert.Equal(t, models.ResultHome, reflection[0].Label)
	assert.Equal(t, [16]float64{1, 2, 3}, reflection[0].Features)
}

func TestAccuracyCountsArgmaxPicksOnly(t *testing.T) {
	tr := newTestTracker(t)
	tr.AddPrediction(samplePrediction("m1"))
	tr.RecordResult("m1", models.ResultHome)
	assert.Equal(t, 1.0, tr.Accuracy(0))
}
