package kalman

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBank(t *testing.T) *Bank {
	t.Helper()
	b, err := New("")
	require.NoError(t, err)
	return b
}

func TestFirstObservationBootstraps(t *testing.T) {
	b := newTestBank(t)
	got := b.Observe("Arsenal", 1.8)
	assert.Equal(t, 1.8, got)
	assert.Equal(t, 1.8, b.Estimate("Arsenal"))
}

func TestObserveSmoothsTowardNewReading(t *testing.T) {
	b := newTestBank(t)
	b.Observe("Arsenal", 1.5)
	smoothed := b.Observe("Arsenal", 3.0)
	assert.Greater(t, smoothed, 1.5)
	assert.Less(t, smoothed, 3.0)
}

func TestCovarianceShrinksAfterObservation(t *testing.T) {
	b := newTestBank(t)
	b.Observe("Arsenal", 1.5)
	before := b.states["Arsenal"].Covariance
	b.Observe("Arsenal", 1.6)
	after := b.states["Arsenal"].Covariance
	assert.Less(t, after, before+processNoise)
}

func TestEstimateDefaultsToZeroForUnseenTeam(t *testing.T) {
	b := newTestBank(t)
	assert.Equal(t, 0.0, b.Estimate("Unseen"))
}

func TestGainStaysWithinUnitBounds(t *testing.T) {
	b := newTestBank(t)
	b.Observe("Arsenal", 1.5)
	for i := 0; i < 20; i++ {
		pPrior := b.states["Arsenal"].Covariance + processNoise
		k := pPrior / (pPrior + measurementNoise)
		assert.Greater(t, k, 0.0)
		assert.Less(t, k, 1.0)
		b.Observe("Arsenal", 1.5+float64(i)*0.1)
	}
}
