package linear

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnfittedModelReturnsUniformSimplex(t *testing.T) {
	m := New()
	pA, pD, pH := m.PredictProba([]float64{1, 2})
	assert.InDelta(t, 1.0/3, pA, 1e-9)
	assert.InDelta(t, 1.0/3, pD, 1e-9)
	assert.InDelta(t, 1.0/3, pH, 1e-9)
}

func TestFitProducesAValidSimplex(t *testing.T) {
	rows := [][]float64{
		{1, 0}, {1, 0.1},
		{0, 1}, {0.1, 1},
		{-1, -1}, {-1, -0.9},
	}
	labels := []int{2, 2, 1, 1, 0, 0}
	m := New()
	m.Fit(rows, labels, nil, 3)

	pA, pD, pH := m.PredictProba(rows[0])
	assert.InDelta(t, 1.0, pA+pD+pH, 1e-9)
	assert.GreaterOrEqual(t, pH, pA)
}

func TestFitWithExplicitWeightsStillProducesAValidSimplex(t *testing.T) {
	rows := [][]float64{
		{1, 0}, {1, 0.1},
		{0, 1}, {0.1, 1},
		{-1, -1}, {-1, -0.9},
	}
	labels := []int{2, 2, 1, 1, 0, 0}
	weights := []float64{3, 1, 1, 1, 1, 1}
	m := New()
	m.Fit(rows, labels, weights, 3)

	pA, pD, pH := m.PredictProba(rows[0])
	assert.InDelta(t, 1.0, pA+pD+pH, 1e-9)
}

func TestSigmoidIsBounded(t *testing.T) {
	assert.Greater(t, sigmoid(100), 0.99)
	assert.Less(t, sigmoid(-100), 0.01)
	assert.InDelta(t, 0.5, sigmoid(0), 1e-9)
}
