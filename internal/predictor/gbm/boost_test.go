package gbm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func smallConfig() Config {
	return Config{
		NumClasses:   3,
		NumTrees:     10,
		MaxDepth:     2,
		Shrinkage:    0.3,
		RowSubsample: 1.0,
		ColSubsample: 1.0,
		L1:           0.0,
		L2:           1.0,
		Seed:         7,
	}
}

func toyRows() ([][]float64, []int) {
	rows := [][]float64{
		{1, 0, 0}, {1, 0, 0}, {1, 0.1, 0},
		{0, 1, 0}, {0, 1, 0}, {0.1, 1, 0},
		{0, 0, 1}, {0, 0, 1}, {0, 0.1, 1},
	}
	labels := []int{2, 2, 2, 1, 1, 1, 0, 0, 0}
	return rows, labels
}

func TestFitProducesAValidSimplex(t *testing.T) {
	m := New(smallConfig())
	rows, labels := toyRows()
	m.Fit(rows, labels, nil)

	pA, pD, pH := m.PredictProba(rows[0])
	assert.InDelta(t, 1.0, pA+pD+pH, 1e-9)
	assert.GreaterOrEqual(t, pA, 0.0)
	assert.GreaterOrEqual(t, pD, 0.0)
	assert.GreaterOrEqual(t, pH, 0.0)
}

func TestUnfittedModelStillReturnsUniformSimplex(t *testing.T) {
	m := New(smallConfig())
	pA, pD, pH := m.PredictProba([]float64{1, 2, 3})
	assert.InDelta(t, 1.0, pA+pD+pH, 1e-9)
}

func TestFitWithEmptyRowsIsANoop(t *testing.T) {
	m := New(smallConfig())
	m.Fit(nil, nil, nil)
	pA, pD, pH := m.PredictProba([]float64{0, 0, 0})
	assert.InDelta(t, 1.0, pA+pD+pH, 1e-9)
}

func TestFitWithHeavierRowWeightStillFavorsItsLabel(t *testing.T) {
	m := New(smallConfig())
	rows, labels := toyRows()
	weights := make([]float64, len(rows))
	for i := range weights {
		weights[i] = 1.0
	}
	weights[0] = 3.0
	m.Fit(rows, labels, weights)

	pA, pD, pH := m.PredictProba(rows[0])
	assert.InDelta(t, 1.0, pA+pD+pH, 1e-9)
	assert.Greater(t, pH, pA)
}
