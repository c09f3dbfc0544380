package anomaly

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func clusteredRows() [][]float64 {
	rows := make([][]float64, 0, 40)
	for i := 0; i < 40; i++ {
		rows = append(rows, []float64{1.0 + float64(i%3)*0.01, 1.0 + float64(i%5)*0.01})
	}
	return rows
}

func TestUnfittedDetectorNeverFlags(t *testing.T) {
	d := New(1)
	assert.False(t, d.Flag([]float64{100, 100}))
	assert.Equal(t, 0.0, d.Score([]float64{100, 100}))
}

func TestFitOnEmptyRowsIsANoop(t *testing.T) {
	d := New(1)
	d.Fit(nil)
	assert.False(t, d.Flag([]float64{1, 1}))
}

func TestOutlierScoresHigherThanInlier(t *testing.T) {
	d := New(1)
	rows := clusteredRows()
	d.Fit(rows)

	inlierScore := d.Score([]float64{1.0, 1.0})
	outlierScore := d.Score([]float64{500, -500})
	assert.Greater(t, outlierScore, inlierScore)
}

func TestCFactorZeroForSingleton(t *testing.T) {
	assert.Equal(t, 0.0, cFactor(1))
	assert.Equal(t, 0.0, cFactor(0))
}

func TestPercentileOrdersValues(t *testing.T) {
	vals := []float64{5, 1, 3, 2, 4}
	assert.Equal(t, 1.0, percentile(vals, 0))
	assert.Equal(t, 5.0, percentile(vals, 1))
}
