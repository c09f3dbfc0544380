package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeIsDeterministicPerTeam(t *testing.T) {
	a := Compute("Brentford")
	b := Compute("Brentford")
	assert.Equal(t, a, b)
}

func TestComputeDiffersAcrossTeams(t *testing.T) {
	a := Compute("Brentford")
	b := Compute("Everton")
	assert.NotEqual(t, a, b)
}

func TestStrongTrendTeamsSkewAboveFickleTeams(t *testing.T) {
	strong := Compute("Arsenal")
	fickle := Compute("Chelsea")
	assert.Greater(t, strong.Hurst, fickle.Hurst)
}

func TestStdevOfConstantSeriesIsZero(t *testing.T) {
	assert.Equal(t, 0.0, stdevOf([]float64{2, 2, 2}))
}

func TestSkewOfConstantSeriesIsZero(t *testing.T) {
	assert.Equal(t, 0.0, skewOf([]float64{2, 2, 2}))
}
