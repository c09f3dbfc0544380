package training

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/whiteref/soccer-guardian-v10/internal/models"
)

func TestPickMatchesLabel(t *testing.T) {
	assert.True(t, pickMatchesLabel(models.PickHome, models.ResultHome))
	assert.False(t, pickMatchesLabel(models.PickHome, models.ResultAway))
	assert.True(t, pickMatchesLabel(models.PickDraw, models.ResultDraw))
}

func TestBrierOfPerfectPredictionIsZero(t *testing.T) {
	assert.InDelta(t, 0, brierOf(1, 0, 0, models.ResultHome), 1e-9)
}

func TestBrierOfWorstPredictionIsTwoThirds(t *testing.T) {
	assert.InDelta(t, 2.0/3.0, brierOf(0, 0, 1, models.ResultHome), 1e-9)
}
