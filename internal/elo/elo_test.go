package elo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whiteref/soccer-guardian-v10/internal/models"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New("")
	require.NoError(t, err)
	return e
}

func TestRatingDefaultsToInitial(t *testing.T) {
	e := newTestEngine(t)
	assert.Equal(t, initialRating, e.Rating("Arsenal"))
}

func TestUpdateIsZeroSum(t *testing.T) {
	e := newTestEngine(t)
	before := e.Rating("Home") + e.Rating("Away")
	e.Update("Home", "Away", models.ResultHome)
	after := e.Rating("Home") + e.Rating("Away")
	assert.InDelta(t, before, after, 1e-9)
}

func TestUpdateMovesWinnerUp(t *testing.T) {
	e := newTestEngine(t)
	e.Update("Home", "Away", models.ResultHome)
	assert.Greater(t, e.Rating("Home"), initialRating)
	assert.Less(t, e.Rating("Away"), initialRating)
}

func TestUpdateDrawIsSymmetricBetweenEquallyRatedTeams(t *testing.T) {
	// Home carries a fixed home-advantage offset, so a draw still nudges
	// ratings toward the underdog (away) even between equal starting
	// ratings; both sides move by the same amount, and never as much as
	// an outright away win.
	drawEngine := newTestEngine(t)
	drawEngine.Update("Home", "Away", models.ResultDraw)
	assert.InDelta(t, initialRating-drawEngine.Rating("Home"), drawEngine.Rating("Away")-initialRating, 1e-9)

	winEngine := newTestEngine(t)
	winEngine.Update("Home", "Away", models.ResultAway)

	assert.Less(t, math.Abs(drawEngine.Rating("Home")-initialRating), math.Abs(winEngine.Rating("Home")-initialRating))
}

func TestTierDiffIsClamped(t *testing.T) {
	e := newTestEngine(t)
	for i := 0; i < 50; i++ {
		e.Update("Giant", "Minnow", models.ResultHome)
	}
	diff := e.TierDiff("Giant", "Minnow")
	assert.LessOrEqual(t, diff, tierDiffClamp)
	assert.GreaterOrEqual(t, diff, -tierDiffClamp)
}

func TestExpectedScoreSumsToOne(t *testing.T) {
	e := newTestEngine(t)
	e.Update("Home", "Away", models.ResultHome)
	pHome, pDraw, pAway := e.ExpectedScore("Home", "Away")
	assert.InDelta(t, 1.0, pHome+pDraw+pAway, 1e-9)
	assert.GreaterOrEqual(t, pHome, 0.0)
	assert.GreaterOrEqual(t, pDraw, 0.0)
	assert.GreaterOrEqual(t, pAway, 0.0)
}

func TestExpectedHomeFavorsHomeAdvantageAtEqualRatings(t *testing.T) {
	assert.Greater(t, ExpectedHome(1500, 1500), 0.5)
}
