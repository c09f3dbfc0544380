package features

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whiteref/soccer-guardian-v10/internal/elo"
	"github.com/whiteref/soccer-guardian-v10/internal/models"
)

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()
	e, err := elo.New("")
	require.NoError(t, err)
	return NewBuilder(e)
}

func matchOn(day int, home, away string, hg, ag int) models.Match {
	result := models.ResultDraw
	switch {
	case hg > ag:
		result = models.ResultHome
	case hg < ag:
		result = models.ResultAway
	}
	return models.Match{
		Date:   time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC),
		Home:   home,
		Away:   away,
		HGoals: hg,
		AGoals: ag,
		Result: result,
		HShots: 10,
		AShots: 8,
	}
}

func TestObserveSkipsUntilMinHistory(t *testing.T) {
	b := newTestBuilder(t)

	for day := 1; day <= 2; day++ {
		_, _, ok := b.Observe(matchOn(day, "A", "B", 1, 0))
		assert.False(t, ok, "day %d should still be below minHistory", day)
	}
}

func TestObserveEmitsRowOnceHistorySufficient(t *testing.T) {
	b := newTestBuilder(t)

	for day := 1; day <= 3; day++ {
		b.Observe(matchOn(day, "A", "B", 1, 0))
	}
	// Both A and B now have 3 prior matches (against each other); the
	// fourth meeting must emit a row.
	_, _, ok := b.Observe(matchOn(4, "A", "B", 2, 1))
	assert.True(t, ok)
}

func TestObserveNeverLeaksTheCurrentMatchIntoItsOwnRow(t *testing.T) {
	b := newTestBuilder(t)
	for day := 1; day <= 3; day++ {
		b.Observe(matchOn(day, "A", "B", 0, 0))
	}

	// A 10-0 blowout on day 4 must not appear in its own feature row:
	// the pre-match averages should still reflect only the 0-0 history.
	row, _, ok := b.Observe(matchOn(4, "A", "B", 10, 0))
	require.True(t, ok)
	assert.Equal(t, 0.0, row[IdxHomeAvgGoalsFor])

	// But the fifth meeting's row must reflect the blowout now folded in.
	row2, _, ok2 := b.Observe(matchOn(5, "A", "B", 0, 0))
	require.True(t, ok2)
	assert.Greater(t, row2[IdxHomeAvgGoalsFor], 0.0)
}

func TestSnapshotDoesNotMutateState(t *testing.T) {
	b := newTestBuilder(t)
	for day := 1; day <= 3; day++ {
		b.Observe(matchOn(day, "A", "B", 1, 0))
	}

	row1, ok1 := b.Snapshot(models.Match{Home: "A", Away: "B"})
	require.True(t, ok1)
	row2, ok2 := b.Snapshot(models.Match{Home: "A", Away: "B"})
	require.True(t, ok2)
	assert.Equal(t, row1, row2, "repeated snapshots must be stable")
}

func TestSnapshotFalseWithInsufficientHistory(t *testing.T) {
	b := newTestBuilder(t)
	_, ok := b.Snapshot(models.Match{Home: "NewTeam", Away: "OtherTeam"})
	assert.False(t, ok)
}

func TestHomeVenueFlagAlwaysSet(t *testing.T) {
	b := newTestBuilder(t)
	for day := 1; day <= 3; day++ {
		b.Observe(matchOn(day, "A", "B", 1, 1))
	}
	row, _, ok := b.Observe(matchOn(4, "A", "B", 2, 2))
	require.True(t, ok)
	assert.Equal(t, 1.0, row[IdxHomeVenue])
}
