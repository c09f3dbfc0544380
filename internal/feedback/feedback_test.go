package feedback

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/whiteref/soccer-guardian-v10/internal/models"
)

func TestResultFromGoals(t *testing.T) {
	assert.Equal(t, models.ResultHome, resultFromGoals(2, 1))
	assert.Equal(t, models.ResultAway, resultFromGoals(0, 3))
	assert.Equal(t, models.ResultDraw, resultFromGoals(1, 1))
}

func TestContainsFoldIsCaseInsensitiveSubstring(t *testing.T) {
	assert.True(t, containsFold("Manchester United", "man"))
	assert.False(t, containsFold("man", "Manchester United"))
	assert.False(t, containsFold("Arsenal", ""))
}
