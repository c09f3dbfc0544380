package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFixturesParsesVsSeparatedLines(t *testing.T) {
	lines := ParseFixtures("1. Arsenal vs Chelsea\nLiverpool vs Everton\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Arsenal", lines[0].Home)
	assert.Equal(t, "Chelsea", lines[0].Away)
	assert.Equal(t, "Liverpool", lines[1].Home)
	assert.Equal(t, "Everton", lines[1].Away)
}

func TestParseFixturesSkipsBlankLines(t *testing.T) {
	lines := ParseFixtures("Arsenal vs Chelsea\n\n\nLiverpool vs Everton")
	assert.Len(t, lines, 2)
}

func TestParseFixturesFlagsUnparseableLines(t *testing.T) {
	lines := ParseFixtures("this is not a fixture")
	require.Len(t, lines, 1)
	assert.NotEmpty(t, lines[0].Err)
}

func TestMaxFloat(t *testing.T) {
	assert.Equal(t, 5.0, maxFloat(5, 3))
	assert.Equal(t, 5.0, maxFloat(3, 5))
}
