package teamnames

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeResolvesKnownAlias(t *testing.T) {
	l := NewStatic()
	canonical, ok := l.Normalize("man utd")
	assert.True(t, ok)
	assert.Equal(t, "Manchester Utd", canonical)
}

func TestNormalizeIsCaseInsensitive(t *testing.T) {
	l := NewStatic()
	canonical, ok := l.Normalize("MAN CITY")
	assert.True(t, ok)
	assert.Equal(t, "Manchester City", canonical)
}

func TestNormalizePassesThroughUnknownNames(t *testing.T) {
	l := NewStatic()
	canonical, ok := l.Normalize("Burnley")
	assert.True(t, ok)
	assert.Equal(t, "Burnley", canonical)
}

func TestNormalizeRejectsEmptyName(t *testing.T) {
	l := NewStatic()
	_, ok := l.Normalize("   ")
	assert.False(t, ok)
}
