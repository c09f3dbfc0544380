package objectstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whiteref/soccer-guardian-v10/internal/config"
)

func TestNewReturnsNilWithoutCredentials(t *testing.T) {
	cfg := &config.Config{}
	m, err := New(cfg)
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestNilMirrorPushAndPullAreSafeNoops(t *testing.T) {
	var m *Mirror
	assert.NotPanics(t, func() { m.Push("key", []byte("data")) })
	data, ok := m.Pull("key")
	assert.False(t, ok)
	assert.Nil(t, data)
}
