package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMirror struct {
	data map[string][]byte
}

func newFakeMirror() *fakeMirror { return &fakeMirror{data: make(map[string][]byte)} }

func (m *fakeMirror) Push(key string, data []byte) { m.data[key] = append([]byte(nil), data...) }
func (m *fakeMirror) Pull(key string) ([]byte, bool) {
	d, ok := m.data[key]
	return d, ok
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	f, err := New(path)
	require.NoError(t, err)

	type payload struct {
		A int
		B string
	}
	in := payload{A: 7, B: "hi"}
	require.NoError(t, f.Save(in))

	var out payload
	require.NoError(t, f.Load(&out))
	assert.Equal(t, in, out)
}

func TestLoadOnMissingFileLeavesZeroValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")
	f, err := New(path)
	require.NoError(t, err)

	var out map[string]float64
	require.NoError(t, f.Load(&out))
	assert.Nil(t, out)
}

func TestLoadFallsBackToMirrorWhenLocalFileAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	f, err := New(path)
	require.NoError(t, err)

	mirror := newFakeMirror()
	f = f.WithMirror(mirror, "key")
	mirror.data["key"] = []byte(`{"A":1}`)

	var out map[string]int
	require.NoError(t, f.Load(&out))
	assert.Equal(t, 1, out["A"])
}

func TestSavePushesToMirror(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	f, err := New(path)
	require.NoError(t, err)
	mirror := newFakeMirror()
	f = f.WithMirror(mirror, "key")

	require.NoError(t, f.Save(map[string]int{"A": 2}))
	_, ok := mirror.data["key"]
	assert.True(t, ok)
}

func TestSaveBestEffortNeverPanics(t *testing.T) {
	f := &JSONFile{Path: filepath.Join(t.TempDir(), "nonexistent-dir", "x.json")}
	assert.NotPanics(t, func() { SaveBestEffort(f, map[string]int{"A": 1}) })
}
