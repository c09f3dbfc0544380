// Package store provides atomic, local-disk JSON persistence for the
// small pieces of process state the pipeline must survive restarts
// with: ELO ratings, Kalman filter states, the Brier ledger, and the
// idempotent ingestion set. There is no relational or network-backed
// store here by design — the pipeline is single-process and the state
// it persists is small enough to round-trip through a flat file on
// every save.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// Mirror is the narrow interface JSONFile needs from a remote object
// store, satisfied by *objectstore.Mirror without an import cycle.
type Mirror interface {
	Push(key string, data []byte)
	Pull(key string) ([]byte, bool)
}

// JSONFile persists a single JSON document at Path, guaranteeing that
// readers never observe a partially written file: Save writes to a
// sibling temp file and renames it into place. An optional Mirror
// receives a best-effort copy of every save and is consulted on load
// when the local file is absent.
type JSONFile struct {
	Path       string
	mirror     Mirror
	mirrorKey  string
}

// New returns a JSONFile rooted at path, creating its parent directory
// if necessary.
func New(path string) (*JSONFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("store: create parent dir for %s: %w", path, err)
	}
	return &JSONFile{Path: path}, nil
}

// WithMirror attaches a remote mirror, keyed by mirrorKey, to an
// existing JSONFile and returns it for chaining.
func (f *JSONFile) WithMirror(m Mirror, mirrorKey string) *JSONFile {
	f.mirror = m
	f.mirrorKey = mirrorKey
	return f
}

// Load decodes the file's contents into v. A missing local file falls
// back to the mirror, if attached, before leaving v at its zero value
// so the caller's defaults apply.
func (f *JSONFile) Load(v any) error {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("store: read %s: %w", f.Path, err)
		}
		if f.mirror == nil {
			return nil
		}
		remote, ok := f.mirror.Pull(f.mirrorKey)
		if !ok {
			return nil
		}
		data = remote
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("store: decode %s: %w", f.Path, err)
	}
	return nil
}

// Save atomically overwrites the local file with the JSON encoding of
// v, then best-effort pushes the same bytes to the mirror if attached.
func (f *JSONFile) Save(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", f.Path, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.Path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("store: create temp file for %s: %w", f.Path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("store: write temp file for %s: %w", f.Path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("store: close temp file for %s: %w", f.Path, err)
	}
	if err := os.Rename(tmpName, f.Path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("store: rename temp file into %s: %w", f.Path, err)
	}
	if f.mirror != nil {
		f.mirror.Push(f.mirrorKey, data)
	}
	return nil
}

// SaveBestEffort saves and logs on failure instead of returning an
// error, for callers where a lost save must not interrupt the
// in-memory state machine it snapshots (C2, C3).
func SaveBestEffort(f *JSONFile, v any) {
	if err := f.Save(v); err != nil {
		log.Warn().Err(err).Str("path", f.Path).Msg("state save failed, continuing in-memory")
	}
}
