package save

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	progressFile = "progress.json"
	versionFile  = "db_version"
)

// Store keeps the last snapshot and the persistence format version token in
// a directory on disk.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Read loads the stored snapshot. ok is false when either the snapshot or
// the version token is missing or unreadable; a half-written store is
// treated as empty.
func (st *Store) Read() (snap Snapshot, version int, ok bool) {
	data, err := os.ReadFile(filepath.Join(st.dir, progressFile))
	if err != nil {
		return Snapshot{}, 0, false
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, 0, false
	}
	raw, err := os.ReadFile(filepath.Join(st.dir, versionFile))
	if err != nil {
		return Snapshot{}, 0, false
	}
	version, err = strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return Snapshot{}, 0, false
	}
	return snap, version, true
}

// Write persists the snapshot and the version token.
func (st *Store) Write(snap Snapshot, version int) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.WriteFile(filepath.Join(st.dir, progressFile), data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.WriteFile(filepath.Join(st.dir, versionFile), []byte(strconv.Itoa(version)), 0o644); err != nil {
		return fmt.Errorf("write version token: %w", err)
	}
	return nil
}

// Clear drops the stored state.
func (st *Store) Clear() {
	os.Remove(filepath.Join(st.dir, progressFile))
	os.Remove(filepath.Join(st.dir, versionFile))
}
