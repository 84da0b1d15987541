package reputation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"energysink-engine/internal/domain"
)

// LoadSnapshot reads the JSON snapshot the offline builder produced. The
// shape on disk is the key→record map, nothing more.
func LoadSnapshot(path string) (*Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var records map[string]domain.ReputationRecord
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, fmt.Errorf("parse reputation snapshot %s: %w", path, err)
	}
	return NewTable(records), nil
}

// SaveSnapshot writes the table atomically (tmp + rename) under a file lock,
// so a builder run cannot race another builder or a reader mid-write.
func (t *Table) SaveSnapshot(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock reputation snapshot: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	b, err := json.MarshalIndent(t.records, "", "  ")
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
