package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

// FileStore keeps one JSON document per profile in a directory. Writes go
// through a temp file and rename so a crash never leaves a torn record.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create storage directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) path(profileID string) string {
	return filepath.Join(f.dir, profileID+".json")
}

func (f *FileStore) Load(ctx context.Context, profileID string) (Snapshot, bool, error) {
	data, err := os.ReadFile(f.path(profileID))
	if err != nil {
		if os.IsNotExist(err) {
			return Snapshot{}, false, nil
		}
		return Snapshot{}, false, fmt.Errorf("could not read snapshot file: %w", err)
	}

	var record struct {
		Key      string   `json:"key"`
		Snapshot Snapshot `json:"snapshot"`
	}
	if err := json.Unmarshal(data, &record); err != nil {
		return Snapshot{}, false, fmt.Errorf("could not parse snapshot file: %w", err)
	}
	if record.Key != StorageKey {
		log.Warnf("snapshot file for profile %q has key %q, expected %q; ignoring it", profileID, record.Key, StorageKey)
		return Snapshot{}, false, nil
	}
	return record.Snapshot, true, nil
}

func (f *FileStore) Save(ctx context.Context, profileID string, snap Snapshot) error {
	record := struct {
		Key      string   `json:"key"`
		Snapshot Snapshot `json:"snapshot"`
	}{Key: StorageKey, Snapshot: snap}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("could not encode snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(f.dir, profileID+"-*.tmp")
	if err != nil {
		return fmt.Errorf("could not create temp snapshot file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("could not write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("could not close snapshot file: %w", err)
	}
	if err := os.Rename(tmpName, f.path(profileID)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("could not replace snapshot file: %w", err)
	}
	return nil
}

func (f *FileStore) Delete(ctx context.Context, profileID string) error {
	err := os.Remove(f.path(profileID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("could not delete snapshot file: %w", err)
	}
	return nil
}
