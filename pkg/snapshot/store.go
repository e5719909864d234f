package snapshot

import "context"

// Store persists whole snapshots keyed by StorageKey and profile id. There
// are no partial updates: Save overwrites the entire record.
type Store interface {
	// Load reads the snapshot for the given profile. The second return value
	// is false when no record exists.
	Load(ctx context.Context, profileID string) (Snapshot, bool, error)
	Save(ctx context.Context, profileID string, snap Snapshot) error
	Delete(ctx context.Context, profileID string) error
}
