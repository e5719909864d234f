package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// PostgresStore keeps one row per profile under the fixed storage key.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (p *PostgresStore) Load(ctx context.Context, profileID string) (Snapshot, bool, error) {
	query := "SELECT data FROM profile_snapshot WHERE storage_key = $1 AND profile_id = $2"
	row := p.db.QueryRowContext(ctx, query, StorageKey, profileID)

	var data []byte
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Snapshot{}, false, nil
		}
		err := fmt.Errorf("could not query snapshot: %w", err)
		log.Error(err)
		return Snapshot{}, false, err
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		err := fmt.Errorf("could not parse stored snapshot: %w", err)
		log.Error(err)
		return Snapshot{}, false, err
	}
	return snap, true, nil
}

func (p *PostgresStore) Save(ctx context.Context, profileID string, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("could not encode snapshot: %w", err)
	}

	query := `INSERT INTO profile_snapshot (storage_key, profile_id, data, updated_at)
              VALUES ($1, $2, $3, now())
              ON CONFLICT (storage_key, profile_id)
              DO UPDATE SET data = EXCLUDED.data, updated_at = now()`
	if _, err := p.db.ExecContext(ctx, query, StorageKey, profileID, data); err != nil {
		err := fmt.Errorf("could not store snapshot: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (p *PostgresStore) Delete(ctx context.Context, profileID string) error {
	query := "DELETE FROM profile_snapshot WHERE storage_key = $1 AND profile_id = $2"
	if _, err := p.db.ExecContext(ctx, query, StorageKey, profileID); err != nil {
		err := fmt.Errorf("could not delete snapshot: %w", err)
		log.Error(err)
		return err
	}
	return nil
}
