package profile

import (
	"context"
	"sync"

	"github.com/manatly/manat/internal/event_bus"
	"github.com/manatly/manat/pkg/snapshot"
	log "github.com/sirupsen/logrus"
)

// StateStore owns the in-memory snapshot of every profile. All mutations go
// through Update under a single lock, so there is exactly one mutator
// context; persistence and notification scheduling happen afterwards as
// bus-published side effects and never roll a mutation back.
type StateStore struct {
	mu          sync.Mutex
	persistence snapshot.Store
	bus         *event_bus.EventBus
	states      map[string]*snapshot.Snapshot
}

func NewStateStore(persistence snapshot.Store, bus *event_bus.EventBus) *StateStore {
	return &StateStore{
		persistence: persistence,
		bus:         bus,
		states:      map[string]*snapshot.Snapshot{},
	}
}

// state returns the live snapshot for the profile, loading it from the
// persistence backend on first access. Absence or a parse failure is never
// fatal: the profile starts from defaults.
func (s *StateStore) state(ctx context.Context, profileID string) *snapshot.Snapshot {
	if snap, ok := s.states[profileID]; ok {
		return snap
	}
	loaded, found, err := s.persistence.Load(ctx, profileID)
	if err != nil {
		log.Warnf("failed to load snapshot for profile %q, starting from defaults: %v", profileID, err)
		loaded = snapshot.New()
	} else if !found {
		log.Debugf("no stored snapshot for profile %q, starting from defaults", profileID)
		loaded = snapshot.New()
	}
	s.states[profileID] = &loaded
	return &loaded
}

// Update applies fn to the current profile's snapshot. When fn returns an
// error no state change is published (fn must validate before mutating).
// On success a deep copy of the new state is published on the bus for the
// persister and the notification adapter.
func (s *StateStore) Update(ctx context.Context, fn func(*snapshot.Snapshot) error) error {
	profileID := CurrentId(ctx)

	s.mu.Lock()
	snap := s.state(ctx, profileID)
	if err := fn(snap); err != nil {
		s.mu.Unlock()
		return err
	}
	changed := snap.Clone()
	s.mu.Unlock()

	s.bus.Publish(event_bus.NewEvent(ctx, event_bus.SnapshotChangedEvent, event_bus.SnapshotChanged{
		ProfileID: profileID,
		Snapshot:  changed,
	}))
	return nil
}

// View calls fn with a copy of the current profile's snapshot.
func (s *StateStore) View(ctx context.Context, fn func(snapshot.Snapshot)) {
	profileID := CurrentId(ctx)

	s.mu.Lock()
	snap := s.state(ctx, profileID).Clone()
	s.mu.Unlock()

	fn(snap)
}

// Reset replaces the profile's state with defaults and publishes a reset
// event so the persisted record is deleted and alerts are cancelled.
func (s *StateStore) Reset(ctx context.Context) {
	profileID := CurrentId(ctx)

	s.mu.Lock()
	fresh := snapshot.New()
	s.states[profileID] = &fresh
	changed := fresh.Clone()
	s.mu.Unlock()

	s.bus.Publish(event_bus.NewEvent(ctx, event_bus.SnapshotResetEvent, event_bus.SnapshotChanged{
		ProfileID: profileID,
		Snapshot:  changed,
	}))
}
