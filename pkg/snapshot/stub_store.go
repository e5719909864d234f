package snapshot

import (
	"context"
	"sync"
)

// StubStore is an in-memory Store used in tests.
type StubStore struct {
	mu       sync.Mutex
	data     map[string]Snapshot
	failSave error
	Saves    int
}

func NewStubStore() *StubStore {
	return &StubStore{data: map[string]Snapshot{}}
}

// FailSavesWith makes every subsequent Save return the given error.
func (s *StubStore) FailSavesWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failSave = err
}

func (s *StubStore) Load(ctx context.Context, profileID string) (Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.data[profileID]
	return snap, ok, nil
}

func (s *StubStore) Save(ctx context.Context, profileID string, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSave != nil {
		return s.failSave
	}
	s.data[profileID] = snap
	s.Saves++
	return nil
}

func (s *StubStore) Delete(ctx context.Context, profileID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, profileID)
	return nil
}
