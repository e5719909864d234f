package app

import (
	"context"
	"time"

	"github.com/manatly/manat/internal/event_bus"
	"github.com/manatly/manat/pkg/snapshot"
	log "github.com/sirupsen/logrus"
)

const persistTimeout = 5 * time.Second

type persistJob struct {
	profileID string
	// nil snapshot deletes the stored record
	snap *snapshot.Snapshot
}

// persister writes snapshots out asynchronously. A single worker drains the
// queue in publish order, so the last state published is the last one saved.
// Failures only log; the in-memory state stays authoritative.
type persister struct {
	store snapshot.Store
	jobs  chan persistJob
}

func startPersister(bus *event_bus.EventBus, store snapshot.Store) *persister {
	p := &persister{
		store: store,
		jobs:  make(chan persistJob, 64),
	}
	go p.run()

	bus.Subscribe(event_bus.SnapshotChangedEvent, func(event event_bus.Event) {
		payload, ok := event.Data.(event_bus.SnapshotChanged)
		if !ok {
			return
		}
		snap := payload.Snapshot
		p.jobs <- persistJob{profileID: payload.ProfileID, snap: &snap}
	})
	bus.Subscribe(event_bus.SnapshotResetEvent, func(event event_bus.Event) {
		payload, ok := event.Data.(event_bus.SnapshotChanged)
		if !ok {
			return
		}
		p.jobs <- persistJob{profileID: payload.ProfileID}
	})

	return p
}

func (p *persister) run() {
	for job := range p.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		if job.snap == nil {
			if err := p.store.Delete(ctx, job.profileID); err != nil {
				log.Warnf("failed to delete snapshot for profile %q: %v", job.profileID, err)
			}
		} else {
			if err := p.store.Save(ctx, job.profileID, *job.snap); err != nil {
				log.Warnf("failed to save snapshot for profile %q: %v", job.profileID, err)
			}
		}
		cancel()
	}
}
