package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Content is the user-facing payload of a scheduled alert.
type Content struct {
	Title string
	Body  string
}

// Handle identifies a scheduled alert so it can be cancelled later.
type Handle string

// Scheduler delivers alerts at a point in time. The real mobile client
// registers local notifications with the OS; server-side backends plug in
// here (push gateway, mail, webhook).
type Scheduler interface {
	ScheduleAt(ctx context.Context, at time.Time, content Content) (Handle, error)
	Cancel(ctx context.Context, handle Handle) error
}

// LogScheduler writes every alert to the log instead of delivering it.
// It is the default backend when no delivery channel is configured.
type LogScheduler struct{}

func NewLogScheduler() *LogScheduler {
	return &LogScheduler{}
}

func (s *LogScheduler) ScheduleAt(_ context.Context, at time.Time, content Content) (Handle, error) {
	handle := Handle(uuid.New().String())
	log.WithFields(log.Fields{
		"handle": handle,
		"at":     at.Format(time.RFC3339),
		"title":  content.Title,
	}).Info("Scheduled notification")
	return handle, nil
}

func (s *LogScheduler) Cancel(_ context.Context, handle Handle) error {
	log.WithField("handle", handle).Debug("Cancelled notification")
	return nil
}
