package event_bus

import "github.com/manatly/manat/pkg/snapshot"

const (
	// SnapshotChangedEvent fires after every state mutation with a copy of
	// the whole snapshot. Subscribers persist it and resync notifications.
	SnapshotChangedEvent EventType = "snapshot.changed"
	// ReminderUpsertedEvent fires when a reminder is created, updated,
	// confirmed or skipped and needs its alert rescheduled.
	ReminderUpsertedEvent EventType = "reminder.upserted"
	// ReminderRemovedEvent fires when a reminder is deleted and its alert
	// must be cancelled.
	ReminderRemovedEvent EventType = "reminder.removed"
	// SnapshotResetEvent fires when a profile is reset to defaults. The
	// persisted record is deleted instead of overwritten.
	SnapshotResetEvent EventType = "snapshot.reset"
)

type SnapshotChanged struct {
	ProfileID string
	Snapshot  snapshot.Snapshot
}

type ReminderUpserted struct {
	ProfileID string
	Reminder  snapshot.IncomeReminder
	Currency  snapshot.CurrencyCode
}

type ReminderRemoved struct {
	ProfileID  string
	ReminderID string
}
