package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/manatly/manat/internal/event_bus"
	"github.com/manatly/manat/internal/utils"
	"github.com/manatly/manat/pkg/reminder"
	"github.com/manatly/manat/pkg/snapshot"
	log "github.com/sirupsen/logrus"
)

const budgetWarningRatio = 0.8

// Adapter keeps scheduled alerts in sync with the state: at most one live
// handle per reminder, rescheduled on every upsert, cancelled on removal,
// all torn down when a profile disables notifications or resets. It also
// raises the one-shot budget threshold warning.
type Adapter struct {
	scheduler Scheduler
	clock     utils.Clock

	mu           sync.Mutex
	handles      map[string]Handle
	enabled      map[string]bool
	budgetWarned map[string]bool
}

func NewAdapter(scheduler Scheduler, clock utils.Clock) *Adapter {
	return &Adapter{
		scheduler:    scheduler,
		clock:        clock,
		handles:      map[string]Handle{},
		enabled:      map[string]bool{},
		budgetWarned: map[string]bool{},
	}
}

// Subscribe wires the adapter to the bus. State mutations publish their
// snapshot before the reminder intent, so the enabled flag is always
// current when an upsert arrives.
func (a *Adapter) Subscribe(bus *event_bus.EventBus) {
	bus.Subscribe(event_bus.ReminderUpsertedEvent, func(event event_bus.Event) {
		payload, ok := event.Data.(event_bus.ReminderUpserted)
		if !ok {
			return
		}
		a.mu.Lock()
		defer a.mu.Unlock()
		a.scheduleReminderLocked(event.Context(), payload.ProfileID, payload.Reminder, payload.Currency)
	})
	bus.Subscribe(event_bus.ReminderRemovedEvent, func(event event_bus.Event) {
		payload, ok := event.Data.(event_bus.ReminderRemoved)
		if !ok {
			return
		}
		a.mu.Lock()
		defer a.mu.Unlock()
		a.cancelReminderLocked(event.Context(), payload.ProfileID, payload.ReminderID)
	})
	bus.Subscribe(event_bus.SnapshotChangedEvent, func(event event_bus.Event) {
		payload, ok := event.Data.(event_bus.SnapshotChanged)
		if !ok {
			return
		}
		a.onSnapshot(event.Context(), payload.ProfileID, payload.Snapshot)
	})
	bus.Subscribe(event_bus.SnapshotResetEvent, func(event event_bus.Event) {
		payload, ok := event.Data.(event_bus.SnapshotChanged)
		if !ok {
			return
		}
		a.mu.Lock()
		defer a.mu.Unlock()
		a.cancelAllLocked(event.Context(), payload.ProfileID)
		a.enabled[payload.ProfileID] = payload.Snapshot.NotificationsEnabled
		a.budgetWarned[payload.ProfileID] = false
	})
}

func (a *Adapter) onSnapshot(ctx context.Context, profileID string, snap snapshot.Snapshot) {
	a.mu.Lock()
	defer a.mu.Unlock()

	wasEnabled := a.enabled[profileID]
	a.enabled[profileID] = snap.NotificationsEnabled

	if wasEnabled && !snap.NotificationsEnabled {
		a.cancelAllLocked(ctx, profileID)
		a.budgetWarned[profileID] = false
		return
	}
	if !wasEnabled && snap.NotificationsEnabled {
		for _, rem := range snap.IncomeReminders {
			a.scheduleReminderLocked(ctx, profileID, rem, snap.Currency)
		}
	}

	a.checkBudgetLocked(ctx, profileID, snap)
}

// checkBudgetLocked raises the threshold warning once per crossing. The
// sent flag clears when the ratio drops back under the threshold or when
// the budget is removed.
func (a *Adapter) checkBudgetLocked(ctx context.Context, profileID string, snap snapshot.Snapshot) {
	if !snap.NotificationsEnabled || snap.Budget <= 0 {
		a.budgetWarned[profileID] = false
		return
	}
	ratio := snap.TotalExpenses() / snap.Budget
	if ratio >= budgetWarningRatio && !a.budgetWarned[profileID] {
		content := Content{
			Title: "Budget warning",
			Body: fmt.Sprintf("You have passed 80%% of this month's limit. Current spending: %.2f %s.",
				snap.TotalExpenses(), snap.Currency),
		}
		if _, err := a.scheduler.ScheduleAt(ctx, a.clock.Now(), content); err != nil {
			log.Warnf("failed to send budget warning for profile %q: %v", profileID, err)
		}
		a.budgetWarned[profileID] = true
	} else if ratio < budgetWarningRatio {
		a.budgetWarned[profileID] = false
	}
}

func (a *Adapter) scheduleReminderLocked(ctx context.Context, profileID string, rem snapshot.IncomeReminder, currency snapshot.CurrencyCode) {
	a.cancelReminderLocked(ctx, profileID, rem.ID)
	if !a.enabled[profileID] {
		return
	}

	triggerDate, err := time.ParseInLocation(reminder.DateLayout, rem.NextTrigger, time.Local)
	if err != nil {
		log.Debugf("reminder %q has no schedulable trigger: %v", rem.ID, err)
		return
	}
	at := time.Date(triggerDate.Year(), triggerDate.Month(), triggerDate.Day(),
		rem.RemindHour, rem.RemindMinute, 0, 0, time.Local)
	now := a.clock.Now()
	if !at.After(now) {
		at = now.Add(time.Minute)
	}

	amountHint := ""
	if rem.DefaultAmount != 0 {
		amountHint = fmt.Sprintf(" (%.2f %s)", rem.DefaultAmount, currency)
	}
	content := Content{
		Title: fmt.Sprintf("Income reminder: %s", rem.Label),
		Body:  fmt.Sprintf("Confirm today's %s income%s.", rem.Label, amountHint),
	}

	handle, err := a.scheduler.ScheduleAt(ctx, at, content)
	if err != nil {
		log.Warnf("failed to schedule reminder %q for profile %q: %v", rem.ID, profileID, err)
		return
	}
	a.handles[handleKey(profileID, rem.ID)] = handle
}

func (a *Adapter) cancelReminderLocked(ctx context.Context, profileID string, reminderID string) {
	key := handleKey(profileID, reminderID)
	handle, ok := a.handles[key]
	if !ok {
		return
	}
	if err := a.scheduler.Cancel(ctx, handle); err != nil {
		log.Warnf("failed to cancel alert for reminder %q: %v", reminderID, err)
	}
	delete(a.handles, key)
}

func (a *Adapter) cancelAllLocked(ctx context.Context, profileID string) {
	prefix := profileID + "/"
	for key, handle := range a.handles {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			if err := a.scheduler.Cancel(ctx, handle); err != nil {
				log.Warnf("failed to cancel alert %q: %v", key, err)
			}
			delete(a.handles, key)
		}
	}
}

func handleKey(profileID, reminderID string) string {
	return profileID + "/" + reminderID
}
