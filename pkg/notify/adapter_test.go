package notify

import (
	"context"
	"testing"
	"time"

	"github.com/manatly/manat/internal/event_bus"
	"github.com/manatly/manat/internal/utils"
	"github.com/manatly/manat/pkg/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testProfile = "test-profile"

func setup(t *testing.T) (*event_bus.EventBus, *StubScheduler, *utils.MockClock) {
	t.Helper()
	bus := event_bus.NewEventBus()
	scheduler := NewStubScheduler()
	clock := &utils.MockClock{FixedNow: time.Date(2025, time.June, 10, 12, 0, 0, 0, time.Local)}
	NewAdapter(scheduler, clock).Subscribe(bus)
	return bus, scheduler, clock
}

func enableNotifications(bus *event_bus.EventBus, snap snapshot.Snapshot) {
	snap.NotificationsEnabled = true
	bus.Publish(event_bus.NewEvent(context.Background(), event_bus.SnapshotChangedEvent, event_bus.SnapshotChanged{
		ProfileID: testProfile,
		Snapshot:  snap,
	}))
}

func publishUpsert(bus *event_bus.EventBus, rem snapshot.IncomeReminder) {
	bus.Publish(event_bus.NewEvent(context.Background(), event_bus.ReminderUpsertedEvent, event_bus.ReminderUpserted{
		ProfileID: testProfile,
		Reminder:  rem,
		Currency:  snapshot.CurrencyAZN,
	}))
}

func salaryReminder() snapshot.IncomeReminder {
	return snapshot.IncomeReminder{
		ID:            "r1",
		Label:         "Salary",
		Frequency:     snapshot.FrequencyMonthly,
		NextTrigger:   "2025-06-15",
		RemindHour:    9,
		RemindMinute:  30,
		DefaultAmount: 1200,
	}
}

func TestAdapter_ReminderUpserted(t *testing.T) {
	t.Run("should schedule the alert at the trigger date and remind time", func(t *testing.T) {
		bus, scheduler, _ := setup(t)
		enableNotifications(bus, snapshot.New())

		publishUpsert(bus, salaryReminder())

		require.Len(t, scheduler.Scheduled, 1)
		assert.Equal(t, time.Date(2025, time.June, 15, 9, 30, 0, 0, time.Local), scheduler.Scheduled[0].At)
		assert.Contains(t, scheduler.Scheduled[0].Content.Title, "Salary")
		assert.Contains(t, scheduler.Scheduled[0].Content.Body, "1200.00 AZN")
	})

	t.Run("should push a past trigger one minute into the future", func(t *testing.T) {
		bus, scheduler, clock := setup(t)
		enableNotifications(bus, snapshot.New())
		rem := salaryReminder()
		rem.NextTrigger = "2025-06-01"

		publishUpsert(bus, rem)

		require.Len(t, scheduler.Scheduled, 1)
		assert.Equal(t, clock.Now().Add(time.Minute), scheduler.Scheduled[0].At)
	})

	t.Run("should keep at most one live handle per reminder", func(t *testing.T) {
		bus, scheduler, _ := setup(t)
		enableNotifications(bus, snapshot.New())

		publishUpsert(bus, salaryReminder())
		publishUpsert(bus, salaryReminder())

		assert.Len(t, scheduler.Scheduled, 2)
		assert.Len(t, scheduler.Live(), 1)
	})

	t.Run("should not schedule while notifications are disabled", func(t *testing.T) {
		bus, scheduler, _ := setup(t)

		publishUpsert(bus, salaryReminder())

		assert.Empty(t, scheduler.Scheduled)
	})
}

func TestAdapter_ReminderRemoved(t *testing.T) {
	t.Run("should cancel the alert of a removed reminder", func(t *testing.T) {
		bus, scheduler, _ := setup(t)
		enableNotifications(bus, snapshot.New())
		publishUpsert(bus, salaryReminder())

		bus.Publish(event_bus.NewEvent(context.Background(), event_bus.ReminderRemovedEvent, event_bus.ReminderRemoved{
			ProfileID:  testProfile,
			ReminderID: "r1",
		}))

		assert.Empty(t, scheduler.Live())
	})
}

func TestAdapter_NotificationsToggle(t *testing.T) {
	t.Run("should reschedule every reminder when notifications are enabled", func(t *testing.T) {
		bus, scheduler, _ := setup(t)

		snap := snapshot.New()
		snap.IncomeReminders = []snapshot.IncomeReminder{
			salaryReminder(),
			{ID: "r2", Label: "Pension", Frequency: snapshot.FrequencyMonthly, NextTrigger: "2025-06-20", RemindHour: 10},
		}
		enableNotifications(bus, snap)

		assert.Len(t, scheduler.Live(), 2)
	})

	t.Run("should cancel every alert when notifications are disabled", func(t *testing.T) {
		bus, scheduler, _ := setup(t)
		enableNotifications(bus, snapshot.New())
		publishUpsert(bus, salaryReminder())

		bus.Publish(event_bus.NewEvent(context.Background(), event_bus.SnapshotChangedEvent, event_bus.SnapshotChanged{
			ProfileID: testProfile,
			Snapshot:  snapshot.New(),
		}))

		assert.Empty(t, scheduler.Live())
	})
}

func TestAdapter_BudgetWarning(t *testing.T) {
	snapWithSpending := func(budget, spent float64) snapshot.Snapshot {
		snap := snapshot.New()
		snap.Budget = budget
		snap.Expenses = []snapshot.Expense{{ID: "e1", Amount: spent}}
		return snap
	}

	t.Run("should warn once when spending crosses 80 percent of the budget", func(t *testing.T) {
		bus, scheduler, _ := setup(t)

		enableNotifications(bus, snapWithSpending(1000, 800))
		enableNotifications(bus, snapWithSpending(1000, 850))

		warnings := 0
		for _, alert := range scheduler.Scheduled {
			if alert.Content.Title == "Budget warning" {
				warnings++
			}
		}
		assert.Equal(t, 1, warnings)
	})

	t.Run("should warn again after spending drops below the threshold", func(t *testing.T) {
		bus, scheduler, _ := setup(t)

		enableNotifications(bus, snapWithSpending(1000, 800))
		enableNotifications(bus, snapWithSpending(1000, 700))
		enableNotifications(bus, snapWithSpending(1000, 900))

		warnings := 0
		for _, alert := range scheduler.Scheduled {
			if alert.Content.Title == "Budget warning" {
				warnings++
			}
		}
		assert.Equal(t, 2, warnings)
	})

	t.Run("should not warn without a budget", func(t *testing.T) {
		bus, scheduler, _ := setup(t)

		enableNotifications(bus, snapWithSpending(0, 900))

		assert.Empty(t, scheduler.Scheduled)
	})
}

func TestAdapter_SnapshotReset(t *testing.T) {
	t.Run("should cancel every alert on reset", func(t *testing.T) {
		bus, scheduler, _ := setup(t)
		enableNotifications(bus, snapshot.New())
		publishUpsert(bus, salaryReminder())
		require.Len(t, scheduler.Live(), 1)

		bus.Publish(event_bus.NewEvent(context.Background(), event_bus.SnapshotResetEvent, event_bus.SnapshotChanged{
			ProfileID: testProfile,
			Snapshot:  snapshot.New(),
		}))

		assert.Empty(t, scheduler.Live())
	})
}
