package reminder

import (
	"context"
	"testing"
	"time"

	"github.com/manatly/manat/internal/event_bus"
	"github.com/manatly/manat/internal/utils"
	"github.com/manatly/manat/pkg/profile"
	"github.com/manatly/manat/pkg/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = profile.WithProfile(context.Background(), "test-profile")

type fixture struct {
	service  *ServiceImpl
	store    *profile.StateStore
	clock    *utils.MockClock
	upserted *int
	removed  *int
}

func setup(t *testing.T) fixture {
	t.Helper()
	bus := event_bus.NewEventBus()
	store := profile.NewStateStore(snapshot.NewStubStore(), bus)
	clock := &utils.MockClock{FixedNow: time.Date(2025, time.June, 10, 12, 0, 0, 0, time.Local)}

	upserted, removed := 0, 0
	bus.Subscribe(event_bus.ReminderUpsertedEvent, func(event_bus.Event) { upserted++ })
	bus.Subscribe(event_bus.ReminderRemovedEvent, func(event_bus.Event) { removed++ })

	return fixture{
		service:  NewService(store, bus, clock),
		store:    store,
		clock:    clock,
		upserted: &upserted,
		removed:  &removed,
	}
}

func (f fixture) incomes(t *testing.T) []snapshot.Income {
	t.Helper()
	var incomes []snapshot.Income
	f.store.View(ctx, func(snap snapshot.Snapshot) {
		incomes = snap.Incomes
	})
	return incomes
}

func TestServiceImpl_Add(t *testing.T) {
	t.Run("should create a monthly reminder with the day derived from the trigger", func(t *testing.T) {
		f := setup(t)

		created, err := f.service.Add(ctx, AddInput{
			SourceType:  snapshot.SourceSalary,
			Label:       "Salary",
			Frequency:   snapshot.FrequencyMonthly,
			NextTrigger: "2025-07-05",
			AutoRenew:   true,
		})

		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "2025-07-05", created.NextTrigger)
		assert.Equal(t, 5, created.DayOfMonth)
		assert.Equal(t, 9, created.RemindHour)
		assert.Equal(t, 0, created.RemindMinute)
		assert.Equal(t, 1, *f.upserted)
	})

	t.Run("should clamp an oversized day of month", func(t *testing.T) {
		f := setup(t)

		created, err := f.service.Add(ctx, AddInput{
			SourceType:  snapshot.SourceSalary,
			Label:       "Salary",
			Frequency:   snapshot.FrequencyMonthly,
			DayOfMonth:  31,
			NextTrigger: "2025-07-31",
		})

		require.NoError(t, err)
		assert.Equal(t, 28, created.DayOfMonth)
	})

	t.Run("should normalize a malformed trigger to today", func(t *testing.T) {
		f := setup(t)

		created, err := f.service.Add(ctx, AddInput{
			SourceType:  snapshot.SourceFreelance,
			Label:       "Gig",
			Frequency:   snapshot.FrequencyIrregular,
			NextTrigger: "garbage",
		})

		require.NoError(t, err)
		assert.Equal(t, "2025-06-10", created.NextTrigger)
	})

	t.Run("should derive the weekday from the trigger date", func(t *testing.T) {
		f := setup(t)

		// 2025-06-13 is a Friday
		created, err := f.service.Add(ctx, AddInput{
			SourceType:  snapshot.SourceFreelance,
			Label:       "Tutoring",
			Frequency:   snapshot.FrequencyWeekly,
			NextTrigger: "2025-06-13",
		})

		require.NoError(t, err)
		require.NotNil(t, created.Weekday)
		assert.Equal(t, int(time.Friday), *created.Weekday)
	})

	t.Run("should reject an empty label", func(t *testing.T) {
		f := setup(t)

		_, err := f.service.Add(ctx, AddInput{
			SourceType: snapshot.SourceSalary,
			Frequency:  snapshot.FrequencyMonthly,
		})

		assert.ErrorIs(t, err, ErrEmptyLabel)
	})

	t.Run("should reject an unknown frequency", func(t *testing.T) {
		f := setup(t)

		_, err := f.service.Add(ctx, AddInput{
			SourceType: snapshot.SourceSalary,
			Label:      "Salary",
			Frequency:  "quarterly",
		})

		assert.ErrorIs(t, err, ErrInvalidFrequency)
	})

	t.Run("should reject an inverted reminder window", func(t *testing.T) {
		f := setup(t)

		_, err := f.service.Add(ctx, AddInput{
			SourceType:     snapshot.SourceSalary,
			Label:          "Salary",
			Frequency:      snapshot.FrequencyMonthly,
			WindowStartDay: 10,
			WindowEndDay:   5,
		})

		assert.ErrorIs(t, err, ErrInvalidWindow)
	})
}

func TestServiceImpl_Confirm(t *testing.T) {
	addSalary := func(t *testing.T, f fixture) snapshot.IncomeReminder {
		t.Helper()
		created, err := f.service.Add(ctx, AddInput{
			SourceType:  snapshot.SourceSalary,
			Label:       "Salary",
			Frequency:   snapshot.FrequencyMonthly,
			DayOfMonth:  5,
			NextTrigger: "2025-06-05",
			AutoRenew:   true,
		})
		require.NoError(t, err)
		return created
	}

	t.Run("should record exactly one income carrying the reminder id", func(t *testing.T) {
		f := setup(t)
		created := addSalary(t, f)

		confirmed, found := f.service.Confirm(ctx, created.ID, 1200.0, nil)

		require.True(t, found)
		incomes := f.incomes(t)
		require.Len(t, incomes, 1)
		assert.Equal(t, created.ID, incomes[0].ReminderID)
		assert.Equal(t, "Salary", incomes[0].Source)
		assert.Equal(t, 1200.0, incomes[0].Amount)
		assert.Equal(t, 1200.0, confirmed.DefaultAmount)
	})

	t.Run("should coerce a negative amount to its absolute value", func(t *testing.T) {
		f := setup(t)
		created := addSalary(t, f)

		confirmed, found := f.service.Confirm(ctx, created.ID, -850.5, nil)

		require.True(t, found)
		assert.Equal(t, 850.5, confirmed.DefaultAmount)
		assert.Equal(t, 850.5, f.incomes(t)[0].Amount)
	})

	t.Run("should advance the trigger from the prior trigger date", func(t *testing.T) {
		f := setup(t)
		created := addSalary(t, f)

		confirmed, found := f.service.Confirm(ctx, created.ID, 1200.0, nil)

		require.True(t, found)
		assert.Equal(t, "2025-06-05", confirmed.LastTriggeredAt)
		assert.Equal(t, "2025-07-05", confirmed.NextTrigger)
	})

	t.Run("should default the receipt to the trigger date at midnight", func(t *testing.T) {
		f := setup(t)
		created := addSalary(t, f)

		confirmed, found := f.service.Confirm(ctx, created.ID, 1200.0, nil)

		require.True(t, found)
		require.NotNil(t, confirmed.LastReceivedAt)
		assert.Equal(t, time.Date(2025, time.June, 5, 0, 0, 0, 0, time.Local), *confirmed.LastReceivedAt)
		assert.Equal(t, *confirmed.LastReceivedAt, f.incomes(t)[0].ReceivedAt)
	})

	t.Run("should use the provided receipt timestamp", func(t *testing.T) {
		f := setup(t)
		created := addSalary(t, f)
		receipt := time.Date(2025, time.June, 7, 14, 30, 0, 0, time.Local)

		confirmed, found := f.service.Confirm(ctx, created.ID, 1200.0, &receipt)

		require.True(t, found)
		assert.Equal(t, receipt, *confirmed.LastReceivedAt)
	})

	t.Run("should be a silent no-op for an unknown id", func(t *testing.T) {
		f := setup(t)
		addSalary(t, f)

		_, found := f.service.Confirm(ctx, "missing", 1200.0, nil)

		assert.False(t, found)
		assert.Empty(t, f.incomes(t))
	})

	t.Run("should not surface a confirmed reminder in the pending sweep", func(t *testing.T) {
		f := setup(t)
		created := addSalary(t, f)
		f.clock.SetNow(time.Date(2025, time.June, 4, 10, 0, 0, 0, time.Local))
		require.Len(t, f.service.Pending(ctx), 1)

		_, found := f.service.Confirm(ctx, created.ID, 1200.0, nil)

		require.True(t, found)
		assert.Empty(t, f.service.Pending(ctx))
	})
}

func TestServiceImpl_Skip(t *testing.T) {
	addSalary := func(t *testing.T, f fixture) snapshot.IncomeReminder {
		t.Helper()
		created, err := f.service.Add(ctx, AddInput{
			SourceType:  snapshot.SourceSalary,
			Label:       "Salary",
			Frequency:   snapshot.FrequencyMonthly,
			DayOfMonth:  5,
			NextTrigger: "2025-06-05",
		})
		require.NoError(t, err)
		return created
	}

	t.Run("should advance the trigger without recording an income", func(t *testing.T) {
		f := setup(t)
		created := addSalary(t, f)

		skipped, found := f.service.Skip(ctx, created.ID, "")

		require.True(t, found)
		assert.Equal(t, "2025-06-05", skipped.LastTriggeredAt)
		assert.Equal(t, "2025-07-05", skipped.NextTrigger)
		assert.Empty(t, f.incomes(t))
	})

	t.Run("should honor an explicit override trigger", func(t *testing.T) {
		f := setup(t)
		created := addSalary(t, f)

		skipped, found := f.service.Skip(ctx, created.ID, "2025-08-01")

		require.True(t, found)
		assert.Equal(t, "2025-08-01", skipped.NextTrigger)
	})

	t.Run("should normalize a malformed override to today", func(t *testing.T) {
		f := setup(t)
		created := addSalary(t, f)

		skipped, found := f.service.Skip(ctx, created.ID, "soon")

		require.True(t, found)
		assert.Equal(t, "2025-06-10", skipped.NextTrigger)
	})

	t.Run("should be a silent no-op for an unknown id", func(t *testing.T) {
		f := setup(t)

		_, found := f.service.Skip(ctx, "missing", "")

		assert.False(t, found)
	})
}

func TestServiceImpl_Update(t *testing.T) {
	t.Run("should apply only the provided fields", func(t *testing.T) {
		f := setup(t)
		created, err := f.service.Add(ctx, AddInput{
			SourceType:  snapshot.SourceSalary,
			Label:       "Salary",
			Frequency:   snapshot.FrequencyMonthly,
			DayOfMonth:  5,
			NextTrigger: "2025-06-05",
		})
		require.NoError(t, err)

		label := "Main salary"
		amount := -1500.0
		updated, found, err := f.service.Update(ctx, created.ID, UpdateInput{
			Label:         &label,
			DefaultAmount: &amount,
		})

		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "Main salary", updated.Label)
		assert.Equal(t, 1500.0, updated.DefaultAmount)
		assert.Equal(t, "2025-06-05", updated.NextTrigger)
		assert.Equal(t, 5, updated.DayOfMonth)
	})

	t.Run("should re-normalize a malformed trigger", func(t *testing.T) {
		f := setup(t)
		created, err := f.service.Add(ctx, AddInput{
			SourceType:  snapshot.SourceSalary,
			Label:       "Salary",
			Frequency:   snapshot.FrequencyMonthly,
			NextTrigger: "2025-06-05",
		})
		require.NoError(t, err)

		trigger := "2025-13-45"
		updated, found, err := f.service.Update(ctx, created.ID, UpdateInput{NextTrigger: &trigger})

		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "2025-06-10", updated.NextTrigger)
	})

	t.Run("should reject a single-bound update that inverts the stored window", func(t *testing.T) {
		// given
		f := setup(t)
		created, err := f.service.Add(ctx, AddInput{
			SourceType:     snapshot.SourceSalary,
			Label:          "Salary",
			Frequency:      snapshot.FrequencyMonthly,
			DayOfMonth:     5,
			NextTrigger:    "2025-06-05",
			WindowStartDay: 3,
			WindowEndDay:   5,
		})
		require.NoError(t, err)

		// when
		start := 10
		_, _, err = f.service.Update(ctx, created.ID, UpdateInput{WindowStartDay: &start})

		// then
		require.ErrorIs(t, err, ErrInvalidWindow)
		stored := f.service.List(ctx)[0]
		assert.Equal(t, 3, stored.WindowStartDay)
		assert.Equal(t, 5, stored.WindowEndDay)
	})

	t.Run("should accept a single-bound update that keeps the window ordered", func(t *testing.T) {
		f := setup(t)
		created, err := f.service.Add(ctx, AddInput{
			SourceType:     snapshot.SourceSalary,
			Label:          "Salary",
			Frequency:      snapshot.FrequencyMonthly,
			DayOfMonth:     5,
			NextTrigger:    "2025-06-05",
			WindowStartDay: 3,
			WindowEndDay:   5,
		})
		require.NoError(t, err)

		start := 4
		updated, found, err := f.service.Update(ctx, created.ID, UpdateInput{WindowStartDay: &start})

		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, 4, updated.WindowStartDay)
		assert.Equal(t, 5, updated.WindowEndDay)
	})

	t.Run("should reject an out of range remind time", func(t *testing.T) {
		f := setup(t)
		created, err := f.service.Add(ctx, AddInput{
			SourceType:  snapshot.SourceSalary,
			Label:       "Salary",
			Frequency:   snapshot.FrequencyMonthly,
			NextTrigger: "2025-06-05",
		})
		require.NoError(t, err)

		hour := 99
		_, _, err = f.service.Update(ctx, created.ID, UpdateInput{RemindHour: &hour})
		require.ErrorIs(t, err, ErrInvalidRemindTime)

		minute := 75
		_, _, err = f.service.Update(ctx, created.ID, UpdateInput{RemindMinute: &minute})
		require.ErrorIs(t, err, ErrInvalidRemindTime)

		stored := f.service.List(ctx)[0]
		assert.Equal(t, 9, stored.RemindHour)
		assert.Equal(t, 0, stored.RemindMinute)
	})

	t.Run("should reject an out of range weekday", func(t *testing.T) {
		f := setup(t)
		created, err := f.service.Add(ctx, AddInput{
			SourceType:  snapshot.SourceSalary,
			Label:       "Salary",
			Frequency:   snapshot.FrequencyWeekly,
			NextTrigger: "2025-06-13",
		})
		require.NoError(t, err)

		weekday := 7
		_, _, err = f.service.Update(ctx, created.ID, UpdateInput{Weekday: &weekday})

		require.ErrorIs(t, err, ErrInvalidWeekday)
	})

	t.Run("should report an unknown id without error", func(t *testing.T) {
		f := setup(t)

		label := "anything"
		_, found, err := f.service.Update(ctx, "missing", UpdateInput{Label: &label})

		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestServiceImpl_Remove(t *testing.T) {
	t.Run("should remove the reminder and publish the removal", func(t *testing.T) {
		f := setup(t)
		created, err := f.service.Add(ctx, AddInput{
			SourceType:  snapshot.SourceSalary,
			Label:       "Salary",
			Frequency:   snapshot.FrequencyMonthly,
			NextTrigger: "2025-06-05",
		})
		require.NoError(t, err)

		removed := f.service.Remove(ctx, created.ID)

		assert.True(t, removed)
		assert.Empty(t, f.service.List(ctx))
		assert.Equal(t, 1, *f.removed)
	})

	t.Run("should be a silent no-op for an unknown id", func(t *testing.T) {
		f := setup(t)

		removed := f.service.Remove(ctx, "missing")

		assert.False(t, removed)
		assert.Equal(t, 0, *f.removed)
	})
}

func TestServiceImpl_List(t *testing.T) {
	t.Run("should order reminders by soonest trigger first", func(t *testing.T) {
		f := setup(t)
		_, err := f.service.Add(ctx, AddInput{
			SourceType: snapshot.SourceSalary, Label: "Later",
			Frequency: snapshot.FrequencyMonthly, NextTrigger: "2025-07-20",
		})
		require.NoError(t, err)
		_, err = f.service.Add(ctx, AddInput{
			SourceType: snapshot.SourcePension, Label: "Sooner",
			Frequency: snapshot.FrequencyMonthly, NextTrigger: "2025-06-15",
		})
		require.NoError(t, err)

		reminders := f.service.List(ctx)

		require.Len(t, reminders, 2)
		assert.Equal(t, "Sooner", reminders[0].Label)
		assert.Equal(t, "Later", reminders[1].Label)
	})
}
