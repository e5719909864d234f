package reminder

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/manatly/manat/internal/event_bus"
	"github.com/manatly/manat/internal/utils"
	"github.com/manatly/manat/pkg/profile"
	"github.com/manatly/manat/pkg/snapshot"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var (
	ErrEmptyLabel        = errors.New("label must not be empty")
	ErrInvalidFrequency  = errors.New("invalid frequency")
	ErrInvalidSourceType = errors.New("invalid source type")
	ErrInvalidWindow     = errors.New("window start day must not be after window end day")
	ErrInvalidRemindTime = errors.New("remind time out of range")
	ErrInvalidAmount     = errors.New("default amount must be a positive number")
	ErrInvalidWeekday    = errors.New("weekday out of range")
)

type AddInput struct {
	SourceType       snapshot.IncomeSourceType
	Label            string
	Frequency        snapshot.IncomeFrequency
	DayOfMonth       int
	Weekday          *int
	NextTrigger      string
	AutoAddOnConfirm bool
	WindowStartDay   int
	WindowEndDay     int
	AutoRenew        bool
	DefaultAmount    float64
	RemindHour       *int
	RemindMinute     *int
	Notes            string
}

// UpdateInput is a partial update; nil fields keep the current value.
type UpdateInput struct {
	Label          *string
	NextTrigger    *string
	DayOfMonth     *int
	Weekday        *int
	WindowStartDay *int
	WindowEndDay   *int
	AutoRenew      *bool
	DefaultAmount  *float64
	RemindHour     *int
	RemindMinute   *int
	Notes          *string
}

// Service owns the lifecycle of recurring income reminders. Operations on a
// nonexistent id are silent no-ops: the boolean result reports whether the
// reminder was found, never an error.
type Service interface {
	List(ctx context.Context) []snapshot.IncomeReminder
	Pending(ctx context.Context) []snapshot.IncomeReminder
	Add(ctx context.Context, input AddInput) (snapshot.IncomeReminder, error)
	Update(ctx context.Context, id string, input UpdateInput) (snapshot.IncomeReminder, bool, error)
	Confirm(ctx context.Context, id string, amount float64, receivedAt *time.Time) (snapshot.IncomeReminder, bool)
	Skip(ctx context.Context, id string, nextTriggerOverride string) (snapshot.IncomeReminder, bool)
	Remove(ctx context.Context, id string) bool
}

type ServiceImpl struct {
	store *profile.StateStore
	bus   *event_bus.EventBus
	clock utils.Clock
}

func NewService(store *profile.StateStore, bus *event_bus.EventBus, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{store: store, bus: bus, clock: clock}
}

// List returns all reminders ordered by next trigger, soonest first.
func (s *ServiceImpl) List(ctx context.Context) []snapshot.IncomeReminder {
	var reminders []snapshot.IncomeReminder
	s.store.View(ctx, func(snap snapshot.Snapshot) {
		reminders = snap.IncomeReminders
	})
	sort.SliceStable(reminders, func(i, j int) bool {
		return reminders[i].NextTrigger < reminders[j].NextTrigger
	})
	return reminders
}

// Pending runs the auto-detection sweep for the current date.
func (s *ServiceImpl) Pending(ctx context.Context) []snapshot.IncomeReminder {
	var pending []snapshot.IncomeReminder
	s.store.View(ctx, func(snap snapshot.Snapshot) {
		pending = PendingAutoReminders(snap.IncomeReminders, snap.Incomes, s.clock.Now())
	})
	return pending
}

func (s *ServiceImpl) Add(ctx context.Context, input AddInput) (snapshot.IncomeReminder, error) {
	if input.Label == "" {
		return snapshot.IncomeReminder{}, ErrEmptyLabel
	}
	switch input.SourceType {
	case snapshot.SourceSalary, snapshot.SourcePension, snapshot.SourceFreelance, snapshot.SourceOther:
	default:
		return snapshot.IncomeReminder{}, fmt.Errorf("%w: %q", ErrInvalidSourceType, input.SourceType)
	}
	switch input.Frequency {
	case snapshot.FrequencyMonthly, snapshot.FrequencyWeekly, snapshot.FrequencyIrregular:
	default:
		return snapshot.IncomeReminder{}, fmt.Errorf("%w: %q", ErrInvalidFrequency, input.Frequency)
	}
	if input.WindowStartDay != 0 && input.WindowEndDay != 0 && input.WindowStartDay > input.WindowEndDay {
		return snapshot.IncomeReminder{}, ErrInvalidWindow
	}
	if input.DefaultAmount < 0 {
		return snapshot.IncomeReminder{}, ErrInvalidAmount
	}
	if input.Weekday != nil && (*input.Weekday < 0 || *input.Weekday > 6) {
		return snapshot.IncomeReminder{}, ErrInvalidWeekday
	}

	remindHour := 9
	if input.RemindHour != nil {
		remindHour = *input.RemindHour
	}
	remindMinute := 0
	if input.RemindMinute != nil {
		remindMinute = *input.RemindMinute
	}
	if remindHour < 0 || remindHour > 23 || remindMinute < 0 || remindMinute > 59 {
		return snapshot.IncomeReminder{}, ErrInvalidRemindTime
	}

	now := s.clock.Now()
	trigger := NormalizeTriggerDate(input.NextTrigger, now)
	base := ParseTriggerDate(trigger, now)

	created := snapshot.IncomeReminder{
		ID:               "income-reminder-" + uuid.NewString(),
		SourceType:       input.SourceType,
		Label:            input.Label,
		Frequency:        input.Frequency,
		NextTrigger:      trigger,
		AutoAddOnConfirm: input.AutoAddOnConfirm,
		WindowStartDay:   input.WindowStartDay,
		WindowEndDay:     input.WindowEndDay,
		AutoRenew:        input.AutoRenew,
		RemindHour:       remindHour,
		RemindMinute:     remindMinute,
		Notes:            input.Notes,
	}
	if input.DefaultAmount > 0 {
		created.DefaultAmount = utils.Round2(input.DefaultAmount)
	}

	switch input.Frequency {
	case snapshot.FrequencyMonthly:
		day := input.DayOfMonth
		if day == 0 {
			day = base.Day()
		}
		created.DayOfMonth = ClampDayOfMonth(day)
	case snapshot.FrequencyWeekly:
		if input.Weekday != nil {
			created.Weekday = input.Weekday
		} else {
			weekday := int(base.Weekday())
			created.Weekday = &weekday
		}
	}

	var currency snapshot.CurrencyCode
	err := s.store.Update(ctx, func(snap *snapshot.Snapshot) error {
		snap.IncomeReminders = append(snap.IncomeReminders, created)
		currency = snap.Currency
		return nil
	})
	if err != nil {
		return snapshot.IncomeReminder{}, err
	}

	s.publishUpserted(ctx, created, currency)
	return created, nil
}

func (s *ServiceImpl) Update(ctx context.Context, id string, input UpdateInput) (snapshot.IncomeReminder, bool, error) {
	if input.Weekday != nil && (*input.Weekday < 0 || *input.Weekday > 6) {
		return snapshot.IncomeReminder{}, false, ErrInvalidWeekday
	}
	if input.RemindHour != nil && (*input.RemindHour < 0 || *input.RemindHour > 23) {
		return snapshot.IncomeReminder{}, false, ErrInvalidRemindTime
	}
	if input.RemindMinute != nil && (*input.RemindMinute < 0 || *input.RemindMinute > 59) {
		return snapshot.IncomeReminder{}, false, ErrInvalidRemindTime
	}

	var updated snapshot.IncomeReminder
	var currency snapshot.CurrencyCode
	found := false
	err := s.store.Update(ctx, func(snap *snapshot.Snapshot) error {
		rem := snap.FindReminder(id)
		if rem == nil {
			log.Debugf("reminder %q not found, nothing to update", id)
			return nil
		}

		// The window must stay ordered after merging the incoming bounds
		// with the stored ones, or the reminder would never surface in the
		// pending sweep.
		windowStart, windowEnd := rem.WindowStartDay, rem.WindowEndDay
		if input.WindowStartDay != nil {
			windowStart = *input.WindowStartDay
		}
		if input.WindowEndDay != nil {
			windowEnd = *input.WindowEndDay
		}
		if windowStart != 0 && windowEnd != 0 && windowStart > windowEnd {
			return ErrInvalidWindow
		}

		if input.Label != nil {
			rem.Label = *input.Label
		}
		if input.NextTrigger != nil {
			rem.NextTrigger = NormalizeTriggerDate(*input.NextTrigger, s.clock.Now())
		}
		if input.DayOfMonth != nil {
			rem.DayOfMonth = ClampDayOfMonth(*input.DayOfMonth)
		}
		if input.Weekday != nil {
			weekday := *input.Weekday
			rem.Weekday = &weekday
		}
		rem.WindowStartDay = windowStart
		rem.WindowEndDay = windowEnd
		if input.AutoRenew != nil {
			rem.AutoRenew = *input.AutoRenew
		}
		if input.DefaultAmount != nil {
			rem.DefaultAmount = utils.Round2(math.Abs(*input.DefaultAmount))
		}
		if input.RemindHour != nil {
			rem.RemindHour = *input.RemindHour
		}
		if input.RemindMinute != nil {
			rem.RemindMinute = *input.RemindMinute
		}
		if input.Notes != nil {
			rem.Notes = *input.Notes
		}
		updated = *rem
		currency = snap.Currency
		found = true
		return nil
	})
	if err != nil {
		return snapshot.IncomeReminder{}, false, err
	}
	if found {
		s.publishUpserted(ctx, updated, currency)
	}
	return updated, found, nil
}

// Confirm records the received income against the reminder and advances it
// to its next cycle. The amount is coerced to its absolute value and
// rounded; the receipt defaults to the reminder's current trigger date.
func (s *ServiceImpl) Confirm(ctx context.Context, id string, amount float64, receivedAt *time.Time) (snapshot.IncomeReminder, bool) {
	var updated snapshot.IncomeReminder
	var currency snapshot.CurrencyCode
	found := false
	err := s.store.Update(ctx, func(snap *snapshot.Snapshot) error {
		rem := snap.FindReminder(id)
		if rem == nil {
			log.Debugf("reminder %q not found, nothing to confirm", id)
			return nil
		}

		normalized := utils.Round2(math.Abs(amount))
		base := ParseTriggerDate(rem.NextTrigger, s.clock.Now())
		receipt := base
		if receivedAt != nil {
			receipt = *receivedAt
		}

		income := snapshot.Income{
			ID:         "income-" + uuid.NewString(),
			Source:     rem.Label,
			Amount:     normalized,
			ReceivedAt: receipt,
			ReminderID: rem.ID,
		}
		snap.Incomes = append([]snapshot.Income{income}, snap.Incomes...)

		rem.LastTriggeredAt = rem.NextTrigger
		rem.LastReceivedAt = &receipt
		rem.DefaultAmount = normalized
		rem.NextTrigger = NextTriggerDate(*rem, base)

		updated = *rem
		currency = snap.Currency
		found = true
		return nil
	})
	if err != nil {
		log.Errorf("failed to confirm reminder %q: %v", id, err)
		return snapshot.IncomeReminder{}, false
	}
	if found {
		s.publishUpserted(ctx, updated, currency)
	}
	return updated, found
}

// Skip advances the reminder to its next cycle without recording an income.
func (s *ServiceImpl) Skip(ctx context.Context, id string, nextTriggerOverride string) (snapshot.IncomeReminder, bool) {
	var updated snapshot.IncomeReminder
	var currency snapshot.CurrencyCode
	found := false
	err := s.store.Update(ctx, func(snap *snapshot.Snapshot) error {
		rem := snap.FindReminder(id)
		if rem == nil {
			log.Debugf("reminder %q not found, nothing to skip", id)
			return nil
		}

		prior := rem.NextTrigger
		if nextTriggerOverride != "" {
			rem.NextTrigger = NormalizeTriggerDate(nextTriggerOverride, s.clock.Now())
		} else {
			base := ParseTriggerDate(prior, s.clock.Now())
			rem.NextTrigger = NextTriggerDate(*rem, base)
		}
		rem.LastTriggeredAt = prior

		updated = *rem
		currency = snap.Currency
		found = true
		return nil
	})
	if err != nil {
		log.Errorf("failed to skip reminder %q: %v", id, err)
		return snapshot.IncomeReminder{}, false
	}
	if found {
		s.publishUpserted(ctx, updated, currency)
	}
	return updated, found
}

// Remove deletes the reminder and cancels its alert. Incomes referencing it
// keep their back-reference as historical record.
func (s *ServiceImpl) Remove(ctx context.Context, id string) bool {
	found := false
	err := s.store.Update(ctx, func(snap *snapshot.Snapshot) error {
		kept := snap.IncomeReminders[:0]
		for _, rem := range snap.IncomeReminders {
			if rem.ID == id {
				found = true
				continue
			}
			kept = append(kept, rem)
		}
		if !found {
			log.Debugf("reminder %q not found, nothing to remove", id)
		}
		snap.IncomeReminders = kept
		return nil
	})
	if err != nil {
		log.Errorf("failed to remove reminder %q: %v", id, err)
		return false
	}
	if found {
		s.bus.Publish(event_bus.NewEvent(ctx, event_bus.ReminderRemovedEvent, event_bus.ReminderRemoved{
			ProfileID:  profile.CurrentId(ctx),
			ReminderID: id,
		}))
	}
	return found
}

func (s *ServiceImpl) publishUpserted(ctx context.Context, rem snapshot.IncomeReminder, currency snapshot.CurrencyCode) {
	s.bus.Publish(event_bus.NewEvent(ctx, event_bus.ReminderUpsertedEvent, event_bus.ReminderUpserted{
		ProfileID: profile.CurrentId(ctx),
		Reminder:  rem,
		Currency:  currency,
	}))
}
