package reminder

import (
	"time"

	"github.com/manatly/manat/pkg/snapshot"
)

// DateLayout is the canonical calendar-date format used for triggers.
const DateLayout = "2006-01-02"

// IrregularRepromptDays is the fixed horizon after which an irregular
// income is re-surfaced. Irregular income has no natural cycle, so the
// engine simply asks again after a month.
const IrregularRepromptDays = 30

// MaxDayOfMonth keeps monthly target days valid in every month.
const MaxDayOfMonth = 28

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampDayOfMonth clamps a monthly target day to [1, MaxDayOfMonth].
func ClampDayOfMonth(day int) int {
	if day < 1 {
		return 1
	}
	if day > MaxDayOfMonth {
		return MaxDayOfMonth
	}
	return day
}

// ParseTriggerDate parses a canonical trigger date at local midnight.
// Missing or malformed input resolves to today rather than an invalid date.
func ParseTriggerDate(value string, today time.Time) time.Time {
	if value == "" {
		return startOfDay(today)
	}
	parsed, err := time.ParseInLocation(DateLayout, value, today.Location())
	if err != nil {
		return startOfDay(today)
	}
	return parsed
}

// NormalizeTriggerDate turns arbitrary input into a canonical trigger date,
// falling back to today on malformed input.
func NormalizeTriggerDate(value string, today time.Time) string {
	return ParseTriggerDate(value, today).Format(DateLayout)
}

// NextTriggerDate computes the next expected occurrence strictly after the
// base date.
//
// Monthly reminders advance exactly one calendar month, with the target day
// clamped to the number of days actually present in the target month, so a
// day-31 target lands on Feb 28 instead of rolling into March. Weekly
// reminders advance to the next matching weekday, a full 7 days when the
// base already matches. Irregular reminders advance by the fixed re-prompt
// horizon.
func NextTriggerDate(r snapshot.IncomeReminder, from time.Time) string {
	base := startOfDay(from)

	switch r.Frequency {
	case snapshot.FrequencyMonthly:
		desired := r.DayOfMonth
		if desired == 0 {
			desired = ClampDayOfMonth(base.Day())
		}
		target := time.Date(base.Year(), base.Month(), 1, 0, 0, 0, 0, base.Location()).AddDate(0, 1, 0)
		limit := daysIn(target.Year(), target.Month())
		day := desired
		if day > limit {
			day = limit
		}
		return time.Date(target.Year(), target.Month(), day, 0, 0, 0, 0, base.Location()).Format(DateLayout)

	case snapshot.FrequencyWeekly:
		target := base.Weekday()
		if r.Weekday != nil {
			target = time.Weekday(*r.Weekday)
		}
		diff := (int(target) - int(base.Weekday()) + 7) % 7
		if diff == 0 {
			diff = 7
		}
		return base.AddDate(0, 0, diff).Format(DateLayout)

	default:
		return base.AddDate(0, 0, IrregularRepromptDays).Format(DateLayout)
	}
}

// PendingAutoReminders returns the reminders that are due for user action
// on the given date. Only auto-renewing reminders are swept, and a reminder
// already confirmed this calendar month (an income carrying its id) is
// never surfaced twice. Monthly reminders are pending while today falls in
// their reminder window; irregular ones only on the exact trigger date.
// Weekly reminders rely on explicit notification and are not swept.
func PendingAutoReminders(reminders []snapshot.IncomeReminder, incomes []snapshot.Income, now time.Time) []snapshot.IncomeReminder {
	year, month, day := now.Date()

	pending := make([]snapshot.IncomeReminder, 0)
	for _, r := range reminders {
		if !r.AutoRenew {
			continue
		}

		alreadyLogged := false
		for _, income := range incomes {
			if income.ReminderID != r.ID {
				continue
			}
			receivedYear, receivedMonth, _ := income.ReceivedAt.Date()
			if receivedYear == year && receivedMonth == month {
				alreadyLogged = true
				break
			}
		}
		if alreadyLogged {
			continue
		}

		switch r.Frequency {
		case snapshot.FrequencyMonthly:
			start := r.WindowStartDay
			if start == 0 {
				start = dayOrDefault(r.DayOfMonth) - 2
				if start < 1 {
					start = 1
				}
			}
			end := r.WindowEndDay
			if end == 0 {
				end = dayOrDefault(r.DayOfMonth)
			}
			if day >= start && day <= end {
				pending = append(pending, r)
			}
		case snapshot.FrequencyIrregular:
			target := ParseTriggerDate(r.NextTrigger, now)
			targetYear, targetMonth, targetDay := target.Date()
			if targetYear == year && targetMonth == month && targetDay == day {
				pending = append(pending, r)
			}
		}
	}
	return pending
}

func dayOrDefault(day int) int {
	if day == 0 {
		return MaxDayOfMonth
	}
	return day
}
