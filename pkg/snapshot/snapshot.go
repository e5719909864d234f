package snapshot

import (
	"time"

	"github.com/shopspring/decimal"
)

// StorageKey is the fixed key the whole snapshot is persisted under.
// Bumping the suffix invalidates previously stored records.
const StorageKey = "manat/profile-state-v1"

type UserType string

const (
	UserTypeStudent UserType = "student"
	UserTypeWorker  UserType = "worker"
	UserTypeParent  UserType = "parent"
)

type CategoryGroup string

const (
	GroupDaily   CategoryGroup = "daily"
	GroupMonthly CategoryGroup = "monthly"
)

type CurrencyCode string

const (
	CurrencyAZN CurrencyCode = "AZN"
	CurrencyUSD CurrencyCode = "USD"
	CurrencyEUR CurrencyCode = "EUR"
)

type ThemeMode string

const (
	ThemeLight ThemeMode = "light"
	ThemeDark  ThemeMode = "dark"
)

type LanguageCode string

const (
	LanguageAZ LanguageCode = "az"
	LanguageRU LanguageCode = "ru"
	LanguageEN LanguageCode = "en"
)

type StudentIncomePreference string

const (
	IncomePrefWorking StudentIncomePreference = "working"
	IncomePrefStipend StudentIncomePreference = "stipend"
	IncomePrefMixed   StudentIncomePreference = "mixed"
)

type IncomeSourceType string

const (
	SourceSalary    IncomeSourceType = "salary"
	SourcePension   IncomeSourceType = "pension"
	SourceFreelance IncomeSourceType = "freelance"
	SourceOther     IncomeSourceType = "other"
)

type IncomeFrequency string

const (
	FrequencyMonthly   IncomeFrequency = "monthly"
	FrequencyWeekly    IncomeFrequency = "weekly"
	FrequencyIrregular IncomeFrequency = "irregular"
)

type Category struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Group       CategoryGroup `json:"group"`
	IsCustom    bool          `json:"isCustom,omitempty"`
}

// Expense is immutable once created; it is deleted only via a full reset.
type Expense struct {
	ID         string    `json:"id"`
	CategoryID string    `json:"categoryId"`
	Title      string    `json:"title"`
	Amount     float64   `json:"amount"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Income optionally back-references the reminder that produced it. The
// reference is a plain identifier: removing the reminder does not cascade.
type Income struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"`
	Amount     float64   `json:"amount"`
	ReceivedAt time.Time `json:"receivedAt"`
	ReminderID string    `json:"reminderId,omitempty"`
}

type ProfileDetails struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	BirthDate string `json:"birthDate,omitempty"`
}

// IncomeReminder describes one recurring income event. NextTrigger and
// LastTriggeredAt are canonical calendar dates (YYYY-MM-DD); LastReceivedAt
// is a full timestamp of the last confirmed receipt.
type IncomeReminder struct {
	ID               string           `json:"id"`
	SourceType       IncomeSourceType `json:"sourceType"`
	Label            string           `json:"label"`
	Frequency        IncomeFrequency  `json:"frequency"`
	DayOfMonth       int              `json:"dayOfMonth,omitempty"`
	Weekday          *int             `json:"weekday,omitempty"`
	NextTrigger      string           `json:"nextTrigger"`
	AutoAddOnConfirm bool             `json:"autoAddOnConfirm"`
	WindowStartDay   int              `json:"windowStartDay,omitempty"`
	WindowEndDay     int              `json:"windowEndDay,omitempty"`
	AutoRenew        bool             `json:"autoRenew,omitempty"`
	DefaultAmount    float64          `json:"defaultAmount,omitempty"`
	RemindHour       int              `json:"remindHour"`
	RemindMinute     int              `json:"remindMinute"`
	LastTriggeredAt  string           `json:"lastTriggeredAt,omitempty"`
	LastReceivedAt   *time.Time       `json:"lastReceivedAt,omitempty"`
	Notes            string           `json:"notes,omitempty"`
}

// Snapshot is the single persisted aggregate of all application state for
// one profile. It is read whole at startup and overwritten whole on every
// mutation.
type Snapshot struct {
	UserType                UserType                `json:"userType,omitempty"`
	SelectedCategories      []Category              `json:"selectedCategories"`
	CustomCategories        []Category              `json:"customCategories"`
	Budget                  float64                 `json:"budget,omitempty"`
	Expenses                []Expense               `json:"expenses"`
	Profile                 ProfileDetails          `json:"profile"`
	Incomes                 []Income                `json:"incomes"`
	IncomeReminders         []IncomeReminder        `json:"incomeReminders"`
	Currency                CurrencyCode            `json:"currency"`
	Theme                   ThemeMode               `json:"theme"`
	NotificationsEnabled    bool                    `json:"notificationsEnabled"`
	Language                LanguageCode            `json:"language,omitempty"`
	LanguageSelected        bool                    `json:"languageSelected"`
	StudentIncomePreference StudentIncomePreference `json:"studentIncomePreference,omitempty"`
}

// New returns a snapshot in its initial default state.
func New() Snapshot {
	return Snapshot{
		SelectedCategories: []Category{},
		CustomCategories:   []Category{},
		Expenses:           []Expense{},
		Incomes:            []Income{},
		IncomeReminders:    []IncomeReminder{},
		Currency:           CurrencyAZN,
		Theme:              ThemeLight,
		Language:           LanguageAZ,
	}
}

// Clone returns a deep copy. Copies handed to asynchronous subscribers must
// not alias the live state.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.SelectedCategories = append([]Category(nil), s.SelectedCategories...)
	out.CustomCategories = append([]Category(nil), s.CustomCategories...)
	out.Expenses = append([]Expense(nil), s.Expenses...)
	out.Incomes = append([]Income(nil), s.Incomes...)
	out.IncomeReminders = append([]IncomeReminder(nil), s.IncomeReminders...)
	for i, r := range out.IncomeReminders {
		if r.Weekday != nil {
			wd := *r.Weekday
			out.IncomeReminders[i].Weekday = &wd
		}
		if r.LastReceivedAt != nil {
			ts := *r.LastReceivedAt
			out.IncomeReminders[i].LastReceivedAt = &ts
		}
	}
	return out
}

// TotalExpenses is the sum of all expense amounts, rounded to 2 decimals.
func (s Snapshot) TotalExpenses() float64 {
	total := decimal.Zero
	for _, e := range s.Expenses {
		total = total.Add(decimal.NewFromFloat(e.Amount))
	}
	result, _ := total.Round(2).Float64()
	return result
}

// TotalIncome is the sum of all income amounts, rounded to 2 decimals.
func (s Snapshot) TotalIncome() float64 {
	total := decimal.Zero
	for _, i := range s.Incomes {
		total = total.Add(decimal.NewFromFloat(i.Amount))
	}
	result, _ := total.Round(2).Float64()
	return result
}

// Balance is total income minus total expenses, rounded to 2 decimals.
func (s Snapshot) Balance() float64 {
	income := decimal.NewFromFloat(s.TotalIncome())
	expenses := decimal.NewFromFloat(s.TotalExpenses())
	result, _ := income.Sub(expenses).Round(2).Float64()
	return result
}

// FindReminder returns a pointer into IncomeReminders, or nil when absent.
func (s *Snapshot) FindReminder(id string) *IncomeReminder {
	for i := range s.IncomeReminders {
		if s.IncomeReminders[i].ID == id {
			return &s.IncomeReminders[i]
		}
	}
	return nil
}
