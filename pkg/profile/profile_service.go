package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/manatly/manat/internal/utils"
	"github.com/manatly/manat/pkg/snapshot"
	log "github.com/sirupsen/logrus"
)

var (
	ErrInvalidUserType = errors.New("invalid user type")
	ErrInvalidBudget   = errors.New("budget must be a positive amount")
	ErrInvalidCurrency = errors.New("invalid currency code")
	ErrInvalidTheme    = errors.New("invalid theme")
	ErrInvalidLanguage = errors.New("invalid language code")
	ErrInvalidPref     = errors.New("invalid student income preference")
)

type Totals struct {
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Balance  float64 `json:"balance"`
}

// Overview is the full read model of one profile: the snapshot plus the
// totals derived from it.
type Overview struct {
	Snapshot snapshot.Snapshot
	Totals   Totals
}

type DetailsUpdate struct {
	FirstName *string
	LastName  *string
	BirthDate *string
}

// ExportDocument is the shareable serialization of the whole profile. It is
// meant for backup, not for re-import.
type ExportDocument struct {
	ExportedAt              time.Time                        `json:"exportedAt"`
	UserType                snapshot.UserType                `json:"userType,omitempty"`
	Profile                 snapshot.ProfileDetails          `json:"profile"`
	Language                snapshot.LanguageCode            `json:"language,omitempty"`
	LanguageSelected        bool                             `json:"languageSelected"`
	StudentIncomePreference snapshot.StudentIncomePreference `json:"studentIncomePreference,omitempty"`
	Budget                  float64                          `json:"budget,omitempty"`
	Currency                snapshot.CurrencyCode            `json:"currency"`
	Theme                   snapshot.ThemeMode               `json:"theme"`
	Categories              []snapshot.Category              `json:"categories"`
	CustomCategories        []snapshot.Category              `json:"customCategories"`
	Incomes                 []snapshot.Income                `json:"incomes"`
	IncomeReminders         []snapshot.IncomeReminder        `json:"incomeReminders"`
	Expenses                []snapshot.Expense               `json:"expenses"`
	Totals                  Totals                           `json:"totals"`
}

type Service interface {
	Get(ctx context.Context) Overview
	SetUserType(ctx context.Context, userType snapshot.UserType) error
	UpdateDetails(ctx context.Context, update DetailsUpdate) (snapshot.ProfileDetails, error)
	SetBudget(ctx context.Context, amount float64) error
	SetCurrency(ctx context.Context, currency snapshot.CurrencyCode) error
	SetTheme(ctx context.Context, theme snapshot.ThemeMode) error
	SetLanguage(ctx context.Context, language snapshot.LanguageCode) error
	SetStudentIncomePreference(ctx context.Context, pref snapshot.StudentIncomePreference) error
	ToggleNotifications(ctx context.Context, enabled bool) error
	Reset(ctx context.Context)
	Export(ctx context.Context) ([]byte, error)
}

type ServiceImpl struct {
	store *StateStore
	clock utils.Clock
}

func NewService(store *StateStore, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{store: store, clock: clock}
}

func (s *ServiceImpl) Get(ctx context.Context) Overview {
	var overview Overview
	s.store.View(ctx, func(snap snapshot.Snapshot) {
		overview = Overview{
			Snapshot: snap,
			Totals: Totals{
				Income:   snap.TotalIncome(),
				Expenses: snap.TotalExpenses(),
				Balance:  snap.Balance(),
			},
		}
	})
	return overview
}

// SetUserType switches the profile archetype. Categories, budget, expenses
// and the student income preference are cleared because they are scoped to
// the archetype; incomes and reminders survive the switch.
func (s *ServiceImpl) SetUserType(ctx context.Context, userType snapshot.UserType) error {
	switch userType {
	case snapshot.UserTypeStudent, snapshot.UserTypeWorker, snapshot.UserTypeParent:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidUserType, userType)
	}
	return s.store.Update(ctx, func(snap *snapshot.Snapshot) error {
		snap.UserType = userType
		snap.SelectedCategories = []snapshot.Category{}
		snap.CustomCategories = []snapshot.Category{}
		snap.Budget = 0
		snap.Expenses = []snapshot.Expense{}
		snap.StudentIncomePreference = ""
		return nil
	})
}

func (s *ServiceImpl) UpdateDetails(ctx context.Context, update DetailsUpdate) (snapshot.ProfileDetails, error) {
	var details snapshot.ProfileDetails
	err := s.store.Update(ctx, func(snap *snapshot.Snapshot) error {
		if update.FirstName != nil {
			snap.Profile.FirstName = *update.FirstName
		}
		if update.LastName != nil {
			snap.Profile.LastName = *update.LastName
		}
		if update.BirthDate != nil {
			snap.Profile.BirthDate = *update.BirthDate
		}
		details = snap.Profile
		return nil
	})
	return details, err
}

func (s *ServiceImpl) SetBudget(ctx context.Context, amount float64) error {
	if amount <= 0 {
		return ErrInvalidBudget
	}
	return s.store.Update(ctx, func(snap *snapshot.Snapshot) error {
		snap.Budget = utils.Round2(amount)
		return nil
	})
}

func (s *ServiceImpl) SetCurrency(ctx context.Context, currency snapshot.CurrencyCode) error {
	switch currency {
	case snapshot.CurrencyAZN, snapshot.CurrencyUSD, snapshot.CurrencyEUR:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidCurrency, currency)
	}
	return s.store.Update(ctx, func(snap *snapshot.Snapshot) error {
		snap.Currency = currency
		return nil
	})
}

func (s *ServiceImpl) SetTheme(ctx context.Context, theme snapshot.ThemeMode) error {
	switch theme {
	case snapshot.ThemeLight, snapshot.ThemeDark:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidTheme, theme)
	}
	return s.store.Update(ctx, func(snap *snapshot.Snapshot) error {
		snap.Theme = theme
		return nil
	})
}

func (s *ServiceImpl) SetLanguage(ctx context.Context, language snapshot.LanguageCode) error {
	switch language {
	case snapshot.LanguageAZ, snapshot.LanguageRU, snapshot.LanguageEN:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLanguage, language)
	}
	return s.store.Update(ctx, func(snap *snapshot.Snapshot) error {
		snap.Language = language
		snap.LanguageSelected = true
		return nil
	})
}

// SetStudentIncomePreference accepts an empty preference to clear it.
func (s *ServiceImpl) SetStudentIncomePreference(ctx context.Context, pref snapshot.StudentIncomePreference) error {
	switch pref {
	case "", snapshot.IncomePrefWorking, snapshot.IncomePrefStipend, snapshot.IncomePrefMixed:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPref, pref)
	}
	return s.store.Update(ctx, func(snap *snapshot.Snapshot) error {
		snap.StudentIncomePreference = pref
		return nil
	})
}

func (s *ServiceImpl) ToggleNotifications(ctx context.Context, enabled bool) error {
	return s.store.Update(ctx, func(snap *snapshot.Snapshot) error {
		snap.NotificationsEnabled = enabled
		return nil
	})
}

func (s *ServiceImpl) Reset(ctx context.Context) {
	log.Infof("resetting profile %q", CurrentId(ctx))
	s.store.Reset(ctx)
}

func (s *ServiceImpl) Export(ctx context.Context) ([]byte, error) {
	var doc ExportDocument
	s.store.View(ctx, func(snap snapshot.Snapshot) {
		doc = ExportDocument{
			ExportedAt:              s.clock.Now(),
			UserType:                snap.UserType,
			Profile:                 snap.Profile,
			Language:                snap.Language,
			LanguageSelected:        snap.LanguageSelected,
			StudentIncomePreference: snap.StudentIncomePreference,
			Budget:                  snap.Budget,
			Currency:                snap.Currency,
			Theme:                   snap.Theme,
			Categories:              snap.SelectedCategories,
			CustomCategories:        snap.CustomCategories,
			Incomes:                 snap.Incomes,
			IncomeReminders:         snap.IncomeReminders,
			Expenses:                snap.Expenses,
			Totals: Totals{
				Income:   snap.TotalIncome(),
				Expenses: snap.TotalExpenses(),
				Balance:  snap.Balance(),
			},
		}
	})
	return json.MarshalIndent(doc, "", "  ")
}
