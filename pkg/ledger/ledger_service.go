package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/manatly/manat/internal/utils"
	"github.com/manatly/manat/pkg/profile"
	"github.com/manatly/manat/pkg/snapshot"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var (
	ErrInvalidAmount = errors.New("amount must be a positive number")
	ErrEmptyTitle    = errors.New("title must not be empty")
	ErrEmptySource   = errors.New("source must not be empty")
)

type ExpenseInput struct {
	CategoryID string
	Title      string
	Amount     float64
	CreatedAt  *time.Time
}

type IncomeInput struct {
	Source     string
	Amount     float64
	ReceivedAt *time.Time
	ReminderID string
}

type Service interface {
	Expenses(ctx context.Context) []snapshot.Expense
	AddExpense(ctx context.Context, input ExpenseInput) (snapshot.Expense, error)
	Incomes(ctx context.Context) []snapshot.Income
	AddIncome(ctx context.Context, input IncomeInput) (snapshot.Income, error)
	RemoveIncome(ctx context.Context, id string) error
	Totals(ctx context.Context) profile.Totals
}

// ServiceImpl is the mutation boundary of the ledger: amounts are validated
// for positivity here, the underlying collections only record what they are
// given.
type ServiceImpl struct {
	store *profile.StateStore
	clock utils.Clock
}

func NewService(store *profile.StateStore, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{store: store, clock: clock}
}

func (s *ServiceImpl) Expenses(ctx context.Context) []snapshot.Expense {
	var expenses []snapshot.Expense
	s.store.View(ctx, func(snap snapshot.Snapshot) {
		expenses = snap.Expenses
	})
	return expenses
}

func (s *ServiceImpl) AddExpense(ctx context.Context, input ExpenseInput) (snapshot.Expense, error) {
	if input.Amount <= 0 {
		return snapshot.Expense{}, ErrInvalidAmount
	}
	if input.Title == "" {
		return snapshot.Expense{}, ErrEmptyTitle
	}

	createdAt := s.clock.Now()
	if input.CreatedAt != nil {
		createdAt = *input.CreatedAt
	}
	expense := snapshot.Expense{
		ID:         "expense-" + uuid.NewString(),
		CategoryID: input.CategoryID,
		Title:      input.Title,
		Amount:     utils.Round2(input.Amount),
		CreatedAt:  createdAt,
	}

	err := s.store.Update(ctx, func(snap *snapshot.Snapshot) error {
		snap.Expenses = append(snap.Expenses, expense)
		return nil
	})
	if err != nil {
		return snapshot.Expense{}, err
	}
	return expense, nil
}

func (s *ServiceImpl) Incomes(ctx context.Context) []snapshot.Income {
	var incomes []snapshot.Income
	s.store.View(ctx, func(snap snapshot.Snapshot) {
		incomes = snap.Incomes
	})
	return incomes
}

func (s *ServiceImpl) AddIncome(ctx context.Context, input IncomeInput) (snapshot.Income, error) {
	if input.Amount <= 0 {
		return snapshot.Income{}, ErrInvalidAmount
	}
	if input.Source == "" {
		return snapshot.Income{}, ErrEmptySource
	}

	receivedAt := s.clock.Now()
	if input.ReceivedAt != nil {
		receivedAt = *input.ReceivedAt
	}
	income := snapshot.Income{
		ID:         "income-" + uuid.NewString(),
		Source:     input.Source,
		Amount:     utils.Round2(input.Amount),
		ReceivedAt: receivedAt,
		ReminderID: input.ReminderID,
	}

	err := s.store.Update(ctx, func(snap *snapshot.Snapshot) error {
		// Most recent first.
		snap.Incomes = append([]snapshot.Income{income}, snap.Incomes...)
		return nil
	})
	if err != nil {
		return snapshot.Income{}, err
	}
	return income, nil
}

// RemoveIncome is a no-op when the id does not resolve to an entry.
func (s *ServiceImpl) RemoveIncome(ctx context.Context, id string) error {
	return s.store.Update(ctx, func(snap *snapshot.Snapshot) error {
		filtered := snap.Incomes[:0]
		found := false
		for _, income := range snap.Incomes {
			if income.ID == id {
				found = true
				continue
			}
			filtered = append(filtered, income)
		}
		if !found {
			log.Debugf("income %q not found, nothing to remove", id)
		}
		snap.Incomes = filtered
		return nil
	})
}

func (s *ServiceImpl) Totals(ctx context.Context) profile.Totals {
	var totals profile.Totals
	s.store.View(ctx, func(snap snapshot.Snapshot) {
		totals = profile.Totals{
			Income:   snap.TotalIncome(),
			Expenses: snap.TotalExpenses(),
			Balance:  snap.Balance(),
		}
	})
	return totals
}
