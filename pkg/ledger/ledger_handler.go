package ledger

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/manatly/manat/pkg/snapshot"
	log "github.com/sirupsen/logrus"
)

type ExpenseDTO struct {
	ID         string     `json:"id,omitempty"`
	CategoryID string     `json:"categoryId"`
	Title      string     `json:"title"`
	Amount     float64    `json:"amount"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
}

type IncomeDTO struct {
	ID         string     `json:"id,omitempty"`
	Source     string     `json:"source"`
	Amount     float64    `json:"amount"`
	ReceivedAt *time.Time `json:"receivedAt,omitempty"`
	ReminderID string     `json:"reminderId,omitempty"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetExpenses(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	expenses := h.service.Expenses(r.Context())
	dtos := make([]ExpenseDTO, 0, len(expenses))
	for _, expense := range expenses {
		dtos = append(dtos, expenseToDTO(expense))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) AddExpense(w http.ResponseWriter, r *http.Request) {
	log.Debug("Registering new expense")
	w.Header().Set("Content-Type", "application/json")

	var dto ExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	expense, err := h.service.AddExpense(r.Context(), ExpenseInput{
		CategoryID: dto.CategoryID,
		Title:      dto.Title,
		Amount:     dto.Amount,
		CreatedAt:  dto.CreatedAt,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidAmount) || errors.Is(err, ErrEmptyTitle) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(expenseToDTO(expense)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) GetIncomes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	incomes := h.service.Incomes(r.Context())
	dtos := make([]IncomeDTO, 0, len(incomes))
	for _, income := range incomes {
		dtos = append(dtos, incomeToDTO(income))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) AddIncome(w http.ResponseWriter, r *http.Request) {
	log.Debug("Registering new income")
	w.Header().Set("Content-Type", "application/json")

	var dto IncomeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	income, err := h.service.AddIncome(r.Context(), IncomeInput{
		Source:     dto.Source,
		Amount:     dto.Amount,
		ReceivedAt: dto.ReceivedAt,
		ReminderID: dto.ReminderID,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidAmount) || errors.Is(err, ErrEmptySource) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(incomeToDTO(income)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) RemoveIncome(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.service.RemoveIncome(r.Context(), vars["id"]); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func expenseToDTO(expense snapshot.Expense) ExpenseDTO {
	createdAt := expense.CreatedAt
	return ExpenseDTO{
		ID:         expense.ID,
		CategoryID: expense.CategoryID,
		Title:      expense.Title,
		Amount:     expense.Amount,
		CreatedAt:  &createdAt,
	}
}

func incomeToDTO(income snapshot.Income) IncomeDTO {
	receivedAt := income.ReceivedAt
	return IncomeDTO{
		ID:         income.ID,
		Source:     income.Source,
		Amount:     income.Amount,
		ReceivedAt: &receivedAt,
		ReminderID: income.ReminderID,
	}
}
