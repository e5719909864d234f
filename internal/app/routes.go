package app

import (
	"github.com/gorilla/mux"
	"github.com/manatly/manat/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Profile and settings
	r.HandleFunc("/api/profile", deps.ProfileHandler.Get).Methods("GET")
	r.HandleFunc("/api/profile/usertype", deps.ProfileHandler.SetUserType).Methods("PUT")
	r.HandleFunc("/api/profile/details", deps.ProfileHandler.UpdateDetails).Methods("PUT")
	r.HandleFunc("/api/profile/budget", deps.ProfileHandler.SetBudget).Methods("PUT")
	r.HandleFunc("/api/profile/currency", deps.ProfileHandler.SetCurrency).Methods("PUT")
	r.HandleFunc("/api/profile/theme", deps.ProfileHandler.SetTheme).Methods("PUT")
	r.HandleFunc("/api/profile/language", deps.ProfileHandler.SetLanguage).Methods("PUT")
	r.HandleFunc("/api/profile/student-income", deps.ProfileHandler.SetStudentIncomePreference).Methods("PUT")
	r.HandleFunc("/api/profile/notifications", deps.ProfileHandler.ToggleNotifications).Methods("PUT")
	r.HandleFunc("/api/profile/reset", deps.ProfileHandler.Reset).Methods("POST")
	r.HandleFunc("/api/profile/export", deps.ProfileHandler.Export).Methods("GET")

	// Categories
	r.HandleFunc("/api/categories/presets", deps.CategoryHandler.GetPresets).Methods("GET")
	r.HandleFunc("/api/categories", deps.CategoryHandler.GetAvailable).Methods("GET")
	r.HandleFunc("/api/categories/custom", deps.CategoryHandler.AddCustom).Methods("POST")
	r.HandleFunc("/api/categories/selected", deps.CategoryHandler.GetSelected).Methods("GET")
	r.HandleFunc("/api/categories/selected", deps.CategoryHandler.SetSelected).Methods("PUT")

	// Ledger
	r.HandleFunc("/api/expenses", deps.LedgerHandler.GetExpenses).Methods("GET")
	r.HandleFunc("/api/expenses", deps.LedgerHandler.AddExpense).Methods("POST")
	r.HandleFunc("/api/incomes", deps.LedgerHandler.GetIncomes).Methods("GET")
	r.HandleFunc("/api/incomes", deps.LedgerHandler.AddIncome).Methods("POST")
	r.HandleFunc("/api/incomes/{id}", deps.LedgerHandler.RemoveIncome).Methods("DELETE")

	// Income reminders
	r.HandleFunc("/api/reminders", deps.ReminderHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/reminders/pending", deps.ReminderHandler.GetPending).Methods("GET")
	r.HandleFunc("/api/reminders", deps.ReminderHandler.Add).Methods("POST")
	r.HandleFunc("/api/reminders/{id}", deps.ReminderHandler.Update).Methods("PUT")
	r.HandleFunc("/api/reminders/{id}/confirm", deps.ReminderHandler.Confirm).Methods("POST")
	r.HandleFunc("/api/reminders/{id}/skip", deps.ReminderHandler.Skip).Methods("POST")
	r.HandleFunc("/api/reminders/{id}", deps.ReminderHandler.Remove).Methods("DELETE")
}
