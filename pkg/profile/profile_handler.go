package profile

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/manatly/manat/pkg/snapshot"
	log "github.com/sirupsen/logrus"
)

// OverviewDTO is the whole-profile read model served to clients.
type OverviewDTO struct {
	snapshot.Snapshot
	Totals Totals `json:"totals"`
}

type UserTypeDTO struct {
	UserType string `json:"userType"`
}

type DetailsDTO struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	BirthDate *string `json:"birthDate,omitempty"`
}

type BudgetDTO struct {
	Amount float64 `json:"amount"`
}

type CurrencyDTO struct {
	Currency string `json:"currency"`
}

type ThemeDTO struct {
	Theme string `json:"theme"`
}

type LanguageDTO struct {
	Language string `json:"language"`
}

type StudentIncomePreferenceDTO struct {
	Preference string `json:"preference"`
}

type NotificationsDTO struct {
	Enabled bool `json:"enabled"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	overview := h.service.Get(r.Context())
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(OverviewDTO{Snapshot: overview.Snapshot, Totals: overview.Totals}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) SetUserType(w http.ResponseWriter, r *http.Request) {
	var dto UserTypeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.service.SetUserType(r.Context(), snapshot.UserType(dto.UserType)); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var dto DetailsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	details, err := h.service.UpdateDetails(r.Context(), DetailsUpdate{
		FirstName: dto.FirstName,
		LastName:  dto.LastName,
		BirthDate: dto.BirthDate,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(details); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) SetBudget(w http.ResponseWriter, r *http.Request) {
	var dto BudgetDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.service.SetBudget(r.Context(), dto.Amount); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SetCurrency(w http.ResponseWriter, r *http.Request) {
	var dto CurrencyDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.service.SetCurrency(r.Context(), snapshot.CurrencyCode(dto.Currency)); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SetTheme(w http.ResponseWriter, r *http.Request) {
	var dto ThemeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.service.SetTheme(r.Context(), snapshot.ThemeMode(dto.Theme)); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SetLanguage(w http.ResponseWriter, r *http.Request) {
	var dto LanguageDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.service.SetLanguage(r.Context(), snapshot.LanguageCode(dto.Language)); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SetStudentIncomePreference(w http.ResponseWriter, r *http.Request) {
	var dto StudentIncomePreferenceDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.service.SetStudentIncomePreference(r.Context(), snapshot.StudentIncomePreference(dto.Preference)); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ToggleNotifications(w http.ResponseWriter, r *http.Request) {
	var dto NotificationsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.service.ToggleNotifications(r.Context(), dto.Enabled); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	h.service.Reset(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	log.Debug("Exporting profile data")
	document, err := h.service.Export(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="manat-export.json"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(document); err != nil {
		log.Warnf("failed to write export response: %v", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrInvalidUserType) ||
		errors.Is(err, ErrInvalidBudget) ||
		errors.Is(err, ErrInvalidCurrency) ||
		errors.Is(err, ErrInvalidTheme) ||
		errors.Is(err, ErrInvalidLanguage) ||
		errors.Is(err, ErrInvalidPref) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
