package reminder

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/manatly/manat/pkg/snapshot"
	log "github.com/sirupsen/logrus"
)

type ReminderDTO struct {
	ID               string     `json:"id,omitempty"`
	SourceType       string     `json:"sourceType"`
	Label            string     `json:"label"`
	Frequency        string     `json:"frequency"`
	DayOfMonth       int        `json:"dayOfMonth,omitempty"`
	Weekday          *int       `json:"weekday,omitempty"`
	NextTrigger      string     `json:"nextTrigger,omitempty"`
	AutoAddOnConfirm bool       `json:"autoAddOnConfirm"`
	WindowStartDay   int        `json:"windowStartDay,omitempty"`
	WindowEndDay     int        `json:"windowEndDay,omitempty"`
	AutoRenew        bool       `json:"autoRenew,omitempty"`
	DefaultAmount    float64    `json:"defaultAmount,omitempty"`
	RemindHour       *int       `json:"remindHour,omitempty"`
	RemindMinute     *int       `json:"remindMinute,omitempty"`
	LastTriggeredAt  string     `json:"lastTriggeredAt,omitempty"`
	LastReceivedAt   *time.Time `json:"lastReceivedAt,omitempty"`
	Notes            string     `json:"notes,omitempty"`
}

type UpdateReminderDTO struct {
	Label          *string  `json:"label,omitempty"`
	NextTrigger    *string  `json:"nextTrigger,omitempty"`
	DayOfMonth     *int     `json:"dayOfMonth,omitempty"`
	Weekday        *int     `json:"weekday,omitempty"`
	WindowStartDay *int     `json:"windowStartDay,omitempty"`
	WindowEndDay   *int     `json:"windowEndDay,omitempty"`
	AutoRenew      *bool    `json:"autoRenew,omitempty"`
	DefaultAmount  *float64 `json:"defaultAmount,omitempty"`
	RemindHour     *int     `json:"remindHour,omitempty"`
	RemindMinute   *int     `json:"remindMinute,omitempty"`
	Notes          *string  `json:"notes,omitempty"`
}

type ConfirmDTO struct {
	Amount     float64    `json:"amount"`
	ReceivedAt *time.Time `json:"receivedAt,omitempty"`
}

type SkipDTO struct {
	NextTrigger string `json:"nextTrigger,omitempty"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	reminders := h.service.List(r.Context())
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(toDTOs(reminders)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) GetPending(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	pending := h.service.Pending(r.Context())
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(toDTOs(pending)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	log.Debug("Registering new income reminder")
	w.Header().Set("Content-Type", "application/json")

	var dto ReminderDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.service.Add(r.Context(), AddInput{
		SourceType:       snapshot.IncomeSourceType(dto.SourceType),
		Label:            dto.Label,
		Frequency:        snapshot.IncomeFrequency(dto.Frequency),
		DayOfMonth:       dto.DayOfMonth,
		Weekday:          dto.Weekday,
		NextTrigger:      dto.NextTrigger,
		AutoAddOnConfirm: dto.AutoAddOnConfirm,
		WindowStartDay:   dto.WindowStartDay,
		WindowEndDay:     dto.WindowEndDay,
		AutoRenew:        dto.AutoRenew,
		DefaultAmount:    dto.DefaultAmount,
		RemindHour:       dto.RemindHour,
		RemindMinute:     dto.RemindMinute,
		Notes:            dto.Notes,
	})
	if err != nil {
		if isValidationError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(toDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	vars := mux.Vars(r)

	var dto UpdateReminderDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, found, err := h.service.Update(r.Context(), vars["id"], UpdateInput{
		Label:          dto.Label,
		NextTrigger:    dto.NextTrigger,
		DayOfMonth:     dto.DayOfMonth,
		Weekday:        dto.Weekday,
		WindowStartDay: dto.WindowStartDay,
		WindowEndDay:   dto.WindowEndDay,
		AutoRenew:      dto.AutoRenew,
		DefaultAmount:  dto.DefaultAmount,
		RemindHour:     dto.RemindHour,
		RemindMinute:   dto.RemindMinute,
		Notes:          dto.Notes,
	})
	if err != nil {
		if isValidationError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "Reminder not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(toDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	vars := mux.Vars(r)

	var dto ConfirmDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, found := h.service.Confirm(r.Context(), vars["id"], dto.Amount, dto.ReceivedAt)
	if !found {
		http.Error(w, "Reminder not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(toDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Skip(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	vars := mux.Vars(r)

	var dto SkipDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, found := h.service.Skip(r.Context(), vars["id"], dto.NextTrigger)
	if !found {
		http.Error(w, "Reminder not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(toDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	if !h.service.Remove(r.Context(), vars["id"]) {
		http.Error(w, "Reminder not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func isValidationError(err error) bool {
	return errors.Is(err, ErrEmptyLabel) ||
		errors.Is(err, ErrInvalidFrequency) ||
		errors.Is(err, ErrInvalidSourceType) ||
		errors.Is(err, ErrInvalidWindow) ||
		errors.Is(err, ErrInvalidRemindTime) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidWeekday)
}

func toDTO(rem snapshot.IncomeReminder) ReminderDTO {
	hour := rem.RemindHour
	minute := rem.RemindMinute
	return ReminderDTO{
		ID:               rem.ID,
		SourceType:       string(rem.SourceType),
		Label:            rem.Label,
		Frequency:        string(rem.Frequency),
		DayOfMonth:       rem.DayOfMonth,
		Weekday:          rem.Weekday,
		NextTrigger:      rem.NextTrigger,
		AutoAddOnConfirm: rem.AutoAddOnConfirm,
		WindowStartDay:   rem.WindowStartDay,
		WindowEndDay:     rem.WindowEndDay,
		AutoRenew:        rem.AutoRenew,
		DefaultAmount:    rem.DefaultAmount,
		RemindHour:       &hour,
		RemindMinute:     &minute,
		LastTriggeredAt:  rem.LastTriggeredAt,
		LastReceivedAt:   rem.LastReceivedAt,
		Notes:            rem.Notes,
	}
}

func toDTOs(reminders []snapshot.IncomeReminder) []ReminderDTO {
	dtos := make([]ReminderDTO, 0, len(reminders))
	for _, rem := range reminders {
		dtos = append(dtos, toDTO(rem))
	}
	return dtos
}
