package category

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/manatly/manat/pkg/snapshot"
	log "github.com/sirupsen/logrus"
)

type CategoryDTO struct {
	ID          string                 `json:"id,omitempty"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Group       snapshot.CategoryGroup `json:"group"`
	IsCustom    bool                   `json:"isCustom,omitempty"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetPresets(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userType := snapshot.UserType(r.URL.Query().Get("userType"))
	presets := h.service.GetPresetCategories(userType)

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(toDTOs(presets)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) GetAvailable(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	available := h.service.Available(r.Context())

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(toDTOs(available)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) GetSelected(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	selected := h.service.Selected(r.Context())

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(toDTOs(selected)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (h *Handler) AddCustom(w http.ResponseWriter, r *http.Request) {
	log.Debug("Registering new custom category")
	w.Header().Set("Content-Type", "application/json")

	var dto CategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.service.AddCustomCategory(r.Context(), CustomCategoryInput{
		Name:        dto.Name,
		Description: dto.Description,
		Group:       dto.Group,
	})
	if err != nil {
		if errors.Is(err, ErrEmptyName) || errors.Is(err, ErrInvalidGroup) {
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

func (h *Handler) SetSelected(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var dtos []CategoryDTO
	if err := json.NewDecoder(r.Body).Decode(&dtos); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	categories := make([]snapshot.Category, 0, len(dtos))
	for _, dto := range dtos {
		categories = append(categories, snapshot.Category{
			ID:          dto.ID,
			Name:        dto.Name,
			Description: dto.Description,
			Group:       dto.Group,
			IsCustom:    dto.IsCustom,
		})
	}
	if err := h.service.SetSelectedCategories(r.Context(), categories); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func toDTO(c snapshot.Category) CategoryDTO {
	return CategoryDTO{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Group:       c.Group,
		IsCustom:    c.IsCustom,
	}
}

func toDTOs(categories []snapshot.Category) []CategoryDTO {
	dtos := make([]CategoryDTO, 0, len(categories))
	for _, c := range categories {
		dtos = append(dtos, toDTO(c))
	}
	return dtos
}
