package category

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/manatly/manat/pkg/profile"
	"github.com/manatly/manat/pkg/snapshot"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var (
	ErrEmptyName    = errors.New("category name must not be empty")
	ErrInvalidGroup = errors.New("invalid category group")
)

type CustomCategoryInput struct {
	Name        string
	Description string
	Group       snapshot.CategoryGroup
}

type Service interface {
	GetPresetCategories(userType snapshot.UserType) []snapshot.Category
	Available(ctx context.Context) []snapshot.Category
	Selected(ctx context.Context) []snapshot.Category
	AddCustomCategory(ctx context.Context, input CustomCategoryInput) (snapshot.Category, error)
	SetSelectedCategories(ctx context.Context, categories []snapshot.Category) error
}

type ServiceImpl struct {
	store *profile.StateStore
}

func NewService(store *profile.StateStore) *ServiceImpl {
	return &ServiceImpl{store: store}
}

// GetPresetCategories is deterministic and has no side effects.
func (s *ServiceImpl) GetPresetCategories(userType snapshot.UserType) []snapshot.Category {
	return Presets(userType)
}

// Available merges the presets of the active archetype with the custom
// categories, de-duplicated by id. Custom entries win on id collision.
func (s *ServiceImpl) Available(ctx context.Context) []snapshot.Category {
	var available []snapshot.Category
	s.store.View(ctx, func(snap snapshot.Snapshot) {
		available = mergeAvailable(snap)
	})
	return available
}

// Selected returns the current selection, reconciled against the available
// set: ids that are no longer available (e.g. after an archetype switch)
// are silently dropped and the pruned selection is written back.
func (s *ServiceImpl) Selected(ctx context.Context) []snapshot.Category {
	var selected []snapshot.Category
	err := s.store.Update(ctx, func(snap *snapshot.Snapshot) error {
		available := map[string]bool{}
		for _, c := range mergeAvailable(*snap) {
			available[c.ID] = true
		}
		kept := snap.SelectedCategories[:0]
		for _, c := range snap.SelectedCategories {
			if available[c.ID] {
				kept = append(kept, c)
			} else {
				log.Debugf("dropping selected category %q, no longer available", c.ID)
			}
		}
		snap.SelectedCategories = kept
		selected = append([]snapshot.Category(nil), kept...)
		return nil
	})
	if err != nil {
		log.Errorf("failed to reconcile selected categories: %v", err)
	}
	return selected
}

func (s *ServiceImpl) AddCustomCategory(ctx context.Context, input CustomCategoryInput) (snapshot.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return snapshot.Category{}, ErrEmptyName
	}
	switch input.Group {
	case snapshot.GroupDaily, snapshot.GroupMonthly:
	default:
		return snapshot.Category{}, fmt.Errorf("%w: %q", ErrInvalidGroup, input.Group)
	}

	created := snapshot.Category{
		ID:          "custom-" + uuid.NewString(),
		Name:        name,
		Description: input.Description,
		Group:       input.Group,
		IsCustom:    true,
	}
	err := s.store.Update(ctx, func(snap *snapshot.Snapshot) error {
		snap.CustomCategories = append(snap.CustomCategories, created)
		snap.SelectedCategories = append(snap.SelectedCategories, created)
		return nil
	})
	if err != nil {
		return snapshot.Category{}, err
	}
	return created, nil
}

// SetSelectedCategories replaces the selection set wholesale.
func (s *ServiceImpl) SetSelectedCategories(ctx context.Context, categories []snapshot.Category) error {
	return s.store.Update(ctx, func(snap *snapshot.Snapshot) error {
		snap.SelectedCategories = append([]snapshot.Category{}, categories...)
		return nil
	})
}

func mergeAvailable(snap snapshot.Snapshot) []snapshot.Category {
	merged := make([]snapshot.Category, 0)
	index := map[string]int{}
	for _, c := range Presets(snap.UserType) {
		index[c.ID] = len(merged)
		merged = append(merged, c)
	}
	for _, c := range snap.CustomCategories {
		if i, ok := index[c.ID]; ok {
			merged[i] = c
			continue
		}
		index[c.ID] = len(merged)
		merged = append(merged, c)
	}
	return merged
}
