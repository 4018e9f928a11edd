// Package catalog provides the food items, cooking phases and appliances that
// plan requests reference. Default entries are seeded and read-only; custom
// entries can be created, updated and deleted.
package catalog

import (
	"context"
	"errors"

	"github.com/kilianp07/mealplan/core/model"
)

var (
	// ErrNotFound is returned when an ID does not resolve.
	ErrNotFound = errors.New("catalog entry not found")
	// ErrReadOnly is returned when modifying a default entry.
	ErrReadOnly = errors.New("default catalog entries are read-only")
)

// Reader resolves catalog references. Implementations never mutate the
// returned values after handing them out.
type Reader interface {
	FoodItem(ctx context.Context, id int64) (model.FoodItem, error)
	CookingPhase(ctx context.Context, id int64) (model.CookingPhase, error)
	Appliance(ctx context.Context, id int64) (model.Appliance, error)
}

// Store is a Reader that also supports listing and editing custom entries.
type Store interface {
	Reader

	ListFoodItems(ctx context.Context) ([]model.FoodItem, error)
	CreateFoodItem(ctx context.Context, f model.FoodItem) (model.FoodItem, error)
	UpdateFoodItem(ctx context.Context, f model.FoodItem) (model.FoodItem, error)
	DeleteFoodItem(ctx context.Context, id int64) error

	ListCookingPhases(ctx context.Context) ([]model.CookingPhase, error)
	CreateCookingPhase(ctx context.Context, c model.CookingPhase) (model.CookingPhase, error)
	UpdateCookingPhase(ctx context.Context, c model.CookingPhase) (model.CookingPhase, error)
	DeleteCookingPhase(ctx context.Context, id int64) error

	ListAppliances(ctx context.Context) ([]model.Appliance, error)
	CreateAppliance(ctx context.Context, a model.Appliance) (model.Appliance, error)
	UpdateAppliance(ctx context.Context, a model.Appliance) (model.Appliance, error)
	DeleteAppliance(ctx context.Context, id int64) error

	Close() error
}
