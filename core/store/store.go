// Package store persists generated plans together with the request that
// produced them.
package store

import (
	"context"
	"errors"

	"github.com/kilianp07/mealplan/core/model"
)

// ErrNotFound is returned when no plan has the requested id.
var ErrNotFound = errors.New("plan not found")

// PlanStore keeps saved plans.
type PlanStore interface {
	Save(ctx context.Context, p model.SavedPlan) error
	Get(ctx context.Context, id string) (model.SavedPlan, error)
	// List returns saved plans, newest first.
	List(ctx context.Context) ([]model.SavedPlan, error)
	Delete(ctx context.Context, id string) error
	Close() error
}
