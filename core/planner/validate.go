package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kilianp07/mealplan/core/catalog"
	"github.com/kilianp07/mealplan/core/model"
)

const (
	maxNameLen        = 255
	maxDescriptionLen = 1000
)

// resolver caches catalog lookups for the duration of one request.
type resolver struct {
	cat    catalog.Reader
	food   map[int64]model.FoodItem
	phases map[int64]model.CookingPhase
	apps   map[int64]model.Appliance
}

func newResolver(cat catalog.Reader) *resolver {
	return &resolver{
		cat:    cat,
		food:   map[int64]model.FoodItem{},
		phases: map[int64]model.CookingPhase{},
		apps:   map[int64]model.Appliance{},
	}
}

func lookup[T any](ctx context.Context, cache map[int64]T, id int64, get func(context.Context, int64) (T, error)) (T, bool, error) {
	if v, ok := cache[id]; ok {
		return v, true, nil
	}
	v, err := get(ctx, id)
	if errors.Is(err, catalog.ErrNotFound) {
		return v, false, nil
	}
	if err != nil {
		return v, false, err
	}
	cache[id] = v
	return v, true, nil
}

// Validate checks req against the limits in cfg and the catalog, and returns
// the dishes with every reference resolved to a name. Problems are collected
// into a *ValidationError; catalog failures other than a missing entry are
// returned as-is.
func Validate(ctx context.Context, req model.PlanRequest, cat catalog.Reader, cfg Config, now time.Time) ([]model.Dish, error) {
	verr := &ValidationError{}

	if len(req.Name) > maxNameLen {
		verr.add("name", ErrConstraintViolation, "must not exceed %d characters", maxNameLen)
	}
	if len(req.Description) > maxDescriptionLen {
		verr.add("description", ErrConstraintViolation, "must not exceed %d characters", maxDescriptionLen)
	}
	switch {
	case req.ServeTime.IsZero():
		verr.add("serve_time", ErrConstraintViolation, "is required")
	case !req.ServeTime.After(now):
		verr.add("serve_time", ErrConstraintViolation, "must be in the future")
	}
	if req.Workers < 1 || req.Workers > cfg.MaxWorkers {
		verr.add("workers", ErrConstraintViolation, "must be between 1 and %d", cfg.MaxWorkers)
	}
	if len(req.Dishes) == 0 {
		verr.add("dishes", ErrDegenerateInput, "at least one dish is required")
		return nil, verr
	}

	res := newResolver(cat)
	dishes := make([]model.Dish, 0, len(req.Dishes))
	total := 0
	for i, entry := range req.Dishes {
		field := fmt.Sprintf("dishes.%d", i)
		dish := model.Dish{FoodItemID: entry.FoodItemID}
		food, ok, err := lookup(ctx, res.food, entry.FoodItemID, res.cat.FoodItem)
		if err != nil {
			return nil, fmt.Errorf("resolve food item %d: %w", entry.FoodItemID, err)
		}
		if ok {
			dish.Name = food.Name
		} else {
			verr.add(field+".food_item_id", ErrInvalidReference, "food item %d does not exist", entry.FoodItemID)
		}
		if len(entry.Phases) == 0 {
			verr.add(field+".phases", ErrDegenerateInput, "at least one phase is required")
		}
		total += len(entry.Phases)
		for j, pe := range entry.Phases {
			spec, err := res.phase(ctx, verr, fmt.Sprintf("%s.phases.%d", field, j), pe, cfg)
			if err != nil {
				return nil, err
			}
			dish.Phases = append(dish.Phases, spec)
		}
		dishes = append(dishes, dish)
	}
	if total > cfg.MaxTasks {
		verr.add("dishes", ErrConstraintViolation, "%d phases exceed the limit of %d", total, cfg.MaxTasks)
	}
	if !verr.empty() {
		return nil, verr
	}
	return dishes, nil
}

func (r *resolver) phase(ctx context.Context, verr *ValidationError, field string, pe model.PhaseEntry, cfg Config) (model.PhaseSpec, error) {
	spec := model.PhaseSpec{PhaseID: pe.PhaseID, DurationMinutes: pe.DurationMinutes}
	if pe.DurationMinutes < 1 || pe.DurationMinutes > cfg.MaxPhaseMinutes {
		verr.add(field+".duration_minutes", ErrConstraintViolation, "must be between 1 and %d", cfg.MaxPhaseMinutes)
	}
	phase, found, err := lookup(ctx, r.phases, pe.PhaseID, r.cat.CookingPhase)
	if err != nil {
		return spec, fmt.Errorf("resolve cooking phase %d: %w", pe.PhaseID, err)
	}
	if !found {
		verr.add(field+".phase_id", ErrInvalidReference, "cooking phase %d does not exist", pe.PhaseID)
	} else {
		spec.PhaseName = phase.Name
	}
	if pe.ApplianceID != nil {
		app, ok, err := lookup(ctx, r.apps, *pe.ApplianceID, r.cat.Appliance)
		if err != nil {
			return spec, fmt.Errorf("resolve appliance %d: %w", *pe.ApplianceID, err)
		}
		if ok {
			spec.ApplianceID = app.ID
			spec.ApplianceName = app.Name
		} else {
			verr.add(field+".appliance_id", ErrInvalidReference, "appliance %d does not exist", *pe.ApplianceID)
		}
	}
	if found {
		switch {
		case phase.ApplianceRequired && pe.ApplianceID == nil:
			verr.add(field+".appliance_id", ErrConstraintViolation, "%s requires an appliance", phase.Name)
		case !phase.ApplianceRequired && pe.ApplianceID != nil:
			verr.add(field+".appliance_id", ErrConstraintViolation, "%s does not use an appliance", phase.Name)
		}
	}
	return spec, nil
}
