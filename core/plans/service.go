// Package plans generates plans, persists the ones marked for saving and
// announces every lifecycle change on the event bus.
package plans

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kilianp07/mealplan/core/events"
	"github.com/kilianp07/mealplan/core/logger"
	"github.com/kilianp07/mealplan/core/model"
	"github.com/kilianp07/mealplan/core/planner"
	"github.com/kilianp07/mealplan/core/store"
	"github.com/kilianp07/mealplan/internal/eventbus"
)

// ErrStorageDisabled is returned by store operations when no plan store is
// configured.
var ErrStorageDisabled = errors.New("plan storage is disabled")

// Service is safe for concurrent use.
type Service struct {
	planner *planner.Planner
	store   store.PlanStore
	bus     *eventbus.Bus[events.PlanEvent]
	log     logger.Logger
	now     func() time.Time
}

// NewService wires a planner with an optional store and bus.
func NewService(p *planner.Planner, st store.PlanStore, bus *eventbus.Bus[events.PlanEvent], log logger.Logger) *Service {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Service{planner: p, store: st, bus: bus, log: log, now: time.Now}
}

// StorageEnabled reports whether plans can be saved.
func (s *Service) StorageEnabled() bool { return s.store != nil }

func (s *Service) publish(ev events.PlanEvent) {
	if s.bus == nil {
		return
	}
	if ev.Time.IsZero() {
		ev.Time = s.now().UTC()
	}
	s.bus.Publish(ev)
}

// Generate produces a plan for req. When req.Save is set the plan and its
// request are stored; a failed save is returned after the plan was built, so
// callers get both.
func (s *Service) Generate(ctx context.Context, req model.PlanRequest) (*model.Plan, error) {
	if req.Save && s.store == nil {
		return nil, ErrStorageDisabled
	}
	plan, err := s.planner.Generate(ctx, req)
	if err != nil {
		s.publish(events.PlanEvent{Action: events.ActionRejected, Name: req.Name, Reason: planner.Reason(err)})
		return nil, err
	}
	s.publish(events.PlanEvent{Action: events.ActionGenerated, PlanID: plan.ID, Name: req.Name, Tasks: len(plan.Tasks), Time: plan.GeneratedAt})
	if !req.Save {
		return plan, nil
	}
	saved := model.SavedPlan{
		ID:          plan.ID,
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   plan.GeneratedAt,
		Request:     req,
		Plan:        *plan,
	}
	if err := s.store.Save(ctx, saved); err != nil {
		return plan, fmt.Errorf("save plan %s: %w", plan.ID, err)
	}
	s.log.Infof("saved plan %s (%q)", plan.ID, req.Name)
	s.publish(events.PlanEvent{Action: events.ActionSaved, PlanID: plan.ID, Name: req.Name, Tasks: len(plan.Tasks)})
	return plan, nil
}

// Get returns a saved plan.
func (s *Service) Get(ctx context.Context, id string) (model.SavedPlan, error) {
	if s.store == nil {
		return model.SavedPlan{}, ErrStorageDisabled
	}
	return s.store.Get(ctx, id)
}

// List returns saved plans, newest first.
func (s *Service) List(ctx context.Context) ([]model.SavedPlan, error) {
	if s.store == nil {
		return nil, ErrStorageDisabled
	}
	return s.store.List(ctx)
}

// Delete removes a saved plan.
func (s *Service) Delete(ctx context.Context, id string) error {
	if s.store == nil {
		return ErrStorageDisabled
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(events.PlanEvent{Action: events.ActionDeleted, PlanID: id})
	return nil
}
